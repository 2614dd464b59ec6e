// internal/runutil/runutil.go
package runutil

import "runtime"

// EffectiveThreads resolves the --threads flag: 0 means all CPUs.
func EffectiveThreads(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// ValidateBatching normalizes batch parameters and reports what was
// adjusted. Rules:
//   - batchSize < 1 is raised to 1
//   - prefetch < 1 is raised to 1
//   - a prefetch deeper than the batch count is wasted memory but
//     harmless, so it is left alone
func ValidateBatching(batchSize, prefetch int) (int, int, []string) {
	var warns []string
	if batchSize < 1 {
		warns = append(warns, "warning: --batch-size must be >= 1; using 1")
		batchSize = 1
	}
	if prefetch < 1 {
		warns = append(warns, "warning: --prefetch must be >= 1; using 1")
		prefetch = 1
	}
	return batchSize, prefetch, warns
}
