// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"ribopred/internal/app"
)

// Small architecture keeps end-to-end runs fast.
var archArgs = []string{
	"--random-init", "--seed", "7",
	"--dim", "8", "--depth", "2", "--head-size", "4",
	"--quiet",
}

func write(t *testing.T, fn, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), fn)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return path
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.Run(append(append([]string{}, archArgs...), args...), &out, &errBuf)
	return code, out.String(), errBuf.String()
}

var rowRe = regexp.MustCompile(`^(\d+),(-?\d+\.\d{4}),(-?\d+\.\d{4})$`)

func TestEndToEndCSV(t *testing.T) {
	in := write(t, "in.csv", "sequence,id_min,id_max\nACGU,0,3\n")

	code, out, errS := run(t, "--input", in)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errS)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "id,reactivity_DMS_MaP,reactivity_2A3_MaP" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if len(lines) != 5 {
		t.Fatalf("expected 4 prediction rows, got %d:\n%s", len(lines)-1, out)
	}
	for i, ln := range lines[1:] {
		m := rowRe.FindStringSubmatch(ln)
		if m == nil {
			t.Fatalf("row %d not formatted with 4 decimals: %q", i, ln)
		}
		if m[1] != fmt.Sprint(i) {
			t.Fatalf("row %d has id %s, want %d", i, m[1], i)
		}
	}
}

func TestProductionOrderAcrossLengths(t *testing.T) {
	// Two records of different length in one batch: every valid
	// position of row 0 precedes every position of row 1, and the
	// padded tail of the short row is never emitted.
	in := write(t, "in.csv",
		"sequence,id_min,id_max\nACG,0,2\nACGUA,3,7\n")

	code, out, errS := run(t, "--input", in)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errS)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 9 {
		t.Fatalf("expected 8 rows, got %d:\n%s", len(lines)-1, out)
	}
	for i, ln := range lines[1:] {
		if !strings.HasPrefix(ln, fmt.Sprintf("%d,", i)) {
			t.Fatalf("position %d has unexpected id: %q", i, ln)
		}
	}
}

func TestEmptyInputHeaderOnly(t *testing.T) {
	in := write(t, "empty.csv", "sequence,id_min,id_max\n")

	code, out, errS := run(t, "--input", in)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errS)
	}
	if out != "id,reactivity_DMS_MaP,reactivity_2A3_MaP\n" {
		t.Fatalf("expected header-only output, got %q", out)
	}
}

func TestUnknownSymbolLeavesNoOutputFile(t *testing.T) {
	in := write(t, "bad.csv", "sequence,id_min,id_max\nACGX,0,3\n")
	outPath := filepath.Join(t.TempDir(), "preds.csv")

	code, _, errS := run(t, "--input", in, "--output", outPath)
	if code != 2 {
		t.Fatalf("expected exit 2, got %d (stderr=%s)", code, errS)
	}
	if !strings.Contains(errS, "unknown symbol") {
		t.Fatalf("stderr should name the bad symbol, got %q", errS)
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Fatalf("output file must not be created on input errors")
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	var b strings.Builder
	b.WriteString("sequence,id_min,id_max\n")
	next := 0
	for i := 0; i < 17; i++ {
		s := strings.Repeat("ACGU", 3+i%5)
		fmt.Fprintf(&b, "%s,%d,%d\n", s, next, next+len(s)-1)
		next += len(s)
	}
	in := write(t, "par.csv", b.String())

	runThreads := func(n int) string {
		code, out, errS := run(t, "--input", in, "--threads", fmt.Sprint(n), "--batch-size", "4")
		if code != 0 {
			t.Fatalf("threads=%d exit %d, stderr=%s", n, code, errS)
		}
		return out
	}
	if serial, parallel := runThreads(1), runThreads(4); serial != parallel {
		t.Fatalf("parallel output differs from serial\nserial:\n%s\nparallel:\n%s", serial, parallel)
	}
}

func TestSameSeedSameOutput(t *testing.T) {
	in := write(t, "det.csv", "sequence,id_min,id_max\nACGUACGU,0,7\n")

	_, first, _ := run(t, "--input", in)
	_, second, _ := run(t, "--input", in)
	if first != second {
		t.Fatalf("same seed must reproduce bit-identical output")
	}
}

func TestSortedJSONL(t *testing.T) {
	in := write(t, "in.csv", "sequence,id_min,id_max\nACGU,0,3\n")

	code, out, errS := run(t, "--input", in, "--out-format", "jsonl", "--sort")
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errS)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 JSONL rows, got %d", len(lines))
	}
	for i, ln := range lines {
		if !strings.Contains(ln, fmt.Sprintf(`"id":%d`, i)) {
			t.Fatalf("line %d out of order or malformed: %q", i, ln)
		}
	}
}

func TestClipBoundsOutput(t *testing.T) {
	in := write(t, "in.csv", "sequence,id_min,id_max\nACGUACGUACGU,0,11\n")

	code, out, errS := run(t, "--input", in, "--clip")
	if code != 0 {
		t.Fatalf("exit %d, stderr=%s", code, errS)
	}
	for _, ln := range strings.Split(strings.TrimRight(out, "\n"), "\n")[1:] {
		m := rowRe.FindStringSubmatch(ln)
		if m == nil {
			t.Fatalf("malformed row %q", ln)
		}
		for _, v := range m[2:] {
			if strings.HasPrefix(v, "-") || (v[0] == '1' && v != "1.0000") {
				t.Fatalf("clipped value out of [0,1]: %q in %q", v, ln)
			}
		}
	}
}
