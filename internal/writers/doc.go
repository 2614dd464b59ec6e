// Package writers turns predictions into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (delimited rows, JSONL).
//   - The encoder stays domain-only; the pipeline stays
//     orchestration-only.
//   - JSONL goes through pkg/api (v1) for a stable wire format.
//
// Each Start* function owns one goroutine; the returned error channel
// yields exactly one value after the input channel closes.
package writers
