// Package pipeline streams padded batches through a Forwarder and
// calls a visit callback per prediction, in production order.
//
// Batch construction runs on a producer goroutine ahead of the forward
// pass (a bounded prefetch queue); the caller's goroutine owns the
// forward pass and everything downstream. The only contract to
// implement is predictor.Forwarder, which keeps the pipeline swappable
// and testable.
package pipeline
