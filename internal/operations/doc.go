// Package operations runs the pipeline stages as batches of independent
// tasks over a bounded worker pool.
//
// Each stage fans out one task per unit of work: splitting by
// exchange-month, classification and realignment by exchange-day, and
// extraction and resampling by event. Tasks share nothing but the file
// tree, so a failed task never corrupts a sibling's output. A run ID is
// attached to the context so every log line of a batch can be correlated.
package operations
