// Package dataprocessing turns raw per-exchange per-day tick batches into
// classified, timestamp-reconciled record tables.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Trade classification: volume filtering, qualifier flags, reconciled
// timestamps and session-hours anomaly detection
// 2. Quote classification: qualifier flags, reconciled time-of-day and
// degenerate bid/ask scrubbing
// 3. Day realignment: reassigning rows of adjacent capture-day batches to
// their reconciled local trading date
//
// # Data Flow
//
//	Raw daily file → Classify → Parsed records (+ anomaly side tables)
//	                          → Realign      → Final daily records
//
// All transforms are pure over fully materialized batches and produce
// identical results regardless of how a daily file is chunked; the only
// per-invocation state is the qualifier memoization table, which is
// re-derived per chunk.
package dataprocessing
