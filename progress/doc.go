// Package progress keeps aggregated allocation counters (submitted, allocated,
// queued, drained, ...) for a running allocator.
package progress
