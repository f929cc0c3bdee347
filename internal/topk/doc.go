// Package topk selects the K highest-scoring items from a stream.
//
// The selector keeps a bounded min-heap of size K keyed by score. Each new item
// is pushed, and whenever the heap grows past K the weakest entry is popped, so
// the heap always holds the K best items seen so far. Draining it yields the
// result in ascending order, which is reversed on the way out.
//
// Time is O(n log K) and auxiliary space is O(K); the input is never sorted.
//
// Example usage:
//
//	largest := topk.Select(records, 5, func(r index.Record) float64 {
//		return r.SizeGB()
//	})
package topk
