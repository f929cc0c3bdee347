package topk

import (
	"container/heap"
	"iter"
	"math"
)

// ScoreFunc ranks an item. Higher scores rank first.
type ScoreFunc[T any] func(T) float64

// Selector keeps the k highest-scoring items pushed into it.
// It holds at most k+1 items at any time, whatever the length of the input.
//
// Items with equal scores keep their input order: the one pushed first ranks higher.
// NaN scores are treated as negative infinity.
//
// Not safe for concurrent use.
type Selector[T any] struct {
	k     int
	score ScoreFunc[T]
	items minHeap[T]
	seq   int
}

// New creates a selector for the top k items by score.
func New[T any](k int, score ScoreFunc[T]) *Selector[T] {
	capacity := 0
	if k > 0 {
		capacity = k + 1
	}
	return &Selector[T]{
		k:     k,
		score: score,
		items: make(minHeap[T], 0, capacity),
	}
}

// Push offers an item. If the selector is over capacity afterwards,
// the lowest-scoring item is evicted.
func (s *Selector[T]) Push(item T) {
	if s.k <= 0 {
		return
	}

	score := s.score(item)
	if math.IsNaN(score) {
		score = math.Inf(-1)
	}

	heap.Push(&s.items, entry[T]{item: item, score: score, seq: s.seq})
	s.seq++

	if s.items.Len() > s.k {
		heap.Pop(&s.items)
	}
}

// Len returns the number of items currently retained.
func (s *Selector[T]) Len() int {
	return s.items.Len()
}

// Result returns the retained items, highest score first.
// The selector is left untouched and can keep accepting items.
func (s *Selector[T]) Result() []T {
	drain := make(minHeap[T], len(s.items))
	copy(drain, s.items)

	// Popping yields ascending order; fill from the back to get descending.
	out := make([]T, len(drain))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&drain).(entry[T]).item
	}
	return out
}

// Select returns the k highest-scoring items in descending score order.
// The result has min(k, len(items)) elements and is empty when k <= 0.
func Select[T any](items []T, k int, score ScoreFunc[T]) []T {
	s := New(k, score)
	for _, item := range items {
		s.Push(item)
	}
	return s.Result()
}

// SelectSeq is Select over a lazy sequence.
func SelectSeq[T any](seq iter.Seq[T], k int, score ScoreFunc[T]) []T {
	s := New(k, score)
	for item := range seq {
		s.Push(item)
	}
	return s.Result()
}

type entry[T any] struct {
	item  T
	score float64
	seq   int
}

// minHeap implements heap.Interface with the weakest entry at the root.
// Lower score is weaker. Within equal scores, the later arrival is weaker,
// so earlier items survive eviction and rank first.
type minHeap[T any] []entry[T]

func (h minHeap[T]) Len() int { return len(h) }

func (h minHeap[T]) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	return h[i].seq > h[j].seq
}

func (h minHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *minHeap[T]) Push(x any) {
	*h = append(*h, x.(entry[T]))
}

func (h *minHeap[T]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
