// Package frontier provides the priority queue used by best-first search.
package frontier

import "container/heap"

// Handle to an inserted item, used for decrease-key.
type Entry[T any] struct {
	Item     T
	priority int
	seq      uint64
	index    int
}

func (e *Entry[T]) Priority() int { return e.priority }

// Queued reports whether the entry is still waiting in its queue.
func (e *Entry[T]) Queued() bool { return e.index >= 0 }

// Min-priority queue with decrease-key.
type Queue[T any] interface {
	Insert(item T, priority int) *Entry[T]
	ExtractMin() (*Entry[T], bool)
	DecreaseKey(e *Entry[T], priority int)
	Len() int
}

// Binary heap. Equal priorities pop in insertion order.
type BinaryHeap[T any] struct {
	items entries[T]
	seq   uint64
}

func NewBinaryHeap[T any]() *BinaryHeap[T] {
	return &BinaryHeap[T]{}
}

func (h *BinaryHeap[T]) Insert(item T, priority int) *Entry[T] {
	e := &Entry[T]{Item: item, priority: priority, seq: h.seq}
	h.seq++
	heap.Push(&h.items, e)
	return e
}

func (h *BinaryHeap[T]) ExtractMin() (*Entry[T], bool) {
	if len(h.items) == 0 {
		return nil, false
	}
	return heap.Pop(&h.items).(*Entry[T]), true
}

// DecreaseKey lowers the priority of a queued entry. Larger priorities and
// entries no longer queued are ignored.
func (h *BinaryHeap[T]) DecreaseKey(e *Entry[T], priority int) {
	if !e.Queued() || priority >= e.priority {
		return
	}
	e.priority = priority
	heap.Fix(&h.items, e.index)
}

func (h *BinaryHeap[T]) Len() int { return len(h.items) }

type entries[T any] []*Entry[T]

func (s entries[T]) Len() int { return len(s) }

func (s entries[T]) Less(i, j int) bool {
	if s[i].priority != s[j].priority {
		return s[i].priority < s[j].priority
	}
	return s[i].seq < s[j].seq
}

func (s entries[T]) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
	s[i].index = i
	s[j].index = j
}

func (s *entries[T]) Push(x any) {
	e := x.(*Entry[T])
	e.index = len(*s)
	*s = append(*s, e)
}

func (s *entries[T]) Pop() any {
	old := *s
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*s = old[:n-1]
	return e
}
