// Package deque implements a fixed-capacity double-ended queue on a single
// array. Elements stay contiguous modulo the capacity, so traversal walks
// memory in order.
package deque

type Deque[T any] interface {
	Size() int

	// Get returns the element at position i counted from the head.
	Get(i int) T

	// GetPtr returns a pointer into the backing array, valid until the
	// slot is reused.
	GetPtr(i int) *T

	Set(i int, v T)

	Traverse(f func(i int, item *T))

	// TraverseRange visits positions [start, end).
	TraverseRange(start, end int, f func(i int, item *T))

	// AddLast and AddFirst report false when the deque is full.
	AddLast(v T) bool
	RemoveLast() (T, bool)
	AddFirst(v T) bool
	RemoveFirst() (T, bool)

	IsFull() bool
	IsEmpty() bool
}
