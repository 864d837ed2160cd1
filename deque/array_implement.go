package deque

// capacity is rounded up to a multiple of base
const base = 8

type ArrDeque[T any] struct {
	arr      []T
	head     int // index of the first element
	size     int
	capacity int
}

var _ Deque[int] = (*ArrDeque[int])(nil)

func NewArrDeque[T any](capacity int) *ArrDeque[T] {
	if capacity <= 0 {
		capacity = base
	}
	if remainder := capacity % base; remainder != 0 {
		capacity = capacity - remainder + base
	}
	return &ArrDeque[T]{
		arr:      make([]T, capacity),
		capacity: capacity,
	}
}

func (ad *ArrDeque[T]) Size() int {
	return ad.size
}

func (ad *ArrDeque[T]) Cap() int {
	return ad.capacity
}

func (ad *ArrDeque[T]) index(i int) int {
	if i < 0 || i >= ad.size {
		panic("index out of length")
	}
	return (ad.head + i) % ad.capacity
}

func (ad *ArrDeque[T]) Get(i int) T {
	return ad.arr[ad.index(i)]
}

func (ad *ArrDeque[T]) GetPtr(i int) *T {
	return &ad.arr[ad.index(i)]
}

func (ad *ArrDeque[T]) Set(i int, v T) {
	ad.arr[ad.index(i)] = v
}

func (ad *ArrDeque[T]) Traverse(f func(i int, item *T)) {
	ad.TraverseRange(0, ad.size, f)
}

// TraverseRange splits the visit into at most two runs over the backing
// array, before and after the wrap point.
func (ad *ArrDeque[T]) TraverseRange(start, end int, f func(i int, item *T)) {
	if start < 0 {
		start = 0
	}
	if end > ad.size {
		end = ad.size
	}
	if start >= end {
		return
	}
	first := (ad.head + start) % ad.capacity
	l1 := end - start
	if first+l1 > ad.capacity {
		l1 = ad.capacity - first
	}
	k := start
	for z := first; z < first+l1; z++ {
		f(k, &ad.arr[z])
		k++
	}
	for z := 0; k < end; z++ {
		f(k, &ad.arr[z])
		k++
	}
}

func (ad *ArrDeque[T]) AddLast(v T) bool {
	if ad.IsFull() {
		return false
	}
	ad.arr[(ad.head+ad.size)%ad.capacity] = v
	ad.size++
	return true
}

func (ad *ArrDeque[T]) RemoveLast() (T, bool) {
	var zero T
	if ad.IsEmpty() {
		return zero, false
	}
	z := (ad.head + ad.size - 1) % ad.capacity
	v := ad.arr[z]
	ad.arr[z] = zero
	ad.size--
	return v, true
}

func (ad *ArrDeque[T]) AddFirst(v T) bool {
	if ad.IsFull() {
		return false
	}
	ad.head = (ad.head - 1 + ad.capacity) % ad.capacity
	ad.arr[ad.head] = v
	ad.size++
	return true
}

func (ad *ArrDeque[T]) RemoveFirst() (T, bool) {
	var zero T
	if ad.IsEmpty() {
		return zero, false
	}
	v := ad.arr[ad.head]
	ad.arr[ad.head] = zero
	ad.head = (ad.head + 1) % ad.capacity
	ad.size--
	return v, true
}

// PushEvict appends v, dropping the head first when the deque is full.
func (ad *ArrDeque[T]) PushEvict(v T) {
	if ad.IsFull() {
		ad.RemoveFirst()
	}
	ad.AddLast(v)
}

// Items copies the elements out in order.
func (ad *ArrDeque[T]) Items() []T {
	out := make([]T, 0, ad.size)
	ad.Traverse(func(_ int, item *T) {
		out = append(out, *item)
	})
	return out
}

func (ad *ArrDeque[T]) IsFull() bool {
	return ad.size == ad.capacity
}

func (ad *ArrDeque[T]) IsEmpty() bool {
	return ad.size == 0
}
