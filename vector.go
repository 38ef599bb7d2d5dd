package vec

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/teenjuna/vec/buffer"
)

var (
	// ErrOutOfRange is returned by [Vector.At] when the index is outside of [0, Len()).
	ErrOutOfRange = errors.New("index out of range")
)

// Vector is a growable, randomly indexable sequence of elements.
//
// All elements at positions [0, Len()) are valid. Storage at positions [Len(), Cap()) is
// allocated, but lies past the end of the sequence.
//
// Any operation that reallocates the storage (growth in [Vector.Resize], [Vector.PushBack] and
// [Vector.Insert], or [Vector.Reserve]) invalidates all pointers returned by [Vector.Ref] and all
// slices returned by [Vector.Slice]. [Vector.Insert] and [Vector.Erase] invalidate positions at
// and after the mutation point even without reallocation.
//
// Vector must not be copied; use [Vector.Clone] or [Move] instead. Implementations are not
// considered thread-safe.
type Vector[T any] struct {
	buf      buffer.Owning[T]
	size     int
	capacity int
}

// New returns an empty vector without storage.
func New[T any]() *Vector[T] {
	return &Vector[T]{}
}

// Sized returns a vector of size zero-valued elements. Its capacity equals size.
func Sized[T any](size int) *Vector[T] {
	if size < 0 {
		panic("size can't be < 0")
	}
	v := Vector[T]{}
	v.buf.Swap(buffer.New[T](size))
	v.size = size
	v.capacity = size
	return &v
}

// Filled returns a vector of size copies of value. Its capacity equals size.
func Filled[T any](size int, value T) *Vector[T] {
	v := Sized[T](size)
	for i := range v.size {
		*v.buf.At(i) = value
	}
	return v
}

// Of returns a vector holding the provided items in order. Its capacity equals the number of
// items.
func Of[T any](items ...T) *Vector[T] {
	v := Sized[T](len(items))
	copy(v.buf.Data(), items)
	return v
}

// Move returns a vector that adopts the storage of src. src is left empty with zero capacity.
func Move[T any](src *Vector[T]) *Vector[T] {
	v := Vector[T]{}
	v.Swap(src)
	return &v
}

// Clone returns a deep copy of the elements of v. The capacity of the copy equals [Vector.Len]
// of v.
func (v *Vector[T]) Clone() *Vector[T] {
	c := Sized[T](v.size)
	copy(c.buf.Data(), v.Slice())
	return c
}

// Assign replaces the elements of v with a copy of the elements of src.
func (v *Vector[T]) Assign(src *Vector[T]) {
	if v == src {
		return
	}
	c := src.Clone()
	v.Swap(c)
}

// MoveFrom replaces the contents of v with the storage of src. src is left empty with zero
// capacity.
func (v *Vector[T]) MoveFrom(src *Vector[T]) {
	if v == src {
		return
	}
	v.Swap(src)
	src.buf.Free()
	src.size = 0
	src.capacity = 0
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int {
	return v.size
}

// Cap returns the number of elements the storage can hold before reallocation.
func (v *Vector[T]) Cap() int {
	return v.capacity
}

// IsEmpty reports whether the vector has no elements.
func (v *Vector[T]) IsEmpty() bool {
	return v.size == 0
}

// Get returns the element at index. The index is not checked against [Vector.Len].
func (v *Vector[T]) Get(index int) T {
	return *v.buf.At(index)
}

// Set replaces the element at index. The index is not checked against [Vector.Len].
func (v *Vector[T]) Set(index int, value T) {
	*v.buf.At(index) = value
}

// Ref returns a pointer to the element at index. The index is not checked against [Vector.Len].
func (v *Vector[T]) Ref(index int) *T {
	return v.buf.At(index)
}

// At returns a pointer to the element at index, or [ErrOutOfRange] if the index is outside of
// [0, Len()).
func (v *Vector[T]) At(index int) (*T, error) {
	if index < 0 || index >= v.size {
		return nil, fmt.Errorf("%w: index %d, size %d", ErrOutOfRange, index, v.size)
	}
	return v.buf.At(index), nil
}

// Front returns a pointer to the first element. The vector must not be empty.
func (v *Vector[T]) Front() *T {
	return v.buf.At(0)
}

// Back returns a pointer to the last element. The vector must not be empty.
func (v *Vector[T]) Back() *T {
	return v.buf.At(v.size - 1)
}

// Begin returns the position of the first element.
func (v *Vector[T]) Begin() int {
	return 0
}

// End returns the position following the last element.
func (v *Vector[T]) End() int {
	return v.size
}

// Slice returns the elements as a slice sharing the storage of v. The result may be nil for an
// empty vector; use [Vector.IsEmpty] to check for emptiness.
func (v *Vector[T]) Slice() []T {
	data := v.buf.Data()
	return data[:v.size:v.size]
}

// All returns a sequence of positions and elements.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return slices.All(v.Slice())
}

// Values returns a sequence of elements.
func (v *Vector[T]) Values() iter.Seq[T] {
	return slices.Values(v.Slice())
}

// Backward returns a sequence of positions and elements in reverse order.
func (v *Vector[T]) Backward() iter.Seq2[int, T] {
	return slices.Backward(v.Slice())
}

// Append pushes every element of seq to the back of v.
func (v *Vector[T]) Append(seq iter.Seq[T]) {
	for item := range seq {
		v.PushBack(item)
	}
}

// Clear removes all elements. The capacity is unchanged.
func (v *Vector[T]) Clear() {
	clear(v.buf.Data()[:v.size])
	v.size = 0
}

// Resize changes the number of elements to size.
//
// New elements are zero-valued. If size exceeds the capacity, the storage is reallocated to
// hold max(size, 2*Cap()) elements.
func (v *Vector[T]) Resize(size int) {
	if size < 0 {
		panic("size can't be < 0")
	}

	switch {
	case size <= v.size:
		clear(v.buf.Data()[size:v.size])
	case size <= v.capacity:
		clear(v.buf.Data()[v.size:size])
	default:
		v.reallocate(max(size, v.capacity*2))
	}

	v.size = size
}

// PushBack appends value. If the vector is full, the capacity is doubled (0 becomes 1).
func (v *Vector[T]) PushBack(value T) {
	if v.size == v.capacity {
		v.Resize(v.size + 1)
	} else {
		v.size++
	}
	*v.buf.At(v.size - 1) = value
}

// Insert stores value at pos, shifting the elements at and after pos one position right. pos
// must be in [Begin(), End()].
//
// Returns the position of the inserted value. If the vector is full, the capacity is doubled
// (0 becomes 1).
func (v *Vector[T]) Insert(pos int, value T) int {
	if v.size < v.capacity {
		data := v.buf.Data()
		copy(data[pos+1:v.size+1], data[pos:v.size])
		data[pos] = value
		v.size++
		return pos
	}

	capacity := max(v.size+1, v.capacity*2)
	buf := buffer.New[T](capacity)
	var (
		head = v.buf.Data()[:pos]
		tail = v.buf.Data()[pos:v.size]
		data = buf.Data()
	)
	copy(data, head)
	data[pos] = value
	copy(data[pos+1:], tail)

	v.buf.Swap(buf)
	buf.Free()
	v.size++
	v.capacity = capacity

	return pos
}

// PopBack removes the last element. The vector must not be empty.
func (v *Vector[T]) PopBack() {
	var zero T
	*v.buf.At(v.size - 1) = zero
	v.size--
}

// Erase removes the element at pos, shifting the following elements one position left. pos must
// be in [Begin(), End()).
//
// Returns the position of the element that followed the erased one.
func (v *Vector[T]) Erase(pos int) int {
	data := v.buf.Data()
	copy(data[pos:v.size-1], data[pos+1:v.size])

	var zero T
	data[v.size-1] = zero
	v.size--

	return pos
}

// Reserve reallocates the storage to hold exactly capacity elements if capacity exceeds
// [Vector.Cap]. Otherwise it does nothing.
func (v *Vector[T]) Reserve(capacity int) {
	if capacity > v.capacity {
		v.reallocate(capacity)
	}
}

// Swap exchanges the contents of v and other.
func (v *Vector[T]) Swap(other *Vector[T]) {
	v.buf.Swap(&other.buf)
	v.size, other.size = other.size, v.size
	v.capacity, other.capacity = other.capacity, v.capacity
}

func (v *Vector[T]) String() string {
	return fmt.Sprint(v.Slice())
}

// reallocate moves the elements into new zero-valued storage of the provided capacity. The old
// storage is dropped only after the new one is in place.
func (v *Vector[T]) reallocate(capacity int) {
	buf := buffer.New[T](capacity)
	copy(buf.Data(), v.Slice())

	v.buf.Swap(buf)
	buf.Free()
	v.capacity = capacity
}
