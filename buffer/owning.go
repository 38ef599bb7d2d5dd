// This package contains [Owning], the exclusive owner of a contiguous block of elements.
package buffer

// Owning is the sole owner of a contiguous block of elements.
//
// The block never changes its extent: it holds either nothing (the null state) or exactly the
// number of elements requested at construction. Owning must not be copied after first use; the
// ownership can only be transferred with [Owning.Move], [Owning.Swap] or [Owning.Release].
//
// Implementations are not considered thread-safe.
type Owning[T any] struct {
	_    noCopy
	data []T
}

// New returns a buffer owning count zero-valued elements. If count is 0, the buffer is in the
// null state.
func New[T any](count int) *Owning[T] {
	if count < 0 {
		panic("count can't be < 0")
	}
	if count == 0 {
		return &Owning[T]{}
	}
	return &Owning[T]{data: make([]T, count)}
}

// Adopt returns a buffer owning the provided block, which may be nil.
//
// The caller must not use data after the call.
func Adopt[T any](data []T) *Owning[T] {
	return &Owning[T]{data: data}
}

// Move returns a new buffer owning the block of b. b is left in the null state.
func (b *Owning[T]) Move() *Owning[T] {
	return Adopt(b.Release())
}

// Release returns the owned block and forgets it. After the call b is in the null state and
// [Owning.Free] does nothing.
func (b *Owning[T]) Release() []T {
	data := b.data
	b.data = nil
	return data
}

// At returns a pointer to the element with the provided index. The index is not checked against
// the extent of the block.
func (b *Owning[T]) At(index int) *T {
	return &b.data[index]
}

// Data returns the owned block.
func (b *Owning[T]) Data() []T {
	return b.data
}

// Valid returns true if the buffer owns a block.
func (b *Owning[T]) Valid() bool {
	return b.data != nil
}

// Swap exchanges the owned blocks of b and other.
func (b *Owning[T]) Swap(other *Owning[T]) {
	b.data, other.data = other.data, b.data
}

// Free drops the owned block.
func (b *Owning[T]) Free() {
	b.data = nil
}

// noCopy makes `go vet` report copies of the structs embedding it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
