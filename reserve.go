package vec

import "github.com/teenjuna/vec/buffer"

// ReserveRequest is a request for an empty vector with preallocated storage.
//
// An instance can be created only by the [Reserve] function.
type ReserveRequest struct {
	capacity int
}

// Reserve returns a request for capacity elements of storage to be passed to [Reserved].
func Reserve(capacity int) ReserveRequest {
	if capacity < 0 {
		panic("capacity can't be < 0")
	}
	return ReserveRequest{capacity: capacity}
}

// Capacity returns the requested capacity.
func (r ReserveRequest) Capacity() int {
	return r.capacity
}

// Reserved returns an empty vector with storage for the requested number of elements.
func Reserved[T any](r ReserveRequest) *Vector[T] {
	v := Vector[T]{}
	v.buf.Swap(buffer.New[T](r.capacity))
	v.capacity = r.capacity
	return &v
}
