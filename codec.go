package vec

import (
	"fmt"

	"github.com/teenjuna/vec/codec"
)

// Encode serializes the elements of v with the provided codec.
func (v *Vector[T]) Encode(c codec.Codec[T]) ([]byte, error) {
	return c.Encode(v.Values())
}

// Decode deserializes a vector from data with the provided codec. The capacity of the result
// follows the growth of [Vector.PushBack].
func Decode[T any](data []byte, c codec.Codec[T]) (*Vector[T], error) {
	v := New[T]()
	if err := c.Decode(data, v.PushBack); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return v, nil
}
