package buffer_test

import (
	"testing"

	"github.com/teenjuna/vec/buffer"
	"github.com/teenjuna/vec/internal/testing/require"
)

func TestNew(t *testing.T) {
	b := buffer.New[int](0)
	require.False(t, b.Valid())
	require.Equal(t, len(b.Data()), 0)

	b = buffer.New[int](5)
	require.True(t, b.Valid())
	require.Equal(t, b.Data(), []int{0, 0, 0, 0, 0})

	require.PanicWithError(t, "count can't be < 0", func() {
		_ = buffer.New[int](-1)
	})
}

func TestAdopt(t *testing.T) {
	b := buffer.Adopt[string](nil)
	require.False(t, b.Valid())

	b = buffer.Adopt([]string{"a", "b"})
	require.True(t, b.Valid())
	require.Equal(t, *b.At(1), "b")
}

func TestAt(t *testing.T) {
	b := buffer.New[int](3)
	for i := range 3 {
		*b.At(i) = i * 10
	}
	require.Equal(t, b.Data(), []int{0, 10, 20})
}

func TestMove(t *testing.T) {
	b := buffer.Adopt([]int{1, 2, 3})
	m := b.Move()
	require.False(t, b.Valid())
	require.True(t, m.Valid())
	require.Equal(t, m.Data(), []int{1, 2, 3})

	// Moving a null buffer is well defined.
	n := b.Move()
	require.False(t, n.Valid())
}

func TestRelease(t *testing.T) {
	b := buffer.Adopt([]int{1, 2, 3})
	data := b.Release()
	require.Equal(t, data, []int{1, 2, 3})
	require.False(t, b.Valid())

	b.Free()
	require.Equal(t, data, []int{1, 2, 3})
	require.Nil(t, b.Release())
}

func TestSwap(t *testing.T) {
	b1 := buffer.Adopt([]int{1})
	b2 := buffer.New[int](0)

	b1.Swap(b2)
	require.False(t, b1.Valid())
	require.Equal(t, b2.Data(), []int{1})

	b1.Swap(b2)
	require.Equal(t, b1.Data(), []int{1})
	require.False(t, b2.Valid())
}

func TestFree(t *testing.T) {
	b := buffer.New[int](4)
	b.Free()
	require.False(t, b.Valid())

	// Free on a null buffer does nothing.
	b.Free()
	require.False(t, b.Valid())
}
