package vec

import (
	"cmp"
	"slices"
)

// Equal reports whether x and y have the same length and pairwise equal elements.
func Equal[T comparable](x, y *Vector[T]) bool {
	return slices.Equal(x.Slice(), y.Slice())
}

func EqualFunc[T1, T2 any](x *Vector[T1], y *Vector[T2], eq func(T1, T2) bool) bool {
	return slices.EqualFunc(x.Slice(), y.Slice(), eq)
}

// Compare compares the elements of x and y lexicographically. The result is 0 if x == y, -1 if
// x < y, and +1 if x > y.
func Compare[T cmp.Ordered](x, y *Vector[T]) int {
	return slices.Compare(x.Slice(), y.Slice())
}

func CompareFunc[T1, T2 any](x *Vector[T1], y *Vector[T2], cmp func(T1, T2) int) int {
	return slices.CompareFunc(x.Slice(), y.Slice(), cmp)
}

// Less reports whether x is lexicographically less than y.
func Less[T cmp.Ordered](x, y *Vector[T]) bool {
	return Compare(x, y) < 0
}
