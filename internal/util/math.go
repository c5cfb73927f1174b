package util

import "golang.org/x/exp/constraints"

// Clamp limits v to the range [lo, hi]. The lower bound is applied
// first, so if the range is inverted the upper bound wins and the
// result stays bounded.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}
