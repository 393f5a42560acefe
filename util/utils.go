package util

import (
	"cmp"
	"strconv"
)

/*
Utility functions.
*/

////////////////////////////////////////////////////////////////////////////////

// HumanBytes returns a human-readable representation of a number of bytes.
func HumanBytes(n uint64) string {
	suffix := []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}
	i := 0
	for n >= 1024 && i < len(suffix)-1 {
		n /= 1024
		i++
	}
	return strconv.FormatUint(n, 10) + " " + suffix[i]
}

// When returns a if cond is true, otherwise b.
func When[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

// Ratio returns a/b, or zero if b is zero.
func Ratio[V int | int64 | uint64](a, b V) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// Order returns a and b sorted ascending.
func Order[T cmp.Ordered](a, b T) (T, T) {
	if b < a {
		return b, a
	}
	return a, b
}
