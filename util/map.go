package util

import (
	"cmp"
	"slices"
)

func Keys[T any, K comparable](m map[K]T) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[T any, K cmp.Ordered](m map[K]T) []K {
	keys := Keys(m)
	slices.Sort(keys)
	return keys
}
