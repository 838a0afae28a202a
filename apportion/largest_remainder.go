package apportion

import (
	"cmp"
	"slices"
)

// LargestRemainder is the Hare quota method: everyone gets the floor of their
// ideal share and the units left over go to the largest fractional
// remainders, ties broken by ascending ID. Each count is within one unit of
// its ideal share.
type LargestRemainder struct{}

func (LargestRemainder) Name() string { return LargestRemainderMethod }

func (LargestRemainder) Apportion(shares []Share, total int) ([]int, error) {
	quotients, _, err := divide(shares, total)
	if err != nil {
		return nil, err
	}
	counts := make([]int, len(shares))
	left := total
	for i, q := range quotients {
		counts[i] = q.floor
		left -= q.floor
	}
	if left == 0 {
		return counts, nil
	}

	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(i, j int) int {
		if c := quotients[j].remainder.Cmp(quotients[i].remainder); c != 0 {
			return c
		}
		return cmp.Compare(shares[i].ID, shares[j].ID)
	})
	for _, i := range order[:left] {
		counts[i]++
	}
	return counts, nil
}
