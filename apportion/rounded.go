package apportion

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Rounded walks shares in order and gives each its ideal share rounded half
// up, capped at what is still unassigned. Units still left afterwards go one
// at a time to the entries furthest below their ideal share, ties broken by
// ascending ID.
//
// Shares late in the order absorb any over-allocation from rounding, so an
// entry can end up more than one unit below its ideal share.
type Rounded struct{}

func (Rounded) Name() string { return RoundedMethod }

func (Rounded) Apportion(shares []Share, total int) ([]int, error) {
	quotients, sum, err := divide(shares, total)
	if err != nil {
		return nil, err
	}
	counts := make([]int, len(shares))
	left := total
	for i, q := range quotients {
		n := q.floor
		if q.remainder.Add(q.remainder).Cmp(sum) >= 0 {
			n++
		}
		n = min(n, left)
		counts[i] = n
		left -= n
	}
	if left == 0 {
		return counts, nil
	}

	// deficit_i * W = total*weight_i - counts_i*W
	t := decimal.NewFromInt(int64(total))
	deficits := make([]decimal.Decimal, len(shares))
	for i, s := range shares {
		deficits[i] = t.Mul(s.Weight).Sub(decimal.NewFromInt(int64(counts[i])).Mul(sum))
	}
	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(i, j int) int {
		if c := deficits[j].Cmp(deficits[i]); c != 0 {
			return c
		}
		return cmp.Compare(shares[i].ID, shares[j].ID)
	})
	for k := 0; left > 0; k++ {
		counts[order[k%len(order)]]++
		left--
	}
	return counts, nil
}
