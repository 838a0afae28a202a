// Package apportion converts weighted shares into integer counts that add up
// to a fixed total.
//
// Every method works on exact decimals: the ideal share of an entry is
// total*weight/W, and its integer part and remainder come from a single
// quotient/remainder division, so results never depend on float rounding.
package apportion

import (
	"fmt"

	"github.com/shopspring/decimal"

	assignorErrors "github.com/akihiro17/kafka-ec2/assignor/errors"
)

const (
	LargestRemainderMethod = "largest_remainder"
	RoundedMethod          = "rounded"
)

// Share is one entry competing for units.
type Share struct {
	ID     string
	Weight decimal.Decimal
}

// Apportioner distributes total units over shares. The returned slice is
// parallel to shares and sums to total.
type Apportioner interface {
	Name() string
	Apportion(shares []Share, total int) ([]int, error)
}

// New returns the apportioner registered under name.
func New(name string) (Apportioner, error) {
	switch name {
	case "", LargestRemainderMethod:
		return LargestRemainder{}, nil
	case RoundedMethod:
		return Rounded{}, nil
	default:
		return nil, fmt.Errorf("unknown apportionment method %q", name)
	}
}

// quotient holds floor(total*weight/W) and the remainder total*weight mod W.
// Remainders of one apportionment share the divisor W, so comparing them
// compares fractional parts.
type quotient struct {
	floor     int
	remainder decimal.Decimal
}

func divide(shares []Share, total int) ([]quotient, decimal.Decimal, error) {
	if total < 0 {
		return nil, decimal.Zero, fmt.Errorf("total must not be negative, got %d", total)
	}
	if len(shares) == 0 {
		if total > 0 {
			return nil, decimal.Zero, assignorErrors.ErrNoMembers
		}
		return nil, decimal.Zero, nil
	}
	sum := decimal.Zero
	for _, s := range shares {
		if !s.Weight.IsPositive() {
			return nil, decimal.Zero, fmt.Errorf("%w: %s has weight %s", assignorErrors.ErrNonPositiveWeight, s.ID, s.Weight)
		}
		sum = sum.Add(s.Weight)
	}
	t := decimal.NewFromInt(int64(total))
	quotients := make([]quotient, len(shares))
	for i, s := range shares {
		q, r := t.Mul(s.Weight).QuoRem(sum, 0)
		quotients[i] = quotient{floor: int(q.IntPart()), remainder: r}
	}
	return quotients, sum, nil
}

// Ideal returns the exact ideal share total*weight/W of every entry.
func Ideal(shares []Share, total int) []decimal.Decimal {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Weight)
	}
	out := make([]decimal.Decimal, len(shares))
	if sum.IsZero() {
		return out
	}
	t := decimal.NewFromInt(int64(total))
	for i, s := range shares {
		out[i] = t.Mul(s.Weight).Div(sum)
	}
	return out
}
