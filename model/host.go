package model

import "github.com/shopspring/decimal"

// Host is a machine running one or more members. Its weight is the sum of
// its members' weights.
type Host struct {
	ID        string
	Family    string
	Zone      string
	Weight    decimal.Decimal
	MemberIDs []string
}
