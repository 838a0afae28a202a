// Package weight turns a member's instance family and availability zone into
// a capacity weight.
package weight

import (
	"fmt"
	"maps"

	"github.com/shopspring/decimal"

	assignorErrors "github.com/akihiro17/kafka-ec2/assignor/errors"
	"github.com/akihiro17/kafka-ec2/util"
)

// Table maps a name (instance family or zone) to its weight.
type Table map[string]decimal.Decimal

// FromFloats builds a Table from float weights as they come out of config
// files. Each float is converted through its shortest decimal representation,
// so 1.08 becomes exactly 1.08.
func FromFloats(m map[string]float64) Table {
	t := make(Table, len(m))
	for k, v := range m {
		t[k] = decimal.NewFromFloat(v)
	}
	return t
}

func (t Table) validate(kind string) error {
	for _, name := range util.SortedKeys(t) {
		if !t[name].IsPositive() {
			return fmt.Errorf("%w: %s %q has weight %s", assignorErrors.ErrNonPositiveWeight, kind, name, t[name])
		}
	}
	return nil
}

// ZoneWeightProvider supplies the current zone weights. ZoneWeights must not
// have side effects; it is called once per assignment and the result is used
// as a snapshot for that assignment.
type ZoneWeightProvider interface {
	ZoneWeights() Table
}

// ZoneWeightsFunc adapts a function to ZoneWeightProvider.
type ZoneWeightsFunc func() Table

func (f ZoneWeightsFunc) ZoneWeights() Table {
	return f()
}

// StaticZoneWeights is a ZoneWeightProvider that never changes.
type StaticZoneWeights Table

func (s StaticZoneWeights) ZoneWeights() Table {
	return Table(s)
}

// Resolver computes family_weight × zone_weight.
type Resolver struct {
	families Table
	zones    ZoneWeightProvider
}

// NewResolver validates the family table and returns a Resolver reading zone
// weights from zones.
func NewResolver(families Table, zones ZoneWeightProvider) (*Resolver, error) {
	if zones == nil {
		return nil, fmt.Errorf("zone weight provider is required")
	}
	if err := families.validate("instance family"); err != nil {
		return nil, err
	}
	return &Resolver{
		families: maps.Clone(families),
		zones:    zones,
	}, nil
}

// Snapshot reads the zone weights once and returns a resolver bound to them.
func (r *Resolver) Snapshot() *Snapshot {
	return &Snapshot{
		families: r.families,
		zones:    maps.Clone(r.zones.ZoneWeights()),
	}
}

// Snapshot resolves weights against one reading of the zone weights.
type Snapshot struct {
	families Table
	zones    Table
}

// Weight returns the weight of a member of the given family running in zone.
func (s *Snapshot) Weight(family, zone string) (decimal.Decimal, error) {
	f, ok := s.families[family]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", assignorErrors.ErrUnknownInstanceFamily, family)
	}
	z, ok := s.zones[zone]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", assignorErrors.ErrUnknownZone, zone)
	}
	if !z.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: zone %q has weight %s", assignorErrors.ErrNonPositiveWeight, zone, z)
	}
	return f.Mul(z), nil
}
