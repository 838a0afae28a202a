package config

import (
	"fmt"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/akihiro17/kafka-ec2/weight"
)

// ZoneWeights serves availability_zone_weights from the loader and, once
// Watch is called, picks up edits to the config file.
type ZoneWeights struct {
	loader  *Loader
	current atomic.Pointer[weight.Table]
}

var _ weight.ZoneWeightProvider = (*ZoneWeights)(nil)

// ZoneWeights reads the initial zone table. A table that cannot be decoded is
// an error here; later bad edits keep the last good table.
func (l *Loader) ZoneWeights() (*ZoneWeights, error) {
	z := &ZoneWeights{loader: l}
	if err := z.reload(); err != nil {
		return nil, err
	}
	return z, nil
}

func (z *ZoneWeights) reload() error {
	var raw map[string]float64
	if err := z.loader.v.UnmarshalKey("availability_zone_weights", &raw); err != nil {
		return fmt.Errorf("failed to decode availability_zone_weights: %w", err)
	}
	t := weight.FromFloats(raw)
	z.current.Store(&t)
	return nil
}

// Watch reloads the table whenever the config file changes. onChange, if not
// nil, is called after each reload with the table now in use and the reload
// error, if any.
func (z *ZoneWeights) Watch(onChange func(weight.Table, error)) {
	z.loader.v.OnConfigChange(func(fsnotify.Event) {
		err := z.reload()
		if onChange != nil {
			onChange(z.ZoneWeights(), err)
		}
	})
	z.loader.v.WatchConfig()
}

// ZoneWeights returns the current table. Callers must not modify it.
func (z *ZoneWeights) ZoneWeights() weight.Table {
	return *z.current.Load()
}
