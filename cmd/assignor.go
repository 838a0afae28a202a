package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/akihiro17/kafka-ec2/apportion"
	"github.com/akihiro17/kafka-ec2/assignor"
	"github.com/akihiro17/kafka-ec2/assignor/equal"
	"github.com/akihiro17/kafka-ec2/assignor/mixed"
	"github.com/akihiro17/kafka-ec2/metrics"
	"github.com/akihiro17/kafka-ec2/storage/metadata"
	"github.com/akihiro17/kafka-ec2/weight"
)

func newAssignor(zones weight.ZoneWeightProvider, collector metrics.Collector) (assignor.PartitionAssignor, error) {
	var a assignor.PartitionAssignor
	switch conf.Strategy {
	case equal.Name:
		a = equal.NewAssignor()
	case "mixed", mixed.Name:
		resolver, err := weight.NewResolver(weight.FromFloats(conf.InstanceFamilyWeights), zones)
		if err != nil {
			return nil, fmt.Errorf("failed to build weight resolver: %w", err)
		}
		method, err := apportion.New(conf.Apportionment)
		if err != nil {
			return nil, err
		}
		a = mixed.NewAssignor(resolver,
			mixed.WithApportioner(method),
			mixed.WithLogger(log),
			mixed.WithMetrics(collector),
		)
	default:
		return nil, fmt.Errorf("unknown strategy %q", conf.Strategy)
	}
	return assignor.Instrument(a, collector, log), nil
}

func openStore(ctx context.Context) (*metadata.Bolt, error) {
	store := metadata.NewBolt(conf.MetadataPath, otel.Tracer("github.com/akihiro17/kafka-ec2/storage"))
	if err := store.Open(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
