package assignor

import (
	"context"
	"fmt"

	"github.com/akihiro17/kafka-ec2/model"
	"github.com/akihiro17/kafka-ec2/storage/errors"
)

// PartitionAssignor decides which member owns which partition.
//
// roster maps member id to the "hostId,instanceType,availabilityZone" string
// the member advertised. Every member runs the same assignor on the same
// inputs, so implementations must be deterministic.
type PartitionAssignor interface {
	Name() string
	Assign(
		ctx context.Context,
		roster map[string]string,
		topics []string,
		lister PartitionLister,
	) (model.Assignment, error)
}

// PartitionLister returns the partition indices of a topic.
type PartitionLister interface {
	PartitionsForTopic(ctx context.Context, topic string) ([]int32, error)
}

// ListerFunc adapts a function to PartitionLister.
type ListerFunc func(ctx context.Context, topic string) ([]int32, error)

func (f ListerFunc) PartitionsForTopic(ctx context.Context, topic string) ([]int32, error) {
	return f(ctx, topic)
}

// StaticLister serves partitions from a topic -> partitions map.
type StaticLister map[string][]int32

func (s StaticLister) PartitionsForTopic(_ context.Context, topic string) ([]int32, error) {
	partitions, ok := s[topic]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrTopicNotFound, topic)
	}
	return partitions, nil
}
