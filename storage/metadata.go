package storage

import (
	"context"
)

// MetadataStorage keeps the partition indices of each topic. It serves as the
// partition lister when the assignor runs outside a live Kafka cluster.
type MetadataStorage interface {
	Open(context.Context) error
	Close(context.Context) error
	BeginTransaction(ctx context.Context, forWrite bool) (Transaction, error)

	PutTopic(context.Context, string, []int32) error
	PutTopicInTx(context.Context, Transaction, string, []int32) error
	DeleteTopic(context.Context, string) error
	Topics(context.Context) ([]string, error)
	PartitionsForTopic(context.Context, string) ([]int32, error)
}
