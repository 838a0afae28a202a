package metadata

import (
	"context"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/akihiro17/kafka-ec2/storage"
	"github.com/akihiro17/kafka-ec2/storage/errors"

	boltDB "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

type Bolt struct {
	db     *boltDB.DB
	dbPath string
	tracer trace.Tracer
}

var _ storage.MetadataStorage = (*Bolt)(nil)

func NewBolt(dbPath string, tracer trace.Tracer) *Bolt {
	return &Bolt{
		dbPath: dbPath,
		tracer: tracer,
	}
}

const topicsBucketKey = "topics"

func (b *Bolt) Open(_ context.Context) error {
	newDB, err := boltDB.Open(b.dbPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	b.db = newDB
	return nil
}

func (b *Bolt) Close(_ context.Context) error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (b *Bolt) BeginTransaction(_ context.Context, forWrite bool) (storage.Transaction, error) {
	tx, err := b.db.Begin(forWrite)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &storage.BoltDbTransactionWrapper{BoltTx: tx}, nil
}

func (b *Bolt) startSpan(ctx context.Context, name, operation string) (context.Context, trace.Span) {
	return b.tracer.Start(
		ctx,
		name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Key("db.system.name").String("boltdb"),
			semconv.DBNamespaceKey.String(b.dbPath),
			semconv.DBCollectionNameKey.String(topicsBucketKey),
			semconv.DBOperationNameKey.String(operation),
		),
	)
}

// PutTopic replaces the partitions stored for topic.
func (b *Bolt) PutTopic(ctx context.Context, topic string, partitions []int32) error {
	ctx, span := b.startSpan(ctx, "PutTopic", "PUT")
	defer span.End()
	tx, err := b.BeginTransaction(ctx, true)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if err := b.PutTopicInTx(ctx, tx, topic, partitions); err != nil {
		span.RecordError(err)
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (b *Bolt) PutTopicInTx(_ context.Context, tx storage.Transaction, topic string, partitions []int32) error {
	boltTx, ok := tx.(*storage.BoltDbTransactionWrapper)
	if !ok {
		return fmt.Errorf("invalid transaction type")
	}
	if topic == "" {
		return fmt.Errorf("topic name is required")
	}
	for _, p := range partitions {
		if p < 0 {
			return fmt.Errorf("%w: %s/%d", errors.ErrInvalidPartition, topic, p)
		}
	}
	bucket, err := boltTx.BoltTx.CreateBucketIfNotExists([]byte(topicsBucketKey))
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	if err := bucket.Put([]byte(topic), encodePartitions(partitions)); err != nil {
		return fmt.Errorf("failed to put topic: %w", err)
	}
	return nil
}

func (b *Bolt) DeleteTopic(ctx context.Context, topic string) error {
	_, span := b.startSpan(ctx, "DeleteTopic", "DELETE")
	defer span.End()
	err := b.db.Update(func(tx *boltDB.Tx) error {
		bucket := tx.Bucket([]byte(topicsBucketKey))
		if bucket == nil || bucket.Get([]byte(topic)) == nil {
			return errors.ErrTopicNotFound
		}
		return bucket.Delete([]byte(topic))
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete topic %s: %w", topic, err)
	}
	return nil
}

// Topics returns the stored topic names in ascending order.
func (b *Bolt) Topics(ctx context.Context) ([]string, error) {
	_, span := b.startSpan(ctx, "Topics", "GET")
	defer span.End()
	var topics []string
	err := b.db.View(func(tx *boltDB.Tx) error {
		bucket := tx.Bucket([]byte(topicsBucketKey))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, _ []byte) error {
			topics = append(topics, string(k))
			return nil
		})
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get topics: %w", err)
	}
	return topics, nil
}

func (b *Bolt) PartitionsForTopic(ctx context.Context, topic string) ([]int32, error) {
	_, span := b.startSpan(ctx, "PartitionsForTopic", "GET")
	defer span.End()
	var partitions []int32
	err := b.db.View(func(tx *boltDB.Tx) error {
		bucket := tx.Bucket([]byte(topicsBucketKey))
		if bucket == nil {
			return errors.ErrTopicNotFound
		}
		data := bucket.Get([]byte(topic))
		if data == nil {
			return errors.ErrTopicNotFound
		}
		var err error
		partitions, err = decodePartitions(data)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get partitions for topic %s: %w", topic, err)
	}
	return partitions, nil
}

// partitions are stored as consecutive big endian uint32s, sorted ascending
func encodePartitions(partitions []int32) []byte {
	sorted := slices.Clone(partitions)
	slices.Sort(sorted)
	buf := make([]byte, 0, 4*len(sorted))
	for _, p := range sorted {
		buf = binary.BigEndian.AppendUint32(buf, uint32(p))
	}
	return buf
}

func decodePartitions(data []byte) ([]int32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("corrupt partition list of %d bytes", len(data))
	}
	partitions := make([]int32, 0, len(data)/4)
	for i := 0; i < len(data); i += 4 {
		partitions = append(partitions, int32(binary.BigEndian.Uint32(data[i:])))
	}
	return partitions, nil
}
