package assignor

import (
	"context"
	"time"

	"github.com/akihiro17/kafka-ec2/logger"
	"github.com/akihiro17/kafka-ec2/metrics"
	"github.com/akihiro17/kafka-ec2/model"
)

type instrumented struct {
	PartitionAssignor
	metrics metrics.Collector
	log     logger.Logger
}

// Instrument wraps a with metrics and error logging.
func Instrument(a PartitionAssignor, m metrics.Collector, log logger.Logger) PartitionAssignor {
	return &instrumented{
		PartitionAssignor: a,
		metrics:           m,
		log:               log.WithFields(logger.NewAttr("strategy", a.Name())),
	}
}

func (i *instrumented) Assign(
	ctx context.Context,
	roster map[string]string,
	topics []string,
	lister PartitionLister,
) (model.Assignment, error) {
	start := time.Now()
	assignment, err := i.PartitionAssignor.Assign(ctx, roster, topics, lister)
	i.metrics.RecordAssignment(i.Name(), time.Since(start).Seconds(), err == nil)
	if err != nil {
		i.log.Error(ctx, "assignment failed",
			logger.NewAttr("members", len(roster)),
			logger.NewAttr("topics", topics),
			logger.NewAttr("error", err.Error()),
		)
		return nil, err
	}
	for _, topic := range topics {
		i.metrics.RecordTopicPartitions(topic, assignment.Count(topic))
	}
	return assignment, nil
}
