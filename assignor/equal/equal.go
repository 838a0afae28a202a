package equal

import (
	"context"
	"fmt"
	"slices"

	"github.com/akihiro17/kafka-ec2/assignor"
	assignorErrors "github.com/akihiro17/kafka-ec2/assignor/errors"
	"github.com/akihiro17/kafka-ec2/model"
	"github.com/akihiro17/kafka-ec2/util"
)

const Name = "equal"

// Equal deals partitions round robin over the sorted members, ignoring host
// capacity.
type Equal struct{}

var _ assignor.PartitionAssignor = (*Equal)(nil)

func NewAssignor() *Equal {
	return &Equal{}
}

func (e *Equal) Name() string {
	return Name
}

func (e *Equal) Assign(
	ctx context.Context,
	roster map[string]string,
	topics []string,
	lister assignor.PartitionLister,
) (model.Assignment, error) {
	consumers := util.SortedKeys(roster)
	partitionDivision := make(model.Assignment, len(consumers))
	for _, topic := range util.Dedup(topics) {
		partitions, err := lister.PartitionsForTopic(ctx, topic)
		if err != nil {
			return nil, fmt.Errorf("failed to get partitions for topic %s: %w", topic, err)
		}
		if len(partitions) == 0 {
			continue
		}
		if len(consumers) == 0 {
			return nil, fmt.Errorf("%w: topic %s has %d partitions", assignorErrors.ErrNoMembers, topic, len(partitions))
		}
		partitions = slices.Clone(partitions)
		slices.Sort(partitions)
		for i, partition := range partitions {
			consumer := consumers[i%len(consumers)]
			partitionDivision.Add(consumer, topic, partition)
		}
	}
	return partitionDivision, nil
}
