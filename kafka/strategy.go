// Package kafka plugs the assignors into sarama consumer groups.
package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/akihiro17/kafka-ec2/assignor"
	"github.com/akihiro17/kafka-ec2/util"
)

// BalanceStrategy implements sarama.BalanceStrategy on top of a
// PartitionAssignor. Each member's UserData must hold its
// "hostId,instanceType,availabilityZone" string, see Configure.
//
// All topics in the plan are spread over all members, whatever each member
// subscribed to.
type BalanceStrategy struct {
	assignor assignor.PartitionAssignor
}

var _ sarama.BalanceStrategy = (*BalanceStrategy)(nil)

func NewBalanceStrategy(a assignor.PartitionAssignor) *BalanceStrategy {
	return &BalanceStrategy{assignor: a}
}

func (s *BalanceStrategy) Name() string {
	return s.assignor.Name()
}

func (s *BalanceStrategy) Plan(
	members map[string]sarama.ConsumerGroupMemberMetadata,
	topics map[string][]int32,
) (sarama.BalanceStrategyPlan, error) {
	roster := make(map[string]string, len(members))
	for memberID, meta := range members {
		roster[memberID] = string(meta.UserData)
	}
	assignment, err := s.assignor.Assign(
		context.Background(),
		roster,
		util.SortedKeys(topics),
		assignor.StaticLister(topics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to plan %s assignment: %w", s.Name(), err)
	}
	plan := make(sarama.BalanceStrategyPlan, len(assignment))
	for memberID, memberTopics := range assignment {
		for topic, partitions := range memberTopics {
			plan.Add(memberID, topic, partitions...)
		}
	}
	return plan, nil
}

// AssignmentData carries nothing; the strategy keeps no state between
// generations.
func (s *BalanceStrategy) AssignmentData(string, map[string][]int32, int32) ([]byte, error) {
	return nil, nil
}

// Configure makes conf join consumer groups with strategy and advertise
// metadata as the member's user data.
func Configure(conf *sarama.Config, strategy sarama.BalanceStrategy, metadata string) {
	conf.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{strategy}
	conf.Consumer.Group.Member.UserData = []byte(metadata)
}
