// Package mixed assigns partitions in proportion to the capacity of the hosts
// group members run on.
//
// Each member advertises "hostId,instanceType,availabilityZone". A member's
// weight is the instance family weight times the zone weight. Members on the
// same host pool their weights, the host gets a share of every topic's
// partitions proportional to that pool, and the share is then split evenly
// between the host's members.
package mixed

import (
	"context"
	"fmt"

	"github.com/akihiro17/kafka-ec2/apportion"
	"github.com/akihiro17/kafka-ec2/assignor"
	assignorErrors "github.com/akihiro17/kafka-ec2/assignor/errors"
	"github.com/akihiro17/kafka-ec2/logger"
	"github.com/akihiro17/kafka-ec2/metrics"
	"github.com/akihiro17/kafka-ec2/model"
	"github.com/akihiro17/kafka-ec2/util"
	"github.com/akihiro17/kafka-ec2/weight"
)

const Name = "mixedinstance"

type Assignor struct {
	resolver    *weight.Resolver
	apportioner apportion.Apportioner
	log         logger.Logger
	metrics     metrics.Collector
}

var _ assignor.PartitionAssignor = (*Assignor)(nil)

type Option func(*Assignor)

// WithApportioner replaces the default largest remainder method.
func WithApportioner(a apportion.Apportioner) Option {
	return func(m *Assignor) { m.apportioner = a }
}

func WithLogger(l logger.Logger) Option {
	return func(m *Assignor) { m.log = l }
}

func WithMetrics(c metrics.Collector) Option {
	return func(m *Assignor) { m.metrics = c }
}

func NewAssignor(resolver *weight.Resolver, opts ...Option) *Assignor {
	m := &Assignor{
		resolver:    resolver,
		apportioner: apportion.LargestRemainder{},
		log:         logger.NewNop(),
		metrics:     metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Assignor) Name() string {
	return Name
}

func (m *Assignor) Assign(
	ctx context.Context,
	roster map[string]string,
	topics []string,
	lister assignor.PartitionLister,
) (model.Assignment, error) {
	members := make([]*model.Member, 0, len(roster))
	for _, id := range util.SortedKeys(roster) {
		member, err := model.ParseMember(id, roster[id])
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	hosts, err := groupByHost(members, m.resolver.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve member weights: %w", err)
	}
	m.metrics.RecordGroup(len(members), len(hosts))

	shares := make([]apportion.Share, len(hosts))
	for i, h := range hosts {
		shares[i] = apportion.Share{ID: h.ID, Weight: h.Weight}
	}

	assignment := make(model.Assignment, len(members))
	for _, topic := range util.Dedup(topics) {
		partitions, err := lister.PartitionsForTopic(ctx, topic)
		if err != nil {
			return nil, fmt.Errorf("failed to get partitions for topic %s: %w", topic, err)
		}
		partitions, err = canonical(topic, partitions)
		if err != nil {
			return nil, err
		}
		if len(partitions) > 0 && len(hosts) == 0 {
			return nil, fmt.Errorf("%w: topic %s has %d partitions", assignorErrors.ErrNoMembers, topic, len(partitions))
		}
		quotas, err := m.apportioner.Apportion(shares, len(partitions))
		if err != nil {
			return nil, fmt.Errorf("failed to apportion topic %s: %w", topic, err)
		}
		ideal := apportion.Ideal(shares, len(partitions))
		for i, h := range hosts {
			m.log.Debug(ctx, "host quota",
				logger.NewAttr("topic", topic),
				logger.NewAttr("host", h.ID),
				logger.NewAttr("weight", h.Weight.String()),
				logger.NewAttr("members", len(h.MemberIDs)),
				logger.NewAttr("share", ideal[i].StringFixed(3)),
				logger.NewAttr("quota", quotas[i]),
			)
		}
		bind(assignment, topic, partitions, hosts, quotas)
	}

	m.log.Debug(ctx, "assigned partitions",
		logger.NewAttr("method", m.apportioner.Name()),
		logger.NewAttr("members", len(members)),
		logger.NewAttr("hosts", len(hosts)),
		logger.NewAttr("topics", len(topics)),
	)
	return assignment, nil
}
