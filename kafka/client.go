package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/akihiro17/kafka-ec2/config"
)

type partitionsClient interface {
	Partitions(topic string) ([]int32, error)
}

// ClientLister reads partitions from the cluster metadata a sarama client holds.
type ClientLister struct {
	client partitionsClient
}

func NewClientLister(client sarama.Client) *ClientLister {
	return &ClientLister{client: client}
}

func (c *ClientLister) PartitionsForTopic(_ context.Context, topic string) ([]int32, error) {
	partitions, err := c.client.Partitions(topic)
	if err != nil {
		return nil, fmt.Errorf("failed to get partitions for topic %s: %w", topic, err)
	}
	return partitions, nil
}

// NewConfig builds a sarama config from the kafka section of the config.
func NewConfig(conf config.Kafka) (*sarama.Config, error) {
	sc := sarama.NewConfig()
	if conf.ClientID != "" {
		sc.ClientID = conf.ClientID
	}
	if conf.Version != "" {
		version, err := sarama.ParseKafkaVersion(conf.Version)
		if err != nil {
			return nil, fmt.Errorf("failed to parse kafka version: %w", err)
		}
		sc.Version = version
	}
	return sc, nil
}

func NewClient(conf config.Kafka) (sarama.Client, error) {
	if len(conf.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	sc, err := NewConfig(conf)
	if err != nil {
		return nil, err
	}
	client, err := sarama.NewClient(conf.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return client, nil
}
