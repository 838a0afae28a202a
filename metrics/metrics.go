// Package metrics records what the assignors do.
package metrics

// Collector receives assignment measurements. Implementations must be safe
// for concurrent use.
type Collector interface {
	// RecordAssignment records one assignment call of strategy and how long it took.
	RecordAssignment(strategy string, seconds float64, success bool)

	// RecordGroup records the size of the group the last assignment ran for.
	RecordGroup(members, hosts int)

	// RecordTopicPartitions records how many partitions of topic were assigned.
	RecordTopicPartitions(topic string, partitions int)
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

var _ Collector = (*NopMetrics)(nil)

func NewNop() *NopMetrics {
	return &NopMetrics{}
}

func (*NopMetrics) RecordAssignment(string, float64, bool) {}

func (*NopMetrics) RecordGroup(int, int) {}

func (*NopMetrics) RecordTopicPartitions(string, int) {}
