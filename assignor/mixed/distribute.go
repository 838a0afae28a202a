package mixed

import (
	"fmt"
	"slices"

	assignorErrors "github.com/akihiro17/kafka-ec2/assignor/errors"
	"github.com/akihiro17/kafka-ec2/model"
)

// splitQuota divides a host's quota over its k members: quota/k each, and one
// more for the first quota%k members.
func splitQuota(quota, k int) []int {
	counts := make([]int, k)
	for i := range counts {
		counts[i] = quota / k
		if i < quota%k {
			counts[i]++
		}
	}
	return counts
}

// canonical returns the partitions sorted ascending, rejecting duplicates.
func canonical(topic string, partitions []int32) ([]int32, error) {
	sorted := slices.Clone(partitions)
	slices.Sort(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return nil, fmt.Errorf("%w: %s/%d", assignorErrors.ErrDuplicatePartition, topic, sorted[i])
		}
	}
	return sorted, nil
}

// bind hands out contiguous runs of the sorted partitions, host by host and
// member by member within a host. quotas is parallel to hosts and sums to
// len(partitions).
func bind(assignment model.Assignment, topic string, partitions []int32, hosts []*model.Host, quotas []int) {
	next := 0
	for i, h := range hosts {
		if quotas[i] == 0 {
			continue
		}
		for j, n := range splitQuota(quotas[i], len(h.MemberIDs)) {
			assignment.Add(h.MemberIDs[j], topic, partitions[next:next+n]...)
			next += n
		}
	}
}
