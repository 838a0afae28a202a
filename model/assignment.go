package model

// Assignment maps member id -> topic -> partitions. A member without
// partitions for a topic has no entry for that topic.
type Assignment map[string]map[string][]int32

// Add appends partitions of topic to memberID. Empty partition lists are ignored.
func (a Assignment) Add(memberID, topic string, partitions ...int32) {
	if len(partitions) == 0 {
		return
	}
	if _, ok := a[memberID]; !ok {
		a[memberID] = make(map[string][]int32, 1)
	}
	a[memberID][topic] = append(a[memberID][topic], partitions...)
}

// Partitions returns the partitions of topic owned by memberID, nil if none.
func (a Assignment) Partitions(memberID, topic string) []int32 {
	return a[memberID][topic]
}

// Count returns how many partitions of topic are assigned across all members.
func (a Assignment) Count(topic string) int {
	n := 0
	for _, topics := range a {
		n += len(topics[topic])
	}
	return n
}
