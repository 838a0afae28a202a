package mixed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/akihiro17/kafka-ec2/apportion"
	"github.com/akihiro17/kafka-ec2/assignor"
	assignorErrors "github.com/akihiro17/kafka-ec2/assignor/errors"
	"github.com/akihiro17/kafka-ec2/logger"
	"github.com/akihiro17/kafka-ec2/logger/zerolog"
	"github.com/akihiro17/kafka-ec2/model"
	"github.com/akihiro17/kafka-ec2/weight"
)

var (
	familyWeights = weight.FromFloats(map[string]float64{
		"r4": 1,
		"r5": 1.08,
		"m5": 1.13,
		"c5": 1.25,
	})
	zoneWeights = weight.FromFloats(map[string]float64{
		"ap-northeast-1a": 1,
		"ap-northeast-1c": 0.9,
	})
)

func newAssignor(t *testing.T, opts ...Option) *Assignor {
	t.Helper()
	resolver, err := weight.NewResolver(familyWeights, weight.StaticZoneWeights(zoneWeights))
	require.NoError(t, err)
	return NewAssignor(resolver, opts...)
}

func partitionRange(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(i)
	}
	return out
}

// requireExactCover checks that every partition of topic is owned by exactly
// one member.
func requireExactCover(t *testing.T, a model.Assignment, topic string, partitions []int32) {
	t.Helper()
	var got []int32
	for _, topics := range a {
		if ps, ok := topics[topic]; ok {
			require.NotEmpty(t, ps, "present topic entries are never empty")
			require.True(t, slices.IsSorted(ps))
			got = append(got, ps...)
		}
	}
	require.ElementsMatch(t, partitions, got)
}

var mixedFleet = map[string]string{
	// hosts with two members
	"0000-c5-a-0000": "i-00000000000000000,c5.xlarge,ap-northeast-1a",
	"0001-m5-a-0000": "i-00000000000000001,m5.xlarge,ap-northeast-1a",
	"0002-r5-a-0000": "i-00000000000000002,r5.xlarge,ap-northeast-1a",
	"0003-r4-a-0000": "i-00000000000000003,r4.xlarge,ap-northeast-1a",
	"0004-c5-c-0000": "i-00000000000000004,c5.xlarge,ap-northeast-1c",
	"0005-m5-c-0000": "i-00000000000000005,m5.xlarge,ap-northeast-1c",
	"0006-r5-c-0000": "i-00000000000000006,r5.xlarge,ap-northeast-1c",
	"0007-r4-c-0000": "i-00000000000000007,r4.xlarge,ap-northeast-1c",
	"0000-c5-a-0001": "i-00000000000000000,c5.xlarge,ap-northeast-1a",
	"0001-m5-a-0001": "i-00000000000000001,m5.xlarge,ap-northeast-1a",
	"0002-r5-a-0001": "i-00000000000000002,r5.xlarge,ap-northeast-1a",
	"0003-r4-a-0001": "i-00000000000000003,r4.xlarge,ap-northeast-1a",
	"0004-c5-c-0001": "i-00000000000000004,c5.xlarge,ap-northeast-1c",
	"0005-m5-c-0001": "i-00000000000000005,m5.xlarge,ap-northeast-1c",
	"0006-r5-c-0001": "i-00000000000000006,r5.xlarge,ap-northeast-1c",
	"0007-r4-c-0001": "i-00000000000000007,r4.xlarge,ap-northeast-1c",
	// hosts with one member
	"1000-c5-a-0000": "i-00000000000001000,c5.xlarge,ap-northeast-1a",
	"1001-r4-a-0000": "i-00000000000001001,r4.xlarge,ap-northeast-1a",
}

func TestAssign_MixedFleet(t *testing.T) {
	partitions := partitionRange(500)
	lister := assignor.StaticLister{"topic": partitions}

	shared := map[string]int{
		"0000-c5-a-0000": 33,
		"0000-c5-a-0001": 32,
		"0001-m5-a-0000": 30,
		"0001-m5-a-0001": 29,
		"0002-r5-a-0000": 28,
		"0002-r5-a-0001": 28,
		"0003-r4-a-0000": 26,
		"0003-r4-a-0001": 26,
		"0004-c5-c-0000": 30,
		"0004-c5-c-0001": 29,
		"0005-m5-c-0000": 27,
		"0005-m5-c-0001": 26,
		"0006-r5-c-0000": 26,
		"0006-r5-c-0001": 25,
		"0007-r4-c-0000": 24,
		"0007-r4-c-0001": 23,
	}

	tests := []struct {
		name        string
		apportioner apportion.Apportioner
		singles     map[string]int
	}{
		{
			name:        "largest remainder",
			apportioner: apportion.LargestRemainder{},
			singles:     map[string]int{"1000-c5-a-0000": 32, "1001-r4-a-0000": 26},
		},
		{
			name:        "rounded",
			apportioner: apportion.Rounded{},
			singles:     map[string]int{"1000-c5-a-0000": 33, "1001-r4-a-0000": 25},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAssignor(t, WithApportioner(tt.apportioner))
			assignment, err := a.Assign(context.Background(), mixedFleet, []string{"topic"}, lister)
			require.NoError(t, err)
			requireExactCover(t, assignment, "topic", partitions)

			for member, n := range shared {
				require.Len(t, assignment.Partitions(member, "topic"), n, member)
			}
			for member, n := range tt.singles {
				require.Len(t, assignment.Partitions(member, "topic"), n, member)
			}
		})
	}
}

func TestAssign_SinglePartition(t *testing.T) {
	roster := map[string]string{
		"0000-c5-a-0000": "i-00000000000000000,c5.xlarge,ap-northeast-1a",
		"0001-m5-a-0000": "i-00000000000000001,m5.xlarge,ap-northeast-1a",
	}
	lister := assignor.StaticLister{"topic": {0}}
	for _, ap := range []apportion.Apportioner{apportion.LargestRemainder{}, apportion.Rounded{}} {
		t.Run(ap.Name(), func(t *testing.T) {
			assignment, err := newAssignor(t, WithApportioner(ap)).Assign(context.Background(), roster, []string{"topic"}, lister)
			require.NoError(t, err)
			require.Equal(t, []int32{0}, assignment.Partitions("0000-c5-a-0000", "topic"))
			_, ok := assignment["0001-m5-a-0000"]["topic"]
			require.False(t, ok, "a member without partitions has no topic entry")
		})
	}
}

func TestAssign_EqualHostsWithoutOmissions(t *testing.T) {
	roster := map[string]string{
		"0000-r4-a-0000": "i-00000000000000000,r4.xlarge,ap-northeast-1a",
		"0000-r4-a-0001": "i-00000000000000001,r4.xlarge,ap-northeast-1a",
		"0000-r4-a-0002": "i-00000000000000002,r4.xlarge,ap-northeast-1a",
	}
	partitions := partitionRange(10)
	lister := assignor.StaticLister{"topic": partitions}
	for _, ap := range []apportion.Apportioner{apportion.LargestRemainder{}, apportion.Rounded{}} {
		t.Run(ap.Name(), func(t *testing.T) {
			assignment, err := newAssignor(t, WithApportioner(ap)).Assign(context.Background(), roster, []string{"topic"}, lister)
			require.NoError(t, err)
			requireExactCover(t, assignment, "topic", partitions)
			require.Equal(t, []int32{0, 1, 2, 3}, assignment.Partitions("0000-r4-a-0000", "topic"))
			require.Equal(t, []int32{4, 5, 6}, assignment.Partitions("0000-r4-a-0001", "topic"))
			require.Equal(t, []int32{7, 8, 9}, assignment.Partitions("0000-r4-a-0002", "topic"))
		})
	}
}

func TestAssign_Errors(t *testing.T) {
	lister := assignor.StaticLister{"topic": partitionRange(4), "empty": {}}

	tests := []struct {
		name   string
		roster map[string]string
		topics []string
		lister assignor.PartitionLister
		want   error
	}{
		{
			name:   "unknown family",
			roster: map[string]string{"m-0": "i-0,t3.micro,ap-northeast-1a"},
			topics: []string{"topic"},
			want:   assignorErrors.ErrUnknownInstanceFamily,
		},
		{
			name:   "unknown zone",
			roster: map[string]string{"m-0": "i-0,c5.xlarge,us-east-1a"},
			topics: []string{"topic"},
			want:   assignorErrors.ErrUnknownZone,
		},
		{
			name:   "unknown family fails even without partitions",
			roster: map[string]string{"m-0": "i-0,t3.micro,ap-northeast-1a"},
			topics: []string{"empty"},
			want:   assignorErrors.ErrUnknownInstanceFamily,
		},
		{
			name:   "too few fields",
			roster: map[string]string{"m-0": "i-0,c5.xlarge"},
			topics: []string{"topic"},
			want:   assignorErrors.ErrMalformedMetadata,
		},
		{
			name:   "too many fields",
			roster: map[string]string{"m-0": "i-0,c5.xlarge,ap-northeast-1a,extra"},
			topics: []string{"topic"},
			want:   assignorErrors.ErrMalformedMetadata,
		},
		{
			name: "members of one host disagree on family",
			roster: map[string]string{
				"m-0": "i-0,c5.xlarge,ap-northeast-1a",
				"m-1": "i-0,r4.xlarge,ap-northeast-1a",
			},
			topics: []string{"topic"},
			want:   assignorErrors.ErrMalformedMetadata,
		},
		{
			name: "members of one host disagree on zone",
			roster: map[string]string{
				"m-0": "i-0,c5.xlarge,ap-northeast-1a",
				"m-1": "i-0,c5.2xlarge,ap-northeast-1c",
			},
			topics: []string{"topic"},
			want:   assignorErrors.ErrMalformedMetadata,
		},
		{
			name:   "no members with partitions",
			roster: map[string]string{},
			topics: []string{"topic"},
			want:   assignorErrors.ErrNoMembers,
		},
		{
			name:   "duplicate partitions",
			roster: map[string]string{"m-0": "i-0,c5.xlarge,ap-northeast-1a"},
			topics: []string{"dup"},
			lister: assignor.StaticLister{"dup": {0, 1, 1}},
			want:   assignorErrors.ErrDuplicatePartition,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.lister
			if l == nil {
				l = lister
			}
			assignment, err := newAssignor(t).Assign(context.Background(), tt.roster, tt.topics, l)
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, assignment)
		})
	}

	t.Run("lister error", func(t *testing.T) {
		boom := errors.New("metadata unavailable")
		failing := assignor.ListerFunc(func(context.Context, string) ([]int32, error) {
			return nil, boom
		})
		roster := map[string]string{"m-0": "i-0,c5.xlarge,ap-northeast-1a"}
		assignment, err := newAssignor(t).Assign(context.Background(), roster, []string{"topic"}, failing)
		require.ErrorIs(t, err, boom)
		require.Nil(t, assignment)
	})
}

func TestAssign_LogsHostShares(t *testing.T) {
	var buf bytes.Buffer
	a := newAssignor(t, WithLogger(zerolog.NewLoggerWithWriter(logger.DebugLevel, &buf)))
	roster := map[string]string{
		"c5": "i-0,c5.xlarge,ap-northeast-1a",
		"r4": "i-1,r4.xlarge,ap-northeast-1a",
	}
	_, err := a.Assign(context.Background(), roster, []string{"topic"}, assignor.StaticLister{"topic": partitionRange(3)})
	require.NoError(t, err)

	type quotaLine struct {
		Message string  `json:"message"`
		Host    string  `json:"host"`
		Share   string  `json:"share"`
		Quota   float64 `json:"quota"`
	}
	var quotas []quotaLine
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry quotaLine
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry.Message == "host quota" {
			entry.Message = ""
			quotas = append(quotas, entry)
		}
	}
	require.Equal(t, []quotaLine{
		{Host: "i-0", Share: "1.667", Quota: 2},
		{Host: "i-1", Share: "1.333", Quota: 1},
	}, quotas)
}

func TestAssign_NoMembersNoPartitions(t *testing.T) {
	assignment, err := newAssignor(t).Assign(context.Background(), nil, []string{"empty"}, assignor.StaticLister{"empty": nil})
	require.NoError(t, err)
	require.Empty(t, assignment)
}

func TestAssign_CallsCollaboratorsOnce(t *testing.T) {
	zoneCalls := 0
	resolver, err := weight.NewResolver(familyWeights, weight.ZoneWeightsFunc(func() weight.Table {
		zoneCalls++
		return zoneWeights
	}))
	require.NoError(t, err)

	listed := map[string]int{}
	lister := assignor.ListerFunc(func(_ context.Context, topic string) ([]int32, error) {
		listed[topic]++
		return partitionRange(7), nil
	})

	a := NewAssignor(resolver)
	_, err = a.Assign(context.Background(), mixedFleet, []string{"a", "b", "a"}, lister)
	require.NoError(t, err)
	require.Equal(t, 1, zoneCalls)
	require.Equal(t, map[string]int{"a": 1, "b": 1}, listed)
}

func TestAssign_TopicsAreIndependent(t *testing.T) {
	lister := assignor.StaticLister{
		"orders":   partitionRange(12),
		"payments": {9, 3, 5, 7, 1},
	}
	a := newAssignor(t)
	assignment, err := a.Assign(context.Background(), mixedFleet, []string{"orders", "payments"}, lister)
	require.NoError(t, err)
	requireExactCover(t, assignment, "orders", lister["orders"])
	requireExactCover(t, assignment, "payments", lister["payments"])

	single, err := a.Assign(context.Background(), mixedFleet, []string{"payments"}, lister)
	require.NoError(t, err)
	for member := range mixedFleet {
		require.Equal(t, single.Partitions(member, "payments"), assignment.Partitions(member, "payments"))
	}
}

func TestAssign_ZoneWeightsFollowProvider(t *testing.T) {
	zones := weight.Table{}
	for k, v := range zoneWeights {
		zones[k] = v
	}
	resolver, err := weight.NewResolver(familyWeights, weight.ZoneWeightsFunc(func() weight.Table { return zones }))
	require.NoError(t, err)
	a := NewAssignor(resolver)

	roster := map[string]string{
		"a": "i-0,r4.xlarge,ap-northeast-1a",
		"c": "i-1,r4.xlarge,ap-northeast-1c",
	}
	lister := assignor.StaticLister{"topic": partitionRange(19)}

	before, err := a.Assign(context.Background(), roster, []string{"topic"}, lister)
	require.NoError(t, err)
	require.Len(t, before.Partitions("a", "topic"), 10)
	require.Len(t, before.Partitions("c", "topic"), 9)

	zones["ap-northeast-1c"] = decimal.RequireFromString("0.5")
	after, err := a.Assign(context.Background(), roster, []string{"topic"}, lister)
	require.NoError(t, err)
	require.Len(t, after.Partitions("a", "topic"), 13)
	require.Len(t, after.Partitions("c", "topic"), 6)
}

func randomRoster(rng *rand.Rand) map[string]string {
	families := []string{"r4.large", "r5.xlarge", "m5.2xlarge", "c5.xlarge"}
	zones := []string{"ap-northeast-1a", "ap-northeast-1c"}
	roster := map[string]string{}
	hosts := 1 + rng.Intn(8)
	for h := 0; h < hosts; h++ {
		family := families[rng.Intn(len(families))]
		zone := zones[rng.Intn(len(zones))]
		for m := 0; m <= rng.Intn(3); m++ {
			roster[fmt.Sprintf("member-%d-%d", h, m)] = model.FormatMetadata(fmt.Sprintf("i-%03d", h), family, zone)
		}
	}
	return roster
}

func TestAssign_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := newAssignor(t)
	for iter := 0; iter < 200; iter++ {
		roster := randomRoster(rng)
		partitions := rng.Perm(rng.Intn(300))
		ps := make([]int32, len(partitions))
		for i, p := range partitions {
			ps[i] = int32(p)
		}
		lister := assignor.StaticLister{"topic": ps}

		first, err := a.Assign(context.Background(), roster, []string{"topic"}, lister)
		require.NoError(t, err)
		requireExactCover(t, first, "topic", ps)

		second, err := a.Assign(context.Background(), roster, []string{"topic"}, lister)
		require.NoError(t, err)
		require.Equal(t, first, second)

		for member := range first {
			_, ok := roster[member]
			require.True(t, ok, "unknown member %s in assignment", member)
		}
	}
}
