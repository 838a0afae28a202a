package mixed

import (
	"cmp"
	"fmt"
	"slices"

	assignorErrors "github.com/akihiro17/kafka-ec2/assignor/errors"
	"github.com/akihiro17/kafka-ec2/model"
	"github.com/akihiro17/kafka-ec2/weight"
)

// groupByHost pools members running on the same host. Hosts come back in
// ascending id order with ascending member ids; a host's weight is the sum of
// its members' weights. Members of one host must agree on instance family and
// zone.
func groupByHost(members []*model.Member, weights *weight.Snapshot) ([]*model.Host, error) {
	sorted := slices.Clone(members)
	slices.SortFunc(sorted, func(i, j *model.Member) int {
		if c := cmp.Compare(i.HostID, j.HostID); c != 0 {
			return c
		}
		return cmp.Compare(i.ID, j.ID)
	})

	var hosts []*model.Host
	for _, m := range sorted {
		w, err := weights.Weight(m.Family(), m.Zone)
		if err != nil {
			return nil, err
		}
		if n := len(hosts); n > 0 && hosts[n-1].ID == m.HostID {
			h := hosts[n-1]
			if h.Family != m.Family() || h.Zone != m.Zone {
				return nil, fmt.Errorf(
					"%w: member %s reports %s/%s on host %s, which other members report as %s/%s",
					assignorErrors.ErrMalformedMetadata, m.ID, m.Family(), m.Zone, h.ID, h.Family, h.Zone,
				)
			}
			h.Weight = h.Weight.Add(w)
			h.MemberIDs = append(h.MemberIDs, m.ID)
			continue
		}
		hosts = append(hosts, &model.Host{
			ID:        m.HostID,
			Family:    m.Family(),
			Zone:      m.Zone,
			Weight:    w,
			MemberIDs: []string{m.ID},
		})
	}
	return hosts, nil
}
