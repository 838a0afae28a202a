package model

import (
	"fmt"
	"strings"

	assignorErrors "github.com/akihiro17/kafka-ec2/assignor/errors"
)

// Member is a consumer group member together with the host it runs on.
type Member struct {
	ID           string
	HostID       string
	InstanceType string
	Zone         string
}

// Family is the instance family part of the instance type, "c5" for "c5.xlarge".
func (m *Member) Family() string {
	family, _, _ := strings.Cut(m.InstanceType, ".")
	return family
}

// ParseMember parses the "hostId,instanceType,availabilityZone" string a
// member advertises when it joins the group.
func ParseMember(memberID, metadata string) (*Member, error) {
	fields := strings.Split(metadata, ",")
	if len(fields) != 3 {
		return nil, fmt.Errorf(
			"%w: member %s: expected 3 fields, got %d in %q",
			assignorErrors.ErrMalformedMetadata, memberID, len(fields), metadata,
		)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
		if fields[i] == "" {
			return nil, fmt.Errorf(
				"%w: member %s: empty field %d in %q",
				assignorErrors.ErrMalformedMetadata, memberID, i, metadata,
			)
		}
	}
	return &Member{
		ID:           memberID,
		HostID:       fields[0],
		InstanceType: fields[1],
		Zone:         fields[2],
	}, nil
}

// FormatMetadata is the inverse of ParseMember.
func FormatMetadata(hostID, instanceType, zone string) string {
	return strings.Join([]string{hostID, instanceType, zone}, ",")
}
