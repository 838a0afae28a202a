package errors

import "errors"

var (
	ErrUnknownInstanceFamily = errors.New("unknown instance family")
	ErrUnknownZone           = errors.New("unknown availability zone")
	ErrNonPositiveWeight     = errors.New("weight must be positive")

	ErrMalformedMetadata = errors.New("malformed member metadata")

	ErrNoMembers          = errors.New("no members to assign partitions to")
	ErrDuplicatePartition = errors.New("duplicate partition")
)
