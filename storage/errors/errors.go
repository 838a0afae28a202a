package errors

import "errors"

var (
	ErrTopicNotFound    = errors.New("topic not found")
	ErrInvalidPartition = errors.New("invalid partition")
)
