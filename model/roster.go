package model

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type rosterFile struct {
	Members map[string]string `yaml:"members"`
}

// DecodeRoster reads a YAML document of the form
//
//	members:
//	  member-0: "i-0123,c5.xlarge,ap-northeast-1a"
//
// and returns member id -> metadata.
func DecodeRoster(r io.Reader) (map[string]string, error) {
	var f rosterFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}
	if f.Members == nil {
		return map[string]string{}, nil
	}
	return f.Members, nil
}
