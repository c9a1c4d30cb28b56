// Package idgen generates run identifiers for emissions produced by the CLI
// and the simulator rather than a real CI system.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes identify where a generated run id came from.
const (
	PrefixSimulated = "sim-"
	PrefixManual    = "cli-"
)

// alphabet excludes look-alike characters so ids survive being read aloud.
const alphabet = "23456789abcdefghjkmnpqrstuvwxyz"

// Length is the number of random characters after the prefix.
const Length = 12

// RunID returns prefix followed by Length random characters.
func RunID(prefix string) (string, error) {
	id, err := nanoid.Generate(alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// MustRunID is RunID for callers that cannot recover from a failing entropy
// source.
func MustRunID(prefix string) string {
	id, err := RunID(prefix)
	if err != nil {
		panic(err)
	}
	return id
}
