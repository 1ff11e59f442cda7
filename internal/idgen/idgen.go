// Package idgen provides short, URL-safe unique ID generation backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Per-entity ID prefixes. Every generated ID is prefix + random portion.
const (
	PrefixAccount       = "usr-"
	PrefixTask          = "tsk-"
	PrefixApplication   = "app-"
	PrefixParticipation = "prt-"
	PrefixTaskRequest   = "req-"
	PrefixProgressEvent = "evt-"
	PrefixReport        = "rpt-"
	PrefixComment       = "cmt-"
	PrefixConnection    = "con-"
	PrefixIntegration   = "int-"

	PrefixDeveloperApplication = "dev-"
	PrefixIntegrationActivity  = "act-"
	PrefixConfirmationKey      = "key-"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// Generate returns a new unique ID with the given prefix.
func Generate(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
