// Package idgen provides pluggable ID generation for domundo: Context
// holds a Generator that frame.go's enter calls for each frame's ID rather
// than hardcoding a scheme, so the ID strategy stays a construction-time
// decision.
package idgen

import "github.com/google/uuid"

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator that produces RFC 9562 UUID v7 strings.
// Time-sortable, globally unique.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}
