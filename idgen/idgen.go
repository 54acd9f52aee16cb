// Package idgen provides pluggable ID generation. Constructors that need
// identifiers (audit entries, QUIC session IDs) accept a Generator so the
// strategy is a startup-time decision.
package idgen

import (
	"crypto/rand"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// NanoID returns a Generator producing base-36 IDs of the given length.
// Short and URL-safe; use where UUIDv7 is too verbose (session IDs).
func NanoID(length int) Generator {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	return func() string {
		buf := make([]byte, length)
		if _, err := rand.Read(buf); err != nil {
			panic("idgen: crypto/rand failed: " + err.Error())
		}
		for i, b := range buf {
			buf[i] = alphabet[int(b)%len(alphabet)]
		}
		return string(buf)
	}
}

// UUIDv7 returns a Generator producing RFC 9562 UUID v7 strings.
// Time-sortable, so audit entries cluster in insertion order.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed wraps a Generator and prepends a fixed prefix to every ID
// ("aud_", "quic_").
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Default is the project default: UUIDv7.
var Default Generator = UUIDv7()
