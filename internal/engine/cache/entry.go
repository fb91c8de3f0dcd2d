package cache

import (
	"encoding/json"
	"time"

	"github.com/rshade/kepler/pkg/version"
)

// Entry is one cached value with expiry and provenance metadata.
type Entry struct {
	// Key is the SHA-256 hex digest the entry is stored under.
	Key string `json:"key"`

	// Version is the kepler version that wrote the entry.
	Version string `json:"version"`

	// Data is the cached payload.
	Data json.RawMessage `json:"data"`

	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	TTLSeconds int       `json:"ttl_seconds"`
}

// NewEntry creates an entry that expires ttlSeconds from now.
func NewEntry(key, version string, data json.RawMessage, ttlSeconds int) *Entry {
	now := time.Now().UTC()
	return &Entry{
		Key:        key,
		Version:    version,
		Data:       data,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(ttlSeconds) * time.Second),
		TTLSeconds: ttlSeconds,
	}
}

// IsExpired reports whether the entry is past its expiry time.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Age returns the time since the entry was written.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// TimeUntilExpiration returns the remaining lifetime, or 0 once expired.
func (e *Entry) TimeUntilExpiration() time.Duration {
	return max(time.Until(e.ExpiresAt), 0)
}

// CompatibleWith reports whether an entry written by e.Version can be read
// by the given running version. Major versions must match; for 0.x releases
// the minor version must match as well. Unparseable versions never match.
func (e *Entry) CompatibleWith(running string) bool {
	written, err := version.Parse(e.Version)
	if err != nil {
		return false
	}
	current, err := version.Parse(running)
	if err != nil {
		return false
	}
	if written.Major() != current.Major() {
		return false
	}
	if current.Major() == 0 {
		return written.Minor() == current.Minor()
	}
	return true
}
