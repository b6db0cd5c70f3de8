package store

import "errors"

// Sentinel errors surfaced to callers. The connection dispatcher maps these
// onto the wire-level error replies described in spec.md §7.
var (
	// ErrNotFound is returned by Expire when the key is absent or already expired.
	ErrNotFound = errors.New("key not found")

	// ErrNotInteger is returned by Incr/Decr when the stored value cannot be
	// parsed as a signed 64-bit decimal integer.
	ErrNotInteger = errors.New("value is not an integer")

	// ErrBadDumpFormat is returned by Load when the dump file's magic or
	// version does not match what this build writes.
	ErrBadDumpFormat = errors.New("bad dump format")
)
