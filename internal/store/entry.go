package store

import "time"

// Entry is a single stored value together with its optional expiration.
//
// A nil expiresAt means the entry never expires. When expiresAt is set, the
// entry is considered absent once time.Now() has reached or passed it
// (spec.md §3); readers must treat it as absent even if the reaper has not
// yet physically removed it.
type Entry struct {
	value     []byte
	expiresAt *time.Time
}

func newEntry(value []byte) *Entry {
	return &Entry{value: value}
}

func (e *Entry) expired(now time.Time) bool {
	return e.expiresAt != nil && !now.Before(*e.expiresAt)
}
