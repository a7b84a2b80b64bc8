package state

import (
	"time"

	"heraldo/internal/types"
)

// MaxPosted bounds the per-source posted-ID history. The list is kept
// newest-first, so the tail holds the oldest entries and is what gets
// dropped on overflow.
const MaxPosted = 1000

// Record is the per-source persisted state.
type Record struct {
	PostedIDs           []string  `json:"postedIds"`
	LastUpdatedAt       time.Time `json:"lastUpdatedAt"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
}

// State is the whole persisted document: one Record per source key,
// serialized as a single JSON object under a single storage key.
type State map[types.SourceKey]Record

// Default returns the state used when nothing has been persisted yet:
// both records empty, zero failures, epoch timestamp.
func Default() State {
	st := make(State, len(types.SourceKeys()))
	for _, key := range types.SourceKeys() {
		st[key] = Record{PostedIDs: []string{}}
	}
	return st
}

// Clone returns a deep copy so a session can mutate freely without
// aliasing the store's view.
func (s State) Clone() State {
	out := make(State, len(s))
	for key, rec := range s {
		ids := make([]string, len(rec.PostedIDs))
		copy(ids, rec.PostedIDs)
		rec.PostedIDs = ids
		out[key] = rec
	}
	return out
}

// normalize fills in records for any missing source key, so documents
// persisted before a key existed still load cleanly.
func (s State) normalize() State {
	for _, key := range types.SourceKeys() {
		if _, ok := s[key]; !ok {
			s[key] = Record{PostedIDs: []string{}}
		}
	}
	return s
}
