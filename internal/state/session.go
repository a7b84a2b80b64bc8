package state

import (
	"context"
	"time"

	"heraldo/internal/types"
)

// Session is a single-use reconciliation context over one Store. It loads
// the persisted document once, serves every dedup query and mutation from
// the in-memory copy, and writes back at most once at the end of its life.
// Each cycle constructs its own session; nothing holds one across cycles.
type Session struct {
	store  Store
	st     State
	index  map[types.SourceKey]map[string]struct{}
	loaded bool
	dirty  bool
	now    func() time.Time
}

func NewSession(store Store) *Session {
	return &Session{
		store: store,
		now:   time.Now,
	}
}

// Load fetches the document from the store. Subsequent calls within the
// same session are no-ops. If Load fails the session must not be used:
// proceeding with a fabricated empty document would re-announce everything
// already posted.
func (s *Session) Load(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	st, err := s.store.Load(ctx)
	if err != nil {
		return types.NewStorageError("load", err)
	}

	s.st = st.normalize()
	s.index = make(map[types.SourceKey]map[string]struct{}, len(s.st))
	for key, rec := range s.st {
		set := make(map[string]struct{}, len(rec.PostedIDs))
		for _, id := range rec.PostedIDs {
			set[id] = struct{}{}
		}
		s.index[key] = set
	}
	s.loaded = true
	return nil
}

// IsAlreadyPosted reports whether the ID is in the source's posted set.
func (s *Session) IsAlreadyPosted(key types.SourceKey, id string) bool {
	_, ok := s.index[key][id]
	return ok
}

// FilterNew returns the subset of items not already posted, preserving
// input order.
func (s *Session) FilterNew(key types.SourceKey, items []types.Item) []types.Item {
	fresh := make([]types.Item, 0, len(items))
	for _, item := range items {
		if !s.IsAlreadyPosted(key, item.ID) {
			fresh = append(fresh, item)
		}
	}
	return fresh
}

// MarkPosted prepends ids (in the order given) to the source's posted
// list, truncates to MaxPosted keeping the most recent, and resets the
// failure counter. Empty ids is a no-op and does not mark the session
// dirty.
func (s *Session) MarkPosted(key types.SourceKey, ids []string) {
	if len(ids) == 0 {
		return
	}

	rec := s.st[key]
	merged := make([]string, 0, len(ids)+len(rec.PostedIDs))
	merged = append(merged, ids...)
	merged = append(merged, rec.PostedIDs...)
	if len(merged) > MaxPosted {
		merged = merged[:MaxPosted]
	}

	rec.PostedIDs = merged
	rec.ConsecutiveFailures = 0
	rec.LastUpdatedAt = s.now()
	s.st[key] = rec

	set := make(map[string]struct{}, len(merged))
	for _, id := range merged {
		set[id] = struct{}{}
	}
	s.index[key] = set
	s.dirty = true
}

// RecordFailure increments the source's consecutive-failure counter and
// returns the new count.
func (s *Session) RecordFailure(key types.SourceKey) int {
	rec := s.st[key]
	rec.ConsecutiveFailures++
	rec.LastUpdatedAt = s.now()
	s.st[key] = rec
	s.dirty = true
	return rec.ConsecutiveFailures
}

// ResetFailures zeroes the counter, marking the session dirty only when
// the counter was non-zero. This keeps storage writes proportional to
// state changes rather than to cycle count.
func (s *Session) ResetFailures(key types.SourceKey) {
	rec := s.st[key]
	if rec.ConsecutiveFailures == 0 {
		return
	}

	rec.ConsecutiveFailures = 0
	rec.LastUpdatedAt = s.now()
	s.st[key] = rec
	s.dirty = true
}

// Failures returns the current consecutive-failure count for the source.
func (s *Session) Failures(key types.SourceKey) int {
	return s.st[key].ConsecutiveFailures
}

// Flush persists the in-memory document if and only if a mutation
// occurred. It reports whether a write happened and clears the dirty flag
// on success, so a second call is a no-op.
func (s *Session) Flush(ctx context.Context) (bool, error) {
	if !s.dirty {
		return false, nil
	}

	if err := s.store.Save(ctx, s.st); err != nil {
		return false, types.NewStorageError("save", err)
	}

	s.dirty = false
	return true, nil
}
