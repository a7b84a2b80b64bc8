// Package reconcile holds the pure decision logic of an announcement
// cycle: which fetched items are new, in what order they get announced,
// and which IDs get committed after a confirmed publish. It knows nothing
// about HTTP, social platforms, or timers.
package reconcile

import (
	"sort"

	"heraldo/internal/state"
	"heraldo/internal/types"
)

// SelectNew returns the subset of raw items not yet posted for the source,
// sorted ascending by publish time (oldest first). Announcing oldest-first
// matches how the items would have been posted one at a time as they
// appeared. Equal timestamps keep source-fetch order: upstream timestamps
// are second-granularity, so ties are rare but possible, and the stable
// sort leaves them alone.
func SelectNew(sess *state.Session, key types.SourceKey, raw []types.Item) []types.Item {
	fresh := sess.FilterNew(key, raw)
	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].PublishedAt.Before(fresh[j].PublishedAt)
	})
	return fresh
}

// Merge concatenates the per-source new-item batches and re-sorts the
// combined sequence ascending by publish time, so cross-source
// interleaving also respects chronology.
func Merge(perSource ...[]types.Item) []types.Item {
	var total int
	for _, batch := range perSource {
		total += len(batch)
	}

	merged := make([]types.Item, 0, total)
	for _, batch := range perSource {
		merged = append(merged, batch...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.Before(merged[j].PublishedAt)
	})
	return merged
}

// Commit records confirmed-published IDs in the session. Callers must only
// pass IDs whose publish succeeded: a partially failed batch must not mark
// its failed items as posted, so they are re-offered next cycle.
func Commit(sess *state.Session, key types.SourceKey, succeededIDs []string) {
	sess.MarkPosted(key, succeededIDs)
}
