package janitor

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/gguarino/torrentjanitor/qbittorrent"
)

// Tracker holds the grace-period state for torrents that matched a
// grace-checked rule. It is owned by the Janitor and only ever touched
// from the single cycle goroutine.
type Tracker struct {
	entries     map[string]*MonitorEntry
	graceChecks int
	logger      zerolog.Logger
}

// NewTracker creates an empty tracker with the given strike threshold.
func NewTracker(graceChecks int, logger zerolog.Logger) *Tracker {
	return &Tracker{
		entries:     make(map[string]*MonitorEntry),
		graceChecks: graceChecks,
		logger:      logger,
	}
}

// Restore replaces the tracked entries, typically from persisted state.
func (t *Tracker) Restore(entries map[string]*MonitorEntry) {
	if entries == nil {
		entries = make(map[string]*MonitorEntry)
	}
	t.entries = entries
}

// Check records one more flagged cycle for the torrent and decides between
// Monitor and RemoveNow.
//
// A new entry always starts at one strike and yields Monitor. An existing
// entry is incremented and refreshed; once the count reaches the threshold
// the verdict is RemoveNow. The entry itself survives a RemoveNow verdict:
// it is only dropped via Forget once the removal actually succeeded, so a
// failed delete keeps the strike count for the retry next cycle.
//
// The stored reason is overwritten when the triggering condition changes
// between cycles; the counter keeps incrementing so a torrent cannot reset
// its grace window by oscillating between conditions.
func (t *Tracker) Check(rec *qbittorrent.TorrentInfo, reason RemovalReason, now time.Time) Verdict {
	entry, ok := t.entries[rec.Hash]
	if !ok {
		t.entries[rec.Hash] = &MonitorEntry{
			Hash:      rec.Hash,
			Name:      truncateName(rec.Name),
			Count:     1,
			Reason:    reason,
			FirstSeen: now,
			LastCheck: now,
			Size:      rec.Size,
			Progress:  rec.Progress,
		}
		t.logger.Warn().
			Str("name", truncateName(rec.Name)).
			Str("reason", string(reason)).
			Msgf("Check 1/%d", t.graceChecks)
		return Monitor(reason)
	}

	entry.Count++
	entry.Reason = reason
	entry.LastCheck = now
	entry.Size = rec.Size
	entry.Progress = rec.Progress

	if entry.Count >= t.graceChecks {
		t.logger.Info().
			Str("name", entry.Name).
			Str("reason", string(reason)).
			Int("checks", entry.Count).
			Msg("Removing after repeated checks")
		return RemoveNow(reason)
	}

	t.logger.Warn().
		Str("name", entry.Name).
		Str("reason", string(reason)).
		Msgf("Check %d/%d", entry.Count, t.graceChecks)
	return Monitor(reason)
}

// Clear drops the entry for a torrent whose condition no longer holds.
// Strike counts never decay partially; the next violation starts from one.
func (t *Tracker) Clear(hash string) {
	delete(t.entries, hash)
}

// Forget drops entries for torrents that were successfully removed.
func (t *Tracker) Forget(hashes []string) {
	for _, h := range hashes {
		delete(t.entries, h)
	}
}

// Reconcile drops entries whose torrent is no longer in the live set,
// e.g. removed by the user. Returns how many entries were dropped.
func (t *Tracker) Reconcile(live map[string]struct{}) int {
	var stale []string
	for h := range t.entries {
		if _, ok := live[h]; !ok {
			stale = append(stale, h)
		}
	}
	for _, h := range stale {
		delete(t.entries, h)
	}
	return len(stale)
}

// Get returns the entry for a hash, if one exists.
func (t *Tracker) Get(hash string) (*MonitorEntry, bool) {
	entry, ok := t.entries[hash]
	return entry, ok
}

// Len returns the number of monitored torrents.
func (t *Tracker) Len() int {
	return len(t.entries)
}

// Entries exposes the tracked map for persistence.
func (t *Tracker) Entries() map[string]*MonitorEntry {
	return t.entries
}
