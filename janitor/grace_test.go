package janitor

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gguarino/torrentjanitor/qbittorrent"
)

func graceTorrent(hash string) *qbittorrent.TorrentInfo {
	return &qbittorrent.TorrentInfo{
		Hash:     hash,
		Name:     "torrent-" + hash,
		State:    qbittorrent.StateStalledDL,
		AddedOn:  time.Now().Add(-72 * time.Hour),
		Size:     1 << 30,
		Progress: 0.42,
	}
}

func TestTrackerFirstStrike(t *testing.T) {
	tracker := NewTracker(3, zerolog.Nop())
	now := time.Now()

	verdict := tracker.Check(graceTorrent("aaa"), ReasonStalled, now)

	assert.Equal(t, ActionMonitor, verdict.Action)
	assert.Equal(t, ReasonStalled, verdict.Reason)

	entry, ok := tracker.Get("aaa")
	require.True(t, ok)
	assert.Equal(t, 1, entry.Count)
	assert.Equal(t, ReasonStalled, entry.Reason)
	assert.Equal(t, now, entry.FirstSeen)
	assert.Equal(t, int64(1<<30), entry.Size)
}

func TestTrackerReachesThreshold(t *testing.T) {
	tracker := NewTracker(3, zerolog.Nop())
	rec := graceTorrent("bbb")

	v1 := tracker.Check(rec, ReasonStalled, time.Now())
	v2 := tracker.Check(rec, ReasonStalled, time.Now())
	v3 := tracker.Check(rec, ReasonStalled, time.Now())

	assert.Equal(t, ActionMonitor, v1.Action)
	assert.Equal(t, ActionMonitor, v2.Action)
	assert.Equal(t, ActionRemove, v3.Action)
	assert.Equal(t, ReasonStalled, v3.Reason)

	// The entry survives the RemoveNow verdict; only a confirmed removal
	// forgets it, so a failed delete keeps the strike count.
	entry, ok := tracker.Get("bbb")
	require.True(t, ok)
	assert.Equal(t, 3, entry.Count)

	tracker.Forget([]string{"bbb"})
	_, ok = tracker.Get("bbb")
	assert.False(t, ok)
}

func TestTrackerReasonChangeKeepsCounting(t *testing.T) {
	tracker := NewTracker(3, zerolog.Nop())
	rec := graceTorrent("ccc")

	tracker.Check(rec, ReasonStalled, time.Now())
	tracker.Check(rec, ReasonStalled, time.Now())

	// Condition flips to a different grace-eligible reason: the counter
	// must not restart, and the stored reason follows the new condition.
	v := tracker.Check(rec, ReasonQueueTimeout, time.Now())

	assert.Equal(t, ActionRemove, v.Action)
	assert.Equal(t, ReasonQueueTimeout, v.Reason)

	entry, ok := tracker.Get("ccc")
	require.True(t, ok)
	assert.Equal(t, 3, entry.Count)
	assert.Equal(t, ReasonQueueTimeout, entry.Reason)
}

func TestTrackerClearResetsStrikes(t *testing.T) {
	tracker := NewTracker(3, zerolog.Nop())
	rec := graceTorrent("ddd")

	tracker.Check(rec, ReasonStalled, time.Now())
	tracker.Check(rec, ReasonStalled, time.Now())
	tracker.Clear("ddd")

	_, ok := tracker.Get("ddd")
	assert.False(t, ok)

	// No residual memory: the next violation starts from one again.
	v := tracker.Check(rec, ReasonStalled, time.Now())
	assert.Equal(t, ActionMonitor, v.Action)

	entry, ok := tracker.Get("ddd")
	require.True(t, ok)
	assert.Equal(t, 1, entry.Count)
}

func TestTrackerReconcile(t *testing.T) {
	tracker := NewTracker(3, zerolog.Nop())
	tracker.Check(graceTorrent("live"), ReasonStalled, time.Now())
	tracker.Check(graceTorrent("gone"), ReasonStalled, time.Now())

	removed := tracker.Reconcile(map[string]struct{}{"live": {}})

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, tracker.Len())
	_, ok := tracker.Get("gone")
	assert.False(t, ok)
	_, ok = tracker.Get("live")
	assert.True(t, ok)
}

func TestTrackerRestore(t *testing.T) {
	tracker := NewTracker(3, zerolog.Nop())
	tracker.Restore(map[string]*MonitorEntry{
		"eee": {Hash: "eee", Name: "restored", Count: 2, Reason: ReasonStalled},
	})

	// A restored entry continues from its persisted strike count.
	v := tracker.Check(graceTorrent("eee"), ReasonStalled, time.Now())
	assert.Equal(t, ActionRemove, v.Action)
}

func TestTruncateName(t *testing.T) {
	long := make([]byte, 250)
	for i := range long {
		long[i] = 'x'
	}

	assert.Len(t, truncateName(string(long)), maxNameLen)
	assert.Equal(t, "short", truncateName("short"))
}
