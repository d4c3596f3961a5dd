package qbittorrent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTorrentStateHelpers(t *testing.T) {
	tests := []struct {
		state   TorrentState
		stalled bool
		errored bool
		paused  bool
		seeding bool
	}{
		{StateDownloading, false, false, false, false},
		{StateUploading, false, false, false, true},
		{StateStalledDL, true, false, false, false},
		{StateStalledUP, true, false, false, true},
		{StateQueuedDL, false, false, false, false},
		{StateQueuedUP, false, false, false, true},
		{StateForcedUP, false, false, false, true},
		{StateMetaDL, false, false, false, false},
		{StateError, false, true, false, false},
		{StateMissingFiles, false, true, false, false},
		{StatePausedDL, false, false, true, false},
		{StatePausedUP, false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			info := &TorrentInfo{State: tt.state}

			assert.Equal(t, tt.stalled, info.IsStalled())
			assert.Equal(t, tt.errored, info.IsErrored())
			assert.Equal(t, tt.paused, info.IsPaused())
			assert.Equal(t, tt.seeding, info.IsActivelySeeding())
		})
	}
}

func TestTorrentAge(t *testing.T) {
	now := time.Now()
	info := &TorrentInfo{AddedOn: now.Add(-90 * time.Minute)}

	assert.Equal(t, 90*time.Minute, info.Age(now))
}
