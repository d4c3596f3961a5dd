package qbittorrent

import "time"

// TorrentState is the lifecycle state reported by the qBittorrent API.
// The set is closed; rule dispatch switches on these values.
type TorrentState string

const (
	StateDownloading  TorrentState = "downloading"
	StateUploading    TorrentState = "uploading"
	StateStalledDL    TorrentState = "stalledDL"
	StateStalledUP    TorrentState = "stalledUP"
	StateQueuedDL     TorrentState = "queuedDL"
	StateQueuedUP     TorrentState = "queuedUP"
	StateForcedUP     TorrentState = "forcedUP"
	StateMetaDL       TorrentState = "metaDL"
	StateError        TorrentState = "error"
	StateMissingFiles TorrentState = "missingFiles"
	StatePausedDL     TorrentState = "pausedDL"
	StatePausedUP     TorrentState = "pausedUP"
)

// TorrentInfo contains the per-torrent fields the janitor evaluates.
type TorrentInfo struct {
	Hash     string
	Name     string
	State    TorrentState
	AddedOn  time.Time
	Size     int64
	Progress float64
	DlSpeed  int64
	NumSeeds int64
	Ratio    float64
	Category string
	Tracker  string
	Tags     []string
}

// Age returns how long the torrent has been in the client.
func (t *TorrentInfo) Age(now time.Time) time.Duration {
	return now.Sub(t.AddedOn)
}

// IsStalled reports whether the torrent is stalled in either direction.
func (t *TorrentInfo) IsStalled() bool {
	return t.State == StateStalledDL || t.State == StateStalledUP
}

// IsErrored reports whether the torrent is in an error state.
func (t *TorrentInfo) IsErrored() bool {
	return t.State == StateError || t.State == StateMissingFiles
}

// IsPaused reports whether the torrent is paused.
func (t *TorrentInfo) IsPaused() bool {
	return t.State == StatePausedDL || t.State == StatePausedUP
}

// IsActivelySeeding checks if the torrent is in a seeding state.
func (t *TorrentInfo) IsActivelySeeding() bool {
	return t.State == StateUploading || t.State == StateStalledUP ||
		t.State == StateQueuedUP || t.State == StateForcedUP
}
