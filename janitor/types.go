package janitor

import (
	"time"
)

// maxNameLen bounds torrent names in logs and persisted state.
const maxNameLen = 100

// RemovalReason describes why a torrent was condemned. The set is closed.
type RemovalReason string

const (
	ReasonErrorState   RemovalReason = "error state or missing files"
	ReasonStalled      RemovalReason = "stalled torrent"
	ReasonMetaTimeout  RemovalReason = "metadata download timeout"
	ReasonNoActivity   RemovalReason = "no download activity"
	ReasonQueueTimeout RemovalReason = "queue timeout exceeded"
	ReasonAutoCategory RemovalReason = "auto-remove category"
	ReasonManual       RemovalReason = "manual removal"
	ReasonLowRatio     RemovalReason = "low share ratio"
	ReasonSizeLimit    RemovalReason = "size limit exceeded"
)

// Action is the verdict category for a single evaluation.
type Action int

const (
	// ActionClear means the torrent is healthy or protected; any monitor
	// entry for it is dropped.
	ActionClear Action = iota
	// ActionMonitor means a grace-checked rule matched but the strike
	// threshold has not been reached yet.
	ActionMonitor
	// ActionRemove means the torrent should be removed this cycle.
	ActionRemove
)

// Verdict is the result of evaluating one torrent.
type Verdict struct {
	Action Action
	Reason RemovalReason
}

// Clear is the verdict for healthy or protected torrents.
func Clear() Verdict { return Verdict{Action: ActionClear} }

// Monitor is the verdict while a torrent accumulates strikes.
func Monitor(reason RemovalReason) Verdict {
	return Verdict{Action: ActionMonitor, Reason: reason}
}

// RemoveNow is the verdict for torrents to be removed this cycle.
func RemoveNow(reason RemovalReason) Verdict {
	return Verdict{Action: ActionRemove, Reason: reason}
}

// MonitorEntry is the per-torrent grace-tracking record, keyed by hash.
type MonitorEntry struct {
	Hash      string        `json:"hash"`
	Name      string        `json:"name"`
	Count     int           `json:"count"`
	Reason    RemovalReason `json:"reason"`
	FirstSeen time.Time     `json:"first_seen"`
	LastCheck time.Time     `json:"last_check"`
	Size      int64         `json:"size"`
	Progress  float64       `json:"progress"`
}

// Condemned identifies a torrent whose verdict this cycle is RemoveNow.
type Condemned struct {
	Hash   string
	Name   string
	Size   int64
	Reason RemovalReason
}

// CycleStats holds the per-state counters reported after each cycle.
type CycleStats struct {
	Total       int
	Downloading int
	Seeding     int
	Queued      int
	Stalled     int
	MetaDL      int
	Errored     int
	Paused      int
}

// SessionStats accumulates over the lifetime of one process and is
// persisted after every cycle.
type SessionStats struct {
	SessionStarted  time.Time `json:"session_started"`
	TorrentsRemoved int       `json:"torrents_removed"`
	SpaceFreed      int64     `json:"space_freed"`
	ChecksPerformed int       `json:"checks_performed"`
}

func truncateName(name string) string {
	if len(name) > maxNameLen {
		return name[:maxNameLen]
	}
	return name
}
