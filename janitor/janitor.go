package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gguarino/torrentjanitor/config"
	"github.com/gguarino/torrentjanitor/qbittorrent"
)

// reannounceDelay is how long to wait between the best-effort reannounce
// and the delete call, giving trackers a chance to register the announce.
const reannounceDelay = 2 * time.Second

// TorrentClient is the surface the janitor needs from the qBittorrent API.
type TorrentClient interface {
	ListTorrents(ctx context.Context) ([]qbittorrent.TorrentInfo, error)
	Reannounce(ctx context.Context, hashes []string) error
	Delete(ctx context.Context, hashes []string, deleteFiles bool) error
}

// Janitor drives the poll-evaluate-remove-reconcile cycle. All state is
// owned by the single goroutine calling RunCycle or Run.
type Janitor struct {
	client    TorrentClient
	cfg       *config.Config
	evaluator *Evaluator
	tracker   *Tracker
	store     *Store
	stats     SessionStats
	logger    zerolog.Logger

	// delay between reannounce and delete; shortened in tests
	removalDelay time.Duration
}

// New creates a Janitor, restoring any persisted monitor state.
func New(client TorrentClient, cfg *config.Config, store *Store, logger zerolog.Logger) (*Janitor, error) {
	tracker := NewTracker(cfg.Thresholds.GraceChecks, logger)

	entries, err := store.LoadEntries()
	if err != nil {
		// Stale-state loss is preferable to refusing to start.
		logger.Warn().Err(err).Msg("Could not load monitor state, starting fresh")
	} else {
		tracker.Restore(entries)
	}

	var protect *ProtectFilter
	if cfg.Rules.ProtectFilter != "" {
		protect, err = CompileProtectFilter(cfg.Rules.ProtectFilter)
		if err != nil {
			return nil, fmt.Errorf("invalid rules.protect_filter: %w", err)
		}
		logger.Info().Str("filter", protect.String()).Msg("Protection filter enabled")
	}

	return &Janitor{
		client:       client,
		cfg:          cfg,
		evaluator:    NewEvaluator(cfg, tracker, protect, logger),
		tracker:      tracker,
		store:        store,
		stats:        SessionStats{SessionStarted: time.Now()},
		logger:       logger,
		removalDelay: reannounceDelay,
	}, nil
}

// Stats returns a copy of the session statistics.
func (j *Janitor) Stats() SessionStats {
	return j.stats
}

// RunCycle performs one full check cycle: fetch the torrent snapshot,
// evaluate every torrent, remove the condemned batch, persist state and
// reconcile monitor entries against the live set.
func (j *Janitor) RunCycle(ctx context.Context) error {
	j.logger.Info().Msg("Starting torrent check cycle")
	j.stats.ChecksPerformed++

	torrents, err := j.client.ListTorrents(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch torrent snapshot: %w", err)
	}

	now := time.Now()
	counts := CycleStats{Total: len(torrents)}
	var condemned []Condemned

	for i := range torrents {
		t := &torrents[i]
		counts.observe(t)

		verdict := j.evaluator.Evaluate(t, now)
		if verdict.Action == ActionRemove {
			condemned = append(condemned, Condemned{
				Hash:   t.Hash,
				Name:   truncateName(t.Name),
				Size:   t.Size,
				Reason: verdict.Reason,
			})
		}
	}

	if len(condemned) > 0 {
		j.processRemovals(ctx, condemned)
	} else {
		j.logger.Info().Msg("No torrents to remove")
	}

	// Persist unconditionally, even when nothing was removed.
	j.persist()
	j.reportStatistics(counts)

	// Drop monitor entries for torrents that disappeared externally. Runs
	// after removal cleanup so removed torrents are not counted twice.
	live := make(map[string]struct{}, len(torrents))
	for i := range torrents {
		live[torrents[i].Hash] = struct{}{}
	}
	if stale := j.tracker.Reconcile(live); stale > 0 {
		j.logger.Info().Int("entries", stale).Msg("Cleaned obsolete monitor entries")
	}

	return nil
}

// Run executes check cycles on the configured interval until the context
// is cancelled. A failed cycle is logged and the loop continues.
func (j *Janitor) Run(ctx context.Context) error {
	interval := j.cfg.Thresholds.CheckInterval

	j.logger.Info().
		Str("interval", interval.String()).
		Bool("dry_run", j.cfg.DryRun).
		Msg("torrentjanitor started")

	for {
		if err := j.safeCycle(ctx); err != nil {
			if ctx.Err() != nil {
				j.logger.Info().Msg("Shutdown requested")
				return nil
			}
			j.logger.Error().Err(err).Msg("Check cycle failed")
		}

		j.logger.Info().Msgf("Next check in %s", interval)

		select {
		case <-ctx.Done():
			j.logger.Info().Msg("Shutdown requested")
			return nil
		case <-time.After(interval):
		}
	}
}

// safeCycle shields the continuous loop from programming errors inside a
// cycle; single-cycle mode calls RunCycle directly so failures exit nonzero.
func (j *Janitor) safeCycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during check cycle: %v", r)
		}
	}()
	return j.RunCycle(ctx)
}

// processRemovals executes the removal batch: best-effort reannounce, a
// short pause, then a delete requesting data removal. Session counters and
// monitor entries are only touched when the delete succeeded.
func (j *Janitor) processRemovals(ctx context.Context, condemned []Condemned) {
	j.logger.Info().Msgf("Processing %d torrent(s) for removal", len(condemned))

	var totalSize int64
	hashes := make([]string, 0, len(condemned))
	for _, c := range condemned {
		totalSize += c.Size
		hashes = append(hashes, c.Hash)
		j.logger.Info().
			Str("name", c.Name).
			Str("reason", string(c.Reason)).
			Str("size", fmt.Sprintf("%.1f MB", float64(c.Size)/(1024*1024))).
			Msg("Marked for removal")
	}

	if j.cfg.DryRun {
		j.logger.Info().Msgf("[DRY-RUN] Would remove %d torrent(s), freeing %.2f GB",
			len(condemned), float64(totalSize)/(1<<30))
		return
	}

	// Best-effort: a failed reannounce never blocks the removal.
	if err := j.client.Reannounce(ctx, hashes); err != nil {
		j.logger.Debug().Err(err).Msg("Reannounce before removal failed")
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(j.removalDelay):
	}

	if err := j.client.Delete(ctx, hashes, true); err != nil {
		// Leave monitor entries in place; the strike counts carry over and
		// the removal retries naturally next cycle.
		j.logger.Error().Err(err).Msg("Failed to remove torrents")
		return
	}

	j.logger.Info().Msgf("Successfully removed %d torrent(s), freed %.2f GB",
		len(condemned), float64(totalSize)/(1<<30))

	j.stats.TorrentsRemoved += len(condemned)
	j.stats.SpaceFreed += totalSize
	j.tracker.Forget(hashes)
}

// persist writes monitor state and statistics. Failures are logged and
// otherwise ignored: stale state beats a dead janitor.
func (j *Janitor) persist() {
	if err := j.store.SaveEntries(j.tracker.Entries()); err != nil {
		j.logger.Error().Err(err).Msg("Could not save monitor state")
	}
	if err := j.store.SaveStats(&j.stats); err != nil {
		j.logger.Error().Err(err).Msg("Could not save statistics")
	}
}

func (j *Janitor) reportStatistics(counts CycleStats) {
	j.logger.Info().
		Int("total", counts.Total).
		Int("downloading", counts.Downloading).
		Int("seeding", counts.Seeding).
		Int("queued", counts.Queued).
		Int("stalled", counts.Stalled).
		Int("metadl", counts.MetaDL).
		Int("errors", counts.Errored).
		Int("paused", counts.Paused).
		Int("monitored", j.tracker.Len()).
		Msg("Cycle statistics")

	sessionHours := time.Since(j.stats.SessionStarted).Hours()
	j.logger.Info().
		Int("removed", j.stats.TorrentsRemoved).
		Str("freed", fmt.Sprintf("%.2f GB", float64(j.stats.SpaceFreed)/(1<<30))).
		Int("checks", j.stats.ChecksPerformed).
		Str("session", fmt.Sprintf("%.1fh", sessionHours)).
		Msg("Session statistics")
}

// observe updates the per-state counters. Mirrors qBittorrent's own
// grouping: stalledUP counts as seeding, so the stalled bucket only ever
// holds stalled downloads.
func (s *CycleStats) observe(t *qbittorrent.TorrentInfo) {
	switch {
	case t.State == qbittorrent.StateDownloading:
		s.Downloading++
	case t.State == qbittorrent.StateUploading || t.State == qbittorrent.StateStalledUP:
		s.Seeding++
	case t.State == qbittorrent.StateQueuedDL:
		s.Queued++
	case t.IsStalled():
		s.Stalled++
	case t.State == qbittorrent.StateMetaDL:
		s.MetaDL++
	case t.IsErrored():
		s.Errored++
	case t.IsPaused():
		s.Paused++
	}
}
