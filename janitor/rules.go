package janitor

import (
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gguarino/torrentjanitor/config"
	"github.com/gguarino/torrentjanitor/qbittorrent"
)

// ruleOutcome is what a single rule decided for a torrent.
type ruleOutcome int

const (
	// outcomeNone means the rule did not match; evaluation continues.
	outcomeNone ruleOutcome = iota
	// outcomeClear terminates evaluation: the torrent is protected or healthy.
	outcomeClear
	// outcomeRemove terminates evaluation with an immediate removal,
	// bypassing the grace tracker.
	outcomeRemove
	// outcomeGrace hands the torrent to the grace tracker.
	outcomeGrace
)

// rule is one predicate in the ordered evaluation chain.
type rule struct {
	name string
	eval func(t *qbittorrent.TorrentInfo, now time.Time) (ruleOutcome, RemovalReason)
}

// Evaluator decides, per torrent and cycle, whether a torrent is healthy,
// should accumulate a strike, or should be removed.
//
// Rules are evaluated in a fixed order and the first match wins. The order
// encodes the precedence protections > immediate removals > grace-checked
// removals; in particular seeding protection is checked before the size and
// error rules, so a protected seeder can never hit either.
type Evaluator struct {
	cfg     *config.Config
	tracker *Tracker
	protect *ProtectFilter
	logger  zerolog.Logger
	rules   []rule
}

// NewEvaluator builds the ordered rule chain from configuration.
// protect may be nil when no protection filter is configured.
func NewEvaluator(cfg *config.Config, tracker *Tracker, protect *ProtectFilter, logger zerolog.Logger) *Evaluator {
	e := &Evaluator{
		cfg:     cfg,
		tracker: tracker,
		protect: protect,
		logger:  logger,
	}
	e.rules = []rule{
		{name: "protected-category", eval: e.protectedCategory},
		{name: "protect-filter", eval: e.protectFilter},
		{name: "auto-remove-category", eval: e.autoRemoveCategory},
		{name: "seeding-protection", eval: e.seedingProtection},
		{name: "private-tracker-protection", eval: e.privateTracker},
		{name: "size-limit", eval: e.sizeLimit},
		{name: "error-state", eval: e.errorState},
		{name: "stalled", eval: e.stalled},
		{name: "metadata-timeout", eval: e.metaTimeout},
		{name: "no-activity", eval: e.noActivity},
		{name: "queue-timeout", eval: e.queueTimeout},
		{name: "low-ratio", eval: e.lowRatio},
	}
	return e
}

// Evaluate runs the rule chain for one torrent. Evaluation itself is a
// query; the only state mutated is the grace tracker, and only via the
// grace step or an entry drop on a Clear verdict.
func (e *Evaluator) Evaluate(t *qbittorrent.TorrentInfo, now time.Time) Verdict {
	for _, r := range e.rules {
		outcome, reason := r.eval(t, now)
		switch outcome {
		case outcomeNone:
			continue
		case outcomeClear:
			e.tracker.Clear(t.Hash)
			return Clear()
		case outcomeRemove:
			e.logger.Debug().
				Str("rule", r.name).
				Str("name", truncateName(t.Name)).
				Msg("Immediate removal rule matched")
			return RemoveNow(reason)
		case outcomeGrace:
			return e.tracker.Check(t, reason, now)
		}
	}

	// Nothing matched: the torrent is healthy again.
	e.tracker.Clear(t.Hash)
	return Clear()
}

func (e *Evaluator) protectedCategory(t *qbittorrent.TorrentInfo, _ time.Time) (ruleOutcome, RemovalReason) {
	if slices.Contains(e.cfg.Categories.Protected, t.Category) {
		return outcomeClear, ""
	}
	return outcomeNone, ""
}

func (e *Evaluator) protectFilter(t *qbittorrent.TorrentInfo, now time.Time) (ruleOutcome, RemovalReason) {
	if e.protect != nil && e.protect.Matches(t, now) {
		return outcomeClear, ""
	}
	return outcomeNone, ""
}

func (e *Evaluator) autoRemoveCategory(t *qbittorrent.TorrentInfo, _ time.Time) (ruleOutcome, RemovalReason) {
	if slices.Contains(e.cfg.Categories.AutoRemove, t.Category) {
		return outcomeRemove, ReasonAutoCategory
	}
	return outcomeNone, ""
}

func (e *Evaluator) seedingProtection(t *qbittorrent.TorrentInfo, _ time.Time) (ruleOutcome, RemovalReason) {
	if e.cfg.Rules.ProtectSeeding && t.State == qbittorrent.StateUploading &&
		t.Ratio >= e.cfg.Rules.MinSeedRatio {
		return outcomeClear, ""
	}
	return outcomeNone, ""
}

func (e *Evaluator) privateTracker(t *qbittorrent.TorrentInfo, _ time.Time) (ruleOutcome, RemovalReason) {
	if !e.cfg.Rules.ProtectPrivateTrackers {
		return outcomeNone, ""
	}
	if strings.Contains(strings.ToLower(t.Tracker), "private") ||
		slices.Contains(e.cfg.Categories.PrivateTrackers, t.Tracker) {
		return outcomeClear, ""
	}
	return outcomeNone, ""
}

func (e *Evaluator) sizeLimit(t *qbittorrent.TorrentInfo, _ time.Time) (ruleOutcome, RemovalReason) {
	maxSize := e.cfg.Rules.MaxTorrentSizeGB * 1024 * 1024 * 1024
	if maxSize > 0 && t.Size > maxSize && t.Progress < 0.1 {
		return outcomeRemove, ReasonSizeLimit
	}
	return outcomeNone, ""
}

func (e *Evaluator) errorState(t *qbittorrent.TorrentInfo, _ time.Time) (ruleOutcome, RemovalReason) {
	if e.cfg.Rules.RemoveErrors && t.IsErrored() {
		return outcomeRemove, ReasonErrorState
	}
	return outcomeNone, ""
}

func (e *Evaluator) stalled(t *qbittorrent.TorrentInfo, _ time.Time) (ruleOutcome, RemovalReason) {
	if e.cfg.Rules.RemoveStalled && t.IsStalled() {
		return outcomeGrace, ReasonStalled
	}
	return outcomeNone, ""
}

func (e *Evaluator) metaTimeout(t *qbittorrent.TorrentInfo, now time.Time) (ruleOutcome, RemovalReason) {
	if e.cfg.Rules.RemoveMetadataTimeout && t.State == qbittorrent.StateMetaDL &&
		t.Age(now) > e.cfg.Thresholds.MaxMetaTime {
		return outcomeGrace, ReasonMetaTimeout
	}
	return outcomeNone, ""
}

func (e *Evaluator) noActivity(t *qbittorrent.TorrentInfo, now time.Time) (ruleOutcome, RemovalReason) {
	if e.cfg.Rules.RemoveNoActivity && t.State == qbittorrent.StateDownloading &&
		t.DlSpeed < e.cfg.Thresholds.MinDownloadSpeed &&
		t.NumSeeds < e.cfg.Thresholds.MinSeedsRequired &&
		t.Progress*100 <= e.cfg.Thresholds.MinProgressProtect &&
		t.Age(now) > e.cfg.Thresholds.MinTorrentAge {
		return outcomeGrace, ReasonNoActivity
	}
	return outcomeNone, ""
}

func (e *Evaluator) queueTimeout(t *qbittorrent.TorrentInfo, now time.Time) (ruleOutcome, RemovalReason) {
	if e.cfg.Rules.RemoveQueueTimeout && t.State == qbittorrent.StateQueuedDL &&
		t.Age(now) > e.cfg.Thresholds.MaxQueueTime {
		return outcomeGrace, ReasonQueueTimeout
	}
	return outcomeNone, ""
}

func (e *Evaluator) lowRatio(t *qbittorrent.TorrentInfo, now time.Time) (ruleOutcome, RemovalReason) {
	if e.cfg.Rules.RemoveLowRatio && t.State == qbittorrent.StateUploading &&
		t.Ratio < e.cfg.Rules.MinSeedRatio &&
		t.Age(now) > e.cfg.Thresholds.MaxSeedTime {
		return outcomeGrace, ReasonLowRatio
	}
	return outcomeNone, ""
}
