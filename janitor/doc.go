// Package janitor implements the removal-decision engine: an ordered rule
// evaluator, a multi-cycle grace-period tracker, and the orchestrator that
// drives one poll-evaluate-remove-reconcile iteration per check interval.
//
// # Verdicts
//
// Every torrent gets exactly one verdict per cycle:
//
//   - Clear: healthy or protected; any monitor entry is dropped.
//   - Monitor: a grace-checked rule matched; a strike is recorded.
//   - RemoveNow: an immediate rule matched, or the strike count reached
//     the configured threshold.
//
// Protections (categories, filter expression, seeding, private trackers)
// are evaluated before any removal rule and are terminal: a protected
// torrent can never be condemned by a later rule in the same cycle.
//
// # Grace periods
//
// Grace-checked rules (stalled, metadata timeout, no activity, queue
// timeout, low ratio) must match on consecutive cycles before a torrent is
// removed. One clean cycle wipes the accumulated strikes entirely. The
// tracked state survives restarts through the Store.
package janitor
