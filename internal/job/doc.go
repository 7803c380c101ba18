// Package job tracks a single redaction job from submission to a terminal
// state.
//
// # State Machine
//
// The Poller moves through four phases:
//
//	Idle ──(job id set, polling enabled)──> Polling
//	Polling ──(status pending/processing)──> Polling   (next query after a fixed interval)
//	Polling ──(status completed)──> Succeeded
//	Polling ──(status failed)──> Failed (job's own error surfaced)
//	Polling ──(3 consecutive query failures)──> Failed (transport error surfaced)
//	any ──(job id cleared)──> Idle
//
// A query that fails at the transport level is distinct from a job the
// daemon reports as failed: the former is retried up to the budget, the
// latter is terminal immediately. Once a terminal phase is reached no
// further status query is issued for that job id.
//
// # Scheduling
//
// The next status query is a revocable timer handle. Changing the job id,
// disabling polling, or cancelling the context passed to Start revokes it;
// a timer that already fired observes a stale generation and does nothing.
// Queries for one job id are strictly sequential, never overlapping.
//
// Disabling polling suspends scheduling but keeps the last known snapshot;
// it is reported separately from having no job id at all.
package job
