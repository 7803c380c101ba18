package job

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cloakhq/veil/internal/cloak"
)

const (
	defaultInterval    = 2 * time.Second
	defaultMaxFailures = 3
)

// Phase is the poller's position in the job lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePolling
	PhaseSucceeded
	PhaseFailed
)

// String returns a short label for display.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePolling:
		return "polling"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// FailureReason distinguishes the two ways PhaseFailed is reached.
type FailureReason int

const (
	ReasonNone FailureReason = iota
	// ReasonJobFailed means the daemon reported the job itself as failed.
	ReasonJobFailed
	// ReasonRetriesExhausted means the status query failed at the transport
	// level too many times in a row.
	ReasonRetriesExhausted
)

// PauseReason explains why no status query is currently scheduled.
type PauseReason int

const (
	PauseNone PauseReason = iota // actively polling
	PauseNoJob
	PauseDisabled
	PauseTerminal
)

// Snapshot is the poller's externally visible state.
type Snapshot struct {
	JobID    string
	Phase    Phase
	Reason   FailureReason
	Enabled  bool
	Job      *cloak.JobSnapshot // last known job state, nil before the first response
	Err      error              // last transport failure, or the job's error when Reason is ReasonJobFailed
	Failures int                // consecutive transport-level query failures
}

// Clone returns a deep copy so consumers can hold a snapshot without
// sharing the job pointer.
func (s Snapshot) Clone() Snapshot {
	dup := s
	if s.Job != nil {
		jobCopy := *s.Job
		if s.Job.Result != nil {
			resultCopy := *s.Job.Result
			jobCopy.Result = &resultCopy
		}
		dup.Job = &jobCopy
	}
	return dup
}

// Paused reports why the poller is not issuing queries, or PauseNone when
// it is.
func (s Snapshot) Paused() PauseReason {
	switch {
	case s.JobID == "":
		return PauseNoJob
	case !s.Enabled:
		return PauseDisabled
	case s.Phase != PhasePolling:
		return PauseTerminal
	default:
		return PauseNone
	}
}

// Options configure a Poller.
type Options struct {
	Interval    time.Duration // zero uses the 2s default
	MaxFailures int           // zero uses the default budget of 3
	// OnUpdate is invoked with a snapshot copy after every state change.
	// It runs on the poller's goroutine and must not call back into the
	// Poller.
	OnUpdate func(Snapshot)
}

// Poller drives the job status state machine. One Poller tracks one job id
// at a time.
type Poller struct {
	client      cloak.API
	interval    time.Duration
	maxFailures int
	onUpdate    func(Snapshot)

	mu      sync.Mutex
	ctx     context.Context
	snap    Snapshot
	enabled bool
	gen     int // bumped on every cancellation; stale timers and responses check it
	timer   *time.Timer
}

// NewPoller builds a Poller around an API client. Polling starts enabled
// but idle until a job id is set.
func NewPoller(client cloak.API, opts Options) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	maxFailures := opts.MaxFailures
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	return &Poller{
		client:      client,
		interval:    interval,
		maxFailures: maxFailures,
		onUpdate:    opts.OnUpdate,
		ctx:         context.Background(),
		enabled:     true,
		snap:        Snapshot{Phase: PhaseIdle, Enabled: true},
	}
}

// Start binds the poller to a context. Cancelling it revokes any scheduled
// query; nothing outlives the context.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		defer p.mu.Unlock()
		p.revokeLocked()
	}()
}

// SetJob switches the poller to a new job id. The empty string clears the
// current job and returns to Idle. Any pending scheduled query for the old
// id is cancelled.
func (p *Poller) SetJob(jobID string) {
	jobID = strings.TrimSpace(jobID)

	p.mu.Lock()
	defer p.mu.Unlock()

	if jobID == p.snap.JobID {
		return
	}
	p.revokeLocked()
	p.snap = Snapshot{JobID: jobID, Phase: PhaseIdle, Enabled: p.enabled}
	if jobID != "" && p.enabled {
		p.snap.Phase = PhasePolling
		p.scheduleLocked(0)
	}
	p.publishLocked()
}

// Reset clears the job id and cancels any pending query.
func (p *Poller) Reset() {
	p.SetJob("")
}

// SetEnabled turns scheduling on or off. Disabling keeps the last known
// snapshot; re-enabling with a non-terminal job resumes immediately.
func (p *Poller) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if enabled == p.enabled {
		return
	}
	p.enabled = enabled
	p.snap.Enabled = enabled

	if !enabled {
		p.revokeLocked()
		p.publishLocked()
		return
	}
	if p.snap.JobID != "" && (p.snap.Phase == PhaseIdle || p.snap.Phase == PhasePolling) {
		p.snap.Phase = PhasePolling
		p.scheduleLocked(0)
	}
	p.publishLocked()
}

// Snapshot returns a copy of the current state.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap.Clone()
}

// scheduleLocked arms the next status query. Callers hold p.mu.
func (p *Poller) scheduleLocked(delay time.Duration) {
	gen := p.gen
	p.timer = time.AfterFunc(delay, func() {
		p.poll(gen)
	})
}

// revokeLocked cancels the pending timer and invalidates in-flight work by
// bumping the generation. Callers hold p.mu.
func (p *Poller) revokeLocked() {
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Poller) publishLocked() {
	if p.onUpdate != nil {
		p.onUpdate(p.snap.Clone())
	}
}

// poll issues one status query. gen guards against queries that were
// revoked while the timer was pending or the request was in flight.
func (p *Poller) poll(gen int) {
	p.mu.Lock()
	if gen != p.gen || !p.enabled || p.snap.Phase != PhasePolling {
		p.mu.Unlock()
		return
	}
	ctx := p.ctx
	jobID := p.snap.JobID
	p.mu.Unlock()

	snap, err := p.client.JobStatus(ctx, jobID)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen || p.snap.Phase != PhasePolling {
		// The job changed or was cleared while the query was in flight.
		return
	}

	if err != nil {
		p.snap.Failures++
		p.snap.Err = err
		if p.snap.Failures >= p.maxFailures {
			p.snap.Phase = PhaseFailed
			p.snap.Reason = ReasonRetriesExhausted
			p.publishLocked()
			return
		}
		if p.enabled {
			p.scheduleLocked(p.interval)
		}
		p.publishLocked()
		return
	}

	p.snap.Failures = 0
	p.snap.Err = nil

	// Progress never moves backwards while the job is live; a regressing
	// server value is clamped to the last observed one.
	if p.snap.Job != nil && !snap.Status.Terminal() && snap.Progress < p.snap.Job.Progress {
		snap.Progress = p.snap.Job.Progress
	}
	p.snap.Job = snap

	switch snap.Status {
	case cloak.StatusCompleted:
		p.snap.Phase = PhaseSucceeded
	case cloak.StatusFailed:
		p.snap.Phase = PhaseFailed
		p.snap.Reason = ReasonJobFailed
		if snap.Error != "" {
			p.snap.Err = errors.New(snap.Error)
		}
	default:
		if p.enabled {
			p.scheduleLocked(p.interval)
		}
	}
	p.publishLocked()
}
