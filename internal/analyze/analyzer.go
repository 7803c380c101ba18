// Package analyze turns free-text redaction prompts into a live preview of
// which entity categories will be redacted or kept.
//
// Input changes are debounced: a value only "settles" after a quiet period,
// and settled values of three or fewer trimmed characters neither call the
// backend nor clear a previously shown analysis. Each analysis call carries
// a monotonically increasing token; a response is dropped unless its token
// is the most recently issued, so a slow stale response can never overwrite
// a newer one.
package analyze

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cloakhq/veil/internal/cloak"
)

const (
	defaultDebounce = 500 * time.Millisecond
	// minPromptLength is the trimmed length a prompt must exceed before an
	// analysis call is issued.
	minPromptLength = 3
)

// Result is one completed analysis delivered to the consumer. Err is set
// when the call itself failed; Analysis.Error carries a failure the server
// reported inside a successful call. Neither is retried.
type Result struct {
	Prompt   string
	Analysis *cloak.PromptAnalysis
	Err      error
}

// Options configure an Analyzer.
type Options struct {
	Debounce time.Duration // zero uses the 500ms default
	// OnResult receives each non-stale analysis result. It runs on the
	// analyzer's goroutine.
	OnResult func(Result)
}

// Analyzer debounces prompt input and issues analysis calls.
type Analyzer struct {
	client   cloak.API
	debounce time.Duration
	onResult func(Result)

	mu    sync.Mutex
	ctx   context.Context
	timer *time.Timer
	token uint64 // latest issued request token
	gen   int    // bumped on teardown so leaked timers are no-ops
}

// NewAnalyzer builds an Analyzer around an API client.
func NewAnalyzer(client cloak.API, opts Options) *Analyzer {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Analyzer{
		client:   client,
		debounce: debounce,
		onResult: opts.OnResult,
		ctx:      context.Background(),
	}
}

// Start binds the analyzer to a context; cancelling it revokes the pending
// debounce timer and abandons in-flight calls.
func (a *Analyzer) Start(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	go func() {
		<-ctx.Done()
		a.mu.Lock()
		defer a.mu.Unlock()
		a.gen++
		a.token++
		if a.timer != nil {
			a.timer.Stop()
			a.timer = nil
		}
	}()
}

// SetInput records a new input value and restarts the quiet period. Rapid
// changes collapse into one settled value.
func (a *Analyzer) SetInput(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
	}
	gen := a.gen
	a.timer = time.AfterFunc(a.debounce, func() {
		a.settled(gen, text)
	})
}

// settled runs once a value has survived the quiet period.
func (a *Analyzer) settled(gen int, text string) {
	if len(strings.TrimSpace(text)) <= minPromptLength {
		// Too short to analyze; the previous preview stays as is.
		return
	}

	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.token++
	token := a.token
	ctx := a.ctx
	a.mu.Unlock()

	analysis, err := a.client.AnalyzePrompt(ctx, text)

	a.mu.Lock()
	stale := token != a.token || gen != a.gen
	a.mu.Unlock()
	if stale {
		// A newer prompt settled while this call was in flight.
		return
	}
	if a.onResult != nil {
		a.onResult(Result{Prompt: text, Analysis: analysis, Err: err})
	}
}
