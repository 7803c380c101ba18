package analyze

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cloakhq/veil/internal/cloak"
)

// fakeAPI records AnalyzePrompt calls and allows per-prompt delays so tests
// can force overlapping in-flight calls.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []string
	delays  map[string]time.Duration
	errs    map[string]error
	results map[string]*cloak.PromptAnalysis
}

func (f *fakeAPI) AnalyzePrompt(ctx context.Context, prompt string) (*cloak.PromptAnalysis, error) {
	f.mu.Lock()
	f.calls = append(f.calls, prompt)
	delay := f.delays[prompt]
	err := f.errs[prompt]
	res := f.results[prompt]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &cloak.PromptAnalysis{Confidence: cloak.ConfidenceHigh}
	}
	return res, nil
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) Upload(ctx context.Context, file cloak.UploadFile) (*cloak.UploadResult, error) {
	return nil, nil
}
func (f *fakeAPI) SubmitJob(ctx context.Context, file cloak.UploadFile, opts cloak.SubmitOptions) (*cloak.SubmitResult, error) {
	return nil, nil
}
func (f *fakeAPI) JobStatus(ctx context.Context, jobID string) (*cloak.JobSnapshot, error) {
	return nil, nil
}
func (f *fakeAPI) DownloadArtifact(ctx context.Context, jobID string) ([]byte, error) {
	return nil, nil
}
func (f *fakeAPI) Suggestions(ctx context.Context, textSample string) (*cloak.SuggestionsResult, error) {
	return nil, nil
}
func (f *fakeAPI) Health(ctx context.Context) (*cloak.HealthStatus, error) {
	return nil, nil
}

var _ cloak.API = (*fakeAPI)(nil)

type resultSink struct {
	mu      sync.Mutex
	results []Result
}

func (s *resultSink) collect(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *resultSink) snapshot() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Result(nil), s.results...)
}

func newTestAnalyzer(t *testing.T, api cloak.API, sink *resultSink, debounce time.Duration) *Analyzer {
	t.Helper()
	a := NewAnalyzer(api, Options{Debounce: debounce, OnResult: sink.collect})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	a.Start(ctx)
	return a
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestAnalyzer_ShortInputsNeverCall(t *testing.T) {
	api := &fakeAPI{}
	sink := &resultSink{}
	a := newTestAnalyzer(t, api, sink, 10*time.Millisecond)

	for _, input := range []string{"", "a", "ab", "abc", "   abc   ", "\tab\n"} {
		a.SetInput(input)
		time.Sleep(30 * time.Millisecond)
	}
	if api.callCount() != 0 {
		t.Fatalf("calls = %d for short inputs, want 0", api.callCount())
	}
	if len(sink.snapshot()) != 0 {
		t.Fatalf("results = %d, want 0", len(sink.snapshot()))
	}
}

func TestAnalyzer_ShortInputKeepsPreviousAnalysis(t *testing.T) {
	api := &fakeAPI{}
	sink := &resultSink{}
	a := newTestAnalyzer(t, api, sink, 10*time.Millisecond)

	a.SetInput("Redact SSN only")
	waitFor(t, func() bool { return len(sink.snapshot()) == 1 })

	// A subsequent short input must not clear or replace the preview.
	a.SetInput("ok")
	time.Sleep(40 * time.Millisecond)
	results := sink.snapshot()
	if len(results) != 1 || results[0].Prompt != "Redact SSN only" {
		t.Fatalf("results = %#v, want the single earlier analysis", results)
	}
}

func TestAnalyzer_RapidChangesCollapseToOneCall(t *testing.T) {
	api := &fakeAPI{}
	sink := &resultSink{}
	a := newTestAnalyzer(t, api, sink, 50*time.Millisecond)

	for _, input := range []string{"Redact", "Redact a", "Redact al", "Redact all names"} {
		a.SetInput(input)
		time.Sleep(5 * time.Millisecond)
	}
	waitFor(t, func() bool { return api.callCount() >= 1 })
	time.Sleep(80 * time.Millisecond)

	if api.callCount() != 1 {
		t.Fatalf("calls = %d, want 1 for rapid edits", api.callCount())
	}
	api.mu.Lock()
	got := api.calls[0]
	api.mu.Unlock()
	if got != "Redact all names" {
		t.Fatalf("analyzed prompt = %q, want the final value", got)
	}
}

func TestAnalyzer_StaleResponseIsDropped(t *testing.T) {
	api := &fakeAPI{
		delays: map[string]time.Duration{"slow prompt": 150 * time.Millisecond},
		results: map[string]*cloak.PromptAnalysis{
			"slow prompt": {EntitiesToRedact: []string{"PERSON"}},
			"fast prompt": {EntitiesToRedact: []string{"SSN"}},
		},
	}
	sink := &resultSink{}
	a := newTestAnalyzer(t, api, sink, 10*time.Millisecond)

	a.SetInput("slow prompt")
	waitFor(t, func() bool { return api.callCount() == 1 })

	// Settle a newer prompt while the first call is still in flight.
	a.SetInput("fast prompt")
	waitFor(t, func() bool { return api.callCount() == 2 })

	// Wait out the slow response; it must not surface.
	time.Sleep(250 * time.Millisecond)
	results := sink.snapshot()
	if len(results) != 1 {
		t.Fatalf("results = %d, want only the newest", len(results))
	}
	if results[0].Prompt != "fast prompt" {
		t.Fatalf("delivered prompt = %q, want fast prompt", results[0].Prompt)
	}
	if results[0].Analysis.EntitiesToRedact[0] != "SSN" {
		t.Fatalf("delivered analysis = %#v, want SSN", results[0].Analysis)
	}
}

func TestAnalyzer_ErrorDeliveredOnceWithoutRetry(t *testing.T) {
	callErr := errors.New("analysis unavailable")
	api := &fakeAPI{errs: map[string]error{"Redact everything": callErr}}
	sink := &resultSink{}
	a := newTestAnalyzer(t, api, sink, 10*time.Millisecond)

	a.SetInput("Redact everything")
	waitFor(t, func() bool { return len(sink.snapshot()) == 1 })

	time.Sleep(60 * time.Millisecond)
	if api.callCount() != 1 {
		t.Fatalf("calls = %d, want 1 (no automatic retry)", api.callCount())
	}
	results := sink.snapshot()
	if !errors.Is(results[0].Err, callErr) {
		t.Fatalf("result err = %v, want %v", results[0].Err, callErr)
	}
}

func TestAnalyzer_TeardownCancelsPendingTimer(t *testing.T) {
	api := &fakeAPI{}
	sink := &resultSink{}
	a := NewAnalyzer(api, Options{Debounce: 30 * time.Millisecond, OnResult: sink.collect})
	ctx, cancel := context.WithCancel(context.Background())
	a.Start(ctx)

	a.SetInput("Redact all names")
	cancel()

	time.Sleep(80 * time.Millisecond)
	if api.callCount() != 0 {
		t.Fatalf("calls = %d after teardown, want 0", api.callCount())
	}
}

func TestLabel(t *testing.T) {
	if got := Label("SSN"); got != "Social security numbers" {
		t.Fatalf("Label(SSN) = %q", got)
	}
	if got := Label("UNKNOWN_TAG"); got != "UNKNOWN_TAG" {
		t.Fatalf("Label fallback = %q, want raw tag", got)
	}
}
