package ui

import (
	"testing"

	"github.com/cloakhq/veil/internal/cloak"
	"github.com/cloakhq/veil/internal/job"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status cloak.JobStatus
		want   string
	}{
		{cloak.StatusPending, "Queued"},
		{cloak.StatusProcessing, "Redacting"},
		{cloak.StatusCompleted, "Completed"},
		{cloak.StatusFailed, "Failed"},
		{cloak.JobStatus("retrying"), "Retrying"},
		{cloak.JobStatus(""), "Unknown"},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.status); got != tt.want {
			t.Errorf("statusLabel(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestJobHeadline(t *testing.T) {
	tests := []struct {
		name string
		snap job.Snapshot
		want string
	}{
		{
			"no job",
			job.Snapshot{Phase: job.PhaseIdle, Enabled: true},
			"No job submitted",
		},
		{
			"paused",
			job.Snapshot{JobID: "job-1", Phase: job.PhasePolling, Enabled: false},
			"Polling paused",
		},
		{
			"polling before first response",
			job.Snapshot{JobID: "job-1", Phase: job.PhasePolling, Enabled: true},
			"Starting",
		},
		{
			"polling with status",
			job.Snapshot{
				JobID: "job-1", Phase: job.PhasePolling, Enabled: true,
				Job: &cloak.JobSnapshot{Status: cloak.StatusProcessing},
			},
			"Redacting",
		},
		{
			"succeeded",
			job.Snapshot{JobID: "job-1", Phase: job.PhaseSucceeded, Enabled: true},
			"Completed",
		},
		{
			"job failed",
			job.Snapshot{JobID: "job-1", Phase: job.PhaseFailed, Reason: job.ReasonJobFailed, Enabled: true},
			"Failed",
		},
		{
			"retries exhausted",
			job.Snapshot{JobID: "job-1", Phase: job.PhaseFailed, Reason: job.ReasonRetriesExhausted, Enabled: true},
			"Lost contact with the service",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jobHeadline(tt.snap); got != tt.want {
				t.Errorf("jobHeadline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{100, "100 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestThemeCycle(t *testing.T) {
	first := ThemeByName("")
	if first.Name != "Midnight" {
		t.Fatalf("default theme = %q, want Midnight", first.Name)
	}
	next := NextTheme(first.Name)
	if next.Name == first.Name {
		t.Fatal("NextTheme did not advance")
	}
	// Cycling through all themes returns to the start.
	cur := first.Name
	for range themes {
		cur = NextTheme(cur).Name
	}
	if cur != first.Name {
		t.Fatalf("cycle ended at %q, want %q", cur, first.Name)
	}
}
