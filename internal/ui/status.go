package ui

import (
	"strings"

	"github.com/cloakhq/veil/internal/cloak"
	"github.com/cloakhq/veil/internal/job"
)

// statusLabels maps daemon job statuses to display labels.
var statusLabels = map[cloak.JobStatus]string{
	cloak.StatusPending:    "Queued",
	cloak.StatusProcessing: "Redacting",
	cloak.StatusCompleted:  "Completed",
	cloak.StatusFailed:     "Failed",
}

// statusLabel returns the display label for a job status.
func statusLabel(status cloak.JobStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	s := strings.TrimSpace(string(status))
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// jobHeadline condenses a poller snapshot into the single line shown at the
// top of the job panel.
func jobHeadline(snap job.Snapshot) string {
	switch snap.Paused() {
	case job.PauseNoJob:
		return "No job submitted"
	case job.PauseDisabled:
		return "Polling paused"
	}

	switch snap.Phase {
	case job.PhaseSucceeded:
		return "Completed"
	case job.PhaseFailed:
		if snap.Reason == job.ReasonRetriesExhausted {
			return "Lost contact with the service"
		}
		return "Failed"
	case job.PhasePolling:
		if snap.Job != nil {
			return statusLabel(snap.Job.Status)
		}
		return "Starting"
	}
	return "Idle"
}

// confidenceLabel maps analysis confidence to a display string.
func confidenceLabel(c cloak.Confidence) string {
	switch c {
	case cloak.ConfidenceHigh:
		return "high confidence"
	case cloak.ConfidenceMedium:
		return "medium confidence"
	case cloak.ConfidenceLow:
		return "low confidence"
	}
	return string(c)
}
