package ui

import (
	"fmt"
	"strings"

	"github.com/cloakhq/veil/internal/analyze"
	"github.com/cloakhq/veil/internal/job"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewFile())
	b.WriteString("\n\n")
	b.WriteString(m.viewPrompt())
	b.WriteString("\n")
	b.WriteString(m.viewAnalysis())
	b.WriteString("\n")
	b.WriteString(m.viewJob())
	if m.showSuggestions && len(m.snapshot.Suggestions) > 0 {
		b.WriteString("\n")
		b.WriteString(m.viewSuggestions())
	}
	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	return b.String()
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("veil")
	subtitle := m.styles.Muted.Render("cloak document redaction")

	health := m.styles.Success.Render("online")
	if m.snapshot.IsOffline() {
		health = m.styles.Danger.Render("offline")
	} else if !m.snapshot.Healthy {
		health = m.styles.Warning.Render("unverified")
	}
	return fmt.Sprintf("%s  %s  %s", title, subtitle, health)
}

func (m Model) viewFile() string {
	if m.candidate == nil {
		return m.styles.Muted.Render("no document selected")
	}
	size := formatSize(int64(len(m.candidate.Data)))
	return fmt.Sprintf("%s %s %s",
		m.styles.Text.Render(m.candidate.Name),
		m.styles.Muted.Render(size),
		m.styles.Muted.Render(m.candidate.ContentType),
	)
}

func (m Model) viewPrompt() string {
	label := m.styles.Accent.Render("Redaction prompt")
	return label + "\n" + m.prompt.View()
}

func (m Model) viewAnalysis() string {
	snap := m.snapshot
	if !snap.HasAnalysis {
		return m.styles.Muted.Render("type a prompt to preview what will be redacted")
	}

	result := snap.Analysis
	if result.Err != nil {
		return m.styles.Danger.Render("analysis failed: " + result.Err.Error())
	}
	analysis := result.Analysis
	if analysis == nil {
		return ""
	}
	if analysis.Error != "" {
		return m.styles.Danger.Render("analysis failed: " + analysis.Error)
	}

	var lines []string
	if len(analysis.EntitiesToRedact) > 0 {
		lines = append(lines, m.styles.Danger.Render("redact: ")+labelList(analysis.EntitiesToRedact))
	}
	if len(analysis.EntitiesToKeep) > 0 {
		lines = append(lines, m.styles.Success.Render("keep:   ")+labelList(analysis.EntitiesToKeep))
	}
	if len(analysis.UnrecognizedTerms) > 0 {
		lines = append(lines, m.styles.Warning.Render("unrecognized: ")+strings.Join(analysis.UnrecognizedTerms, ", "))
	}
	lines = append(lines, m.styles.Muted.Render(confidenceLabel(analysis.Confidence)))

	return m.styles.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) viewJob() string {
	snap := m.snapshot.Job

	headline := m.styles.PhaseStyle(snap.Phase).Render(jobHeadline(snap))
	if snap.Phase == job.PhasePolling {
		headline = m.spin.View() + headline
	}

	var lines []string
	lines = append(lines, headline)

	if m.submitting {
		lines = append(lines, m.styles.Muted.Render("submitting..."))
	}
	if m.submitNote != "" {
		lines = append(lines, m.styles.Muted.Render(m.submitNote))
	}
	if m.previewText != "" {
		lines = append(lines, m.styles.Panel.Render(m.previewText))
	}

	if snap.Job != nil {
		lines = append(lines, m.bar.ViewAs(float64(snap.Job.Progress)/100))
		if snap.Phase == job.PhaseSucceeded && snap.Job.Result != nil {
			lines = append(lines, m.styles.Success.Render(
				fmt.Sprintf("%d entities redacted", snap.Job.Result.EntitiesDetected)))
		}
	}

	if snap.Phase == job.PhaseFailed && snap.Err != nil {
		lines = append(lines, m.styles.Danger.Render(snap.Err.Error()))
	}
	if m.savedPath != "" {
		lines = append(lines, m.styles.Success.Render("saved to "+m.savedPath))
	}
	if m.saveErr != nil {
		lines = append(lines, m.styles.Danger.Render("save failed: "+m.saveErr.Error()))
	}

	return strings.Join(lines, "\n")
}

func (m Model) viewSuggestions() string {
	var lines []string
	lines = append(lines, m.styles.Muted.Render("try:"))
	for _, s := range m.snapshot.Suggestions {
		lines = append(lines, m.styles.Muted.Render("  • "+s))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewFooter() string {
	keys := []string{
		"enter submit",
		"ctrl+p preview",
		"ctrl+s save",
		"ctrl+r reset",
		"ctrl+o pause",
		"esc quit",
	}
	return m.styles.Muted.Render(strings.Join(keys, " · "))
}

// labelList renders entity-category tags as human labels.
func labelList(tags []string) string {
	labels := make([]string, len(tags))
	for i, tag := range tags {
		labels[i] = analyze.Label(tag)
	}
	return strings.Join(labels, ", ")
}

// formatSize renders a byte count in a compact human form.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
