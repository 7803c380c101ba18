package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cloakhq/veil/internal/analyze"
	"github.com/cloakhq/veil/internal/artifact"
	"github.com/cloakhq/veil/internal/cloak"
	"github.com/cloakhq/veil/internal/job"
	"github.com/cloakhq/veil/internal/prefs"
	"github.com/cloakhq/veil/internal/state"
	"github.com/cloakhq/veil/internal/upload"
)

const defaultRefresh = 500 * time.Millisecond

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    cloak.API
	Store     *state.Store
	Poller    *job.Poller
	Analyzer  *analyze.Analyzer
	Retriever *artifact.Retriever
	Candidate *upload.Candidate

	ThemeName       string
	PrefsPath       string
	ShowSuggestions bool
	RefreshEvery    time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	client    cloak.API
	store     *state.Store
	poller    *job.Poller
	analyzer  *analyze.Analyzer
	retriever *artifact.Retriever
	candidate *upload.Candidate

	keys    keyMap
	theme   Theme
	styles  Styles
	refresh time.Duration

	prefsPath       string
	showSuggestions bool

	prompt  textinput.Model
	bar     progress.Model
	spin    spinner.Model
	width   int
	ready   bool
	polling bool

	snapshot    state.Snapshot
	submitting  bool
	submitNote  string
	previewText string
	savedPath   string
	saveErr     error
	quitting    bool
}

type (
	tickMsg        time.Time
	submitDoneMsg  struct{ result *cloak.SubmitResult }
	submitFailMsg  struct{ err error }
	savedMsg       struct{ path string }
	saveFailMsg    struct{ err error }
	suggestionsMsg struct{ result *cloak.SuggestionsResult }
)

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	refresh := opts.RefreshEvery
	if refresh <= 0 {
		refresh = defaultRefresh
	}

	theme := ThemeByName(opts.ThemeName)

	prompt := textinput.New()
	prompt.Placeholder = `e.g. "Don't redact my name, only SSN and phone numbers"`
	prompt.CharLimit = 400
	prompt.Focus()

	bar := progress.New(progress.WithDefaultGradient())
	spin := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:             ctx,
		client:          opts.Client,
		store:           opts.Store,
		poller:          opts.Poller,
		analyzer:        opts.Analyzer,
		retriever:       opts.Retriever,
		candidate:       opts.Candidate,
		keys:            defaultKeyMap(),
		theme:           theme,
		styles:          theme.Styles(),
		refresh:         refresh,
		prefsPath:       opts.PrefsPath,
		showSuggestions: opts.ShowSuggestions,
		prompt:          prompt,
		bar:             bar,
		spin:            spin,
		polling:         true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.spin.Tick, m.fetchSuggestions())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchSuggestions asks the daemon for example prompts, seeding it with a
// sample of the selected document when it is plain text.
func (m Model) fetchSuggestions() tea.Cmd {
	client := m.client
	ctx := m.ctx
	store := m.store
	sample := ""
	if m.candidate != nil && m.candidate.ContentType == "text/plain" {
		data := m.candidate.Data
		if len(data) > 512 {
			data = data[:512]
		}
		sample = string(data)
	}
	return func() tea.Msg {
		result, err := client.Suggestions(ctx, sample)
		if err != nil {
			// Suggestions are decorative; a failure just leaves them empty.
			return nil
		}
		store.SetSuggestions(result.Suggestions)
		return suggestionsMsg{result: result}
	}
}

func (m Model) submit(previewOnly bool) tea.Cmd {
	client := m.client
	ctx := m.ctx
	file := cloak.UploadFile{
		Name:        m.candidate.Name,
		ContentType: m.candidate.ContentType,
		Data:        m.candidate.Data,
	}
	opts := cloak.SubmitOptions{
		Prompt:      m.prompt.Value(),
		PreviewOnly: previewOnly,
	}
	return func() tea.Msg {
		result, err := client.SubmitJob(ctx, file, opts)
		if err != nil {
			return submitFailMsg{err: err}
		}
		return submitDoneMsg{result: result}
	}
}

func (m Model) saveArtifact() tea.Cmd {
	retriever := m.retriever
	ctx := m.ctx
	jobID := m.snapshot.Job.JobID
	ext := m.candidate.Extension()
	return func() tea.Msg {
		path, err := retriever.Retrieve(ctx, jobID, ext)
		if err != nil {
			return saveFailMsg{err: err}
		}
		return savedMsg{path: path}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(msg.Width-8, 50)
		m.prompt.Width = min(msg.Width-10, 70)
		m.ready = true
		return m, nil

	case tickMsg:
		m.snapshot = m.store.Snapshot()
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd

	case submitDoneMsg:
		m.submitting = false
		m.submitNote = msg.result.Message
		m.previewText = msg.result.PreviewText
		m.savedPath = ""
		m.saveErr = nil
		if msg.result.JobID != "" && msg.result.PreviewText == "" {
			m.poller.SetJob(msg.result.JobID)
		}
		return m, nil

	case submitFailMsg:
		m.submitting = false
		m.submitNote = msg.err.Error()
		return m, nil

	case savedMsg:
		m.savedPath = msg.path
		m.saveErr = nil
		return m, nil

	case saveFailMsg:
		m.saveErr = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case keyMatches(msg, m.keys.Submit):
		if m.candidate != nil && !m.submitting && m.snapshot.Job.Paused() != job.PauseNone {
			m.submitting = true
			m.submitNote = ""
			return m, m.submit(false)
		}
		return m, nil

	case keyMatches(msg, m.keys.Preview):
		if m.candidate != nil && !m.submitting {
			m.submitting = true
			m.submitNote = ""
			return m, m.submit(true)
		}
		return m, nil

	case keyMatches(msg, m.keys.Save):
		if m.snapshot.Job.Phase == job.PhaseSucceeded && m.candidate != nil {
			return m, m.saveArtifact()
		}
		return m, nil

	case keyMatches(msg, m.keys.Reset):
		m.poller.Reset()
		m.submitNote = ""
		m.previewText = ""
		m.savedPath = ""
		m.saveErr = nil
		return m, nil

	case keyMatches(msg, m.keys.TogglePoll):
		m.polling = !m.polling
		m.poller.SetEnabled(m.polling)
		return m, nil

	case keyMatches(msg, m.keys.Suggestions):
		m.showSuggestions = !m.showSuggestions
		m.savePrefs()
		return m, nil

	case keyMatches(msg, m.keys.CycleTheme):
		m.theme = NextTheme(m.theme.Name)
		m.styles = m.theme.Styles()
		m.savePrefs()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.prompt.Value()
	m.prompt, cmd = m.prompt.Update(msg)
	if m.prompt.Value() != before {
		m.analyzer.SetInput(m.prompt.Value())
	}
	return m, cmd
}

func (m Model) savePrefs() {
	_ = prefs.Save(m.prefsPath, prefs.Prefs{
		Theme:           m.theme.Name,
		ShowSuggestions: m.showSuggestions,
	})
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	program := tea.NewProgram(New(opts), tea.WithContext(opts.Context))
	_, err := program.Run()
	return err
}
