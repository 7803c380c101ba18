package app

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloakhq/veil/internal/analyze"
	"github.com/cloakhq/veil/internal/artifact"
	"github.com/cloakhq/veil/internal/cloak"
	"github.com/cloakhq/veil/internal/config"
	"github.com/cloakhq/veil/internal/job"
	"github.com/cloakhq/veil/internal/prefs"
	"github.com/cloakhq/veil/internal/state"
	"github.com/cloakhq/veil/internal/ui"
	"github.com/cloakhq/veil/internal/upload"
)

const healthCheckTimeout = 3 * time.Second

// Options configure the veil application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/veil/prefs.toml
	FilePath   string // document to redact
	PollEvery  int    // seconds; zero uses default
}

// Run boots the veil TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := cloak.New(cloak.Config{BaseURL: cfg.APIURL, Timeout: cfg.Timeout})
	if err != nil {
		return fmt.Errorf("init cloak client: %w", err)
	}

	candidate, err := loadCandidate(opts.FilePath)
	if err != nil {
		return err
	}

	store := &state.Store{}

	// Verify the daemon is reachable before starting the UI.
	if err := ensureCloakAvailable(ctx, client); err != nil {
		return err
	}
	store.SetHealthy(true)

	interval := time.Duration(0)
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	poller := job.NewPoller(client, job.Options{
		Interval: interval,
		OnUpdate: store.SetJob,
	})
	poller.Start(ctx)

	analyzer := analyze.NewAnalyzer(client, analyze.Options{
		OnResult: store.SetAnalysis,
	})
	analyzer.Start(ctx)

	retriever := artifact.NewRetriever(client, cfg.OutputDir)

	return ui.Run(ui.Options{
		Context:         ctx,
		Client:          client,
		Store:           store,
		Poller:          poller,
		Analyzer:        analyzer,
		Retriever:       retriever,
		Candidate:       candidate,
		ThemeName:       userPrefs.Theme,
		PrefsPath:       opts.PrefsPath,
		ShowSuggestions: userPrefs.ShowSuggestions,
	})
}

// loadCandidate reads and validates the document before anything touches
// the network.
func loadCandidate(path string) (*upload.Candidate, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("no document given: veil <file>")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}
	name := filepath.Base(path)
	contentType := detectContentType(path)

	// Size and type are checked before the payload is even read.
	if err := upload.Validate(name, info.Size(), contentType); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return upload.NewCandidate(name, contentType, data)
}

// fallbackTypes covers extensions the platform mime table may not know.
var fallbackTypes = map[string]string{
	".txt":  "text/plain",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

func detectContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return fallbackTypes[ext]
}

func ensureCloakAvailable(ctx context.Context, client *cloak.Client) error {
	checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if _, err := client.Health(checkCtx); err != nil {
		return fmt.Errorf("cloak daemon not reachable: %w", err)
	}
	return nil
}
