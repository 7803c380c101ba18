// Package artifact fetches finished redaction artifacts and delivers them
// to the local filesystem.
package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloakhq/veil/internal/cloak"
)

// Retriever downloads completed artifacts and saves them under OutputDir.
type Retriever struct {
	client    cloak.API
	outputDir string
}

// NewRetriever builds a Retriever saving into outputDir. An empty dir means
// the current working directory.
func NewRetriever(client cloak.API, outputDir string) *Retriever {
	if strings.TrimSpace(outputDir) == "" {
		outputDir = "."
	}
	return &Retriever{client: client, outputDir: outputDir}
}

// Filename returns the delivery filename for a job's artifact.
func Filename(jobID, ext string) string {
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("redacted-document-%s.%s", jobID, ext)
}

// Retrieve downloads the artifact for a completed job and writes it to
// disk, returning the final path. The write goes through a temporary file
// that is removed on every failure path.
func (r *Retriever) Retrieve(ctx context.Context, jobID, ext string) (string, error) {
	data, err := r.client.DownloadArtifact(ctx, jobID)
	if err != nil {
		return "", err
	}
	return save(r.outputDir, Filename(jobID, ext), data)
}

func save(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close artifact: %w", err)
	}

	final := filepath.Join(dir, name)
	if err := os.Rename(tmpPath, final); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("deliver artifact: %w", err)
	}
	return final, nil
}
