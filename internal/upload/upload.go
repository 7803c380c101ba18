// Package upload validates locally selected documents before any network
// call is made.
package upload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize is the largest payload accepted for submission (50 MiB).
const MaxFileSize = 50 * 1024 * 1024

// Validation failures, surfaced to the caller before any request is issued.
var (
	ErrTooLarge        = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported type")
)

// allowedTypes is the declared-MIME allow-list for submissions.
var allowedTypes = map[string]struct{}{
	"text/plain":      {},
	"application/pdf": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"image/png":  {},
	"image/jpeg": {},
}

// extensions maps allowed content types to the artifact filename extension.
var extensions = map[string]string{
	"text/plain":      "txt",
	"application/pdf": "pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"image/png":  "png",
	"image/jpeg": "jpg",
}

// Candidate is a file chosen locally that passed validation but has not
// been sent yet. LocalID is for UI tracking only and never goes on the wire.
type Candidate struct {
	LocalID     string
	Name        string
	ContentType string
	Data        []byte
}

// Validate checks size then declared MIME type, in that order; the first
// violation wins.
func Validate(name string, size int64, contentType string) error {
	if size > MaxFileSize {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrTooLarge, name, size, MaxFileSize)
	}
	normalized := normalizeType(contentType)
	if _, ok := allowedTypes[normalized]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	return nil
}

// NewCandidate validates the payload and wraps it with an ephemeral local id.
func NewCandidate(name, contentType string, data []byte) (*Candidate, error) {
	if err := Validate(name, int64(len(data)), contentType); err != nil {
		return nil, err
	}
	return &Candidate{
		LocalID:     uuid.NewString(),
		Name:        name,
		ContentType: normalizeType(contentType),
		Data:        data,
	}, nil
}

// Extension returns the artifact filename extension for the candidate's
// content type.
func (c *Candidate) Extension() string {
	if ext, ok := extensions[c.ContentType]; ok {
		return ext
	}
	return "bin"
}

func normalizeType(contentType string) string {
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(normalized, ";"); i >= 0 {
		normalized = strings.TrimSpace(normalized[:i])
	}
	return normalized
}
