package upload

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		size        int64
		contentType string
		wantErr     error
	}{
		{"plain text ok", 100, "text/plain", nil},
		{"pdf ok", 1024, "application/pdf", nil},
		{"docx ok", 1024, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", nil},
		{"png ok", 1024, "image/png", nil},
		{"jpeg ok", 1024, "image/jpeg", nil},
		{"charset parameter ok", 100, "text/plain; charset=utf-8", nil},
		{"exactly at limit", MaxFileSize, "text/plain", nil},
		{"over limit", MaxFileSize + 1, "text/plain", ErrTooLarge},
		{"unsupported type", 100, "application/zip", ErrUnsupportedType},
		{"empty type", 100, "", ErrUnsupportedType},
		// Size is checked first, so an oversized zip reports size.
		{"size wins over type", MaxFileSize + 1, "application/zip", ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("doc", tt.size, tt.contentType)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate returned error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewCandidate_AssignsDistinctLocalIDs(t *testing.T) {
	a, err := NewCandidate("a.txt", "text/plain", []byte("aaa"))
	if err != nil {
		t.Fatalf("NewCandidate returned error: %v", err)
	}
	b, err := NewCandidate("b.txt", "text/plain", []byte("bbb"))
	if err != nil {
		t.Fatalf("NewCandidate returned error: %v", err)
	}
	if a.LocalID == "" || b.LocalID == "" {
		t.Fatal("LocalID is empty, want generated id")
	}
	if a.LocalID == b.LocalID {
		t.Fatalf("LocalID collision: %q", a.LocalID)
	}
}

func TestNewCandidate_RejectsBeforeAssigningID(t *testing.T) {
	_, err := NewCandidate("a.zip", "application/zip", []byte("aaa"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("NewCandidate error = %v, want ErrUnsupportedType", err)
	}
}

func TestCandidate_Extension(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"text/plain", "txt"},
		{"application/pdf", "pdf"},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "docx"},
		{"image/png", "png"},
		{"image/jpeg", "jpg"},
	}
	for _, tt := range tests {
		c := Candidate{ContentType: tt.contentType}
		if got := c.Extension(); got != tt.want {
			t.Errorf("Extension() for %q = %q, want %q", tt.contentType, got, tt.want)
		}
	}

	unknown := Candidate{ContentType: "application/zip"}
	if got := unknown.Extension(); got != "bin" {
		t.Errorf("Extension() fallback = %q, want bin", got)
	}
}
