package cloak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// API defines the operations the rest of the application uses. It is
// implemented by *Client and can be substituted in tests.
type API interface {
	Upload(ctx context.Context, file UploadFile) (*UploadResult, error)
	SubmitJob(ctx context.Context, file UploadFile, opts SubmitOptions) (*SubmitResult, error)
	JobStatus(ctx context.Context, jobID string) (*JobSnapshot, error)
	DownloadArtifact(ctx context.Context, jobID string) ([]byte, error)
	Suggestions(ctx context.Context, textSample string) (*SuggestionsResult, error)
	AnalyzePrompt(ctx context.Context, prompt string) (*PromptAnalysis, error)
	Health(ctx context.Context) (*HealthStatus, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the Cloak HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:8000"
	defaultUserAgent = "veil/0.1"
	defaultTimeout   = 30 * time.Second
)

// Config holds the externally configurable client settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration // zero uses the default
	UserAgent string        // empty uses the default
}

// New builds a Client from the provided configuration.
func New(cfg Config) (*Client, error) {
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	agent := cfg.UserAgent
	if agent == "" {
		agent = defaultUserAgent
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: agent,
	}, nil
}

// Upload sends a document to POST /upload and returns its descriptor.
func (c *Client) Upload(ctx context.Context, file UploadFile) (*UploadResult, error) {
	if len(file.Data) == 0 {
		return nil, requestError("file is empty")
	}
	var payload UploadResult
	if err := c.doMultipart(ctx, "/upload", file, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SubmitJob starts a redaction job via POST /redact. Optional fields in
// opts are left out of the form when unset.
func (c *Client) SubmitJob(ctx context.Context, file UploadFile, opts SubmitOptions) (*SubmitResult, error) {
	if len(file.Data) == 0 {
		return nil, requestError("file is empty")
	}
	fields := map[string]string{}
	if prompt := strings.TrimSpace(opts.Prompt); prompt != "" {
		fields["prompt"] = prompt
	}
	if opts.PreviewOnly {
		fields["preview_only"] = "true"
	}
	var payload SubmitResult
	if err := c.doMultipart(ctx, "/redact", file, fields, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// JobStatus retrieves the current snapshot for a job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*JobSnapshot, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, requestError("job id required")
	}
	var payload JobSnapshot
	path := fmt.Sprintf("/job/%s/status", url.PathEscape(jobID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DownloadArtifact fetches the redacted document as raw bytes. Delivery of
// the payload is the caller's responsibility.
func (c *Client) DownloadArtifact(ctx context.Context, jobID string) ([]byte, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, requestError("job id required")
	}
	path := fmt.Sprintf("/job/%s/download", url.PathEscape(jobID))
	resp, err := c.send(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, protocolError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}
	return data, nil
}

// Suggestions asks the daemon for example prompts based on a text sample.
func (c *Client) Suggestions(ctx context.Context, textSample string) (*SuggestionsResult, error) {
	body := map[string]string{"text_sample": textSample}
	var payload SuggestionsResult
	if err := c.doJSON(ctx, http.MethodPost, "/suggestions", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AnalyzePrompt asks the daemon which entity categories a natural-language
// prompt would redact or keep.
func (c *Client) AnalyzePrompt(ctx context.Context, prompt string) (*PromptAnalysis, error) {
	body := map[string]string{"prompt": prompt}
	var payload PromptAnalysis
	if err := c.doJSON(ctx, http.MethodPost, "/analyze-prompt", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Health checks daemon availability.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var payload HealthStatus
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// doJSON issues a request with an optional JSON body and decodes a JSON
// response into dest.
func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return requestError(fmt.Sprintf("encode request: %v", err))
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	resp, err := c.send(ctx, method, path, contentType, reader)
	if err != nil {
		return err
	}
	return c.decode(resp, dest)
}

// doMultipart issues a multipart POST carrying the file plus extra form
// fields and decodes a JSON response into dest.
func (c *Client) doMultipart(ctx context.Context, path string, file UploadFile, fields map[string]string, dest any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	if file.ContentType != "" {
		header.Set("Content-Type", file.ContentType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return requestError(fmt.Sprintf("build form: %v", err))
	}
	if _, err := part.Write(file.Data); err != nil {
		return requestError(fmt.Sprintf("build form: %v", err))
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return requestError(fmt.Sprintf("build form: %v", err))
		}
	}
	if err := writer.Close(); err != nil {
		return requestError(fmt.Sprintf("build form: %v", err))
	}

	resp, err := c.send(ctx, http.MethodPost, path, writer.FormDataContentType(), &buf)
	if err != nil {
		return err
	}
	return c.decode(resp, dest)
}

// send executes a request and normalizes wire-level failures. The caller
// owns the response body on success.
func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, requestError(fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	return resp, nil
}

// decode consumes and closes the response body, normalizing non-2xx
// statuses and malformed payloads.
func (c *Client) decode(resp *http.Response, dest any) error {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return protocolError(resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return decodeError(resp.StatusCode, err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
