package cloak

// JobStatus enumerates the lifecycle states the daemon reports for a job.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further status changes are possible.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Confidence grades how well a prompt analysis understood its input.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// UploadFile carries a locally selected document to the wire.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadResult mirrors the payload returned by POST /upload.
type UploadResult struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// SubmitOptions configure POST /redact requests. A zero Prompt or a false
// PreviewOnly is omitted from the transmitted form entirely.
type SubmitOptions struct {
	Prompt      string
	PreviewOnly bool
}

// SubmitResult mirrors the payload returned by POST /redact.
type SubmitResult struct {
	JobID            string `json:"job_id"`
	Accepted         bool   `json:"success"`
	Message          string `json:"message"`
	EntitiesDetected int    `json:"entities_detected"`
	PreviewText      string `json:"preview_text,omitempty"`
}

// JobResult describes the artifact of a completed job.
type JobResult struct {
	RedactedFileURL  string `json:"redacted_file_url,omitempty"`
	PreviewText      string `json:"preview_text,omitempty"`
	EntitiesDetected int    `json:"entities_detected"`
}

// JobSnapshot mirrors GET /job/{job_id}/status.
type JobSnapshot struct {
	JobID    string     `json:"job_id"`
	Status   JobStatus  `json:"status"`
	Progress int        `json:"progress"`
	Result   *JobResult `json:"result,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// SuggestionsResult mirrors POST /suggestions.
type SuggestionsResult struct {
	Suggestions      []string `json:"suggestions"`
	DetectedEntities []string `json:"detected_entities"`
}

// PromptAnalysis mirrors POST /analyze-prompt. EntitiesToRedact and
// EntitiesToKeep hold disjoint entity-category tags; Error is set when the
// analysis itself failed even though the request succeeded.
type PromptAnalysis struct {
	EntitiesToRedact  []string   `json:"entities_to_redact"`
	EntitiesToKeep    []string   `json:"entities_to_keep"`
	Confidence        Confidence `json:"confidence"`
	UnrecognizedTerms []string   `json:"unrecognized_terms,omitempty"`
	Error             string     `json:"error,omitempty"`
}

// HealthStatus mirrors GET /health.
type HealthStatus struct {
	Status string `json:"status"`
}
