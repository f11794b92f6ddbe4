package domain

import "time"

// Core domain models used internally. The JobRecord is the only entity with
// external persistence; everything else is a transient artifact of one
// pipeline run.

// JobStatus is the persisted lifecycle state of one processing attempt.
type JobStatus string

const (
	StatusUploaded   JobStatus = "UPLOADED"
	StatusExtracting JobStatus = "EXTRACTING"
	StatusAnalyzing  JobStatus = "ANALYZING"
	StatusCompleted  JobStatus = "COMPLETED"
	StatusFailed     JobStatus = "FAILED"
)

// Terminal reports whether no further transitions are possible.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Lifecycle maps internal states onto the coarse states exposed to polling
// clients.
func (s JobStatus) Lifecycle() string {
	switch s {
	case StatusUploaded:
		return "NOT_STARTED"
	case StatusExtracting, StatusAnalyzing:
		return "IN_PROGRESS"
	case StatusCompleted:
		return "COMPLETED"
	case StatusFailed:
		return "FAILED"
	}
	return "NOT_STARTED"
}

// JobRecord is one end-to-end processing attempt for one uploaded document.
// The job token is the client-facing polling handle, distinct from the
// document id and the storage reference.
type JobRecord struct {
	ID                string
	JobToken          string
	Filename          string
	StorageRef        string
	FileHash          string
	Status            JobStatus
	ValidationRemarks string
	AnalysisResult    string
	ExtractedText     string
	CreatedAt         time.Time
}

// StructuredDocument is the mapper's segmentation of one raw document.
// Created once and never mutated; a missing key in Sections means the
// section header was not found.
type StructuredDocument struct {
	ID       string
	RawText  string
	Sections map[string]string
	Complete bool
}

// ValidationStatus is the tri-state outcome of rule validation.
type ValidationStatus string

const (
	ValidationPass    ValidationStatus = "PASS"
	ValidationFlagged ValidationStatus = "FLAGGED"
	ValidationFail    ValidationStatus = "FAIL"
)

// Issue is one rule-engine finding.
type Issue struct {
	Text     string
	Blocking bool
}

// ValidationReport collects rule-engine issues for one document. Issues are
// append-only and the status fold is monotonic: PASS degrades to FLAGGED on
// any non-blocking issue and to FAIL on any blocking one, never the other
// way.
type ValidationReport struct {
	DocumentID string
	Status     ValidationStatus
	Issues     []Issue
	CreatedAt  time.Time
}

// NewValidationReport starts a PASS report for the given document.
func NewValidationReport(documentID string) *ValidationReport {
	return &ValidationReport{
		DocumentID: documentID,
		Status:     ValidationPass,
		CreatedAt:  time.Now(),
	}
}

// AddIssue appends an issue and degrades the status.
func (r *ValidationReport) AddIssue(text string, blocking bool) {
	r.Issues = append(r.Issues, Issue{Text: text, Blocking: blocking})
	if blocking {
		r.Status = ValidationFail
	} else if r.Status != ValidationFail {
		r.Status = ValidationFlagged
	}
}

// Remarks renders the issue list as the operator-facing remarks string.
func (r *ValidationReport) Remarks() string {
	if len(r.Issues) == 0 {
		return "[]"
	}
	out := "["
	for i, issue := range r.Issues {
		if i > 0 {
			out += ", "
		}
		out += issue.Text
	}
	return out + "]"
}
