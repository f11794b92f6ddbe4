package domain

// ScrutinyResult is the JSON document returned by the external model and
// corrected in place by the guardrail before being persisted. The Error
// field doubles as the uniform failure representation: callers check it
// instead of handling transport or parse faults themselves.
type ScrutinyResult struct {
	Error            string           `json:"error,omitempty"`
	Details          string           `json:"details,omitempty"`
	OverallScore     OverallScore     `json:"overallScore"`
	Summary          string           `json:"summary,omitempty"`
	DocumentAnalysis DocumentAnalysis `json:"documentAnalysis"`
}

type OverallScore struct {
	Score      int    `json:"score"`
	RiskLevel  string `json:"riskLevel"`
	Confidence string `json:"confidence,omitempty"`
}

type DocumentAnalysis struct {
	Sections []SectionAssessment `json:"sections"`
}

// SectionAssessment is the model's verdict on one section. Presence mirrors
// Status for older clients that still read it.
type SectionAssessment struct {
	Section  string   `json:"section"`
	Presence string   `json:"presence"`
	Status   string   `json:"status"`
	Summary  string   `json:"summary"`
	Reason   string   `json:"reason,omitempty"`
	Score    int      `json:"score"`
	Evidence Evidence `json:"evidence"`
}

type Evidence struct {
	Chapters      []string `json:"chapters"`
	PageRanges    []string `json:"pageRanges"`
	HeadingsFound []string `json:"headingsFound"`
}

// Failed reports whether the result carries a schema-level error.
func (r *ScrutinyResult) Failed() bool { return r.Error != "" }
