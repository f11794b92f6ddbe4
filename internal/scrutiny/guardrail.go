// Package scrutiny wraps the external model call with policy enforcement:
// financial-signal pre-detection, a single-shot structured prompt, and
// post-hoc correction of the model's verdict against domain rules. The model
// output is never trusted blindly.
package scrutiny

import (
	"context"
	"encoding/json"
	"regexp"

	"go.uber.org/zap"

	"dossier/internal/domain"
)

// Currency markers, cost terms, unit prices, and NHB-specific markers. A
// match is a boolean hint for the model and the trigger for post-correction,
// not a hard gate.
var financialRe = regexp.MustCompile(`(?i)(Rs\.|INR|Crore|Lakhs|Estimated Cost|Project Cost|Means of Finance|Summary of Project Cost|Manpower Cost|Unit Price|Cost Table|OPEX|CAPEX|per unit|per month|Machinery|Equipment Cost|Civil Works|Protected cultivation|PHM cost|NHB|National Horticulture Board)`)

// Approx 25k tokens.
const defaultMaxInputChars = 100000

// Score floor for a detected-but-incomplete FINANCIALS section.
const financialScoreFloor = 65

type Guardrail struct {
	model         Model
	log           *zap.Logger
	maxInputChars int
}

func NewGuardrail(model Model, log *zap.Logger, maxInputChars int) *Guardrail {
	if maxInputChars <= 0 {
		maxInputChars = defaultMaxInputChars
	}
	return &Guardrail{model: model, log: log, maxInputChars: maxInputChars}
}

// Scrutinize runs the full guardrailed evaluation over the document text.
// Every failure mode is folded into the returned result's Error field, so
// callers have one uniform success/error representation and nothing
// propagates as a fault.
func (g *Guardrail) Scrutinize(ctx context.Context, documentID, text string) *domain.ScrutinyResult {
	if text == "" {
		return &domain.ScrutinyResult{
			Error:        "Empty document content",
			OverallScore: domain.OverallScore{Score: 0, RiskLevel: "HIGH"},
		}
	}

	financialDetected := financialRe.MatchString(text)
	safeText := truncate(text, g.maxInputChars)

	userMsg := "DOCUMENT CONTENT:\n" + safeText
	if financialDetected {
		userMsg = hintLine + userMsg
	}

	raw, err := g.model.Complete(ctx, systemPrompt, userMsg)
	if err != nil {
		g.log.Error("scrutiny call failed", zap.String("doc_id", documentID), zap.Error(err))
		return &domain.ScrutinyResult{
			Error:        "Scrutiny failed",
			Details:      err.Error(),
			OverallScore: domain.OverallScore{Score: 0, RiskLevel: "UNKNOWN"},
		}
	}

	var result domain.ScrutinyResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		g.log.Error("scrutiny output malformed", zap.String("doc_id", documentID), zap.Error(err))
		return &domain.ScrutinyResult{
			Error:        "AI Analysis Failed",
			OverallScore: domain.OverallScore{Score: 0, RiskLevel: "UNKNOWN"},
		}
	}
	if result.Failed() {
		return &result
	}

	if financialDetected {
		g.correctFinancials(documentID, &result)
	}
	return &result
}

// correctFinancials enforces the domain policy that a document exhibiting
// cost-related language must never be labelled as having no financial
// content, whatever the model claims.
func (g *Guardrail) correctFinancials(documentID string, result *domain.ScrutinyResult) {
	for i := range result.DocumentAnalysis.Sections {
		section := &result.DocumentAnalysis.Sections[i]
		if section.Section != "FINANCIALS" {
			continue
		}
		status := section.Status
		if status == "" {
			status = section.Presence
		}
		if status == "" || status == "MISSING" || status == "ABSENT" {
			g.log.Warn("guardrail: forcing FINANCIALS status to INCOMPLETE",
				zap.String("doc_id", documentID), zap.String("model_status", status))
			section.Status = "INCOMPLETE"
			section.Presence = "INCOMPLETE"
			section.Reason = MandatedIncompleteWording
			section.Summary = MandatedIncompleteWording
		}
		if section.Score < financialScoreFloor {
			g.log.Warn("guardrail: raising FINANCIALS score to floor",
				zap.String("doc_id", documentID), zap.Int("model_score", section.Score))
			section.Score = financialScoreFloor
		}
	}
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
