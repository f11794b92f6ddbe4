// Package rules runs deterministic policy checks over a structured document.
// Rule findings are advisory: a FAIL report informs remarks and scoring but
// never halts the pipeline on its own.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"dossier/internal/domain"
	"dossier/internal/ontology"
)

// A cost keyword followed within a short window by a numeric token.
var costRe = regexp.MustCompile(`(?i)(Total|Cost|Budget|Expenditure)[\s\S]{0,20}?(\d+[.,]?\d*)`)

const timelineMinChars = 50

// Validate applies the fixed rule sequence and folds the findings into a
// report. Pure function of its argument; it never errors.
func Validate(doc *domain.StructuredDocument) *domain.ValidationReport {
	report := domain.NewValidationReport(doc.ID)
	checkMandatorySections(doc, report)
	checkBudgetSanity(doc, report)
	checkTimeline(doc, report)
	return report
}

func checkMandatorySections(doc *domain.StructuredDocument, report *domain.ValidationReport) {
	for _, def := range ontology.Mandatory() {
		content, ok := doc.Sections[def.Name]
		if !ok || strings.TrimSpace(content) == "" {
			report.AddIssue(fmt.Sprintf("Missing Mandatory Section: %s", def.Label), true)
		}
	}
}

func checkBudgetSanity(doc *domain.StructuredDocument, report *domain.ValidationReport) {
	financials, ok := doc.Sections["FINANCIALS"]
	if !ok {
		return
	}
	if !costRe.MatchString(financials) {
		report.AddIssue("Financial Section present but no clear Total Cost identified.", false)
	}
}

func checkTimeline(doc *domain.StructuredDocument, report *domain.ValidationReport) {
	timeline, ok := doc.Sections["TIMELINE"]
	if !ok {
		return
	}
	if len(strings.TrimSpace(timeline)) < timelineMinChars {
		report.AddIssue("Timeline section appears too brief for a comprehensive DPR.", false)
	}
}
