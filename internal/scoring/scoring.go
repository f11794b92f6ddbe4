// Package scoring folds per-section assessments into one weighted score and
// a coarse risk bucket.
package scoring

import (
	"math"
	"strings"

	"dossier/internal/domain"
	"dossier/internal/ontology"
)

// Critically weak mandatory content takes a further penalty on top of the
// score the model already assigned.
const (
	weakScoreThreshold = 50
	weakPenalty        = 0.7
)

// Report is the aggregate outcome plus counters for observability.
type Report struct {
	FinalScore       int    `json:"finalScore"`
	RiskLevel        string `json:"riskLevel"`
	AnalyzedSections int    `json:"analyzedSections"`
	WeakSections     int    `json:"weakSections"`
	MissingSections  int    `json:"missingSections"`
}

// Aggregate computes the weighted final score over the assessments that
// resolve against the ontology (exact name, then case-insensitive label);
// unresolved assessments contribute nothing. Pure and deterministic.
func Aggregate(assessments []domain.SectionAssessment) Report {
	var weightedScore, maxPossible float64
	var analyzed, weak, missing int

	for _, a := range assessments {
		def := ontology.Lookup(a.Section)
		if def == nil {
			continue
		}
		score := float64(a.Score)
		status := strings.ToUpper(a.Status)
		switch {
		case status == "WEAK" || status == "PRESENT_BUT_WEAK":
			// Scores in the weak band already reflect quality; penalize
			// only a critically weak mandatory section.
			if def.Mandatory && a.Score < weakScoreThreshold {
				score *= weakPenalty
			}
			weak++
		case status == "MISSING":
			score = 0
			missing++
		}

		weightedScore += score * def.Weight
		maxPossible += 100.0 * def.Weight
		analyzed++
	}

	final := 0
	if maxPossible > 0 {
		final = int(math.Round(weightedScore / maxPossible * 100.0))
	}

	return Report{
		FinalScore:       final,
		RiskLevel:        riskLevel(final),
		AnalyzedSections: analyzed,
		WeakSections:     weak,
		MissingSections:  missing,
	}
}

func riskLevel(score int) string {
	switch {
	case score < 50:
		return "HIGH"
	case score < 65:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
