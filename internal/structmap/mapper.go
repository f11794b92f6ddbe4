// Package structmap segments normalized raw text into named sections using
// the ontology's labels and aliases as delimiters.
package structmap

import (
	"regexp"
	"strings"

	"dossier/internal/domain"
	"dossier/internal/ontology"
)

// Line-leading numbering/bullet tokens (1.1, 2-, a), (i)) followed by an
// uppercase word are PDF artifacts, not content.
var (
	numberingRe = regexp.MustCompile(`(?m)^[0-9][0-9.\-]{0,9}(\s+[A-Z])`)
	bulletRe    = regexp.MustCompile(`(?m)^\(?[a-zA-Z]{1,3}\)(\s+[A-Z])`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// headerRes[i] matches section i's label or any of its aliases,
// case-insensitively. Compiled once at init.
var headerRes = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(ontology.Sections))
	for i, def := range ontology.Sections {
		alts := make([]string, 0, len(def.Aliases)+1)
		alts = append(alts, regexp.QuoteMeta(def.Label))
		for _, alias := range def.Aliases {
			alts = append(alts, regexp.QuoteMeta(alias))
		}
		out[i] = regexp.MustCompile(`(?i)(` + strings.Join(alts, "|") + `)`)
	}
	return out
}()

func normalize(text string) string {
	text = numberingRe.ReplaceAllString(text, "$1")
	text = bulletRe.ReplaceAllString(text, "$1")
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// Map segments rawText into a StructuredDocument. It never fails: a section
// whose header is not found is simply left out of the map. Complete flips to
// false when any mandatory section is missing or trims to empty; an empty
// section is still recorded as present.
//
// Each section's body runs from just after the first occurrence of its
// header to the earliest occurrence of any header belonging to a section
// declared later in the ontology, or end of text. Boundaries follow the
// static declaration order, not the order headers happen to appear in the
// document, so segmentation stays deterministic and non-overlapping.
func Map(documentID, rawText string) *domain.StructuredDocument {
	normalized := normalize(rawText)
	sections := make(map[string]string)
	complete := true

	for i, def := range ontology.Sections {
		loc := headerRes[i].FindStringIndex(normalized)
		if loc == nil {
			if def.Mandatory {
				complete = false
			}
			continue
		}
		body := normalized[loc[1]:]
		end := len(body)
		for j := i + 1; j < len(ontology.Sections); j++ {
			if next := headerRes[j].FindStringIndex(body); next != nil && next[0] < end {
				end = next[0]
			}
		}
		content := strings.TrimSpace(body[:end])
		sections[def.Name] = content
		if content == "" && def.Mandatory {
			complete = false
		}
	}

	return &domain.StructuredDocument{
		ID:       documentID,
		RawText:  rawText,
		Sections: sections,
		Complete: complete,
	}
}
