package ontology

import "strings"

// SectionDefinition describes one expected DPR section: how it is recognized
// in free text and how much it contributes to the final score.
type SectionDefinition struct {
	Name      string
	Label     string
	Weight    float64
	Mandatory bool
	Aliases   []string
}

// Sections is the static section table. Declaration order matters: the
// structure mapper uses it as segmentation priority, with each section's
// body bounded by the headers of later-declared sections.
var Sections = []SectionDefinition{
	{
		Name:      "EXECUTIVE_SUMMARY",
		Label:     "Executive Summary",
		Weight:    0.10,
		Mandatory: true,
		Aliases:   []string{"Introduction", "Project Overview", "Background"},
	},
	{
		Name:      "OBJECTIVES",
		Label:     "Objectives",
		Weight:    0.15,
		Mandatory: true,
		Aliases:   []string{"Project Objectives", "Purpose", "Goals"},
	},
	{
		Name:      "TECHNICAL_SPECS",
		Label:     "Technical Specifications",
		Weight:    0.25,
		Mandatory: true,
		Aliases:   []string{"Brief Specification", "Plant & Equipment", "Equipment Details", "Technical Details"},
	},
	{
		Name:      "FINANCIALS",
		Label:     "Financials",
		Weight:    0.30,
		Mandatory: true,
		Aliases:   []string{"Cost Estimates", "Estimated Expenditure", "Revenue & Profitability", "Project Cost"},
	},
	{
		Name:      "TIMELINE",
		Label:     "Timeline",
		Weight:    0.10,
		Mandatory: true,
		Aliases:   []string{"Implementation Schedule", "Phasing Plan", "Schedule"},
	},
	{
		Name:      "RISKS",
		Label:     "Risks & Mitigation",
		Weight:    0.10,
		Mandatory: false,
		Aliases:   []string{"Constraints", "Operational Considerations", "Impact"},
	},
}

var byName = func() map[string]*SectionDefinition {
	m := make(map[string]*SectionDefinition, len(Sections))
	for i := range Sections {
		m[Sections[i].Name] = &Sections[i]
	}
	return m
}()

// Lookup resolves a section by exact name, falling back to a
// case-insensitive label match. Returns nil if nothing matches.
func Lookup(name string) *SectionDefinition {
	if def, ok := byName[name]; ok {
		return def
	}
	for i := range Sections {
		if strings.EqualFold(Sections[i].Label, name) {
			return &Sections[i]
		}
	}
	return nil
}

// Mandatory returns the mandatory section definitions in declaration order.
func Mandatory() []SectionDefinition {
	out := make([]SectionDefinition, 0, len(Sections))
	for _, def := range Sections {
		if def.Mandatory {
			out = append(out, def)
		}
	}
	return out
}
