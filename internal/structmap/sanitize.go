package structmap

import (
	"encoding/json"
	"strings"
	"time"

	"dossier/internal/domain"
)

const contextGuidelines = "MDONER_2024_STANDARD_V1"

type sanitizedPayload struct {
	DprIDRef            string            `json:"dpr_id_ref"`
	ExtractionTimestamp string            `json:"extraction_timestamp"`
	ContextGuidelines   string            `json:"context_guidelines"`
	Sections            map[string]string `json:"sections"`
}

// SanitizeForModel renders a StructuredDocument as a cleaned JSON payload
// for model context: lowercased section keys, null bytes stripped, no
// internal state beyond the reference id.
func SanitizeForModel(doc *domain.StructuredDocument) (string, error) {
	sections := make(map[string]string, len(doc.Sections))
	for name, content := range doc.Sections {
		key := strings.ReplaceAll(strings.ToLower(name), " ", "_")
		sections[key] = cleanText(content)
	}
	payload := sanitizedPayload{
		DprIDRef:            doc.ID,
		ExtractionTimestamp: time.Now().Format(time.RFC3339),
		ContextGuidelines:   contextGuidelines,
		Sections:            sections,
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func cleanText(in string) string {
	return strings.ReplaceAll(strings.TrimSpace(in), "\x00", "")
}
