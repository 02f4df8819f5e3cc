package security

import (
	"strings"
)

// PIIDetector checks prompts and note content for sensitive keywords.
type PIIDetector struct {
	keywords []string
}

func NewPIIDetector(keywords []string) *PIIDetector {
	lower := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			lower = append(lower, strings.ToLower(k))
		}
	}
	return &PIIDetector{keywords: lower}
}

// Detect returns true and the first matched keyword found in any of texts.
func (d *PIIDetector) Detect(texts ...string) (bool, string) {
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, kw := range d.keywords {
			if strings.Contains(lower, kw) {
				return true, kw
			}
		}
	}
	return false, ""
}
