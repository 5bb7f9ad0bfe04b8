// Package extraction guesses transaction fields from raw OCR text.
//
// Both extractors are heuristics. They never fail: a miss is reported as an
// empty amount or the fallback description, and the user is expected to
// correct the pre-filled form before saving.
package extraction

import "strings"

// Fields contains the structured guess derived from a receipt's text
type Fields struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// Lines is receipt text split into trimmed, non-empty lines in their original order
type Lines []string

// SplitLines breaks raw OCR output into Lines
func SplitLines(text string) Lines {
	raw := strings.Split(text, "\n")
	lines := make(Lines, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Extract runs the amount and description extractors over text
func Extract(text string) Fields {
	return Fields{
		Amount:      Amount(text),
		Description: Description(SplitLines(text)),
	}
}
