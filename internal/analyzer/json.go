package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Chatty lead-ins models put in front of JSON despite being told not to.
var responsePrefixes = []string{
	"Here is the analysis in the required JSON format:",
	"Here is the JSON response:",
	"Here's the analysis:",
	"The analysis is:",
	"Based on the analysis:",
	"```json",
	"```",
}

// decodeResponse parses a model reply into v, tolerating prefixes, code
// fences, and trailing prose around the JSON object.
func decodeResponse(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(cleanResponse(raw)), v); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}
	return nil
}

func cleanResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)

	for changed := true; changed; {
		changed = false
		for _, prefix := range responsePrefixes {
			if strings.HasPrefix(cleaned, prefix) {
				cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, prefix))
				changed = true
			}
		}
	}
	cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "```"))

	// Extract the first balanced top-level object.
	start := strings.IndexByte(cleaned, '{')
	if start < 0 {
		return cleaned
	}
	depth := 0
	for i := start; i < len(cleaned); i++ {
		switch cleaned[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return cleaned[start : i+1]
			}
		}
	}
	return cleaned[start:]
}
