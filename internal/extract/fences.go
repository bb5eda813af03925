package extract

import "strings"

// StripCodeFences removes a leading markdown code fence (```json or bare
// ```) and its matching trailing fence from model output. Idempotent:
// already-unfenced input is returned trimmed but otherwise untouched.
func StripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		// A lone fence line carries no payload.
		return ""
	}

	// Drop the opening fence line (handles ```json and bare ```).
	lines = lines[1:]
	// Drop the closing fence if present.
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
