package validators

import "strings"

// SanitizeString trims surrounding whitespace and truncates to maxLen.
// A maxLen of 0 disables truncation.
func SanitizeString(input string, maxLen int) string {
	out := strings.TrimSpace(input)
	if maxLen > 0 && len(out) > maxLen {
		out = strings.TrimSpace(out[:maxLen])
	}
	return out
}
