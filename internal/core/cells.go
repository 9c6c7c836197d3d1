package core

import "strings"

// cleanCell trims a cell and unwraps the ="..." form spreadsheets write to
// keep text such as ZIP codes from being read as numbers.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 3 && strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = strings.TrimSpace(s[2 : len(s)-1])
	}
	return s
}
