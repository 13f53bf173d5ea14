package service

import (
	"regexp"
	"strings"
)

var (
	fractionOverRe  = regexp.MustCompile(`(?i)(\d+)\s+over\s+(\d+)`)
	fractionSpaceRe = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)
	fractionDashRe  = regexp.MustCompile(`(\d+)\s*[—–-]\s*(\d+)`)
)

// NormalizeAnswer canonicalizes a raw answer for comparison. If the string
// contains '=' signs, only the part after the last one counts ("48 / 6 = 8"
// grades as "8"). Fraction spellings collapse to "n/m": "2 over 3",
// "2 / 3" and dash-drawn fraction bars like "2—3" all become "2/3".
// The transform is idempotent.
func NormalizeAnswer(raw string) string {
	answer := raw
	if idx := strings.LastIndex(answer, "="); idx != -1 {
		answer = answer[idx+1:]
	}
	answer = strings.TrimSpace(answer)

	// Each regex consumes the digits it matches, so a chained input like
	// "10-20-30" rewrites one pair per pass. Repeat until stable.
	for {
		next := fractionOverRe.ReplaceAllString(answer, "${1}/${2}")
		next = fractionSpaceRe.ReplaceAllString(next, "${1}/${2}")
		next = fractionDashRe.ReplaceAllString(next, "${1}/${2}")
		if next == answer {
			break
		}
		answer = next
	}

	return strings.TrimSpace(answer)
}
