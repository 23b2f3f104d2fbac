package rules

import "strings"

// FirstMatch returns the first keyword, in declared order, contained in
// the input text. Matching is case-insensitive substring containment.
// Declared order decides ties: when several keywords match, the earliest
// one in the list is returned so evaluations are deterministic.
func FirstMatch(denyKeywords []string, inputText string) (string, bool) {
	if len(denyKeywords) == 0 || inputText == "" {
		return "", false
	}

	lowered := strings.ToLower(inputText)
	for _, keyword := range denyKeywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return keyword, true
		}
	}

	return "", false
}
