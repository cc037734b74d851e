package service

import "strings"

// fallbackTriggers are the refusal/insufficiency phrases that route a
// synthesized answer to the web-search fallback. Matching is
// case-insensitive substring search. Kept in sync with RefusalPhrase.
var fallbackTriggers = []string{
	"not in the document",
	"does not contain",
	"no relevant information",
	"i don't have enough information",
	"cannot answer that",
	"i do not have the required data",
}

// ShouldFallback reports whether the synthesized answer is unsupported by
// the documents. The length heuristic catches refusals phrased outside
// the fixed trigger list.
func ShouldFallback(answer string, minAnswerLen int) bool {
	if minAnswerLen <= 0 {
		minAnswerLen = 30
	}
	if len(strings.TrimSpace(answer)) < minAnswerLen {
		return true
	}
	lowered := strings.ToLower(answer)
	for _, phrase := range fallbackTriggers {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
