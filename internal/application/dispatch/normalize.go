package dispatch

import "strings"

// Normalize lowercases text, removes every occurrence of the wake word and of the
// assistant name, and collapses runs of whitespace.
func Normalize(text, wakeWord, assistantName string) string {
	text = strings.ToLower(text)
	for _, token := range []string{wakeWord, assistantName} {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		text = strings.ReplaceAll(text, token, " ")
	}
	return strings.Join(strings.Fields(text), " ")
}

// ContainsWakeWord reports whether text addresses the assistant. An empty wake word
// accepts everything.
func ContainsWakeWord(text, wakeWord, assistantName string) bool {
	wakeWord = strings.ToLower(strings.TrimSpace(wakeWord))
	if wakeWord == "" {
		return true
	}
	text = strings.Join(strings.Fields(strings.ToLower(text)), " ")
	if strings.Contains(text, wakeWord) {
		return true
	}
	name := strings.ToLower(strings.TrimSpace(assistantName))
	return name != "" && strings.Contains(text, name)
}
