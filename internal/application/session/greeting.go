package session

import (
	"fmt"
	"strings"
	"time"
)

// Greeting returns the time-of-day salutation followed by the assistant's introduction.
func Greeting(now time.Time, name string) string {
	var salutation string
	switch hour := now.Hour(); {
	case hour < 12:
		salutation = "Good Morning!"
	case hour < 18:
		salutation = "Good Afternoon!"
	default:
		salutation = "Good Evening!"
	}
	return fmt.Sprintf("%s I am %s, how may I help you?", salutation, DisplayName(name))
}

// DisplayName capitalizes the first letter of the assistant name.
func DisplayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
