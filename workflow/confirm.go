package workflow

import "strings"

// affirmatives are the inputs treated as approval of a pending confirmation.
// Anything else is a decline; an unrecognized answer never commits a side
// effect.
var affirmatives = map[string]bool{
	"yes":      true,
	"y":        true,
	"yeah":     true,
	"yep":      true,
	"sure":     true,
	"ok":       true,
	"okay":     true,
	"confirm":  true,
	"approve":  true,
	"approved": true,
	"do it":    true,
	"go ahead": true,
	"please":   true,
}

// IsAffirmative reports whether a human input approves the pending side
// effect.
func IsAffirmative(input string) bool {
	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.TrimRight(normalized, ".!")
	return affirmatives[normalized]
}
