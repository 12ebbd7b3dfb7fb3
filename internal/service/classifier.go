package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yourname/focustracker/internal"
)

// categoryKeywords is the static blocklist: distraction category -> ordered
// lowercase keywords. Categories missing from this table contribute nothing.
var categoryKeywords = map[string][]string{
	"social": {"twitter", "x.com", "facebook", "instagram", "tiktok", "reddit"},
	"nsfw":   {"porn", "nsfw", "xxx"},
	"games":  {"steam", "epicgames", "roblox", "league of legends", "valorant"},
}

const (
	reasonGoalKeywords = "Goal keywords found in current context"
	reasonNoSignals    = "No blocklisted signals detected"
)

// Classify decides whether an observed activity is relevant to the session
// goal. Pure and deterministic: the same inputs always produce the same
// (decision, reason) pair.
//
// The goal, window title and URL are lowercased and joined (in that order)
// into one blob. A blocked keyword from any enabled category anywhere in the
// blob wins immediately; first match in category-then-keyword order is the
// one reported. Otherwise goal words longer than three runes count as focus
// signals, and the default verdict is relevant.
func Classify(goal, title, url string, categories []string) (string, string) {
	blob := strings.Join([]string{
		strings.ToLower(goal),
		strings.ToLower(title),
		strings.ToLower(url),
	}, " ")

	for _, cat := range categories {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(blob, kw) {
				reason := fmt.Sprintf("Matched blocked keyword '%s' in category '%s'", kw, cat)
				return internal.DecisionIrrelevant, reason
			}
		}
	}

	for _, word := range strings.Fields(strings.ToLower(goal)) {
		if utf8.RuneCountInString(word) <= 3 {
			continue
		}
		if strings.Contains(blob, word) {
			return internal.DecisionRelevant, reasonGoalKeywords
		}
	}

	return internal.DecisionRelevant, reasonNoSignals
}
