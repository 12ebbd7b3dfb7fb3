package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourname/focustracker/internal"
)

func TestClassifyCategoryPrecedence(t *testing.T) {
	decision, reason := Classify("finish report", "Twitter feed", "", []string{"social"})
	assert.Equal(t, internal.DecisionIrrelevant, decision)
	assert.Contains(t, reason, "twitter")
	assert.Contains(t, reason, "social")
}

func TestClassifyBlockedKeywordBeatsGoalKeyword(t *testing.T) {
	// "report" appears in the title, but the blocklist wins first.
	decision, _ := Classify("finish report", "report on reddit", "", []string{"social"})
	assert.Equal(t, internal.DecisionIrrelevant, decision)
}

func TestClassifyURLMatch(t *testing.T) {
	decision, reason := Classify("study math", "", "https://x.com/home", []string{"social"})
	assert.Equal(t, internal.DecisionIrrelevant, decision)
	assert.Contains(t, reason, "x.com")
}

func TestClassifyGoalKeywordFallback(t *testing.T) {
	decision, reason := Classify("write thesis chapter", "Thesis Chapter Draft - Google Docs", "", nil)
	assert.Equal(t, internal.DecisionRelevant, decision)
	assert.Equal(t, "Goal keywords found in current context", reason)
}

func TestClassifyDefaultFallback(t *testing.T) {
	// Goal words of three or fewer characters contribute no keywords.
	decision, reason := Classify("abc", "Unrelated Page", "", nil)
	assert.Equal(t, internal.DecisionRelevant, decision)
	assert.Equal(t, "No blocklisted signals detected", reason)
}

func TestClassifyUnknownCategoryIgnored(t *testing.T) {
	decision, reason := Classify("abc", "Unrelated Page", "", []string{"knitting"})
	assert.Equal(t, internal.DecisionRelevant, decision)
	assert.Equal(t, "No blocklisted signals detected", reason)
}

func TestClassifyEmptyInputs(t *testing.T) {
	decision, reason := Classify("", "", "", nil)
	assert.Equal(t, internal.DecisionRelevant, decision)
	assert.Equal(t, "No blocklisted signals detected", reason)
}

func TestClassifyDeterministic(t *testing.T) {
	categories := []string{"games", "social"}
	d1, r1 := Classify("beat the level", "Steam store", "https://store.steampowered.com", categories)
	d2, r2 := Classify("beat the level", "Steam store", "https://store.steampowered.com", categories)
	assert.Equal(t, d1, d2)
	assert.Equal(t, r1, r2)
	assert.Equal(t, internal.DecisionIrrelevant, d1)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	decision, _ := Classify("finish report", "TIKTOK compilation", "", []string{"social"})
	assert.Equal(t, internal.DecisionIrrelevant, decision)
}
