package service

import (
	"context"

	"github.com/yourname/focustracker/internal"
	"github.com/yourname/focustracker/internal/storage"
)

// summarySessionLimit bounds how many sessions one summary reads.
const summarySessionLimit = 50

// streakCapDays caps the placeholder streak. min(sessionCount, 7) is not a
// consecutive-day streak and is deliberately kept that way.
const streakCapDays = 7

// SummarizeSessions reduces the fetched sessions into running totals.
func SummarizeSessions(sessions []internal.Session) internal.Summary {
	summary := internal.Summary{Sessions: len(sessions)}
	for _, s := range sessions {
		summary.TotalFocusSeconds += s.TotalFocusSeconds
		summary.TotalIdleSeconds += s.TotalIdleSeconds
		summary.DistractionsBlocked += s.DistractionsBlocked
	}
	if summary.Sessions < streakCapDays {
		summary.StreakDays = summary.Sessions
	} else {
		summary.StreakDays = streakCapDays
	}
	return summary
}

// Summarize fetches the user's most recent sessions and reduces them.
// Pure read; an unknown user simply yields an all-zero summary.
func Summarize(ctx context.Context, sessions storage.SessionRepository, userID string) (internal.Summary, error) {
	list, err := sessions.ListSessionsByUser(ctx, userID, summarySessionLimit)
	if err != nil {
		return internal.Summary{}, err
	}
	return SummarizeSessions(list), nil
}
