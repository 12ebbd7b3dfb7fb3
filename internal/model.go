package internal

import "time"

// Session lifecycle states.
const (
	StatusActive = "active"
	StatusEnded  = "ended"
)

// Classifier verdicts for an activity observation.
const (
	DecisionRelevant   = "relevant"
	DecisionIrrelevant = "irrelevant"
)

// DefaultVoice is the assistant persona assigned when the client sends none.
const DefaultVoice = "Cluely"

// DefaultDevice labels activity events that carry no device field.
const DefaultDevice = "web"

type User struct {
	ID       string `json:"id,omitempty" bson:"-"`
	Name     string `json:"name,omitempty" bson:"name,omitempty"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
	DeviceID string `json:"device_id" bson:"device_id"`
	Voice    string `json:"voice,omitempty" bson:"voice,omitempty"`
}

// Session is a bounded focus attempt. Counters only ever grow; status moves
// active -> ended exactly once and ended is terminal.
type Session struct {
	ID                  string     `json:"id,omitempty" bson:"-"`
	UserID              string     `json:"user_id" bson:"user_id"`
	Goal                string     `json:"goal" bson:"goal"`
	DurationMinutes     int        `json:"duration_minutes" bson:"duration_minutes"`
	Categories          []string   `json:"categories" bson:"categories"`
	Voice               string     `json:"voice,omitempty" bson:"voice,omitempty"`
	StartedAt           time.Time  `json:"started_at" bson:"started_at"`
	EndedAt             *time.Time `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
	TotalFocusSeconds   int        `json:"total_focus_seconds" bson:"total_focus_seconds"`
	TotalIdleSeconds    int        `json:"total_idle_seconds" bson:"total_idle_seconds"`
	DistractionsBlocked int        `json:"distractions_blocked" bson:"distractions_blocked"`
	Status              string     `json:"status" bson:"status"`
}

// ActivityEvent is one immutable client observation, classified against the
// owning session's goal. Events are append-only and never re-read by the core.
type ActivityEvent struct {
	ID        string    `json:"id,omitempty" bson:"-"`
	SessionID string    `json:"session_id" bson:"session_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Device    string    `json:"device,omitempty" bson:"device,omitempty"`
	App       string    `json:"app,omitempty" bson:"app,omitempty"`
	URL       string    `json:"url,omitempty" bson:"url,omitempty"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	Idle      bool      `json:"idle" bson:"idle"`
	Decision  string    `json:"decision,omitempty" bson:"decision,omitempty"`
	Reason    string    `json:"reason,omitempty" bson:"reason,omitempty"`
}

// Summary aggregates a user's sessions into running totals.
type Summary struct {
	Sessions            int `json:"sessions"`
	TotalFocusSeconds   int `json:"total_focus_seconds"`
	TotalIdleSeconds    int `json:"total_idle_seconds"`
	DistractionsBlocked int `json:"distractions_blocked"`
	StreakDays          int `json:"streak_days"`
}

// CounterDelta is one accrual step applied atomically to a session's counters.
// Fields are additive; zero fields leave the counter untouched.
type CounterDelta struct {
	FocusSeconds        int
	IdleSeconds         int
	DistractionsBlocked int
}
