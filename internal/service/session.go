package service

import (
	"context"
	"time"

	"github.com/yourname/focustracker/internal"
	"github.com/yourname/focustracker/internal/storage"
)

// focusTickSeconds is the fixed accrual per relevant event. Clients poll
// roughly every 30 seconds; the engine trusts the cadence instead of
// measuring elapsed time between events.
const focusTickSeconds = 30

type StartSessionRequest struct {
	UserID          string   `json:"user_id" validate:"required"`
	Goal            string   `json:"goal" validate:"required"`
	DurationMinutes int      `json:"duration_minutes" validate:"required,gte=1,lte=480"`
	Categories      []string `json:"categories,omitempty"`
	Voice           string   `json:"voice,omitempty"`
}

type ActivityRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
	App       string `json:"app,omitempty"`
	URL       string `json:"url,omitempty"`
	Title     string `json:"title,omitempty"`
	Idle      bool   `json:"idle,omitempty"`
}

type EndSessionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

func ValidateStartSessionRequest(req *StartSessionRequest) error {
	return validate.Struct(req)
}

func ValidateActivityRequest(req *ActivityRequest) error {
	return validate.Struct(req)
}

func ValidateEndSessionRequest(req *EndSessionRequest) error {
	return validate.Struct(req)
}

// StartSession creates the session record: status active, counters zero,
// categories deduplicated keeping their first occurrence.
func StartSession(ctx context.Context, sessions storage.SessionRepository, req *StartSessionRequest) (*internal.Session, error) {
	voice := req.Voice
	if voice == "" {
		voice = internal.DefaultVoice
	}
	session := &internal.Session{
		UserID:          req.UserID,
		Goal:            req.Goal,
		DurationMinutes: req.DurationMinutes,
		Categories:      dedupeCategories(req.Categories),
		Voice:           voice,
		StartedAt:       time.Now().UTC(),
		Status:          internal.StatusActive,
	}
	id, err := sessions.CreateSession(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = id
	return session, nil
}

// RecordActivity classifies one observation against its session, appends the
// immutable event, and applies the counter accrual as a single store-level
// atomic increment. Events against an already-ended session are still
// accepted and keep accruing.
func RecordActivity(ctx context.Context, sessions storage.SessionRepository, events storage.EventRepository, req *ActivityRequest) (string, string, error) {
	session, err := sessions.GetSession(ctx, req.SessionID)
	if err != nil {
		return "", "", err
	}

	decision, reason := Classify(session.Goal, req.Title, req.URL, session.Categories)

	event := &internal.ActivityEvent{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Timestamp: time.Now().UTC(),
		Device:    internal.DefaultDevice,
		App:       req.App,
		URL:       req.URL,
		Title:     req.Title,
		Idle:      req.Idle,
		Decision:  decision,
		Reason:    reason,
	}
	if _, err := events.AppendEvent(ctx, event); err != nil {
		return "", "", err
	}

	// TODO: accrue total_idle_seconds from events with Idle set; the counter
	// exists on the session but nothing increments it yet.
	var delta internal.CounterDelta
	if decision == internal.DecisionIrrelevant {
		delta.DistractionsBlocked = 1
	} else {
		delta.FocusSeconds = focusTickSeconds
	}
	if _, err := sessions.IncrementCounters(ctx, req.SessionID, delta); err != nil {
		return "", "", err
	}
	return decision, reason, nil
}

// EndSession moves the session to its terminal state and stamps ended_at.
func EndSession(ctx context.Context, sessions storage.SessionRepository, sessionID string) error {
	return sessions.EndSession(ctx, sessionID, time.Now().UTC())
}

func dedupeCategories(categories []string) []string {
	deduped := []string{}
	seen := map[string]bool{}
	for _, c := range categories {
		if seen[c] {
			continue
		}
		seen[c] = true
		deduped = append(deduped, c)
	}
	return deduped
}
