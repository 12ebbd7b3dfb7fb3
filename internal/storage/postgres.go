package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourname/focustracker/internal"
)

// Bootstrap DDL, applied at startup. No migration machinery beyond this.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	device_id TEXT NOT NULL,
	voice TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	goal TEXT NOT NULL,
	duration_minutes INT NOT NULL,
	categories TEXT[] NOT NULL DEFAULT '{}',
	voice TEXT NOT NULL DEFAULT '',
	started_at TIMESTAMPTZ NOT NULL,
	ended_at TIMESTAMPTZ,
	updated_at TIMESTAMPTZ,
	total_focus_seconds INT NOT NULL DEFAULT 0,
	total_idle_seconds INT NOT NULL DEFAULT 0,
	distractions_blocked INT NOT NULL DEFAULT 0,
	status TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_user_started ON sessions (user_id, started_at DESC);
CREATE TABLE IF NOT EXISTS activity_events (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	device TEXT NOT NULL DEFAULT '',
	app TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	idle BOOLEAN NOT NULL DEFAULT FALSE,
	decision TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL DEFAULT ''
);
`

const sessionColumns = `id, user_id, goal, duration_minutes, categories, voice, started_at, ended_at, updated_at, total_focus_seconds, total_idle_seconds, distractions_blocked, status`

type PostgresStore struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStore(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("postgres: failed to connect: %v", err)
		return nil, err
	}
	s := &PostgresStore{pool: pool, logger: logger}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		logger.Errorf("postgres: failed to bootstrap schema: %v", err)
		pool.Close()
		return nil, err
	}
	return s, nil
}

// --- UserRepository ---

func (p *PostgresStore) CreateUser(ctx context.Context, user *internal.User) (string, error) {
	id := uuid.NewString()
	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, device_id, voice) VALUES ($1, $2, $3, $4, $5)`,
		id, user.Name, user.Email, user.DeviceID, user.Voice)
	if err != nil {
		p.logger.Errorf("postgres: failed to insert user: %v", err)
		return "", err
	}
	user.ID = id
	return id, nil
}

// --- SessionRepository ---

func (p *PostgresStore) CreateSession(ctx context.Context, session *internal.Session) (string, error) {
	id := uuid.NewString()
	categories := session.Categories
	if categories == nil {
		categories = []string{}
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, goal, duration_minutes, categories, voice, started_at, total_focus_seconds, total_idle_seconds, distractions_blocked, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, session.UserID, session.Goal, session.DurationMinutes, categories, session.Voice,
		session.StartedAt, session.TotalFocusSeconds, session.TotalIdleSeconds, session.DistractionsBlocked, session.Status)
	if err != nil {
		p.logger.Errorf("postgres: failed to insert session: %v", err)
		return "", err
	}
	session.ID = id
	return id, nil
}

func (p *PostgresStore) GetSession(ctx context.Context, id string) (*internal.Session, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	return scanSession(row)
}

// IncrementCounters relies on a single UPDATE with in-place arithmetic, so
// concurrent accruals for the same session serialize inside the database.
func (p *PostgresStore) IncrementCounters(ctx context.Context, id string, delta internal.CounterDelta) (*internal.Session, error) {
	row := p.pool.QueryRow(ctx,
		`UPDATE sessions SET
			total_focus_seconds = total_focus_seconds + $2,
			total_idle_seconds = total_idle_seconds + $3,
			distractions_blocked = distractions_blocked + $4,
			updated_at = $5
		 WHERE id = $1
		 RETURNING `+sessionColumns,
		id, delta.FocusSeconds, delta.IdleSeconds, delta.DistractionsBlocked, time.Now().UTC())
	return scanSession(row)
}

func (p *PostgresStore) EndSession(ctx context.Context, id string, endedAt time.Time) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE sessions SET status = $2, ended_at = $3 WHERE id = $1`,
		id, internal.StatusEnded, endedAt)
	if err != nil {
		p.logger.Errorf("postgres: failed to end session %s: %v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrNotFound
	}
	return nil
}

func (p *PostgresStore) ListSessionsByUser(ctx context.Context, userID string, limit int) ([]internal.Session, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE user_id = $1 ORDER BY started_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		p.logger.Errorf("postgres: failed to query sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	sessions := []internal.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			p.logger.Errorf("postgres: failed to scan session: %v", err)
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// --- EventRepository ---

func (p *PostgresStore) AppendEvent(ctx context.Context, event *internal.ActivityEvent) (string, error) {
	id := uuid.NewString()
	_, err := p.pool.Exec(ctx,
		`INSERT INTO activity_events (id, session_id, user_id, occurred_at, device, app, url, title, idle, decision, reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, event.SessionID, event.UserID, event.Timestamp, event.Device,
		event.App, event.URL, event.Title, event.Idle, event.Decision, event.Reason)
	if err != nil {
		p.logger.Errorf("postgres: failed to insert activity event: %v", err)
		return "", err
	}
	event.ID = id
	return id, nil
}

// --- Diagnostics ---

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) Collections(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func scanSession(row pgx.Row) (*internal.Session, error) {
	var s internal.Session
	err := row.Scan(&s.ID, &s.UserID, &s.Goal, &s.DurationMinutes, &s.Categories, &s.Voice,
		&s.StartedAt, &s.EndedAt, &s.UpdatedAt,
		&s.TotalFocusSeconds, &s.TotalIdleSeconds, &s.DistractionsBlocked, &s.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, internal.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// --- Compile-time assertions ---
var _ Store = (*PostgresStore)(nil)
