package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourname/focustracker/internal"
)

// FileStore keeps everything in memory and persists each entity set to its
// own JSON file. Writes are debounced through per-file save workers; the
// mutex makes counter increments atomic within the process, which is the
// store-level guarantee this backend offers.
type FileStore struct {
	users            map[string]*internal.User
	sessions         map[string]*internal.Session
	userSessionIndex map[string][]*internal.Session // userID -> sessions, newest first
	events           map[string]*internal.ActivityEvent

	mu sync.RWMutex

	usersFile    string
	sessionsFile string
	eventsFile   string

	saveUsersChan    chan struct{}
	saveSessionsChan chan struct{}
	saveEventsChan   chan struct{}
	shutdownChan     chan struct{}
	saveDelay        time.Duration

	logger internal.Logger
}

func NewFileStore(usersFile, sessionsFile, eventsFile string, logger internal.Logger) (*FileStore, error) {
	s := &FileStore{
		users:            make(map[string]*internal.User),
		sessions:         make(map[string]*internal.Session),
		userSessionIndex: make(map[string][]*internal.Session),
		events:           make(map[string]*internal.ActivityEvent),
		usersFile:        usersFile,
		sessionsFile:     sessionsFile,
		eventsFile:       eventsFile,
		saveUsersChan:    make(chan struct{}, 1),
		saveSessionsChan: make(chan struct{}, 1),
		saveEventsChan:   make(chan struct{}, 1),
		shutdownChan:     make(chan struct{}),
		saveDelay:        500 * time.Millisecond,
		logger:           logger,
	}

	for _, f := range []string{usersFile, sessionsFile, eventsFile} {
		if dir := filepath.Dir(f); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
	}

	if err := s.loadUsers(); err != nil {
		logger.Errorf("storage: failed to load users: %v", err)
		return nil, err
	}
	if err := s.loadSessions(); err != nil {
		logger.Errorf("storage: failed to load sessions: %v", err)
		return nil, err
	}
	if err := s.loadEvents(); err != nil {
		logger.Errorf("storage: failed to load activity events: %v", err)
		return nil, err
	}

	go s.saveWorker(s.saveUsersChan, "users", s.saveUsers)
	go s.saveWorker(s.saveSessionsChan, "sessions", s.saveSessions)
	go s.saveWorker(s.saveEventsChan, "activity events", s.saveEvents)

	return s, nil
}

func decodeJSONFile[T any](path string) ([]*T, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var items []*T
	if err := json.NewDecoder(file).Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}

func (s *FileStore) loadUsers() error {
	users, err := decodeJSONFile[internal.User](s.usersFile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.ID] = u
	}
	return nil
}

func (s *FileStore) loadSessions() error {
	sessions, err := decodeJSONFile[internal.Session](s.sessionsFile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range sessions {
		s.sessions[sess.ID] = sess
		s.insertIntoIndexLocked(sess)
	}
	return nil
}

func (s *FileStore) loadEvents() error {
	events, err := decodeJSONFile[internal.ActivityEvent](s.eventsFile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		s.events[ev.ID] = ev
	}
	return nil
}

// insertIntoIndexLocked keeps the per-user slice ordered newest first.
func (s *FileStore) insertIntoIndexLocked(sess *internal.Session) {
	list := s.userSessionIndex[sess.UserID]
	inserted := false
	for i, existing := range list {
		if existing.StartedAt.Before(sess.StartedAt) {
			list = append(list[:i], append([]*internal.Session{sess}, list[i:]...)...)
			inserted = true
			break
		}
	}
	if !inserted {
		list = append(list, sess)
	}
	s.userSessionIndex[sess.UserID] = list
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStore) saveUsers() error {
	s.mu.RLock()
	users := make([]*internal.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.usersFile, users)
}

func (s *FileStore) saveSessions() error {
	s.mu.RLock()
	sessions := make([]*internal.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.sessionsFile, sessions)
}

func (s *FileStore) saveEvents() error {
	s.mu.RLock()
	events := make([]*internal.ActivityEvent, 0, len(s.events))
	for _, ev := range s.events {
		events = append(events, ev)
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.eventsFile, events)
}

// saveWorker batches save signals so bursts of writes hit the disk once.
func (s *FileStore) saveWorker(signal chan struct{}, label string, save func() error) {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-signal:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := save(); err != nil {
				s.logger.Errorf("storage: error saving %s: %v", label, err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func requestSave(signal chan struct{}) {
	select {
	case signal <- struct{}{}:
	default:
	}
}

// --- UserRepository ---

func (s *FileStore) CreateUser(ctx context.Context, user *internal.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := *user
	u.ID = uuid.NewString()
	s.users[u.ID] = &u
	user.ID = u.ID

	requestSave(s.saveUsersChan)
	return u.ID, nil
}

// --- SessionRepository ---

func (s *FileStore) CreateSession(ctx context.Context, session *internal.Session) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := *session
	sess.ID = uuid.NewString()
	s.sessions[sess.ID] = &sess
	s.insertIntoIndexLocked(&sess)
	session.ID = sess.ID

	requestSave(s.saveSessionsChan)
	return sess.ID, nil
}

func (s *FileStore) GetSession(ctx context.Context, id string) (*internal.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, internal.ErrNotFound
	}
	copied := *sess
	return &copied, nil
}

func (s *FileStore) IncrementCounters(ctx context.Context, id string, delta internal.CounterDelta) (*internal.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, internal.ErrNotFound
	}

	sess.TotalFocusSeconds += delta.FocusSeconds
	sess.TotalIdleSeconds += delta.IdleSeconds
	sess.DistractionsBlocked += delta.DistractionsBlocked
	now := time.Now().UTC()
	sess.UpdatedAt = &now

	requestSave(s.saveSessionsChan)
	copied := *sess
	return &copied, nil
}

func (s *FileStore) EndSession(ctx context.Context, id string, endedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return internal.ErrNotFound
	}

	sess.Status = internal.StatusEnded
	sess.EndedAt = &endedAt

	requestSave(s.saveSessionsChan)
	return nil
}

func (s *FileStore) ListSessionsByUser(ctx context.Context, userID string, limit int) ([]internal.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.userSessionIndex[userID]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	sessions := make([]internal.Session, len(list))
	for i, sess := range list {
		sessions[i] = *sess
	}
	return sessions, nil
}

// --- EventRepository ---

func (s *FileStore) AppendEvent(ctx context.Context, event *internal.ActivityEvent) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := *event
	ev.ID = uuid.NewString()
	s.events[ev.ID] = &ev
	event.ID = ev.ID

	requestSave(s.saveEventsChan)
	return ev.ID, nil
}

// --- Diagnostics ---

func (s *FileStore) Ping(ctx context.Context) error {
	return nil
}

func (s *FileStore) Collections(ctx context.Context) ([]string, error) {
	collections := []string{}
	for _, c := range []struct {
		name string
		path string
	}{
		{userCollection, s.usersFile},
		{sessionCollection, s.sessionsFile},
		{eventCollection, s.eventsFile},
	} {
		if _, err := os.Stat(c.path); err == nil {
			collections = append(collections, c.name)
		}
	}
	return collections, nil
}

// Close stops the background workers and saves pending data synchronously.
func (s *FileStore) Close() error {
	close(s.shutdownChan)

	if err := s.saveUsers(); err != nil {
		return err
	}
	if err := s.saveSessions(); err != nil {
		return err
	}
	return s.saveEvents()
}

// --- Compile-time assertions ---
var _ Store = (*FileStore)(nil)
