package calculator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"learnmint-calculator/internal/expr"
	"learnmint-calculator/internal/history"
	"learnmint-calculator/internal/locale"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long an untouched session stays in memory.
const DefaultSessionTTL = 30 * time.Minute

// Session is one calculator plus the lock that serialises its key presses.
type Session struct {
	ID string

	mu       sync.Mutex
	calc     *Calculator
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's calculator.
func (s *Session) Do(fn func(c *Calculator) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.calc)
}

// SessionConfig configures a SessionManager.
type SessionConfig struct {
	Store       history.Store
	Localizer   *locale.Localizer
	Logger      *zap.Logger
	Metrics     *Metrics
	DefaultMode expr.AngleMode
	TTL         time.Duration
}

// SessionManager owns the in-memory calculator sessions. Each session's
// ledger is persisted under history.DefaultKey + ":" + id, so a session
// recreated with the same id gets its history back.
type SessionManager struct {
	cfg SessionConfig
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager(cfg SessionConfig) *SessionManager {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Localizer == nil {
		cfg.Localizer = locale.New("en")
	}
	if cfg.Store == nil {
		cfg.Store = history.NewMemoryStore()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}

	return &SessionManager{
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// HistoryKey is the store key of a session's ledger.
func HistoryKey(id string) string {
	return history.DefaultKey + ":" + id
}

// Create returns the session for id, creating it when absent. An empty id
// creates a session with a fresh UUID; mode overrides the default angle
// mode for new sessions.
func (m *SessionManager) Create(ctx context.Context, id string, mode *expr.AngleMode) (*Session, error) {
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.lastSeen = m.now()
		return s, nil
	}

	logger := m.cfg.Logger.With(zap.String("session_id", id))

	ledger, err := history.Open(ctx, m.cfg.Store, HistoryKey(id), logger)
	if err != nil {
		return nil, err
	}

	angle := m.cfg.DefaultMode
	if mode != nil {
		angle = *mode
	}

	s := &Session{
		ID:       id,
		calc:     New(ledger, m.cfg.Localizer, logger, angle),
		lastSeen: m.now(),
	}
	m.sessions[id] = s

	if m.cfg.Metrics != nil {
		m.cfg.Metrics.activeSessions.Add(ctx, 1)
	}
	logger.Info("calculator session created", zap.Int("history_entries", ledger.Len()))

	return s, nil
}

// Get returns a live session and marks it as used.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	s.lastSeen = m.now()
	return s, nil
}

// Delete drops a session from memory. Its persisted history is kept.
func (m *SessionManager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)

	if m.cfg.Metrics != nil {
		m.cfg.Metrics.activeSessions.Add(ctx, -1)
	}
	return nil
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were dropped.
func (m *SessionManager) Sweep(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.cfg.TTL)
	n := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}

	if n > 0 {
		if m.cfg.Metrics != nil {
			m.cfg.Metrics.activeSessions.Add(ctx, int64(-n))
		}
		m.cfg.Logger.Info("expired idle calculator sessions", zap.Int("count", n))
	}
	return n
}

// Run sweeps idle sessions every half TTL until ctx is done.
func (m *SessionManager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.TTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}
