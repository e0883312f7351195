package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/contract-analyzer/internal/application"
	domain "github.com/bryanwahyu/contract-analyzer/internal/domain/session"
)

// Store keeps dashboard sessions in process memory only.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	idle     time.Duration
	clock    application.Clock
	log      *zap.Logger
}

func NewStore(idle time.Duration, clock application.Clock, log *zap.Logger) *Store {
	if clock == nil {
		clock = application.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		sessions: make(map[string]*domain.Session),
		idle:     idle,
		clock:    clock,
		log:      log,
	}
}

// Create starts a fresh session with a random ID.
func (s *Store) Create() *domain.Session {
	sess := domain.New(uuid.NewString(), s.clock.Now())

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.log.Debug("session created", zap.String("session", sess.ID))
	return sess
}

// Get returns the session and marks it as used.
func (s *Store) Get(id string) (*domain.Session, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		sess.Touch(s.clock.Now())
	}
	return sess, ok
}

// GetOrCreate returns the session for id, creating a new one when it is unknown.
func (s *Store) GetOrCreate(id string) (*domain.Session, bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	return s.Create(), true
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops idle sessions and returns how many were removed.
func (s *Store) Sweep() int {
	if s.idle <= 0 {
		return 0
	}
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.Expirable(now, s.idle) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Info("expired idle sessions", zap.Int("count", n), zap.Int("remaining", s.Len()))
			}
		}
	}
}
