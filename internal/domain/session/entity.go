package session

import (
	"errors"
	"sync"
	"time"

	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
)

// ErrBusy is returned when an analysis is already running for the session.
var ErrBusy = errors.New("an analysis is already running for this session")

// Roles offered by the sidebar selector. The role is informational only.
var Roles = []string{"Project Manager", "Executive", "Admin"}

// DefaultRole is preselected for new sessions.
const DefaultRole = "Project Manager"

// Session owns the state of one dashboard user.
// All fields are guarded by mu; callers read through Snapshot.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	role       string
	apiKey     string
	result     *contract.AnalysisResult
	fileName   string
	analyzedAt time.Time
	lastSeen   time.Time
	busy       bool
}

// State is a consistent copy of the session fields.
type State struct {
	ID         string
	Role       string
	HasAPIKey  bool
	Result     *contract.AnalysisResult
	FileName   string
	AnalyzedAt time.Time
	Busy       bool
}

func New(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now, lastSeen: now, role: DefaultRole}
}

// Snapshot returns the current state. Result is shared, not copied; it is immutable.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:         s.ID,
		Role:       s.role,
		HasAPIKey:  s.apiKey != "",
		Result:     s.result,
		FileName:   s.fileName,
		AnalyzedAt: s.analyzedAt,
		Busy:       s.busy,
	}
}

// APIKey returns the key entered for this session.
func (s *Session) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey
}

// SetRole stores the selected role. Unknown roles are ignored.
func (s *Session) SetRole(role string) {
	for _, r := range Roles {
		if r == role {
			s.mu.Lock()
			s.role = role
			s.mu.Unlock()
			return
		}
	}
}

// SetAPIKey stores the key in memory. An empty key keeps the current one.
func (s *Session) SetAPIKey(key string) {
	if key == "" {
		return
	}
	s.mu.Lock()
	s.apiKey = key
	s.mu.Unlock()
}

// Begin marks the session busy and drops the previous result.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	s.result = nil
	s.fileName = ""
	s.analyzedAt = time.Time{}
	return nil
}

// Complete swaps in a new result in one step and clears busy.
func (s *Session) Complete(res *contract.AnalysisResult, fileName string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = res
	s.fileName = fileName
	s.analyzedAt = at
	s.busy = false
}

// Abort clears busy after a failed analysis; no result is kept.
func (s *Session) Abort() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Reset clears the result for a new analysis. Role and key survive.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = nil
	s.fileName = ""
	s.analyzedAt = time.Time{}
}

// Touch records activity for idle expiry.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// IdleSince reports how long the session has been unused at now.
func (s *Session) IdleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Expirable reports whether the session may be dropped; running sessions are kept.
func (s *Session) Expirable(now time.Time, idle time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.busy && now.Sub(s.lastSeen) > idle
}
