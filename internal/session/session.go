// Package session holds the per-user state of the quote tool: the set of
// quotes already produced, used to discourage the backend from repeating itself.
// Sessions live in memory only and are discarded when they end.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the explicit session context passed into every generation cycle.
type Session struct {
	ID        string
	CreatedAt time.Time

	// cycle serializes generation cycles of this session.
	cycle sync.Mutex

	mu       sync.Mutex
	lastUsed time.Time
	seen     map[string]struct{}
	order    []string // insertion order, so the joined history is stable
}

// New creates an empty session with a random ID.
func New() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		lastUsed:  now,
		seen:      make(map[string]struct{}),
	}
}

// Remember adds a quote to the prior-quotes set. It reports false when the
// exact text was already present; the set is unchanged in that case.
func (s *Session) Remember(quote string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[quote]; ok {
		return false
	}
	s.seen[quote] = struct{}{}
	s.order = append(s.order, quote)
	return true
}

// Contains reports whether quote is in the prior-quotes set.
func (s *Session) Contains(quote string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[quote]
	return ok
}

// Len returns the number of remembered quotes.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// PriorQuotes returns the remembered quotes joined with ", ", oldest first.
// limit > 0 keeps only the most recent limit entries; the set itself never shrinks.
func (s *Session) PriorQuotes(limit int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotes := s.order
	if limit > 0 && len(quotes) > limit {
		quotes = quotes[len(quotes)-limit:]
	}
	return strings.Join(quotes, ", ")
}

// Lock serializes generation cycles; the caller must call the returned unlock.
func (s *Session) Lock() (unlock func()) {
	s.cycle.Lock()
	return s.cycle.Unlock
}

// Touch marks the session as used now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

// LastUsed returns when the session was last touched.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
