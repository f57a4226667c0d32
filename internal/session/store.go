package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store keeps the live sessions of the HTTP surface, keyed by ID.
// Sessions idle longer than idleTimeout are discarded by Sweep.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	logger      *zap.Logger
}

func NewStore(idleTimeout time.Duration, logger *zap.Logger) *Store {
	return &Store{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		logger:      logger,
	}
}

// Get returns the session with the given ID, if it is still live.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if ok {
		s.Touch(time.Now())
	}
	return s, ok
}

// Exists reports whether id names a live session without touching it.
func (st *Store) Exists(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	return ok
}

// Create starts a new session and registers it.
func (st *Store) Create() *Session {
	s := New()

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	st.logger.Debug("session started", zap.String("session_id", s.ID))
	return s
}

// Delete ends a session. Deleting an unknown ID is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep discards sessions idle since before now-idleTimeout and returns how many were removed.
func (st *Store) Sweep(now time.Time) int {
	if st.idleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-st.idleTimeout)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.LastUsed().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := st.Sweep(now); n > 0 {
				st.logger.Info("expired idle sessions", zap.Int("count", n))
			}
		}
	}
}
