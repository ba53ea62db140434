// Package services owns the lifecycle of explorer sessions: one
// navigation controller per connected explorer, keyed by session id.
package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"graphscope/backend/internal/graph"
	"graphscope/backend/internal/inspector"
	"graphscope/backend/internal/navigate"
	apperrors "graphscope/backend/pkg/errors"
)

// Session is one explorer's navigation context with its sidebar sync
type Session struct {
	ID         string
	Controller *navigate.Controller
	Inspector  *inspector.Sync

	mu       sync.Mutex
	lastSeen time.Time
}

// Touch records activity so the idle sweep keeps the session alive
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// SessionManager creates, resolves, and expires explorer sessions
type SessionManager struct {
	provider graph.NeighborhoodProvider
	logger   *zap.Logger
	idleTTL  time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager creates a session manager
func NewSessionManager(provider graph.NeighborhoodProvider, idleTTL time.Duration, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		provider: provider,
		logger:   logger,
		idleTTL:  idleTTL,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with its own idle navigation controller
func (sm *SessionManager) Create() *Session {
	controller := navigate.NewController(sm.provider, sm.logger)
	session := &Session{
		ID:         uuid.NewString(),
		Controller: controller,
		Inspector:  inspector.NewSync(controller),
		lastSeen:   time.Now(),
	}

	sm.mu.Lock()
	sm.sessions[session.ID] = session
	sm.mu.Unlock()

	sm.logger.Info("Explorer session created", zap.String("session_id", session.ID))
	return session
}

// Get resolves a session id, refreshing its idle clock
func (sm *SessionManager) Get(id string) (*Session, error) {
	sm.mu.Lock()
	session, ok := sm.sessions[id]
	sm.mu.Unlock()
	if !ok {
		return nil, apperrors.NewSessionNotFound(id)
	}
	session.Touch()
	return session, nil
}

// Close removes a session
func (sm *SessionManager) Close(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.sessions[id]; !ok {
		return apperrors.NewSessionNotFound(id)
	}
	delete(sm.sessions, id)
	sm.logger.Info("Explorer session closed", zap.String("session_id", id))
	return nil
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}

// SweepIdle removes sessions with no activity inside the idle TTL and
// returns how many were dropped
func (sm *SessionManager) SweepIdle() int {
	cutoff := time.Now().Add(-sm.idleTTL)

	sm.mu.Lock()
	defer sm.mu.Unlock()
	dropped := 0
	for id, session := range sm.sessions {
		if session.idleSince(cutoff) {
			delete(sm.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		sm.logger.Info("Idle sessions swept", zap.Int("dropped", dropped))
	}
	return dropped
}

// StartSweeper runs SweepIdle on an interval until stop is closed
func (sm *SessionManager) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sm.SweepIdle()
			case <-stop:
				return
			}
		}
	}()
}
