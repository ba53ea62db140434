package services

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"graphscope/backend/internal/graph"
	apperrors "graphscope/backend/pkg/errors"
)

type nilProvider struct{}

func (nilProvider) FetchNeighborhood(ctx context.Context, nodeURI string) (*graph.Neighborhood, error) {
	return &graph.Neighborhood{
		Center:        graph.GraphNode{URI: nodeURI, Label: nodeURI},
		Relationships: graph.NewRelationshipBag(),
	}, nil
}

func TestSessionManager_CreateAndGet(t *testing.T) {
	sm := NewSessionManager(nilProvider{}, time.Hour, zap.NewNop())

	session := sm.Create()
	if session.ID == "" || session.Controller == nil {
		t.Fatalf("incomplete session: %+v", session)
	}

	got, err := sm.Get(session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != session {
		t.Error("Get returned a different session")
	}
	if sm.Count() != 1 {
		t.Errorf("expected 1 session, got %d", sm.Count())
	}
}

func TestSessionManager_UnknownSession(t *testing.T) {
	sm := NewSessionManager(nilProvider{}, time.Hour, zap.NewNop())

	_, err := sm.Get("nope")
	if !apperrors.IsSessionNotFound(err) {
		t.Errorf("expected session-not-found, got %v", err)
	}
	if err := sm.Close("nope"); !apperrors.IsSessionNotFound(err) {
		t.Errorf("Close of unknown session: expected session-not-found, got %v", err)
	}
}

func TestSessionManager_Close(t *testing.T) {
	sm := NewSessionManager(nilProvider{}, time.Hour, zap.NewNop())
	session := sm.Create()

	if err := sm.Close(session.ID); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := sm.Get(session.ID); !apperrors.IsSessionNotFound(err) {
		t.Errorf("closed session still resolvable: %v", err)
	}
}

func TestSessionManager_SweepIdle(t *testing.T) {
	sm := NewSessionManager(nilProvider{}, 10*time.Millisecond, zap.NewNop())
	stale := sm.Create()
	fresh := sm.Create()

	time.Sleep(20 * time.Millisecond)
	fresh.Touch()

	if dropped := sm.SweepIdle(); dropped != 1 {
		t.Fatalf("expected 1 swept session, got %d", dropped)
	}
	if _, err := sm.Get(stale.ID); !apperrors.IsSessionNotFound(err) {
		t.Error("stale session survived the sweep")
	}
	if _, err := sm.Get(fresh.ID); err != nil {
		t.Errorf("fresh session swept: %v", err)
	}
}
