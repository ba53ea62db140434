package inspector

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"graphscope/backend/internal/graph"
	"graphscope/backend/internal/navigate"
)

type staticProvider struct {
	neighborhoods map[string]*graph.Neighborhood
}

func (p *staticProvider) FetchNeighborhood(ctx context.Context, nodeURI string) (*graph.Neighborhood, error) {
	return p.neighborhoods[nodeURI], nil
}

func twoNodeWorld() *staticProvider {
	bagA := graph.NewRelationshipBag()
	bagA.Add("related_to", graph.Target{URI: "kb://b", Label: "B", Kind: graph.KindConcept})
	bagB := graph.NewRelationshipBag()
	bagB.Add("related_to", graph.Target{URI: "kb://a", Label: "A", Kind: graph.KindConcept})
	return &staticProvider{neighborhoods: map[string]*graph.Neighborhood{
		"kb://a": {Center: graph.GraphNode{URI: "kb://a", Label: "A", Kind: graph.KindConcept}, Relationships: bagA},
		"kb://b": {Center: graph.GraphNode{URI: "kb://b", Label: "B", Kind: graph.KindConcept}, Relationships: bagB},
	}}
}

func TestRows_CenteredFirstThenAdjacent(t *testing.T) {
	centered := &graph.GraphNode{URI: "kb://c", Label: "C", Kind: graph.KindConcept}
	adjacent := []graph.AdjacentNode{
		{GraphNode: graph.GraphNode{URI: "kb://x", Label: "X", Kind: graph.KindDefinition}, RelationType: "defined_by"},
		{GraphNode: graph.GraphNode{URI: "kb://y", Label: "Y", Kind: graph.KindSource}, RelationType: "sourced_from"},
	}

	rows := Rows(centered, adjacent)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].ID != "kb://c" || rows[0].RelationType != "" {
		t.Errorf("centered row wrong: %+v", rows[0])
	}
	if rows[1].RelationType != "defined_by" || rows[2].RelationType != "sourced_from" {
		t.Errorf("adjacency rows out of order: %+v", rows[1:])
	}
}

func TestRows_NoCenter(t *testing.T) {
	rows := Rows(nil, nil)
	if rows == nil || len(rows) != 0 {
		t.Errorf("expected empty rows without a center, got %v", rows)
	}
}

func TestSync_TracksRecenter(t *testing.T) {
	controller := navigate.NewController(twoNodeWorld(), zap.NewNop())
	sidebar := NewSync(controller)

	if len(sidebar.Rows()) != 0 {
		t.Error("sidebar should start empty")
	}

	if _, err := controller.Recenter(context.Background(), "kb://a"); err != nil {
		t.Fatalf("Recenter failed: %v", err)
	}

	rows := sidebar.Rows()
	if len(rows) != 2 || rows[0].Label != "A" || rows[1].Label != "B" {
		t.Errorf("sidebar rows wrong after recenter: %+v", rows)
	}
}

func TestSync_SelectNodeRecentersController(t *testing.T) {
	controller := navigate.NewController(twoNodeWorld(), zap.NewNop())
	sidebar := NewSync(controller)

	if _, err := controller.Recenter(context.Background(), "kb://a"); err != nil {
		t.Fatalf("Recenter failed: %v", err)
	}
	if err := sidebar.SelectNode(context.Background(), "kb://b"); err != nil {
		t.Fatalf("SelectNode failed: %v", err)
	}

	state := controller.State()
	if state.Centered == nil || state.Centered.URI != "kb://b" {
		t.Errorf("click did not recenter: %+v", state.Centered)
	}
	rows := sidebar.Rows()
	if rows[0].Label != "B" {
		t.Errorf("sidebar not updated from click: %+v", rows)
	}
}

func TestSync_RowsReturnsCopy(t *testing.T) {
	controller := navigate.NewController(twoNodeWorld(), zap.NewNop())
	sidebar := NewSync(controller)
	if _, err := controller.Recenter(context.Background(), "kb://a"); err != nil {
		t.Fatalf("Recenter failed: %v", err)
	}

	rows := sidebar.Rows()
	rows[0].Label = "mutated"
	if sidebar.Rows()[0].Label == "mutated" {
		t.Error("Rows leaked internal state")
	}
}
