package graph

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	apperrors "graphscope/backend/pkg/errors"
	"graphscope/backend/pkg/logger"
)

// fetchBudget caps a collapsed neighborhood query. The shared fetch is
// detached from any single caller's context, so it needs its own bound.
const fetchBudget = 30 * time.Second

// NeighborhoodProvider resolves a node uri into its one-hop neighborhood
type NeighborhoodProvider interface {
	FetchNeighborhood(ctx context.Context, nodeURI string) (*Neighborhood, error)
}

// Repository handles all Neo4j database operations
type Repository struct {
	driver neo4j.DriverWithContext
	group  singleflight.Group
	logger *zap.Logger
	fetch  func(ctx context.Context, nodeURI string) (*Neighborhood, error)
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	r := &Repository{
		driver: driver,
		logger: logger.Get(),
	}
	r.fetch = r.fetchNeighborhood
	return r
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

const neighborhoodQuery = `
	MATCH (c:Node {uri: $uri})
	OPTIONAL MATCH (c)-[rel]->(t:Node)
	WITH c, rel, t
	ORDER BY coalesce(rel.rank, 0), type(rel), t.label
	RETURN
		c.uri AS uri,
		c.label AS label,
		c.definition AS definition,
		c.kind AS kind,
		c.source_subtype AS source_subtype,
		collect({
			type: type(rel),
			uri: t.uri,
			label: t.label,
			kind: t.kind,
			subtype: t.source_subtype,
			importance: coalesce(rel.importance, t.importance)
		}) AS relationships
`

// FetchNeighborhood retrieves a center node and its one-hop typed
// relationships. Concurrent fetches for the same uri are collapsed into
// a single query; every caller shares the resulting Neighborhood, which
// is treated as immutable downstream.
//
// The shared query runs detached from any single caller's context, so
// one caller backing out cannot fail the fetch for everyone still
// waiting on it. A caller whose own context ends before the result
// arrives gets a fetch failure; the query keeps running for the rest.
func (r *Repository) FetchNeighborhood(ctx context.Context, nodeURI string) (*Neighborhood, error) {
	ch := r.group.DoChan(nodeURI, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchBudget)
		defer cancel()
		return r.fetch(fetchCtx, nodeURI)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			r.logger.Debug("Neighborhood fetch collapsed", zap.String("uri", nodeURI))
		}
		return res.Val.(*Neighborhood), nil
	case <-ctx.Done():
		return nil, apperrors.NewFetchFailed(nodeURI, ctx.Err())
	}
}

func (r *Repository) fetchNeighborhood(ctx context.Context, nodeURI string) (*Neighborhood, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, neighborhoodQuery, map[string]interface{}{
		"uri": nodeURI,
	})
	if err != nil {
		return nil, classifyFetchError(nodeURI, err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, classifyFetchError(nodeURI, err)
		}
		return nil, apperrors.NewNodeNotFound(nodeURI)
	}

	record := result.Record()

	center := GraphNode{
		URI:           getString(record, "uri", nodeURI),
		Label:         getString(record, "label", ""),
		Definition:    getString(record, "definition", ""),
		Kind:          NodeKind(getString(record, "kind", "")),
		SourceSubtype: SourceSubtype(getString(record, "source_subtype", "")),
	}
	// A node with no label still has to render something
	if center.Label == "" {
		center.Label = center.URI
	}

	n := &Neighborhood{
		Center:        center,
		Relationships: decodeRelationships(record, r.logger, nodeURI),
	}

	r.logger.Debug("Neighborhood fetched",
		zap.String("uri", nodeURI),
		zap.Int("relation_types", n.Relationships.Len()),
		zap.Int("targets", n.Relationships.TargetCount()),
	)
	return n, nil
}

// decodeRelationships validates and normalizes the collected
// relationship entries. Malformed entries are dropped and logged,
// never propagated; a payload with no usable relationships yields an
// empty bag.
func decodeRelationships(record *neo4j.Record, log *zap.Logger, nodeURI string) *RelationshipBag {
	bag := NewRelationshipBag()

	raw, ok := record.Get("relationships")
	if !ok || raw == nil {
		return bag
	}
	list, ok := raw.([]interface{})
	if !ok {
		log.Warn("Malformed neighborhood payload",
			zap.Error(apperrors.NewMalformedNeighborhood(nodeURI, "relationships is not a list")))
		return bag
	}

	for _, entry := range list {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		relType := getStringFromMap(m, "type", "")
		label := getStringFromMap(m, "label", "")
		// OPTIONAL MATCH misses produce an all-null entry; anything
		// else without a type or label is unusable
		if relType == "" || label == "" {
			continue
		}
		bag.Add(relType, Target{
			URI:        getStringFromMap(m, "uri", ""),
			Label:      label,
			Kind:       NodeKind(getStringFromMap(m, "kind", "")),
			Subtype:    SourceSubtype(getStringFromMap(m, "subtype", "")),
			Importance: getFloatPtrFromMap(m, "importance"),
		})
	}
	return bag
}

func classifyFetchError(nodeURI string, err error) error {
	var neoErr *neo4j.Neo4jError
	if stderrors.As(err, &neoErr) && strings.HasPrefix(neoErr.Code, "Neo.ClientError.Security") {
		return apperrors.NewAuthRequired(err)
	}
	return apperrors.NewFetchFailed(nodeURI, err)
}
