package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"graphscope/backend/pkg/config"
	"graphscope/backend/pkg/logger"
)

// Seeds a small demo knowledge graph so the explorer has something to
// walk: a handful of concepts, their definitions, and sources of each
// subtype, connected with ranked, scored relationships.
func main() {
	wipe := flag.Bool("wipe", false, "Delete existing demo nodes before seeding")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting knowledge graph seeding...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	if *wipe {
		if _, err := session.Run(ctx, "MATCH (n:Node) WHERE n.uri STARTS WITH 'kb://' DETACH DELETE n", nil); err != nil {
			log.Fatal("Failed to wipe demo nodes", zap.Error(err))
		}
		log.Info("Existing demo nodes wiped")
	}

	if _, err := session.Run(ctx, seedQuery, nil); err != nil {
		log.Fatal("Failed to seed graph", zap.Error(err))
	}

	result, err := session.Run(ctx, "MATCH (n:Node) WHERE n.uri STARTS WITH 'kb://' RETURN count(n) AS total", nil)
	if err != nil {
		log.Fatal("Failed to count seeded nodes", zap.Error(err))
	}
	record, err := result.Single(ctx)
	if err != nil {
		log.Fatal("Failed to read node count", zap.Error(err))
	}
	total, _ := record.Get("total")

	log.Info("Knowledge graph seeded",
		zap.Any("nodes", total),
		zap.String("start_uri", "kb://concept/neural-networks"),
	)
}

const seedQuery = `
	MERGE (nn:Node {uri: 'kb://concept/neural-networks'})
		SET nn.label = 'Neural Networks', nn.kind = 'concept',
		    nn.definition = 'Computational models loosely inspired by biological neurons.'
	MERGE (bp:Node {uri: 'kb://concept/backpropagation'})
		SET bp.label = 'Backpropagation', bp.kind = 'concept'
	MERGE (gd:Node {uri: 'kb://concept/gradient-descent'})
		SET gd.label = 'Gradient Descent', gd.kind = 'concept'
	MERGE (cr:Node {uri: 'kb://concept/chain-rule'})
		SET cr.label = 'Chain Rule', cr.kind = 'concept'
	MERGE (att:Node {uri: 'kb://concept/attention'})
		SET att.label = 'Attention', att.kind = 'concept'

	MERGE (dnn:Node {uri: 'kb://definition/neural-networks'})
		SET dnn.label = 'Neural network (definition)', dnn.kind = 'definition',
		    dnn.definition = 'A layered composition of weighted sums and nonlinearities trained from data.'
	MERGE (dbp:Node {uri: 'kb://definition/backpropagation'})
		SET dbp.label = 'Backpropagation (definition)', dbp.kind = 'definition'

	MERGE (yt:Node {uri: 'kb://source/3b1b-nn'})
		SET yt.label = '3Blue1Brown: But what is a neural network?', yt.kind = 'source',
		    yt.source_subtype = 'youtube', yt.importance = 0.9
	MERGE (web:Node {uri: 'kb://source/colah-backprop'})
		SET web.label = 'Calculus on Computational Graphs', web.kind = 'source',
		    web.source_subtype = 'web_article', web.importance = 0.7
	MERGE (pdf:Node {uri: 'kb://source/attention-paper'})
		SET pdf.label = 'Attention Is All You Need', pdf.kind = 'source',
		    pdf.source_subtype = 'pdf', pdf.importance = 0.95
	MERGE (note:Node {uri: 'kb://source/lecture-notes'})
		SET note.label = 'Week 4 lecture notes', note.kind = 'source',
		    note.source_subtype = 'note', note.importance = 0.3

	MERGE (nn)-[r1:RELATED_TO]->(bp)   SET r1.rank = 0, r1.importance = 0.9
	MERGE (nn)-[r2:RELATED_TO]->(gd)   SET r2.rank = 1, r2.importance = 0.8
	MERGE (nn)-[r3:RELATED_TO]->(att)  SET r3.rank = 2, r3.importance = 0.6
	MERGE (nn)-[r4:DEFINED_BY]->(dnn)  SET r4.rank = 3
	MERGE (nn)-[r5:SOURCED_FROM]->(yt) SET r5.rank = 4, r5.importance = 0.9

	MERGE (bp)-[r6:RELATED_TO]->(cr)    SET r6.rank = 0, r6.importance = 0.85
	MERGE (bp)-[r7:RELATED_TO]->(gd)    SET r7.rank = 1, r7.importance = 0.75
	MERGE (bp)-[r8:DEFINED_BY]->(dbp)   SET r8.rank = 2
	MERGE (bp)-[r9:SOURCED_FROM]->(web) SET r9.rank = 3, r9.importance = 0.7

	MERGE (gd)-[r10:RELATED_TO]->(cr)     SET r10.rank = 0, r10.importance = 0.5
	MERGE (gd)-[r11:SOURCED_FROM]->(note) SET r11.rank = 1, r11.importance = 0.3

	MERGE (att)-[r12:SOURCED_FROM]->(pdf) SET r12.rank = 0, r12.importance = 0.95
`
