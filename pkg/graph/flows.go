package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/yarrow/pkg/logging"
	"github.com/Ramsey-B/yarrow/pkg/models"
	"github.com/Ramsey-B/yarrow/pkg/tracing"
)

// FlowService projects trafficking flows onto the graph as
// (:State)-[:TRAFFICKED_TO {count}]->(:State). Southwest border
// destinations become a single (:Border {code: 'SWB'}) node.
type FlowService struct {
	client *Client
	logger logging.Logger
}

// NewFlowService creates a new flow service
func NewFlowService(client *Client, logger logging.Logger) *FlowService {
	return &FlowService{
		client: client,
		logger: logger,
	}
}

type corridor struct {
	source string
	dest   string
}

// SyncFlows aggregates flows into corridors and upserts each corridor's
// edge with its observation count. Counts are SET, not incremented, so a
// re-sync of the same flows is idempotent.
func (s *FlowService) SyncFlows(ctx context.Context, flows []models.TraffickingFlow) error {
	ctx, span := tracing.StartSpan(ctx, "graph.FlowService.SyncFlows")
	defer span.End()

	counts := make(map[corridor]int)
	var order []corridor
	for _, flow := range flows {
		key := corridor{source: flow.Origin, dest: flow.Destination}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	stateCypher := `
		MERGE (from:State {code: $source})
		MERGE (to:State {code: $dest})
		MERGE (from)-[r:TRAFFICKED_TO]->(to)
		SET r.count = $count
	`
	borderCypher := `
		MERGE (from:State {code: $source})
		MERGE (to:Border {code: $dest})
		MERGE (from)-[r:TRAFFICKED_TO]->(to)
		SET r.count = $count
	`

	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, key := range order {
			cypher := stateCypher
			if key.dest == models.SWBDestination {
				cypher = borderCypher
			}
			result, err := tx.Run(ctx, cypher, map[string]any{
				"source": key.source,
				"dest":   key.dest,
				"count":  counts[key],
			})
			if err != nil {
				return nil, err
			}
			if _, err := result.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to sync trafficking flows to graph")
		return err
	}

	s.logger.WithContext(ctx).WithField("corridors", len(order)).Info("Synced trafficking flows to graph")
	return nil
}
