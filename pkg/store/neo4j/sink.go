package neo4j

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/finkg/kgconv/pkg/common"
	"github.com/finkg/kgconv/pkg/graph"
	"github.com/finkg/kgconv/pkg/logger"
)

// EntityLabel is carried by every node the sink creates, so a reload can
// remove exactly what a previous load wrote.
const EntityLabel = "KGEntity"

const defaultBatchSize = 1000

// Entity is one node to create. Label is the entity class and must be a
// valid Cypher identifier.
type Entity struct {
	GlobalID int
	Type     common.EntityType
	Label    string
	LocalID  int
	Name     string
}

// GraphSink loads named entities and typed edges into a property graph.
type GraphSink struct {
	exec      QueryExecutor
	batchSize int
}

type GraphSinkOption func(*GraphSink)

func WithBatchSize(n int) GraphSinkOption {
	return func(s *GraphSink) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

func NewGraphSink(exec QueryExecutor, opts ...GraphSinkOption) *GraphSink {
	s := &GraphSink{exec: exec, batchSize: defaultBatchSize}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// RelationshipType converts a relation name such as hasSymbol to HAS_SYMBOL.
func RelationshipType(relation string) string {
	var b strings.Builder
	for i, r := range relation {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		if r == '-' || r == ' ' {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// Replace removes every node labelled KGEntity and recreates all entities
// and edges.
func (s *GraphSink) Replace(ctx context.Context, entities []Entity, g *graph.HeteroGraph) error {
	if _, err := s.exec.ExecuteQuery(ctx,
		fmt.Sprintf("CREATE INDEX kg_entity_global_id IF NOT EXISTS FOR (n:%s) ON (n.global_id)", EntityLabel), nil); err != nil {
		logger.Warn("[Neo4j] Failed to create index", "err", err)
	}

	if _, err := s.exec.ExecuteQuery(ctx, fmt.Sprintf("MATCH (n:%s) DETACH DELETE n", EntityLabel), nil); err != nil {
		return fmt.Errorf("failed to clear graph: %w", err)
	}

	byLabel := make(map[string][]map[string]any)
	var labels []string
	for _, e := range entities {
		if !validIdentifier(e.Label) {
			return fmt.Errorf("invalid node label %q for entity type %s", e.Label, e.Type)
		}
		if _, ok := byLabel[e.Label]; !ok {
			labels = append(labels, e.Label)
		}
		byLabel[e.Label] = append(byLabel[e.Label], map[string]any{
			"global_id":   int64(e.GlobalID),
			"entity_type": string(e.Type),
			"local_id":    int64(e.LocalID),
			"name":        e.Name,
		})
	}

	for _, label := range labels {
		query := fmt.Sprintf(
			"UNWIND $rows AS row CREATE (n:%s:%s) SET n = row",
			EntityLabel, label,
		)
		if err := s.batched(ctx, query, byLabel[label]); err != nil {
			return fmt.Errorf("failed to create %s nodes: %w", label, err)
		}
		logger.Info("[Neo4j] Created nodes", "label", label, "count", len(byLabel[label]))
	}

	if g == nil {
		return nil
	}
	for _, key := range g.Keys {
		relType := RelationshipType(key.Relation)
		if !validIdentifier(relType) {
			return fmt.Errorf("invalid relationship type %q", relType)
		}
		edges := g.Edges[key]
		rows := make([]map[string]any, 0, edges.Len())
		for i := range edges.Len() {
			rows = append(rows, map[string]any{
				"head": int64(edges.Heads[i]),
				"tail": int64(edges.Tails[i]),
			})
		}

		query := fmt.Sprintf(
			"UNWIND $rows AS row MATCH (h:%s {global_id: row.head}) MATCH (t:%s {global_id: row.tail}) CREATE (h)-[:%s]->(t)",
			EntityLabel, EntityLabel, relType,
		)
		if err := s.batched(ctx, query, rows); err != nil {
			return fmt.Errorf("failed to create %s edges: %w", key, err)
		}
		logger.Info("[Neo4j] Created relationships", "key", key.String(), "count", len(rows))
	}

	return nil
}

func (s *GraphSink) batched(ctx context.Context, query string, rows []map[string]any) error {
	for start := 0; start < len(rows); start += s.batchSize {
		end := min(start+s.batchSize, len(rows))
		batch := make([]any, 0, end-start)
		for _, r := range rows[start:end] {
			batch = append(batch, r)
		}
		if _, err := s.exec.ExecuteQuery(ctx, query, map[string]any{"rows": batch}); err != nil {
			return err
		}
	}
	return nil
}
