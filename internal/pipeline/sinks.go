package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/finkg/kgconv/pkg/common"
	"github.com/finkg/kgconv/pkg/idmap"
	"github.com/finkg/kgconv/pkg/logger"
	"github.com/finkg/kgconv/pkg/store/neo4j"
	"github.com/finkg/kgconv/pkg/store/pgx"
)

// ExportPostgres replaces the content of the Postgres sink with the global ID
// space and the global triples.
func (p *Pipeline) ExportPostgres(ctx context.Context, sink *pgx.GraphSink, data *GlobalData) error {
	if data == nil {
		loaded, err := p.LoadGlobalData(ctx)
		if err != nil {
			return err
		}
		data = loaded
	}

	mappings, err := p.loadMappings(ctx, "Postgres")
	if err != nil {
		return err
	}

	rows := pgx.EntityRows(data.GlobalIDs, idmap.InvertAll(mappings))
	if err := sink.Replace(ctx, rows, data.Triples); err != nil {
		return fmt.Errorf("failed to load postgres sink: %w", err)
	}

	logger.Info("[Postgres] Loaded graph", "entities", len(rows), "triples", len(data.Triples))
	return nil
}

// ExportNeo4j replaces the content of the graph database with named
// entities and typed relationships.
func (p *Pipeline) ExportNeo4j(ctx context.Context, sink *neo4j.GraphSink, data *GlobalData) error {
	if data == nil {
		loaded, err := p.LoadGlobalData(ctx)
		if err != nil {
			return err
		}
		data = loaded
	}

	mappings, err := p.loadMappings(ctx, "Neo4j")
	if err != nil {
		return err
	}
	entities := p.neo4jEntities(data, idmap.InvertAll(mappings))

	if err := sink.Replace(ctx, entities, data.Hetero); err != nil {
		return fmt.Errorf("failed to load graph database: %w", err)
	}

	logger.Info("[Neo4j] Loaded graph", "entities", len(entities), "edges", data.Hetero.NumEdges())
	return nil
}

// neo4jEntities lists all entities ordered by global ID. The node label is
// the manifest class of the entity type.
func (p *Pipeline) neo4jEntities(data *GlobalData, names map[common.EntityType]idmap.IDToName) []neo4j.Entity {
	var entities []neo4j.Entity
	for t, locals := range data.GlobalIDs {
		label := string(t)
		if e, ok := p.cfg.Manifest.Entity(t); ok {
			label = e.Class
		}
		for local, global := range locals {
			entities = append(entities, neo4j.Entity{
				GlobalID: global,
				Type:     t,
				Label:    label,
				LocalID:  local,
				Name:     names[t][local],
			})
		}
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].GlobalID < entities[j].GlobalID })
	return entities
}
