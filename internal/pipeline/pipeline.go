package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/finkg/kgconv/pkg/common"
	"github.com/finkg/kgconv/pkg/graph"
	"github.com/finkg/kgconv/pkg/idmap"
	"github.com/finkg/kgconv/pkg/loader"
	"github.com/finkg/kgconv/pkg/logger"
	"github.com/finkg/kgconv/pkg/metrics"
	"github.com/finkg/kgconv/pkg/schema"
)

const (
	GlobalIDFile      = "global_id.json"
	GlobalTypeMapFile = "global_type_map.json"
	GlobalTriplesFile = "global_triples.json"
	HeteroGraphFile   = "hetero_graph.json"

	TurtleFile   = "heterogeneous_graph.ttl"
	NTriplesFile = "heterogeneous_graph.nt"
)

// Config locates the inputs and outputs of a run. Inputs are read through
// Loader, outputs are always written to the local filesystem.
type Config struct {
	Manifest     *schema.Manifest
	Loader       loader.InputFileLoader
	IDMappingDir string
	EdgeIndexDir string
	RDFOutputDir string
	KGEOutputDir string
	Metrics      *metrics.Recorder
}

// Pipeline runs the conversion steps. Every step regenerates its outputs
// from scratch.
type Pipeline struct {
	cfg Config
}

func New(cfg Config) (*Pipeline, error) {
	if cfg.Manifest == nil {
		return nil, errors.New("pipeline: manifest is required")
	}
	if cfg.Loader == nil {
		return nil, errors.New("pipeline: loader is required")
	}
	return &Pipeline{cfg: cfg}, nil
}

func (p *Pipeline) jsonFile(id, dir, name string) loader.InputFile {
	return loader.NewJSONFile(loader.NewInputFileParams{
		ID:       id,
		FilePath: filepath.Join(dir, name),
		Loader:   p.cfg.Loader,
	})
}

// loadMappings reads the name to local ID mapping of every declared entity
// type. Missing files yield empty mappings.
func (p *Pipeline) loadMappings(ctx context.Context, stage string) (idmap.Mappings, error) {
	mappings := make(idmap.Mappings, len(p.cfg.Manifest.Entities))
	for _, e := range p.cfg.Manifest.Entities {
		m, err := idmap.LoadOptional(ctx, p.jsonFile(string(e.Name), p.cfg.IDMappingDir, e.MappingFile))
		if err != nil {
			return nil, err
		}
		mappings[e.Name] = m
		if p.cfg.Metrics != nil {
			p.cfg.Metrics.SetEntities(string(e.Name), len(m))
		}
		logger.Info(fmt.Sprintf("[%s] Loaded entity mapping", stage), "type", e.Name, "count", len(m))
	}
	return mappings, nil
}

// loadRelations reads the local edge list of every declared relation.
// Missing files yield empty edge lists.
func (p *Pipeline) loadRelations(ctx context.Context) ([]common.RelationEdges, error) {
	relations := make([]common.RelationEdges, 0, len(p.cfg.Manifest.Relations))
	for _, r := range p.cfg.Manifest.Relations {
		edges, err := graph.LoadEdgeIndexOptional(ctx, p.jsonFile(r.Name, p.cfg.EdgeIndexDir, r.EdgeFile))
		if err != nil {
			return nil, err
		}
		relations = append(relations, common.RelationEdges{
			Relation: r.Name,
			HeadType: r.Head,
			TailType: r.Tail,
			Edges:    edges,
		})
	}
	return relations, nil
}

func (p *Pipeline) recordEdges(relation, exporter string, n int) {
	if p.cfg.Metrics != nil {
		p.cfg.Metrics.AddEdges(relation, exporter, n)
	}
}
