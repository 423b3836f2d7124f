package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/finkg/kgconv/internal/util"
	"github.com/finkg/kgconv/pkg/common"
	"github.com/finkg/kgconv/pkg/graph"
	"github.com/finkg/kgconv/pkg/idmap"
	"github.com/finkg/kgconv/pkg/logger"
)

// GlobalData is the global ID space together with the global triples.
type GlobalData struct {
	GlobalIDs idmap.GlobalIDMap
	Types     idmap.TypeMap
	Triples   []common.GlobalTriple
	Hetero    *graph.HeteroGraph
}

// Globalize allocates global IDs over all entity types in manifest order,
// converts every relation's local edges into global triples and writes
// global_id.json, global_type_map.json, global_triples.json and
// hetero_graph.json.
func (p *Pipeline) Globalize(ctx context.Context) (*GlobalData, []string, error) {
	mappings, err := p.loadMappings(ctx, "Globalize")
	if err != nil {
		return nil, nil, err
	}

	space, err := graph.BuildGlobalIDMap(mappings, p.cfg.Manifest.Order())
	if err != nil {
		return nil, nil, err
	}
	if p.cfg.Metrics != nil {
		p.cfg.Metrics.SetGlobalIDs(space.Size())
	}
	logger.Info("[Globalize] Global ID space built", "size", space.Size(), "types", len(space.Order))

	relations, err := p.loadRelations(ctx)
	if err != nil {
		return nil, nil, err
	}

	triples, err := graph.BuildGlobalTriples(relations, space.GlobalIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build global triples: %w", err)
	}
	for _, r := range relations {
		p.recordEdges(r.Relation, "globalize", r.Edges.Len())
		logger.Info("[Globalize] Converted relation", "relation", r.Relation, "head", r.HeadType, "tail", r.TailType, "edges", r.Edges.Len())
	}

	hetero, err := graph.BuildHeteroGraph(triples, space.Types)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to group triples: %w", err)
	}

	data := &GlobalData{
		GlobalIDs: space.GlobalIDs,
		Types:     space.Types,
		Triples:   triples,
		Hetero:    hetero,
	}

	globalIDs, err := idmap.EncodeGlobalIDMap(data.GlobalIDs)
	if err != nil {
		return nil, nil, err
	}
	typeMap, err := idmap.EncodeTypeMap(data.Types)
	if err != nil {
		return nil, nil, err
	}
	tripleList, err := idmap.EncodeTriples(data.Triples)
	if err != nil {
		return nil, nil, err
	}
	heteroJSON, err := json.Marshal(hetero)
	if err != nil {
		return nil, nil, err
	}

	outputs := []struct {
		path string
		data []byte
	}{
		{filepath.Join(p.cfg.IDMappingDir, GlobalIDFile), globalIDs},
		{filepath.Join(p.cfg.IDMappingDir, GlobalTypeMapFile), typeMap},
		{filepath.Join(p.cfg.EdgeIndexDir, GlobalTriplesFile), tripleList},
		{filepath.Join(p.cfg.EdgeIndexDir, HeteroGraphFile), heteroJSON},
	}

	written := make([]string, 0, len(outputs))
	for _, o := range outputs {
		if err := util.WriteFile(o.path, o.data); err != nil {
			return nil, nil, err
		}
		written = append(written, o.path)
	}

	logger.Info("[Globalize] Wrote global maps", "triples", len(triples), "edge_sets", len(hetero.Keys))
	return data, written, nil
}

// LoadGlobalData reads the files written by Globalize. All three are
// required.
func (p *Pipeline) LoadGlobalData(ctx context.Context) (*GlobalData, error) {
	read := func(dir, name string) ([]byte, error) {
		file := p.jsonFile(name, dir, name)
		data, err := file.GetText(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file.FilePath, err)
		}
		return data, nil
	}

	raw, err := read(p.cfg.IDMappingDir, GlobalIDFile)
	if err != nil {
		return nil, err
	}
	globalIDs, err := idmap.DecodeGlobalIDMap(raw)
	if err != nil {
		return nil, err
	}

	raw, err = read(p.cfg.IDMappingDir, GlobalTypeMapFile)
	if err != nil {
		return nil, err
	}
	types, err := idmap.DecodeTypeMap(raw)
	if err != nil {
		return nil, err
	}

	raw, err = read(p.cfg.EdgeIndexDir, GlobalTriplesFile)
	if err != nil {
		return nil, err
	}
	triples, err := idmap.DecodeTriples(raw)
	if err != nil {
		return nil, err
	}

	hetero, err := graph.BuildHeteroGraph(triples, types)
	if err != nil {
		return nil, fmt.Errorf("failed to group triples: %w", err)
	}

	return &GlobalData{GlobalIDs: globalIDs, Types: types, Triples: triples, Hetero: hetero}, nil
}
