package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/finkg/kgconv/internal/util"
	"github.com/finkg/kgconv/pkg/idmap"
	"github.com/finkg/kgconv/pkg/kge"
	"github.com/finkg/kgconv/pkg/logger"
)

// ExportKGE resolves the global triples back to names and writes
// entities.dict, relations.dict and train.txt. When data is nil the global
// maps are read from the files written by Globalize. Any triple that cannot
// be resolved aborts the export with a *common.ResolveError.
func (p *Pipeline) ExportKGE(ctx context.Context, data *GlobalData) (*kge.Dataset, []string, error) {
	if data == nil {
		loaded, err := p.LoadGlobalData(ctx)
		if err != nil {
			return nil, nil, err
		}
		data = loaded
	}

	mappings, err := p.loadMappings(ctx, "KGE")
	if err != nil {
		return nil, nil, err
	}

	resolver := kge.NewResolver(data.Types, data.GlobalIDs, idmap.InvertAll(mappings))
	named, err := resolver.ResolveAll(data.Triples)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve triples: %w", err)
	}

	ds := kge.NewDataset(named)
	outputs := []struct {
		name  string
		write func(io.Writer) error
	}{
		{kge.EntitiesFile, ds.WriteEntities},
		{kge.RelationsFile, ds.WriteRelations},
		{kge.TrainFile, ds.WriteTrain},
	}

	written := make([]string, 0, len(outputs))
	for _, o := range outputs {
		path := filepath.Join(p.cfg.KGEOutputDir, o.name)
		if err := util.WriteFileFunc(path, o.write); err != nil {
			return nil, nil, err
		}
		written = append(written, path)
	}

	if p.cfg.Metrics != nil {
		p.cfg.Metrics.SetKGE(len(ds.Entities), len(ds.Relations), len(ds.Triples))
	}
	logger.Info("[KGE] Wrote dataset",
		"entities", len(ds.Entities),
		"relations", len(ds.Relations),
		"triples", len(ds.Triples),
		"dir", p.cfg.KGEOutputDir,
	)

	return ds, written, nil
}
