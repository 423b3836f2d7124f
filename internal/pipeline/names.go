package pipeline

import (
	"context"
	"fmt"

	"github.com/finkg/kgconv/internal/util"
	"github.com/finkg/kgconv/pkg/idmap"
	"github.com/finkg/kgconv/pkg/loader"
	"github.com/finkg/kgconv/pkg/loader/csv"
	"github.com/finkg/kgconv/pkg/logger"
	"github.com/finkg/kgconv/pkg/names"
)

// NamesOptions selects a CSV column holding stringified record lists and the
// extractor applied to each cell.
type NamesOptions struct {
	Input  string
	Column string
	Kind   string
	Output string
}

// ExtractNames builds a dense name to ID mapping from one CSV column. IDs
// follow the order in which names are first seen. Cells that cannot be
// parsed contribute nothing.
func (p *Pipeline) ExtractNames(ctx context.Context, opts NamesOptions) (idmap.NameToID, error) {
	extract, err := names.ExtractorFor(opts.Kind)
	if err != nil {
		return nil, err
	}

	csvLoader := csv.NewCSVLoader(p.cfg.Loader)
	file := loader.NewCSVFile(loader.NewInputFileParams{
		ID:       opts.Column,
		FilePath: opts.Input,
		Loader:   csvLoader,
	})

	cells, err := csvLoader.Column(ctx, file, opts.Column)
	if err != nil {
		return nil, err
	}

	mapping := make(idmap.NameToID)
	skipped := 0
	for _, cell := range cells {
		records := names.ParseList(cell)
		if records == nil {
			skipped++
			continue
		}
		for _, name := range extract(records) {
			if _, ok := mapping[name]; ok {
				continue
			}
			mapping[name] = len(mapping)
		}
	}

	data, err := idmap.EncodeNameToID(mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", opts.Output, err)
	}
	if err := util.WriteFile(opts.Output, data); err != nil {
		return nil, err
	}

	logger.Info("[Names] Wrote name mapping",
		"kind", opts.Kind,
		"column", opts.Column,
		"rows", len(cells),
		"skipped", skipped,
		"names", len(mapping),
		"path", opts.Output,
	)
	return mapping, nil
}
