package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/finkg/kgconv/pkg/common"
	"github.com/finkg/kgconv/pkg/loader"
	"github.com/finkg/kgconv/pkg/logger"
)

// LoadEdgeIndex reads a 2xN edge file: row 0 holds head local IDs, row 1
// tail local IDs.
func LoadEdgeIndex(ctx context.Context, file loader.InputFile) (common.EdgeIndex, error) {
	var rows [][]int
	if err := loader.ReadJSON(ctx, file, &rows); err != nil {
		return common.EdgeIndex{}, err
	}
	if len(rows) != 2 {
		return common.EdgeIndex{}, fmt.Errorf("edge file %s: expected 2 rows, got %d", file.FilePath, len(rows))
	}
	return common.EdgeIndex{Heads: rows[0], Tails: rows[1]}, nil
}

// LoadEdgeIndexOptional is LoadEdgeIndex with a missing file treated as an
// empty edge list and logged as a warning.
func LoadEdgeIndexOptional(ctx context.Context, file loader.InputFile) (common.EdgeIndex, error) {
	edges, err := LoadEdgeIndex(ctx, file)
	if errors.Is(err, loader.ErrNotFound) {
		logger.Warn("[Graph] Edge file not found", "path", file.FilePath)
		return common.EdgeIndex{}, nil
	}
	if err != nil {
		return common.EdgeIndex{}, err
	}
	return edges, nil
}
