package idmap

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/finkg/kgconv/pkg/common"
	"github.com/finkg/kgconv/pkg/loader"
	"github.com/finkg/kgconv/pkg/logger"
)

// NameToID maps entity names to their local IDs within one entity type.
type NameToID map[string]int

// IDToName is the inverse of NameToID.
type IDToName map[int]string

// Mappings holds the name to local ID mapping of every entity type.
type Mappings map[common.EntityType]NameToID

// GlobalIDMap maps entity type -> local ID -> global ID.
type GlobalIDMap map[common.EntityType]map[int]int

// TypeMap maps global ID -> entity type.
type TypeMap map[int]common.EntityType

// Invert builds the local ID to name mapping. When two names share a local
// ID the lexicographically smaller name is kept so the result does not depend
// on map iteration order.
func Invert(m NameToID) IDToName {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	inv := make(IDToName, len(m))
	for _, name := range names {
		id := m[name]
		if _, taken := inv[id]; taken {
			continue
		}
		inv[id] = name
	}
	return inv
}

// InvertAll inverts the mapping of every entity type.
func InvertAll(m Mappings) map[common.EntityType]IDToName {
	inv := make(map[common.EntityType]IDToName, len(m))
	for t, names := range m {
		inv[t] = Invert(names)
	}
	return inv
}

// InvertNested turns entity type -> local -> global into
// entity type -> global -> local.
func InvertNested(m GlobalIDMap) GlobalIDMap {
	inv := make(GlobalIDMap, len(m))
	for t, locals := range m {
		byGlobal := make(map[int]int, len(locals))
		for local, global := range locals {
			byGlobal[global] = local
		}
		inv[t] = byGlobal
	}
	return inv
}

// Load reads one name to local ID mapping file.
func Load(ctx context.Context, file loader.InputFile) (NameToID, error) {
	var m NameToID
	if err := loader.ReadJSON(ctx, file, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = NameToID{}
	}
	return m, nil
}

// LoadOptional reads a mapping file and treats a missing file as an empty
// mapping, logging a warning.
func LoadOptional(ctx context.Context, file loader.InputFile) (NameToID, error) {
	m, err := Load(ctx, file)
	if errors.Is(err, loader.ErrNotFound) {
		logger.Warn("[IDMap] Mapping file not found", "path", file.FilePath)
		return NameToID{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load mapping %s: %w", file.FilePath, err)
	}
	return m, nil
}
