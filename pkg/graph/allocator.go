package graph

import (
	"fmt"
	"sort"

	"github.com/finkg/kgconv/pkg/common"
	"github.com/finkg/kgconv/pkg/idmap"
	"github.com/finkg/kgconv/pkg/logger"
)

// IDSpace is the global ID space of one conversion run. It is derived from
// the per-type mappings and the type order and is never persisted on its own.
type IDSpace struct {
	Order     []common.EntityType
	GlobalIDs idmap.GlobalIDMap
	Types     idmap.TypeMap
	Offsets   map[common.EntityType]int
}

// BuildGlobalIDMap walks the entity types in order with a running offset that
// starts at 0. Every (name, local ID) pair of a type gets the global ID
// offset + local ID, and the offset then advances by the number of entries of
// that type. Types without a mapping contribute zero entries.
//
// Local IDs of one type must be unique and dense for the resulting global IDs
// to be unique. Overlaps are not detected.
func BuildGlobalIDMap(mappings idmap.Mappings, order []common.EntityType) (*IDSpace, error) {
	space := &IDSpace{
		Order:     append([]common.EntityType(nil), order...),
		GlobalIDs: make(idmap.GlobalIDMap, len(order)),
		Types:     make(idmap.TypeMap),
		Offsets:   make(map[common.EntityType]int, len(order)),
	}

	offset := 0
	for _, t := range order {
		if _, dup := space.Offsets[t]; dup {
			return nil, fmt.Errorf("entity type %q listed twice in type order", t)
		}
		space.Offsets[t] = offset

		local := mappings[t]
		globals := make(map[int]int, len(local))

		names := make([]string, 0, len(local))
		for name := range local {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			global := offset + local[name]
			globals[local[name]] = global
			space.Types[global] = t
		}
		space.GlobalIDs[t] = globals

		logger.Debug("[Globalize] Allocated entity type", "type", t, "offset", offset, "count", len(local))
		offset += len(local)
	}

	return space, nil
}

// Size returns the first global ID not assigned to any type.
func (s *IDSpace) Size() int {
	if len(s.Order) == 0 {
		return 0
	}
	last := s.Order[len(s.Order)-1]
	return s.Offsets[last] + len(s.GlobalIDs[last])
}
