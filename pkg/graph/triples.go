package graph

import (
	"fmt"

	"github.com/finkg/kgconv/pkg/common"
	"github.com/finkg/kgconv/pkg/idmap"
)

// BuildGlobalTriples converts local edge lists into global ID triples.
// Triples are emitted relation by relation in the given order and edge by
// edge within a relation.
//
// An edge whose head or tail local ID is missing from its type's mapping
// fails with a *common.LookupError. Edge rows of unequal length are an error.
func BuildGlobalTriples(relations []common.RelationEdges, globalIDs idmap.GlobalIDMap) ([]common.GlobalTriple, error) {
	total := 0
	for _, rel := range relations {
		if len(rel.Edges.Heads) != len(rel.Edges.Tails) {
			return nil, fmt.Errorf(
				"relation %s (%s -> %s): edge index rows differ in length (%d heads, %d tails)",
				rel.Relation, rel.HeadType, rel.TailType, len(rel.Edges.Heads), len(rel.Edges.Tails),
			)
		}
		total += rel.Edges.Len()
	}

	triples := make([]common.GlobalTriple, 0, total)
	for _, rel := range relations {
		heads := globalIDs[rel.HeadType]
		tails := globalIDs[rel.TailType]

		for i := range rel.Edges.Len() {
			h, ok := heads[rel.Edges.Heads[i]]
			if !ok {
				return nil, &common.LookupError{Type: rel.HeadType, LocalID: rel.Edges.Heads[i]}
			}
			t, ok := tails[rel.Edges.Tails[i]]
			if !ok {
				return nil, &common.LookupError{Type: rel.TailType, LocalID: rel.Edges.Tails[i]}
			}
			triples = append(triples, common.GlobalTriple{Head: h, Relation: rel.Relation, Tail: t})
		}
	}

	return triples, nil
}
