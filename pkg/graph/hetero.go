package graph

import (
	"encoding/json"

	"github.com/finkg/kgconv/pkg/common"
	"github.com/finkg/kgconv/pkg/idmap"
)

// HeteroGraph groups global edges by (head type, relation, tail type).
// Keys are kept in order of first appearance.
type HeteroGraph struct {
	Keys  []common.EdgeKey
	Edges map[common.EdgeKey]*common.EdgeIndex
}

// BuildHeteroGraph groups global triples into typed edge sets using the
// reverse type lookup. Pairs keep their input order within a group. A global
// ID without a type fails with a *common.GlobalLookupError.
func BuildHeteroGraph(triples []common.GlobalTriple, types idmap.TypeMap) (*HeteroGraph, error) {
	g := &HeteroGraph{Edges: make(map[common.EdgeKey]*common.EdgeIndex)}

	for _, tr := range triples {
		headType, ok := types[tr.Head]
		if !ok {
			return nil, &common.GlobalLookupError{GlobalID: tr.Head}
		}
		tailType, ok := types[tr.Tail]
		if !ok {
			return nil, &common.GlobalLookupError{GlobalID: tr.Tail}
		}

		key := common.EdgeKey{HeadType: headType, Relation: tr.Relation, TailType: tailType}
		edges, ok := g.Edges[key]
		if !ok {
			edges = &common.EdgeIndex{}
			g.Edges[key] = edges
			g.Keys = append(g.Keys, key)
		}
		edges.Append(tr.Head, tr.Tail)
	}

	return g, nil
}

// NumEdges returns the number of edges over all typed edge sets.
func (g *HeteroGraph) NumEdges() int {
	n := 0
	for _, e := range g.Edges {
		n += e.Len()
	}
	return n
}

type heteroEdgeSet struct {
	HeadType  common.EntityType `json:"head_type"`
	Relation  string            `json:"relation"`
	TailType  common.EntityType `json:"tail_type"`
	EdgeIndex [2][]int          `json:"edge_index"`
}

// MarshalJSON renders the edge sets as a list in key order, each with a 2xN
// edge_index.
func (g *HeteroGraph) MarshalJSON() ([]byte, error) {
	sets := make([]heteroEdgeSet, 0, len(g.Keys))
	for _, k := range g.Keys {
		e := g.Edges[k]
		sets = append(sets, heteroEdgeSet{
			HeadType:  k.HeadType,
			Relation:  k.Relation,
			TailType:  k.TailType,
			EdgeIndex: [2][]int{e.Heads, e.Tails},
		})
	}
	return json.Marshal(sets)
}
