package kge

import (
	"github.com/finkg/kgconv/pkg/common"
	"github.com/finkg/kgconv/pkg/idmap"
)

// Resolver maps global IDs back to entity names through the type map, the
// inverted global ID map and the per-type ID to name tables.
type Resolver struct {
	types  idmap.TypeMap
	locals idmap.GlobalIDMap
	names  map[common.EntityType]idmap.IDToName
}

// NewResolver builds a resolver. globalIDs is the type -> local -> global
// map and is inverted once here.
func NewResolver(types idmap.TypeMap, globalIDs idmap.GlobalIDMap, names map[common.EntityType]idmap.IDToName) *Resolver {
	return &Resolver{
		types:  types,
		locals: idmap.InvertNested(globalIDs),
		names:  names,
	}
}

type endpoint struct {
	typ   common.EntityType
	local int
	name  string
	ok    bool
}

func (r *Resolver) lookup(global int) endpoint {
	e := endpoint{local: -1}
	t, ok := r.types[global]
	if !ok {
		return e
	}
	e.typ = t
	local, ok := r.locals[t][global]
	if !ok {
		return e
	}
	e.local = local
	e.name, e.ok = r.names[t][local]
	return e
}

// Resolve turns one global triple into a named triple. If either end cannot
// be resolved it returns a *common.ResolveError describing both ends. An
// unknown type is reported as empty and an unknown local ID as -1.
func (r *Resolver) Resolve(tr common.GlobalTriple) (common.NamedTriple, error) {
	head := r.lookup(tr.Head)
	tail := r.lookup(tr.Tail)
	if !head.ok || !tail.ok {
		return common.NamedTriple{}, &common.ResolveError{
			Triple:    tr,
			HeadType:  head.typ,
			HeadLocal: head.local,
			TailType:  tail.typ,
			TailLocal: tail.local,
		}
	}
	return common.NamedTriple{Head: head.name, Relation: tr.Relation, Tail: tail.name}, nil
}

// ResolveAll resolves every triple in order and stops at the first failure.
func (r *Resolver) ResolveAll(triples []common.GlobalTriple) ([]common.NamedTriple, error) {
	out := make([]common.NamedTriple, 0, len(triples))
	for _, tr := range triples {
		named, err := r.Resolve(tr)
		if err != nil {
			return nil, err
		}
		out = append(out, named)
	}
	return out, nil
}
