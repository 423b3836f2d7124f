package rdf

import (
	"sort"

	"github.com/finkg/kgconv/pkg/common"
	"github.com/finkg/kgconv/pkg/idmap"
	"github.com/finkg/kgconv/pkg/logger"
	"github.com/finkg/kgconv/pkg/schema"
)

// Builder turns ID mappings and local edge lists into an RDF graph laid out
// by the manifest.
type Builder struct {
	manifest *schema.Manifest
	graph    *Graph
}

// NewBuilder creates a builder with the rdf, rdfs and graph prefixes bound.
func NewBuilder(manifest *schema.Manifest) *Builder {
	g := NewGraph()
	g.Bind("graph", manifest.GraphNamespace)
	g.Bind("rdf", RDFNamespace)
	g.Bind("rdfs", RDFSNamespace)
	return &Builder{manifest: manifest, graph: g}
}

func (b *Builder) Graph() *Graph {
	return b.graph
}

// AddEntities adds one node per (type, name) with an rdf:type and an
// rdfs:label statement. It returns the number of entities processed.
func (b *Builder) AddEntities(t common.EntityType, names idmap.IDToName) int {
	entity, ok := b.manifest.Entity(t)
	if !ok {
		logger.Warn("[RDF] Entity type not declared in manifest", "type", t)
		return 0
	}
	class := b.manifest.ClassIRI(t)

	ids := make([]int, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		name := names[id]
		subject := EntityIRI(entity.Namespace, name)
		b.graph.Add(Statement{Subject: subject, Predicate: TypeIRI, Object: IRI(class)})
		b.graph.Add(Statement{Subject: subject, Predicate: LabelIRI, Object: Literal(name)})
	}

	return len(ids)
}

// AddEdges adds one statement per edge whose head and tail both resolve to a
// name. Unresolvable edges are skipped. Rows of unequal length are read up to
// the shorter one. It returns the number of edges added.
func (b *Builder) AddEdges(rel schema.Relation, edges common.EdgeIndex, heads, tails idmap.IDToName) int {
	head, ok := b.manifest.Entity(rel.Head)
	if !ok {
		logger.Warn("[RDF] Relation head type not declared in manifest", "relation", rel.Name, "type", rel.Head)
		return 0
	}
	tail, ok := b.manifest.Entity(rel.Tail)
	if !ok {
		logger.Warn("[RDF] Relation tail type not declared in manifest", "relation", rel.Name, "type", rel.Tail)
		return 0
	}
	if len(edges.Heads) != len(edges.Tails) {
		logger.Warn("[RDF] Edge rows differ in length, extra entries ignored",
			"relation", rel.Name, "heads", len(edges.Heads), "tails", len(edges.Tails))
	}

	predicate := b.manifest.PredicateIRI(rel.Name)
	count, skipped := 0, 0
	for i := range edges.Len() {
		headName, ok := heads[edges.Heads[i]]
		if !ok {
			skipped++
			continue
		}
		tailName, ok := tails[edges.Tails[i]]
		if !ok {
			skipped++
			continue
		}
		b.graph.Add(Statement{
			Subject:   EntityIRI(head.Namespace, headName),
			Predicate: predicate,
			Object:    IRI(EntityIRI(tail.Namespace, tailName)),
		})
		count++
	}

	if skipped > 0 {
		logger.Debug("[RDF] Skipped unresolved edges", "relation", rel.Name, "head", rel.Head, "tail", rel.Tail, "skipped", skipped)
	}
	return count
}
