package rdf

import (
	"sort"
	"strings"
)

const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"

	TypeIRI  = RDFNamespace + "type"
	LabelIRI = RDFSNamespace + "label"
)

// Term is an IRI or a plain string literal in object position.
type Term struct {
	Value   string
	Literal bool
}

func IRI(v string) Term     { return Term{Value: v} }
func Literal(v string) Term { return Term{Value: v, Literal: true} }

// Statement is one RDF triple. Subject and predicate are always IRIs.
type Statement struct {
	Subject   string
	Predicate string
	Object    Term
}

// Namespace binds a prefix to a namespace IRI for Turtle output.
type Namespace struct {
	Prefix string
	IRI    string
}

// Graph is an in-memory set of statements. Adding a statement twice has no
// effect.
type Graph struct {
	set        map[Statement]struct{}
	namespaces []Namespace
}

func NewGraph() *Graph {
	return &Graph{set: make(map[Statement]struct{})}
}

// Add inserts the statement and reports whether it was new.
func (g *Graph) Add(s Statement) bool {
	if _, ok := g.set[s]; ok {
		return false
	}
	g.set[s] = struct{}{}
	return true
}

// Bind registers a prefix for Turtle output. Rebinding a prefix replaces it.
func (g *Graph) Bind(prefix, iri string) {
	for i, ns := range g.namespaces {
		if ns.Prefix == prefix {
			g.namespaces[i].IRI = iri
			return
		}
	}
	g.namespaces = append(g.namespaces, Namespace{Prefix: prefix, IRI: iri})
}

func (g *Graph) Namespaces() []Namespace {
	return append([]Namespace(nil), g.namespaces...)
}

func (g *Graph) Len() int {
	return len(g.set)
}

// Statements returns all statements sorted by subject, predicate and object,
// with IRIs ordered before literals for equal object values.
func (g *Graph) Statements() []Statement {
	out := make([]Statement, 0, len(g.set))
	for s := range g.set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := strings.Compare(a.Subject, b.Subject); c != 0 {
			return c < 0
		}
		if c := strings.Compare(a.Predicate, b.Predicate); c != 0 {
			return c < 0
		}
		if a.Object.Literal != b.Object.Literal {
			return !a.Object.Literal
		}
		return a.Object.Value < b.Object.Value
	})
	return out
}

// Summary holds the statistics reported after an export.
type Summary struct {
	Triples    int
	Subjects   int
	Predicates int
	Objects    int
}

func (g *Graph) Summary() Summary {
	subjects := make(map[string]struct{})
	predicates := make(map[string]struct{})
	objects := make(map[Term]struct{})
	for s := range g.set {
		subjects[s.Subject] = struct{}{}
		predicates[s.Predicate] = struct{}{}
		objects[s.Object] = struct{}{}
	}
	return Summary{
		Triples:    len(g.set),
		Subjects:   len(subjects),
		Predicates: len(predicates),
		Objects:    len(objects),
	}
}
