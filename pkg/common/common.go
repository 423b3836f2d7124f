package common

import "fmt"

// EntityType tags a node category of the financial graph. The set of types
// is closed and declared by the graph manifest.
type EntityType string

const (
	Company     EntityType = "company"
	StockSymbol EntityType = "stock_symbol"
	Exchange    EntityType = "exchange"
	Industry    EntityType = "industry"
	Sector      EntityType = "sector"
	Officer     EntityType = "officer"
	Institution EntityType = "institution"
	Fund        EntityType = "fund"
	FundSymbol  EntityType = "fund_symbol"
)

// Relation names used by the typed edge sets.
const (
	HasSymbol = "hasSymbol"
	ListedOn  = "listedOn"
	BelongsTo = "belongsTo"
	PartOf    = "partOf"
	Employs   = "employs"
	Holds     = "holds"
)

// GlobalTriple is a fact expressed in the global ID space.
type GlobalTriple struct {
	Head     int
	Relation string
	Tail     int
}

// NamedTriple is the same fact with both ends resolved to entity names.
type NamedTriple struct {
	Head     string
	Relation string
	Tail     string
}

// EdgeIndex holds paired head/tail IDs. Heads[i] is linked to Tails[i].
type EdgeIndex struct {
	Heads []int
	Tails []int
}

// Len returns the number of edges. Rows of unequal length count up to the
// shorter one.
func (e EdgeIndex) Len() int {
	return min(len(e.Heads), len(e.Tails))
}

// Append adds one edge.
func (e *EdgeIndex) Append(head, tail int) {
	e.Heads = append(e.Heads, head)
	e.Tails = append(e.Tails, tail)
}

// RelationEdges describes one relation of the graph together with its local
// edge list.
type RelationEdges struct {
	Relation string
	HeadType EntityType
	TailType EntityType
	Edges    EdgeIndex
}

// EdgeKey identifies a typed edge set of the heterogeneous graph.
type EdgeKey struct {
	HeadType EntityType
	Relation string
	TailType EntityType
}

func (k EdgeKey) String() string {
	return fmt.Sprintf("(%s, %s, %s)", k.HeadType, k.Relation, k.TailType)
}

// LookupError is returned when a local ID has no entry in its type's mapping.
type LookupError struct {
	Type    EntityType
	LocalID int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("local id %d not found for entity type %q", e.LocalID, e.Type)
}

// GlobalLookupError is returned when a global ID has no entity type assigned.
type GlobalLookupError struct {
	GlobalID int
}

func (e *GlobalLookupError) Error() string {
	return fmt.Sprintf("global id %d has no entity type", e.GlobalID)
}

// ResolveError reports a triple whose ends could not be resolved to names.
// Both sides are reported so the broken mapping can be located.
type ResolveError struct {
	Triple    GlobalTriple
	HeadType  EntityType
	HeadLocal int
	TailType  EntityType
	TailLocal int
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf(
		"cannot resolve triple (%d, %s, %d): head type %s local id %d, tail type %s local id %d",
		e.Triple.Head, e.Triple.Relation, e.Triple.Tail,
		e.HeadType, e.HeadLocal, e.TailType, e.TailLocal,
	)
}
