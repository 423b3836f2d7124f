package pipeline

import (
	"context"
	"io"
	"path/filepath"

	"github.com/finkg/kgconv/internal/util"
	"github.com/finkg/kgconv/pkg/graph"
	"github.com/finkg/kgconv/pkg/idmap"
	"github.com/finkg/kgconv/pkg/logger"
	"github.com/finkg/kgconv/pkg/rdf"
)

// ExportRDF builds the RDF graph from the per-type mappings and the local
// edge files and writes it as Turtle and N-Triples. Missing files and
// unresolvable edges are tolerated.
func (p *Pipeline) ExportRDF(ctx context.Context) (rdf.Summary, []string, error) {
	mappings, err := p.loadMappings(ctx, "RDF")
	if err != nil {
		return rdf.Summary{}, nil, err
	}
	names := idmap.InvertAll(mappings)

	b := rdf.NewBuilder(p.cfg.Manifest)
	for _, e := range p.cfg.Manifest.Entities {
		n := b.AddEntities(e.Name, names[e.Name])
		logger.Info("[RDF] Added entity nodes", "type", e.Name, "count", n)
	}

	for _, r := range p.cfg.Manifest.Relations {
		edges, err := graph.LoadEdgeIndexOptional(ctx, p.jsonFile(r.Name, p.cfg.EdgeIndexDir, r.EdgeFile))
		if err != nil {
			return rdf.Summary{}, nil, err
		}
		n := b.AddEdges(r, edges, names[r.Head], names[r.Tail])
		p.recordEdges(r.Name, "rdf", n)
		logger.Info("[RDF] Added edges", "relation", r.Name, "head", r.Head, "tail", r.Tail, "count", n)
	}

	g := b.Graph()
	ttl := filepath.Join(p.cfg.RDFOutputDir, TurtleFile)
	nt := filepath.Join(p.cfg.RDFOutputDir, NTriplesFile)

	logger.Info("[RDF] Serializing graph", "path", ttl)
	if err := util.WriteFileFunc(ttl, func(w io.Writer) error { return rdf.WriteTurtle(w, g) }); err != nil {
		return rdf.Summary{}, nil, err
	}
	if err := util.WriteFileFunc(nt, func(w io.Writer) error { return rdf.WriteNTriples(w, g) }); err != nil {
		return rdf.Summary{}, nil, err
	}

	summary := g.Summary()
	if p.cfg.Metrics != nil {
		p.cfg.Metrics.SetRDF(summary.Triples, summary.Subjects, summary.Predicates, summary.Objects)
	}
	logger.Info("[RDF] Graph statistics",
		"triples", summary.Triples,
		"subjects", summary.Subjects,
		"predicates", summary.Predicates,
		"objects", summary.Objects,
		"turtle", ttl,
		"ntriples", nt,
	)

	return summary, []string{ttl, nt}, nil
}
