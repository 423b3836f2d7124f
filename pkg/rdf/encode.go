package rdf

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	krdf "github.com/knakk/rdf"
)

// localName is the subset of Turtle PN_LOCAL written as a prefixed name.
// Anything else is written as a full IRI.
var localName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// WriteTurtle serializes the graph as Turtle. All bound prefixes are declared
// up front and statements are grouped by subject. Entity IRIs are written in
// full unless their namespace is bound and the local part is a plain name.
func WriteTurtle(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	namespaces := g.Namespaces()

	for _, ns := range namespaces {
		fmt.Fprintf(bw, "@prefix %s: %s .\n", ns.Prefix, fullIRI(ns.IRI))
	}

	var subject, predicate string
	for i, s := range g.Statements() {
		obj := turtleTerm(s.Object, namespaces)
		switch {
		case i > 0 && s.Subject == subject && s.Predicate == predicate:
			fmt.Fprintf(bw, ",\n        %s", obj)
		case i > 0 && s.Subject == subject:
			fmt.Fprintf(bw, " ;\n    %s %s", turtleIRI(s.Predicate, namespaces), obj)
		default:
			if i > 0 {
				bw.WriteString(" .\n")
			}
			fmt.Fprintf(bw, "\n%s %s %s", turtleIRI(s.Subject, namespaces), turtleIRI(s.Predicate, namespaces), obj)
		}
		subject, predicate = s.Subject, s.Predicate
	}
	if g.Len() > 0 {
		bw.WriteString(" .\n")
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write turtle: %w", err)
	}
	return nil
}

// WriteNTriples serializes the graph as N-Triples, one statement per line.
func WriteNTriples(w io.Writer, g *Graph) error {
	enc := krdf.NewTripleEncoder(w, krdf.NTriples)
	for _, s := range g.Statements() {
		tr, err := toTriple(s)
		if err != nil {
			return err
		}
		if err := enc.Encode(tr); err != nil {
			return fmt.Errorf("failed to encode triple: %w", err)
		}
	}
	return enc.Close()
}

func turtleTerm(t Term, namespaces []Namespace) string {
	if t.Literal {
		return `"` + literalEscaper.Replace(t.Value) + `"`
	}
	return turtleIRI(t.Value, namespaces)
}

func turtleIRI(iri string, namespaces []Namespace) string {
	for _, ns := range namespaces {
		local, ok := strings.CutPrefix(iri, ns.IRI)
		if ok && localName.MatchString(local) {
			return ns.Prefix + ":" + local
		}
	}
	return fullIRI(iri)
}

func fullIRI(iri string) string {
	var sb strings.Builder
	sb.WriteByte('<')
	for _, r := range iri {
		if r <= 0x20 || strings.ContainsRune(`<>"{}|^`+"`"+`\`, r) {
			fmt.Fprintf(&sb, `\u%04X`, r)
			continue
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('>')
	return sb.String()
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func toTriple(s Statement) (krdf.Triple, error) {
	subj, err := krdf.NewIRI(s.Subject)
	if err != nil {
		return krdf.Triple{}, fmt.Errorf("invalid subject %q: %w", s.Subject, err)
	}
	pred, err := krdf.NewIRI(s.Predicate)
	if err != nil {
		return krdf.Triple{}, fmt.Errorf("invalid predicate %q: %w", s.Predicate, err)
	}

	var obj krdf.Object
	if s.Object.Literal {
		lit, err := krdf.NewLiteral(s.Object.Value)
		if err != nil {
			return krdf.Triple{}, fmt.Errorf("invalid literal %q: %w", s.Object.Value, err)
		}
		obj = lit
	} else {
		iri, err := krdf.NewIRI(s.Object.Value)
		if err != nil {
			return krdf.Triple{}, fmt.Errorf("invalid object %q: %w", s.Object.Value, err)
		}
		obj = iri
	}

	return krdf.Triple{Subj: subj, Pred: pred, Obj: obj}, nil
}
