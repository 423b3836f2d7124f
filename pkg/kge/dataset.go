package kge

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/finkg/kgconv/pkg/common"
)

const (
	EntitiesFile  = "entities.dict"
	RelationsFile = "relations.dict"
	TrainFile     = "train.txt"
)

// Dataset is the input of a knowledge graph embedding trainer: dense
// dictionaries of entity and relation names plus the training triples.
type Dataset struct {
	Entities  []string
	Relations []string
	Triples   []common.NamedTriple
}

// NewDataset collects the distinct names of heads and tails and the distinct
// relations, each sorted by byte order. Triples keep their input order and
// are not deduplicated.
func NewDataset(triples []common.NamedTriple) *Dataset {
	entities := make(map[string]struct{})
	relations := make(map[string]struct{})
	for _, tr := range triples {
		entities[tr.Head] = struct{}{}
		entities[tr.Tail] = struct{}{}
		relations[tr.Relation] = struct{}{}
	}

	return &Dataset{
		Entities:  sortedKeys(entities),
		Relations: sortedKeys(relations),
		Triples:   append([]common.NamedTriple(nil), triples...),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteEntities writes "<id>\t<name>" lines.
func (d *Dataset) WriteEntities(w io.Writer) error {
	return writeDict(w, d.Entities)
}

// WriteRelations writes "<id>\t<relation>" lines.
func (d *Dataset) WriteRelations(w io.Writer) error {
	return writeDict(w, d.Relations)
}

// WriteTrain writes "<head>\t<relation>\t<tail>" lines in input order.
func (d *Dataset) WriteTrain(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, tr := range d.Triples {
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\n", tr.Head, tr.Relation, tr.Tail); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeDict(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	for id, name := range names {
		if _, err := fmt.Fprintf(bw, "%d\t%s\n", id, name); err != nil {
			return err
		}
	}
	return bw.Flush()
}
