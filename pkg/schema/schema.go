package schema

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/finkg/kgconv/pkg/common"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultManifest []byte

// Entity declares one entity type of the graph.
type Entity struct {
	Name        common.EntityType `yaml:"name" validate:"required"`
	Class       string            `yaml:"class" validate:"required,alphanum"`
	Namespace   string            `yaml:"namespace" validate:"required,url"`
	MappingFile string            `yaml:"mapping_file" validate:"required"`
}

// Relation declares one typed edge set and the file holding its local edges.
type Relation struct {
	Name     string            `yaml:"name" validate:"required,alphanum"`
	Head     common.EntityType `yaml:"head" validate:"required"`
	Tail     common.EntityType `yaml:"tail" validate:"required"`
	EdgeFile string            `yaml:"edge_file" validate:"required"`
}

// Manifest describes the graph layout: entity types in global ID order and
// the relations between them.
type Manifest struct {
	GraphNamespace string     `yaml:"graph_namespace" validate:"required,url"`
	Entities       []Entity   `yaml:"entities" validate:"required,min=1,dive"`
	Relations      []Relation `yaml:"relations" validate:"dive"`

	index map[common.EntityType]int
}

// Default returns the built-in manifest of the financial graph.
func Default() (*Manifest, error) {
	return Parse(defaultManifest)
}

// Load reads a manifest from path. An empty path yields the default manifest.
func Load(path string) (*Manifest, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest '%s': %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks field constraints and cross references between relations
// and entity types.
func (m *Manifest) Validate() error {
	if err := validator.New().Struct(m); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}

	m.index = make(map[common.EntityType]int, len(m.Entities))
	for i, e := range m.Entities {
		if _, dup := m.index[e.Name]; dup {
			return fmt.Errorf("invalid manifest: duplicate entity type %q", e.Name)
		}
		m.index[e.Name] = i
	}

	for _, r := range m.Relations {
		if _, ok := m.index[r.Head]; !ok {
			return fmt.Errorf("invalid manifest: relation %s references unknown head type %q", r.Name, r.Head)
		}
		if _, ok := m.index[r.Tail]; !ok {
			return fmt.Errorf("invalid manifest: relation %s references unknown tail type %q", r.Name, r.Tail)
		}
	}

	return nil
}

// Order returns the entity types in the order offsets are computed.
func (m *Manifest) Order() []common.EntityType {
	order := make([]common.EntityType, len(m.Entities))
	for i, e := range m.Entities {
		order[i] = e.Name
	}
	return order
}

// Entity looks up an entity type declaration.
func (m *Manifest) Entity(t common.EntityType) (Entity, bool) {
	i, ok := m.index[t]
	if !ok {
		return Entity{}, false
	}
	return m.Entities[i], true
}

// PredicateIRI returns the IRI of a relation in the graph namespace.
func (m *Manifest) PredicateIRI(relation string) string {
	return m.GraphNamespace + relation
}

// ClassIRI returns the IRI of an entity class in the graph namespace.
func (m *Manifest) ClassIRI(t common.EntityType) string {
	e, ok := m.Entity(t)
	if !ok {
		return m.GraphNamespace + string(t)
	}
	return m.GraphNamespace + e.Class
}
