package idmap

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/finkg/kgconv/pkg/common"
)

// Global maps are persisted as JSON objects, which only have string keys.
// Integer IDs are stringified here and nowhere else.

// EncodeGlobalIDMap renders {"type": {"local": global}}.
func EncodeGlobalIDMap(m GlobalIDMap) ([]byte, error) {
	out := make(map[string]map[string]int, len(m))
	for t, locals := range m {
		inner := make(map[string]int, len(locals))
		for local, global := range locals {
			inner[fmt.Sprint(local)] = global
		}
		out[string(t)] = inner
	}
	return json.MarshalIndent(out, "", "  ")
}

// DecodeGlobalIDMap parses the output of EncodeGlobalIDMap.
func DecodeGlobalIDMap(data []byte) (GlobalIDMap, error) {
	var m GlobalIDMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid global id map: %w", err)
	}
	return m, nil
}

// EncodeTypeMap renders {"global": "type"}.
func EncodeTypeMap(m TypeMap) ([]byte, error) {
	out := make(map[string]string, len(m))
	for global, t := range m {
		out[fmt.Sprint(global)] = string(t)
	}
	return json.MarshalIndent(out, "", "  ")
}

// DecodeTypeMap parses the output of EncodeTypeMap.
func DecodeTypeMap(data []byte) (TypeMap, error) {
	var m TypeMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid type map: %w", err)
	}
	return m, nil
}

// EncodeTriples renders [[head, "relation", tail], ...] in slice order.
func EncodeTriples(triples []common.GlobalTriple) ([]byte, error) {
	out := make([][3]any, len(triples))
	for i, tr := range triples {
		out[i] = [3]any{tr.Head, tr.Relation, tr.Tail}
	}
	return json.Marshal(out)
}

// DecodeTriples parses [[head, "relation", tail], ...].
func DecodeTriples(data []byte) ([]common.GlobalTriple, error) {
	var raw [][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid triple list: %w", err)
	}

	triples := make([]common.GlobalTriple, 0, len(raw))
	for i, row := range raw {
		if len(row) != 3 {
			return nil, fmt.Errorf("invalid triple at index %d: expected 3 elements, got %d", i, len(row))
		}
		var tr common.GlobalTriple
		if err := json.Unmarshal(row[0], &tr.Head); err != nil {
			return nil, fmt.Errorf("invalid triple head at index %d: %w", i, err)
		}
		if err := json.Unmarshal(row[1], &tr.Relation); err != nil {
			return nil, fmt.Errorf("invalid triple relation at index %d: %w", i, err)
		}
		if err := json.Unmarshal(row[2], &tr.Tail); err != nil {
			return nil, fmt.Errorf("invalid triple tail at index %d: %w", i, err)
		}
		triples = append(triples, tr)
	}
	return triples, nil
}

// EncodeNameToID renders a name to ID mapping ordered by ID, so files
// produced from the same input are byte identical.
func EncodeNameToID(m NameToID) ([]byte, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if m[names[i]] != m[names[j]] {
			return m[names[i]] < m[names[j]]
		}
		return names[i] < names[j]
	})

	buf := []byte{'{'}
	for i, name := range names {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, "\n  "...)
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ": "...)
		buf = append(buf, fmt.Sprint(m[name])...)
	}
	if len(names) > 0 {
		buf = append(buf, '\n')
	}
	buf = append(buf, '}')
	return buf, nil
}
