package neo4j

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/finkg/kgconv/pkg/common"
	"github.com/finkg/kgconv/pkg/graph"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	query  string
	params map[string]any
}

type recordingExecutor struct {
	calls  []call
	failOn string
}

func (r *recordingExecutor) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	r.calls = append(r.calls, call{query: query, params: params})
	if r.failOn != "" && strings.Contains(query, r.failOn) {
		return neo4j.EagerResult{}, errors.New("boom")
	}
	return neo4j.EagerResult{}, nil
}

func TestRelationshipType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hasSymbol", "HAS_SYMBOL"},
		{"listedOn", "LISTED_ON"},
		{"holds", "HOLDS"},
		{"part-of", "PART_OF"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RelationshipType(tt.in))
		})
	}
}

func TestReplace(t *testing.T) {
	exec := &recordingExecutor{}
	sink := NewGraphSink(exec, WithBatchSize(2))

	entities := []Entity{
		{GlobalID: 0, Type: common.Company, Label: "Company", LocalID: 0, Name: "AcmeCo"},
		{GlobalID: 1, Type: common.Company, Label: "Company", LocalID: 1, Name: "Globex"},
		{GlobalID: 2, Type: common.Company, Label: "Company", LocalID: 2, Name: "Initech"},
		{GlobalID: 3, Type: common.StockSymbol, Label: "StockSymbol", LocalID: 0, Name: "ACME"},
	}
	key := common.EdgeKey{HeadType: common.Company, Relation: common.HasSymbol, TailType: common.StockSymbol}
	g := &graph.HeteroGraph{
		Keys:  []common.EdgeKey{key},
		Edges: map[common.EdgeKey]*common.EdgeIndex{key: {Heads: []int{0}, Tails: []int{3}}},
	}

	require.NoError(t, sink.Replace(context.Background(), entities, g))

	var queries []string
	for _, c := range exec.calls {
		queries = append(queries, c.query)
	}
	require.Len(t, queries, 6)
	assert.Contains(t, queries[0], "CREATE INDEX")
	assert.Equal(t, "MATCH (n:KGEntity) DETACH DELETE n", queries[1])
	assert.Equal(t, "UNWIND $rows AS row CREATE (n:KGEntity:Company) SET n = row", queries[2])
	assert.Len(t, exec.calls[2].params["rows"], 2)
	assert.Equal(t, queries[2], queries[3])
	assert.Len(t, exec.calls[3].params["rows"], 1)
	assert.Contains(t, queries[4], ":StockSymbol")
	assert.Contains(t, queries[5], "CREATE (h)-[:HAS_SYMBOL]->(t)")
	assert.Equal(t, []any{map[string]any{"head": int64(0), "tail": int64(3)}}, exec.calls[5].params["rows"])
}

func TestReplaceRejectsBadLabel(t *testing.T) {
	sink := NewGraphSink(&recordingExecutor{})
	err := sink.Replace(context.Background(), []Entity{{Label: "Bad Label"}}, nil)
	require.Error(t, err)
}

func TestReplaceClearFailure(t *testing.T) {
	sink := NewGraphSink(&recordingExecutor{failOn: "DETACH DELETE"})
	err := sink.Replace(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clear graph")
}
