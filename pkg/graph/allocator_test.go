package graph

import (
	"testing"

	"github.com/finkg/kgconv/pkg/common"
	"github.com/finkg/kgconv/pkg/idmap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMappings() idmap.Mappings {
	return idmap.Mappings{
		common.Company:     {"AcmeCo": 0, "Globex": 1},
		common.StockSymbol: {"ACME": 0, "GBX": 1, "GBX.B": 2},
		common.Exchange:    {"NYSE": 0},
	}
}

var testOrder = []common.EntityType{common.Company, common.StockSymbol, common.Exchange}

func TestBuildGlobalIDMap(t *testing.T) {
	space, err := BuildGlobalIDMap(testMappings(), testOrder)
	require.NoError(t, err)

	assert.Equal(t, map[common.EntityType]int{
		common.Company:     0,
		common.StockSymbol: 2,
		common.Exchange:    5,
	}, space.Offsets)
	assert.Equal(t, 6, space.Size())
	assert.Len(t, space.Types, 6)

	for _, typ := range testOrder {
		for _, local := range testMappings()[typ] {
			global := space.GlobalIDs[typ][local]
			assert.Equal(t, space.Offsets[typ]+local, global)
			assert.Equal(t, typ, space.Types[global])
		}
	}
}

func TestBuildGlobalIDMapOffsetsMonotonic(t *testing.T) {
	space, err := BuildGlobalIDMap(testMappings(), testOrder)
	require.NoError(t, err)

	m := testMappings()
	assert.Equal(t, 0, space.Offsets[testOrder[0]])
	for i := 1; i < len(testOrder); i++ {
		prev, cur := testOrder[i-1], testOrder[i]
		assert.Equal(t, space.Offsets[prev]+len(m[prev]), space.Offsets[cur])
		assert.GreaterOrEqual(t, space.Offsets[cur], space.Offsets[prev])
	}
}

func TestBuildGlobalIDMapRoundTrip(t *testing.T) {
	m := testMappings()
	space, err := BuildGlobalIDMap(m, testOrder)
	require.NoError(t, err)

	names := idmap.InvertAll(m)
	locals := idmap.InvertNested(space.GlobalIDs)

	for typ, byName := range m {
		for name, local := range byName {
			global := space.GlobalIDs[typ][local]
			gotType := space.Types[global]
			assert.Equal(t, name, names[gotType][locals[gotType][global]])
		}
	}
}

func TestBuildGlobalIDMapEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		order   []common.EntityType
		wantErr bool
		offsets map[common.EntityType]int
	}{
		{
			name:    "missing mapping counts zero",
			order:   []common.EntityType{common.Company, common.Officer, common.StockSymbol},
			offsets: map[common.EntityType]int{common.Company: 0, common.Officer: 2, common.StockSymbol: 2},
		},
		{
			name:    "order decides offsets",
			order:   []common.EntityType{common.Exchange, common.Company},
			offsets: map[common.EntityType]int{common.Exchange: 0, common.Company: 1},
		},
		{
			name:    "duplicate type",
			order:   []common.EntityType{common.Company, common.Company},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			space, err := BuildGlobalIDMap(testMappings(), tt.order)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.offsets, space.Offsets)
		})
	}
}

func TestBuildGlobalIDMapDeterministic(t *testing.T) {
	a, err := BuildGlobalIDMap(testMappings(), testOrder)
	require.NoError(t, err)
	b, err := BuildGlobalIDMap(testMappings(), testOrder)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
