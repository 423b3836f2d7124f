package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/finkg/kgconv/pkg/common"
	loaderio "github.com/finkg/kgconv/pkg/loader/io"
	"github.com/finkg/kgconv/pkg/logger"
	"github.com/finkg/kgconv/pkg/logger/memory"
	"github.com/finkg/kgconv/pkg/metrics"
	"github.com/finkg/kgconv/pkg/rdf"
	"github.com/finkg/kgconv/pkg/schema"

	krdf "github.com/knakk/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	root string
	cfg  Config
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	manifest, err := schema.Default()
	require.NoError(t, err)

	f := &fixture{
		root: root,
		cfg: Config{
			Manifest:     manifest,
			Loader:       loaderio.NewIOFileLoader(),
			IDMappingDir: filepath.Join(root, "entity_id_map"),
			EdgeIndexDir: filepath.Join(root, "edge_index"),
			RDFOutputDir: filepath.Join(root, "rdf"),
			KGEOutputDir: filepath.Join(root, "hake"),
		},
	}

	writeFile(t, filepath.Join(f.cfg.IDMappingDir, "company2id.json"), `{"AcmeCo": 0, "Globex": 1}`)
	writeFile(t, filepath.Join(f.cfg.IDMappingDir, "stocksymbol2id.json"), `{"ACME": 0, "GBX": 1}`)
	writeFile(t, filepath.Join(f.cfg.IDMappingDir, "industry2id.json"), `{"tech": 0}`)
	writeFile(t, filepath.Join(f.cfg.EdgeIndexDir, "comp2sym.json"), `[[0, 1], [0, 1]]`)
	writeFile(t, filepath.Join(f.cfg.EdgeIndexDir, "comp2ind.json"), `[[0, 1], [0, 0]]`)
	return f
}

// pipeline returns a fresh pipeline so no loader cache is shared between runs.
func (f *fixture) pipeline(t *testing.T) *Pipeline {
	t.Helper()
	cfg := f.cfg
	cfg.Loader = loaderio.NewIOFileLoader()
	p, err := New(cfg)
	require.NoError(t, err)
	return p
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func captureLogs(t *testing.T) *memory.MemoryLogger {
	m := memory.NewMemoryLogger()
	logger.Init(m)
	t.Cleanup(func() { logger.Init() })
	return m
}

func TestGlobalizeThenKGE(t *testing.T) {
	f := newFixture(t)
	p := f.pipeline(t)
	ctx := context.Background()

	data, written, err := p.Globalize(ctx)
	require.NoError(t, err)
	assert.Len(t, written, 4)

	assert.Equal(t, []common.GlobalTriple{
		{Head: 0, Relation: "hasSymbol", Tail: 2},
		{Head: 1, Relation: "hasSymbol", Tail: 3},
		{Head: 0, Relation: "belongsTo", Tail: 4},
		{Head: 1, Relation: "belongsTo", Tail: 4},
	}, data.Triples)
	assert.Equal(t, common.Industry, data.Types[4])
	assert.Len(t, data.Hetero.Keys, 2)

	typeMap, err := os.ReadFile(filepath.Join(f.cfg.IDMappingDir, GlobalTypeMapFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"0": "company", "1": "company", "2": "stock_symbol", "3": "stock_symbol", "4": "industry"}`, string(typeMap))

	// read everything back from disk like a separate invocation would
	ds, _, err := f.pipeline(t).ExportKGE(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, ds.Triples, 4)

	assert.Equal(t, []string{"0\tACME", "1\tAcmeCo", "2\tGBX", "3\tGlobex", "4\ttech"},
		readLines(t, filepath.Join(f.cfg.KGEOutputDir, "entities.dict")))
	assert.Equal(t, []string{"0\tbelongsTo", "1\thasSymbol"},
		readLines(t, filepath.Join(f.cfg.KGEOutputDir, "relations.dict")))
	assert.Equal(t, []string{
		"AcmeCo\thasSymbol\tACME",
		"Globex\thasSymbol\tGBX",
		"AcmeCo\tbelongsTo\ttech",
		"Globex\tbelongsTo\ttech",
	}, readLines(t, filepath.Join(f.cfg.KGEOutputDir, "train.txt")))
}

func TestGlobalizeFailsOnUnknownLocalID(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.cfg.EdgeIndexDir, "comp2sym.json"), `[[0, 1], [0, 7]]`)

	_, _, err := f.pipeline(t).Globalize(context.Background())
	var lookupErr *common.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, common.StockSymbol, lookupErr.Type)
	assert.Equal(t, 7, lookupErr.LocalID)
}

func TestExportKGEAbortsOnUnresolvedTriple(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.pipeline(t).Globalize(ctx)
	require.NoError(t, err)

	// the industry mapping disappears after globalizing
	require.NoError(t, os.Remove(filepath.Join(f.cfg.IDMappingDir, "industry2id.json")))

	_, _, err = f.pipeline(t).ExportKGE(ctx, nil)
	var resolveErr *common.ResolveError
	require.True(t, errors.As(err, &resolveErr))
	assert.Equal(t, common.Company, resolveErr.HeadType)
	assert.Equal(t, 0, resolveErr.HeadLocal)
	assert.Equal(t, common.Industry, resolveErr.TailType)
	assert.Equal(t, 0, resolveErr.TailLocal)

	_, err = os.Stat(filepath.Join(f.cfg.KGEOutputDir, "train.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportKGERequiresGlobalMaps(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.pipeline(t).ExportKGE(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), GlobalIDFile)
}

func TestExportRDF(t *testing.T) {
	logs := captureLogs(t)
	f := newFixture(t)
	f.cfg.Metrics = metrics.NewRecorder("test")
	// exchange mapping is missing, so every listedOn edge is skipped
	writeFile(t, filepath.Join(f.cfg.EdgeIndexDir, "sym2ex.json"), `[[0, 1], [0, 0]]`)
	// unknown company 9 is skipped
	writeFile(t, filepath.Join(f.cfg.EdgeIndexDir, "comp2ind.json"), `[[0, 1, 9], [0, 0, 0]]`)

	summary, written, err := f.pipeline(t).ExportRDF(context.Background())
	require.NoError(t, err)

	assert.Equal(t, rdf.Summary{Triples: 14, Subjects: 5, Predicates: 4, Objects: 11}, summary)
	require.Len(t, written, 2)
	assert.Len(t, readLines(t, written[1]), 14)

	promFile := filepath.Join(f.root, "kgconv.prom")
	require.NoError(t, f.cfg.Metrics.WriteTextfile(promFile))
	prom, err := os.ReadFile(promFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `kgconv_rdf_triples{run_id="test"} 14`)
	assert.Contains(t, string(prom), `kgconv_edges{exporter="rdf",relation="listedOn",run_id="test"} 0`)

	assert.NotEmpty(t, logs.Entries("warn"))

	var missing []string
	for _, e := range logs.Entries("warn") {
		missing = append(missing, e.Message)
	}
	assert.Contains(t, missing, "[IDMap] Mapping file not found")
	assert.Contains(t, missing, "[Graph] Edge file not found")
}

func TestExportRDFEmptyInputs(t *testing.T) {
	captureLogs(t)
	root := t.TempDir()
	manifest, err := schema.Default()
	require.NoError(t, err)

	p, err := New(Config{
		Manifest:     manifest,
		Loader:       loaderio.NewIOFileLoader(),
		IDMappingDir: filepath.Join(root, "none"),
		EdgeIndexDir: filepath.Join(root, "none"),
		RDFOutputDir: filepath.Join(root, "rdf"),
	})
	require.NoError(t, err)

	summary, _, err := p.ExportRDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rdf.Summary{}, summary)
}

func decodeFile(t *testing.T, path string, format krdf.Format) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	dec := krdf.NewTripleDecoder(bytes.NewReader(data), format)
	var out []string
	for {
		tr, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err, path)
		_, literal := tr.Obj.(krdf.Literal)
		out = append(out, strings.Join([]string{tr.Subj.String(), tr.Pred.String(), tr.Obj.String(), strconv.FormatBool(literal)}, " | "))
	}
}

func TestExportRDFTurtleMatchesNTriples(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	writeFile(t, filepath.Join(f.cfg.IDMappingDir, "company2id.json"), `{"Apple Inc.": 0, "Globex Corp.": 1}`)
	writeFile(t, filepath.Join(f.cfg.IDMappingDir, "stocksymbol2id.json"), `{"AAPL": 0, "BRK.B": 1}`)

	summary, written, err := f.pipeline(t).ExportRDF(context.Background())
	require.NoError(t, err)
	require.Len(t, written, 2)

	var ttl, nt string
	for _, path := range written {
		switch filepath.Ext(path) {
		case ".ttl":
			ttl = path
		case ".nt":
			nt = path
		}
	}
	require.NotEmpty(t, ttl)
	require.NotEmpty(t, nt)

	fromTurtle := decodeFile(t, ttl, krdf.Turtle)
	assert.Len(t, fromTurtle, summary.Triples)
	assert.ElementsMatch(t, decodeFile(t, nt, krdf.NTriples), fromTurtle)
	assert.Contains(t, fromTurtle, "http://example.org/company/Apple%20Inc. | http://www.w3.org/2000/01/rdf-schema#label | Apple Inc. | true")
}

func TestRerunIsByteIdentical(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	run := func() map[string][]byte {
		p := f.pipeline(t)
		data, globalFiles, err := p.Globalize(ctx)
		require.NoError(t, err)
		_, rdfFiles, err := p.ExportRDF(ctx)
		require.NoError(t, err)
		_, kgeFiles, err := p.ExportKGE(ctx, data)
		require.NoError(t, err)

		out := make(map[string][]byte)
		for _, path := range append(append(globalFiles, rdfFiles...), kgeFiles...) {
			content, err := os.ReadFile(path)
			require.NoError(t, err)
			out[path] = content
		}
		return out
	}

	first := run()
	second := run()
	require.Len(t, first, 9)
	for path, content := range first {
		assert.Equal(t, string(content), string(second[path]), path)
	}
}

func TestExtractNames(t *testing.T) {
	f := newFixture(t)
	input := filepath.Join(f.root, "info.csv")
	writeFile(t, input, "symbol,companyOfficers\n"+
		"AAPL,\"[{'name': 'Mr. Tim Cook', 'yearBorn': 1961}, {'name': 'Dr. Jane Smith'}]\"\n"+
		"MSFT,not a list\n"+
		"AAPL2,\"[{'name': 'Tim Cook', 'yearBorn': 1961}, {'foo': 'bar'}]\"\n")
	output := filepath.Join(f.cfg.IDMappingDir, "officer2id.json")

	mapping, err := f.pipeline(t).ExtractNames(context.Background(), NamesOptions{
		Input:  input,
		Column: "companyOfficers",
		Kind:   "officer",
		Output: output,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"tim cook|1961": 0, "jane smith|nan": 1}, map[string]int(mapping))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"tim cook|1961\": 0,\n  \"jane smith|nan\": 1\n}", string(data))

	_, err = f.pipeline(t).ExtractNames(context.Background(), NamesOptions{Input: input, Column: "companyOfficers", Kind: "planet", Output: output})
	require.Error(t, err)
}
