package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/finkg/kgconv/internal/pipeline"
	"github.com/finkg/kgconv/internal/util"
	"github.com/finkg/kgconv/pkg/loader"
	loaderio "github.com/finkg/kgconv/pkg/loader/io"
	loaders3 "github.com/finkg/kgconv/pkg/loader/s3"
	"github.com/finkg/kgconv/pkg/metrics"
	"github.com/finkg/kgconv/pkg/schema"
)

type options struct {
	dataPath     string
	idMappingDir string
	edgeIndexDir string
	rdfOutputDir string
	kgeOutputDir string
	manifestPath string
	inputSource  string
	inputPrefix  string
	upload       bool
	metricsFile  string
}

// bindOptions registers the shared flags. Defaults come from the environment.
func bindOptions(fs *flag.FlagSet) *options {
	o := &options{}
	dataPath := util.GetEnvString("DATA_PATH", "./data")

	fs.StringVar(&o.dataPath, "data", dataPath, "root directory of inputs and outputs")
	fs.StringVar(&o.idMappingDir, "id-mapping-dir", util.GetEnv("ID_MAPPING_DIR"), "directory of name to id mappings (default <data>/entity_id_map)")
	fs.StringVar(&o.edgeIndexDir, "edge-index-dir", util.GetEnv("EDGE_INDEX_DIR"), "directory of edge files (default <data>/edge_index)")
	fs.StringVar(&o.rdfOutputDir, "rdf-dir", util.GetEnv("RDF_OUTPUT_DIR"), "RDF output directory (default <data>/rdf)")
	fs.StringVar(&o.kgeOutputDir, "kge-dir", util.GetEnv("KGE_OUTPUT_DIR"), "embedding dataset output directory (default <data>/hake)")
	fs.StringVar(&o.manifestPath, "manifest", util.GetEnv("MANIFEST_PATH"), "graph manifest YAML (default built-in)")
	fs.StringVar(&o.inputSource, "input", util.GetEnvString("INPUT_SOURCE", "fs"), "input source: fs or s3")
	fs.StringVar(&o.inputPrefix, "input-prefix", util.GetEnv("AWS_INPUT_PREFIX"), "key prefix for s3 inputs")
	fs.BoolVar(&o.upload, "upload", util.GetEnvBool("UPLOAD_OUTPUTS", false), "upload outputs to s3 under exports/<run-id>/")
	fs.StringVar(&o.metricsFile, "metrics-textfile", util.GetEnv("METRICS_TEXTFILE"), "write run metrics in Prometheus text format")
	return o
}

func (o *options) dir(value string, name string) string {
	if value != "" {
		return value
	}
	return filepath.Join(o.dataPath, name)
}

func (o *options) inputLoader(ctx context.Context) (loader.InputFileLoader, error) {
	switch o.inputSource {
	case "", "fs":
		return loaderio.NewIOFileLoader(), nil
	case "s3":
		l, err := loaders3.NewS3FileLoader(ctx, loaders3.NewS3FileLoaderParams{
			Bucket:    util.GetEnv("AWS_BUCKET"),
			Prefix:    o.inputPrefix,
			Endpoint:  util.GetEnv("AWS_ENDPOINT"),
			Region:    util.GetEnv("AWS_REGION"),
			AccessKey: util.GetEnv("AWS_ACCESS_KEY"),
			SecretKey: util.GetEnv("AWS_SECRET_KEY"),
		})
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown input source %q", o.inputSource)
	}
}

func (o *options) pipeline(ctx context.Context, recorder *metrics.Recorder) (*pipeline.Pipeline, error) {
	manifest, err := schema.Load(o.manifestPath)
	if err != nil {
		return nil, err
	}
	l, err := o.inputLoader(ctx)
	if err != nil {
		return nil, err
	}

	return pipeline.New(pipeline.Config{
		Manifest:     manifest,
		Loader:       l,
		IDMappingDir: o.dir(o.idMappingDir, "entity_id_map"),
		EdgeIndexDir: o.dir(o.edgeIndexDir, "edge_index"),
		RDFOutputDir: o.dir(o.rdfOutputDir, "rdf"),
		KGEOutputDir: o.dir(o.kgeOutputDir, "hake"),
		Metrics:      recorder,
	})
}
