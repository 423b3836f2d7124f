package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finkg/kgconv/internal/pipeline"
	"github.com/finkg/kgconv/internal/storage"
	"github.com/finkg/kgconv/internal/util"
	"github.com/finkg/kgconv/pkg/leaselock"
	"github.com/finkg/kgconv/pkg/logger"
	"github.com/finkg/kgconv/pkg/logger/console"
	"github.com/finkg/kgconv/pkg/metrics"
	"github.com/finkg/kgconv/pkg/store/neo4j"
	"github.com/finkg/kgconv/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
)

const usage = `usage: kgconv <command> [flags]

commands:
  globalize  build the global ID space and global triples
  rdf        export the graph as Turtle and N-Triples
  kge        export entities.dict, relations.dict and train.txt
  names      build a name to id mapping from a CSV column
  pg         load the global graph into Postgres
  neo4j      load the named graph into Neo4j or Memgraph
  all        globalize, rdf and kge in one run
`

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
		JSON:  util.GetEnv("LOG_FORMAT") == "json",
	})
	logger.Init(consoleLogger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Fatal("Conversion failed", "command", os.Args[1], "err", err)
	}
}

func run(ctx context.Context, command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	opts := bindOptions(fs)

	var names pipeline.NamesOptions
	if command == "names" {
		fs.StringVar(&names.Input, "csv", util.GetEnv("NAMES_CSV"), "CSV export to read")
		fs.StringVar(&names.Column, "column", "", "column holding stringified record lists")
		fs.StringVar(&names.Kind, "kind", "", "extractor: officer, institution or fund")
		fs.StringVar(&names.Output, "out", "", "output mapping file")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	runID, err := util.NewRunID()
	if err != nil {
		return err
	}
	recorder := metrics.NewRecorder(runID)
	logger.Info("[Run] Starting", "command", command, "run_id", runID)

	p, err := opts.pipeline(ctx, recorder)
	if err != nil {
		return err
	}

	var outputs []string
	switch command {
	case "globalize":
		_, outputs, err = p.Globalize(ctx)
	case "rdf":
		_, outputs, err = p.ExportRDF(ctx)
	case "kge":
		_, outputs, err = p.ExportKGE(ctx, nil)
	case "names":
		if names.Input == "" || names.Column == "" || names.Kind == "" || names.Output == "" {
			return errors.New("names requires -csv, -column, -kind and -out")
		}
		_, err = p.ExtractNames(ctx, names)
		outputs = []string{names.Output}
	case "pg":
		err = runPostgres(ctx, p)
	case "neo4j":
		err = runNeo4j(ctx, p)
	case "all":
		outputs, err = runAll(ctx, p)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		return err
	}

	if opts.upload && len(outputs) > 0 {
		if err := upload(ctx, runID, outputs); err != nil {
			return err
		}
	}

	if opts.metricsFile != "" {
		if err := recorder.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
	}

	logger.Info("[Run] Finished", "command", command, "run_id", runID, "outputs", len(outputs))
	return nil
}

func runAll(ctx context.Context, p *pipeline.Pipeline) ([]string, error) {
	data, outputs, err := p.Globalize(ctx)
	if err != nil {
		return nil, err
	}
	_, rdfFiles, err := p.ExportRDF(ctx)
	if err != nil {
		return nil, err
	}
	_, kgeFiles, err := p.ExportKGE(ctx, data)
	if err != nil {
		return nil, err
	}
	outputs = append(outputs, rdfFiles...)
	return append(outputs, kgeFiles...), nil
}

const postgresSinkLease = "kgconv:postgres-sink"

func runPostgres(ctx context.Context, p *pipeline.Pipeline) error {
	databaseURL := util.GetEnv("DATABASE_URL")
	if databaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if err := pgx.Migrate(databaseURL); err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	opts := leaselock.Options{
		TTL:        time.Duration(util.GetEnvNumeric("PG_SINK_LEASE_SECONDS", 300)) * time.Second,
		Wait:       true,
		WaitJitter: 100 * time.Millisecond,
	}
	return leaselock.New(pool).WithLease(ctx, postgresSinkLease, opts, func(ctx context.Context) error {
		return p.ExportPostgres(ctx, pgx.NewGraphSink(pool), nil)
	})
}

func runNeo4j(ctx context.Context, p *pipeline.Pipeline) error {
	driver, err := neo4j.NewDriver(ctx,
		util.GetEnvString("NEO4J_URI", "bolt://localhost:7687"),
		util.GetEnv("NEO4J_USER"),
		util.GetEnv("NEO4J_PASSWORD"),
	)
	if err != nil {
		return err
	}
	defer driver.Close(ctx)

	batchSize := util.GetEnvNumeric("NEO4J_BATCH_SIZE", 1000)
	return p.ExportNeo4j(ctx, neo4j.NewGraphSink(driver, neo4j.WithBatchSize(batchSize)), nil)
}

func upload(ctx context.Context, runID string, files []string) error {
	bucket := util.GetEnv("AWS_BUCKET")
	if bucket == "" {
		return errors.New("AWS_BUCKET is not set")
	}
	client, err := storage.NewS3Client(ctx)
	if err != nil {
		return err
	}

	keys, err := storage.UploadFiles(ctx, client, bucket, storage.ExportPrefix(runID), files)
	if err != nil {
		return err
	}
	logger.Info("[Upload] Uploaded outputs", "bucket", bucket, "prefix", storage.ExportPrefix(runID), "files", len(keys))
	return nil
}
