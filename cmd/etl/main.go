package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"github.com/Ramsey-B/yarrow/config"
	"github.com/Ramsey-B/yarrow/internal/repositories/event"
	"github.com/Ramsey-B/yarrow/pkg/database"
	"github.com/Ramsey-B/yarrow/pkg/events"
	"github.com/Ramsey-B/yarrow/pkg/graph"
	"github.com/Ramsey-B/yarrow/pkg/jurisdiction"
	"github.com/Ramsey-B/yarrow/pkg/kafka"
	"github.com/Ramsey-B/yarrow/pkg/logging"
	"github.com/Ramsey-B/yarrow/pkg/pipeline"
	"github.com/Ramsey-B/yarrow/pkg/reader"
	"github.com/Ramsey-B/yarrow/pkg/tracing"
	"github.com/Ramsey-B/yarrow/pkg/tracing/exporters"
	"github.com/Ramsey-B/yarrow/pkg/transformer"
)

func main() {
	input := flag.String("input", "", "path to the source .xlsx workbook")
	dataset := flag.String("dataset", "", "load only this dataset")
	maxRows := flag.Int("max-rows", 0, "cap rows read per sheet, 0 for all")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: etl -input <workbook.xlsx> [-dataset NAME] [-max-rows N]")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.AppName, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger, *input, *dataset, *maxRows); err != nil {
		logger.WithError(err).Error("ETL run failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger, input, dataset string, maxRows int) error {
	ctx := context.Background()

	tp := tracing.Init(cfg.AppName, &exporters.ConsoleExporter{})
	defer tp.Shutdown(ctx)

	db, err := database.Connect(ctx, cfg.DatabaseDriver, cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	migrationDriver, err := database.NewMigrationDriver(db.SQLDB(), cfg.DatabaseDriver)
	if err != nil {
		return err
	}
	migrations := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.MigrationFolder(),
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
	})
	if err := migrations.Migrate(cfg.DatabaseName, migrationDriver); err != nil {
		return err
	}

	repo := event.NewRepository(db, logger)
	resolver := jurisdiction.NewResolver(jurisdiction.DefaultSheetDefaults())
	xform := transformer.New(resolver, logger)
	src := reader.NewXLSXReader(input, cfg.SkipSheets, logger)

	var emitter *events.Emitter
	if cfg.KafkaEnabled {
		producer := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer producer.Close()
		emitter = events.NewEmitter(producer, logger)
	}

	var flows pipeline.FlowSyncer
	if cfg.GraphDBEnabled {
		client, err := graph.NewClient(graph.Config{
			URI:      cfg.GraphDBURI,
			Username: cfg.GraphDBUser,
			Password: cfg.GraphDBPassword,
		}, logger)
		if err != nil {
			return err
		}
		defer client.Close(ctx)
		flows = graph.NewFlowService(client, logger)
	}

	p := pipeline.New(src, xform, repo, emitter, flows, logger)
	summary, err := p.Run(ctx, pipeline.Options{Dataset: dataset, MaxRows: maxRows})
	if err != nil {
		return err
	}

	printSummary(summary)
	return nil
}

func printSummary(s *pipeline.Summary) {
	fmt.Printf("run %s finished in %s\n", s.RunID, s.Duration.Round(time.Millisecond))
	fmt.Printf("  rows:     %d total, %d loaded, %d skipped\n", s.Total, s.Loaded, s.Skipped)
	fmt.Printf("  datasets: %v\n", s.Datasets)
	fmt.Printf("  resolved: %.1f%%\n", s.ResolvedFraction*100)

	methods := make([]string, 0, len(s.MethodCounts))
	for method := range s.MethodCounts {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	for _, method := range methods {
		fmt.Printf("  %-14s %d\n", method, s.MethodCounts[method])
	}
}
