// Package main provides the batch credit-scoring entry point.
// Executes: normalization → feature extraction → baseline → calibration → reporting
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wallet-credit-lab/internal/calibration/gbt"
	"wallet-credit-lab/internal/normalization"
	"wallet-credit-lab/internal/observability"
	"wallet-credit-lab/internal/pipeline"
	"wallet-credit-lab/internal/scoring"
	"wallet-credit-lab/internal/storage"
	chstore "wallet-credit-lab/internal/storage/clickhouse"
	"wallet-credit-lab/internal/storage/memory"
	pgstore "wallet-credit-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	input := flag.String("input", "", "Path to raw transaction snapshot (JSON array)")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (empty for in-memory)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (empty to skip feature store)")
	workers := flag.Int("workers", 0, "Feature extraction workers (0 = GOMAXPROCS)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: score --input <snapshot.json> [--output-dir <dir>]")
		os.Exit(1)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling run...\n", sig)
		cancel()
	}()

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "Metrics server error: %v\n", err)
			}
		}()
	}

	// Normalize raw snapshot
	fmt.Println("=== Credit Scoring Run ===")
	events, err := normalization.LoadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading snapshot: %v\n", err)
		os.Exit(1)
	}
	observability.RecordEventsNormalized(len(events))
	fmt.Printf("Normalized %d events from %s\n", len(events), *input)

	// Create stores
	var eventStore storage.EventStore
	var scoreStore storage.ScoreStore
	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to PostgreSQL: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		eventStore = pgstore.NewEventStore(pool)
		scoreStore = pgstore.NewScoreStore(pool)
	} else {
		eventStore = memory.NewEventStore()
		scoreStore = memory.NewScoreStore()
	}

	var featureStore storage.FeatureStore
	if *clickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to ClickHouse: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()
		featureStore = chstore.NewFeatureStore(conn)
	}

	if err := eventStore.InsertBulk(ctx, events); err != nil {
		fmt.Fprintf(os.Stderr, "Error storing events: %v\n", err)
		os.Exit(1)
	}

	// Run the pipeline
	p := pipeline.New(pipeline.Options{
		EventStore:   eventStore,
		FeatureStore: featureStore,
		ScoreStore:   scoreStore,
		Rules:        scoring.DefaultRules(),
		ModelParams:  gbt.DefaultParams(),
		OutputDir:    *outputDir,
		Workers:      *workers,
		Verbose:      *verbose,
	})

	result, err := p.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Run completed:\n")
	fmt.Printf("  Events:          %d\n", result.Events)
	fmt.Printf("  Wallets scored:  %d\n", result.Wallets)
	fmt.Printf("  Sanitized cells: %d\n", result.SanitizedCells)
	fmt.Printf("  Output:          %s\n", *outputDir)
}
