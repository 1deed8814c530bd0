// Package main provides the batch credit scoring entry point.
// Executes: ingestion → feature extraction → scoring → reporting
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"defi-credit-lab/internal/config"
	"defi-credit-lab/internal/domain"
	"defi-credit-lab/internal/ingestion"
	"defi-credit-lab/internal/observability"
	"defi-credit-lab/internal/pipeline"
	"defi-credit-lab/internal/reporting"
	"defi-credit-lab/internal/storage"
	"defi-credit-lab/internal/storage/clickhouse"
	"defi-credit-lab/internal/storage/memory"
	"defi-credit-lab/internal/storage/migrations"
	"defi-credit-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	input := flag.String("input", "", "Input JSON file with transaction data (required)")
	output := flag.String("output", "wallet_scores.csv", "Output CSV file for scores")
	reportDir := flag.String("report-dir", "", "Directory for the markdown analysis report (skipped if empty)")
	configPath := flag.String("config", "", "YAML config file")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL DSN for durable storage (memory store if empty)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse DSN for the feature store (memory store if empty)")
	metricsAddr := flag.String("metrics-addr", "", "Address to serve Prometheus metrics, e.g. :9091")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: --input is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	// Flags win over config file and environment.
	if *postgresDSN != "" {
		cfg.PostgresDSN = *postgresDSN
	}
	if *clickhouseDSN != "" {
		cfg.ClickhouseDSN = *clickhouseDSN
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *verbose {
		cfg.Verbose = true
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling run...\n", sig)
		cancel()
	}()

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				fmt.Fprintf(os.Stderr, "Metrics server error: %v\n", err)
			}
		}()
	}

	fmt.Println("=== DeFi Credit Scoring ===")
	fmt.Printf("Input file: %s\n", *input)
	fmt.Printf("Output file: %s\n", *output)

	// Ingestion
	loader := &ingestion.Loader{Verbose: cfg.Verbose}
	txs, err := loader.LoadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		os.Exit(1)
	}
	if len(txs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: input contains no usable transactions")
		os.Exit(1)
	}
	observability.RecordTransactionsLoaded(len(txs))
	observability.RecordTransactionsSkipped(loader.Skipped)

	printDataSummary(ingestion.Summarize(txs))

	// Stores
	txStore, featureStore, scoreStore, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting storage: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := txStore.InsertBulk(ctx, txs); err != nil {
		fmt.Fprintf(os.Stderr, "Error storing transactions: %v\n", err)
		os.Exit(1)
	}

	// Scoring pipeline
	p := pipeline.New(pipeline.Options{
		TransactionStore: txStore,
		FeatureStore:     featureStore,
		ScoreStore:       scoreStore,
		Scoring:          cfg.Scoring,
		Verbose:          cfg.Verbose,
	})

	result, err := p.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}

	// CSV output
	rows := reporting.BuildScoreRows(result.Scores, result.Features)
	if err := os.WriteFile(*output, []byte(reporting.RenderScoresCSV(rows)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing scores CSV: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Results saved to %s\n", *output)

	// Markdown analysis report
	if *reportDir != "" {
		report := reporting.BuildReport(result.Scores, result.Features, result.RunVersion, time.Now().UnixMilli())
		path := filepath.Join(*reportDir, "analysis.md")
		if err := os.MkdirAll(*reportDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating report dir: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(path, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing analysis report: %v\n", err)
			os.Exit(1)
		}
		observability.DefaultMetrics.ReportsGenerated.Inc()
		fmt.Printf("Analysis report saved to %s\n", path)
	}

	printScoringSummary(result)
}

// buildStores selects storage backends from configuration: PostgreSQL for
// transactions and scores, ClickHouse for features, memory for whichever DSN
// is absent.
func buildStores(ctx context.Context, cfg config.Config) (storage.TransactionStore, storage.FeatureStore, storage.ScoreStore, func(), error) {
	var (
		txStore      storage.TransactionStore = memory.NewTransactionStore()
		featureStore storage.FeatureStore     = memory.NewFeatureStore()
		scoreStore   storage.ScoreStore       = memory.NewScoreStore()
		cleanups     []func()
	)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if cfg.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, cleanup, err
		}
		cleanups = append(cleanups, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			cleanup()
			return nil, nil, nil, func() {}, err
		}
		txStore = postgres.NewTransactionStore(pool)
		scoreStore = postgres.NewScoreStore(pool)
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			cleanup()
			return nil, nil, nil, func() {}, err
		}
		cleanups = append(cleanups, func() { conn.Close() })
		featureStore = clickhouse.NewFeatureStore(conn)
	}

	return txStore, featureStore, scoreStore, cleanup, nil
}

func printDataSummary(s *ingestion.DataSummary) {
	fmt.Println("\n=== DATA SUMMARY ===")
	fmt.Printf("Total transactions: %d\n", s.TotalTransactions)
	fmt.Printf("Unique wallets: %d\n", s.UniqueWallets)
	fmt.Printf("Unique assets: %d\n", s.UniqueAssets)
	if s.StartTimestamp > 0 {
		fmt.Printf("Date range: %s to %s\n",
			time.UnixMilli(s.StartTimestamp).UTC().Format("2006-01-02"),
			time.UnixMilli(s.EndTimestamp).UTC().Format("2006-01-02"))
	}
	fmt.Printf("Total USD volume: %.2f\n", s.TotalUSDVolume)
	fmt.Printf("Average transaction USD: %.2f\n", s.AvgTransactionUSD)
	if len(s.TopAssets) > 0 {
		fmt.Println("Top assets:")
		for _, a := range s.TopAssets {
			fmt.Printf("  %s: %d\n", a.Asset, a.Count)
		}
	}
	fmt.Println()
}

func printScoringSummary(result *pipeline.RunResult) {
	fmt.Println("\n=== SCORING SUMMARY ===")
	fmt.Printf("Total wallets scored: %d\n", result.WalletsScored)
	fmt.Printf("Anomalies flagged: %d\n", result.AnomaliesFlagged)
	fmt.Printf("Run version: %s\n", result.RunVersion)

	if len(result.Scores) == 0 {
		return
	}

	var sum float64
	values := make([]float64, len(result.Scores))
	counts := make(map[string]int)
	for i, r := range result.Scores {
		sum += r.CreditScore
		values[i] = r.CreditScore
		counts[r.ScoreCategory]++
	}
	sort.Float64s(values)

	median := values[len(values)/2]
	if len(values)%2 == 0 {
		median = (values[len(values)/2-1] + values[len(values)/2]) / 2
	}
	fmt.Printf("Average credit score: %.1f\n", sum/float64(len(values)))
	fmt.Printf("Median credit score: %.1f\n", median)

	fmt.Println("\nScore distribution:")
	for _, category := range []string{
		domain.CategoryExcellent, domain.CategoryGood, domain.CategoryFair,
		domain.CategoryPoor, domain.CategoryVeryPoor,
	} {
		if count, ok := counts[category]; ok {
			fmt.Printf("  %s: %d\n", category, count)
		}
	}
}
