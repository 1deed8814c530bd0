// Package pipeline orchestrates the end-to-end scoring run: ingest
// transactions, extract wallet features, score, and persist results.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"defi-credit-lab/internal/domain"
	"defi-credit-lab/internal/features"
	"defi-credit-lab/internal/observability"
	"defi-credit-lab/internal/scoring"
	"defi-credit-lab/internal/storage"
)

// ErrNoTransactions is returned when the pipeline has nothing to score.
var ErrNoTransactions = errors.New("no transactions to score")

// Options configures a Pipeline.
type Options struct {
	// Required stores
	TransactionStore storage.TransactionStore
	FeatureStore     storage.FeatureStore
	ScoreStore       storage.ScoreStore

	// Scoring configuration
	Scoring scoring.Options

	// Options
	Verbose bool
	Clock   func() int64 // ms; defaults to wall clock
}

// Pipeline runs the batch scoring flow against the configured stores.
type Pipeline struct {
	txStore      storage.TransactionStore
	featureStore storage.FeatureStore
	scoreStore   storage.ScoreStore
	opts         scoring.Options
	verbose      bool
	clock        func() int64
}

// New creates a new Pipeline.
func New(opts Options) *Pipeline {
	clock := opts.Clock
	if clock == nil {
		clock = func() int64 { return time.Now().UnixMilli() }
	}
	return &Pipeline{
		txStore:      opts.TransactionStore,
		featureStore: opts.FeatureStore,
		scoreStore:   opts.ScoreStore,
		opts:         opts.Scoring,
		verbose:      opts.Verbose,
		clock:        clock,
	}
}

// RunResult summarizes a pipeline run.
type RunResult struct {
	TransactionsProcessed int
	WalletsScored         int
	AnomaliesFlagged      int

	// RunVersion is a short content hash over the scored output; two runs
	// on identical input produce identical versions.
	RunVersion string

	Features []*domain.WalletFeatures
	Scores   []*domain.ScoreRecord
}

// Run executes the full scoring pipeline.
// Phases:
//  1. Load transactions from the store
//  2. Extract per-wallet features
//  3. Compute base scores
//  4. Apply risk adjustments (anomalies, clusters)
//  5. Normalize to [0, 1000] and persist
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}

	p.log("Phase 1: Loading transactions...")
	start := time.Now()
	txs, err := p.txStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("phase 1 (load transactions) failed: %w", err)
	}
	observability.ObservePipelinePhase("load", time.Since(start).Seconds())
	result.TransactionsProcessed = len(txs)
	p.log("  Found %d transactions", len(txs))

	if len(txs) == 0 {
		return nil, ErrNoTransactions
	}

	p.log("Phase 2: Extracting wallet features...")
	start = time.Now()
	feats, err := features.Extract(ctx, txs)
	if err != nil {
		return nil, fmt.Errorf("phase 2 (extract features) failed: %w", err)
	}
	if err := p.featureStore.PutBulk(ctx, feats); err != nil {
		return nil, fmt.Errorf("phase 2 (store features) failed: %w", err)
	}
	observability.ObservePipelinePhase("features", time.Since(start).Seconds())
	result.Features = feats
	p.log("  Extracted features for %d wallets", len(feats))

	p.log("Phase 3: Computing base scores...")
	start = time.Now()
	baseScores, _, scaled := scoring.BaseScores(feats)
	observability.ObservePipelinePhase("base_scores", time.Since(start).Seconds())

	p.log("Phase 4: Applying risk adjustments...")
	start = time.Now()
	adj := scoring.AdjustScores(feats, baseScores, scaled, p.opts)
	observability.ObservePipelinePhase("risk_adjust", time.Since(start).Seconds())
	for _, flagged := range adj.AnomalyFlags {
		if flagged {
			result.AnomaliesFlagged++
		}
	}
	p.log("  Flagged %d anomalous wallets", result.AnomaliesFlagged)

	p.log("Phase 5: Normalizing and persisting scores...")
	start = time.Now()
	final := scoring.NormalizeScores(adj.Scores, baseScores, p.opts)

	now := p.clock()
	records := make([]*domain.ScoreRecord, len(feats))
	for i, f := range feats {
		records[i] = &domain.ScoreRecord{
			WalletAddress:     f.WalletAddress,
			BaseScore:         baseScores[i],
			RiskAdjustedScore: adj.Scores[i],
			CreditScore:       final[i],
			ScoreCategory:     domain.CategorizeScore(final[i]),
			CreatedAt:         now,
		}
		observability.RecordScoreCategory(records[i].ScoreCategory)
	}

	if err := p.scoreStore.PutBulk(ctx, records); err != nil {
		return nil, fmt.Errorf("phase 5 (store scores) failed: %w", err)
	}
	observability.ObservePipelinePhase("normalize", time.Since(start).Seconds())

	result.WalletsScored = len(records)
	result.Scores = records
	result.RunVersion = computeRunVersion(records)
	observability.RecordWalletsScored(result.WalletsScored)
	observability.RecordAnomaliesFlagged(result.AnomaliesFlagged)
	p.log("  Scored %d wallets (run version %s)", result.WalletsScored, result.RunVersion)

	return result, nil
}

// computeRunVersion computes a SHA256 hash over the scored output for
// reproducibility checks. Rows are sorted by wallet so storage order cannot
// change the hash.
func computeRunVersion(records []*domain.ScoreRecord) string {
	var parts []string
	for _, r := range records {
		parts = append(parts, fmt.Sprintf("%s|%.6f|%.6f|%.6f|%s",
			r.WalletAddress, r.BaseScore, r.RiskAdjustedScore, r.CreditScore, r.ScoreCategory))
	}
	sort.Strings(parts)

	h := sha256.New()
	h.Write([]byte("SCORES\n"))
	h.Write([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(h.Sum(nil))[:12] // short hash
}

func (p *Pipeline) log(format string, args ...interface{}) {
	if p.verbose {
		log.Printf("[pipeline] "+format, args...)
	}
}
