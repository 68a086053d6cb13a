// Package pipeline orchestrates one whole-dataset batch run:
// events → features → baseline scores → calibration → published scores,
// artifacts and report files. The run is a single logical pass: batch-level
// failures abort before anything is published, so a partial score table
// never exists.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"wallet-credit-lab/internal/calibration"
	"wallet-credit-lab/internal/calibration/gbt"
	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/explain"
	"wallet-credit-lab/internal/features"
	"wallet-credit-lab/internal/observability"
	"wallet-credit-lab/internal/reporting"
	"wallet-credit-lab/internal/scoring"
	"wallet-credit-lab/internal/storage"
)

// Output file names within the output directory.
const (
	ScoresFile      = "wallet_scores.csv"
	FeaturesFile    = "wallet_features.csv"
	AttributionFile = "feature_attribution.csv"
	ReportFile      = "SCORE_REPORT.md"
)

// Options configures a batch run. Rules and ModelParams are immutable
// values; FeatureStore is optional.
type Options struct {
	EventStore   storage.EventStore
	FeatureStore storage.FeatureStore
	ScoreStore   storage.ScoreStore

	Rules       scoring.RiskRules
	ModelParams gbt.Params

	OutputDir string
	Workers   int // feature-extraction parallelism; <= 0 selects GOMAXPROCS
	Verbose   bool
}

// Pipeline executes batch scoring runs.
type Pipeline struct {
	opts  Options
	clock func() time.Time
}

// New creates a pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{
		opts:  opts,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic report output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// Result summarizes a completed run.
type Result struct {
	Events         int
	Wallets        int
	SanitizedCells int
	Records        []*domain.ScoreRecord
}

// Run executes the full batch and writes output files:
//   - wallet_scores.csv
//   - wallet_features.csv
//   - feature_attribution.csv
//   - SCORE_REPORT.md
//   - credit_model.json, scaler.json (fitted artifacts)
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := p.clock()
	res, err := p.run(ctx)
	status := "success"
	if err != nil {
		status = "error"
	}
	observability.RecordPipelineRun(status, p.clock().Sub(start).Seconds())
	return res, err
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	events, err := p.opts.EventStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	p.logf("loaded %d events", len(events))

	extractStart := p.clock()
	extractor := features.NewExtractor(p.opts.Workers)
	vectors, err := extractor.Extract(ctx, events)
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}
	observability.DefaultMetrics.ExtractionDuration.Observe(p.clock().Sub(extractStart).Seconds())
	observability.RecordWalletsExtracted(len(vectors))
	p.logf("extracted features for %d wallets", len(vectors))

	if p.opts.FeatureStore != nil {
		if err := p.opts.FeatureStore.InsertBulk(ctx, vectors); err != nil {
			return nil, fmt.Errorf("store features: %w", err)
		}
	}

	baseScores := scoring.BaseScoreBatch(vectors, p.opts.Rules)

	calStart := p.clock()
	calibrated, err := calibration.Calibrate(vectors, baseScores, p.opts.ModelParams)
	if err != nil {
		return nil, err
	}
	observability.DefaultMetrics.CalibrationDuration.Observe(p.clock().Sub(calStart).Seconds())
	observability.RecordSanitizedCells(calibrated.SanitizedCells)

	if err := p.opts.ScoreStore.InsertBulk(ctx, calibrated.Records); err != nil {
		return nil, fmt.Errorf("publish scores: %w", err)
	}
	observability.RecordScoresPublished(len(calibrated.Records))
	p.logf("published %d score records", len(calibrated.Records))

	if err := p.writeOutputs(events, vectors, calibrated); err != nil {
		return nil, err
	}

	return &Result{
		Events:         len(events),
		Wallets:        len(vectors),
		SanitizedCells: calibrated.SanitizedCells,
		Records:        calibrated.Records,
	}, nil
}

func (p *Pipeline) writeOutputs(
	events []*domain.LedgerEvent,
	vectors []*domain.WalletFeatureVector,
	calibrated *calibration.Result,
) error {
	if err := os.MkdirAll(p.opts.OutputDir, 0755); err != nil {
		return err
	}

	reporter := explain.NewReporter(calibrated.Model, calibrated.Scaler)
	attribution, err := reporter.GlobalAttribution()
	if err != nil {
		return fmt.Errorf("compute attribution: %w", err)
	}

	files := map[string]string{
		ScoresFile:      reporting.RenderScoresCSV(calibrated.Records),
		FeaturesFile:    reporting.RenderFeaturesCSV(vectors),
		AttributionFile: reporting.RenderAttributionCSV(attribution),
		ReportFile:      reporting.RenderMarkdown(p.buildReport(events, calibrated, attribution)),
	}
	for name, content := range files {
		path := filepath.Join(p.opts.OutputDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	if err := calibration.SaveArtifacts(p.opts.OutputDir, calibrated.Model, calibrated.Scaler); err != nil {
		return err
	}

	observability.DefaultMetrics.ReportsGenerated.Inc()
	return nil
}

func (p *Pipeline) buildReport(
	events []*domain.LedgerEvent,
	calibrated *calibration.Result,
	attribution []explain.FeatureAttribution,
) *reporting.Report {
	report := &reporting.Report{
		GeneratedAt:    p.clock(),
		TotalEvents:    len(events),
		TotalWallets:   len(calibrated.Records),
		SanitizedCells: calibrated.SanitizedCells,
		Distribution:   explain.SummarizeScores(calibrated.Records),
		Attribution:    attribution,
		DataVersion:    computeDataVersion(calibrated.Records),
		ReplayCommand:  "go run cmd/score/main.go --input <snapshot.json>",
	}

	for _, e := range events {
		if report.DateRangeStart == 0 || e.Timestamp < report.DateRangeStart {
			report.DateRangeStart = e.Timestamp
		}
		if e.Timestamp > report.DateRangeEnd {
			report.DateRangeEnd = e.Timestamp
		}
	}

	report.TopWallets = rankWallets(calibrated.Records, 5, true)
	report.BottomWallets = rankWallets(calibrated.Records, 5, false)
	return report
}

// rankWallets returns the n highest (desc) or lowest (asc) scored wallets,
// with wallet id as tie-break for deterministic output.
func rankWallets(records []*domain.ScoreRecord, n int, top bool) []reporting.ScoreRow {
	sorted := make([]*domain.ScoreRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].CreditScore != sorted[j].CreditScore {
			if top {
				return sorted[i].CreditScore > sorted[j].CreditScore
			}
			return sorted[i].CreditScore < sorted[j].CreditScore
		}
		return sorted[i].WalletID < sorted[j].WalletID
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	rows := make([]reporting.ScoreRow, n)
	for i := 0; i < n; i++ {
		rows[i] = reporting.ScoreRow{WalletID: sorted[i].WalletID, CreditScore: sorted[i].CreditScore}
	}
	return rows
}

// computeDataVersion computes a short SHA256 hash over the published score
// table so identical reruns can be recognized.
func computeDataVersion(records []*domain.ScoreRecord) string {
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = fmt.Sprintf("%s|%d|%d", r.WalletID, r.BaseScore, r.CreditScore)
	}
	sort.Strings(parts)

	h := sha256.New()
	h.Write([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(h.Sum(nil))[:12]
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.opts.Verbose {
		fmt.Printf(format+"\n", args...)
	}
}
