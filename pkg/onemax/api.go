package onemax

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ncruces/go-strftime"

	"onemax/internal/evo"
	"onemax/internal/model"
	"onemax/internal/stats"
	"onemax/internal/storage"
)

const (
	defaultArtifactsDir = "runs"
	defaultExportsDir   = "exports"
	defaultDBPath       = "onemax.db"
	defaultRunsLimit    = 20
)

// GenerationStats and StatsSink are re-exported so callers outside this
// module can observe a run.
type (
	GenerationStats = model.GenerationStats
	RunConfig       = model.RunConfig
	StatsSink       = evo.StatsSink
	SinkFunc        = evo.SinkFunc
)

// ErrConfiguration matches every invalid run configuration.
var ErrConfiguration = evo.ErrConfiguration

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	ExportsDir   string
	Logger       *slog.Logger
}

type Client struct {
	store       storage.Store
	persistent  bool
	initialized bool
	logger      *slog.Logger

	artifactsDir string
	exportsDir   string
}

// RunRequest carries the engine parameters. Every field is validated as
// given, so start from DefaultRunRequest.
type RunRequest struct {
	GeneLength              int
	PopulationSize          int
	CrossoverProbability    float64
	MutationProbability     float64
	GeneMutationProbability float64
	MaxGenerations          int
	TournamentSize          int
	Seed                    int64
	Plot                    bool
	Sinks                   []StatsSink
}

type RunSummary struct {
	RunID        string
	ArtifactsDir string
	PlotPath     string
	Generations  int
	Reason       string
	BestFitness  int
	BestGenes    []int
	Stats        []GenerationStats
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID          string
	CreatedAtUTC   string
	Seed           int64
	GeneLength     int
	PopulationSize int
	Generations    int
	Reason         string
	BestFitness    int
}

type HistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

// RunHistory is a run's configuration and per-generation stats.
type RunHistory struct {
	RunID  string
	Config RunConfig
	Stats  []GenerationStats
}

type DeleteRequest struct {
	RunID string
}

type PlotRequest struct {
	RunID   string
	Latest  bool
	OutPath string
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func DefaultRunRequest() RunRequest {
	cfg := evo.DefaultConfig()
	return RunRequest{
		GeneLength:           cfg.GeneLength,
		PopulationSize:       cfg.PopulationSize,
		CrossoverProbability: cfg.CrossoverProbability,
		MutationProbability:  cfg.MutationProbability,
		MaxGenerations:       cfg.MaxGenerations,
		TournamentSize:       cfg.TournamentSize,
		Seed:                 cfg.Seed,
	}
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		persistent:   storeKind == "sqlite",
		logger:       logger.With("component", "onemax"),
		artifactsDir: artifactsDir,
		exportsDir:   exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.ensureInit(ctx)
}

// Reset clears stored run history and the run index. Per-run artifact
// directories stay on disk and remain reachable by run id.
func (c *Client) Reset(ctx context.Context) error {
	if err := c.ensureInit(ctx); err != nil {
		return err
	}
	if err := c.store.Reset(ctx); err != nil {
		return err
	}
	if err := stats.ResetRunIndex(c.artifactsDir); err != nil {
		return err
	}
	c.logger.Info("store reset")
	return nil
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	cfg := evo.Config{
		GeneLength:              req.GeneLength,
		PopulationSize:          req.PopulationSize,
		CrossoverProbability:    req.CrossoverProbability,
		MutationProbability:     req.MutationProbability,
		GeneMutationProbability: req.GeneMutationProbability,
		MaxGenerations:          req.MaxGenerations,
		TournamentSize:          req.TournamentSize,
		Seed:                    req.Seed,
	}
	loop, err := evo.NewLoop(cfg, evo.WithSinks(req.Sinks...))
	if err != nil {
		return RunSummary{}, err
	}
	if err := c.ensureInit(ctx); err != nil {
		return RunSummary{}, err
	}

	now := time.Now().UTC()
	runID := newRunID(now)
	logger := c.logger.With("run_id", runID)
	logger.Info("run started",
		"gene_length", cfg.GeneLength,
		"population_size", cfg.PopulationSize,
		"max_generations", cfg.MaxGenerations,
		"seed", cfg.Seed,
	)

	result, err := loop.Run(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		return RunSummary{}, fmt.Errorf("run %s: %w", runID, err)
	}
	best, ok := result.Best()
	if !ok {
		return RunSummary{}, fmt.Errorf("run %s: empty final population", runID)
	}

	record := model.RunRecord{
		VersionedRecord: storage.CurrentVersion(),
		ID:              runID,
		CreatedAtUTC:    now.Format(time.RFC3339Nano),
		Config:          cfg.Record(),
		Stats:           result.Stats,
		Generations:     result.Generations,
		Reason:          string(result.Reason),
		BestFitness:     best.Fitness(),
		BestGenes:       best.Bits(),
	}
	if err := c.store.SaveRun(ctx, record); err != nil {
		return RunSummary{}, fmt.Errorf("save run %s: %w", runID, err)
	}

	runDir, err := stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{
		RunID:  runID,
		Config: record.Config,
		Stats:  record.Stats,
		Summary: stats.RunSummary{
			RunID:        runID,
			Generations:  record.Generations,
			Reason:       record.Reason,
			BestFitness:  record.BestFitness,
			BestGenes:    record.BestGenes,
			CreatedAtUTC: record.CreatedAtUTC,
		},
	})
	if err != nil {
		return RunSummary{}, err
	}
	if err := stats.AppendRunIndex(c.artifactsDir, stats.RunIndexEntry{
		RunID:          runID,
		Seed:           cfg.Seed,
		GeneLength:     cfg.GeneLength,
		PopulationSize: cfg.PopulationSize,
		Generations:    record.Generations,
		Reason:         record.Reason,
		BestFitness:    record.BestFitness,
		CreatedAtUTC:   record.CreatedAtUTC,
	}); err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{
		RunID:        runID,
		ArtifactsDir: filepath.Clean(runDir),
		Generations:  record.Generations,
		Reason:       record.Reason,
		BestFitness:  record.BestFitness,
		BestGenes:    append([]int(nil), record.BestGenes...),
		Stats:        model.CloneStats(record.Stats),
	}
	if req.Plot {
		plotPath := filepath.Join(runDir, stats.PlotFile)
		switch err := stats.RenderFitnessPlot(record.Stats, plotPath); {
		case errors.Is(err, stats.ErrEmptyHistory):
			logger.Warn("plot skipped", "reason", err.Error())
		case err != nil:
			return RunSummary{}, fmt.Errorf("plot run %s: %w", runID, err)
		default:
			summary.PlotPath = filepath.Clean(plotPath)
		}
	}

	logger.Info("run completed",
		"generations", summary.Generations,
		"reason", summary.Reason,
		"best_fitness", summary.BestFitness,
		"draws", result.Draws,
	)
	return summary, nil
}

// Runs lists runs newest first. A persistent store is authoritative;
// otherwise the on-disk run index is used.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = defaultRunsLimit
	}

	if c.persistent {
		if err := c.ensureInit(ctx); err != nil {
			return nil, err
		}
		summaries, err := c.store.ListRuns(ctx, req.Limit)
		if err != nil {
			return nil, err
		}
		out := make([]RunItem, 0, len(summaries))
		for _, s := range summaries {
			out = append(out, RunItem{
				RunID:          s.ID,
				CreatedAtUTC:   s.CreatedAtUTC,
				Seed:           s.Seed,
				GeneLength:     s.GeneLength,
				PopulationSize: s.PopulationSize,
				Generations:    s.Generations,
				Reason:         s.Reason,
				BestFitness:    s.BestFitness,
			})
		}
		return out, nil
	}

	entries, err := stats.ListRunIndex(c.artifactsDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:          e.RunID,
			CreatedAtUTC:   e.CreatedAtUTC,
			Seed:           e.Seed,
			GeneLength:     e.GeneLength,
			PopulationSize: e.PopulationSize,
			Generations:    e.Generations,
			Reason:         e.Reason,
			BestFitness:    e.BestFitness,
		})
	}
	return out, nil
}

// History returns a run's config and per-generation stats, reading the
// store first and the run artifacts second.
func (c *Client) History(ctx context.Context, req HistoryRequest) (RunHistory, error) {
	if req.Limit < 0 {
		return RunHistory{}, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(req.RunID, req.Latest, "history")
	if err != nil {
		return RunHistory{}, err
	}
	history, err := c.loadHistory(ctx, runID)
	if err != nil {
		return RunHistory{}, err
	}
	if req.Limit > 0 && len(history.Stats) > req.Limit {
		history.Stats = history.Stats[:req.Limit]
	}
	return history, nil
}

// Delete removes a run from the store together with its artifacts and
// index entry.
func (c *Client) Delete(ctx context.Context, req DeleteRequest) error {
	if req.RunID == "" {
		return errors.New("delete requires run id")
	}
	if err := c.ensureInit(ctx); err != nil {
		return err
	}
	_, stored, err := c.store.GetRun(ctx, req.RunID)
	if err != nil {
		return err
	}
	if err := c.store.DeleteRun(ctx, req.RunID); err != nil {
		return fmt.Errorf("delete run %s: %w", req.RunID, err)
	}
	removed, err := stats.RemoveRunArtifacts(c.artifactsDir, req.RunID)
	if err != nil {
		return fmt.Errorf("delete run %s artifacts: %w", req.RunID, err)
	}
	if !stored && !removed {
		return fmt.Errorf("run not found: %s", req.RunID)
	}
	c.logger.Info("run deleted", "run_id", req.RunID)
	return nil
}

func (c *Client) Plot(ctx context.Context, req PlotRequest) (string, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, "plot")
	if err != nil {
		return "", err
	}
	history, err := c.loadHistory(ctx, runID)
	if err != nil {
		return "", err
	}
	outPath := req.OutPath
	if outPath == "" {
		outPath = filepath.Join(c.artifactsDir, runID, stats.PlotFile)
	}
	if err := stats.RenderFitnessPlot(history.Stats, outPath); err != nil {
		return "", fmt.Errorf("plot run %s: %w", runID, err)
	}
	c.logger.Info("plot written", "run_id", runID, "path", outPath)
	return filepath.Clean(outPath), nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, "export")
	if err != nil {
		return ExportSummary{}, err
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}
	exportedDir, err := stats.ExportRunArtifacts(c.artifactsDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) loadHistory(ctx context.Context, runID string) (RunHistory, error) {
	if err := c.ensureInit(ctx); err != nil {
		return RunHistory{}, err
	}
	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return RunHistory{}, err
	}
	if ok {
		return RunHistory{RunID: runID, Config: run.Config, Stats: run.Stats}, nil
	}

	history, ok, err := stats.ReadGenerationStats(c.artifactsDir, runID)
	if err != nil {
		return RunHistory{}, err
	}
	if !ok {
		return RunHistory{}, fmt.Errorf("fitness history not found for run id: %s", runID)
	}
	cfg, _, err := stats.ReadRunConfig(c.artifactsDir, runID)
	if err != nil {
		return RunHistory{}, err
	}
	return RunHistory{RunID: runID, Config: cfg, Stats: history}, nil
}

func (c *Client) resolveRunID(runID string, latest bool, op string) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if !latest {
		if runID == "" {
			return "", fmt.Errorf("%s requires run id or latest", op)
		}
		return runID, nil
	}
	entries, err := stats.ListRunIndex(c.artifactsDir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("no runs available")
	}
	return entries[0].RunID, nil
}

func (c *Client) ensureInit(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	c.initialized = true
	return nil
}

func newRunID(now time.Time) string {
	return fmt.Sprintf("onemax-%s-%s", strftime.Format("%Y%m%d-%H%M%S", now), uuid.NewString()[:8])
}
