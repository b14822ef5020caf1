package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"

	"onemax/internal/report"
	"onemax/internal/storage"
	"onemax/internal/telemetry"
	"onemax/pkg/onemax"
)

const (
	defaultArtifactsDir = "runs"
	defaultExportsDir   = "exports"
	defaultDBPath       = "onemax.db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "history":
		return runHistory(ctx, args[1:])
	case "plot":
		return runPlot(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	case "delete":
		return runDelete(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

// clientFlags are shared by every subcommand that opens a client.
type clientFlags struct {
	storeKind    *string
	dbPath       *string
	artifactsDir *string
	logLevel     *string
}

func registerClientFlags(fs *flag.FlagSet) clientFlags {
	return clientFlags{
		storeKind:    fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite"),
		dbPath:       fs.String("db-path", defaultDBPath, "sqlite database path"),
		artifactsDir: fs.String("artifacts-dir", defaultArtifactsDir, "directory for run artifacts and the run index"),
		logLevel:     fs.String("log-level", "warn", "log level: debug|info|warn|error"),
	}
}

func (f clientFlags) open() (*onemax.Client, *slog.Logger, error) {
	logger, err := newLogger(*f.logLevel)
	if err != nil {
		return nil, nil, err
	}
	client, err := onemax.New(onemax.Options{
		StoreKind:    *f.storeKind,
		DBPath:       *f.dbPath,
		ArtifactsDir: *f.artifactsDir,
		ExportsDir:   defaultExportsDir,
		Logger:       logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return client, logger, nil
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	common := registerClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := common.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *common.storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	common := registerClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := common.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Reset(ctx); err != nil {
		return err
	}

	fmt.Printf("reset store=%s run_index=cleared\n", *common.storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	defaults := onemax.DefaultRunRequest()

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config JSON path")
	geneLength := fs.Int("gene-length", defaults.GeneLength, "number of genes per individual")
	population := fs.Int("pop", defaults.PopulationSize, "population size")
	crossoverProb := fs.Float64("crossover-prob", defaults.CrossoverProbability, "probability that a pair is recombined")
	mutationProb := fs.Float64("mutation-prob", defaults.MutationProbability, "probability that an individual is considered for mutation")
	geneMutationProb := fs.Float64("gene-mutation-prob", 0, "per-gene flip probability; 0 uses 1/gene-length, use -mutation-prob 0 to disable mutation")
	generations := fs.Int("gens", defaults.MaxGenerations, "maximum generation count")
	tournamentSize := fs.Int("tournament-size", defaults.TournamentSize, "tournament size")
	seed := fs.Int64("seed", defaults.Seed, "rng seed")
	plot := fs.Bool("plot", false, "render a fitness chart next to the run artifacts")
	formatName := fs.String("format", string(report.FormatAuto), "console format: auto|text|json")
	quiet := fs.Bool("quiet", false, "suppress per-generation console output")
	metricsAddr := fs.String("metrics-addr", "", "serve prometheus metrics on this address during the run")
	natsURL := fs.String("nats-url", "", "publish generation stats to this NATS server")
	natsSubject := fs.String("nats-subject", telemetry.DefaultSubject, "NATS subject for generation stats")
	common := registerClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return err
	}
	overrideFromFlags(&req, setFlags, map[string]any{
		"gene-length":        *geneLength,
		"pop":                *population,
		"crossover-prob":     *crossoverProb,
		"mutation-prob":      *mutationProb,
		"gene-mutation-prob": *geneMutationProb,
		"gens":               *generations,
		"tournament-size":    *tournamentSize,
		"seed":               *seed,
		"plot":               *plot,
	})

	format, err := report.ParseFormat(*formatName)
	if err != nil {
		return err
	}
	format = report.Resolve(format, os.Stdout)

	client, logger, err := common.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if !*quiet {
		req.Sinks = append(req.Sinks, report.NewConsole(os.Stdout, format))
	}

	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics, err := telemetry.NewMetrics(reg)
		if err != nil {
			return err
		}
		shutdown, err := serveMetrics(*metricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer shutdown()
		req.Sinks = append(req.Sinks, metrics)
	}

	if *natsURL != "" {
		nc, err := telemetry.ConnectNATS(*natsURL, "onemaxctl", logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := nc.Flush(); err != nil {
				logger.Warn("nats flush failed", "error", err)
			}
			nc.Close()
		}()
		publisher, err := telemetry.NewNATSPublisher(nc, *natsSubject)
		if err != nil {
			return err
		}
		logger.Info("publishing generation stats", "subject", publisher.Subject())
		req.Sinks = append(req.Sinks, publisher)
	}

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	if format == report.FormatJSON {
		return json.NewEncoder(os.Stdout).Encode(runSummaryLine{
			RunID:        summary.RunID,
			Generations:  summary.Generations,
			Reason:       summary.Reason,
			BestFitness:  summary.BestFitness,
			Best:         report.FormatGenes(summary.BestGenes),
			ArtifactsDir: summary.ArtifactsDir,
			PlotPath:     summary.PlotPath,
		})
	}
	fmt.Printf("run_id=%s generations=%d reason=%s best_fitness=%d artifacts=%s\n",
		summary.RunID,
		summary.Generations,
		summary.Reason,
		summary.BestFitness,
		summary.ArtifactsDir,
	)
	fmt.Printf("Best individual = %s\n", report.FormatGenes(summary.BestGenes))
	if summary.PlotPath != "" {
		fmt.Printf("plot=%s\n", summary.PlotPath)
	}
	return nil
}

type runSummaryLine struct {
	RunID        string `json:"run_id"`
	Generations  int    `json:"generations"`
	Reason       string `json:"reason"`
	BestFitness  int    `json:"best_fitness"`
	Best         string `json:"best"`
	ArtifactsDir string `json:"artifacts_dir"`
	PlotPath     string `json:"plot_path,omitempty"`
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	common := registerClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, _, err := common.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, onemax.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		type runsItem struct {
			RunID          string `json:"run_id"`
			CreatedAtUTC   string `json:"created_at_utc"`
			Seed           int64  `json:"seed"`
			GeneLength     int    `json:"gene_length"`
			PopulationSize int    `json:"population_size"`
			Generations    int    `json:"generations"`
			Reason         string `json:"reason"`
			BestFitness    int    `json:"best_fitness"`
		}
		out := make([]runsItem, 0, len(items))
		for _, item := range items {
			out = append(out, runsItem(item))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if len(items) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	for _, item := range items {
		fmt.Printf("run_id=%s created=%s seed=%d genes=%s pop=%s gens=%d reason=%s best_fitness=%d\n",
			item.RunID,
			createdAgo(item.CreatedAtUTC),
			item.Seed,
			humanize.Comma(int64(item.GeneLength)),
			humanize.Comma(int64(item.PopulationSize)),
			item.Generations,
			item.Reason,
			item.BestFitness,
		)
	}
	return nil
}

func runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	limit := fs.Int("limit", 0, "max generations to show (0 shows all)")
	jsonOut := fs.Bool("json", false, "emit history as JSON")
	common := registerClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := common.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.History(ctx, onemax.HistoryRequest{RunID: *runID, Latest: *latest, Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(historyDoc{RunID: history.RunID, Config: history.Config, Stats: history.Stats})
	}
	cfg := history.Config
	fmt.Printf("run_id=%s genes=%s pop=%s crossover=%g mutation=%g seed=%d\n",
		history.RunID,
		humanize.Comma(int64(cfg.GeneLength)),
		humanize.Comma(int64(cfg.PopulationSize)),
		cfg.CrossoverProbability,
		cfg.MutationProbability,
		cfg.Seed,
	)
	console := report.NewConsole(os.Stdout, report.FormatText)
	for _, s := range history.Stats {
		if err := console.Publish(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

type historyDoc struct {
	RunID  string                   `json:"run_id"`
	Config onemax.RunConfig         `json:"config"`
	Stats  []onemax.GenerationStats `json:"stats"`
}

func runPlot(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	outPath := fs.String("out", "", "output image path; .png, .svg or .pdf (defaults to the run artifacts directory)")
	common := registerClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := common.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	path, err := client.Plot(ctx, onemax.PlotRequest{RunID: *runID, Latest: *latest, OutPath: *outPath})
	if err != nil {
		return err
	}
	fmt.Printf("plot=%s\n", path)
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run")
	outDir := fs.String("out", defaultExportsDir, "export directory")
	common := registerClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := common.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	exported, err := client.Export(ctx, onemax.ExportRequest{RunID: *runID, Latest: *latest, OutDir: *outDir})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s dir=%s\n", exported.RunID, exported.Directory)
	return nil
}

func runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	common := registerClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("delete requires --run-id")
	}

	client, _, err := common.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Delete(ctx, onemax.DeleteRequest{RunID: *runID}); err != nil {
		return err
	}
	fmt.Printf("deleted run_id=%s\n", *runID)
	return nil
}

func serveMetrics(addr string, gatherer prometheus.Gatherer, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.Handler(gatherer))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	logger.Info("metrics listening", "addr", ln.Addr().String())
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func createdAgo(raw string) string {
	created, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return raw
	}
	return strings.ReplaceAll(humanize.Time(created), " ", "_")
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: onemaxctl <init|reset|run|runs|history|plot|export|delete> [flags]\n"+
		"  reset clears the store and the run index; run directories stay on disk", msg)
}
