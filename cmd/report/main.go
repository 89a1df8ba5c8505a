// Command report generates the batted-ball and plate-discipline season
// report: it loads the traditional and Statcast leaderboard exports, joins
// them on (player_id, year), runs the aggregate queries, renders the two
// charts, and writes the HTML document with CSV and JSON copies of every
// table. The pipeline is a single linear pass; the first error aborts the
// run before any output is written.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"sabercli/internal/analytics"
	"sabercli/internal/chart"
	"sabercli/internal/config"
	"sabercli/internal/infrastructure"
	"sabercli/internal/ingest"
	"sabercli/internal/merge"
	"sabercli/internal/report"
	"sabercli/pkg/contracts"
)

func main() {
	traditionalPath := flag.String("traditional", "", "traditional stats export (.csv or .xlsx, defaults to <data_dir>/traditional_stats.csv)")
	statcastPath := flag.String("statcast", "", "statcast stats export (.csv or .xlsx, defaults to <data_dir>/statcast_stats.csv)")
	outputDir := flag.String("out", "", "output directory for the report (defaults to configured reports dir)")
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()
	logger := infrastructure.GetLogger()

	if *outputDir != "" {
		cfg.Paths.ReportsDir = *outputDir
		cfg.Paths.ChartsDir = filepath.Join(*outputDir, "charts")
	}
	if *traditionalPath == "" {
		*traditionalPath = filepath.Join(cfg.Paths.DataDir, "traditional_stats.csv")
	}
	if *statcastPath == "" {
		*statcastPath = filepath.Join(cfg.Paths.DataDir, "statcast_stats.csv")
	}

	if err := cfg.EnsureDirs(); err != nil {
		logger.Error("Failed to create output directories", "error", err)
		os.Exit(1)
	}

	if err := run(logger, cfg, *traditionalPath, *statcastPath); err != nil {
		logger.Error("Report generation failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg *config.Config, traditionalPath, statcastPath string) error {
	start := time.Now()
	logger.Info(contracts.GetVersionString(),
		slog.String("traditional", traditionalPath),
		slog.String("statcast", statcastPath))

	loader := ingest.NewLoader(logger)
	traditional, err := loader.Load(traditionalPath, ingest.SourceTraditional)
	if err != nil {
		return err
	}
	statcast, err := loader.Load(statcastPath, ingest.SourceStatcast)
	if err != nil {
		return err
	}

	merger := merge.NewMerger(logger, cfg.Report.ShortenedSeason)
	records, err := merger.Merge(traditional, statcast)
	if err != nil {
		return err
	}

	topOPS := analytics.TopOPSBySeasonPair(records,
		cfg.Report.CompareSeasonA, cfg.Report.CompareSeasonB, cfg.Report.TopN)
	seasonMeans := analytics.MeansByYear(records)
	surnames := analytics.SurnameCounts(records, cfg.Report.TopN)
	whiffTrend := analytics.WhiffByYear(records)

	renderer := chart.NewRenderer(logger)
	scatterPath := filepath.Join(cfg.Paths.ChartsDir, "barrel_home_runs.png")
	whiffPath := filepath.Join(cfg.Paths.ChartsDir, "whiff_by_season.png")
	if err := renderer.BarrelHomeRunScatter(records, scatterPath); err != nil {
		return err
	}
	if err := renderer.WhiffTrend(whiffTrend, whiffPath); err != nil {
		return err
	}

	gaps := 0
	for _, rec := range records {
		if merge.HasMissing(rec) {
			gaps++
		}
	}

	data := report.Data{
		RunID:           uuid.NewString(),
		GeneratedAt:     time.Now(),
		TraditionalRows: traditional.Nrow(),
		StatcastRows:    statcast.Nrow(),
		MergedRows:      len(records),
		DroppedRows:     traditional.Nrow() - len(records),
		RowsWithGaps:    gaps,
		ShortenedSeason: cfg.Report.ShortenedSeason,
		TopOPS:          topOPS,
		SeasonMeans:     seasonMeans,
		Surnames:        surnames,
		WhiffTrend:      whiffTrend,
		ScatterChart:    chartRef(cfg.Paths.ReportsDir, scatterPath),
		WhiffChart:      chartRef(cfg.Paths.ReportsDir, whiffPath),
	}

	builder := report.NewBuilder(logger)
	htmlPath := filepath.Join(cfg.Paths.ReportsDir, "season_report.html")
	if err := builder.WriteHTML(htmlPath, data); err != nil {
		return err
	}
	if err := builder.ExportTables(cfg.Paths.ReportsDir, data); err != nil {
		return err
	}
	if err := builder.WriteSummaryJSON(filepath.Join(cfg.Paths.ReportsDir, "season_report.json"), data); err != nil {
		return err
	}

	logger.Info("report generated",
		slog.String("report", htmlPath),
		slog.Int("merged_rows", len(records)),
		slog.Duration("elapsed", time.Since(start)))

	fmt.Printf("Report written to %s\n", htmlPath)
	return nil
}

// chartRef returns the image path to embed in the HTML document, relative to
// the report directory when possible.
func chartRef(reportsDir, chartPath string) string {
	rel, err := filepath.Rel(reportsDir, chartPath)
	if err != nil {
		return chartPath
	}
	return filepath.ToSlash(rel)
}
