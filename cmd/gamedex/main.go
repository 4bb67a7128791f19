package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"gamedex/internal"
	"gamedex/internal/config"
	"gamedex/internal/gemini"
	"gamedex/internal/logger"
	"gamedex/internal/pipeline"
	"gamedex/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	log := logger.New()

	cmd := os.Args[1]
	switch cmd {
	case "enrich":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input file path")
		inType := fs.String("type", "csv", "csv|xlsx|html|pdf")
		output := fs.String("output", "", "output path (.csv or .xlsx)")
		delayMs := fs.Int("delay-ms", cfg.GeminiDelayMs, "pause after every model call, in ms")
		limit := fs.Int("limit", 0, "enrich only the first N rows (0 = all)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" || strings.TrimSpace(*output) == "" {
			must(fmt.Errorf("--input and --output are required"))
		}
		must(cfg.Require("GOOGLE_API_KEY", cfg.GoogleAPIKey))

		ds, err := pipeline.LoadDataset(*inType, *input)
		must(err)
		if *limit > 0 && *limit < len(ds.Rows) {
			ds.Rows = ds.Rows[:*limit]
		}

		runID := uuid.New().String()
		runLog := log.WithRun(runID)
		runLog.WithField("rows", len(ds.Rows)).WithField("model", cfg.GeminiModel).Info("enrichment started")

		enricher := pipeline.NewEnricher(gemini.NewClient(cfg), time.Duration(*delayMs)*time.Millisecond)
		enricher.OnEvent = func(ev internal.RowEvent) {
			entry := runLog.
				WithField("row", ev.Index+1).
				WithField("total", ev.Total).
				WithField("title", ev.Title).
				WithField(string(ev.Kind), ev.Value)
			if ev.Fallback {
				entry.WithField("error", ev.Err.Error()).Warn("query failed, fallback recorded")
				return
			}
			entry.Info("attribute resolved")
		}

		start := time.Now()
		enriched, counts := enricher.Enrich(context.Background(), ds)
		must(exportByExtension(enriched, *output))

		timings := map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}
		must(db.InsertRun(runID, *input, *output, cfg.GeminiModel, enriched, counts, timings))
		_ = db.SetMetadata("last_run_id", runID)

		fmt.Printf("enrich done runId=%s rows=%d queries=%d fallbacks=%d output=%s\n",
			runID, counts.Rows, counts.Queries, counts.Fallbacks, *output)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		runID := fs.String("run-id", "", "archived run id (default: last run)")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		id := strings.TrimSpace(*runID)
		if id == "" {
			last, err := db.GetMetadata("last_run_id")
			must(err)
			if last == nil {
				must(fmt.Errorf("no archived runs; pass --run-id"))
			}
			id = *last
		}
		ds, err := db.GetRunDataset(id)
		must(err)
		must(pipeline.ExportXLSX(ds, *out))
		fmt.Printf("exported %d rows to %s\n", len(ds.Rows), *out)
	case "runs:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs to list")
		_ = fs.Parse(os.Args[2:])
		runs, err := db.ListRuns(*limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%s  %s  rows=%d  model=%s  input=%s  output=%s\n",
				r.CreatedAt, r.ID, r.RowCount, r.Model, r.InputRef, r.OutputRef)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func exportByExtension(ds internal.EnrichedDataset, outputPath string) error {
	if strings.EqualFold(filepath.Ext(outputPath), ".xlsx") {
		return pipeline.ExportXLSX(ds, outputPath)
	}
	return pipeline.ExportCSV(ds, outputPath)
}

func usage() {
	fmt.Println("usage: gamedex <command>")
	fmt.Println("commands:")
	fmt.Println("  enrich --input=games.csv --type=csv|xlsx|html|pdf --output=out/games_enriched.csv [--delay-ms=5000] [--limit=0]")
	fmt.Println("  export:xlsx [--run-id=...] --out=./out/result.xlsx")
	fmt.Println("  runs:list [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
