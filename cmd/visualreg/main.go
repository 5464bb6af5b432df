package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/visualreg/internal/capture"
	"github.com/aleister1102/visualreg/internal/config"
	"github.com/aleister1102/visualreg/internal/datastore"
	"github.com/aleister1102/visualreg/internal/differ"
	"github.com/aleister1102/visualreg/internal/logger"
	"github.com/aleister1102/visualreg/internal/models"
	"github.com/rs/zerolog"
)

func main() {
	fmt.Println("VisualReg starting...")

	// Flags
	configFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := flag.String("c", "", "Alias for -config")

	baselineURL := flag.String("baseline-url", "", "URL to capture as the baseline screenshot.")
	comparisonURL := flag.String("comparison-url", "", "URL to capture as the comparison screenshot.")
	threshold := flag.Float64("threshold", 0, "Changed-pixel ratio above which the diff fails (0 uses the configured default).")
	flag.Parse()

	// Consolidate alias flags
	if *configFile == "" && *configFileAlias != "" {
		*configFile = *configFileAlias
	}

	if *baselineURL == "" || *comparisonURL == "" {
		log.Fatalln("[FATAL] -baseline-url and -comparison-url are required")
	}

	// Load Global Configuration
	gCfg, err := config.LoadGlobalConfig(*configFile)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", *configFile, err)
	}

	// Initialize zerolog logger
	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, zLogger, gCfg, *baselineURL, *comparisonURL, *threshold); err != nil {
		zLogger.Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, zLogger zerolog.Logger, gCfg *config.GlobalConfig, baselineURL, comparisonURL string, threshold float64) error {
	// Capture backend and engine
	backend := capture.NewRodBackend(gCfg.CaptureConfig, zLogger)
	if err := backend.Start(); err != nil {
		return err
	}

	captureEngine, err := capture.NewEngine(backend, gCfg.CaptureConfig, zLogger)
	if err != nil {
		return err
	}
	defer captureEngine.Cleanup()

	// Diff engine and store
	diffEngine, err := differ.NewEngine(gCfg.DifferConfig, zLogger)
	if err != nil {
		return err
	}

	store, err := datastore.NewStore(gCfg.StorageConfig, zLogger)
	if err != nil {
		return err
	}

	// Capture both pages, settle-all
	results := captureEngine.CaptureAll(ctx, []models.CaptureRequest{
		{URL: baselineURL, Name: "baseline"},
		{URL: comparisonURL, Name: "comparison"},
	})
	for _, result := range results {
		if result.Err != nil {
			return result.Err
		}
	}
	baseline := results[0].Screenshot
	comparison := results[1].Screenshot

	// Compare
	output, err := diffEngine.Compare(ctx, models.DiffRequest{
		Baseline:   baseline,
		Comparison: comparison,
		Threshold:  threshold,
	})
	if err != nil {
		return err
	}

	// Persist; retention is re-applied inside every save
	if err := store.SaveScreenshots([]models.Screenshot{*baseline, *comparison}); err != nil {
		return err
	}
	if err := store.SaveDiffs([]models.VisualDiff{*output.Diff}); err != nil {
		return err
	}

	info, err := store.StorageInfo()
	if err != nil {
		return err
	}

	metrics := output.Diff.Metrics
	zLogger.Info().
		Str("status", string(output.Diff.Status)).
		Float64("percentage_changed", metrics.PercentageChanged).
		Float64("similarity", metrics.Similarity).
		Int("regions", metrics.Regions).
		Int64("storage_used_bytes", info.UsedBytes).
		Msg("Comparison finished")

	fmt.Printf("Result: %s (%.4f%% changed, similarity %.4f, %d region(s))\n",
		output.Diff.Status, metrics.PercentageChanged*100, metrics.Similarity, metrics.Regions)

	return nil
}
