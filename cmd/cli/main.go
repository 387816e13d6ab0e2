package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/risk-radar/internal/config"
	"github.com/dvloznov/risk-radar/internal/filesource"
	"github.com/dvloznov/risk-radar/internal/insights"
	"github.com/dvloznov/risk-radar/internal/logger"
	"github.com/dvloznov/risk-radar/internal/pipeline"
	"github.com/dvloznov/risk-radar/internal/statestore"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Risk Radar CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze   Run one analysis cycle over a statement file")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	input := fs.String("input", "", "Statement location: a local path or a gs:// URI")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.New(cfg.LogLevel)

	if *input == "" {
		log.Fatal().Msg("Error: --input is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	profile, err := analyze(ctx, cfg, log, *input)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	out, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode profile")
	}
	fmt.Println(string(out))
}

func analyze(ctx context.Context, cfg *config.Config, log zerolog.Logger, input string) (*pipeline.RiskProfile, error) {
	data, err := filesource.Read(ctx, input)
	if err != nil {
		return nil, err
	}

	// One-shot runs keep everything in memory.
	store := statestore.NewMemoryStore()
	defer store.Close()

	classifier := insights.NewGeminiClassifier(cfg.GeminiModel)
	orchestrator := insights.NewOrchestrator(classifier, log)
	engine := pipeline.NewEngine(store, orchestrator, log)

	return engine.AnalyzeStatement(ctx, string(data))
}
