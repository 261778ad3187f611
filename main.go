package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"datalens/adapters/llm"
	"datalens/adapters/llm/template"
	"datalens/adapters/postgres"
	"datalens/adapters/tabular"
	"datalens/app"
	"datalens/internal"
	"datalens/internal/config"
	"datalens/internal/errors"
	"datalens/internal/testkit"
	"datalens/ports"
	"datalens/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Load .env file if present (development convenience)
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("pipeline failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *internal.Logger) error {
	source := cfg.Data.InputFile
	if source == "" {
		// No input configured: bootstrap the built-in sample dataset
		path, err := testkit.EnsureSampleData("data")
		if err != nil {
			return err
		}
		logger.Info("no DATA_FILE configured, using sample dataset at %s", path)
		source = path
	}

	runs, err := initRunRepository(cfg, logger)
	if err != nil {
		return err
	}

	pipeline := app.NewPipelineService(
		tabular.NewReader(logger),
		tabular.NewCleaner(logger),
		initNarrator(cfg, logger),
		template.NewNarrator(),
		runs,
		cfg.Output.BaseDir,
		logger,
	)

	out, err := pipeline.Run(ctx, source)
	if err != nil {
		return err
	}

	fmt.Printf("Analysis pipeline completed successfully\n")
	fmt.Printf("  Run ID:              %s\n", out.ID)
	fmt.Printf("  Output directory:    %s\n", out.OutputDir)
	fmt.Printf("  Variables analyzed:  %d\n", out.Result.Summary.VariablesAnalyzed)
	fmt.Printf("  Strong correlations: %d\n", out.Result.Summary.StrongCorrelationsFound)
	fmt.Printf("  Patterns identified: %d\n", out.Result.Summary.PatternsIdentified)
	fmt.Printf("  Charts planned:      %d\n", out.Catalog.VisualizationsCreated)
	fmt.Printf("  Report narrator:     %s\n", out.Narrator)

	// Serve results to downstream collaborators when requested
	if os.Getenv("SERVE_RESULTS") == "true" {
		server := ui.NewServer(cfg.Output.BaseDir, logger)
		return server.ListenAndServe(cfg.Server.Port)
	}
	return nil
}

// initNarrator builds the LLM narrator when a credential is configured.
// Returning nil means the pipeline goes straight to the template.
func initNarrator(cfg *config.Config, logger *internal.Logger) ports.Narrator {
	if cfg.AI.APIKey == "" {
		logger.Info("no LLM credential configured, report will use the template narrator")
		return nil
	}

	clientCfg := llm.Config{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	}
	client, err := llm.NewClient(clientCfg)
	if err != nil {
		logger.Warn("LLM client unavailable (%v), report will use the template narrator", err)
		return nil
	}
	return llm.NewNarrator(client, clientCfg)
}

// initRunRepository connects the optional Postgres store. A missing
// DATABASE_URL disables persistence; a broken connection is an error
// the operator should see.
func initRunRepository(cfg *config.Config, logger *internal.Logger) (ports.RunRepository, error) {
	if cfg.Database.URL == "" {
		logger.Info("no DATABASE_URL configured, run persistence disabled")
		return nil, nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return postgres.NewRunRepository(db)
}
