package main

import (
	"fmt"
	"os"

	"datalens/adapters/llm"
	"datalens/adapters/llm/template"
	"datalens/adapters/tabular"
	"datalens/app"
	"datalens/domain/analysis"
	"datalens/domain/charts"
	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal"
	"datalens/internal/artifacts"
	chartplan "datalens/internal/charts"
	"datalens/internal/config"
	"datalens/internal/engine"
	"datalens/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "datalens-cli",
		Short: "DataLens CLI for running analysis pipeline stages independently",
	}

	rootCmd.AddCommand(
		newProcessCmd(),
		newAnalyzeCmd(),
		newVisualizeCmd(),
		newReportCmd(),
		newRunCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newProcessCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "process [source-file]",
		Short: "Load and clean a CSV or XLSX file into a new run directory",
		Long: `Load a tabular source file, classify and clean it, and write the
processed_data.json artifact into a fresh timestamped run directory.

Example: datalens-cli process data/sample.csv --out outputs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(args[0], outDir)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "outputs", "Base directory for run output")

	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "analyze [run-dir]",
		Short: "Run the statistical analysis stages on a processed run",
		Long: `Read processed_data.json from a run directory, compute descriptive
statistics, correlations, and patterns, and write statistical_analysis.json.

With no run directory argument, the latest run under --out is used.

Example: datalens-cli analyze outputs/20240101_120000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := resolveStore(outDir, args)
			if err != nil {
				return err
			}
			return runAnalyze(store)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "outputs", "Base directory for run output")

	return cmd
}

func newVisualizeCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "visualize [run-dir]",
		Short: "Plan the visualization catalog for an analyzed run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := resolveStore(outDir, args)
			if err != nil {
				return err
			}
			return runVisualize(store)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "outputs", "Base directory for run output")

	return cmd
}

func newReportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "report [run-dir]",
		Short: "Write the executive report for an analyzed run",
		Long: `Generate the executive report from a run's analysis and catalog
artifacts. If OPENAI_API_KEY is configured the LLM narrator is tried
first; otherwise the deterministic template narrator is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := resolveStore(outDir, args)
			if err != nil {
				return err
			}
			return runReport(cmd, store)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "outputs", "Base directory for run output")

	return cmd
}

func newRunCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "run [source-file]",
		Short: "Run the full analysis pipeline end to end",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := internal.NewDefaultLogger()
			pipeline := app.NewPipelineService(
				tabular.NewReader(logger),
				tabular.NewCleaner(logger),
				nil,
				template.NewNarrator(),
				nil,
				outDir,
				logger,
			)
			out, err := pipeline.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Run %s complete: %d variables, %d strong correlations, %d patterns\n",
				out.ID, out.Result.Summary.VariablesAnalyzed,
				out.Result.Summary.StrongCorrelationsFound, out.Result.Summary.PatternsIdentified)
			fmt.Printf("Artifacts written to %s\n", out.OutputDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "outputs", "Base directory for run output")

	return cmd
}

// resolveStore opens an explicit run directory, or the latest one under
// the output base when no argument is given.
func resolveStore(outDir string, args []string) (*artifacts.Store, error) {
	if len(args) > 0 {
		return artifacts.OpenStore(args[0]), nil
	}
	runDir, err := artifacts.LatestRunDir(outDir)
	if err != nil {
		return nil, err
	}
	return artifacts.OpenStore(runDir), nil
}

func runProcess(source, outDir string) error {
	logger := internal.NewDefaultLogger()

	store, err := artifacts.NewStore(outDir, core.Now())
	if err != nil {
		return err
	}

	ds, meta, err := tabular.NewReader(logger).Read(source)
	if err != nil {
		return err
	}
	ds, meta = tabular.Clean(ds, meta, logger)

	path, err := store.SaveJSON(artifacts.FileProcessedData, dataset.Processed{Metadata: meta, Data: ds.Rows})
	if err != nil {
		return err
	}
	fmt.Printf("Processed %d rows x %d columns -> %s\n", meta.RowCount, meta.ColumnCount, path)
	return nil
}

func runAnalyze(store *artifacts.Store) error {
	logger := internal.NewDefaultLogger()

	processed, err := loadProcessed(store)
	if err != nil {
		return err
	}
	ds := processed.ToDataset()

	eng := engine.New(logger)
	result := engine.Aggregate(
		eng.Describe(ds, processed.Metadata.NumericColumns),
		eng.Correlate(ds, processed.Metadata.NumericColumns),
		eng.DetectPatterns(ds, processed.Metadata),
	)

	path, err := store.SaveJSON(artifacts.FileAnalysis, result)
	if err != nil {
		return err
	}
	fmt.Printf("Analyzed %d variables, found %d strong correlations -> %s\n",
		result.Summary.VariablesAnalyzed, result.Summary.StrongCorrelationsFound, path)
	return nil
}

func runVisualize(store *artifacts.Store) error {
	processed, err := loadProcessed(store)
	if err != nil {
		return err
	}

	var result analysis.Result
	if err := store.LoadJSON(artifacts.FileAnalysis, &result); err != nil {
		return err
	}

	catalog := chartplan.Plan(result, processed.Metadata)
	path, err := store.SaveJSON(artifacts.FileChartCatalog, catalog)
	if err != nil {
		return err
	}
	fmt.Printf("Planned %d visualizations -> %s\n", catalog.VisualizationsCreated, path)
	return nil
}

func runReport(cmd *cobra.Command, store *artifacts.Store) error {
	logger := internal.NewDefaultLogger()

	processed, err := loadProcessed(store)
	if err != nil {
		return err
	}

	var result analysis.Result
	if err := store.LoadJSON(artifacts.FileAnalysis, &result); err != nil {
		return err
	}
	var catalog charts.Catalog
	if err := store.LoadJSON(artifacts.FileChartCatalog, &catalog); err != nil {
		return err
	}

	rc := ports.ReportContext{Metadata: processed.Metadata, Result: result, Catalog: catalog}

	body, narrator := narrateReport(cmd, rc, logger)
	mdPath, _, err := store.SaveReport(body)
	if err != nil {
		return err
	}
	fmt.Printf("Report written via %s narrator -> %s\n", narrator, mdPath)
	return nil
}

// narrateReport tries the LLM narrator when credentials are configured
// and always lands on the template otherwise.
func narrateReport(cmd *cobra.Command, rc ports.ReportContext, logger *internal.Logger) (string, string) {
	fallback := template.NewNarrator()

	cfg, err := config.Load()
	if err == nil && cfg.AI.APIKey != "" {
		clientCfg := llm.Config{
			APIKey:      cfg.AI.APIKey,
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.AI.Model,
			MaxTokens:   cfg.AI.MaxTokens,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		}
		if client, cerr := llm.NewClient(clientCfg); cerr == nil {
			body, nerr := llm.NewNarrator(client, clientCfg).Narrate(cmd.Context(), rc)
			if nerr == nil && body != "" {
				return body, "llm"
			}
			logger.Warn("LLM narration failed, using template: %v", nerr)
		}
	}

	body, _ := fallback.Narrate(cmd.Context(), rc)
	return body, "template"
}

func loadProcessed(store *artifacts.Store) (dataset.Processed, error) {
	var processed dataset.Processed
	if err := store.LoadJSON(artifacts.FileProcessedData, &processed); err != nil {
		return dataset.Processed{}, err
	}
	return processed, nil
}
