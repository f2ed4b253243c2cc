package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"renastat/adapters/postgres"
	"renastat/adapters/tabular"
	"renastat/app"
	"renastat/domain/analysis"
	"renastat/domain/core"
	"renastat/domain/dataset"
	"renastat/internal/api"
	"renastat/internal/config"
	"renastat/internal/logging"
	"renastat/internal/plot"
	"renastat/internal/render"
	"renastat/internal/testkit"
	"renastat/ports"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "renastat",
		Short: "Exploratory statistical analysis over CKD patient records",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newServeCmd(),
		newShowCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var demo bool
	var seed int64
	var export string
	var persist bool

	cmd := &cobra.Command{
		Use:   "analyze [data-file]",
		Short: "Run the full analysis and print the report",
		Long: `Run the descriptive, correlation, comparison, outlier and profile
analyses over one patient table and print the report.

Example: renastat analyze data/ckd.csv --export bundle.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logging.NewDefaultLogger()

			ds, err := loadDataset(cfg, args, demo, seed, log)
			if err != nil {
				return err
			}

			schema := dataset.DefaultSchema()
			service := app.NewReportService(schema, log)
			bundle, err := service.Run(cmd.Context(), ds)
			if err != nil {
				return err
			}
			plots := plot.Build(ds, schema, bundle)

			var renderer ports.ReportRenderer = render.NewConsoleRenderer()
			if err := renderer.Render(os.Stdout, bundle, plots); err != nil {
				return err
			}

			if export != "" {
				if err := exportBundle(bundle, export, cfg.Data.OutDir); err != nil {
					return err
				}
				log.Info("bundle exported to %s", export)
			}
			if persist {
				if err := persistBundle(cmd.Context(), cfg, bundle); err != nil {
					return err
				}
				log.Info("bundle %s persisted", bundle.RunID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Analyze a deterministic synthetic dataset")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the synthetic dataset")
	cmd.Flags().StringVar(&export, "export", "", "Write the result bundle to this JSON file")
	cmd.Flags().BoolVar(&persist, "persist", false, "Store the bundle in Postgres (requires DATABASE_URL)")

	return cmd
}

func newServeCmd() *cobra.Command {
	var demo bool
	var seed int64
	var port string

	cmd := &cobra.Command{
		Use:   "serve [data-file]",
		Short: "Run the analysis once and serve the report over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logging.NewDefaultLogger()

			ds, err := loadDataset(cfg, args, demo, seed, log)
			if err != nil {
				return err
			}

			schema := dataset.DefaultSchema()
			bundle, err := app.NewReportService(schema, log).Run(cmd.Context(), ds)
			if err != nil {
				return err
			}
			plots := plot.Build(ds, schema, bundle)

			if port == "" {
				port = cfg.Server.Port
			}
			return api.NewServer(bundle, plots, log).ListenAndServe(port)
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Serve a deterministic synthetic dataset")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the synthetic dataset")
	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (default from PORT)")

	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Render a previously persisted run from Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("show requires DATABASE_URL")
			}

			db, err := postgres.Connect(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			bundle, err := postgres.NewBundleRepository(db).GetByID(cmd.Context(), core.RunID(args[0]))
			if err != nil {
				return err
			}
			return render.NewConsoleRenderer().Render(os.Stdout, bundle, nil)
		},
	}
}

func loadDataset(cfg *config.Config, args []string, demo bool, seed int64, log *logging.Logger) (*dataset.Dataset, error) {
	if demo {
		gc := testkit.DefaultConfig()
		gc.Seed = seed
		return testkit.NewGenerator(gc).Generate()
	}

	file := cfg.Data.File
	if len(args) > 0 {
		file = args[0]
	}
	if file == "" {
		return nil, fmt.Errorf("no data file given: pass a path, set DATA_FILE, or use --demo")
	}
	var reader ports.DatasetReader = tabular.NewDataReader(file, cfg.Data.SheetName, log)
	return reader.ReadDataset()
}

func exportBundle(bundle *analysis.ResultBundle, name, outDir string) error {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(outDir, name)
	}
	payload, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling bundle: %w", err)
	}
	return os.WriteFile(path, payload, 0o644)
}

func persistBundle(ctx context.Context, cfg *config.Config, bundle *analysis.ResultBundle) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("--persist requires DATABASE_URL")
	}
	db, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	return postgres.NewBundleRepository(db).Save(ctx, bundle)
}
