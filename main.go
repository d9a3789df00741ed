package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/joho/godotenv"

	"github.com/gigurra/rental-dashboard/internal"
	"github.com/gigurra/rental-dashboard/internal/observability"
	"github.com/gigurra/rental-dashboard/internal/server"
)

type Params struct {
	File       string `descr:"Path to the rental dataset (csv, xlsx or json), optionally prefixed with its source type, e.g. xlsx:data.xlsx" positional:"true" optional:"true" default:"day_hour.csv"`
	Source     string `descr:"Data source type (detected from the file extension when empty)" alts:"csv,xlsx,simple-json" optional:"true"`
	Start      string `descr:"Start date (YYYY-MM-DD), defaults to the first date of the year" optional:"true"`
	End        string `descr:"End date (YYYY-MM-DD), defaults to the last date of the year" optional:"true"`
	Year       int    `descr:"Calendar year to analyze (default from config, 2011)" optional:"true"`
	Scope      string `descr:"Table the sections aggregate: filtered (date range) or year (whole year)" alts:"filtered,year" optional:"true"`
	RFMKey     string `name:"rfm-key" descr:"RFM grouping: instant (per row id) or day (per day of year)" alts:"instant,day" optional:"true"`
	Top        int    `descr:"Number of ids in each RFM chart (default 5)" optional:"true"`
	Output     string `descr:"Output format" alts:"table,json" strict:"true" default:"table"`
	Charts     string `descr:"Directory to write PNG charts to" optional:"true"`
	XLSX       string `name:"xlsx" descr:"Path of an Excel workbook to export the report to" optional:"true"`
	Serve      bool   `descr:"Serve the interactive dashboard over HTTP" optional:"true"`
	Addr       string `descr:"Listen address for --serve (default from config, :8501)" optional:"true"`
	Config     string `descr:"Path to config file (default: ~/.rental-dashboard/config.yaml)" optional:"true"`
	InitConfig bool   `name:"init-config" descr:"Write a config template to the config path and exit" optional:"true"`
	Locale     string `descr:"Locale for number formatting, e.g. sv-SE (default: system locale)" optional:"true"`
}

func main() {
	boa.NewCmdT[Params]("rental-dashboard").
		WithShort("Analyze bicycle rental volume for one year").
		WithLong("Loads the hourly bicycle rental dataset, filters it to a date range and reports " +
			"monthly totals, an RFM analysis per rental id and totals per weather condition. " +
			"Output is a terminal table, JSON, PNG charts, an Excel workbook or an interactive web dashboard.").
		WithRunFunc(func(params *Params) {
			if err := run(params); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

func run(params *Params) error {
	configPath := params.Config
	if configPath == "" {
		configPath = internal.DefaultConfigPath()
	}

	if params.InitConfig {
		if err := internal.GenerateConfigTemplate().Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote config template to %s\n", configPath)
		return nil
	}

	cfg, err := loadConfig(params.Config, configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, params); err != nil {
		return err
	}

	source, path := internal.ParseFileArg(params.File)
	if source == "" {
		source = params.Source
	}
	records, err := internal.LoadDataset(path, source, cfg.Year)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Loaded %d rows for %d\n", len(records), cfg.Year)

	if params.Serve {
		return serve(params, cfg, records)
	}

	bounds, ok := internal.Bounds(records)
	if !ok {
		fmt.Fprintf(os.Stderr, "Warning: no rows for %d, the report will be empty\n", cfg.Year)
	}
	rng, err := internal.ResolveRange(params.Start, params.End, bounds)
	if err != nil {
		return err
	}

	report := internal.BuildReport(records, cfg.Year, rng, cfg.ReportOptions())
	title := cfg.ReportTitle(report)

	if params.Charts != "" {
		paths, err := internal.NewCharter(cfg.Charts).WriteAll(params.Charts, report)
		if err != nil {
			return fmt.Errorf("writing charts: %w", err)
		}
		for _, p := range paths {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", p)
		}
	}

	if params.XLSX != "" {
		if err := internal.ExportXLSX(params.XLSX, report, title); err != nil {
			return fmt.Errorf("exporting workbook: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", params.XLSX)
	}

	if params.Output == "json" {
		return internal.PrintReportJSON(os.Stdout, report, title)
	}
	internal.PrintReportTable(os.Stdout, report, internal.OutputOptions{
		Title:   title,
		Numbers: internal.NewNumberFormat(cfg.Locale),
	})
	return nil
}

// loadConfig reads the explicit config path, or the default path when it exists.
func loadConfig(explicit, path string) (*internal.Config, error) {
	if path == "" {
		return internal.NewDefaultConfig(), nil
	}
	cfg, err := internal.LoadConfig(path)
	if err == nil {
		return cfg, nil
	}
	if explicit == "" && errors.Is(err, fs.ErrNotExist) {
		return internal.NewDefaultConfig(), nil
	}
	return nil, fmt.Errorf("loading config %s: %w", path, err)
}

// applyFlags overrides config values with the flags that were given.
func applyFlags(cfg *internal.Config, params *Params) error {
	if params.Year != 0 {
		cfg.Year = params.Year
	}
	if params.Top > 0 {
		cfg.TopN = params.Top
	}
	if params.Locale != "" {
		cfg.Locale = params.Locale
	}
	if params.Scope != "" {
		if err := cfg.SetScope(params.Scope); err != nil {
			return err
		}
	}
	if params.RFMKey != "" {
		if err := cfg.SetRFMKey(params.RFMKey); err != nil {
			return err
		}
	}
	if params.Addr != "" {
		cfg.Server.Addr = params.Addr
	}
	return nil
}

func serve(params *Params, cfg *internal.Config, records []internal.RentalRecord) error {
	// .env may set LOG_LEVEL
	_ = godotenv.Load()

	logger, err := observability.NewLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	if params.Start != "" || params.End != "" {
		fmt.Fprintf(os.Stderr, "Note: --start/--end are ignored with --serve; pick the range in the browser\n")
	}

	dashboard := server.NewDashboard(records, cfg.Year, cfg, logger)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Serving dashboard on %s\n", cfg.Server.Addr)
	return server.Serve(ctx, dashboard, server.Options{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}, logger)
}
