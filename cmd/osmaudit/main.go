// Package main provides the osmaudit command: it audits street, postcode and
// county values in an OSM XML extract and writes the shaped records to
// <input>.json, optionally bulk loading them into the document store.
package main

import (
	"flag"
	"fmt"
	"os"

	"osmaudit/internal/audit"
	"osmaudit/internal/config"
	"osmaudit/internal/driver"
	"osmaudit/internal/logger"
	"osmaudit/internal/store"
)

const defaultConfigPath = "configs/osmaudit.yaml"

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: "+defaultConfigPath+" if present)")
	envFile := flag.String("env", ".env", "Path to .env file with OSMAUDIT_* overrides")
	input := flag.String("input", "", "Path to OSM XML file")
	pretty := flag.Bool("pretty", false, "Write indented JSON, one block per record")
	dbPath := flag.String("db", "", "Bulk load records into this SQLite document store")
	skipAudit := flag.Bool("skip-audit", false, "Do not print the audit report")
	auditOnly := flag.Bool("audit-only", false, "Print the audit report and do not write records")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")

	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.ApplyEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags given on the command line win over file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "pretty":
			cfg.Output.Pretty = *pretty
		case "db":
			cfg.Store.Path = *dbPath
			cfg.Store.Enabled = *dbPath != ""
		case "skip-audit":
			cfg.Audit.Enabled = !*skipAudit
		case "log-level":
			cfg.Logging.Level = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Input == "" {
		fmt.Println("Usage: osmaudit -input <map.osm> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	log.Debug("Configuration loaded", "config", cfg.String())

	os.Exit(run(cfg, log, *auditOnly))
}

func run(cfg *config.Config, log *logger.Logger, auditOnly bool) int {
	if cfg.Audit.Enabled || auditOnly {
		report, err := driver.Audit(cfg.Input, nil, log)
		if err != nil {
			log.Error("Audit failed", "error", err)
			return 1
		}

		opts := audit.RenderOptions{MaxExamples: cfg.Audit.MaxExamples, MaxCellWidth: cfg.Audit.MaxCellWidth}
		if err := audit.Render(os.Stdout, report, opts); err != nil {
			log.Error("Failed to print audit report", "error", err)
			return 1
		}
	}

	if auditOnly {
		return 0
	}

	opts := driver.Options{
		Pretty:    cfg.Output.Pretty,
		BatchSize: cfg.Store.BatchSize,
	}

	if cfg.Store.Enabled {
		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			log.Error("Failed to open document store", "path", cfg.Store.Path, "error", err)
			return 1
		}
		defer db.Close()

		opts.Store = db
	}

	summary, err := driver.ProcessMap(cfg.Input, opts, log)
	if err != nil {
		log.Error("Processing failed", "error", err)
		return 1
	}

	fmt.Println("\n------------------------------------------------")
	fmt.Printf("Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Printf("Run ID:            %s\n", summary.RunID)
	fmt.Printf("Output:            %s\n", summary.Output)
	fmt.Printf("Records written:   %d\n", summary.Records)
	fmt.Printf("Elements skipped:  %d\n", summary.Skipped)
	fmt.Printf("Streets fixed:     %d\n", summary.Stats.StreetsFixed)
	fmt.Printf("Counties fixed:    %d\n", summary.Stats.CountiesFixed)
	fmt.Printf("Invalid postcodes: %d\n", summary.Stats.InvalidPostcodes)
	fmt.Printf("Dropped tag keys:  %d\n", summary.Stats.DroppedKeys)
	fmt.Printf("Checksum:          %s\n", summary.Checksum)
	fmt.Printf("Duration:          %v\n", summary.Duration)
	fmt.Println("------------------------------------------------")

	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, statErr := os.Stat(defaultConfigPath); statErr != nil {
			return config.Default(), nil
		}

		path = defaultConfigPath
	}

	return config.LoadConfig(path)
}
