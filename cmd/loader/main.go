// Package main provides the loader command for bulk loading an existing
// records file into the SQLite document store.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"osmaudit/internal/config"
	"osmaudit/internal/driver"
	"osmaudit/internal/logger"
	"osmaudit/internal/store"
)

func main() {
	inputFile := flag.String("input", "", "Path to records JSON file written by osmaudit (required)")
	configFile := flag.String("config", "", "Path to YAML configuration file")
	envFile := flag.String("env", ".env", "Path to .env file with OSMAUDIT_* overrides")
	dbPath := flag.String("db", "", "SQLite document store path (overrides config)")
	batchSize := flag.Int("batch-size", 0, "Records per transaction (overrides config)")
	listRuns := flag.Bool("list-runs", false, "List loaded runs and exit")
	find := flag.String("find", "", "Print the stored document for an element given as type/id (e.g. way/10) and exit")

	flag.Parse()

	cfg := config.Default()

	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cfg = loaded
	}

	if err := cfg.ApplyEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}

	if *batchSize > 0 {
		cfg.Store.BatchSize = *batchSize
	}

	if *inputFile == "" && !*listRuns && *find == "" {
		fmt.Println("Error: one of --input, --list-runs or --find is required")
		fmt.Println("Usage: loader --input <map.osm.json> | --list-runs | --find <type/id> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Error("Failed to open document store", "path", cfg.Store.Path, "error", err)
		os.Exit(1)
	}

	code := run(db, log, *inputFile, cfg.Store.BatchSize, *listRuns, *find)

	if err := db.Close(); err != nil {
		log.Warn("Failed to close document store", "error", err)
	}

	os.Exit(code)
}

func run(db *store.DB, log *logger.Logger, inputFile string, batchSize int, listRuns bool, find string) int {
	if find != "" {
		return findRecord(db, log, find)
	}

	if listRuns {
		runs, err := db.ListRuns()
		if err != nil {
			log.Error("Failed to list runs", "error", err)
			return 1
		}

		for _, r := range runs {
			fmt.Printf("%s  %s  records=%d  skipped=%d  started=%s\n",
				r.RunID, r.Output, r.Records, r.Skipped, r.StartedAt.Format("2006-01-02 15:04:05"))
		}

		return 0
	}

	summary, err := driver.LoadFile(inputFile, db, batchSize, log)
	if err != nil {
		log.Error("Load failed", "error", err)
		return 1
	}

	fmt.Printf("\n✓ Loaded %d records from %s (run %s)\n", summary.Records, summary.Output, summary.RunID)

	return 0
}

func findRecord(db *store.DB, log *logger.Logger, ref string) int {
	elementType, elementID, ok := strings.Cut(ref, "/")
	if !ok || elementType == "" || elementID == "" {
		log.Error("Invalid element reference, want type/id", "find", ref)
		return 1
	}

	rec, err := db.FindRecord(elementType, elementID)
	if err != nil {
		log.Error("Lookup failed", "error", err)
		return 1
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		log.Error("Failed to encode record", "error", err)
		return 1
	}

	fmt.Println(string(data))

	return 0
}
