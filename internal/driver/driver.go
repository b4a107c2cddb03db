// Package driver runs the audit and processing passes over a whole map file.
package driver

import (
	"errors"
	"fmt"
	"os"
	"time"

	"osmaudit/internal/audit"
	"osmaudit/internal/logger"
	"osmaudit/internal/models"
	"osmaudit/internal/normalizer"
	"osmaudit/internal/output"
	"osmaudit/internal/reader"
	"osmaudit/internal/store"
	"osmaudit/pkg/metadata"
)

const (
	defaultBatchSize = 500
	progressEvery    = 10000
)

// Options controls a processing run.
type Options struct {
	// Store, when set, receives every shaped record.
	Store *store.DB
	// Vocabulary overrides the compiled-in street vocabulary.
	Vocabulary *normalizer.Vocabulary
	// BatchSize is the number of records per store transaction.
	BatchSize int
	Pretty    bool
}

// Summary describes a finished run.
type Summary struct {
	RunID    string
	Input    string
	Output   string
	Checksum string
	Records  int
	Skipped  int
	Stats    normalizer.Stats
	Duration time.Duration
}

// Audit reads every node and way in the file at path and returns the suspect values found.
func Audit(path string, vocab *normalizer.Vocabulary, log *logger.Logger) (*audit.Report, error) {
	if vocab == nil {
		vocab = normalizer.DefaultVocabulary()
	}

	r, err := reader.Open(path, models.KindNode, models.KindWay)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	a := audit.NewAuditorWithVocabulary(vocab)

	for elem, err := range r.All() {
		if err != nil {
			return nil, fmt.Errorf("audit of %s failed: %w", path, err)
		}

		a.AuditElement(elem)
	}

	report := a.Report()
	log.Info("Audit complete",
		"input", path,
		"elements", report.Elements,
		"street_types", len(report.StreetTypes),
		"postcodes", len(report.Postcodes),
		"counties", len(report.Counties))

	return report, nil
}

// ProcessMap shapes every element of the file at path and writes the records
// to path + ".json". On failure the partial output and any records already
// loaded into the store are removed.
func ProcessMap(path string, opts Options, log *logger.Logger) (_ *Summary, err error) {
	if opts.Vocabulary == nil {
		opts.Vocabulary = normalizer.DefaultVocabulary()
	}

	if opts.BatchSize < 1 {
		opts.BatchSize = defaultBatchSize
	}

	r, err := reader.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	outPath := output.PathFor(path)

	w, err := output.Create(outPath, opts.Pretty)
	if err != nil {
		return nil, err
	}

	meta := metadata.New(path, outPath)
	log = log.With("run_id", meta.RunID)

	defer func() {
		if err == nil {
			return
		}

		_ = w.Close()
		_ = os.Remove(outPath)
		_ = os.Remove(metadata.SidecarPath(outPath))

		if opts.Store != nil {
			if delErr := opts.Store.DeleteRun(meta.RunID); delErr != nil {
				err = errors.Join(err, delErr)
			}
		}
	}()

	log.Info("Processing map", "input", path, "output", outPath, "pretty", opts.Pretty, "store", opts.Store != nil)

	proc := normalizer.NewProcessorWithVocabulary(opts.Vocabulary)
	batch := make([]models.ShapedRecord, 0, opts.BatchSize)

	flush := func() error {
		if opts.Store == nil || len(batch) == 0 {
			return nil
		}

		if err := opts.Store.InsertRecords(meta.RunID, batch); err != nil {
			return fmt.Errorf("bulk load failed: %w", err)
		}

		log.Debug("Loaded batch", "records", len(batch))
		batch = batch[:0]

		return nil
	}

	for elem, readErr := range r.All() {
		if readErr != nil {
			return nil, fmt.Errorf("processing of %s failed: %w", path, readErr)
		}

		rec, ok, shapeErr := proc.Process(elem)
		if shapeErr != nil {
			return nil, shapeErr
		}

		if !ok {
			continue
		}

		if err := w.Write(rec); err != nil {
			return nil, err
		}

		if opts.Store != nil {
			batch = append(batch, rec)
			if len(batch) >= opts.BatchSize {
				if err := flush(); err != nil {
					return nil, err
				}
			}
		}

		if n := w.Count(); n%progressEvery == 0 {
			log.Info("Progress", "records", n)
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	stats := proc.Stats()
	if err := meta.Sign(stats.Shaped, stats.Skipped); err != nil {
		return nil, err
	}

	if err := meta.Save(); err != nil {
		return nil, err
	}

	if opts.Store != nil {
		if err := opts.Store.RecordRun(meta); err != nil {
			return nil, err
		}
	}

	log.Info("Processing complete",
		"records", stats.Shaped,
		"skipped", stats.Skipped,
		"streets_fixed", stats.StreetsFixed,
		"counties_fixed", stats.CountiesFixed,
		"invalid_postcodes", stats.InvalidPostcodes,
		"dropped_keys", stats.DroppedKeys,
		"duration", meta.Duration())

	return &Summary{
		RunID:    meta.RunID,
		Input:    path,
		Output:   outPath,
		Checksum: meta.Checksum,
		Records:  stats.Shaped,
		Skipped:  stats.Skipped,
		Stats:    stats,
		Duration: meta.Duration(),
	}, nil
}
