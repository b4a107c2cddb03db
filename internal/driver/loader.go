package driver

import (
	"errors"
	"fmt"
	"os"

	"osmaudit/internal/logger"
	"osmaudit/internal/models"
	"osmaudit/internal/output"
	"osmaudit/internal/store"
	"osmaudit/pkg/metadata"
)

// ErrStoreRequired is returned when loading without a document store.
var ErrStoreRequired = errors.New("document store is required")

// LoadFile bulk loads a previously written output file into db. When the
// file has a metadata sidecar its checksum is verified and its run id is
// reused, replacing any records an earlier load of the same run left behind.
func LoadFile(path string, db *store.DB, batchSize int, log *logger.Logger) (_ *Summary, err error) {
	if db == nil {
		return nil, ErrStoreRequired
	}

	if batchSize < 1 {
		batchSize = defaultBatchSize
	}

	meta, metaErr := metadata.Load(path)
	if metaErr == nil {
		// The file may have been moved since it was signed.
		meta.Output = path

		if err := meta.Verify(); err != nil {
			return nil, fmt.Errorf("refusing to load %s: %w", path, err)
		}

		if err := db.DeleteRun(meta.RunID); err != nil {
			return nil, err
		}
	} else {
		log.Warn("No run metadata, loading as a new run", "output", path, "reason", metaErr)
		meta = metadata.New("", path)
	}

	log = log.With("run_id", meta.RunID)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	defer func() {
		if err != nil {
			err = errors.Join(err, db.DeleteRun(meta.RunID))
		}
	}()

	loaded := 0
	batch := make([]models.ShapedRecord, 0, batchSize)

	for rec, readErr := range output.ReadRecords(f) {
		if readErr != nil {
			return nil, readErr
		}

		batch = append(batch, rec)
		if len(batch) < batchSize {
			continue
		}

		if err := db.InsertRecords(meta.RunID, batch); err != nil {
			return nil, err
		}

		loaded += len(batch)
		batch = batch[:0]
		log.Debug("Loaded batch", "records", loaded)
	}

	if err := db.InsertRecords(meta.RunID, batch); err != nil {
		return nil, err
	}

	loaded += len(batch)

	if meta.Checksum == "" {
		if err := meta.Sign(loaded, 0); err != nil {
			return nil, err
		}
	}

	if err := db.RecordRun(meta); err != nil {
		return nil, err
	}

	log.Info("Load complete", "output", path, "records", loaded)

	return &Summary{
		RunID:    meta.RunID,
		Input:    meta.Input,
		Output:   path,
		Checksum: meta.Checksum,
		Records:  loaded,
		Skipped:  meta.Skipped,
	}, nil
}
