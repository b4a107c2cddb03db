// Package output writes shaped records as JSON documents and reads them back.
package output

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"osmaudit/internal/models"
)

// Extension is appended to the input path to name the output file.
const Extension = ".json"

// ErrClosed is returned when writing to a closed writer.
var ErrClosed = errors.New("output writer is closed")

// PathFor returns the output file path for an input map file.
func PathFor(input string) string {
	return input + Extension
}

// Writer emits one JSON document per record: a single line each, or an
// indented block when pretty is set.
type Writer struct {
	buf    *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
	count  int
	closed bool
}

// NewWriter writes records to w. Close flushes but does not close w.
func NewWriter(w io.Writer, pretty bool) *Writer {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	if pretty {
		enc.SetIndent("", "  ")
	}

	return &Writer{buf: buf, enc: enc}
}

// Create truncates or creates the file at path and writes records to it.
func Create(path string, pretty bool) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w := NewWriter(f, pretty)
	w.closer = f

	return w, nil
}

// Write appends a record.
func (w *Writer) Write(rec models.ShapedRecord) error {
	if w.closed {
		return ErrClosed
	}

	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to write record %d: %w", w.count+1, err)
	}

	w.count++

	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}

// Close flushes buffered output and closes the file if the writer owns it.
// It is safe to call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}

	w.closed = true

	flushErr := w.buf.Flush()
	if flushErr != nil {
		flushErr = fmt.Errorf("failed to flush output: %w", flushErr)
	}

	if w.closer != nil {
		if err := w.closer.Close(); err != nil {
			return errors.Join(flushErr, fmt.Errorf("failed to close output file: %w", err))
		}
	}

	return flushErr
}

// ReadRecords decodes a stream of JSON documents in either layout Writer produces.
func ReadRecords(r io.Reader) iter.Seq2[models.ShapedRecord, error] {
	return func(yield func(models.ShapedRecord, error) bool) {
		dec := json.NewDecoder(r)

		for n := 1; ; n++ {
			var rec models.ShapedRecord

			err := dec.Decode(&rec)
			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				yield(nil, fmt.Errorf("failed to decode record %d: %w", n, err))
				return
			}

			if !yield(rec, nil) {
				return
			}
		}
	}
}
