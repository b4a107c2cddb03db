package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"osmaudit/internal/models"
)

func sampleRecords() []models.ShapedRecord {
	return []models.ShapedRecord{
		{"type": "node", "id": "1", "pos": []float64{37.1, -122.1}, "name": "A & B <cafe>"},
		{"type": "way", "id": "2", "node_refs": []string{"101", "102"}},
	}
}

func TestPathFor(t *testing.T) {
	if got := PathFor("/tmp/sample.osm"); got != "/tmp/sample.osm.json" {
		t.Errorf("PathFor = %q", got)
	}
}

func TestWriter_Compact(t *testing.T) {
	var buf bytes.Buffer

	w := NewWriter(&buf, false)
	for _, rec := range sampleRecords() {
		if err := w.Write(rec); err != nil {
			t.Fatalf("Write returned unexpected error: %v", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close returned unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}

	want := `{"id":"1","name":"A & B <cafe>","pos":[37.1,-122.1],"type":"node"}`
	if lines[0] != want {
		t.Errorf("line 0 = %s, want %s", lines[0], want)
	}

	if w.Count() != 2 {
		t.Errorf("Count = %d, want 2", w.Count())
	}
}

func TestWriter_Pretty(t *testing.T) {
	var buf bytes.Buffer

	w := NewWriter(&buf, true)
	if err := w.Write(sampleRecords()[1]); err != nil {
		t.Fatalf("Write returned unexpected error: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close returned unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), "\n  \"id\": \"2\",\n") {
		t.Errorf("pretty output not indented:\n%s", buf.String())
	}
}

func TestWriter_WriteAfterClose(t *testing.T) {
	w := NewWriter(&bytes.Buffer{}, false)
	_ = w.Close()

	if err := w.Write(sampleRecords()[0]); !errors.Is(err, ErrClosed) {
		t.Errorf("Write after Close error = %v, want ErrClosed", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}
}

func TestReadRecords_BothLayouts(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		path := filepath.Join(t.TempDir(), "out.json")

		w, err := Create(path, pretty)
		if err != nil {
			t.Fatalf("Create returned unexpected error: %v", err)
		}

		for _, rec := range sampleRecords() {
			if err := w.Write(rec); err != nil {
				t.Fatalf("Write returned unexpected error: %v", err)
			}
		}

		if err := w.Close(); err != nil {
			t.Fatalf("Close returned unexpected error: %v", err)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("Open returned unexpected error: %v", err)
		}

		var ids []string
		for rec, err := range ReadRecords(f) {
			if err != nil {
				t.Fatalf("ReadRecords returned unexpected error: %v", err)
			}
			ids = append(ids, rec.ID())
		}
		f.Close()

		if strings.Join(ids, ",") != "1,2" {
			t.Errorf("pretty=%v ids = %v, want [1 2]", pretty, ids)
		}
	}
}

func TestReadRecords_Malformed(t *testing.T) {
	var gotErr error
	for _, err := range ReadRecords(strings.NewReader(`{"id":"1"} {"id":`)) {
		if err != nil {
			gotErr = err
		}
	}

	if gotErr == nil {
		t.Error("ReadRecords expected error for truncated input")
	}
}

func TestCreate_BadDirectory(t *testing.T) {
	if _, err := Create(filepath.Join(t.TempDir(), "missing", "out.json"), false); err == nil {
		t.Error("Create expected error for missing directory")
	}
}
