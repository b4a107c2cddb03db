// Package metadata describes one processing run and signs its output file so
// that a later bulk load can check it still has the bytes that were written.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SidecarExtension is appended to an output path to name its metadata file.
const SidecarExtension = ".meta.yaml"

// Metadata verification errors.
var (
	ErrNoChecksum       = errors.New("no checksum in metadata")
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Metadata contains the run information stored next to an output file.
type Metadata struct {
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`
	RunID      string    `yaml:"run_id"`
	Input      string    `yaml:"input"`
	Output     string    `yaml:"output"`
	Checksum   string    `yaml:"checksum"`
	Records    int       `yaml:"records"`
	Skipped    int       `yaml:"skipped"`
}

// New starts a run with a fresh identifier.
func New(input, output string) *Metadata {
	return &Metadata{
		RunID:     uuid.NewString(),
		Input:     input,
		Output:    output,
		StartedAt: time.Now().UTC(),
	}
}

// SidecarPath returns where the metadata for output is stored.
func SidecarPath(output string) string {
	return output + SidecarExtension
}

// ChecksumFile computes the SHA-256 of the file at path.
func ChecksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Sign finishes the run: it hashes the output file and records the counters.
func (m *Metadata) Sign(records, skipped int) error {
	sum, err := ChecksumFile(m.Output)
	if err != nil {
		return err
	}

	m.Checksum = sum
	m.Records = records
	m.Skipped = skipped
	m.FinishedAt = time.Now().UTC()

	return nil
}

// Verify checks that the output file still matches the recorded checksum.
func (m *Metadata) Verify() error {
	if m.Checksum == "" {
		return ErrNoChecksum
	}

	sum, err := ChecksumFile(m.Output)
	if err != nil {
		return err
	}

	if sum != m.Checksum {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, m.Checksum, sum)
	}

	return nil
}

// Duration returns how long the run took.
func (m *Metadata) Duration() time.Duration {
	if m.FinishedAt.IsZero() {
		return 0
	}

	return m.FinishedAt.Sub(m.StartedAt)
}

// Save writes the metadata next to its output file.
func (m *Metadata) Save() error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(SidecarPath(m.Output), data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}

// Load reads the metadata stored for output.
func Load(output string) (*Metadata, error) {
	data, err := os.ReadFile(SidecarPath(output))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return &m, nil
}
