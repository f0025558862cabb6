// Package manifest records the inputs and outputs of a sitemap build.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Build status values.
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// BuildManifest represents a complete record of a build's inputs and outputs.
type BuildManifest struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Inputs    Inputs    `json:"inputs"`
	Outputs   Outputs   `json:"outputs"`
	Status    string    `json:"status"`
	Duration  int64     `json:"duration_ms"`
}

// Inputs captures all inputs to the build.
type Inputs struct {
	SitemapHash        string `json:"sitemap_hash"`
	PageTemplatesHash  string `json:"page_templates_hash,omitempty"`
	BlockTemplatesHash string `json:"block_templates_hash,omitempty"`
	GitCommit          string `json:"git_commit,omitempty"`
	GeneratorVersion   string `json:"generator_version"`
}

// Outputs captures the generated artifact.
type Outputs struct {
	ArtifactPath string `json:"artifact_path"`
	Fingerprint  string `json:"fingerprint"` // fingerprint of the YAML body, banner excluded
	Pages        int    `json:"pages"`
	Blocks       int    `json:"blocks"`
	Roots        int    `json:"roots"`
}

// New returns a manifest with a fresh build id.
func New(now time.Time) *BuildManifest {
	return &BuildManifest{
		ID:        uuid.NewString(),
		Timestamp: now.UTC(),
	}
}

// ToJSON serializes the manifest to JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash of the manifest's inputs. Two builds with
// the same hash produce the same sitemap. The git commit is left out: it moves
// with unrelated commits.
func (m *BuildManifest) Hash() (string, error) {
	hashInput := m.Inputs
	hashInput.GitCommit = ""

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Save writes the manifest to path through a temporary file.
func Save(path string, m *BuildManifest) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure manifest directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename manifest: %w", err)
	}
	return nil
}

// Load reads the manifest at path. A missing file yields nil and no error.
func Load(path string) (*BuildManifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return FromJSON(data)
}
