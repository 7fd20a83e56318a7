package vocab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/brandpulse/triage/internal/common"
	"github.com/brandpulse/triage/internal/model"
)

// snapshotVersion is the current encoding version of the durable snapshot.
const snapshotVersion = 1

// snapshotFile is the on-disk encoding of a vocabulary snapshot.
type snapshotFile struct {
	Categories map[string][]snapshotTerm `json:"categories"`
	Maintainer string                    `json:"maintainer,omitempty"`
	UpdatedAt  time.Time                 `json:"updated_at"`
	Version    int                       `json:"version"`
}

type snapshotTerm struct {
	Word   string  `json:"word"`
	Weight float64 `json:"weight"`
}

// Store persists the vocabulary as a single JSON snapshot. Save replaces
// the whole file through a temp-file-then-rename so a crash never leaves
// a partially written snapshot behind.
type Store struct {
	path  string
	retry common.RetryOptions
}

// NewStore creates a store backed by the snapshot file at path.
func NewStore(path string) *Store {
	return &Store{
		path:  path,
		retry: common.RetryOptions{MaxAttempts: 3},
	}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the persisted vocabulary. It returns
// common.ErrNotFound when no snapshot exists yet and common.ErrCorruptStore
// when the snapshot cannot be decoded or violates an invariant.
func (s *Store) Load(_ context.Context) (*Vocabulary, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no vocabulary snapshot at %s", common.ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary snapshot: %w", err)
	}

	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptStore, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", common.ErrCorruptStore, snap.Version)
	}

	v := New()
	v.UpdatedAt = snap.UpdatedAt
	v.Maintainer = snap.Maintainer
	for name, terms := range snap.Categories {
		cat, ok := model.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", common.ErrCorruptStore, name)
		}
		for _, t := range terms {
			v.Set(cat, t.Word, t.Weight)
		}
	}

	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptStore, err)
	}

	return v, nil
}

// Save writes the entire vocabulary atomically, retrying transient I/O
// failures a bounded number of times before surfacing common.ErrStorage.
func (s *Store) Save(ctx context.Context, v *Vocabulary) error {
	snap := snapshotFile{
		Version:    snapshotVersion,
		Maintainer: v.Maintainer,
		UpdatedAt:  v.UpdatedAt,
		Categories: make(map[string][]snapshotTerm, len(model.Categories)),
	}
	for _, cat := range model.Categories {
		terms := v.Terms(cat)
		encoded := make([]snapshotTerm, 0, len(terms))
		for _, t := range terms {
			encoded = append(encoded, snapshotTerm{Word: t.Word, Weight: t.Weight})
		}
		snap.Categories[string(cat)] = encoded
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode vocabulary snapshot: %w", err)
	}

	err = common.WithRetry(ctx, func() error {
		return writeFileAtomic(s.path, data)
	}, s.retry)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory,
// syncs it, and renames it over the destination.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
