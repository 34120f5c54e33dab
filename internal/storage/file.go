package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/terpwatch/terpwatch/internal/course"
)

// FileStorage keeps the snapshot in a local JSON file.
type FileStorage struct {
	path string
}

// NewFileStorage creates file-backed storage under dataDir, creating the
// directory if needed.
func NewFileStorage(dataDir, filename string) (*FileStorage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &FileStorage{path: filepath.Join(dataDir, filename)}, nil
}

// Load reads the snapshot file. A missing file yields an empty snapshot.
func (s *FileStorage) Load(ctx context.Context) (course.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return course.Snapshot{}, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap course.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snap == nil {
		snap = course.Snapshot{}
	}
	return snap, nil
}

// Save writes the snapshot as indented JSON.
func (s *FileStorage) Save(ctx context.Context, snap course.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
