// Package storage persists course snapshots between runs.
//
// Snapshots are stored as indented JSON with stable key order, so the
// persisted state is diff-friendly and round-trips exactly. Two backends
// implement the Storage interface: a local JSON file for development and an
// S3 object for deployed runs. The backend is chosen once at startup.
package storage

import (
	"context"

	"github.com/terpwatch/terpwatch/internal/course"
)

// Storage loads and saves the persisted course snapshot. Load returns an
// empty snapshot when no state exists yet, signaling a first run.
type Storage interface {
	Load(ctx context.Context) (course.Snapshot, error)
	Save(ctx context.Context, snap course.Snapshot) error
}
