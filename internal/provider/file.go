// internal/provider/file.go
package provider

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/runchart/runchart/internal/domain"
)

// FileAdapter implements domain.SnapshotProvider by reading a JSON
// snapshot document from disk. The file is re-read on every call, so a
// process overwriting it in place behaves as a live data feed.
type FileAdapter struct {
	path string
}

// Ensure FileAdapter implements SnapshotProvider.
var _ domain.SnapshotProvider = (*FileAdapter)(nil)

// NewFileAdapter creates an adapter reading snapshots from path.
func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{path: path}
}

func (a *FileAdapter) Snapshot() (domain.Snapshot, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decoding snapshot %s: %w", a.path, err)
	}
	return snap, nil
}
