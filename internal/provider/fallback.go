// internal/provider/fallback.go
package provider

import (
	"fmt"
	"sync"

	"github.com/runchart/runchart/internal/domain"
)

// StaleSnapshotError is returned together with the last good snapshot
// when the inner provider fails after having succeeded at least once.
type StaleSnapshotError struct {
	Cause error
}

func (e *StaleSnapshotError) Error() string {
	return fmt.Sprintf("serving stale snapshot: %v", e.Cause)
}

func (e *StaleSnapshotError) Unwrap() error { return e.Cause }

// FallbackProvider wraps a SnapshotProvider and keeps the last snapshot
// that decoded successfully. A transient read failure (file mid-rewrite,
// feed briefly unavailable) then degrades to the stale snapshot instead
// of blanking the display.
type FallbackProvider struct {
	inner domain.SnapshotProvider

	mu   sync.Mutex
	last *domain.Snapshot
}

// Ensure FallbackProvider implements SnapshotProvider.
var _ domain.SnapshotProvider = (*FallbackProvider)(nil)

// NewFallbackProvider wraps inner with last-good-snapshot fallback.
func NewFallbackProvider(inner domain.SnapshotProvider) *FallbackProvider {
	return &FallbackProvider{inner: inner}
}

func (fp *FallbackProvider) Snapshot() (domain.Snapshot, error) {
	snap, err := fp.inner.Snapshot()
	fp.mu.Lock()
	defer fp.mu.Unlock()
	if err != nil {
		if fp.last != nil {
			return *fp.last, &StaleSnapshotError{Cause: err}
		}
		return domain.Snapshot{}, err
	}
	fp.last = &snap
	return snap, nil
}
