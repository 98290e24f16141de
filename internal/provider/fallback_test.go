package provider_test

import (
	"errors"
	"testing"

	"github.com/runchart/runchart/internal/domain"
	"github.com/runchart/runchart/internal/provider"
)

// flakyProvider fails whenever fail is set.
type flakyProvider struct {
	snap domain.Snapshot
	fail bool
}

func (f *flakyProvider) Snapshot() (domain.Snapshot, error) {
	if f.fail {
		return domain.Snapshot{}, errors.New("read failed")
	}
	return f.snap, nil
}

func TestFallbackProvider_PassesThroughSuccess(t *testing.T) {
	inner := &flakyProvider{snap: domain.Snapshot{Run: domain.Run{ID: "run-1"}}}
	fp := provider.NewFallbackProvider(inner)

	snap, err := fp.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Run.ID != "run-1" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestFallbackProvider_ServesStaleSnapshotOnFailure(t *testing.T) {
	inner := &flakyProvider{snap: domain.Snapshot{Run: domain.Run{ID: "run-1"}}}
	fp := provider.NewFallbackProvider(inner)

	if _, err := fp.Snapshot(); err != nil {
		t.Fatal(err)
	}

	inner.fail = true
	snap, err := fp.Snapshot()
	if err == nil {
		t.Fatal("expected stale error")
	}
	var stale *provider.StaleSnapshotError
	if !errors.As(err, &stale) {
		t.Fatalf("expected StaleSnapshotError, got %T: %v", err, err)
	}
	if snap.Run.ID != "run-1" {
		t.Errorf("expected last good snapshot, got %+v", snap)
	}
}

func TestFallbackProvider_FirstFailureIsFatal(t *testing.T) {
	inner := &flakyProvider{fail: true}
	fp := provider.NewFallbackProvider(inner)

	_, err := fp.Snapshot()
	if err == nil {
		t.Fatal("expected error")
	}
	var stale *provider.StaleSnapshotError
	if errors.As(err, &stale) {
		t.Error("failure before any success must not be reported as stale")
	}
}
