package domain

// Snapshot is one consistent view of a workflow run as pushed by the
// external data provider. The core never mutates it.
type Snapshot struct {
	Run     Run      `json:"run"`
	Jobs    []Job    `json:"jobs"`
	Results []Result `json:"results,omitempty"`
}

// SnapshotProvider is the port interface every run data adapter must
// implement. The domain does not know where the snapshot comes from.
type SnapshotProvider interface {
	Snapshot() (Snapshot, error)
}
