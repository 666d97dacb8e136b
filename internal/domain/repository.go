package domain

import "context"

// SnapshotRepository loads and saves the whole inventory at once.
// Load returns an empty snapshot when nothing has been stored yet.
type SnapshotRepository interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
}
