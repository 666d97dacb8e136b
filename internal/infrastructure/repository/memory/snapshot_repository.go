package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/cafe-inventory-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SnapshotRepository is an in-memory implementation of domain.SnapshotRepository.
// It stores deep copies, so callers never share slices with it.
type SnapshotRepository struct {
	mu       sync.RWMutex
	snapshot *domain.Snapshot
	tracer   trace.Tracer
	logger   *slog.Logger
}

var _ domain.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a new, empty in-memory snapshot repository
func NewSnapshotRepository(tracer trace.Tracer, logger *slog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		snapshot: domain.NewSnapshot(),
		tracer:   tracer,
		logger:   logger,
	}
}

// Load returns a copy of the stored snapshot
func (r *SnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	ctx, span := r.tracer.Start(ctx, "MemorySnapshotRepository.Load")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := r.snapshot.Clone()

	span.SetAttributes(
		attribute.Int("product.count", len(snapshot.Products)),
		attribute.Int("sale.count", len(snapshot.Sales)),
	)
	r.logger.DebugContext(ctx, "Snapshot loaded from memory",
		slog.Int("products", len(snapshot.Products)),
		slog.Int("sales", len(snapshot.Sales)),
	)

	span.SetStatus(codes.Ok, "Snapshot loaded")
	return snapshot, nil
}

// Save replaces the stored snapshot with a copy of the given one
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	ctx, span := r.tracer.Start(ctx, "MemorySnapshotRepository.Save")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshot = snapshot.Clone()

	span.SetAttributes(
		attribute.Int("product.count", len(snapshot.Products)),
		attribute.Int("sale.count", len(snapshot.Sales)),
	)
	r.logger.DebugContext(ctx, "Snapshot saved in memory",
		slog.Int("products", len(snapshot.Products)),
		slog.Int("sales", len(snapshot.Sales)),
	)

	span.SetStatus(codes.Ok, "Snapshot saved")
	return nil
}
