package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mrops-br/cafe-inventory-api/internal/domain"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Store owns the load-mutate-save cycle over a snapshot repository.
// Every Update runs as one critical section, so concurrent sales in the
// same process always validate against the stock the previous one left.
type Store struct {
	mu     sync.RWMutex
	repo   domain.SnapshotRepository
	tracer trace.Tracer
	logger *slog.Logger
}

// NewStore creates a new store over the given repository
func NewStore(repo domain.SnapshotRepository, tracer trace.Tracer, logger *slog.Logger) *Store {
	return &Store{
		repo:   repo,
		tracer: tracer,
		logger: logger,
	}
}

// View loads the current snapshot and hands it to fn. Changes made by fn are not saved.
func (s *Store) View(ctx context.Context, fn func(*domain.Snapshot) error) error {
	ctx, span := s.tracer.Start(ctx, "Store.View")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, err := s.load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load snapshot")
		return err
	}

	return fn(snapshot)
}

// Update loads the current snapshot, applies fn and saves the result.
// Nothing is saved when fn returns an error.
func (s *Store) Update(ctx context.Context, fn func(*domain.Snapshot) error) error {
	ctx, span := s.tracer.Start(ctx, "Store.Update")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load snapshot")
		return err
	}

	if err := fn(snapshot); err != nil {
		span.SetStatus(codes.Error, "Mutation rejected")
		return err
	}

	if err := s.repo.Save(ctx, snapshot.Normalize()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save snapshot")
		s.logger.ErrorContext(ctx, "Failed to save snapshot",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: save snapshot: %w", domain.ErrStorageUnavailable, err)
	}

	span.SetStatus(codes.Ok, "Snapshot saved")
	return nil
}

func (s *Store) load(ctx context.Context) (*domain.Snapshot, error) {
	snapshot, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load snapshot",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: load snapshot: %w", domain.ErrStorageUnavailable, err)
	}
	return snapshot.Normalize(), nil
}
