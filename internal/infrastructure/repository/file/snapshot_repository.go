package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mrops-br/cafe-inventory-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Layout selects how the snapshot is split across files
type Layout string

const (
	// LayoutCombined keeps products and sales in a single data.json
	LayoutCombined Layout = "combined"
	// LayoutSplit keeps products.json and sales.json side by side
	LayoutSplit Layout = "split"
)

const (
	combinedFile = "data.json"
	productsFile = "products.json"
	salesFile    = "sales.json"
)

// SnapshotRepository persists the snapshot as JSON documents in a directory.
// Every save rewrites the documents whole through a temp file and a rename.
type SnapshotRepository struct {
	dir    string
	layout Layout
	tracer trace.Tracer
	logger *slog.Logger
}

var _ domain.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a file-backed snapshot repository rooted at dir
func NewSnapshotRepository(dir string, layout Layout, tracer trace.Tracer, logger *slog.Logger) (*SnapshotRepository, error) {
	switch layout {
	case LayoutCombined, LayoutSplit:
	default:
		return nil, fmt.Errorf("unknown file layout %q", layout)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &SnapshotRepository{
		dir:    dir,
		layout: layout,
		tracer: tracer,
		logger: logger.With(slog.String("component", "file_repository")),
	}, nil
}

// Load reads the snapshot. Missing files yield empty collections.
func (r *SnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	ctx, span := r.tracer.Start(ctx, "FileSnapshotRepository.Load")
	defer span.End()

	span.SetAttributes(
		attribute.String("storage.dir", r.dir),
		attribute.String("storage.layout", string(r.layout)),
	)

	snapshot := domain.NewSnapshot()
	var err error
	if r.layout == LayoutCombined {
		err = readJSON(r.path(combinedFile), snapshot)
	} else {
		err = readJSON(r.path(productsFile), &snapshot.Products)
		if err == nil {
			err = readJSON(r.path(salesFile), &snapshot.Sales)
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read snapshot")
		r.logger.ErrorContext(ctx, "Failed to read snapshot",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	r.logger.DebugContext(ctx, "Snapshot loaded from disk",
		slog.Int("products", len(snapshot.Products)),
		slog.Int("sales", len(snapshot.Sales)),
	)
	span.SetStatus(codes.Ok, "Snapshot loaded")
	return snapshot.Normalize(), nil
}

// Save writes the snapshot
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	ctx, span := r.tracer.Start(ctx, "FileSnapshotRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.Int("product.count", len(snapshot.Products)),
		attribute.Int("sale.count", len(snapshot.Sales)),
	)

	var err error
	if r.layout == LayoutCombined {
		err = writeJSON(r.path(combinedFile), snapshot)
	} else {
		err = writeJSON(r.path(productsFile), snapshot.Products)
		if err == nil {
			err = writeJSON(r.path(salesFile), snapshot.Sales)
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to write snapshot")
		r.logger.ErrorContext(ctx, "Failed to write snapshot",
			slog.String("error", err.Error()),
		)
		return err
	}

	span.SetStatus(codes.Ok, "Snapshot saved")
	return nil
}

func (r *SnapshotRepository) path(name string) string {
	return filepath.Join(r.dir, name)
}

func readJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
