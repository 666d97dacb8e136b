package file

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mrops-br/cafe-inventory-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestRepository(t *testing.T, dir string, layout Layout) *SnapshotRepository {
	t.Helper()
	repo, err := NewSnapshotRepository(dir, layout,
		noop.NewTracerProvider().Tracer("test"),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	return repo
}

func sampleSnapshot() *domain.Snapshot {
	now := time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)
	s := domain.NewSnapshot()
	s.Products = append(s.Products, domain.Product{
		ID:        1735804800000,
		Name:      "Americano",
		Price:     domain.NewMoney(decimal.NewFromFloat(2.75)),
		Quantity:  9,
		Category:  "coffee",
		CreatedAt: now,
	})
	s.Sales = append(s.Sales, domain.Sale{
		ID: "3f0e0b62-8d4e-4a57-9a77-0d4c6f1f8a10",
		Items: []domain.SaleLine{{
			ProductID: 1735804800000,
			Name:      "Americano",
			Quantity:  1,
			Price:     domain.NewMoney(decimal.NewFromFloat(2.75)),
			Total:     domain.NewMoney(decimal.NewFromFloat(2.75)),
		}},
		Total: domain.NewMoney(decimal.NewFromFloat(2.75)),
		Date:  now,
	})
	return s
}

func TestSnapshotRepository_RoundTrip(t *testing.T) {
	for _, layout := range []Layout{LayoutCombined, LayoutSplit} {
		t.Run(string(layout), func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			repo := newTestRepository(t, dir, layout)

			empty, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty.Products)
			assert.Empty(t, empty.Sales)

			require.NoError(t, repo.Save(ctx, sampleSnapshot()))

			loaded, err := repo.Load(ctx)
			require.NoError(t, err)
			require.Len(t, loaded.Products, 1)
			require.Len(t, loaded.Sales, 1)
			assert.Equal(t, "Americano", loaded.Products[0].Name)
			assert.True(t, loaded.Products[0].Price.Equal(decimal.NewFromFloat(2.75)))
			assert.True(t, loaded.Sales[0].Total.Equal(decimal.NewFromFloat(2.75)))
			assert.Equal(t, "3f0e0b62-8d4e-4a57-9a77-0d4c6f1f8a10", loaded.Sales[0].ID)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			for _, e := range entries {
				assert.NotContains(t, e.Name(), ".json.", "temp files must not be left behind")
			}
		})
	}
}

func TestSnapshotRepository_CombinedDocumentShape(t *testing.T) {
	dir := t.TempDir()
	repo := newTestRepository(t, dir, LayoutCombined)
	require.NoError(t, repo.Save(context.Background(), sampleSnapshot()))

	data, err := os.ReadFile(filepath.Join(dir, "data.json"))
	require.NoError(t, err)

	var doc map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc["products"], 1)
	assert.Equal(t, 2.75, doc["products"][0]["price"])
	assert.Len(t, doc["sales"], 1)
}

func TestSnapshotRepository_SplitLayoutFiles(t *testing.T) {
	dir := t.TempDir()
	repo := newTestRepository(t, dir, LayoutSplit)
	require.NoError(t, repo.Save(context.Background(), sampleSnapshot()))

	assert.FileExists(t, filepath.Join(dir, "products.json"))
	assert.FileExists(t, filepath.Join(dir, "sales.json"))
	assert.NoFileExists(t, filepath.Join(dir, "data.json"))
}

func TestSnapshotRepository_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"), []byte("{not json"), 0o644))
	repo := newTestRepository(t, dir, LayoutCombined)

	_, err := repo.Load(context.Background())
	assert.Error(t, err)
}

func TestNewSnapshotRepository_UnknownLayout(t *testing.T) {
	_, err := NewSnapshotRepository(t.TempDir(), Layout("sharded"),
		noop.NewTracerProvider().Tracer("test"),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	assert.Error(t, err)
}
