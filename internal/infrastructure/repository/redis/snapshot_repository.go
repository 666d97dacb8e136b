package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mrops-br/cafe-inventory-api/internal/domain"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SnapshotRepository keeps the snapshot in two Redis keys,
// <prefix>:products and <prefix>:sales, each holding a JSON array.
type SnapshotRepository struct {
	client *goredis.Client
	prefix string
	tracer trace.Tracer
	logger *slog.Logger
}

var _ domain.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a Redis-backed snapshot repository
func NewSnapshotRepository(client *goredis.Client, prefix string, tracer trace.Tracer, logger *slog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		client: client,
		prefix: prefix,
		tracer: tracer,
		logger: logger.With(slog.String("component", "redis_repository")),
	}
}

func (r *SnapshotRepository) productsKey() string { return r.prefix + ":products" }
func (r *SnapshotRepository) salesKey() string    { return r.prefix + ":sales" }

// Load reads both keys in one round trip. Missing keys yield empty collections.
func (r *SnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	ctx, span := r.tracer.Start(ctx, "RedisSnapshotRepository.Load")
	defer span.End()

	values, err := r.client.MGet(ctx, r.productsKey(), r.salesKey()).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read snapshot")
		r.logger.ErrorContext(ctx, "Failed to read snapshot",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	snapshot := domain.NewSnapshot()
	if err := decodeValue(values[0], &snapshot.Products); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode products")
		return nil, fmt.Errorf("decode %s: %w", r.productsKey(), err)
	}
	if err := decodeValue(values[1], &snapshot.Sales); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode sales")
		return nil, fmt.Errorf("decode %s: %w", r.salesKey(), err)
	}

	span.SetAttributes(
		attribute.Int("product.count", len(snapshot.Products)),
		attribute.Int("sale.count", len(snapshot.Sales)),
	)
	r.logger.DebugContext(ctx, "Snapshot loaded from redis",
		slog.Int("products", len(snapshot.Products)),
		slog.Int("sales", len(snapshot.Sales)),
	)
	span.SetStatus(codes.Ok, "Snapshot loaded")
	return snapshot.Normalize(), nil
}

// Save writes both keys inside one MULTI/EXEC
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	ctx, span := r.tracer.Start(ctx, "RedisSnapshotRepository.Save")
	defer span.End()

	products, err := json.Marshal(snapshot.Products)
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	sales, err := json.Marshal(snapshot.Sales)
	if err != nil {
		return fmt.Errorf("encode sales: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, r.productsKey(), products, 0)
		pipe.Set(ctx, r.salesKey(), sales, 0)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to write snapshot")
		r.logger.ErrorContext(ctx, "Failed to write snapshot",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("redis set: %w", err)
	}

	span.SetAttributes(
		attribute.Int("product.count", len(snapshot.Products)),
		attribute.Int("sale.count", len(snapshot.Sales)),
	)
	span.SetStatus(codes.Ok, "Snapshot saved")
	return nil
}

// decodeValue unmarshals an MGET value; nil means the key does not exist.
func decodeValue(value any, dest any) error {
	if value == nil {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("unexpected value type %T", value)
	}
	return json.Unmarshal([]byte(s), dest)
}
