// Package index serves interval queries over a loaded dataset. It owns the
// static tree built from the dataset and instruments builds and queries.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/ivtree/internal/dataset"
	"github.com/Sumatoshi-tech/ivtree/internal/observability"
	"github.com/Sumatoshi-tech/ivtree/pkg/alg/interval"
)

const tracerName = "ivtree/index"

// Query kinds, used as the metric attribute.
const (
	KindOverlap = "overlap"
	KindPoint   = "point"
)

// Deps are the optional collaborators of an Index. Zero values are valid.
type Deps struct {
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.IndexMetrics
	// CacheEntries bounds the LRU of query results; zero disables caching.
	CacheEntries int
}

// Index is an immutable interval tree over one dataset. Safe for concurrent use.
type Index struct {
	tree        *interval.Tree[float64, string]
	intervals   []interval.Interval[float64, string]
	fingerprint string

	cache *resultCache

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.IndexMetrics
}

// Build constructs the index for set. It fails with interval.ErrEmptyInput
// for an empty set and interval.ErrInvalidInterval for an inverted record.
func Build(ctx context.Context, set *dataset.Set, deps Deps) (*Index, error) {
	ix := &Index{
		logger:  deps.Logger,
		tracer:  deps.Tracer,
		metrics: deps.Metrics,
		cache:   newResultCache(deps.CacheEntries),
	}

	if ix.logger == nil {
		ix.logger = slog.Default()
	}

	if ix.tracer == nil {
		ix.tracer = otel.Tracer(tracerName)
	}

	ctx, span := ix.tracer.Start(ctx, "index.build",
		trace.WithAttributes(attribute.Int("intervals", len(set.Records))),
	)
	defer span.End()

	fingerprint, err := dataset.Fingerprint(set)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	start := time.Now()

	// The tree keeps references into this slice; it must outlive the tree.
	ix.intervals = set.Intervals()

	tree, err := interval.Build(ix.intervals)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, fmt.Errorf("build index: %w", err)
	}

	elapsed := time.Since(start)

	ix.tree = tree
	ix.fingerprint = fingerprint

	stats := tree.Stats()
	span.SetAttributes(
		attribute.Int("nodes", stats.Nodes),
		attribute.Int("height", stats.Height),
	)

	ix.metrics.RecordBuild(ctx, elapsed, observability.IndexShape{
		Intervals: stats.Intervals,
		Nodes:     stats.Nodes,
		Height:    stats.Height,
	})

	ix.logger.InfoContext(ctx, "index built",
		"intervals", humanize.Comma(int64(stats.Intervals)),
		"endpoints", stats.Endpoints,
		"nodes", stats.Nodes,
		"height", stats.Height,
		"fingerprint", fingerprint,
		"duration", elapsed,
	)

	return ix, nil
}

// Query returns every record intersecting the closed range [low, high].
// An inverted range matches nothing.
func (ix *Index) Query(ctx context.Context, low, high float64) []dataset.Record {
	_, span := ix.tracer.Start(ctx, "index.query", trace.WithAttributes(
		attribute.Float64("low", low),
		attribute.Float64("high", high),
	))
	defer span.End()

	return ix.lookup(ctx, span, cacheKey{kind: KindOverlap, low: low, high: high}, func() []dataset.Record {
		return toRecords(ix.tree.QueryOverlap(low, high))
	})
}

// Point returns every record containing p.
func (ix *Index) Point(ctx context.Context, p float64) []dataset.Record {
	_, span := ix.tracer.Start(ctx, "index.point", trace.WithAttributes(
		attribute.Float64("point", p),
	))
	defer span.End()

	return ix.lookup(ctx, span, cacheKey{kind: KindPoint, low: p, high: p}, func() []dataset.Record {
		return toRecords(ix.tree.QueryPoint(p))
	})
}

// lookup serves key from the result cache, running query on a miss.
func (ix *Index) lookup(ctx context.Context, span trace.Span, key cacheKey, query func() []dataset.Record) []dataset.Record {
	records, hit := ix.cache.get(key)
	if !hit {
		records = query()
		ix.cache.put(key, records)
	}

	if ix.cache != nil && key.cacheable() {
		ix.metrics.RecordCacheLookup(ctx, key.kind, hit)
	}

	span.SetAttributes(
		attribute.Int("results", len(records)),
		attribute.Bool("cache_hit", hit),
	)
	ix.metrics.RecordQuery(ctx, key.kind, len(records))

	return records
}

// CacheStats reports the query result cache; all zero when caching is off.
func (ix *Index) CacheStats() CacheStats {
	return ix.cache.stats()
}

// Stats summarizes the tree shape.
func (ix *Index) Stats() interval.Stats {
	return ix.tree.Stats()
}

// Levels returns per-depth node and interval counts.
func (ix *Index) Levels() []interval.Level {
	return ix.tree.Levels()
}

// Fingerprint identifies the dataset the index was built from.
func (ix *Index) Fingerprint() string {
	return ix.fingerprint
}

// Tree exposes the underlying tree for read-only traversal.
func (ix *Index) Tree() *interval.Tree[float64, string] {
	return ix.tree
}

func toRecords(ivs []interval.Interval[float64, string]) []dataset.Record {
	records := make([]dataset.Record, len(ivs))
	for i, iv := range ivs {
		records[i] = dataset.RecordOf(iv)
	}

	return records
}
