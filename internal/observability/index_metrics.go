package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricBuildDuration   = "ivtree.index.build.duration.seconds"
	metricBuildsTotal     = "ivtree.index.builds.total"
	metricQueryResults    = "ivtree.index.query.results"
	metricIndexIntervals  = "ivtree.index.intervals"
	metricIndexNodes      = "ivtree.index.nodes"
	metricIndexTreeHeight = "ivtree.index.height"
	metricCacheLookups    = "ivtree.index.cache.lookups.total"

	attrQueryKind   = "kind"
	attrCacheResult = "result"
)

// resultBucketBoundaries spans empty results to very broad overlap queries.
var resultBucketBoundaries = []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 1000, 10000}

// IndexMetrics holds the instruments describing interval index construction
// and query fan-out. All methods are safe on a nil receiver.
type IndexMetrics struct {
	buildDuration metric.Float64Histogram
	buildsTotal   metric.Int64Counter
	queryResults  metric.Int64Histogram
	intervals     metric.Int64Gauge
	nodes         metric.Int64Gauge
	height        metric.Int64Gauge
	cacheLookups  metric.Int64Counter
}

// IndexShape is the summary recorded after each successful build.
type IndexShape struct {
	Intervals int
	Nodes     int
	Height    int
}

// NewIndexMetrics creates index instruments from the given meter.
func NewIndexMetrics(mt metric.Meter) (*IndexMetrics, error) {
	b := newMetricBuilder(mt)

	im := &IndexMetrics{
		buildDuration: b.histogram(metricBuildDuration, "Interval tree build duration in seconds", "s", durationBucketBoundaries...),
		buildsTotal:   b.counter(metricBuildsTotal, "Total number of index builds", "{build}"),
		queryResults:  b.intHistogram(metricQueryResults, "Intervals returned per query", "{interval}", resultBucketBoundaries...),
		intervals:     b.gauge(metricIndexIntervals, "Intervals held by the current index", "{interval}"),
		nodes:         b.gauge(metricIndexNodes, "Nodes in the current interval tree", "{node}"),
		height:        b.gauge(metricIndexTreeHeight, "Height of the current interval tree", "{level}"),
		cacheLookups:  b.counter(metricCacheLookups, "Query result cache lookups by outcome", "{lookup}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return im, nil
}

// RecordBuild records one completed build and the resulting tree shape.
func (im *IndexMetrics) RecordBuild(ctx context.Context, duration time.Duration, shape IndexShape) {
	if im == nil {
		return
	}

	im.buildDuration.Record(ctx, duration.Seconds())
	im.buildsTotal.Add(ctx, 1)
	im.intervals.Record(ctx, int64(shape.Intervals))
	im.nodes.Record(ctx, int64(shape.Nodes))
	im.height.Record(ctx, int64(shape.Height))
}

// RecordQuery records the number of intervals one query returned.
// kind distinguishes overlap from point queries.
func (im *IndexMetrics) RecordQuery(ctx context.Context, kind string, results int) {
	if im == nil {
		return
	}

	im.queryResults.Record(ctx, int64(results), metric.WithAttributes(
		attribute.String(attrQueryKind, kind),
	))
}

// RecordCacheLookup counts one query result cache lookup.
func (im *IndexMetrics) RecordCacheLookup(ctx context.Context, kind string, hit bool) {
	if im == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}

	im.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrQueryKind, kind),
		attribute.String(attrCacheResult, result),
	))
}
