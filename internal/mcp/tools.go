package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/ivtree/internal/dataset"
	"github.com/Sumatoshi-tech/ivtree/internal/index"
	"github.com/Sumatoshi-tech/ivtree/pkg/alg/interval"
)

// Tool name constants.
const (
	ToolNameQuery = "interval_query"
	ToolNameStats = "interval_stats"
)

// MaxResults caps the intervals returned by one query.
const MaxResults = 1000

// Sentinel errors for tool input validation.
var (
	// ErrNoIndex indicates the server was started without an index.
	ErrNoIndex = errors.New("no dataset is loaded")
	// ErrMissingRange indicates neither a point nor a full range was given.
	ErrMissingRange = errors.New("either point or both low and high are required")
	// ErrMixedQuery indicates point was combined with low or high.
	ErrMixedQuery = errors.New("point cannot be combined with low or high")
	// ErrNotFinite indicates a NaN or infinite bound.
	ErrNotFinite = errors.New("query bounds must be finite numbers")
)

// QueryInput is the input schema for the interval_query tool.
type QueryInput struct {
	Low   *float64 `json:"low,omitempty"   jsonschema:"lower bound of the closed query range"`
	High  *float64 `json:"high,omitempty"  jsonschema:"upper bound of the closed query range"`
	Point *float64 `json:"point,omitempty" jsonschema:"single point to stab; excludes low and high"`
	Limit int      `json:"limit,omitempty" jsonschema:"maximum number of intervals to return (default and cap: 1000)"`
}

// StatsInput is the input schema for the interval_stats tool.
type StatsInput struct {
	Levels bool `json:"levels,omitempty" jsonschema:"include per-depth node and interval counts"`
}

// QueryResult is the structured result of interval_query.
type QueryResult struct {
	Query     index.Range      `json:"query"`
	Count     int              `json:"count"`
	Truncated bool             `json:"truncated,omitempty"`
	Intervals []dataset.Record `json:"intervals"`
}

// StatsResult is the structured result of interval_stats.
type StatsResult struct {
	Fingerprint string           `json:"fingerprint"`
	Stats       interval.Stats   `json:"stats"`
	Levels      []interval.Level `json:"levels,omitempty"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

func (s *Server) handleQuery(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input QueryInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if s.index == nil {
		return errorResult(ErrNoIndex)
	}

	q, isPoint, err := input.toRange()
	if err != nil {
		return errorResult(err)
	}

	var records []dataset.Record
	if isPoint {
		records = s.index.Point(ctx, q.Low)
	} else {
		records = s.index.Query(ctx, q.Low, q.High)
	}

	limit := MaxResults
	if input.Limit > 0 && input.Limit < limit {
		limit = input.Limit
	}

	result := QueryResult{Query: q, Count: len(records), Intervals: records}
	if len(records) > limit {
		result.Intervals = records[:limit]
		result.Truncated = true
	}

	return jsonResult(result)
}

func (s *Server) handleStats(
	_ context.Context, _ *mcpsdk.CallToolRequest, input StatsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if s.index == nil {
		return errorResult(ErrNoIndex)
	}

	result := StatsResult{Fingerprint: s.index.Fingerprint(), Stats: s.index.Stats()}
	if input.Levels {
		result.Levels = s.index.Levels()
	}

	return jsonResult(result)
}

func (in QueryInput) toRange() (q index.Range, isPoint bool, err error) {
	if in.Point != nil {
		if in.Low != nil || in.High != nil {
			return index.Range{}, false, ErrMixedQuery
		}

		if !finite(*in.Point) {
			return index.Range{}, false, ErrNotFinite
		}

		return index.Range{Low: *in.Point, High: *in.Point}, true, nil
	}

	if in.Low == nil || in.High == nil {
		return index.Range{}, false, ErrMissingRange
	}

	if !finite(*in.Low) || !finite(*in.High) {
		return index.Range{}, false, ErrNotFinite
	}

	return index.Range{Low: *in.Low, High: *in.High}, false, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
