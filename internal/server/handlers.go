package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/Sumatoshi-tech/ivtree/internal/dataset"
	"github.com/Sumatoshi-tech/ivtree/internal/index"
	"github.com/Sumatoshi-tech/ivtree/pkg/alg/interval"
)

// Query parameter names.
const (
	paramLow   = "low"
	paramHigh  = "high"
	paramPoint = "point"
)

var (
	errMissingRange = errors.New("either point or both low and high are required")
	errMixedQuery   = errors.New("point cannot be combined with low or high")
)

// IntervalsResponse is the body of GET /v1/intervals.
type IntervalsResponse struct {
	Query     index.Range      `json:"query"`
	Count     int              `json:"count"`
	Intervals []dataset.Record `json:"intervals"`
}

// StatsResponse is the body of GET /v1/stats.
type StatsResponse struct {
	Fingerprint string           `json:"fingerprint"`
	Stats       interval.Stats   `json:"stats"`
	Levels      []interval.Level `json:"levels"`
}

// ErrorResponse is the body of every 4xx and 5xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIntervals(rw http.ResponseWriter, hr *http.Request) {
	ix := s.index.Load()
	if ix == nil {
		s.writeError(rw, hr, http.StatusServiceUnavailable, ErrNotReady)

		return
	}

	q, isPoint, err := parseRange(hr)
	if err != nil {
		s.writeError(rw, hr, http.StatusBadRequest, err)

		return
	}

	if notModified(rw, hr, ix.Fingerprint()) {
		return
	}

	var records []dataset.Record
	if isPoint {
		records = ix.Point(hr.Context(), q.Low)
	} else {
		records = ix.Query(hr.Context(), q.Low, q.High)
	}

	s.writeJSON(rw, hr, http.StatusOK, IntervalsResponse{Query: q, Count: len(records), Intervals: records})
}

func (s *Server) handleStats(rw http.ResponseWriter, hr *http.Request) {
	ix := s.index.Load()
	if ix == nil {
		s.writeError(rw, hr, http.StatusServiceUnavailable, ErrNotReady)

		return
	}

	if notModified(rw, hr, ix.Fingerprint()) {
		return
	}

	s.writeJSON(rw, hr, http.StatusOK, StatsResponse{
		Fingerprint: ix.Fingerprint(),
		Stats:       ix.Stats(),
		Levels:      ix.Levels(),
	})
}

func parseRange(hr *http.Request) (q index.Range, isPoint bool, err error) {
	values := hr.URL.Query()

	if values.Has(paramPoint) {
		if values.Has(paramLow) || values.Has(paramHigh) {
			return index.Range{}, false, errMixedQuery
		}

		p, parseErr := parseFloatParam(values.Get(paramPoint), paramPoint)
		if parseErr != nil {
			return index.Range{}, false, parseErr
		}

		return index.Range{Low: p, High: p}, true, nil
	}

	if !values.Has(paramLow) || !values.Has(paramHigh) {
		return index.Range{}, false, errMissingRange
	}

	low, err := parseFloatParam(values.Get(paramLow), paramLow)
	if err != nil {
		return index.Range{}, false, err
	}

	high, err := parseFloatParam(values.Get(paramHigh), paramHigh)
	if err != nil {
		return index.Range{}, false, err
	}

	return index.Range{Low: low, High: high}, false, nil
}

func parseFloatParam(raw, name string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q: not a finite number", name, raw)
	}

	return v, nil
}

// notModified sets the ETag and answers 304 when the client already holds
// the response for this dataset.
func notModified(rw http.ResponseWriter, hr *http.Request, fingerprint string) bool {
	etag := `"` + fingerprint + `"`
	rw.Header().Set("ETag", etag)

	if hr.Header.Get("If-None-Match") == etag {
		rw.WriteHeader(http.StatusNotModified)

		return true
	}

	return false
}

func (s *Server) writeJSON(rw http.ResponseWriter, hr *http.Request, code int, value any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)

	encodeErr := json.NewEncoder(rw).Encode(value)
	if encodeErr != nil {
		s.logger.ErrorContext(hr.Context(), "failed to encode JSON response", "error", encodeErr)
	}
}

func (s *Server) writeError(rw http.ResponseWriter, hr *http.Request, code int, err error) {
	s.writeJSON(rw, hr, code, ErrorResponse{Error: err.Error()})
}
