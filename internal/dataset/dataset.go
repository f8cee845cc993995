// Package dataset reads, writes, validates and generates interval datasets:
// named closed intervals stored as JSON or YAML, optionally lz4-framed.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/Sumatoshi-tech/ivtree/pkg/alg/interval"
)

// Record is one named closed interval [Low, High].
type Record struct {
	Name string  `json:"name,omitempty" yaml:"name,omitempty"`
	Low  float64 `json:"low"            yaml:"low"`
	High float64 `json:"high"           yaml:"high"`
}

// Set is the on-disk dataset document.
type Set struct {
	Records []Record `json:"intervals" yaml:"intervals"`
}

// Interval converts the record to a tree interval carrying the name as value.
func (r Record) Interval() interval.Interval[float64, string] {
	return interval.Interval[float64, string]{Low: r.Low, High: r.High, Value: r.Name}
}

// RecordOf converts a tree interval back to a record.
func RecordOf(iv interval.Interval[float64, string]) Record {
	return Record{Name: iv.Value, Low: iv.Low, High: iv.High}
}

// Intervals converts every record, preserving order.
func (s *Set) Intervals() []interval.Interval[float64, string] {
	out := make([]interval.Interval[float64, string], len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Interval()
	}

	return out
}

// Check reports every record whose bounds are inverted or NaN.
// The returned error wraps interval.ErrInvalidInterval.
func (s *Set) Check() error {
	var errs []error

	for i, r := range s.Records {
		err := r.Interval().Validate()
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d (%q): %w", i, r.Name, err))
		}
	}

	return errors.Join(errs...)
}

// Fingerprint returns the xxhash64 of the set's compact JSON encoding as
// 16 hex digits. Equal record sequences give equal fingerprints.
func Fingerprint(s *Set) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}

	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
