package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for statistical edge cases. They mark a classification or
// lookup as indeterminate; none of them aborts an analysis run.
var (
	// ErrMissingSmoothedValue is returned when a stage requires a smoothed
	// temperature but the record predates a full smoothing window.
	ErrMissingSmoothedValue = errors.New("record has no smoothed value")

	// ErrNoBaselineForSeason is returned when no seasonal baseline exists
	// for a (city, season) pair, e.g. after a sparse upload.
	ErrNoBaselineForSeason = errors.New("no baseline for season")

	// ErrUndefinedBaseline is returned when a baseline exists but its
	// standard deviation is undefined (fewer than two smoothed samples).
	ErrUndefinedBaseline = errors.New("baseline stddev undefined")

	// ErrUnknownCity is returned when the dataset contains no records for
	// the requested city.
	ErrUnknownCity = errors.New("no records for city")
)

// TemperatureRecord is one observed daily temperature for a city.
type TemperatureRecord struct {
	City        string    `json:"city"`
	Timestamp   time.Time `json:"timestamp"`
	Season      string    `json:"season"`
	Temperature float64   `json:"temperature"`

	// Smoothed is the trailing moving average at this position, or nil while
	// fewer than a full window of same-city history exists.
	Smoothed *float64 `json:"smoothed,omitempty"`
}

// SmoothedValue returns the smoothed temperature, or ErrMissingSmoothedValue
// when the record carries the insufficient-history marker.
func (r TemperatureRecord) SmoothedValue() (float64, error) {
	if r.Smoothed == nil {
		return 0, fmt.Errorf("%w: %s at %s", ErrMissingSmoothedValue, r.City, r.Timestamp.Format(time.RFC3339))
	}
	return *r.Smoothed, nil
}

// GroupKey identifies one (city, season) baseline group.
type GroupKey struct {
	City   string `json:"city"`
	Season string `json:"season"`
}

// SeasonalStat is the statistical baseline for one (city, season) group.
// StdDev is nil when the group has fewer than two smoothed samples; a
// single observation carries no variance estimate.
type SeasonalStat struct {
	City   string   `json:"city"`
	Season string   `json:"season"`
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	StdDev *float64 `json:"stddev,omitempty"`
}

// Status is the outcome of classifying a live reading.
type Status string

const (
	StatusNormal        Status = "normal"
	StatusAnomalous     Status = "anomalous"
	StatusIndeterminate Status = "indeterminate"
)

// Classification is the result of comparing a live temperature against the
// baseline for a city's current season.
type Classification struct {
	City        string  `json:"city"`
	Season      string  `json:"season,omitempty"`
	Temperature float64 `json:"temperature"`
	Status      Status  `json:"status"`
	Reason      string  `json:"reason,omitempty"`
}
