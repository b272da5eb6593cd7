// Package pipeline orchestrates the single-shot analysis of an uploaded
// dataset: smoothing, seasonal baselines, anomaly detection, and on-demand
// live classification.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/temperature-analytics/internal/domain"
	"github.com/couchcryptid/temperature-analytics/internal/observability"
)

// ErrLiveDisabled is returned when live classification is requested but no
// weather provider is configured.
var ErrLiveDisabled = errors.New("live weather integration is disabled")

// WeatherFetcher retrieves the current temperature for a city from an
// external provider.
type WeatherFetcher interface {
	CurrentTemperature(ctx context.Context, city string) (float64, error)
}

// Analysis is the immutable result of one pipeline run over one dataset.
type Analysis struct {
	ID         string                                  `json:"id"`
	AnalyzedAt time.Time                               `json:"analyzed_at"`
	Window     int                                     `json:"window"`
	Records    []domain.TemperatureRecord              `json:"-"`
	Stats      map[domain.GroupKey]domain.SeasonalStat `json:"-"`
	Anomalies  []domain.TemperatureRecord              `json:"anomalies,omitempty"`
	Summary    domain.DatasetSummary                   `json:"summary"`
}

// Cities returns the distinct cities in the dataset, sorted.
func (a *Analysis) Cities() []string {
	seen := make(map[string]struct{})
	var cities []string
	for _, r := range a.Records {
		if _, ok := seen[r.City]; ok {
			continue
		}
		seen[r.City] = struct{}{}
		cities = append(cities, r.City)
	}
	sort.Strings(cities)
	return cities
}

// StatsFor returns the seasonal baselines for one city, or every baseline
// when city is empty.
func (a *Analysis) StatsFor(city string) []domain.SeasonalStat {
	var out []domain.SeasonalStat
	for _, stat := range a.Stats {
		if city == "" || stat.City == city {
			out = append(out, stat)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].City != out[j].City {
			return out[i].City < out[j].City
		}
		return out[i].Season < out[j].Season
	})
	return out
}

// AnomaliesFor returns the flagged records for one city, or all flagged
// records when city is empty, preserving dataset order.
func (a *Analysis) AnomaliesFor(city string) []domain.TemperatureRecord {
	if city == "" {
		return a.Anomalies
	}
	var out []domain.TemperatureRecord
	for _, r := range a.Anomalies {
		if r.City == city {
			out = append(out, r)
		}
	}
	return out
}

// Analyzer runs the batch pipeline and classifies live readings against its
// results.
type Analyzer struct {
	fetcher WeatherFetcher // nil when live readings are disabled
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// New creates an Analyzer. Pass a nil fetcher to disable live
// classification.
func New(fetcher WeatherFetcher, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Analyzer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Analyzer{
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// CheckReadiness reports whether the analyzer can accept uploads. The
// pipeline holds no external connections, so it is ready as soon as it is
// constructed.
func (a *Analyzer) CheckReadiness(_ context.Context) error {
	return nil
}

// Analyze runs the full smooth-aggregate-detect pipeline over one dataset
// snapshot. The input slice is not mutated; reanalyzing the same records
// with the same window yields identical statistics and anomalies.
func (a *Analyzer) Analyze(_ context.Context, records []domain.TemperatureRecord, window int) (*Analysis, error) {
	if len(records) == 0 {
		return nil, errors.New("analyze: empty dataset")
	}
	if window <= 0 {
		window = domain.DefaultWindow
	}

	start := a.clock.Now()

	smoothed := domain.Smooth(records, window)
	stats := domain.SeasonalStatistics(smoothed)
	anomalies := domain.DetectAnomalies(smoothed, stats)
	summary := domain.Describe(smoothed)

	analysis := &Analysis{
		ID:         uuid.NewString(),
		AnalyzedAt: start,
		Window:     window,
		Records:    smoothed,
		Stats:      stats,
		Anomalies:  anomalies,
		Summary:    summary,
	}

	a.metrics.DatasetsAnalyzed.Inc()
	a.metrics.RecordsProcessed.Add(float64(len(records)))
	a.metrics.AnomaliesDetected.Add(float64(len(anomalies)))
	a.metrics.AnalysisDuration.Observe(a.clock.Since(start).Seconds())

	a.logger.Info("dataset analyzed",
		"dataset_id", analysis.ID,
		"records", len(records),
		"groups", len(stats),
		"anomalies", len(anomalies),
		"window", window,
	)

	return analysis, nil
}

// ClassifyLive fetches the current temperature for a city and classifies it
// against the analysis' baseline for that city's current season.
//
// Fetch failures are returned as errors and leave the historical analysis
// untouched. Statistical edge cases (no baseline, undefined deviation,
// unknown city) are not errors: they yield an indeterminate classification
// whose Reason explains the gap.
func (a *Analyzer) ClassifyLive(ctx context.Context, analysis *Analysis, city string) (domain.Classification, error) {
	if a.fetcher == nil {
		return domain.Classification{}, ErrLiveDisabled
	}

	live, err := a.fetcher.CurrentTemperature(ctx, city)
	if err != nil {
		a.metrics.LiveFetchRequests.WithLabelValues("error").Inc()
		a.logger.Warn("live fetch failed", "city", city, "error", err)
		return domain.Classification{}, fmt.Errorf("live fetch: %w", err)
	}
	a.metrics.LiveFetchRequests.WithLabelValues("success").Inc()

	c, err := domain.Classify(analysis.Records, analysis.Stats, city, live)
	if err != nil {
		a.logger.Warn("live classification indeterminate",
			"city", city, "season", c.Season, "reason", err)
	}
	a.metrics.LiveClassifications.WithLabelValues(string(c.Status)).Inc()

	a.logger.Info("live reading classified",
		"city", city,
		"temperature", live,
		"status", c.Status,
	)
	return c, nil
}
