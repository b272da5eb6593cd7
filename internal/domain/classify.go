package domain

import (
	"fmt"
	"math"
)

// CurrentSeason returns the season label attached to the chronologically
// latest record for the city, or ErrUnknownCity when the dataset holds no
// records for it.
func CurrentSeason(records []TemperatureRecord, city string) (string, error) {
	var (
		found  bool
		latest TemperatureRecord
	)
	for _, r := range records {
		if r.City != city {
			continue
		}
		if !found || r.Timestamp.After(latest.Timestamp) {
			latest = r
			found = true
		}
	}
	if !found {
		return "", fmt.Errorf("%w: %q", ErrUnknownCity, city)
	}
	return latest.Season, nil
}

// Classify compares a live temperature against the baseline for the city's
// current season: normal when |live − mean| ≤ 2·stddev, anomalous otherwise.
//
// When no baseline exists, the baseline deviation is undefined, or the city
// is absent from the dataset, the classification is indeterminate and the
// returned error carries the corresponding sentinel. An indeterminate
// outcome is never silently reported as normal.
func Classify(records []TemperatureRecord, stats map[GroupKey]SeasonalStat, city string, live float64) (Classification, error) {
	c := Classification{
		City:        city,
		Temperature: live,
		Status:      StatusIndeterminate,
	}

	season, err := CurrentSeason(records, city)
	if err != nil {
		c.Reason = err.Error()
		return c, err
	}
	c.Season = season

	stat, err := BaselineFor(stats, city, season)
	if err != nil {
		err = fmt.Errorf("%w: %s/%s", err, city, season)
		c.Reason = err.Error()
		return c, err
	}

	if math.Abs(live-stat.Mean) <= 2*(*stat.StdDev) {
		c.Status = StatusNormal
	} else {
		c.Status = StatusAnomalous
	}
	return c, nil
}
