package domain

import "math"

// SeasonalStatistics computes the baseline mean and sample standard
// deviation of the smoothed temperature for every (city, season) group.
// Records still carrying the insufficient-history marker are excluded from
// the aggregates. Groups whose every record lacks a smoothed value are
// omitted entirely; querying them later yields ErrNoBaselineForSeason.
//
// The result is independent of input order: the same record set always
// produces the same statistics.
func SeasonalStatistics(records []TemperatureRecord) map[GroupKey]SeasonalStat {
	groups := make(map[GroupKey][]float64)
	for _, r := range records {
		v, err := r.SmoothedValue()
		if err != nil {
			continue
		}
		key := GroupKey{City: r.City, Season: r.Season}
		groups[key] = append(groups[key], v)
	}

	stats := make(map[GroupKey]SeasonalStat, len(groups))
	for key, values := range groups {
		var sum float64
		for _, v := range values {
			sum += v
		}
		mean := sum / float64(len(values))

		stat := SeasonalStat{
			City:   key.City,
			Season: key.Season,
			Count:  len(values),
			Mean:   mean,
		}

		// Sample standard deviation (n−1 divisor); undefined for
		// single-sample groups.
		if len(values) >= 2 {
			var ss float64
			for _, v := range values {
				d := v - mean
				ss += d * d
			}
			sd := math.Sqrt(ss / float64(len(values)-1))
			stat.StdDev = &sd
		}

		stats[key] = stat
	}

	return stats
}

// BaselineFor returns the baseline for a (city, season) pair.
// It distinguishes a missing group (ErrNoBaselineForSeason) from a group
// whose deviation is undefined (ErrUndefinedBaseline).
func BaselineFor(stats map[GroupKey]SeasonalStat, city, season string) (SeasonalStat, error) {
	stat, ok := stats[GroupKey{City: city, Season: season}]
	if !ok {
		return SeasonalStat{}, ErrNoBaselineForSeason
	}
	if stat.StdDev == nil {
		return stat, ErrUndefinedBaseline
	}
	return stat, nil
}
