package domain

import (
	"math"
	"sort"
)

// Summary holds descriptive statistics for one numeric column, matching the
// count/mean/std/min/quartiles/max table of the analysis report. StdDev is
// nil when fewer than two values are present.
type Summary struct {
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	StdDev *float64 `json:"stddev,omitempty"`
	Min    float64  `json:"min"`
	P25    float64  `json:"p25"`
	Median float64  `json:"median"`
	P75    float64  `json:"p75"`
	Max    float64  `json:"max"`
}

// DatasetSummary describes the raw and smoothed temperature columns of an
// analyzed dataset. The smoothed summary covers only positions that have a
// smoothed value.
type DatasetSummary struct {
	Raw      Summary `json:"raw"`
	Smoothed Summary `json:"smoothed"`
}

// Describe computes descriptive statistics over both temperature columns.
func Describe(records []TemperatureRecord) DatasetSummary {
	raw := make([]float64, 0, len(records))
	smoothed := make([]float64, 0, len(records))
	for _, r := range records {
		raw = append(raw, r.Temperature)
		if r.Smoothed != nil {
			smoothed = append(smoothed, *r.Smoothed)
		}
	}
	return DatasetSummary{
		Raw:      summarize(raw),
		Smoothed: summarize(smoothed),
	}
}

func summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	s := Summary{
		Count:  len(sorted),
		Mean:   mean,
		Min:    sorted[0],
		P25:    quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		P75:    quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}

	if len(sorted) >= 2 {
		var ss float64
		for _, v := range sorted {
			d := v - mean
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(len(sorted)-1))
		s.StdDev = &sd
	}

	return s
}

// quantile computes the q-th quantile of sorted values with linear
// interpolation between the two nearest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
