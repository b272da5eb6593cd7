package domain

import "sort"

// DefaultWindow is the trailing moving-average window applied when the
// caller does not override it.
const DefaultWindow = 30

// Smooth computes a trailing moving average of the raw temperature over
// window samples, independently per city. The input order is preserved in
// the returned slice; each city's window is evaluated over that city's
// records in timestamp order regardless of how cities interleave in the
// input. Positions with fewer than window prior same-city samples keep a
// nil Smoothed marker. The input slice is not mutated.
func Smooth(records []TemperatureRecord, window int) []TemperatureRecord {
	out := make([]TemperatureRecord, len(records))
	copy(out, records)
	if window <= 0 {
		window = DefaultWindow
	}

	for _, idx := range partitionByCity(out) {
		// Time-order the city's positions without disturbing the slice layout.
		sort.SliceStable(idx, func(a, b int) bool {
			return out[idx[a]].Timestamp.Before(out[idx[b]].Timestamp)
		})

		var sum float64
		for i, pos := range idx {
			sum += out[pos].Temperature
			if i >= window {
				sum -= out[idx[i-window]].Temperature
			}
			if i >= window-1 {
				v := sum / float64(window)
				out[pos].Smoothed = &v
			}
		}
	}

	return out
}

// partitionByCity groups record indices by city, cities in first-seen order.
func partitionByCity(records []TemperatureRecord) [][]int {
	byCity := make(map[string][]int)
	var order []string
	for i, r := range records {
		if _, ok := byCity[r.City]; !ok {
			order = append(order, r.City)
		}
		byCity[r.City] = append(byCity[r.City], i)
	}

	parts := make([][]int, 0, len(order))
	for _, city := range order {
		parts = append(parts, byCity[city])
	}
	return parts
}
