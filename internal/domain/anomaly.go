package domain

// DetectAnomalies returns the records whose smoothed temperature lies
// strictly outside mean ± 2·stddev of their own (city, season) baseline,
// preserving the input's relative order. Records without a smoothed value
// and groups with an undefined deviation contribute no flags. The input is
// not mutated.
//
// The stats argument must come from SeasonalStatistics over the same
// records so detection and reporting share one set of thresholds.
func DetectAnomalies(records []TemperatureRecord, stats map[GroupKey]SeasonalStat) []TemperatureRecord {
	var anomalies []TemperatureRecord
	for _, r := range records {
		v, err := r.SmoothedValue()
		if err != nil {
			continue
		}

		stat, err := BaselineFor(stats, r.City, r.Season)
		if err != nil {
			// Missing or undefined baselines resolve to "not anomalous".
			continue
		}

		lower := stat.Mean - 2*(*stat.StdDev)
		upper := stat.Mean + 2*(*stat.StdDev)
		if v < lower || v > upper {
			anomalies = append(anomalies, r)
		}
	}
	return anomalies
}
