// Package domain models historical per-city temperature series and the
// statistical analysis performed on them.
//
// # Data Source
//
// Historical data arrives as CSV uploads with four columns: timestamp, city,
// temperature (°C), and season. Season is a free-form categorical label
// supplied by the dataset (typically "winter", "spring", "summer", "autumn");
// the analysis never derives seasons from dates, it trusts the labels as
// grouping keys. Live readings come from the OpenWeatherMap current-weather
// API in metric units.
//
// # Smoothing
//
// Each city's series is smoothed independently with a trailing moving
// average of window W (default 30 samples). A position only receives a
// smoothed value once a full window of same-city history exists; earlier
// positions carry a nil marker rather than a partial average. Mixing cities
// inside one window would blend unrelated climates around every city
// boundary, so smoothing always partitions by city first and orders each
// partition by timestamp.
//
// # Baselines
//
// A baseline is the (mean, sample standard deviation) of the smoothed
// series for one (city, season) group. Sample standard deviation uses the
// n−1 divisor, so a group with fewer than two smoothed samples has an
// undefined deviation (StdDev == nil). Undefined baselines never produce
// anomaly flags and classify live readings as indeterminate.
//
// # Anomalies
//
// A record is anomalous when its smoothed temperature lies strictly outside
// mean ± 2·stddev of its own group's baseline. A live reading is normal when
// |live − mean| ≤ 2·stddev of the baseline for the city's current season,
// where the current season is the label on the city's chronologically
// latest record.
package domain
