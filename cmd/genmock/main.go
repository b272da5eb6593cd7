// Command genmock generates a deterministic synthetic temperature dataset
// for test fixtures and local experimentation. Each city gets a daily series
// with season-dependent means, gaussian noise, and a few injected spikes, so
// the anomaly detector has something to find. It runs the actual domain
// pipeline over the generated data and prints the aggregates used to update
// test assertions.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/temperatures.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/couchcryptid/temperature-analytics/internal/domain"
)

var baseDate = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// seasonalMean is the true per-season mean the noise is centered on.
var seasonalMean = map[string]float64{
	"winter": -2.0,
	"spring": 8.0,
	"summer": 20.0,
	"autumn": 10.0,
}

var cities = []string{"Berlin", "Moscow", "Cairo"}

// cityOffset shifts each city's climate so the groups are distinguishable.
var cityOffset = map[string]float64{
	"Berlin": 0,
	"Moscow": -8,
	"Cairo":  15,
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the CSV fixture")
	days := flag.Int("days", 730, "days of history per city")
	seed := flag.Int64("seed", 42, "random seed")
	spikeEvery := flag.Int("spike-every", 180, "inject a spike every N days per city")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed))
	records := generate(rng, *days, *spikeEvery)

	if err := writeCSV(*out, records); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d records to %s", len(records), *out)

	printAggregates(records)
	return nil
}

func generate(rng *rand.Rand, days, spikeEvery int) []domain.TemperatureRecord {
	var records []domain.TemperatureRecord
	for _, city := range cities {
		for d := 0; d < days; d++ {
			ts := baseDate.AddDate(0, 0, d)
			season := seasonOf(ts.Month())

			temp := seasonalMean[season] + cityOffset[city] + rng.NormFloat64()*2
			if spikeEvery > 0 && d > 0 && d%spikeEvery == 0 {
				temp += 25 // injected spike, well past the 2-sigma band
			}

			records = append(records, domain.TemperatureRecord{
				City:        city,
				Timestamp:   ts,
				Season:      season,
				Temperature: temp,
			})
		}
	}
	return records
}

func seasonOf(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}

func writeCSV(path string, records []domain.TemperatureRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "city", "temperature", "season"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Timestamp.Format("2006-01-02"),
			r.City,
			strconv.FormatFloat(r.Temperature, 'f', 2, 64),
			r.Season,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func printAggregates(records []domain.TemperatureRecord) {
	smoothed := domain.Smooth(records, domain.DefaultWindow)
	stats := domain.SeasonalStatistics(smoothed)
	anomalies := domain.DetectAnomalies(smoothed, stats)

	fmt.Println("\n=== Aggregates for updating test assertions ===")
	fmt.Printf("Total records: %d\n", len(records))
	fmt.Printf("Groups: %d\n", len(stats))
	fmt.Printf("Anomalies: %d\n", len(anomalies))

	keys := make([]domain.GroupKey, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].City != keys[j].City {
			return keys[i].City < keys[j].City
		}
		return keys[i].Season < keys[j].Season
	})
	for _, k := range keys {
		stat := stats[k]
		std := "undefined"
		if stat.StdDev != nil {
			std = fmt.Sprintf("%.3f", *stat.StdDev)
		}
		fmt.Printf("  %s/%s: n=%d mean=%.3f std=%s\n", k.City, k.Season, stat.Count, stat.Mean, std)
	}

	byCity := map[string]int{}
	for _, a := range anomalies {
		byCity[a.City]++
	}
	for _, city := range cities {
		fmt.Printf("Anomalies in %s: %d\n", city, byCity[city])
	}
}
