// Command analyze runs the full analysis pipeline over a CSV file and
// prints the descriptive statistics, seasonal baselines, and anomaly subset
// to stdout. With -api-key and -city it also fetches the current
// temperature and classifies it against the city's current-season baseline.
//
// Usage:
//
//	go run ./cmd/analyze -input data/temperatures.csv -window 30
//	go run ./cmd/analyze -input data/temperatures.csv -city Berlin -api-key $OPENWEATHER_API_KEY
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/couchcryptid/temperature-analytics/internal/adapter/openweather"
	"github.com/couchcryptid/temperature-analytics/internal/domain"
	"github.com/couchcryptid/temperature-analytics/internal/ingest"
	"github.com/couchcryptid/temperature-analytics/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	input := flag.String("input", "", "path to the historical temperature CSV")
	window := flag.Int("window", domain.DefaultWindow, "smoothing window in samples")
	city := flag.String("city", "", "city for live classification (optional)")
	apiKey := flag.String("api-key", "", "OpenWeatherMap API key (optional)")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -input")
	}

	f, err := os.Open(*input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	records, err := ingest.ReadDataset(f)
	if err != nil {
		return err
	}

	smoothed := domain.Smooth(records, *window)
	stats := domain.SeasonalStatistics(smoothed)
	anomalies := domain.DetectAnomalies(smoothed, stats)
	summary := domain.Describe(smoothed)

	fmt.Printf("Dataset: %d records, window %d\n", len(records), *window)
	printSummary(summary)
	printStats(stats)
	printAnomalies(anomalies)

	if *city != "" && *apiKey != "" {
		classifyLive(smoothed, stats, *city, *apiKey)
	}

	return nil
}

func printSummary(s domain.DatasetSummary) {
	fmt.Println("\n=== Descriptive statistics ===")
	fmt.Printf("%-10s %8s %10s %10s %10s %10s %10s %10s %10s\n",
		"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	printSummaryRow("raw", s.Raw)
	printSummaryRow("smoothed", s.Smoothed)
}

func printSummaryRow(name string, s domain.Summary) {
	std := "n/a"
	if s.StdDev != nil {
		std = fmt.Sprintf("%.3f", *s.StdDev)
	}
	fmt.Printf("%-10s %8d %10.3f %10s %10.3f %10.3f %10.3f %10.3f %10.3f\n",
		name, s.Count, s.Mean, std, s.Min, s.P25, s.Median, s.P75, s.Max)
}

func printStats(stats map[domain.GroupKey]domain.SeasonalStat) {
	rows := make([]domain.SeasonalStat, 0, len(stats))
	for _, stat := range stats {
		rows = append(rows, stat)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].City != rows[j].City {
			return rows[i].City < rows[j].City
		}
		return rows[i].Season < rows[j].Season
	})

	fmt.Println("\n=== Seasonal baselines ===")
	fmt.Printf("%-15s %-10s %8s %10s %10s\n", "city", "season", "count", "mean", "std")
	for _, stat := range rows {
		std := "undefined"
		if stat.StdDev != nil {
			std = fmt.Sprintf("%.3f", *stat.StdDev)
		}
		fmt.Printf("%-15s %-10s %8d %10.3f %10s\n", stat.City, stat.Season, stat.Count, stat.Mean, std)
	}
}

func printAnomalies(anomalies []domain.TemperatureRecord) {
	fmt.Printf("\n=== Anomalies (%d) ===\n", len(anomalies))
	for _, r := range anomalies {
		fmt.Printf("%-15s %s %-10s raw=%.2f smoothed=%.2f\n",
			r.City, r.Timestamp.Format("2006-01-02"), r.Season, r.Temperature, *r.Smoothed)
	}
}

func classifyLive(records []domain.TemperatureRecord, stats map[domain.GroupKey]domain.SeasonalStat, city, apiKey string) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := openweather.NewClient(apiKey, 10*time.Second, observability.NewMetrics(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	live, err := client.CurrentTemperature(ctx, city)
	if err != nil {
		fmt.Printf("\nLive fetch failed: %v\n", err)
		return
	}

	c, err := domain.Classify(records, stats, city, live)
	fmt.Printf("\n=== Live reading ===\n")
	fmt.Printf("%s: %.2f °C → %s", city, live, c.Status)
	if err != nil {
		fmt.Printf(" (%s)", c.Reason)
	}
	fmt.Println()
}
