// Package ingest loads historical temperature datasets from CSV uploads.
//
// Expected header: timestamp, city, temperature, season (any column order).
// Timestamps accept RFC 3339 or plain dates ("2006-01-02"). A malformed
// header or row aborts the whole upload with an *Error carrying the line
// number; partial datasets are never analyzed.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/temperature-analytics/internal/domain"
)

// Error is a fatal ingestion failure: a malformed header or data row.
type Error struct {
	Line   int // 0 when the failure is not tied to one row
	Reason string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("ingest: line %d: %s", e.Line, e.Reason)
	}
	return "ingest: " + e.Reason
}

// AsError reports whether err is an ingestion failure.
func AsError(err error) (*Error, bool) {
	var ie *Error
	ok := errors.As(err, &ie)
	return ie, ok
}

var requiredColumns = []string{"timestamp", "city", "temperature", "season"}

// timestampLayouts are tried in order when parsing the timestamp column.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReadDataset parses a CSV stream into temperature records, preserving row
// order. Season labels are lower-cased and city names trimmed so grouping
// keys compare consistently.
func ReadDataset(r io.Reader) ([]domain.TemperatureRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &Error{Reason: fmt.Sprintf("read header: %v", err)}
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []domain.TemperatureRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &Error{Line: line, Reason: err.Error()}
		}

		rec, err := parseRow(row, cols, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, &Error{Reason: "dataset contains no data rows"}
	}
	return records, nil
}

// indexColumns maps required column names to their positions in the header.
func indexColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, &Error{Reason: fmt.Sprintf("missing required column %q", name)}
		}
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int, line int) (domain.TemperatureRecord, error) {
	get := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	ts, err := parseTimestamp(get("timestamp"))
	if err != nil {
		return domain.TemperatureRecord{}, &Error{Line: line, Reason: err.Error()}
	}

	city := get("city")
	if city == "" {
		return domain.TemperatureRecord{}, &Error{Line: line, Reason: "empty city"}
	}

	temp, err := strconv.ParseFloat(get("temperature"), 64)
	if err != nil {
		return domain.TemperatureRecord{}, &Error{Line: line, Reason: fmt.Sprintf("invalid temperature %q", get("temperature"))}
	}

	season := strings.ToLower(get("season"))
	if season == "" {
		return domain.TemperatureRecord{}, &Error{Line: line, Reason: "empty season"}
	}

	return domain.TemperatureRecord{
		City:        city,
		Timestamp:   ts,
		Season:      season,
		Temperature: temp,
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}
