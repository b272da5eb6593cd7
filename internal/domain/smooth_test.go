package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seriesStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// dailySeries builds one record per day for a city, starting at seriesStart.
func dailySeries(city, season string, temps ...float64) []TemperatureRecord {
	records := make([]TemperatureRecord, len(temps))
	for i, temp := range temps {
		records[i] = TemperatureRecord{
			City:        city,
			Timestamp:   seriesStart.AddDate(0, 0, i),
			Season:      season,
			Temperature: temp,
		}
	}
	return records
}

func TestSmooth_TrailingWindowMean(t *testing.T) {
	records := dailySeries("Berlin", "winter", 1, 2, 3, 4, 5)

	out := Smooth(records, 3)

	require.Len(t, out, 5)
	assert.Nil(t, out[0].Smoothed)
	assert.Nil(t, out[1].Smoothed)

	require.NotNil(t, out[2].Smoothed)
	assert.InDelta(t, 2.0, *out[2].Smoothed, 1e-9) // (1+2+3)/3
	require.NotNil(t, out[3].Smoothed)
	assert.InDelta(t, 3.0, *out[3].Smoothed, 1e-9) // (2+3+4)/3
	require.NotNil(t, out[4].Smoothed)
	assert.InDelta(t, 4.0, *out[4].Smoothed, 1e-9) // (3+4+5)/3
}

func TestSmooth_InsufficientHistoryMarkers(t *testing.T) {
	records := dailySeries("Berlin", "winter", 1, 2, 3, 4, 5)

	out := Smooth(records, 30)

	for i, r := range out {
		assert.Nilf(t, r.Smoothed, "position %d has fewer than a full window of history", i)
	}
}

func TestSmooth_DoesNotBlendAcrossCities(t *testing.T) {
	// Interleave a warm and a cold city; a window that mixed them would
	// produce means between the two climates.
	var records []TemperatureRecord
	for i := 0; i < 4; i++ {
		records = append(records,
			TemperatureRecord{City: "Cairo", Timestamp: seriesStart.AddDate(0, 0, i), Season: "winter", Temperature: 20},
			TemperatureRecord{City: "Moscow", Timestamp: seriesStart.AddDate(0, 0, i), Season: "winter", Temperature: -10},
		)
	}

	out := Smooth(records, 2)

	for _, r := range out {
		if r.Smoothed == nil {
			continue
		}
		switch r.City {
		case "Cairo":
			assert.InDelta(t, 20.0, *r.Smoothed, 1e-9)
		case "Moscow":
			assert.InDelta(t, -10.0, *r.Smoothed, 1e-9)
		}
	}
}

func TestSmooth_OrdersByTimestampWithinCity(t *testing.T) {
	// Records arrive newest-first; the window must still follow time order.
	records := dailySeries("Berlin", "winter", 1, 2, 3)
	reversed := []TemperatureRecord{records[2], records[1], records[0]}

	out := Smooth(reversed, 2)

	// Output preserves input positions: reversed[0] is the latest record.
	require.NotNil(t, out[0].Smoothed)
	assert.InDelta(t, 2.5, *out[0].Smoothed, 1e-9) // (2+3)/2
	require.NotNil(t, out[1].Smoothed)
	assert.InDelta(t, 1.5, *out[1].Smoothed, 1e-9) // (1+2)/2
	assert.Nil(t, out[2].Smoothed) // earliest record has no prior history
}

func TestSmooth_DoesNotMutateInput(t *testing.T) {
	records := dailySeries("Berlin", "winter", 1, 2, 3)

	_ = Smooth(records, 2)

	for _, r := range records {
		assert.Nil(t, r.Smoothed)
	}
}

func TestSmooth_WindowOne(t *testing.T) {
	records := dailySeries("Berlin", "winter", 4, 7)

	out := Smooth(records, 1)

	require.NotNil(t, out[0].Smoothed)
	assert.Equal(t, 4.0, *out[0].Smoothed)
	require.NotNil(t, out[1].Smoothed)
	assert.Equal(t, 7.0, *out[1].Smoothed)
}
