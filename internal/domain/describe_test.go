package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	records := []TemperatureRecord{
		smoothedRec("Berlin", "winter", 0, 1),
		smoothedRec("Berlin", "winter", 1, 2),
		smoothedRec("Berlin", "winter", 2, 3),
		smoothedRec("Berlin", "winter", 3, 4),
	}
	// One record without a smoothed value only contributes to the raw column.
	records = append(records, TemperatureRecord{
		City: "Berlin", Timestamp: seriesStart.AddDate(0, 0, 4), Season: "winter", Temperature: 10,
	})

	s := Describe(records)

	assert.Equal(t, 5, s.Raw.Count)
	assert.Equal(t, 4, s.Smoothed.Count)

	assert.InDelta(t, 2.5, s.Smoothed.Mean, 1e-9)
	require.NotNil(t, s.Smoothed.StdDev)
	assert.InDelta(t, math.Sqrt(5.0/3.0), *s.Smoothed.StdDev, 1e-9)
	assert.Equal(t, 1.0, s.Smoothed.Min)
	assert.Equal(t, 4.0, s.Smoothed.Max)

	// Linear interpolation between nearest ranks.
	assert.InDelta(t, 1.75, s.Smoothed.P25, 1e-9)
	assert.InDelta(t, 2.5, s.Smoothed.Median, 1e-9)
	assert.InDelta(t, 3.25, s.Smoothed.P75, 1e-9)
}

func TestDescribe_Empty(t *testing.T) {
	s := Describe(nil)
	assert.Equal(t, 0, s.Raw.Count)
	assert.Equal(t, 0, s.Smoothed.Count)
	assert.Nil(t, s.Raw.StdDev)
}

func TestDescribe_SingleValue(t *testing.T) {
	s := Describe([]TemperatureRecord{smoothedRec("Berlin", "winter", 0, 7)})

	assert.Equal(t, 1, s.Smoothed.Count)
	assert.Equal(t, 7.0, s.Smoothed.Mean)
	assert.Nil(t, s.Smoothed.StdDev)
	assert.Equal(t, 7.0, s.Smoothed.Median)
}
