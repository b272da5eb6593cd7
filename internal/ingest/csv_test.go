package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDataset(t *testing.T) {
	csv := strings.Join([]string{
		"timestamp,city,temperature,season",
		"2024-01-01,Berlin,-1.5,Winter",
		"2024-01-02T12:30:00Z,Berlin,-2.0,winter",
		"2024-07-01 06:00:00,Cairo,35.2,summer",
	}, "\n")

	records, err := ReadDataset(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Berlin", records[0].City)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), records[0].Timestamp)
	assert.Equal(t, -1.5, records[0].Temperature)
	// Season labels are normalized to lower case for grouping.
	assert.Equal(t, "winter", records[0].Season)

	assert.Equal(t, time.Date(2024, 1, 2, 12, 30, 0, 0, time.UTC), records[1].Timestamp)
	assert.Equal(t, time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC), records[2].Timestamp)
	assert.Nil(t, records[2].Smoothed)
}

func TestReadDataset_ColumnOrderIrrelevant(t *testing.T) {
	csv := strings.Join([]string{
		"season,temperature,city,timestamp",
		"winter,-3.0,Moscow,2024-01-01",
	}, "\n")

	records, err := ReadDataset(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Moscow", records[0].City)
	assert.Equal(t, -3.0, records[0].Temperature)
}

func TestReadDataset_MissingColumn(t *testing.T) {
	csv := "timestamp,city,temperature\n2024-01-01,Berlin,1.0"

	_, err := ReadDataset(strings.NewReader(csv))
	require.Error(t, err)

	ie, ok := AsError(err)
	require.True(t, ok)
	assert.Contains(t, ie.Reason, "season")
}

func TestReadDataset_RowErrorsCarryLineNumbers(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"bad temperature", "2024-01-02,Berlin,not-a-number,winter", "invalid temperature"},
		{"bad timestamp", "yesterday,Berlin,1.0,winter", "invalid timestamp"},
		{"empty city", "2024-01-02,,1.0,winter", "empty city"},
		{"empty season", "2024-01-02,Berlin,1.0,", "empty season"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csv := strings.Join([]string{
				"timestamp,city,temperature,season",
				"2024-01-01,Berlin,1.0,winter",
				tt.row,
			}, "\n")

			_, err := ReadDataset(strings.NewReader(csv))
			require.Error(t, err)

			ie, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, 3, ie.Line)
			assert.Contains(t, ie.Reason, tt.want)
		})
	}
}

func TestReadDataset_EmptyDataset(t *testing.T) {
	_, err := ReadDataset(strings.NewReader("timestamp,city,temperature,season\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestReadDataset_GarbageHeader(t *testing.T) {
	_, err := ReadDataset(strings.NewReader(""))
	require.Error(t, err)
	_, ok := AsError(err)
	assert.True(t, ok)
}
