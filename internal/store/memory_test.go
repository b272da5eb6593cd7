package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/temperature-analytics/internal/pipeline"
)

func analysisWithID(id string) *pipeline.Analysis {
	return &pipeline.Analysis{ID: id, Window: 30}
}

func TestMemory_PutGet(t *testing.T) {
	m := NewMemory(10)
	m.Put(analysisWithID("a"))

	got, err := m.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Latest(t *testing.T) {
	m := NewMemory(10)

	_, err := m.Latest()
	assert.ErrorIs(t, err, ErrNotFound)

	m.Put(analysisWithID("a"))
	m.Put(analysisWithID("b"))

	got, err := m.Latest()
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)
}

func TestMemory_EvictsOldest(t *testing.T) {
	m := NewMemory(2)
	m.Put(analysisWithID("a"))
	m.Put(analysisWithID("b"))
	m.Put(analysisWithID("c"))

	assert.Equal(t, 2, m.Len())

	_, err := m.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := m.Latest()
	require.NoError(t, err)
	assert.Equal(t, "c", got.ID)
}

func TestMemory_PutSameIDReplaces(t *testing.T) {
	m := NewMemory(2)
	first := analysisWithID("a")
	m.Put(first)

	replacement := analysisWithID("a")
	replacement.Window = 7
	m.Put(replacement)

	assert.Equal(t, 1, m.Len())
	got, err := m.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Window)
}

func TestMemory_UnlimitedRetention(t *testing.T) {
	m := NewMemory(0)
	for _, id := range []string{"a", "b", "c", "d"} {
		m.Put(analysisWithID(id))
	}
	assert.Equal(t, 4, m.Len())
}
