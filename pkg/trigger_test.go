package raster

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstTrigger(t *testing.T) {
	first, ok := FirstTrigger(nil)
	assert.False(t, ok)
	assert.Equal(t, 0, first)

	first, ok = FirstTrigger([]float64{950.0})
	assert.True(t, ok)
	assert.Equal(t, 0, first)

	first, ok = FirstTrigger([]float64{950.0, 10.0, 300.0})
	assert.True(t, ok)
	assert.Equal(t, 1, first)

	first, _ = FirstTrigger([]float64{5.0, 3.0, 3.0})
	assert.Equal(t, 1, first)
}

func TestFilterTrigger(t *testing.T) {
	hits := []Hit{
		{TubeIndex: 1, Trigger: 0},
		{TubeIndex: 2, Trigger: 1},
		{TubeIndex: 3, Trigger: 0},
	}
	assert.Equal(t, []Hit{hits[0], hits[2]}, FilterTrigger(hits, 0))
	assert.Empty(t, FilterTrigger(hits, 4))
	assert.Equal(t, 2, CountTriggerHits(hits, 0))
	assert.Equal(t, 1, CountTriggerHits(hits, 1))
}

func TestSelectedTrigger(t *testing.T) {
	event := EventRecord{TriggerTimes: []float64{950.0, 10.0}}
	assert.Equal(t, 1, event.SelectedTrigger(SelectFirstTrigger))
	assert.Equal(t, -1, event.SelectedTrigger(SelectAllTriggers))

	empty := EventRecord{}
	assert.Equal(t, 0, empty.SelectedTrigger(SelectFirstTrigger))
}

func TestTriggerSelectionJSON(t *testing.T) {
	data, err := json.Marshal(SelectAllTriggers)
	require.NoError(t, err)
	assert.Equal(t, `"all"`, string(data))

	var s TriggerSelection
	require.NoError(t, json.Unmarshal([]byte(`"first"`), &s))
	assert.Equal(t, SelectFirstTrigger, s)
	assert.Error(t, json.Unmarshal([]byte(`"second"`), &s))
}
