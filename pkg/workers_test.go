package raster

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRasterizeEvent(t *testing.T) {
	r := NewRasterizer(defaultGeometry(t), AggregateLast)
	event := makeEvents(1)[0]

	first := RasterizeEvent(event, r, SelectFirstTrigger)
	require.NoError(t, first.Err)
	assert.Equal(t, 1, first.Trigger)
	assert.Equal(t, Stats{Barrel: 1, OtherTrigger: 1}, first.Result.Stats)
	assert.Equal(t, 0.5, first.Result.Raster.Charge(1, 0, 0))

	all := RasterizeEvent(event, r, SelectAllTriggers)
	require.NoError(t, all.Err)
	assert.Equal(t, -1, all.Trigger)
	assert.Equal(t, Stats{Barrel: 2}, all.Result.Stats)
}

func TestRasterizeEventsMatchesSequential(t *testing.T) {
	r := NewRasterizer(defaultGeometry(t), AggregateSum)
	events := makeEvents(50)
	events[7].Hits = append(events[7].Hits, Hit{TubeIndex: -3, Trigger: 1})

	for _, nWorkers := range []int{0, 1, 4, 16} {
		processed := RasterizeEvents(events, r, SelectFirstTrigger, nWorkers)
		require.Len(t, processed, len(events))
		for i, p := range processed {
			want := RasterizeEvent(events[i], r, SelectFirstTrigger)
			assert.Equal(t, i, p.Index)
			assert.Equal(t, events[i].EventID, p.Event.EventID)
			assert.Equal(t, want.Trigger, p.Trigger)
			require.NoError(t, p.Err)
			assert.Equal(t, want.Result, p.Result, "event %d with %d workers", i, nWorkers)
		}
		assert.Len(t, processed[7].Result.Errors, 1)
	}
}

func TestRasterizeEventsUnknownModule(t *testing.T) {
	ml := &mockLogger{}
	ml.On("Error", mock.Anything).Return()
	useLogger(t, ml)

	g, err := NewGeometry(gapLayout())
	require.NoError(t, err)
	r := NewRasterizer(g, AggregateLast)
	events := []EventRecord{
		{EventID: 1, Hits: []Hit{{TubeIndex: 1, Charge: 1}}},
		{EventID: 2, Hits: []Hit{{TubeIndex: 40 * PMTsPerModule, Charge: 1}}},
	}
	processed := RasterizeEvents(events, r, SelectAllTriggers, 2)
	require.NoError(t, processed[0].Err)
	var unknown *UnknownModuleError
	assert.ErrorAs(t, processed[1].Err, &unknown)
	assert.Nil(t, processed[1].Result)
	ml.AssertNumberOfCalls(t, "Error", 1)
}

// countingSource serves events and then fails with err, or io.EOF when err is
// nil.
type countingSource struct {
	events []EventRecord
	err    error
	reads  int
}

func (s *countingSource) Next() (EventRecord, error) {
	if s.reads >= len(s.events) {
		if s.err != nil {
			return EventRecord{}, s.err
		}
		return EventRecord{}, io.EOF
	}
	event := s.events[s.reads]
	s.reads++
	return event, nil
}

func TestProcessEventsFromReader(t *testing.T) {
	r := NewRasterizer(defaultGeometry(t), AggregateLast)
	events := makeEvents(30)
	reader := NewEventReader(encodeEvents(t, events))
	reader.Skip = 5

	var ids []int
	err := ProcessEvents(reader, r, SelectFirstTrigger, 4, func(p ProcessedEvent) error {
		require.NoError(t, p.Err)
		assert.Equal(t, len(ids), p.Index)
		ids = append(ids, p.Event.EventID)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, ids, 25)
	for i, id := range ids {
		assert.Equal(t, 105+i, id)
	}
}

func TestProcessEventsStopsOnHandlerError(t *testing.T) {
	r := NewRasterizer(defaultGeometry(t), AggregateLast)
	source := &countingSource{events: makeEvents(1000)}
	writeErr := errors.New("disk full")
	nWorkers := 2

	handled := 0
	err := ProcessEvents(source, r, SelectAllTriggers, nWorkers, func(p ProcessedEvent) error {
		assert.Equal(t, handled, p.Index)
		handled++
		if handled == 3 {
			return writeErr
		}
		return nil
	})
	assert.ErrorIs(t, err, writeErr)
	assert.Equal(t, 3, handled)
	assert.LessOrEqual(t, source.reads, 4*nWorkers+3)
}

func TestProcessEventsReadError(t *testing.T) {
	ml := &mockLogger{}
	ml.On("Error", mock.Anything).Return()
	useLogger(t, ml)

	r := NewRasterizer(defaultGeometry(t), AggregateLast)
	readErr := errors.New("truncated record")
	source := &countingSource{events: makeEvents(10), err: readErr}

	handled := 0
	err := ProcessEvents(source, r, SelectAllTriggers, 3, func(p ProcessedEvent) error {
		handled++
		return nil
	})
	assert.ErrorIs(t, err, readErr)
	assert.Equal(t, 10, handled)
	ml.AssertNumberOfCalls(t, "Error", 1)
}
