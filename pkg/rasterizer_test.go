package raster

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLogger struct{ mock.Mock }

func (m *mockLogger) Info(message string, module string) { m.Called(message, module) }
func (m *mockLogger) Error(message string)               { m.Called(message) }

func useLogger(t *testing.T, l Logger) {
	t.Helper()
	SetLogger(l)
	t.Cleanup(func() { SetLogger(nil) })
}

// barrelTube is a tube of module 0, which sits on row 1 column 0 of the
// default layout.
const barrelTube = 3

func TestRasterizeEmpty(t *testing.T) {
	g := defaultGeometry(t)
	result, err := Rasterize(nil, g)
	require.NoError(t, err)
	assert.True(t, result.Raster.IsZero())
	assert.Empty(t, result.Errors)
	assert.NoError(t, result.Err())
	assert.Equal(t, 0, result.Stats.Total())
}

func TestRasterizeLastWriteWins(t *testing.T) {
	g := defaultGeometry(t)
	hits := []Hit{
		{TubeIndex: barrelTube, Charge: 5.0, Time: 1.0},
		{TubeIndex: barrelTube, Charge: 7.0, Time: 2.0},
	}
	result, err := Rasterize(hits, g)
	require.NoError(t, err)
	assert.Equal(t, 7.0, result.Raster.Charge(1, 0, 3))
	assert.Equal(t, 2.0, result.Raster.Time(1, 0, 3))
	assert.Equal(t, 2, result.Stats.Barrel)
	assert.Equal(t, 1, result.Stats.Collisions)
}

func TestRasterizeCapHitsAreDropped(t *testing.T) {
	g := defaultGeometry(t)
	hits := []Hit{
		{TubeIndex: 736 * PMTsPerModule, Charge: 3.0, Time: 10.0},
		{TubeIndex: 600*PMTsPerModule + 4, Charge: 1.0, Time: 11.0},
	}
	result, err := Rasterize(hits, g)
	require.NoError(t, err)
	assert.True(t, result.Raster.IsZero())
	assert.Empty(t, result.Errors)
	assert.Equal(t, Stats{Top: 1, Bottom: 1}, result.Stats)
}

func TestRasterizeTopCapFirstLayout(t *testing.T) {
	g, err := NewGeometry(topFirstLayout())
	require.NoError(t, err)
	result, err := Rasterize([]Hit{{TubeIndex: 0, Charge: 3.0, Time: 10.0}}, g)
	require.NoError(t, err)
	assert.True(t, result.Raster.IsZero())
	assert.Equal(t, 1, result.Stats.Top)
}

func TestRasterizeRoundTrip(t *testing.T) {
	g := defaultGeometry(t)
	hits := []Hit{
		{TubeIndex: 0, Charge: 1.5, Time: 100.0},
		{TubeIndex: 18, Charge: 2.5, Time: 101.0},
		{TubeIndex: 599*PMTsPerModule + 7, Charge: 3.5, Time: 102.0},
		{TubeIndex: 696 * PMTsPerModule, Charge: 4.5, Time: 103.0},
		{TubeIndex: 735*PMTsPerModule + 12, Charge: 5.5, Time: 104.0},
	}
	result, err := Rasterize(hits, g)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	for _, h := range hits {
		loc, err := g.Locate(h.TubeIndex)
		require.NoError(t, err)
		assert.Equal(t, h.Charge, result.Raster.Charge(loc.Row, loc.Column, loc.Position))
		assert.Equal(t, h.Time, result.Raster.Time(loc.Row, loc.Column, loc.Position))
	}

	back := result.Raster.Hits(g)
	again, err := Rasterize(back, g)
	require.NoError(t, err)
	assert.Empty(t, again.Errors)
	assert.Equal(t, *result.Raster, *again.Raster)

	sort.Slice(back, func(i, j int) bool { return back[i].TubeIndex < back[j].TubeIndex })
	assert.Equal(t, hits, back)
}

func TestRasterizeInvalidIndex(t *testing.T) {
	g := defaultGeometry(t)
	hits := []Hit{
		{TubeIndex: barrelTube, Charge: 5.0, Time: 1.0},
		{TubeIndex: g.NumPMTs() + 1, Charge: 9.0, Time: 2.0},
		{TubeIndex: -2, Charge: 9.0, Time: 2.0},
	}
	result, err := Rasterize(hits, g)
	require.NoError(t, err)
	require.Len(t, result.Errors, 2)

	assert.Equal(t, 1, result.Errors[0].Position)
	assert.Equal(t, g.NumPMTs()+1, result.Errors[0].TubeIndex)
	var invalid *InvalidIndexError
	assert.ErrorAs(t, result.Errors[0], &invalid)
	assert.Equal(t, 2, result.Errors[1].Position)

	assert.Equal(t, 5.0, result.Raster.Charge(1, 0, 3))
	assert.Equal(t, 2, result.Stats.Invalid)
	assert.Error(t, result.Err())
	assert.ErrorAs(t, result.Err(), &invalid)
}

func TestRasterizeUnknownModuleAborts(t *testing.T) {
	ml := &mockLogger{}
	ml.On("Error", mock.AnythingOfType("string")).Once()
	useLogger(t, ml)

	g, err := NewGeometry(gapLayout())
	require.NoError(t, err)
	hits := []Hit{
		{TubeIndex: barrelTube, Charge: 5.0, Time: 1.0},
		{TubeIndex: 40*PMTsPerModule + 2, Charge: 1.0, Time: 1.0},
	}
	result, err := Rasterize(hits, g)
	assert.Nil(t, result)

	var hitErr *HitError
	require.ErrorAs(t, err, &hitErr)
	assert.Equal(t, 1, hitErr.Position)
	var unknown *UnknownModuleError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 40, unknown.Module)
	ml.AssertExpectations(t)
}

func TestAggregation(t *testing.T) {
	g := defaultGeometry(t)
	hits := []Hit{
		{TubeIndex: barrelTube, Charge: 5.0, Time: 3.0},
		{TubeIndex: barrelTube, Charge: 7.0, Time: 2.0},
		{TubeIndex: barrelTube, Charge: 2.0, Time: 4.0},
	}
	tests := []struct {
		aggregation  Aggregation
		charge, time float64
	}{
		{AggregateLast, 2.0, 4.0},
		{AggregateFirst, 5.0, 3.0},
		{AggregateSum, 14.0, 2.0},
		{AggregateMax, 7.0, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.aggregation.String(), func(t *testing.T) {
			r := NewRasterizer(g, tt.aggregation)
			assert.Equal(t, tt.aggregation, r.Aggregation())
			assert.Same(t, g, r.Geometry())

			result, err := r.Rasterize(hits)
			require.NoError(t, err)
			assert.Equal(t, tt.charge, result.Raster.Charge(1, 0, 3))
			assert.Equal(t, tt.time, result.Raster.Time(1, 0, 3))
			assert.Equal(t, 2, result.Stats.Collisions)
		})
	}
}

func TestRasterizeTrigger(t *testing.T) {
	g := defaultGeometry(t)
	r := NewRasterizer(g, AggregateLast)
	hits := []Hit{
		{TubeIndex: barrelTube, Charge: 5.0, Time: 1.0, Trigger: 0},
		{TubeIndex: barrelTube, Charge: 8.0, Time: 900.0, Trigger: 1},
		{TubeIndex: -1, Charge: 1.0, Time: 900.0, Trigger: 1},
		{TubeIndex: 20, Charge: 2.0, Time: 2.0, Trigger: 0},
	}

	result, err := r.RasterizeTrigger(hits, 0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, result.Raster.Charge(1, 0, 3))
	assert.Equal(t, 2.0, result.Raster.Charge(1, 1, 1))
	assert.Empty(t, result.Errors)
	assert.Equal(t, Stats{Barrel: 2, OtherTrigger: 2}, result.Stats)

	result, err = r.RasterizeTrigger(hits, 1)
	require.NoError(t, err)
	assert.Equal(t, 8.0, result.Raster.Charge(1, 0, 3))
	assert.Equal(t, 0.0, result.Raster.Charge(1, 1, 1))
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Position)
	assert.Equal(t, len(hits), result.Stats.Total())
}

func TestRasterReductions(t *testing.T) {
	g := defaultGeometry(t)
	hits := []Hit{
		{TubeIndex: 0, Charge: 1.0, Time: 10.0},
		{TubeIndex: 1, Charge: 4.0, Time: 11.0},
		{TubeIndex: 2, Charge: 2.0, Time: 12.0},
	}
	result, err := Rasterize(hits, g)
	require.NoError(t, err)
	r := result.Raster

	assert.Equal(t, 7.0, r.ModuleChargeSum()[1][0])
	assert.Equal(t, 4.0, r.ModuleChargeMax()[1][0])
	assert.Equal(t, 0.0, r.ModuleChargeSum()[0][0])
	assert.Equal(t, 4.0, r.Channel(1)[1][0])
	assert.Equal(t, 11.0, r.Channel(1 + PMTsPerModule)[1][0])

	data := r.Float32()
	require.Len(t, data, NumRows*NumColumns*NumChannels)
	offset := (1*NumColumns + 0) * NumChannels
	assert.Equal(t, float32(4.0), data[offset+1])
	assert.Equal(t, float32(12.0), data[offset+2+PMTsPerModule])
}
