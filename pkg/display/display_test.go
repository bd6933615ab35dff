package display

import (
	"os"
	"path/filepath"
	"testing"

	raster "github.com/jmbenlloch/raster_go/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func processedEvent(t *testing.T) raster.ProcessedEvent {
	t.Helper()
	g, err := raster.NewGeometry(raster.DefaultLayout())
	require.NoError(t, err)
	event := raster.EventRecord{
		EventID:      4,
		TriggerTimes: []float64{10.0},
		Hits: []raster.Hit{
			{TubeIndex: 0, Charge: 2.0, Time: 12.0},
			{TubeIndex: 5, Charge: 4.0, Time: 14.0},
			{TubeIndex: 700 * raster.PMTsPerModule, Charge: 1.0, Time: 13.0},
		},
	}
	processed := raster.RasterizeEvent(event, raster.NewRasterizer(g, raster.AggregateLast), raster.SelectFirstTrigger)
	require.NoError(t, processed.Err)
	return processed
}

func TestHeatMapConstantGrid(t *testing.T) {
	var values [raster.NumRows][raster.NumColumns]float64
	p := HeatMap(values, "empty")
	assert.Equal(t, "empty", p.Title.Text)
	require.NoError(t, p.Save(200, 100, filepath.Join(t.TempDir(), "empty.png")))
}

func TestHistogram(t *testing.T) {
	p, err := Histogram(nil, "charge", "q")
	require.NoError(t, err)
	assert.NotNil(t, p)

	p, err = Histogram([]float64{1, 2, 2, 3}, "charge", "q")
	require.NoError(t, err)
	assert.Equal(t, "q", p.X.Label.Text)
}

func TestSaveEvent(t *testing.T) {
	dir := t.TempDir()
	files, err := SaveEvent(processedEvent(t), dir, "evt4")
	require.NoError(t, err)
	require.Len(t, files, 6)
	for _, name := range []string{"q_sum_disp", "q_max_disp", "q_pmt_disp", "t_pmt_disp", "q_disp_grid", "t_disp_grid"} {
		info, err := os.Stat(filepath.Join(dir, name+"_evt4.png"))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}
