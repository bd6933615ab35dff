// Package display draws event rasters with gonum/plot.
package display

import (
	"fmt"
	"os"
	"path/filepath"

	raster "github.com/jmbenlloch/raster_go/pkg"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const nHistBins = 50

// moduleGrid exposes a barrel grid as plotter.GridXYZ. Rows are flipped so
// row 0, the highest barrel ring, is drawn on top.
type moduleGrid [raster.NumRows][raster.NumColumns]float64

func (g *moduleGrid) Dims() (int, int)   { return raster.NumColumns, raster.NumRows }
func (g *moduleGrid) Z(c, r int) float64 { return g[raster.NumRows-1-r][c] }
func (g *moduleGrid) X(c int) float64    { return float64(c) }
func (g *moduleGrid) Y(r int) float64    { return float64(r) }

func (g *moduleGrid) minMax() (float64, float64) {
	lo, hi := g[0][0], g[0][0]
	for r := range g {
		for _, v := range g[r] {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	return lo, hi
}

// HeatMap plots one value per module on the unrolled barrel.
func HeatMap(values [raster.NumRows][raster.NumColumns]float64, title string) *plot.Plot {
	grid := moduleGrid(values)
	hm := plotter.NewHeatMap(&grid, palette.Heat(32, 1))
	lo, hi := grid.minMax()
	if lo == hi {
		hi = lo + 1
	}
	hm.Min, hm.Max = lo, hi

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "arc index"
	p.Y.Label.Text = "z index"
	p.Add(hm)
	return p
}

// Histogram plots the normalised distribution of values.
func Histogram(values []float64, title, xlabel string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "PMTs above threshold"
	if len(values) == 0 {
		return p, nil
	}
	h, err := plotter.NewHist(plotter.Values(values), nHistBins)
	if err != nil {
		return nil, fmt.Errorf("error creating histogram: %w", err)
	}
	h.Normalize(1)
	p.Add(h)
	return p, nil
}

// SavePositionGrid draws one heat map per module position for channels
// offset..offset+18 on a 4x5 grid. For charge the last tile holds the module
// maximum.
func SavePositionGrid(r *raster.Raster, offset int, title string, filename string) error {
	const rows, cols = 4, 5
	plots := make([][]*plot.Plot, rows)
	for i := range plots {
		plots[i] = make([]*plot.Plot, cols)
	}
	for p := 0; p < raster.PMTsPerModule; p++ {
		plots[p/cols][p%cols] = HeatMap(r.Channel(offset+p), fmt.Sprintf("%s %d", title, p))
	}
	if offset == 0 {
		plots[rows-1][cols-1] = HeatMap(r.ModuleChargeMax(), "max charge")
	} else {
		plots[rows-1][cols-1] = plot.New()
	}

	img := vgimg.New(15*vg.Inch, 5*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: rows, Cols: cols, PadX: vg.Millimeter, PadY: vg.Millimeter}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	w, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer w.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("error writing %q: %w", filename, err)
	}
	return nil
}

// SaveEvent writes the displays of one event into dir, named after tag.
func SaveEvent(event raster.ProcessedEvent, dir string, tag string) ([]string, error) {
	r := event.Result.Raster
	files := make([]string, 0)
	save := func(p *plot.Plot, name string, w, h vg.Length) error {
		filename := filepath.Join(dir, fmt.Sprintf("%s_%s.png", name, tag))
		if err := p.Save(w, h, filename); err != nil {
			return fmt.Errorf("error saving %q: %w", filename, err)
		}
		files = append(files, filename)
		return nil
	}

	if err := save(HeatMap(r.ModuleChargeSum(), "total charge in module"), "q_sum_disp", 10*vg.Inch, 4*vg.Inch); err != nil {
		return files, err
	}
	if err := save(HeatMap(r.ModuleChargeMax(), "maximum charge in module"), "q_max_disp", 10*vg.Inch, 4*vg.Inch); err != nil {
		return files, err
	}

	charges := make([]float64, 0, len(event.Event.Hits))
	times := make([]float64, 0, len(event.Event.Hits))
	for _, h := range event.Event.Hits {
		if event.Trigger >= 0 && h.Trigger != event.Trigger {
			continue
		}
		charges = append(charges, h.Charge)
		times = append(times, h.Time)
	}
	qHist, err := Histogram(charges, "charge", "charge")
	if err != nil {
		return files, err
	}
	if err := save(qHist, "q_pmt_disp", 10*vg.Inch, 8*vg.Inch); err != nil {
		return files, err
	}
	tHist, err := Histogram(times, "time", "time")
	if err != nil {
		return files, err
	}
	if err := save(tHist, "t_pmt_disp", 10*vg.Inch, 8*vg.Inch); err != nil {
		return files, err
	}

	for _, grid := range []struct {
		name   string
		offset int
	}{
		{"q_disp_grid", 0},
		{"t_disp_grid", raster.PMTsPerModule},
	} {
		filename := filepath.Join(dir, fmt.Sprintf("%s_%s.png", grid.name, tag))
		if err := SavePositionGrid(r, grid.offset, grid.name[:1], filename); err != nil {
			return files, err
		}
		files = append(files, filename)
	}
	return files, nil
}
