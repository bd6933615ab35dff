package raster

// Raster is the barrel wall of one event unrolled on the module grid. The
// last axis holds charge for module positions 0-18 and time for the same
// positions offset by PMTsPerModule.
type Raster [NumRows][NumColumns][NumChannels]float64

func (r *Raster) Charge(row, col, position int) float64 {
	return r[row][col][position]
}

func (r *Raster) Time(row, col, position int) float64 {
	return r[row][col][position+PMTsPerModule]
}

// IsZero reports whether no cell has been written.
func (r *Raster) IsZero() bool {
	return *r == Raster{}
}

// ModuleChargeSum adds up the charge of the PMTs of every module.
func (r *Raster) ModuleChargeSum() [NumRows][NumColumns]float64 {
	var out [NumRows][NumColumns]float64
	for row := range r {
		for col := range r[row] {
			for p := 0; p < PMTsPerModule; p++ {
				out[row][col] += r[row][col][p]
			}
		}
	}
	return out
}

// ModuleChargeMax is the largest PMT charge of every module.
func (r *Raster) ModuleChargeMax() [NumRows][NumColumns]float64 {
	var out [NumRows][NumColumns]float64
	for row := range r {
		for col := range r[row] {
			maxQ := r[row][col][0]
			for p := 1; p < PMTsPerModule; p++ {
				maxQ = max(maxQ, r[row][col][p])
			}
			out[row][col] = maxQ
		}
	}
	return out
}

// Channel copies one channel of the raster into a row major grid.
func (r *Raster) Channel(channel int) [NumRows][NumColumns]float64 {
	var out [NumRows][NumColumns]float64
	for row := range r {
		for col := range r[row] {
			out[row][col] = r[row][col][channel]
		}
	}
	return out
}

// Hits reads back every PMT with a non-zero charge or time as a hit, in grid
// order.
func (r *Raster) Hits(g *Geometry) []Hit {
	hits := make([]Hit, 0)
	for row := range r {
		for col := range r[row] {
			for p := 0; p < PMTsPerModule; p++ {
				q := r[row][col][p]
				t := r[row][col][p+PMTsPerModule]
				if q == 0 && t == 0 {
					continue
				}
				tube, ok := g.TubeAt(row, col, p)
				if !ok {
					continue
				}
				hits = append(hits, Hit{TubeIndex: tube, Charge: q, Time: t})
			}
		}
	}
	return hits
}

// Float32 flattens the raster in row, column, channel order.
func (r *Raster) Float32() []float32 {
	data := make([]float32, 0, NumRows*NumColumns*NumChannels)
	for row := range r {
		for col := range r[row] {
			for _, v := range r[row][col] {
				data = append(data, float32(v))
			}
		}
	}
	return data
}
