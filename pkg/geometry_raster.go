package raster

import (
	"errors"
	"fmt"
)

const NumGeometryFeatures = 6

// GeometryRaster holds position x, y, z and orientation x, y, z of every
// barrel PMT on the module grid.
type GeometryRaster [NumRows][NumColumns][PMTsPerModule][NumGeometryFeatures]float64

// RasterizeGeometry places the barrel PMTs of a geometry dump on the grid.
// Errors follow the hit rasterizer: bad tube numbers are collected, an
// unknown module aborts.
func RasterizeGeometry(pmts []PMTRecord, geometry *Geometry) (*GeometryRaster, []*HitError, error) {
	out := &GeometryRaster{}
	hitErrors := make([]*HitError, 0)
	nBarrel := 0

	for i, pmt := range pmts {
		tube := pmt.TubeIndex()
		loc, err := geometry.Locate(tube)
		if err != nil {
			hitErr := &HitError{Position: i, TubeIndex: tube, Err: err}
			var unknown *UnknownModuleError
			if errors.As(err, &unknown) {
				return nil, hitErrors, hitErr
			}
			hitErrors = append(hitErrors, hitErr)
			continue
		}
		if loc.Zone != Barrel {
			continue
		}
		cell := &out[loc.Row][loc.Column][loc.Position]
		copy(cell[0:3], pmt.Position[:])
		copy(cell[3:6], pmt.Orientation[:])
		nBarrel++
	}

	if verbosity > 0 {
		message := fmt.Sprintf("Geometry: %d PMTs read, %d in the barrel, %d errors", len(pmts), nBarrel, len(hitErrors))
		logger.Info(message, "geometry")
	}
	return out, hitErrors, nil
}

// Float32 flattens the geometry raster in row, column, position, feature order.
func (g *GeometryRaster) Float32() []float32 {
	data := make([]float32, 0, NumRows*NumColumns*PMTsPerModule*NumGeometryFeatures)
	for row := range g {
		for col := range g[row] {
			for p := range g[row][col] {
				for _, v := range g[row][col][p] {
					data = append(data, float32(v))
				}
			}
		}
	}
	return data
}
