package raster

import (
	"errors"
	"fmt"
)

// Hit is one digitised PMT hit.
type Hit struct {
	TubeIndex int     `cbor:"tube" json:"tube"`
	Charge    float64 `cbor:"q" json:"q"`
	Time      float64 `cbor:"t" json:"t"`
	Trigger   int     `cbor:"trigger" json:"trigger"`
}

// Stats accounts for every hit handed to the rasterizer.
type Stats struct {
	Barrel       int
	Top          int
	Bottom       int
	Invalid      int
	OtherTrigger int
	// Collisions counts hits that landed on a PMT already hit in the event.
	Collisions int
}

func (s Stats) Total() int {
	return s.Barrel + s.Top + s.Bottom + s.Invalid + s.OtherTrigger
}

type Result struct {
	Raster *Raster
	Errors []*HitError
	Stats  Stats
}

// Err joins the per hit errors, nil when every hit was valid.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Rasterizer writes the barrel hits of an event into a Raster. It only reads
// the geometry, so one Rasterizer can serve many goroutines.
type Rasterizer struct {
	geometry    *Geometry
	aggregation Aggregation
}

func NewRasterizer(geometry *Geometry, aggregation Aggregation) *Rasterizer {
	return &Rasterizer{geometry: geometry, aggregation: aggregation}
}

func (r *Rasterizer) Geometry() *Geometry {
	return r.geometry
}

func (r *Rasterizer) Aggregation() Aggregation {
	return r.aggregation
}

// Rasterize keeps the last hit on each PMT.
func Rasterize(hits []Hit, geometry *Geometry) (*Result, error) {
	return NewRasterizer(geometry, AggregateLast).Rasterize(hits)
}

// Rasterize builds the raster of one event. Hits with a tube index out of
// range are reported in Result.Errors and the rest of the event is still
// used. A module outside every zone means the layout is wrong for this data:
// the whole call fails and no result is returned.
func (r *Rasterizer) Rasterize(hits []Hit) (*Result, error) {
	return r.rasterize(hits, func(Hit) bool { return true })
}

// RasterizeTrigger only uses the hits tagged with one trigger. Error
// positions still refer to the full hit list.
func (r *Rasterizer) RasterizeTrigger(hits []Hit, trigger int) (*Result, error) {
	return r.rasterize(hits, func(h Hit) bool { return h.Trigger == trigger })
}

func (r *Rasterizer) rasterize(hits []Hit, keep func(Hit) bool) (*Result, error) {
	result := &Result{Raster: &Raster{}, Errors: make([]*HitError, 0)}
	var occupied [NumRows][NumColumns][PMTsPerModule]bool
	tensor := result.Raster

	for i, hit := range hits {
		if !keep(hit) {
			result.Stats.OtherTrigger++
			continue
		}
		loc, err := r.geometry.Locate(hit.TubeIndex)
		if err != nil {
			hitErr := &HitError{Position: i, TubeIndex: hit.TubeIndex, Err: err}
			var unknown *UnknownModuleError
			if errors.As(err, &unknown) {
				logger.Error(fmt.Errorf("aborting event: %w", hitErr).Error())
				return nil, hitErr
			}
			if verbosity > 1 {
				logger.Info(hitErr.Error(), "rasterizer")
			}
			result.Errors = append(result.Errors, hitErr)
			result.Stats.Invalid++
			continue
		}

		switch loc.Zone {
		case TopCap:
			result.Stats.Top++
			continue
		case BottomCap:
			result.Stats.Bottom++
			continue
		}
		result.Stats.Barrel++

		row, col, p := loc.Row, loc.Column, loc.Position
		seen := occupied[row][col][p]
		if seen {
			result.Stats.Collisions++
		}
		q, t := r.aggregation.merge(seen,
			tensor[row][col][p], tensor[row][col][p+PMTsPerModule],
			hit.Charge, hit.Time)
		tensor[row][col][p] = q
		tensor[row][col][p+PMTsPerModule] = t
		occupied[row][col][p] = true

		if verbosity > 2 {
			message := fmt.Sprintf("tube %d -> row %d, col %d, pos %d: q=%f t=%f", hit.TubeIndex, row, col, p, q, t)
			logger.Info(message, "rasterizer")
		}
	}
	return result, nil
}
