package h5

import (
	"errors"
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	raster "github.com/jmbenlloch/raster_go/pkg"
)

type EventInfoHDF5 struct {
	eventID  int32
	label    int32
	trigger  int32
	energy   float32
	position [3]float32
	angles   [2]float32
	rootFile [STRLEN]byte
}

type HitStatsHDF5 struct {
	barrel     int32
	top        int32
	bottom     int32
	invalid    int32
	collisions int32
}

type LayoutHDF5 struct {
	name    [STRLEN]byte
	numPMTs int32
}

var rasterShape = []uint{raster.NumRows, raster.NumColumns, raster.NumChannels}

// Writer appends rasterized events to an HDF5 file: the tensors go to
// /Events/event_data, truth and bookkeeping to /Run.
type Writer struct {
	File        *hdf5.File
	Filename    string
	EventsGroup *hdf5.Group
	RunGroup    *hdf5.Group
	EventData   *hdf5.Dataset
	EventTable  *hdf5.Dataset
	StatsTable  *hdf5.Dataset
	LayoutTable *hdf5.Dataset
	EvtCounter  int
}

func NewWriter(filename string, compression int) (*Writer, error) {
	hdf5.SetStringLength(STRLEN)

	var err error
	writer := &Writer{Filename: filename}
	writer.File, err = openFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error creating file %q: %w", filename, err)
	}
	if writer.EventsGroup, err = createGroup(writer.File, "Events"); err != nil {
		return nil, errors.Join(err, writer.File.Close())
	}
	if writer.RunGroup, err = createGroup(writer.File, "Run"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.EventData, err = createEventArray(writer.EventsGroup, "event_data", rasterShape, compression); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.EventTable, err = createTable(writer.RunGroup, "events", EventInfoHDF5{}, compression); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.StatsTable, err = createTable(writer.RunGroup, "hit_stats", HitStatsHDF5{}, compression); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.LayoutTable, err = createTable(writer.RunGroup, "layout", LayoutHDF5{}, compression); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	return writer, nil
}

// WriteLayout records which detector layout produced the rasters.
func (w *Writer) WriteLayout(geometry *raster.Geometry) error {
	entry := LayoutHDF5{
		name:    convertToHdf5String(geometry.Name()),
		numPMTs: int32(geometry.NumPMTs()),
	}
	if err := writeEntryToTable(w.LayoutTable, entry, 0); err != nil {
		return &ErrWrite{Dataset: "layout", Event: 0, Err: err}
	}
	return nil
}

func (w *Writer) WriteEvent(event raster.ProcessedEvent, label int) error {
	if event.Result == nil {
		return fmt.Errorf("event %d has no raster", event.Event.EventID)
	}
	truth := event.Event.Truth
	polar, azimuth := raster.Angles(truth.Direction)
	info := EventInfoHDF5{
		eventID: int32(event.Event.EventID),
		label:   int32(label),
		trigger: int32(event.Trigger),
		energy:  float32(truth.Energy),
		position: [3]float32{
			float32(truth.Position[0]),
			float32(truth.Position[1]),
			float32(truth.Position[2]),
		},
		angles:   [2]float32{float32(polar), float32(azimuth)},
		rootFile: convertToHdf5String(event.Event.RootFile),
	}
	stats := event.Result.Stats
	hitStats := HitStatsHDF5{
		barrel:     int32(stats.Barrel),
		top:        int32(stats.Top),
		bottom:     int32(stats.Bottom),
		invalid:    int32(stats.Invalid),
		collisions: int32(stats.Collisions),
	}

	data := event.Result.Raster.Float32()
	if err := appendEventArray(w.EventData, &data, w.EvtCounter, rasterShape); err != nil {
		return &ErrWrite{Dataset: "event_data", Event: w.EvtCounter, Err: err}
	}
	if err := writeEntryToTable(w.EventTable, info, w.EvtCounter); err != nil {
		return &ErrWrite{Dataset: "events", Event: w.EvtCounter, Err: err}
	}
	if err := writeEntryToTable(w.StatsTable, hitStats, w.EvtCounter); err != nil {
		return &ErrWrite{Dataset: "hit_stats", Event: w.EvtCounter, Err: err}
	}
	w.EvtCounter++
	return nil
}

func (w *Writer) Close() error {
	var errs []error

	closeDataset := func(dset *hdf5.Dataset, name string) {
		if dset == nil {
			return
		}
		if err := dset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s: %w", name, err))
		}
	}
	closeDataset(w.EventData, "event data")
	closeDataset(w.EventTable, "event table")
	closeDataset(w.StatsTable, "hit stats table")
	closeDataset(w.LayoutTable, "layout table")

	if w.EventsGroup != nil {
		if err := w.EventsGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing events group: %w", err))
		}
	}
	if w.RunGroup != nil {
		if err := w.RunGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing run group: %w", err))
		}
	}
	if err := w.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

var geometryShape = []uint{raster.NumRows, raster.NumColumns, raster.PMTsPerModule, raster.NumGeometryFeatures}

// WriteGeometry stores a barrel geometry raster as /Geometry/geometry.
func WriteGeometry(filename string, geometry *raster.GeometryRaster, compression int) (err error) {
	file, err := openFile(filename)
	if err != nil {
		return fmt.Errorf("error creating file %q: %w", filename, err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	group, err := createGroup(file, "Geometry")
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, group.Close())
	}()

	dims := append([]uint{}, geometryShape...)
	dset, err := createArray(group, "geometry", hdf5.T_NATIVE_FLOAT, dims, dims, dims, compression)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, dset.Close())
	}()

	data := geometry.Float32()
	if err := dset.Write(&data); err != nil {
		return &ErrWrite{Dataset: "geometry", Event: 0, Err: err}
	}
	return nil
}
