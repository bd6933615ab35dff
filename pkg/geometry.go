package raster

import (
	"fmt"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// ModuleIndex returns the module a tube belongs to.
func ModuleIndex(tube int) (int, error) {
	if tube < 0 {
		return 0, &InvalidIndexError{TubeIndex: tube}
	}
	return tube / PMTsPerModule, nil
}

// PositionInModule returns the position of a tube inside its module: 0 is the
// centre PMT, 1-12 the outer ring and 13-18 the inner ring. tube must not be
// negative.
func PositionInModule(tube int) int {
	return tube % PMTsPerModule
}

// ModuleIndices is ModuleIndex over a slice. The first negative index is
// reported as a *HitError carrying its position.
func ModuleIndices[T constraints.Integer](tubes []T) ([]int, error) {
	modules := make([]int, len(tubes))
	for i, tube := range tubes {
		module, err := ModuleIndex(int(tube))
		if err != nil {
			return nil, &HitError{Position: i, TubeIndex: int(tube), Err: err}
		}
		modules[i] = module
	}
	return modules, nil
}

func PositionsInModule[T constraints.Integer](tubes []T) []int {
	positions := make([]int, len(tubes))
	for i, tube := range tubes {
		positions[i] = PositionInModule(int(tube))
	}
	return positions
}

// Location is everything the geometry knows about one tube. Row and Column
// are -1 outside the barrel.
type Location struct {
	TubeIndex int
	Module    int
	Position  int
	Zone      Zone
	Row       int
	Column    int
}

// Geometry resolves tube indices of one detector layout. It is immutable
// after NewGeometry and can be shared between goroutines.
type Geometry struct {
	name    string
	numPMTs int
	// module -> zone
	zones []Zone
	// module -> row*NumColumns+column, -1 outside the barrel
	cells []int32
	// row*NumColumns+column -> module, -1 if no module
	modules [NumRows * NumColumns]int32
	barrel  []int
}

// NewGeometry builds the lookup tables of a layout and checks that the barrel
// enumeration is a one to one map onto the grid.
func NewGeometry(layout Layout) (*Geometry, error) {
	if layout.NumPMTs <= 0 {
		return nil, layoutErrorf("number of PMTs must be positive, got %d", layout.NumPMTs)
	}
	nModules := layout.numModules()
	if nModules == 0 {
		return nil, layoutErrorf("no zones configured")
	}
	maxModules := (layout.NumPMTs + PMTsPerModule - 1) / PMTsPerModule
	if nModules > maxModules {
		return nil, layoutErrorf("zones reach module %d but %d PMTs only fill %d modules",
			nModules-1, layout.NumPMTs, maxModules)
	}

	g := &Geometry{
		name:    layout.Name,
		numPMTs: layout.NumPMTs,
		zones:   make([]Zone, nModules),
		cells:   make([]int32, nModules),
	}
	for i := range g.cells {
		g.cells[i] = -1
	}
	for i := range g.modules {
		g.modules[i] = -1
	}

	for _, zr := range layout.Zones {
		if zr.Zone == zoneNone || int(zr.Zone) >= len(zoneStrings) {
			return nil, layoutErrorf("range [%d, %d) has no valid zone", zr.First, zr.Last)
		}
		if zr.First < 0 || zr.Last <= zr.First {
			return nil, layoutErrorf("empty or negative %s range [%d, %d)", zr.Zone, zr.First, zr.Last)
		}
		for m := zr.First; m < zr.Last; m++ {
			if g.zones[m] != zoneNone {
				return nil, layoutErrorf("module %d is in both %s and %s", m, g.zones[m], zr.Zone)
			}
			g.zones[m] = zr.Zone
		}
	}

	for _, seg := range layout.Segments {
		if seg.NumModules <= 0 || seg.FirstModule < 0 {
			return nil, layoutErrorf("invalid barrel segment starting at module %d", seg.FirstModule)
		}
		for k := 0; k < seg.NumModules; k++ {
			m := seg.FirstModule + k
			if m >= nModules || g.zones[m] != Barrel {
				return nil, layoutErrorf("barrel segment covers module %d which is not a barrel module", m)
			}
			row := seg.FirstRow + k/NumColumns
			col := k % NumColumns
			if row < 0 || row >= NumRows {
				return nil, layoutErrorf("module %d maps to row %d outside [0, %d)", m, row, NumRows)
			}
			if g.cells[m] != -1 {
				return nil, layoutErrorf("module %d appears in more than one barrel segment", m)
			}
			cell := row*NumColumns + col
			if g.modules[cell] != -1 {
				return nil, layoutErrorf("modules %d and %d both map to row %d column %d",
					g.modules[cell], m, row, col)
			}
			g.cells[m] = int32(cell)
			g.modules[cell] = int32(m)
		}
	}

	for m, zone := range g.zones {
		if zone != Barrel {
			continue
		}
		if g.cells[m] == -1 {
			return nil, layoutErrorf("barrel module %d has no grid cell", m)
		}
		g.barrel = append(g.barrel, m)
	}

	if verbosity > 0 {
		logger.Info(layoutSummary(g), "geometry")
	}
	return g, nil
}

func (g *Geometry) Name() string {
	return g.name
}

func (g *Geometry) NumPMTs() int {
	return g.numPMTs
}

// ClassifyZone returns the zone of a module.
func (g *Geometry) ClassifyZone(module int) (Zone, error) {
	if module < 0 || module >= len(g.zones) || g.zones[module] == zoneNone {
		return zoneNone, &UnknownModuleError{Module: module}
	}
	return g.zones[module], nil
}

// RowCol returns the grid cell of a barrel module.
func (g *Geometry) RowCol(module int) (int, int, error) {
	zone, err := g.ClassifyZone(module)
	if err != nil {
		return -1, -1, err
	}
	if zone != Barrel {
		return -1, -1, &NotBarrelModuleError{Module: module, Zone: zone}
	}
	cell := int(g.cells[module])
	return cell / NumColumns, cell % NumColumns, nil
}

// ClassifyZones is ClassifyZone over a slice of modules.
func (g *Geometry) ClassifyZones(modules []int) ([]Zone, error) {
	zones := make([]Zone, len(modules))
	for i, m := range modules {
		zone, err := g.ClassifyZone(m)
		if err != nil {
			return nil, &ModuleError{Position: i, Module: m, Err: err}
		}
		zones[i] = zone
	}
	return zones, nil
}

// RowCols is RowCol over a slice of barrel modules.
func (g *Geometry) RowCols(modules []int) ([]int, []int, error) {
	rows := make([]int, len(modules))
	cols := make([]int, len(modules))
	for i, m := range modules {
		row, col, err := g.RowCol(m)
		if err != nil {
			return nil, nil, &ModuleError{Position: i, Module: m, Err: err}
		}
		rows[i], cols[i] = row, col
	}
	return rows, cols, nil
}

// Locate resolves a tube index. Cap tubes are returned without error and with
// Row and Column set to -1.
func (g *Geometry) Locate(tube int) (Location, error) {
	loc := Location{TubeIndex: tube, Row: -1, Column: -1}
	if tube < 0 || tube >= g.numPMTs {
		return loc, &InvalidIndexError{TubeIndex: tube, NumPMTs: g.numPMTs}
	}
	loc.Module = tube / PMTsPerModule
	loc.Position = tube % PMTsPerModule

	zone, err := g.ClassifyZone(loc.Module)
	if err != nil {
		return loc, err
	}
	loc.Zone = zone
	if zone == Barrel {
		cell := int(g.cells[loc.Module])
		loc.Row = cell / NumColumns
		loc.Column = cell % NumColumns
	}
	return loc, nil
}

// ModuleAt is the inverse of RowCol. ok is false for cells without a module.
func (g *Geometry) ModuleAt(row, col int) (int, bool) {
	if row < 0 || row >= NumRows || col < 0 || col >= NumColumns {
		return -1, false
	}
	m := g.modules[row*NumColumns+col]
	return int(m), m >= 0
}

// TubeAt returns the tube index at a grid cell and module position.
func (g *Geometry) TubeAt(row, col, position int) (int, bool) {
	if position < 0 || position >= PMTsPerModule {
		return -1, false
	}
	m, ok := g.ModuleAt(row, col)
	if !ok {
		return -1, false
	}
	tube := m*PMTsPerModule + position
	if tube >= g.numPMTs {
		return -1, false
	}
	return tube, true
}

// BarrelModules lists the barrel module indices in increasing order.
func (g *Geometry) BarrelModules() []int {
	return slices.Clone(g.barrel)
}

func layoutSummary(g *Geometry) string {
	counts := map[Zone]int{}
	for _, z := range g.zones {
		counts[z]++
	}
	return fmt.Sprintf("Layout %s: %d modules, %d barrel, %d top, %d bottom, %d PMTs",
		g.name, len(g.zones), counts[Barrel], counts[TopCap], counts[BottomCap], g.numPMTs)
}
