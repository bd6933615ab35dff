package raster

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	PMTsPerModule = 19
	NumRows       = 16
	NumColumns    = 40
	NumChannels   = 2 * PMTsPerModule
)

// ZoneRange assigns the modules in [First, Last) to one zone.
type ZoneRange struct {
	Zone  Zone `yaml:"zone" json:"zone"`
	First int  `yaml:"first" json:"first"`
	Last  int  `yaml:"last" json:"last"`
}

// BarrelSegment is a run of barrel modules enumerated row by row. Module
// FirstModule+k sits at row FirstRow + k/NumColumns, column k%NumColumns.
type BarrelSegment struct {
	FirstModule int `yaml:"first_module" json:"first_module"`
	NumModules  int `yaml:"num_modules" json:"num_modules"`
	FirstRow    int `yaml:"first_row" json:"first_row"`
}

// Layout describes how modules of one detector configuration are numbered.
type Layout struct {
	Name     string          `yaml:"name" json:"name"`
	NumPMTs  int             `yaml:"num_pmts" json:"num_pmts"`
	Zones    []ZoneRange     `yaml:"zones" json:"zones"`
	Segments []BarrelSegment `yaml:"barrel_segments" json:"barrel_segments"`
}

// DefaultLayout is the IWCD mPMT detector. The barrel rings are written first
// starting from the second highest ring, then the bottom cap, then the
// highest ring and finally the top cap.
func DefaultLayout() Layout {
	return Layout{
		Name:    "IWCD_mPMT",
		NumPMTs: 832 * PMTsPerModule,
		Zones: []ZoneRange{
			{Zone: Barrel, First: 0, Last: 600},
			{Zone: BottomCap, First: 600, Last: 696},
			{Zone: Barrel, First: 696, Last: 736},
			{Zone: TopCap, First: 736, Last: 832},
		},
		Segments: []BarrelSegment{
			{FirstModule: 0, NumModules: 600, FirstRow: 1},
			{FirstModule: 696, NumModules: 40, FirstRow: 0},
		},
	}
}

// LoadLayout reads a layout from a YAML file.
func LoadLayout(filename string) (Layout, error) {
	var layout Layout
	data, err := os.ReadFile(filename)
	if err != nil {
		return layout, &ErrOpenFile{Filename: filename, Err: err}
	}
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return layout, fmt.Errorf("error parsing layout %q: %w", filename, err)
	}
	return layout, nil
}

// numModules is one past the highest module index covered by any zone.
func (l Layout) numModules() int {
	n := 0
	for _, z := range l.Zones {
		if z.Last > n {
			n = z.Last
		}
	}
	return n
}
