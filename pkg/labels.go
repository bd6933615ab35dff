package raster

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

const (
	LabelUnknown  = -1
	LabelGamma    = 0
	LabelElectron = 1
	LabelMuon     = 2
	LabelPi0      = 3
)

// LabelFromPID maps a PDG code to a training label. Only photons, electrons
// and muons have one.
func LabelFromPID(pid int) int {
	switch pid {
	case 22:
		return LabelGamma
	case 11:
		return LabelElectron
	case 13:
		return LabelMuon
	default:
		return LabelUnknown
	}
}

var filenameLabels = []struct {
	tag   string
	label int
}{
	{"_gamma", LabelGamma},
	{"_e", LabelElectron},
	{"_mu", LabelMuon},
	{"_pi0", LabelPi0},
}

// LabelFromFilename guesses the particle type from the simulation file name.
// The tags are checked in order, so "_gamma" wins over "_e".
func LabelFromFilename(filename string) (int, error) {
	base := filepath.Base(filename)
	for _, fl := range filenameLabels {
		if strings.Contains(base, fl.tag) {
			return fl.label, nil
		}
	}
	return LabelUnknown, fmt.Errorf("unknown particle type in file name %q", base)
}

// Angles returns the polar angle measured from the y axis and the azimuth in
// the z-x plane of a direction vector.
func Angles(direction [3]float64) (float64, float64) {
	polar := math.Acos(direction[1])
	azimuth := math.Atan2(direction[2], direction[0])
	return polar, azimuth
}
