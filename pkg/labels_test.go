package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelFromPID(t *testing.T) {
	assert.Equal(t, LabelGamma, LabelFromPID(22))
	assert.Equal(t, LabelElectron, LabelFromPID(11))
	assert.Equal(t, LabelMuon, LabelFromPID(13))
	assert.Equal(t, LabelUnknown, LabelFromPID(111))
	assert.Equal(t, LabelUnknown, LabelFromPID(-11))
}

func TestLabelFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		label    int
	}{
		{"/data/IWCD_mPMT_gamma_E0to1000MeV_1.root", LabelGamma},
		{"IWCD_mPMT_e-_E0to1000MeV_2.root", LabelElectron},
		{"runs/IWCD_mPMT_mu-_E0to1000MeV.root", LabelMuon},
		{"IWCD_mPMT_pi0_E0to1000MeV.root", LabelPi0},
	}
	for _, tt := range tests {
		label, err := LabelFromFilename(tt.filename)
		require.NoError(t, err, tt.filename)
		assert.Equal(t, tt.label, label, tt.filename)
	}

	label, err := LabelFromFilename("/data_e/IWCD_mPMT_neutron.root")
	assert.Error(t, err)
	assert.Equal(t, LabelUnknown, label)
}

func TestAngles(t *testing.T) {
	polar, azimuth := Angles([3]float64{0, 1, 0})
	assert.InDelta(t, 0.0, polar, 1e-12)
	assert.InDelta(t, 0.0, azimuth, 1e-12)

	polar, azimuth = Angles([3]float64{0, 0, 1})
	assert.InDelta(t, math.Pi/2, polar, 1e-12)
	assert.InDelta(t, math.Pi/2, azimuth, 1e-12)

	polar, azimuth = Angles([3]float64{-1, 0, 0})
	assert.InDelta(t, math.Pi/2, polar, 1e-12)
	assert.InDelta(t, math.Pi, azimuth, 1e-12)
}
