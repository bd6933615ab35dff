package raster

import "fmt"

// Zone is the part of the detector a module is mounted on.
type Zone uint8

const (
	zoneNone Zone = iota
	Barrel
	TopCap
	BottomCap
)

var zoneStrings = []string{
	"none",
	"barrel",
	"top",
	"bottom",
}

func (z Zone) String() string {
	if int(z) >= len(zoneStrings) {
		return "unknown"
	}
	return zoneStrings[z]
}

func (z Zone) MarshalText() ([]byte, error) {
	if z == zoneNone || int(z) >= len(zoneStrings) {
		return nil, fmt.Errorf("invalid zone: %d", z)
	}
	return []byte(z.String()), nil
}

func (z *Zone) UnmarshalText(data []byte) error {
	s := string(data)
	for i, v := range zoneStrings {
		if i != int(zoneNone) && v == s {
			*z = Zone(i)
			return nil
		}
	}
	return fmt.Errorf("invalid zone: %s", s)
}
