package raster

import "fmt"

// Aggregation decides what a raster cell holds when more than one hit in the
// same event lands on the same PMT.
type Aggregation uint8

const (
	// AggregateLast keeps the charge and time of the last hit in input order.
	AggregateLast Aggregation = iota
	// AggregateFirst keeps the first hit and ignores the rest.
	AggregateFirst
	// AggregateSum adds the charges and keeps the earliest time.
	AggregateSum
	// AggregateMax keeps the hit with the largest charge.
	AggregateMax
)

var aggregationStrings = []string{
	"last",
	"first",
	"sum",
	"max",
}

func (a Aggregation) String() string {
	if int(a) >= len(aggregationStrings) {
		return "UNKNOWN"
	}
	return aggregationStrings[a]
}

func (a Aggregation) MarshalText() ([]byte, error) {
	if int(a) >= len(aggregationStrings) {
		return nil, fmt.Errorf("invalid aggregation: %d", a)
	}
	return []byte(a.String()), nil
}

func (a *Aggregation) UnmarshalText(data []byte) error {
	s := string(data)
	for i, v := range aggregationStrings {
		if v == s {
			*a = Aggregation(i)
			return nil
		}
	}
	return fmt.Errorf("invalid aggregation: %s", s)
}

// merge combines a new hit with the values already stored in a cell.
// occupied is false for the first hit on the cell.
func (a Aggregation) merge(occupied bool, charge, time, newCharge, newTime float64) (float64, float64) {
	if !occupied {
		return newCharge, newTime
	}
	switch a {
	case AggregateFirst:
		return charge, time
	case AggregateSum:
		return charge + newCharge, min(time, newTime)
	case AggregateMax:
		if newCharge > charge {
			return newCharge, newTime
		}
		return charge, time
	default:
		return newCharge, newTime
	}
}
