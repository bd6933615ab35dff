package raster

import "fmt"

// TriggerSelection chooses which hits of a multi-trigger event are rasterized.
type TriggerSelection uint8

const (
	// SelectFirstTrigger keeps the hits of the earliest trigger.
	SelectFirstTrigger TriggerSelection = iota
	// SelectAllTriggers rasterizes every hit regardless of its trigger.
	SelectAllTriggers
)

var triggerSelectionStrings = []string{
	"first",
	"all",
}

func (s TriggerSelection) String() string {
	if int(s) >= len(triggerSelectionStrings) {
		return "UNKNOWN"
	}
	return triggerSelectionStrings[s]
}

func (s TriggerSelection) MarshalText() ([]byte, error) {
	if int(s) >= len(triggerSelectionStrings) {
		return nil, fmt.Errorf("invalid trigger selection: %d", s)
	}
	return []byte(s.String()), nil
}

func (s *TriggerSelection) UnmarshalText(data []byte) error {
	str := string(data)
	for i, v := range triggerSelectionStrings {
		if v == str {
			*s = TriggerSelection(i)
			return nil
		}
	}
	return fmt.Errorf("invalid trigger selection: %s", str)
}

// FirstTrigger returns the index of the earliest trigger. Ties go to the
// lowest index. ok is false when there are no triggers.
func FirstTrigger(times []float64) (int, bool) {
	if len(times) == 0 {
		return 0, false
	}
	first := 0
	for i, t := range times[1:] {
		if t < times[first] {
			first = i + 1
		}
	}
	return first, true
}

// FilterTrigger returns a copy of the hits tagged with trigger.
func FilterTrigger(hits []Hit, trigger int) []Hit {
	out := make([]Hit, 0, len(hits))
	for _, h := range hits {
		if h.Trigger == trigger {
			out = append(out, h)
		}
	}
	return out
}

// CountTriggerHits returns the number of hits tagged with trigger.
func CountTriggerHits(hits []Hit, trigger int) int {
	n := 0
	for _, h := range hits {
		if h.Trigger == trigger {
			n++
		}
	}
	return n
}
