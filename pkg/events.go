package raster

// Truth is the simulated primary particle of an event.
type Truth struct {
	PID       int        `cbor:"pid" json:"pid"`
	Position  [3]float64 `cbor:"position" json:"position"`
	Direction [3]float64 `cbor:"direction" json:"direction"`
	Energy    float64    `cbor:"energy" json:"energy"`
}

// EventRecord is one simulated event as dumped by the ROOT reader. Tube
// indices in Hits start at 0; Trigger indexes TriggerTimes.
type EventRecord struct {
	EventID      int       `cbor:"event_id" json:"event_id"`
	RootFile     string    `cbor:"root_file" json:"root_file"`
	TriggerTimes []float64 `cbor:"trigger_times" json:"trigger_times"`
	Hits         []Hit     `cbor:"hits" json:"hits"`
	Truth        Truth     `cbor:"truth" json:"truth"`
}

// PMTRecord is the position and orientation of one tube. TubeNo starts at 1
// as in the simulation geometry tree.
type PMTRecord struct {
	TubeNo      int        `cbor:"tube_no" json:"tube_no"`
	Position    [3]float64 `cbor:"position" json:"position"`
	Orientation [3]float64 `cbor:"orientation" json:"orientation"`
}

func (p PMTRecord) TubeIndex() int {
	return p.TubeNo - 1
}

// SelectedTrigger returns the trigger whose hits are rasterized, or -1 when
// every hit is used.
func (e *EventRecord) SelectedTrigger(selection TriggerSelection) int {
	if selection == SelectAllTriggers {
		return -1
	}
	first, ok := FirstTrigger(e.TriggerTimes)
	if !ok {
		return 0
	}
	return first
}
