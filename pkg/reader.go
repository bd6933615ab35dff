package raster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// EventReader iterates over a CBOR sequence of EventRecord.
type EventReader struct {
	decoder   *cbor.Decoder
	closer    io.Closer
	Skip      int
	MaxEvents int
	// EvtCount is the index of the last event read, skipped ones included.
	EvtCount int
}

func NewEventReader(r io.Reader) *EventReader {
	return &EventReader{
		decoder:   cbor.NewDecoder(r),
		MaxEvents: -1,
		EvtCount:  -1,
	}
}

func OpenEventFile(filename string) (*EventReader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	reader := NewEventReader(bufio.NewReader(file))
	reader.closer = file
	return reader, nil
}

// Next returns the next event after the first Skip ones. It returns io.EOF
// at the end of the stream or once MaxEvents events have been counted.
func (r *EventReader) Next() (EventRecord, error) {
	for {
		var event EventRecord
		if err := r.decoder.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return event, io.EOF
			}
			return event, fmt.Errorf("error decoding event %d: %w", r.EvtCount+1, err)
		}
		r.EvtCount++
		if r.MaxEvents >= 0 && r.EvtCount >= r.MaxEvents {
			if verbosity > 0 {
				logger.Info("Max events reached", "reader")
			}
			return event, io.EOF
		}
		if r.EvtCount < r.Skip {
			if verbosity > 0 {
				message := fmt.Sprintf("Skipping event %d with ID %d", r.EvtCount, event.EventID)
				logger.Info(message, "reader")
			}
			continue
		}
		if verbosity > 1 {
			message := fmt.Sprintf("Reading event %d with ID %d", r.EvtCount, event.EventID)
			logger.Info(message, "reader")
		}
		return event, nil
	}
}

// ReadAll reads the remaining events.
func (r *EventReader) ReadAll() ([]EventRecord, error) {
	events := make([]EventRecord, 0)
	for {
		event, err := r.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
}

func (r *EventReader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// ReadPMTRecords decodes a CBOR sequence of PMTRecord.
func ReadPMTRecords(r io.Reader) ([]PMTRecord, error) {
	decoder := cbor.NewDecoder(r)
	pmts := make([]PMTRecord, 0)
	for {
		var pmt PMTRecord
		err := decoder.Decode(&pmt)
		if errors.Is(err, io.EOF) {
			return pmts, nil
		}
		if err != nil {
			return pmts, fmt.Errorf("error decoding PMT record %d: %w", len(pmts), err)
		}
		pmts = append(pmts, pmt)
	}
}

func ReadPMTFile(filename string) ([]PMTRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer file.Close()
	return ReadPMTRecords(bufio.NewReader(file))
}

// WriteRecords encodes records as a CBOR sequence, the format read by
// EventReader and ReadPMTRecords.
func WriteRecords[T any](w io.Writer, records []T) error {
	encoder := cbor.NewEncoder(w)
	for i, rec := range records {
		if err := encoder.Encode(rec); err != nil {
			return fmt.Errorf("error encoding record %d: %w", i, err)
		}
	}
	return nil
}
