package raster

import (
	"fmt"
	"io"
	"sync"
)

type WorkerData struct {
	Index int
	Event EventRecord
}

// ProcessedEvent is the outcome of rasterizing one event. Trigger is -1 when
// all triggers were used.
type ProcessedEvent struct {
	Index   int
	Event   EventRecord
	Trigger int
	Result  *Result
	Err     error
}

// EventSource yields events until it returns io.EOF. EventReader is one.
type EventSource interface {
	Next() (EventRecord, error)
}

// RasterizeEvent applies the trigger selection and rasterizes the event.
func RasterizeEvent(event EventRecord, rasterizer *Rasterizer, selection TriggerSelection) ProcessedEvent {
	processed := ProcessedEvent{Event: event, Trigger: event.SelectedTrigger(selection)}
	if processed.Trigger < 0 {
		processed.Result, processed.Err = rasterizer.Rasterize(event.Hits)
	} else {
		processed.Result, processed.Err = rasterizer.RasterizeTrigger(event.Hits, processed.Trigger)
	}
	return processed
}

func worker(id int, rasterizer *Rasterizer, selection TriggerSelection,
	jobs <-chan WorkerData, results chan<- ProcessedEvent, done <-chan struct{}) {
	for job := range jobs {
		select {
		case results <- processJob(id, rasterizer, selection, job):
		case <-done:
		}
	}
}

func processJob(id int, rasterizer *Rasterizer, selection TriggerSelection, job WorkerData) (processed ProcessedEvent) {
	defer func() {
		if r := recover(); r != nil {
			processed = ProcessedEvent{
				Index: job.Index,
				Event: job.Event,
				Err:   fmt.Errorf("worker %d recovered from panic on event %d: %v", id, job.Event.EventID, r),
			}
		}
	}()
	if verbosity > 1 {
		message := fmt.Sprintf("Worker %d processing event %d", id, job.Event.EventID)
		logger.Info(message, "workers")
	}
	processed = RasterizeEvent(job.Event, rasterizer, selection)
	processed.Index = job.Index
	return processed
}

// sendEventsToWorkers feeds the jobs channel until the source is exhausted or
// done is closed. It takes a window slot per event so that at most cap(window)
// events are in flight between the source and the handler. The read error,
// nil on io.EOF, is sent once on readErr.
func sendEventsToWorkers(source EventSource, jobs chan<- WorkerData,
	window chan struct{}, done <-chan struct{}, readErr chan<- error) {
	defer close(jobs)
	for i := 0; ; i++ {
		select {
		case <-done:
			readErr <- nil
			return
		default:
		}
		select {
		case window <- struct{}{}:
		case <-done:
			readErr <- nil
			return
		}
		event, err := source.Next()
		if err == io.EOF {
			readErr <- nil
			return
		}
		if err != nil {
			logger.Error(fmt.Sprintf("Error reading event: %v", err))
			readErr <- err
			return
		}
		select {
		case jobs <- WorkerData{Index: i, Event: event}:
		case <-done:
			readErr <- nil
			return
		}
	}
}

// ProcessEvents reads events from source, rasterizes them on nWorkers
// goroutines and passes each result to handle in read order. Only a bounded
// window of events is held in memory at once. The first error returned by
// handle stops the pipeline and is returned; otherwise the read error, if
// any, is returned once every event read before it has been handled.
func ProcessEvents(source EventSource, rasterizer *Rasterizer, selection TriggerSelection,
	nWorkers int, handle func(ProcessedEvent) error) error {
	if nWorkers < 1 {
		nWorkers = 1
	}
	jobs := make(chan WorkerData, nWorkers)
	results := make(chan ProcessedEvent, nWorkers)
	window := make(chan struct{}, 4*nWorkers)
	done := make(chan struct{})
	readErr := make(chan error, 1)

	var wg sync.WaitGroup
	for w := 1; w <= nWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(id, rasterizer, selection, jobs, results, done)
		}(w)
	}

	go sendEventsToWorkers(source, jobs, window, done, readErr)

	go func() {
		wg.Wait()
		close(results)
	}()

	var handleErr error
	pending := make(map[int]ProcessedEvent)
	next := 0
	for result := range results {
		if handleErr != nil {
			continue
		}
		pending[result.Index] = result
		for {
			event, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			<-window
			if err := handle(event); err != nil {
				handleErr = err
				close(done)
				break
			}
		}
	}
	if handleErr != nil {
		<-readErr
		return handleErr
	}
	return <-readErr
}

type sliceSource struct {
	events []EventRecord
	next   int
}

func (s *sliceSource) Next() (EventRecord, error) {
	if s.next >= len(s.events) {
		return EventRecord{}, io.EOF
	}
	event := s.events[s.next]
	s.next++
	return event, nil
}

// RasterizeEvents spreads the events over nWorkers goroutines. The workers
// share the rasterizer read only. Results come back in input order.
func RasterizeEvents(events []EventRecord, rasterizer *Rasterizer,
	selection TriggerSelection, nWorkers int) []ProcessedEvent {
	processed := make([]ProcessedEvent, 0, len(events))
	ProcessEvents(&sliceSource{events: events}, rasterizer, selection, nWorkers,
		func(event ProcessedEvent) error {
			processed = append(processed, event)
			return nil
		})
	return processed
}
