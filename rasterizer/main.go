package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	raster "github.com/jmbenlloch/raster_go/pkg"
	"github.com/jmbenlloch/raster_go/pkg/h5"
	_ "modernc.org/sqlite"
)

var configuration raster.Configuration

var (
	logger         raster.SlogLogger
	VerbosityLevel int
)

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := raster.NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = raster.SlogLogger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = raster.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	raster.SetLogger(logger)
	raster.SetVerbosity(configuration.Verbosity)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		raster.PrintConfiguration(configuration, logger)
	}

	if err := run(configuration); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(config raster.Configuration) error {
	start := time.Now()

	geometry, err := raster.LoadGeometry(config)
	if err != nil {
		return fmt.Errorf("error loading detector layout: %w", err)
	}
	rasterizer := raster.NewRasterizer(geometry, config.Aggregation)

	reader, err := raster.OpenEventFile(config.FileIn)
	if err != nil {
		return err
	}
	defer reader.Close()
	reader.Skip = config.Skip
	reader.MaxEvents = config.MaxEvents

	fileLabel := config.Label
	if fileLabel == raster.LabelUnknown && !config.LabelFromPID {
		fileLabel, err = raster.LabelFromFilename(config.FileIn)
		if err != nil {
			return err
		}
	}

	var writer *h5.Writer
	var out eventWriter
	if config.WriteData {
		writer, err = h5.NewWriter(config.FileOut, config.CompressionLevel)
		if err != nil {
			return err
		}
		if err := writer.WriteLayout(geometry); err != nil {
			return errors.Join(err, writer.Close())
		}
		out = writer
	}

	summary, err := writeEvents(reader, rasterizer, config, out, fileLabel)
	if writer != nil {
		err = errors.Join(err, writer.Close())
	}
	summary.log()
	if err != nil {
		return err
	}
	if config.WriteData {
		logger.Info(fmt.Sprintf("Events written: %d to %s", summary.written, config.FileOut), "main")
	}
	logger.Info(fmt.Sprintf("Total time: %d ms", time.Since(start).Milliseconds()), "main")
	return nil
}

type eventWriter interface {
	WriteEvent(event raster.ProcessedEvent, label int) error
}

type runSummary struct {
	total   raster.Stats
	events  int
	failed  int
	written int
}

func (s *runSummary) add(event raster.ProcessedEvent) {
	s.events++
	if event.Err != nil || event.Result == nil {
		s.failed++
		return
	}
	st := event.Result.Stats
	s.total.Barrel += st.Barrel
	s.total.Top += st.Top
	s.total.Bottom += st.Bottom
	s.total.Invalid += st.Invalid
	s.total.OtherTrigger += st.OtherTrigger
	s.total.Collisions += st.Collisions
}

func (s runSummary) log() {
	message := fmt.Sprintf("Events: %d. Hits: %d barrel, %d top, %d bottom, %d invalid, %d other trigger, %d collisions. Failed events: %d",
		s.events, s.total.Barrel, s.total.Top, s.total.Bottom, s.total.Invalid, s.total.OtherTrigger, s.total.Collisions, s.failed)
	logger.Info(message, "main")
}

// writeEvents rasterizes the events of source as they are read and passes the
// kept ones to out in read order. A nil out only gathers the summary. The
// first write error stops processing and is returned.
func writeEvents(source raster.EventSource, rasterizer *raster.Rasterizer, config raster.Configuration,
	out eventWriter, fileLabel int) (runSummary, error) {
	var summary runSummary
	err := raster.ProcessEvents(source, rasterizer, config.TriggerSelection, config.NumWorkers,
		func(event raster.ProcessedEvent) error {
			summary.add(event)
			if out == nil || !keepEvent(event, config) {
				return nil
			}
			label := fileLabel
			if config.LabelFromPID {
				label = raster.LabelFromPID(event.Event.Truth.PID)
			}
			if err := out.WriteEvent(event, label); err != nil {
				return fmt.Errorf("error writing event %d: %w", event.Event.EventID, err)
			}
			summary.written++
			return nil
		})
	return summary, err
}

// keepEvent logs and drops events that failed, carry bad hits when Discard is
// set, or have no hits in the selected trigger when SkipEmpty is set.
func keepEvent(event raster.ProcessedEvent, config raster.Configuration) bool {
	if event.Err != nil {
		message := fmt.Errorf("discarding event %d: %w", event.Event.EventID, event.Err)
		logger.Error(message.Error())
		return false
	}
	result := event.Result
	if len(result.Errors) > 0 {
		message := fmt.Errorf("event %d has %d invalid hits: %w", event.Event.EventID, len(result.Errors), result.Err())
		logger.Error(message.Error())
		if config.Discard {
			return false
		}
	}
	if config.SkipEmpty && result.Stats.Total()-result.Stats.OtherTrigger == 0 {
		message := fmt.Sprintf("event %d, trigger %d has no hits", event.Event.EventID, event.Trigger)
		logger.Info(message, "main")
		return false
	}
	return true
}
