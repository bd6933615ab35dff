package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	raster "github.com/jmbenlloch/raster_go/pkg"
	"github.com/jmbenlloch/raster_go/pkg/display"
	_ "modernc.org/sqlite"
)

var logger raster.SlogLogger

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger = raster.SlogLogger{
		InfoLog:  slog.New(raster.NewHandler(os.Stdout, opts)),
		ErrorLog: slog.New(slog.NewJSONHandler(os.Stderr, opts)),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	configuration, err := raster.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	raster.SetLogger(logger)
	raster.SetVerbosity(configuration.Verbosity)
	if configuration.Verbosity > 0 {
		raster.PrintConfiguration(configuration, logger)
	}

	if err := run(configuration); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(config raster.Configuration) error {
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

	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	return raster.ProcessEvents(reader, rasterizer, config.TriggerSelection, config.NumWorkers,
		func(event raster.ProcessedEvent) error {
			if event.Err != nil {
				logger.Error(fmt.Errorf("skipping event %d: %w", event.Event.EventID, event.Err).Error())
				return nil
			}
			tag := fmt.Sprintf("evt%d", event.Event.EventID)
			files, err := display.SaveEvent(event, config.OutputDir, tag)
			if err != nil {
				return err
			}
			if config.Verbosity > 0 {
				logger.Info(fmt.Sprintf("Event %d: %d images", event.Event.EventID, len(files)), "main")
			}
			return nil
		})
}
