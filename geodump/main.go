package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	raster "github.com/jmbenlloch/raster_go/pkg"
	"github.com/jmbenlloch/raster_go/pkg/h5"
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

// geodump writes the barrel geometry raster of a PMT geometry file. The
// configuration file_in is the CBOR sequence of PMT records and file_out the
// HDF5 file to create.
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

	geometry, err := raster.LoadGeometry(configuration)
	if err != nil {
		logger.Error(fmt.Errorf("error loading detector layout: %w", err).Error())
		os.Exit(1)
	}

	pmts, err := raster.ReadPMTFile(configuration.FileIn)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	geoRaster, hitErrors, err := raster.RasterizeGeometry(pmts, geometry)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	for _, hitErr := range hitErrors {
		logger.Error(hitErr.Error())
	}
	if len(hitErrors) > 0 && configuration.Discard {
		os.Exit(1)
	}

	if err := h5.WriteGeometry(configuration.FileOut, geoRaster, configuration.CompressionLevel); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	message := fmt.Sprintf("Geometry of %d PMTs written to %s", len(pmts), configuration.FileOut)
	logger.Info(message, "main")
}
