package raster

import (
	"encoding/json"
	"fmt"
	"os"

	sqlx "github.com/jmoiron/sqlx"
)

// LayoutSource is where the detector layout is read from.
type LayoutSource uint8

const (
	LayoutBuiltin LayoutSource = iota
	LayoutFile
	LayoutDatabase
)

var layoutSourceStrings = []string{
	"builtin",
	"file",
	"database",
}

func (s LayoutSource) String() string {
	if int(s) >= len(layoutSourceStrings) {
		return "UNKNOWN"
	}
	return layoutSourceStrings[s]
}

func (s LayoutSource) MarshalText() ([]byte, error) {
	if int(s) >= len(layoutSourceStrings) {
		return nil, fmt.Errorf("invalid layout source: %d", s)
	}
	return []byte(s.String()), nil
}

func (s *LayoutSource) UnmarshalText(data []byte) error {
	str := string(data)
	for i, v := range layoutSourceStrings {
		if v == str {
			*s = LayoutSource(i)
			return nil
		}
	}
	return fmt.Errorf("invalid layout source: %s", str)
}

type Configuration struct {
	FileIn           string           `json:"file_in"`
	FileOut          string           `json:"file_out"`
	OutputDir        string           `json:"output_dir"`
	MaxEvents        int              `json:"max_events"`
	Skip             int              `json:"skip"`
	Verbosity        int              `json:"verbosity"`
	NumWorkers       int              `json:"num_workers"`
	Aggregation      Aggregation      `json:"aggregation"`
	TriggerSelection TriggerSelection `json:"trigger_selection"`
	SkipEmpty        bool             `json:"skip_empty"`
	Discard          bool             `json:"discard"`
	Label            int              `json:"label"`
	LabelFromPID     bool             `json:"label_from_pid"`
	WriteData        bool             `json:"write_data"`
	CompressionLevel int              `json:"compression_level"`
	LayoutSource     LayoutSource     `json:"layout_source"`
	LayoutFile       string           `json:"layout_file"`
	RunNumber        int              `json:"run_number"`
	DBDriver         string           `json:"db_driver"`
	DBFile           string           `json:"db_file"`
	Host             string           `json:"host"`
	User             string           `json:"user"`
	Passwd           string           `json:"pass"`
	DBName           string           `json:"dbname"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		MaxEvents:        1000000000,
		Skip:             0,
		Verbosity:        0,
		NumWorkers:       1,
		Aggregation:      AggregateLast,
		TriggerSelection: SelectFirstTrigger,
		SkipEmpty:        true,
		Discard:          false,
		Label:            LabelUnknown,
		LabelFromPID:     false,
		WriteData:        true,
		CompressionLevel: 4,
		LayoutSource:     LayoutBuiltin,
		DBDriver:         "mysql",
		Host:             "localhost",
		User:             "wcsimreader",
		Passwd:           "readonly",
		DBName:           "WCSIM",
	}
}

// LoadConfiguration reads a JSON configuration file on top of the defaults.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

// LoadGeometry builds the geometry from the layout source in the
// configuration.
func LoadGeometry(config Configuration) (*Geometry, error) {
	var layout Layout
	var err error

	switch config.LayoutSource {
	case LayoutBuiltin:
		layout = DefaultLayout()
	case LayoutFile:
		layout, err = LoadLayout(config.LayoutFile)
	case LayoutDatabase:
		layout, err = loadLayoutFromConfiguredDB(config)
	default:
		err = fmt.Errorf("invalid layout source: %d", config.LayoutSource)
	}
	if err != nil {
		return nil, err
	}
	return NewGeometry(layout)
}

func loadLayoutFromConfiguredDB(config Configuration) (Layout, error) {
	var db *sqlx.DB
	var err error
	if config.DBDriver == "mysql" {
		db, err = ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
	} else {
		db, err = OpenDatabase(config.DBDriver, config.DBFile)
	}
	if err != nil {
		return Layout{}, fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()
	return LoadLayoutFromDB(db, config.RunNumber)
}

func PrintConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Output dir: %s", config.OutputDir), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Aggregation: %s", config.Aggregation), "config")
	logger.Info(fmt.Sprintf("Trigger selection: %s", config.TriggerSelection), "config")
	logger.Info(fmt.Sprintf("Skip empty: %t", config.SkipEmpty), "config")
	logger.Info(fmt.Sprintf("Discard: %t", config.Discard), "config")
	logger.Info(fmt.Sprintf("Label: %d", config.Label), "config")
	logger.Info(fmt.Sprintf("Label from PID: %t", config.LabelFromPID), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Layout source: %s", config.LayoutSource), "config")
	logger.Info(fmt.Sprintf("Layout file: %s", config.LayoutFile), "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	logger.Info(fmt.Sprintf("DB driver: %s", config.DBDriver), "config")
	logger.Info(fmt.Sprintf("DB file: %s", config.DBFile), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
}
