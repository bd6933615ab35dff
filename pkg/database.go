package raster

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

// OpenDatabase connects with any registered driver, e.g. "sqlite" for a
// local layout file.
func OpenDatabase(driver string, dsn string) (*sqlx.DB, error) {
	return sqlx.Connect(driver, dsn)
}

type detectorConfigEntry struct {
	Name    string `db:"Name"`
	NumPMTs int    `db:"NumPMTs"`
}

type zoneEntry struct {
	Zone        string `db:"Zone"`
	FirstModule int    `db:"FirstModule"`
	LastModule  int    `db:"LastModule"`
}

type segmentEntry struct {
	FirstModule int `db:"FirstModule"`
	NumModules  int `db:"NumModules"`
	FirstRow    int `db:"FirstRow"`
}

// LoadLayoutFromDB reads the layout valid for a run from the DetectorConfig,
// DetectorZones and BarrelSegments tables.
func LoadLayoutFromDB(db *sqlx.DB, runNumber int) (Layout, error) {
	var layout Layout

	if verbosity > 0 {
		message := fmt.Sprintf("Reading detector layout for run %d from database", runNumber)
		logger.Info(message, "database")
	}

	var config detectorConfigEntry
	query := "SELECT Name, NumPMTs FROM DetectorConfig WHERE MinRun <= ? and MaxRun >= ?"
	if verbosity > 2 {
		logger.Info(fmt.Sprintf("Query: %s", query), "database")
	}
	err := db.Get(&config, query, runNumber, runNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return layout, fmt.Errorf("no detector configuration for run %d", runNumber)
	}
	if err != nil {
		return layout, fmt.Errorf("error querying database: %w", err)
	}
	layout.Name = config.Name
	layout.NumPMTs = config.NumPMTs

	zones := make([]zoneEntry, 0)
	query = "SELECT Zone, FirstModule, LastModule FROM DetectorZones WHERE MinRun <= ? and MaxRun >= ? ORDER BY FirstModule"
	if verbosity > 2 {
		logger.Info(fmt.Sprintf("Query: %s", query), "database")
	}
	if err := db.Select(&zones, query, runNumber, runNumber); err != nil {
		return layout, fmt.Errorf("error querying database: %w", err)
	}
	for _, z := range zones {
		var zone Zone
		if err := zone.UnmarshalText([]byte(z.Zone)); err != nil {
			return layout, fmt.Errorf("error scanning DB row: %w", err)
		}
		layout.Zones = append(layout.Zones, ZoneRange{Zone: zone, First: z.FirstModule, Last: z.LastModule})
	}

	segments := make([]segmentEntry, 0)
	query = "SELECT FirstModule, NumModules, FirstRow FROM BarrelSegments WHERE MinRun <= ? and MaxRun >= ? ORDER BY FirstModule"
	if verbosity > 2 {
		logger.Info(fmt.Sprintf("Query: %s", query), "database")
	}
	if err := db.Select(&segments, query, runNumber, runNumber); err != nil {
		return layout, fmt.Errorf("error querying database: %w", err)
	}
	for _, s := range segments {
		layout.Segments = append(layout.Segments, BarrelSegment(s))
	}

	return layout, nil
}
