package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/didibear/road-on-road/config"
)

// Files written by an OutputManager.
const (
	TelemetryFile = "telemetry.csv"
	JourneysFile  = "journeys.csv"
	PerfFile      = "perf.csv"
	BookmarksFile = "bookmarks.csv"
	ConfigFile    = "config.yaml"
)

var csvFiles = []string{TelemetryFile, JourneysFile, PerfFile, BookmarksFile}

// table is a CSV file that gets its header with the first row.
type table struct {
	f    *os.File
	rows int
}

// appendRow writes one record to t.
func appendRow[T any](t *table, rec T) error {
	batch := []T{rec}
	var err error
	if t.rows == 0 {
		err = gocsv.Marshal(batch, t.f)
	} else {
		err = gocsv.MarshalWithoutHeaders(batch, t.f)
	}
	if err == nil {
		t.rows++
	}
	return err
}

// OutputManager writes the CSV logs and config of one run into a directory.
// A nil *OutputManager is valid and writes nothing.
type OutputManager struct {
	dir    string
	tables map[string]*table
}

// NewOutputManager creates dir and its CSV files. An empty dir disables
// output and returns nil.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, tables: make(map[string]*table, len(csvFiles))}
	for _, name := range csvFiles {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
		om.tables[name] = &table{f: f}
	}
	return om, nil
}

func writeTo[T any](om *OutputManager, name string, rec T) error {
	if om == nil {
		return nil
	}
	if err := appendRow(om.tables[name], rec); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// WriteConfig saves cfg as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteTelemetry appends a stats window.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	return writeTo(om, TelemetryFile, stats)
}

// WriteJourney appends a finished or failed journey.
func (om *OutputManager) WriteJourney(rec JourneyRecord) error {
	return writeTo(om, JourneysFile, rec)
}

// WritePerf appends tick timing for the window ending at windowEnd.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	return writeTo(om, PerfFile, stats.ToCSV(windowEnd))
}

// WriteBookmark appends a bookmark.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	return writeTo(om, BookmarksFile, b)
}

// Dir is the output directory, or "" when output is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every file, returning the joined errors.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, t := range om.tables {
		errs = append(errs, t.f.Close())
	}
	return errors.Join(errs...)
}
