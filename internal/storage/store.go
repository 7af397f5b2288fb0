// Package storage persists simulation runs: metadata as JSON, per-tick
// records as CSV, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mkrett/swervesim/internal/config"
	"github.com/mkrett/swervesim/internal/experiment"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0o755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Mode      string             `json:"mode"`
	Profile   string             `json:"profile"`
	Period    float64            `json:"period"`
	Duration  float64            `json:"duration"`
	Seed      int64              `json:"seed"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Header is the CSV column layout of a saved run.
var Header = []string{
	"time",
	"turn_abs_rad", "turn_pos_rad", "drive_pos_rad", "drive_vel_rad_s",
	"angle_rad", "speed_mps",
	"angle_sp_rad", "speed_sp_mps",
	"turn_volts", "drive_volts",
}

func (s *Store) Save(cfg *config.Config, result *experiment.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Mode:      string(cfg.Mode),
		Profile:   cfg.Schedule.Profile,
		Period:    cfg.Period,
		Duration:  cfg.Duration,
		Seed:      cfg.Seed,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "records.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(Header); err != nil {
		return "", err
	}
	for _, rec := range result.Records {
		if err := w.Write(recordRow(rec)); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func recordRow(rec experiment.Record) []string {
	vals := []float64{
		rec.T,
		rec.Inputs.TurnAbsoluteRad, rec.Inputs.TurnPositionRad,
		rec.Inputs.DrivePositionRad, rec.Inputs.DriveVelocityRadPerSec,
		rec.AngleRad, rec.SpeedMPS,
		rec.SetpointAngle, rec.SetpointSpeed,
		rec.TurnVolts, rec.DriveVolts,
	}
	row := make([]string, len(vals))
	for i, v := range vals {
		row[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return row
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRecords reads back the per-tick table of a run: the column header and
// one row of floats per cycle.
func (s *Store) LoadRecords(runID string) ([]string, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "records.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("storage: run %s has no data", runID)
	}

	header := records[0]
	rows := make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]float64, 0, len(record))
		for _, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}
