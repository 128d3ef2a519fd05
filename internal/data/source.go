// Package data loads initial agent populations from CSV and JSON files.
package data

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"episim/internal/core"
)

// Record is one agent row from a data file. X and Y stay nil when the file
// does not place the agent; the engine assigns a random cell in that case.
type Record struct {
	ID    int
	State core.State
	X     *int
	Y     *int
}

// LoadRecords loads a population file. The extension picks the format:
// .csv expects a header row with id,state and optional x,y columns; .json
// expects an array of objects with the same fields. Relative paths resolve
// against baseDir (the scenario file's directory).
func LoadRecords(path, baseDir string) ([]Record, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	var (
		records []Record
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		records, err = loadCSV(path)
	case ".json":
		records, err = loadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported population file format %q (use .csv or .json)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: population file %s is empty", core.ErrInvalidArgument, path)
	}
	return records, nil
}

// loadCSV parses a CSV population file. First row is headers.
func loadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV must have a header row and at least one data row")
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"id", "state"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("CSV header is missing the %q column", required)
		}
	}

	records := make([]Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		id, err := strconv.Atoi(strings.TrimSpace(row[col["id"]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing id: %w", n+2, err)
		}
		state, err := core.ParseState(strings.TrimSpace(row[col["state"]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		rec := Record{ID: id, State: state}

		if rec.X, err = optionalInt(row, col, "x"); err != nil {
			return nil, fmt.Errorf("row %d: parsing x: %w", n+2, err)
		}
		if rec.Y, err = optionalInt(row, col, "y"); err != nil {
			return nil, fmt.Errorf("row %d: parsing y: %w", n+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func optionalInt(row []string, col map[string]int, name string) (*int, error) {
	i, ok := col[name]
	if !ok || i >= len(row) || strings.TrimSpace(row[i]) == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(row[i]))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// jsonRecord mirrors Record for decoding.
type jsonRecord struct {
	ID    int    `json:"id"`
	State string `json:"state"`
	X     *int   `json:"x"`
	Y     *int   `json:"y"`
}

// loadJSON parses a JSON population file: an array of agent objects.
func loadJSON(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []jsonRecord
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("JSON must be an array of agent objects: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for n, row := range rows {
		state, err := core.ParseState(row.State)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", n, err)
		}
		records = append(records, Record{ID: row.ID, State: state, X: row.X, Y: row.Y})
	}
	return records, nil
}
