// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pdiddy/tex2text/pkg/types"
)

// csvHeader is the column layout of the CSV report.
var csvHeader = []string{"name", "words", "paragraphs", "chars", "seconds"}

// CSVStore keeps records in memory and rewrites the whole CSV file on Flush.
// An existing report is loaded on open so that re-runs merge rather than
// clobber earlier rows.
type CSVStore struct {
	path    string
	records map[string]types.StatsRecord
}

// OpenCSV opens or creates a CSV report at path. Existing rows are loaded.
func OpenCSV(path string) (*CSVStore, error) {
	s := &CSVStore{
		path:    path,
		records: make(map[string]types.StatsRecord),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVStore) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening report %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("parsing report %s: %w", s.path, err)
	}

	for i, row := range rows {
		if i == 0 || len(row) < 5 {
			continue // header or malformed row
		}
		rec := types.StatsRecord{Name: row[0]}
		rec.Words, _ = strconv.Atoi(row[1])
		rec.Paragraphs, _ = strconv.Atoi(row[2])
		rec.Chars, _ = strconv.Atoi(row[3])
		rec.Seconds, _ = strconv.ParseFloat(row[4], 64)
		s.records[rec.Name] = rec
	}
	return nil
}

// Upsert inserts or replaces the record keyed by its archive name.
func (s *CSVStore) Upsert(rec types.StatsRecord) error {
	s.records[rec.Name] = rec
	return nil
}

// Records returns all records ordered by archive name.
func (s *CSVStore) Records() ([]types.StatsRecord, error) {
	out := make([]types.StatsRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Flush writes all records to the report file via a temp file and rename,
// so a crash mid-write never leaves a truncated report.
func (s *CSVStore) Flush() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp report: %w", err)
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(csvHeader)
	if writeErr == nil {
		recs, _ := s.Records()
		for _, rec := range recs {
			row := []string{
				rec.Name,
				strconv.Itoa(rec.Words),
				strconv.Itoa(rec.Paragraphs),
				strconv.Itoa(rec.Chars),
				strconv.FormatFloat(rec.Seconds, 'f', 6, 64),
			}
			if writeErr = w.Write(row); writeErr != nil {
				break
			}
		}
	}
	w.Flush()
	if writeErr == nil {
		writeErr = w.Error()
	}

	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing report: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp report: %w", closeErr)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp report: %w", err)
	}
	return nil
}

// Close releases the store. The CSV backend holds no open resources.
func (s *CSVStore) Close() error {
	return nil
}
