package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run       RunMetadata          `json:"run"`
	History   map[string][]float64 `json:"history"`
	Positions []NodeRecord         `json:"positions"`
}

// ExportJSON writes a run's metadata, history and final positions to w as a
// single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	history, err := s.LoadHistory(runID)
	if err != nil {
		return err
	}
	positions, err := s.LoadPositions(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, History: history, Positions: positions})
}
