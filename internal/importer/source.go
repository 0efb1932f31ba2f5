package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/autotracker/tracker-admin/internal/scraper"
)

// FileSource reads raw user grid rows from a local JSON export: an array of
// {id, cell} records saved off the legacy panel.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Load() ([]scraper.RawRow, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read import source %s: %w", s.Path, err)
	}

	var rows []scraper.RawRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("parse import source %s: %w", s.Path, err)
	}

	return rows, nil
}
