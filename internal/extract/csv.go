package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/hyperjump/kensaku/pkg/errors"
)

// extractCSV yields one unit per data row. The first row is the header; its
// column names label each cell so "name: alice" is searchable even when the
// header itself never matches. Row numbers are 1-based over data rows.
func (e *Extractor) extractCSV(path string) ([]Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", apperrors.ErrExtraction, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", apperrors.ErrExtraction, path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	base := filepath.Base(path)
	units := make([]Unit, 0, len(records)-1)
	for i, row := range records[1:] {
		parts := make([]string, 0, len(row))
		for j, cell := range row {
			col := fmt.Sprintf("col%d", j+1)
			if j < len(header) && strings.TrimSpace(header[j]) != "" {
				col = header[j]
			}
			parts = append(parts, col+": "+cell)
		}
		n := i + 1
		units = append(units, Unit{
			Text:     strings.Join(parts, ", "),
			Title:    fmt.Sprintf("%s - Row %d", base, n),
			Location: fmt.Sprintf("row_%d", n),
		})
	}
	return units, nil
}
