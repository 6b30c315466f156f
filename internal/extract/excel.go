package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/hyperjump/kensaku/pkg/errors"
)

// extractExcel yields one unit per row per sheet. Locations embed the sheet
// name so two sheets with identical row numbers stay distinguishable.
func (e *Extractor) extractExcel(path string) ([]Unit, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", apperrors.ErrExtraction, path, err)
	}
	defer f.Close()

	base := filepath.Base(path)
	var units []Unit
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q of %s: %v", apperrors.ErrExtraction, sheet, path, err)
		}
		for i, row := range rows {
			text := strings.TrimSpace(strings.Join(row, " "))
			if text == "" {
				continue
			}
			n := i + 1
			units = append(units, Unit{
				Text:     text,
				Title:    fmt.Sprintf("%s - %s - Row %d", base, sheet, n),
				Location: fmt.Sprintf("%s#sheet_%s_row_%d", path, sheet, n),
			})
		}
	}
	return units, nil
}
