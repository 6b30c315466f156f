package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	apperrors "github.com/hyperjump/kensaku/pkg/errors"
)

// extractPDF concatenates the text of every page into a single unit.
func (e *Extractor) extractPDF(path string) ([]Unit, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", apperrors.ErrExtraction, path, err)
	}
	defer f.Close()

	var buf strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d of %s: %v", apperrors.ErrExtraction, i, path, err)
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(text)
	}

	return []Unit{{
		Text:     buf.String(),
		Title:    filepath.Base(path),
		Location: path,
	}}, nil
}
