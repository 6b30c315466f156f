package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	apperrors "github.com/hyperjump/kensaku/pkg/errors"
)

// extractPlain returns the whole file as one unit. Invalid UTF-8 sequences
// are replaced rather than failing the file.
func (e *Extractor) extractPlain(path string) ([]Unit, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrExtraction, path, err)
	}
	text := string(content)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return []Unit{{
		Text:     text,
		Title:    filepath.Base(path),
		Location: path,
	}}, nil
}
