package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	apperrors "github.com/hyperjump/kensaku/pkg/errors"
)

// extractJSON flattens nested objects and arrays to one unit per leaf value,
// keyed by dotted paths ("user.name") with bracketed array indices
// ("tags[0]"). A top-level {"title": ..., "content": ...} document is
// treated as a single article instead of two unrelated leaves.
func (e *Extractor) extractJSON(path string) ([]Unit, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrExtraction, path, err)
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", apperrors.ErrExtraction, path, err)
	}

	base := filepath.Base(path)
	if title, content, ok := articleFields(data); ok {
		return []Unit{{
			Text:     content,
			Title:    title,
			Location: path,
		}}, nil
	}

	leaves := map[string]string{}
	flattenJSON("", data, leaves)

	keys := make([]string, 0, len(leaves))
	for k := range leaves {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	units := make([]Unit, 0, len(keys))
	for _, k := range keys {
		units = append(units, Unit{
			Text:     k + ": " + leaves[k],
			Title:    base + " - " + k,
			Location: path + "#" + k,
		})
	}
	return units, nil
}

// articleFields detects the {"title", "content"} document shape.
func articleFields(data any) (title, content string, ok bool) {
	obj, isObj := data.(map[string]any)
	if !isObj || len(obj) != 2 {
		return "", "", false
	}
	t, hasTitle := obj["title"].(string)
	c, hasContent := obj["content"].(string)
	if !hasTitle || !hasContent {
		return "", "", false
	}
	return t, c, true
}

func flattenJSON(prefix string, v any, out map[string]string) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenJSON(key, child, out)
		}
	case []any:
		for i, child := range val {
			flattenJSON(prefix+"["+strconv.Itoa(i)+"]", child, out)
		}
	case string:
		out[prefix] = val
	case float64:
		out[prefix] = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		out[prefix] = strconv.FormatBool(val)
	case nil:
		out[prefix] = "null"
	}
}
