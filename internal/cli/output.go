// Package cli formats search results for terminal consumption.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/pkg/utils"
)

// OutputFormat is the format for search result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const (
	snippetLen = 200
	titleLen   = 80
)

// WriteSearchResults writes a search response to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	}
	writeText(w, response)
	return nil
}

func writeText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results for %q in %dms\n\n",
		response.Total, response.Query, response.QueryTime)

	terms := strings.Fields(response.Query)
	for i, result := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%d. [%s] %s (score %.4f)\n", i+1, result.FileType, result.Filename, result.Score)
		if result.Title != "" && result.Title != result.Filename {
			fmt.Fprintf(w, "Title: %s\n", utils.Truncate(result.Title, titleLen))
		}
		fmt.Fprintf(w, "Location: %s\n", result.Location)
		fmt.Fprintf(w, "\n%s\n\n", utils.Snippet(result.Content, terms, snippetLen))
	}
}
