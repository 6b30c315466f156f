package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/kensaku/internal/models"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Query:     "fox",
		QueryTime: 12,
		Total:     1,
		FileType:  models.FileTypeAll,
		Results: []models.ScoredResult{
			{
				Filename: "doc1.txt",
				FileType: models.FileTypeTxt,
				Content:  "The quick brown fox jumps over the lazy dog",
				Location: "doc1.txt",
				Title:    "doc1",
				Score:    1.2345,
			},
		},
	}
}

func TestWriteSearchResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatalf("WriteSearchResults: %v", err)
	}

	var decoded models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Total != 1 || decoded.Results[0].Filename != "doc1.txt" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteSearchResultsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatalf("WriteSearchResults: %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"Found 1 results", "12ms", "doc1.txt", "[txt]", "quick brown fox", "1.2345"} {
		if !strings.Contains(out, sub) {
			t.Errorf("output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteSearchResultsTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.SearchResponse{Query: "nothing", FileType: models.FileTypeAll}
	if err := WriteSearchResults(&buf, resp, OutputText); err != nil {
		t.Fatalf("WriteSearchResults: %v", err)
	}
	if !strings.Contains(buf.String(), "Found 0 results") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWriteSearchResultsTextTruncatesLongTitle(t *testing.T) {
	resp := sampleResponse()
	resp.Results[0].Title = strings.Repeat("long title ", 20)

	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, resp, OutputText); err != nil {
		t.Fatalf("WriteSearchResults: %v", err)
	}
	if strings.Contains(buf.String(), resp.Results[0].Title) {
		t.Error("title written untruncated")
	}
	if !strings.Contains(buf.String(), "long title") || !strings.Contains(buf.String(), "...") {
		t.Errorf("truncated title missing from output:\n%s", buf.String())
	}
}
