// Package integration provides end-to-end tests (real storage, real HTTP API).
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/config"
	"github.com/hyperjump/kensaku/internal/engine"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/server"
	"github.com/hyperjump/kensaku/pkg/metrics"
)

func setup(t *testing.T) (*engine.Engine, *config.Config) {
	t.Helper()
	root := t.TempDir()
	docs := filepath.Join(root, "documents")
	if err := os.MkdirAll(docs, 0755); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{}
	cfg.Storage.IndexRoot = filepath.Join(root, "indexes")
	cfg.Storage.DatabasePath = filepath.Join(root, "db", "documents.db")
	cfg.Documents.Dir = docs
	config.ApplyDefaults(cfg)

	eng, err := engine.New(cfg)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	t.Cleanup(func() { _ = eng.Close() })
	return eng, cfg
}

func write(t *testing.T, cfg *config.Config, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(cfg.Documents.Dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestIntegration_IndexAndSearchAcrossCollections(t *testing.T) {
	eng, cfg := setup(t)
	ctx := context.Background()

	write(t, cfg, "doc1.txt", "The quick brown fox jumps over the lazy dog")
	write(t, cfg, "people.csv", "name,role\nalice,engineer\nbob,designer\n")
	write(t, cfg, "meta.json", `{"project":{"name":"kensaku","language":"go"}}`)

	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Fox Watching</title></head><body><p>foxes seen near the river</p></body></html>`))
	}))
	defer page.Close()
	write(t, cfg, "links.url", page.URL+"\n")

	report, err := eng.IndexAll(ctx)
	if err != nil {
		t.Fatalf("IndexAll: %v", err)
	}
	if report.Status != engine.RunCompleted {
		t.Fatalf("report = %+v", report)
	}
	// 1 txt + 2 csv rows + 2 json leaves + 1 web page
	if report.Indexed != 6 {
		t.Errorf("indexed = %d, want 6", report.Indexed)
	}

	// cross-collection search: txt and web both mention foxes
	resp, err := eng.Search(ctx, &models.SearchRequest{Query: "fox"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	types := map[models.FileType]bool{}
	for _, r := range resp.Results {
		types[r.FileType] = true
	}
	if !types[models.FileTypeTxt] || !types[models.FileTypeWeb] {
		t.Errorf("expected txt and web hits, got %+v", resp.Results)
	}

	// scoped search stays inside its collection
	resp, err = eng.Search(ctx, &models.SearchRequest{Query: "alice", FileType: models.FileTypeCSV})
	if err != nil {
		t.Fatalf("Search csv: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].Location != "row_1" {
		t.Errorf("csv results = %+v", resp.Results)
	}

	// json leaves are addressable by flattened key
	resp, err = eng.Search(ctx, &models.SearchRequest{Query: "kensaku", FileType: models.FileTypeJSON})
	if err != nil {
		t.Fatalf("Search json: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("json results = %+v", resp.Results)
	}
	if want := "#project.name"; !strings.HasSuffix(resp.Results[0].Location, want) {
		t.Errorf("location = %q, want suffix %q", resp.Results[0].Location, want)
	}
}

func TestIntegration_HTTPRoundTrip(t *testing.T) {
	eng, cfg := setup(t)

	write(t, cfg, "notes.txt", "searchable note about databases")

	srv := server.NewServer(eng, &cfg.Server, zap.NewNop(), metrics.New())
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	// index through the API
	resp, err := http.Post(ts.URL+"/api/v1/index", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/v1/index: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("index status = %d", resp.StatusCode)
	}

	// then search through the API
	resp2, err := http.Get(ts.URL + "/api/v1/search?q=databases")
	if err != nil {
		t.Fatalf("GET /api/v1/search: %v", err)
	}
	defer resp2.Body.Close()
	var sr models.SearchResponse
	if err := json.NewDecoder(resp2.Body).Decode(&sr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sr.Total != 1 || sr.Results[0].Filename != "notes.txt" {
		t.Errorf("response = %+v", sr)
	}
}

func TestIntegration_RestartKeepsIndex(t *testing.T) {
	root := t.TempDir()
	docs := filepath.Join(root, "documents")
	if err := os.MkdirAll(docs, 0755); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{}
	cfg.Storage.IndexRoot = filepath.Join(root, "indexes")
	cfg.Storage.DatabasePath = filepath.Join(root, "db", "documents.db")
	cfg.Documents.Dir = docs
	config.ApplyDefaults(cfg)

	eng, err := engine.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docs, "keep.txt"), []byte("content kept across restarts"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.IndexAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := eng.Close(); err != nil {
		t.Fatal(err)
	}

	// delete the source file; the index alone must answer the query
	if err := os.Remove(filepath.Join(docs, "keep.txt")); err != nil {
		t.Fatal(err)
	}

	eng2, err := engine.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer eng2.Close()

	resp, err := eng2.Search(context.Background(), &models.SearchRequest{Query: "restarts"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("total after restart = %d, want 1", resp.Total)
	}
}
