package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/kensaku/internal/models"
	apperrors "github.com/hyperjump/kensaku/pkg/errors"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "kensaku.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAddAllocatesMonotonicIDs(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		id, err := s.Add(ctx, &models.Document{
			Filename: "notes.txt",
			FileType: models.FileTypeTxt,
			Content:  "hello world",
			Location: "notes.txt",
		})
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if id != want {
			t.Errorf("id = %d, want %d", id, want)
		}
	}
}

func TestIDsIndependentPerCollection(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	txtID, err := s.Add(ctx, &models.Document{Filename: "a.txt", FileType: models.FileTypeTxt, Content: "a", Location: "a.txt"})
	if err != nil {
		t.Fatalf("Add txt: %v", err)
	}
	csvID, err := s.Add(ctx, &models.Document{Filename: "b.csv", FileType: models.FileTypeCSV, Content: "b", Location: "row_1"})
	if err != nil {
		t.Fatalf("Add csv: %v", err)
	}
	if txtID != 1 || csvID != 1 {
		t.Errorf("ids = (%d, %d), want (1, 1)", txtID, csvID)
	}
}

func TestGetRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	id, err := s.Add(ctx, &models.Document{
		Filename: "report.csv",
		FileType: models.FileTypeCSV,
		Content:  "alice,30",
		Location: "row_2",
		Title:    "report",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.Get(ctx, string(models.FileTypeCSV), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Filename != "report.csv" || got.Content != "alice,30" || got.Location != "row_2" || got.Title != "report" {
		t.Errorf("unexpected document: %+v", got)
	}
	if got.FileType != models.FileTypeCSV {
		t.Errorf("filetype = %q, want %q", got.FileType, models.FileTypeCSV)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Get(context.Background(), "txt", 42)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestClearResetsIDSequence(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.Add(ctx, &models.Document{Filename: "a.txt", FileType: models.FileTypeTxt, Content: "x", Location: "a.txt"}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := s.Clear(ctx, "txt"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	n, err := s.Count(ctx, "txt")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("count after clear = %d, want 0", n)
	}

	id, err := s.Add(ctx, &models.Document{Filename: "a.txt", FileType: models.FileTypeTxt, Content: "x", Location: "a.txt"})
	if err != nil {
		t.Fatalf("Add after clear: %v", err)
	}
	if id != 1 {
		t.Errorf("id after clear = %d, want 1", id)
	}
}

func TestClearLeavesOtherCollectionsAlone(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, &models.Document{Filename: "a.txt", FileType: models.FileTypeTxt, Content: "x", Location: "a.txt"}); err != nil {
		t.Fatalf("Add txt: %v", err)
	}
	if _, err := s.Add(ctx, &models.Document{Filename: "b.csv", FileType: models.FileTypeCSV, Content: "y", Location: "row_1"}); err != nil {
		t.Fatalf("Add csv: %v", err)
	}
	if err := s.Clear(ctx, "txt"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	n, err := s.Count(ctx, "csv")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("csv count = %d, want 1", n)
	}
}

func TestNewSQLiteStorageCreatesParentDirs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "deep", "kensaku.db")
	s, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestDiskUsageBytes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a"), make([]byte, 100), 0644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "b"), make([]byte, 50), 0644); err != nil {
		t.Fatal(err)
	}

	n, err := DiskUsageBytes(dir, filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("DiskUsageBytes: %v", err)
	}
	if n != 150 {
		t.Errorf("usage = %d, want 150", n)
	}
}
