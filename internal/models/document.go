// Package models defines core data structures for documents, queries, and search results.
package models

import "time"

// FileType identifies a document collection (one index partition per type).
type FileType string

const (
	FileTypeTxt   FileType = "txt"
	FileTypeCSV   FileType = "csv"
	FileTypeExcel FileType = "excel"
	FileTypeJSON  FileType = "json"
	FileTypePDF   FileType = "pdf"
	FileTypeWeb   FileType = "web"

	// FileTypeAll is the pseudo-type meaning "search every collection".
	FileTypeAll FileType = "all"
)

// AllFileTypes lists every real collection type in a stable order.
var AllFileTypes = []FileType{
	FileTypeTxt,
	FileTypeCSV,
	FileTypeExcel,
	FileTypeJSON,
	FileTypePDF,
	FileTypeWeb,
}

// Valid reports whether f names a real collection (not "all").
func (f FileType) Valid() bool {
	for _, ft := range AllFileTypes {
		if f == ft {
			return true
		}
	}
	return false
}

// Document is a stored document record. IDs are unique only within a
// collection; cross-collection results must carry the FileType alongside.
type Document struct {
	ID        int64     `json:"id" db:"doc_id"`
	Filename  string    `json:"filename" db:"filename"`
	FileType  FileType  `json:"filetype" db:"filetype"`
	Content   string    `json:"content" db:"content"`
	Location  string    `json:"location" db:"location"`
	Title     string    `json:"title" db:"title"`
	Timestamp time.Time `json:"timestamp" db:"created_at"`
}
