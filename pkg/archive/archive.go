package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
)

// Archiver mirrors saved invoices to a side channel keyed by invoice
// number. It is best-effort only: callers must never let an archive
// failure affect the primary store operation.
type Archiver interface {
	Write(invoiceNumber string, record any) error
	Remove(invoiceNumber string) error
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// Filename maps an invoice number to its archive file name. Every
// character outside [A-Za-z0-9] becomes an underscore.
func Filename(invoiceNumber string) string {
	return unsafeChars.ReplaceAllString(invoiceNumber, "_") + ".json"
}

// FileArchiver keeps one JSON file per invoice in a local directory.
type FileArchiver struct {
	dir string
}

// NewFileArchiver creates the archive directory if needed.
func NewFileArchiver(dir string) (*FileArchiver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileArchiver{dir: dir}, nil
}

// Dir returns the archive directory.
func (a *FileArchiver) Dir() string {
	return a.dir
}

// Write stores the record as indented JSON under the sanitized invoice
// number, replacing any previous content.
func (a *FileArchiver) Write(invoiceNumber string, record any) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(a.dir, Filename(invoiceNumber)), data, 0o644)
}

// Remove deletes the archive file for an invoice number. A missing file
// is not an error.
func (a *FileArchiver) Remove(invoiceNumber string) error {
	err := os.Remove(filepath.Join(a.dir, Filename(invoiceNumber)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// NullArchiver discards everything. Used when archiving is disabled.
type NullArchiver struct{}

func (NullArchiver) Write(string, any) error { return nil }

func (NullArchiver) Remove(string) error { return nil }
