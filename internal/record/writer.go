package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer streams records to a temp file and renames it into place on Commit,
// so a failed run never leaves a partial output file behind.
type Writer struct {
	path string
	tmp  *os.File
	enc  *json.Encoder
}

// NewWriter creates the target directory and a temp file next to the final
// path.
func NewWriter(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp output: %w", err)
	}
	return &Writer{path: path, tmp: tmp, enc: json.NewEncoder(tmp)}, nil
}

// Write appends one record as a JSON line.
func (w *Writer) Write(rec Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("encode record %s: %w", rec.Date, err)
	}
	return nil
}

// Commit closes the temp file and moves it to the final path.
func (w *Writer) Commit() error {
	if w.tmp == nil {
		return nil
	}
	name := w.tmp.Name()
	if err := w.tmp.Close(); err != nil {
		w.tmp = nil
		return fmt.Errorf("close output: %w", err)
	}
	w.tmp = nil
	if err := os.Rename(name, w.path); err != nil {
		return fmt.Errorf("finalize output: %w", err)
	}
	return nil
}

// Discard closes and removes the temp file, leaving any previous output
// untouched. Safe to call after Commit.
func (w *Writer) Discard() {
	if w.tmp == nil {
		return
	}
	name := w.tmp.Name()
	_ = w.tmp.Close()
	_ = os.Remove(name)
	w.tmp = nil
}

// WriteAll writes a full run's records to path in one shot.
func WriteAll(path string, records []Record) error {
	w, err := NewWriter(path)
	if err != nil {
		return err
	}
	defer w.Discard()
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Commit()
}
