package output

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// File appends records to a results file, separated by blank lines.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

// Prepare creates the parent directory, or removes a results file left by an
// earlier run since Write only ever appends.
func (f *File) Prepare() error {
	dir := filepath.Dir(f.path)

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
		slog.Info("created output directory", "path", dir)
		return nil
	}

	if err := os.Remove(f.path); err == nil {
		slog.Info("deleted previous output file", "path", f.path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting previous output file %s: %w", f.path, err)
	}
	return nil
}

func (f *File) Write(r Record) error {
	fh, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.path, err)
	}

	werr := r.body(fh)
	if werr == nil {
		_, werr = fh.WriteString("\n")
	}
	if cerr := fh.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("writing %s: %w", f.path, werr)
	}
	return nil
}

func (f *File) Location() string { return f.path }
