// Package casefile keeps patient cases as JSON documents on disk, one file
// per case.
package casefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/salulink/chronic/internal/domain/claim"
)

const Ext = ".json"

var ErrInvalidCase = errors.New("invalid case file")

// FileName is the conventional file name for c inside a case directory.
func FileName(c *claim.PatientCase) string {
	return c.ID + Ext
}

// Load reads one case file.
func Load(path string) (*claim.PatientCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading case: %w", err)
	}
	var c claim.PatientCase
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCase, path, err)
	}
	if c.ID == "" || c.PatientID == "" {
		return nil, fmt.Errorf("%w: %s: missing id", ErrInvalidCase, path)
	}
	return &c, nil
}

// Save writes c to path through a temporary file in the same directory, so
// readers never see a half-written case.
func Save(path string, c *claim.PatientCase) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding case: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating case directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".case-*"+Ext)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing case: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing case: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing case file: %w", err)
	}
	return nil
}

// LoadDir reads every case file in dir, in file-name order. Files that fail
// to load are skipped and reported together in the returned error.
func LoadDir(dir string) ([]*claim.PatientCase, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading case directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var cases []*claim.PatientCase
	var errs []error
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, Ext) || strings.HasPrefix(name, ".") {
			continue
		}
		c, err := Load(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cases = append(cases, c)
	}
	return cases, errors.Join(errs...)
}
