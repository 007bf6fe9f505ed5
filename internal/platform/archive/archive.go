// Package archive assembles ZIP bundles in memory. A Builder only yields
// bytes once every entry has been written and the directory closed, so a
// failed assembly never produces a partial archive.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyEntryName = errors.New("entry name cannot be empty")
	ErrDuplicateEntry = errors.New("entry already exists")
	ErrClosed         = errors.New("archive already closed")
)

// Builder collects entries into an in-memory ZIP.
type Builder struct {
	buf      bytes.Buffer
	zw       *zip.Writer
	modified time.Time
	names    map[string]bool
	err      error
	closed   bool
}

// NewBuilder starts an archive whose entries are stamped with modified.
func NewBuilder(modified time.Time) *Builder {
	b := &Builder{modified: modified, names: make(map[string]bool)}
	b.zw = zip.NewWriter(&b.buf)
	return b
}

// Add writes one deflated entry. After the first failure every later call
// returns the same error.
func (b *Builder) Add(name string, data []byte) error {
	if b.err != nil {
		return b.err
	}
	if b.closed {
		return ErrClosed
	}
	if name == "" {
		return ErrEmptyEntryName
	}
	if b.names[name] {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, name)
	}
	w, err := b.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: b.modified,
	})
	if err != nil {
		b.err = fmt.Errorf("creating entry %s: %w", name, err)
		return b.err
	}
	if _, err := w.Write(data); err != nil {
		b.err = fmt.Errorf("writing entry %s: %w", name, err)
		return b.err
	}
	b.names[name] = true
	return nil
}

// Len returns the number of entries written.
func (b *Builder) Len() int { return len(b.names) }

// Bytes closes the archive and returns it. It returns nil and the first
// error when any step failed.
func (b *Builder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.closed {
		b.closed = true
		if err := b.zw.Close(); err != nil {
			b.err = fmt.Errorf("closing archive: %w", err)
			return nil, b.err
		}
	}
	return append([]byte(nil), b.buf.Bytes()...), nil
}

// SanitizeName replaces every rune outside [A-Za-z0-9.-] with an underscore.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return '_'
	}, name)
}
