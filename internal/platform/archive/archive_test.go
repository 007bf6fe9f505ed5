package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"
	"time"
)

var stamp = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func readEntries(t *testing.T, data []byte) map[string]*zip.File {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	out := make(map[string]*zip.File)
	for _, f := range zr.File {
		out[f.Name] = f
	}
	return out
}

func TestBuilder_RoundTrip(t *testing.T) {
	b := NewBuilder(stamp)
	if err := b.Add("claim-P1-20240315.pdf", []byte("%PDF-1.3")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add("attachment-1-lab_report.pdf", []byte("lab")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	entries := readEntries(t, data)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	f := entries["attachment-1-lab_report.pdf"]
	if f == nil {
		t.Fatal("expected attachment entry")
	}
	if !f.Modified.Equal(stamp) {
		t.Errorf("expected entry time %v, got %v", stamp, f.Modified)
	}
	rc, err := f.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "lab" {
		t.Errorf("expected body lab, got %q", body)
	}
}

func TestBuilder_Errors(t *testing.T) {
	b := NewBuilder(stamp)
	if err := b.Add("", nil); !errors.Is(err, ErrEmptyEntryName) {
		t.Errorf("expected ErrEmptyEntryName, got %v", err)
	}
	if err := b.Add("a.txt", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add("a.txt", nil); !errors.Is(err, ErrDuplicateEntry) {
		t.Errorf("expected ErrDuplicateEntry, got %v", err)
	}
	if b.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", b.Len())
	}
	if _, err := b.Bytes(); err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if err := b.Add("b.txt", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"lab report.pdf", "lab_report.pdf"},
		{"x-ray (1).JPG", "x-ray__1_.JPG"},
		{"résumé.png", "r_sum_.png"},
		{"../etc/passwd", ".._etc_passwd"},
		{"plain-name.1", "plain-name.1"},
	}
	for _, tt := range tests {
		got := SanitizeName(tt.in)
		if got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := SanitizeName(got); again != got {
			t.Errorf("SanitizeName not idempotent for %q: %q", tt.in, again)
		}
	}
}
