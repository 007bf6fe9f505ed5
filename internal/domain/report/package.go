package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/salulink/chronic/internal/domain/claim"
	"github.com/salulink/chronic/internal/platform/archive"
)

// Collect returns the attachment references a variant bundles, in bundle
// order. r is only read for medication reports and may be nil.
func Collect(kind Kind, c *claim.PatientCase, r *claim.MedicationReport) []claim.AttachmentRef {
	var refs []claim.AttachmentRef
	add := func(list []claim.Treatment) {
		for _, t := range list {
			refs = append(refs, t.Documentation.Attachments...)
		}
	}
	switch kind {
	case KindClaim, KindReferral:
		add(c.DiagnosticTreatments)
		add(c.OngoingTreatments)
	case KindOngoing:
		add(c.OngoingTreatments)
	case KindMedicationReport:
		add(c.DiagnosticTreatments)
		add(c.OngoingTreatments)
		if r != nil && r.Documentation != nil {
			refs = append(refs, r.Documentation.Attachments...)
		}
	}
	return refs
}

// resolved is the decode outcome of one reference.
type resolved struct {
	name     string
	data     []byte
	fallback bool
	ok       bool
	err      error
}

func resolve(ref claim.AttachmentRef) resolved {
	a, err := ref.Decode()
	if err == nil {
		return resolved{name: archive.SanitizeName(a.FileName), data: a.Data, ok: true}
	}
	if data, ok := ref.Recover(); ok {
		return resolved{data: data, fallback: true, ok: true, err: err}
	}
	return resolved{err: err}
}

// Packager bundles a rendered document with its attachments.
type Packager struct {
	workers int
	log     zerolog.Logger
}

// NewPackager creates a Packager that decodes up to workers attachments at
// once.
func NewPackager(workers int, log zerolog.Logger) *Packager {
	if workers < 1 {
		workers = 1
	}
	return &Packager{workers: workers, log: log}
}

// Bundle is a finished archive and its entry names in order.
type Bundle struct {
	Data    []byte
	Entries []string
}

// Package decodes refs concurrently, then writes the document followed by
// every readable attachment in ref order. Attachment names are numbered from
// 1; references that cannot be read are logged and skipped without using a
// number.
func (p *Packager) Package(ctx context.Context, docName string, doc []byte, refs []claim.AttachmentRef, at time.Time) (*Bundle, error) {
	results := make([]resolved, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = resolve(ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("decoding attachments: %w", err)
	}

	b := archive.NewBuilder(at)
	entries := make([]string, 0, len(refs)+1)
	if err := b.Add(docName, doc); err != nil {
		return nil, fmt.Errorf("adding document: %w", err)
	}
	entries = append(entries, docName)

	n := 1
	for i, r := range results {
		if !r.ok {
			p.log.Warn().Err(r.err).Int("index", i).Str("file", refs[i].Name()).Msg("skipping unreadable attachment")
			continue
		}
		name := fmt.Sprintf("attachment-%d-%s", n, r.name)
		if r.fallback {
			p.log.Warn().Err(r.err).Int("index", i).Msg("attachment envelope unreadable, bundling raw payload")
			name = fmt.Sprintf("attachment-%d.jpg", n)
		}
		if err := b.Add(name, r.data); err != nil {
			return nil, fmt.Errorf("adding attachment: %w", err)
		}
		entries = append(entries, name)
		n++
	}

	data, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("assembling archive: %w", err)
	}
	return &Bundle{Data: data, Entries: entries}, nil
}
