package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/salulink/chronic/internal/domain/claim"
	"github.com/salulink/chronic/internal/platform/pdf"
)

var (
	ErrUnknownKind = errors.New("unknown report kind")
	ErrNoCase      = errors.New("case is required")
)

// Options tune a single export.
type Options struct {
	WithAttachments bool
}

// Artifact is one exported file. Saving it is the caller's job.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
	// Entries lists the archive entries when the artifact is a ZIP.
	Entries []string
}

// Exporter renders report variants and optionally bundles attachments.
type Exporter struct {
	builder  *Builder
	packager *Packager
	log      zerolog.Logger
}

// NewExporter creates an Exporter.
func NewExporter(b *Builder, p *Packager, log zerolog.Logger) *Exporter {
	return &Exporter{builder: b, packager: p, log: log}
}

// ExportClaim exports the initial claim.
func (e *Exporter) ExportClaim(ctx context.Context, c *claim.PatientCase, opts Options) (*Artifact, error) {
	if c == nil {
		return nil, ErrNoCase
	}
	return e.export(ctx, KindClaim, c, nil, opts, func(at time.Time) (*pdf.Document, error) {
		return e.builder.claim(c, at)
	})
}

// ExportOngoing exports the ongoing management report.
func (e *Exporter) ExportOngoing(ctx context.Context, c *claim.PatientCase, opts Options) (*Artifact, error) {
	if c == nil {
		return nil, ErrNoCase
	}
	return e.export(ctx, KindOngoing, c, nil, opts, func(at time.Time) (*pdf.Document, error) {
		return e.builder.ongoing(c, at)
	})
}

// ExportMedicationReport exports r, a report saved on c.
func (e *Exporter) ExportMedicationReport(ctx context.Context, c *claim.PatientCase, r claim.MedicationReport, opts Options) (*Artifact, error) {
	if c == nil {
		return nil, ErrNoCase
	}
	return e.export(ctx, KindMedicationReport, c, &r, opts, func(at time.Time) (*pdf.Document, error) {
		return e.builder.medicationReport(c, r, at)
	})
}

// ExportReferral validates in and exports the referral.
func (e *Exporter) ExportReferral(ctx context.Context, c *claim.PatientCase, in claim.ReferralInput, opts Options) (*Artifact, error) {
	if c == nil {
		return nil, ErrNoCase
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return e.export(ctx, KindReferral, c, nil, opts, func(at time.Time) (*pdf.Document, error) {
		return e.builder.referral(c, in, at)
	})
}

func (e *Exporter) export(ctx context.Context, kind Kind, c *claim.PatientCase, r *claim.MedicationReport, opts Options, build func(time.Time) (*pdf.Document, error)) (*Artifact, error) {
	at := e.builder.Now()
	log := e.log.With().Str("kind", string(kind)).Str("case_id", c.ID).Logger()

	doc, err := build(at)
	if err != nil {
		return nil, fmt.Errorf("building %s document: %w", kind, err)
	}
	pdfName := PDFName(kind, c.PatientID, at)

	var refs []claim.AttachmentRef
	if opts.WithAttachments {
		refs = Collect(kind, c, r)
	}
	if len(refs) == 0 {
		log.Info().Str("file", pdfName).Int("pages", doc.Pages()).Msg("document exported")
		return &Artifact{FileName: pdfName, ContentType: ContentTypePDF, Data: doc.Bytes()}, nil
	}

	bundle, err := e.packager.Package(ctx, pdfName, doc.Bytes(), refs, at)
	if err != nil {
		return nil, fmt.Errorf("packaging %s: %w", kind, err)
	}
	zipName := ZIPName(kind, c.PatientID, at)
	log.Info().
		Str("file", zipName).
		Int("pages", doc.Pages()).
		Int("attachments", len(bundle.Entries)-1).
		Int("skipped", len(refs)-(len(bundle.Entries)-1)).
		Msg("bundle exported")
	return &Artifact{
		FileName:    zipName,
		ContentType: ContentTypeZIP,
		Data:        bundle.Data,
		Entries:     bundle.Entries,
	}, nil
}
