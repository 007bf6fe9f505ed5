package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/salulink/chronic/internal/domain/claim"
)

func TestExportClaim_WithAttachments(t *testing.T) {
	c := seedCase(t)
	if _, err := c.AttachFiles(claim.BasketDiagnostic, 0, 0, ref(t, "lab report.pdf", "application/pdf", "lab values")); err != nil {
		t.Fatalf("AttachFiles: %v", err)
	}

	art, err := testExporter(4).ExportClaim(context.Background(), c, Options{WithAttachments: true})
	if err != nil {
		t.Fatalf("ExportClaim: %v", err)
	}
	if art.FileName != "claim-P-100-20240315.zip" || art.ContentType != ContentTypeZIP {
		t.Errorf("unexpected artifact %s (%s)", art.FileName, art.ContentType)
	}

	entries := zipEntries(t, art.Data)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	doc, ok := entries["claim-P-100-20240315.pdf"]
	if !ok || !bytes.HasPrefix([]byte(doc), []byte("%PDF-")) {
		t.Error("expected the claim PDF inside the archive")
	}
	if entries["attachment-1-lab_report.pdf"] != "lab values" {
		t.Errorf("expected attachment bytes, got %q", entries["attachment-1-lab_report.pdf"])
	}
}

func TestExportClaim_PDFOnly(t *testing.T) {
	c := seedCase(t)
	if _, err := c.AttachFiles(claim.BasketDiagnostic, 0, 0, ref(t, "lab.pdf", "application/pdf", "x")); err != nil {
		t.Fatal(err)
	}

	art, err := testExporter(1).ExportClaim(context.Background(), c, Options{})
	if err != nil {
		t.Fatalf("ExportClaim: %v", err)
	}
	if art.FileName != "claim-P-100-20240315.pdf" || art.ContentType != ContentTypePDF {
		t.Errorf("expected pdf artifact, got %s (%s)", art.FileName, art.ContentType)
	}
	if !bytes.HasPrefix(art.Data, []byte("%PDF-")) {
		t.Error("expected PDF bytes")
	}
}

func TestExportOngoing_NoAttachmentsFallsBackToPDF(t *testing.T) {
	c := seedCase(t)
	// Only the diagnostic item has a file, which the ongoing report ignores.
	if _, err := c.AttachFiles(claim.BasketDiagnostic, 0, 0, ref(t, "lab.pdf", "application/pdf", "x")); err != nil {
		t.Fatal(err)
	}
	art, err := testExporter(2).ExportOngoing(context.Background(), c, Options{WithAttachments: true})
	if err != nil {
		t.Fatalf("ExportOngoing: %v", err)
	}
	if art.FileName != "ongoing-P-100-20240315.pdf" {
		t.Errorf("expected pdf when nothing to bundle, got %s", art.FileName)
	}
}

func TestExportMedicationReport_IncludesReportDocumentation(t *testing.T) {
	c := seedCase(t)
	r, err := c.SaveMedicationReport(claim.MedicationReportInput{
		FollowUpNotes: "Review",
		Documentation: &claim.Documentation{Attachments: []claim.AttachmentRef{ref(t, "chart.png", "image/png", "c")}},
	}, exportTime)
	if err != nil {
		t.Fatal(err)
	}
	art, err := testExporter(2).ExportMedicationReport(context.Background(), c, r, Options{WithAttachments: true})
	if err != nil {
		t.Fatalf("ExportMedicationReport: %v", err)
	}
	want := []string{"medication-report-P-100-20240315.pdf", "attachment-1-chart.png"}
	if !equalStrings(art.Entries, want) {
		t.Errorf("expected entries %v, got %v", want, art.Entries)
	}
}

func TestExportReferral_Validation(t *testing.T) {
	c := seedCase(t)
	art, err := testExporter(1).ExportReferral(context.Background(), c, claim.ReferralInput{Urgency: claim.UrgencyRoutine, Motivation: "x"}, Options{WithAttachments: true})
	if !errors.Is(err, claim.ErrInvalidReferral) {
		t.Fatalf("expected ErrInvalidReferral, got %v", err)
	}
	if art != nil {
		t.Error("expected no artifact on validation failure")
	}

	art, err = testExporter(1).ExportReferral(context.Background(), c, claim.ReferralInput{
		SpecialistType: "Pulmonologist", Urgency: claim.UrgencyEmergency, Motivation: "Acute exacerbation",
	}, Options{})
	if err != nil {
		t.Fatalf("ExportReferral: %v", err)
	}
	if art.FileName != "referral-P-100-20240315.pdf" {
		t.Errorf("unexpected file name %s", art.FileName)
	}
}

func TestExport_NilCase(t *testing.T) {
	if _, err := testExporter(1).ExportClaim(context.Background(), nil, Options{}); !errors.Is(err, ErrNoCase) {
		t.Errorf("expected ErrNoCase, got %v", err)
	}
}
