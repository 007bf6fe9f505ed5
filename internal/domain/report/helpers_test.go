package report

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/salulink/chronic/internal/domain/claim"
	"github.com/salulink/chronic/internal/domain/lookup"
	"github.com/salulink/chronic/internal/platform/pdf"
)

var exportTime = time.Date(2024, 3, 15, 14, 5, 0, 0, time.UTC)

func testBuilder() *Builder {
	return NewBuilder("SaluLink Chronic Treatment App", "A4", 20).WithClock(func() time.Time { return exportTime })
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testExporter(workers int) *Exporter {
	return NewExporter(testBuilder(), NewPackager(workers, zerolog.Nop()), zerolog.Nop())
}

func ref(t *testing.T, name, mimeType, data string) claim.AttachmentRef {
	t.Helper()
	r, err := claim.EncodeAttachment(claim.Attachment{FileName: name, MimeType: mimeType, Data: []byte(data)})
	if err != nil {
		t.Fatalf("EncodeAttachment: %v", err)
	}
	return r
}

// seedCase builds an asthma case with one diagnostic and one ongoing item.
func seedCase(t *testing.T) *claim.PatientCase {
	t.Helper()
	c, err := claim.NewCase("P-100", "Jane Doe", claim.PlanCore, exportTime.Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("NewCase: %v", err)
	}
	c.SetDiagnosis("Asthma", "J45.0", "Predominantly allergic asthma")
	c.SetClinicalNote("Nocturnal wheeze, reversible obstruction.")
	for _, it := range []struct {
		kind claim.BasketKind
		item lookup.BasketItem
	}{
		{claim.BasketDiagnostic, lookup.BasketItem{Description: "Peak flow", Code: "1234", Covered: "2"}},
		{claim.BasketOngoing, lookup.BasketItem{Description: "Spirometry", Code: "4567", Covered: "3"}},
	} {
		if err := c.AddTreatment(it.kind, claim.TreatmentFromBasket(it.item)); err != nil {
			t.Fatalf("AddTreatment: %v", err)
		}
	}
	return c
}

func subtitles(doc *pdf.Document) []string {
	var out []string
	for _, p := range doc.Placements() {
		if p.Kind == pdf.KindSubtitle {
			out = append(out, p.Text)
		}
	}
	return out
}

func texts(doc *pdf.Document, kind pdf.Kind) []string {
	var out []string
	for _, p := range doc.Placements() {
		if p.Kind == kind {
			out = append(out, p.Text)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
