package claim

import (
	"testing"
	"time"

	"github.com/salulink/chronic/internal/domain/lookup"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func newTestCase(t *testing.T) *PatientCase {
	t.Helper()
	c, err := NewCase("P-001", "Jane Doe", PlanCore, fixedNow)
	if err != nil {
		t.Fatalf("NewCase: %v", err)
	}
	c.SetDiagnosis("Asthma", "J45.0", "Predominantly allergic asthma")
	return c
}

func addTestTreatment(t *testing.T, c *PatientCase, kind BasketKind, desc, code, covered string) {
	t.Helper()
	tr := TreatmentFromBasket(lookup.BasketItem{Description: desc, Code: code, Covered: covered})
	if err := c.AddTreatment(kind, tr); err != nil {
		t.Fatalf("AddTreatment(%s): %v", desc, err)
	}
}

func testRef(t *testing.T, name, mimeType string, data []byte) AttachmentRef {
	t.Helper()
	ref, err := EncodeAttachment(Attachment{FileName: name, MimeType: mimeType, Data: data})
	if err != nil {
		t.Fatalf("EncodeAttachment: %v", err)
	}
	return ref
}
