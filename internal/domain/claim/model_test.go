package claim

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewCase(t *testing.T) {
	c, err := NewCase("P-1", "Jane", PlanSaver, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID == "" {
		t.Error("expected generated case id")
	}
	if c.Status != StatusDiagnostic {
		t.Errorf("expected status diagnostic, got %s", c.Status)
	}
	if !c.CreatedAt.Equal(fixedNow) || !c.UpdatedAt.Equal(fixedNow) {
		t.Errorf("expected timestamps %v, got %v/%v", fixedNow, c.CreatedAt, c.UpdatedAt)
	}
	if c.DiagnosticTreatments == nil || c.OngoingTreatments == nil || c.Medications == nil {
		t.Error("expected empty, non-nil lists")
	}
}

func TestNewCase_Rejects(t *testing.T) {
	if _, err := NewCase("", "Jane", PlanCore, fixedNow); !errors.Is(err, ErrMissingPatient) {
		t.Errorf("expected ErrMissingPatient, got %v", err)
	}
	if _, err := NewCase("P-1", "Jane", Plan("Gold"), fixedNow); !errors.Is(err, ErrUnknownPlan) {
		t.Errorf("expected ErrUnknownPlan, got %v", err)
	}
	for _, id := range []string{"12/34", "../../../escaped", `P\1`, "P..1"} {
		if _, err := NewCase(id, "Jane", PlanCore, fixedNow); !errors.Is(err, ErrInvalidPatientID) {
			t.Errorf("NewCase(%q): expected ErrInvalidPatientID, got %v", id, err)
		}
	}
}

func TestSetStatus(t *testing.T) {
	c := newTestCase(t)
	if err := c.SetStatus(StatusOngoing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != StatusOngoing {
		t.Errorf("expected ongoing, got %s", c.Status)
	}
	if err := c.SetStatus("archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if c.Status != StatusOngoing {
		t.Errorf("expected status unchanged after rejection, got %s", c.Status)
	}
}

func TestTreatments_UnknownBasket(t *testing.T) {
	c := newTestCase(t)
	if _, err := c.Treatments("other"); !errors.Is(err, ErrUnknownBasket) {
		t.Errorf("expected ErrUnknownBasket, got %v", err)
	}
}

func TestPatientCase_JSONFieldNames(t *testing.T) {
	c := newTestCase(t)
	addTestTreatment(t, c, BasketDiagnostic, "Peak flow", "1234", "2")
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"patientId", "patientName", "icdCode", "diagnosticTreatments", "ongoingTreatments", "medications"} {
		if _, ok := raw[k]; !ok {
			t.Errorf("expected key %q in case JSON", k)
		}
	}
	tr := raw["diagnosticTreatments"].([]any)[0].(map[string]any)
	doc := tr["documentation"].(map[string]any)
	if _, ok := doc["images"]; !ok {
		t.Error("expected documentation attachments under \"images\"")
	}
}
