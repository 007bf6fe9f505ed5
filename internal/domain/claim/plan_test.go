package claim

import (
	"errors"
	"testing"

	"github.com/salulink/chronic/internal/domain/lookup"
)

func TestPlanTier(t *testing.T) {
	want := map[Plan]Tier{
		PlanCore:          TierCore,
		PlanPriority:      TierCore,
		PlanSaver:         TierCore,
		PlanExecutive:     TierExecutive,
		PlanComprehensive: TierExecutive,
	}
	for _, p := range Plans {
		got, err := p.Tier()
		if err != nil {
			t.Fatalf("Tier(%s): %v", p, err)
		}
		if got != want[p] {
			t.Errorf("Tier(%s) = %s, want %s", p, got, want[p])
		}
	}
	if _, err := ParsePlan("Platinum"); !errors.Is(err, ErrUnknownPlan) {
		t.Errorf("expected ErrUnknownPlan, got %v", err)
	}
}

func TestCDAFor(t *testing.T) {
	m := lookup.Medicine{CDACore: "R163.00", CDAExecutive: "R204.00"}
	if got, _ := CDAFor(PlanSaver, m); got != "R163.00" {
		t.Errorf("expected core amount, got %s", got)
	}
	if got, _ := CDAFor(PlanComprehensive, m); got != "R204.00" {
		t.Errorf("expected executive amount, got %s", got)
	}
	m.CDAExecutive = ""
	if got, _ := CDAFor(PlanExecutive, m); got != "R163.00" {
		t.Errorf("expected core fallback, got %s", got)
	}
}
