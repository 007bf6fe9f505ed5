package claim

import (
	"fmt"

	"github.com/salulink/chronic/internal/domain/lookup"
)

// Plan is a medical scheme plan name.
type Plan string

const (
	PlanCore          Plan = "Core"
	PlanPriority      Plan = "Priority"
	PlanSaver         Plan = "Saver"
	PlanExecutive     Plan = "Executive"
	PlanComprehensive Plan = "Comprehensive"
)

// Plans lists every supported plan in display order.
var Plans = []Plan{PlanCore, PlanPriority, PlanSaver, PlanExecutive, PlanComprehensive}

// Tier is the coverage-amount column a plan reads from.
type Tier string

const (
	TierCore      Tier = "core"
	TierExecutive Tier = "executive"
)

// planTiers must name every plan in Plans.
var planTiers = map[Plan]Tier{
	PlanCore:          TierCore,
	PlanPriority:      TierCore,
	PlanSaver:         TierCore,
	PlanExecutive:     TierExecutive,
	PlanComprehensive: TierExecutive,
}

// Tier returns the plan's tier, or ErrUnknownPlan.
func (p Plan) Tier() (Tier, error) {
	t, ok := planTiers[p]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlan, string(p))
	}
	return t, nil
}

// ParsePlan validates a plan name.
func ParsePlan(s string) (Plan, error) {
	p := Plan(s)
	if _, err := p.Tier(); err != nil {
		return "", err
	}
	return p, nil
}

// CDAFor returns the coverage amount of m under plan p. The executive column
// falls back to the core column when the catalog leaves it blank.
func CDAFor(p Plan, m lookup.Medicine) (string, error) {
	tier, err := p.Tier()
	if err != nil {
		return "", err
	}
	switch tier {
	case TierCore:
		return m.CDACore, nil
	case TierExecutive:
		if m.CDAExecutive != "" {
			return m.CDAExecutive, nil
		}
		return m.CDACore, nil
	}
	return "", fmt.Errorf("%w: tier %q", ErrUnknownPlan, string(tier))
}
