package claim

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Urgency of a specialist referral.
type Urgency string

const (
	UrgencyRoutine   Urgency = "routine"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

var validUrgencies = map[Urgency]bool{
	UrgencyRoutine: true, UrgencyUrgent: true, UrgencyEmergency: true,
}

// Valid reports whether u is a known urgency.
func (u Urgency) Valid() bool {
	return validUrgencies[u]
}

// Referral is a saved specialist referral.
type Referral struct {
	ID             string    `json:"id"`
	SpecialistType string    `json:"specialistType"`
	Urgency        Urgency   `json:"urgency"`
	Motivation     string    `json:"referralNote"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ReferralInput is what the referral form collects.
type ReferralInput struct {
	SpecialistType string
	Urgency        Urgency
	Motivation     string
}

// Validate rejects a referral that cannot be exported.
func (in ReferralInput) Validate() error {
	if strings.TrimSpace(in.SpecialistType) == "" {
		return fmt.Errorf("%w: specialist type is required", ErrInvalidReferral)
	}
	if strings.TrimSpace(in.Motivation) == "" {
		return fmt.Errorf("%w: referral motivation is required", ErrInvalidReferral)
	}
	if !in.Urgency.Valid() {
		return fmt.Errorf("%w: unknown urgency %q", ErrInvalidReferral, string(in.Urgency))
	}
	return nil
}

// Input returns the form values of a saved referral.
func (r Referral) Input() ReferralInput {
	return ReferralInput{SpecialistType: r.SpecialistType, Urgency: r.Urgency, Motivation: r.Motivation}
}

// AddReferral validates in and records it on the case.
func (c *PatientCase) AddReferral(in ReferralInput, at time.Time) (Referral, error) {
	if err := in.Validate(); err != nil {
		return Referral{}, err
	}
	r := Referral{
		ID:             uuid.New().String(),
		SpecialistType: strings.TrimSpace(in.SpecialistType),
		Urgency:        in.Urgency,
		Motivation:     in.Motivation,
		CreatedAt:      at.UTC(),
	}
	c.Referrals = append(c.Referrals, r)
	c.touch()
	return r, nil
}
