// Package claim holds the patient case record a practitioner edits before a
// claim, follow-up report or referral is exported, together with the
// operations that keep its invariants: treatment counts stay within the
// annual cap, basket entries stay unique, and medication reports are only
// ever appended.
package claim

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDuplicateTreatment  = errors.New("treatment has already been added")
	ErrDuplicateMedication = errors.New("medication has already been selected")
	ErrExcludedMedication  = errors.New("medication is excluded for this report")
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrUnknownBasket       = errors.New("unknown basket kind")
	ErrUnknownPlan         = errors.New("unknown medical plan")
	ErrInvalidStatus       = errors.New("invalid case status")
	ErrInvalidReferral     = errors.New("invalid referral")
	ErrTooManyAttachments  = errors.New("attachment limit reached")
	ErrEmptyFileName       = errors.New("file name cannot be empty")
	ErrMissingPatient      = errors.New("patient id and name are required")
	ErrInvalidPatientID    = errors.New("patient id cannot contain path separators or \"..\"")
)

// Status is the workflow stage of a case.
type Status string

const (
	StatusDiagnostic Status = "diagnostic"
	StatusOngoing    Status = "ongoing"
	StatusCompleted  Status = "completed"
)

var validStatuses = map[Status]bool{
	StatusDiagnostic: true, StatusOngoing: true, StatusCompleted: true,
}

// BasketKind selects one of the two treatment lists of a case.
type BasketKind string

const (
	BasketDiagnostic BasketKind = "diagnostic"
	BasketOngoing    BasketKind = "ongoing"
)

// DefaultMaxAttachments is the per-documentation file limit used when a case
// is edited without an explicit limit.
const DefaultMaxAttachments = 10

// PatientCase is the root record for one patient's claim.
type PatientCase struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patientId"`
	PatientName    string    `json:"patientName"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	ClinicalNote   string    `json:"clinicalNote"`
	Condition      string    `json:"condition"`
	ICDCode        string    `json:"icdCode"`
	ICDDescription string    `json:"icdDescription"`
	Plan           Plan      `json:"plan"`

	DiagnosticTreatments []Treatment        `json:"diagnosticTreatments"`
	OngoingTreatments    []Treatment        `json:"ongoingTreatments"`
	Medications          []Medication       `json:"medications"`
	MedicationNote       string             `json:"medicationNote,omitempty"`
	MedicationReports    []MedicationReport `json:"medicationReports,omitempty"`
	Referrals            []Referral         `json:"referrals,omitempty"`
}

// Treatment is one billable procedure in a basket.
type Treatment struct {
	Description    string        `json:"description"`
	Code           string        `json:"code"`
	MaxCovered     int           `json:"maxCovered"`
	TimesCompleted int           `json:"timesCompleted"`
	Documentation  Documentation `json:"documentation"`
}

// Documentation is free-text notes plus the files attached to an entry.
type Documentation struct {
	Notes       string          `json:"notes"`
	Attachments []AttachmentRef `json:"images"`
}

// Empty reports whether the block carries neither notes nor files.
func (d Documentation) Empty() bool {
	return d.Notes == "" && len(d.Attachments) == 0
}

func (d Documentation) clone() Documentation {
	out := Documentation{Notes: d.Notes}
	if d.Attachments != nil {
		out.Attachments = append([]AttachmentRef(nil), d.Attachments...)
	}
	return out
}

// Medication is a selected medicine with the coverage amount that applied
// under the case's plan at selection time.
type Medication struct {
	MedicineClass    string `json:"medicineClass"`
	ActiveIngredient string `json:"activeIngredient"`
	NameAndStrength  string `json:"medicineNameAndStrength"`
	CDAAmount        string `json:"cdaAmount"`
	Note             string `json:"note,omitempty"`
}

// MedicationReport is a follow-up snapshot. Reports are appended to a case
// and never modified afterwards.
type MedicationReport struct {
	ID             string         `json:"id"`
	CreatedAt      time.Time      `json:"createdAt"`
	FollowUpNotes  string         `json:"followUpNotes"`
	NewMedications []Medication   `json:"newMedications"`
	Motivation     string         `json:"motivationLetter,omitempty"`
	Documentation  *Documentation `json:"documentation,omitempty"`
}

// NewCase starts a case in the diagnostic stage.
func NewCase(patientID, patientName string, plan Plan, now time.Time) (*PatientCase, error) {
	if patientID == "" || patientName == "" {
		return nil, ErrMissingPatient
	}
	if strings.ContainsAny(patientID, `/\`) || strings.Contains(patientID, "..") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPatientID, patientID)
	}
	if _, err := plan.Tier(); err != nil {
		return nil, err
	}
	now = now.UTC()
	return &PatientCase{
		ID:                   uuid.New().String(),
		PatientID:            patientID,
		PatientName:          patientName,
		Status:               StatusDiagnostic,
		CreatedAt:            now,
		UpdatedAt:            now,
		Plan:                 plan,
		DiagnosticTreatments: []Treatment{},
		OngoingTreatments:    []Treatment{},
		Medications:          []Medication{},
	}, nil
}

// SetDiagnosis records the chronic condition and its ICD-10 code.
func (c *PatientCase) SetDiagnosis(condition, icdCode, icdDescription string) {
	c.Condition = condition
	c.ICDCode = icdCode
	c.ICDDescription = icdDescription
	c.touch()
}

// SetClinicalNote replaces the free-text clinical note.
func (c *PatientCase) SetClinicalNote(note string) {
	c.ClinicalNote = note
	c.touch()
}

// SetStatus moves the case to another workflow stage.
func (c *PatientCase) SetStatus(s Status) error {
	if !validStatuses[s] {
		return ErrInvalidStatus
	}
	c.Status = s
	c.touch()
	return nil
}

// SetPlan changes the medical plan. Already selected medications keep the
// amount they were selected with.
func (c *PatientCase) SetPlan(p Plan) error {
	if _, err := p.Tier(); err != nil {
		return err
	}
	c.Plan = p
	c.touch()
	return nil
}

// Treatments returns the list for kind.
func (c *PatientCase) Treatments(kind BasketKind) ([]Treatment, error) {
	switch kind {
	case BasketDiagnostic:
		return c.DiagnosticTreatments, nil
	case BasketOngoing:
		return c.OngoingTreatments, nil
	}
	return nil, ErrUnknownBasket
}

func (c *PatientCase) treatmentList(kind BasketKind) (*[]Treatment, error) {
	switch kind {
	case BasketDiagnostic:
		return &c.DiagnosticTreatments, nil
	case BasketOngoing:
		return &c.OngoingTreatments, nil
	}
	return nil, ErrUnknownBasket
}

// now is swapped in tests.
var now = time.Now

func (c *PatientCase) touch() {
	c.UpdatedAt = now().UTC()
}
