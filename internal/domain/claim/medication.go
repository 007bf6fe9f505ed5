package claim

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salulink/chronic/internal/domain/lookup"
)

// MedicationFromCatalog converts a catalog medicine into a selection, taking
// the coverage amount for plan p.
func MedicationFromCatalog(p Plan, m lookup.Medicine) (Medication, error) {
	amount, err := CDAFor(p, m)
	if err != nil {
		return Medication{}, err
	}
	return Medication{
		MedicineClass:    m.MedicineClass,
		ActiveIngredient: m.ActiveIngredient,
		NameAndStrength:  m.NameAndStrength,
		CDAAmount:        amount,
	}, nil
}

func containsMedication(list []Medication, name string) bool {
	for _, m := range list {
		if m.NameAndStrength == name {
			return true
		}
	}
	return false
}

// SelectMedication appends m to selected unless a medication with the same
// name and strength is already selected or listed in excluded.
func SelectMedication(selected []Medication, m Medication, excluded []Medication) ([]Medication, error) {
	if containsMedication(selected, m.NameAndStrength) {
		return selected, fmt.Errorf("%w: %s", ErrDuplicateMedication, m.NameAndStrength)
	}
	if containsMedication(excluded, m.NameAndStrength) {
		return selected, fmt.Errorf("%w: %s", ErrExcludedMedication, m.NameAndStrength)
	}
	return append(selected, m), nil
}

// AddMedication selects a catalog medicine for the case under its plan.
func (c *PatientCase) AddMedication(m lookup.Medicine) error {
	med, err := MedicationFromCatalog(c.Plan, m)
	if err != nil {
		return err
	}
	list, err := SelectMedication(c.Medications, med, nil)
	if err != nil {
		return err
	}
	c.Medications = list
	c.touch()
	return nil
}

// RemoveMedication drops the medication at index.
func (c *PatientCase) RemoveMedication(index int) error {
	if index < 0 || index >= len(c.Medications) {
		return ErrIndexOutOfRange
	}
	c.Medications = append(c.Medications[:index:index], c.Medications[index+1:]...)
	c.touch()
	return nil
}

// SetMedicationNote sets the per-medication note.
func (c *PatientCase) SetMedicationNote(index int, note string) error {
	if index < 0 || index >= len(c.Medications) {
		return ErrIndexOutOfRange
	}
	c.Medications[index].Note = note
	c.touch()
	return nil
}

// SetRegistrationNote sets the note shared by all selected medications.
func (c *PatientCase) SetRegistrationNote(note string) {
	c.MedicationNote = note
	c.touch()
}

// MedicationReportInput is what a follow-up form collects.
type MedicationReportInput struct {
	FollowUpNotes  string
	NewMedications []Medication
	Motivation     string
	Documentation  *Documentation
}

// Normalized drops the motivation when no medication was added and the
// documentation when it is empty.
func (in MedicationReportInput) Normalized() MedicationReportInput {
	out := MedicationReportInput{FollowUpNotes: in.FollowUpNotes}
	if len(in.NewMedications) > 0 {
		out.NewMedications = append([]Medication(nil), in.NewMedications...)
		out.Motivation = in.Motivation
	}
	if in.Documentation != nil && !in.Documentation.Empty() {
		doc := in.Documentation.clone()
		out.Documentation = &doc
	}
	return out
}

// SaveMedicationReport appends a snapshot of in to the case history. The
// stored report shares no memory with in, and earlier reports are left as
// they were.
func (c *PatientCase) SaveMedicationReport(in MedicationReportInput, at time.Time) (MedicationReport, error) {
	in = in.Normalized()
	for _, m := range in.NewMedications {
		if containsMedication(c.Medications, m.NameAndStrength) {
			return MedicationReport{}, fmt.Errorf("%w: %s", ErrExcludedMedication, m.NameAndStrength)
		}
	}
	report := MedicationReport{
		ID:             uuid.New().String(),
		CreatedAt:      at.UTC(),
		FollowUpNotes:  in.FollowUpNotes,
		NewMedications: in.NewMedications,
		Motivation:     in.Motivation,
		Documentation:  in.Documentation,
	}
	if report.NewMedications == nil {
		report.NewMedications = []Medication{}
	}
	c.MedicationReports = append(c.MedicationReports[:len(c.MedicationReports):len(c.MedicationReports)], report)
	c.touch()
	return report.clone(), nil
}

func (r MedicationReport) clone() MedicationReport {
	out := r
	out.NewMedications = append([]Medication(nil), r.NewMedications...)
	if r.Documentation != nil {
		doc := r.Documentation.clone()
		out.Documentation = &doc
	}
	return out
}

// LatestMedicationReport returns the most recently saved report.
func (c *PatientCase) LatestMedicationReport() (MedicationReport, bool) {
	if len(c.MedicationReports) == 0 {
		return MedicationReport{}, false
	}
	return c.MedicationReports[len(c.MedicationReports)-1].clone(), true
}
