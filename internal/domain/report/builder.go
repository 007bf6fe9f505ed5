package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/salulink/chronic/internal/domain/claim"
	"github.com/salulink/chronic/internal/platform/pdf"
)

const (
	generatedLayout = "January 02, 2006 15:04"
	historyLayout   = "Jan 02, 2006"
)

var urgencyColors = map[claim.Urgency]pdf.RGB{
	claim.UrgencyEmergency: {R: 220, G: 50, B: 50},
	claim.UrgencyUrgent:    {R: 255, G: 200, B: 100},
	claim.UrgencyRoutine:   {R: 200, G: 255, B: 200},
}

// Builder lays out the report variants. It holds only immutable settings
// and is safe for concurrent use.
type Builder struct {
	appName  string
	pageSize string
	margin   float64
	now      func() time.Time
}

// NewBuilder creates a Builder that stamps documents with the current time.
func NewBuilder(appName, pageSize string, margin float64) *Builder {
	return &Builder{appName: appName, pageSize: pageSize, margin: margin, now: time.Now}
}

// WithClock returns a copy of b that reads the time from now.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	cp := *b
	cp.now = now
	return &cp
}

// Now returns the builder's current time.
func (b *Builder) Now() time.Time { return b.now() }

func (b *Builder) writer(title string, at time.Time) *pdf.Writer {
	return pdf.NewWriter(pdf.Options{
		PageSize:  b.pageSize,
		Margin:    b.margin,
		Creator:   b.appName,
		Title:     title,
		CreatedAt: at,
	})
}

func header(w *pdf.Writer, title string, at time.Time) {
	w.Title(title)
	w.Text("Generated: "+at.Format(generatedLayout), 0)
	w.Space(5)
}

func section(w *pdf.Writer) {
	w.Space(5)
	w.Divider()
}

func attachmentLine(w *pdf.Writer, doc claim.Documentation) {
	if n := len(doc.Attachments); n > 0 {
		w.Text(fmt.Sprintf("  Attachments: %d file(s)", n), 10)
	}
}

func basketItems(w *pdf.Writer, items []claim.Treatment) {
	for i, t := range items {
		w.Text(fmt.Sprintf("%d. %s", i+1, t.Description), 5)
		w.Field("  Code: ", t.Code, 10)
		w.Field("  Times Completed: ", fmt.Sprintf("%d of %d", t.TimesCompleted, t.MaxCovered), 10)
		if t.Documentation.Notes != "" {
			w.Text("  Notes: "+t.Documentation.Notes, 10)
		}
		attachmentLine(w, t.Documentation)
		w.Space(3)
	}
}

func medicationItems(w *pdf.Writer, meds []claim.Medication, gap float64) {
	for i, m := range meds {
		w.Text(fmt.Sprintf("%d. %s", i+1, m.NameAndStrength), 5)
		w.Text("   "+m.ActiveIngredient, 10)
		w.Field("   CDA Amount: ", m.CDAAmount, 10)
		w.Space(gap)
	}
}

func (b *Builder) footer(w *pdf.Writer, c *claim.PatientCase) {
	w.Footer("Generated by "+b.appName, "Case ID: "+c.ID)
}

// Claim builds the initial chronic treatment claim.
func (b *Builder) Claim(c *claim.PatientCase) (*pdf.Document, error) {
	return b.claim(c, b.now())
}

func (b *Builder) claim(c *claim.PatientCase, at time.Time) (*pdf.Document, error) {
	const title = "SaluLink Chronic Treatment Claim"
	w := b.writer(title, at)
	header(w, title, at)
	w.Divider()

	w.Subtitle("Patient Information")
	w.Field("Name: ", c.PatientName, 5)
	w.Field("Patient ID: ", c.PatientID, 5)
	w.Field("Medical Plan: ", string(c.Plan), 5)
	section(w)

	w.Subtitle("Clinical Note")
	w.Text(c.ClinicalNote, 5)
	section(w)

	w.Subtitle("Diagnosis")
	w.Field("Condition: ", c.Condition, 5)
	w.Field("ICD-10 Code: ", c.ICDCode, 5)
	w.Text("Description: "+c.ICDDescription, 5)
	section(w)

	if len(c.DiagnosticTreatments) > 0 {
		w.Subtitle("Diagnostic Basket")
		basketItems(w, c.DiagnosticTreatments)
		w.Divider()
	}

	if len(c.Medications) > 0 {
		w.Subtitle("Prescribed Medications")
		medicationItems(w, c.Medications, 3)
		if c.MedicationNote != "" {
			w.Space(5)
			w.Text("Registration Note:", 5)
			w.Text(c.MedicationNote, 10)
		}
		w.Divider()
	}

	b.footer(w, c)
	return w.Finish()
}

// Ongoing builds the ongoing management report.
func (b *Builder) Ongoing(c *claim.PatientCase) (*pdf.Document, error) {
	return b.ongoing(c, b.now())
}

func (b *Builder) ongoing(c *claim.PatientCase, at time.Time) (*pdf.Document, error) {
	const title = "Ongoing Management Report"
	w := b.writer(title, at)
	header(w, title, at)
	w.Divider()

	w.Subtitle("Patient Information")
	w.Field("Name: ", c.PatientName, 5)
	w.Field("Patient ID: ", c.PatientID, 5)
	w.Field("Condition: ", c.Condition, 5)
	w.Field("ICD-10: ", c.ICDCode, 5)
	section(w)

	if len(c.OngoingTreatments) > 0 {
		w.Subtitle("Ongoing Management Basket")
		basketItems(w, c.OngoingTreatments)
	}
	return w.Finish()
}

// MedicationReport builds the follow-up report for r.
func (b *Builder) MedicationReport(c *claim.PatientCase, r claim.MedicationReport) (*pdf.Document, error) {
	return b.medicationReport(c, r, b.now())
}

func (b *Builder) medicationReport(c *claim.PatientCase, r claim.MedicationReport, at time.Time) (*pdf.Document, error) {
	const title = "Medication Report"
	w := b.writer(title, at)
	header(w, title, at)
	w.Divider()

	w.Subtitle("Patient Information")
	w.Field("Name: ", c.PatientName, 5)
	w.Field("Patient ID: ", c.PatientID, 5)
	w.Field("Condition: ", c.Condition, 5)
	section(w)

	w.Subtitle("Current Medications")
	medicationItems(w, c.Medications, 3)
	w.Divider()

	w.Subtitle("Follow-up Notes")
	w.Text(r.FollowUpNotes, 5)
	section(w)

	if len(r.NewMedications) > 0 {
		w.Subtitle("New Prescribed Medications")
		medicationItems(w, r.NewMedications, 3)
		w.Divider()

		if r.Motivation != "" {
			w.Subtitle("Motivation for Medication Change")
			w.Text(r.Motivation, 5)
		}
	}
	return w.Finish()
}

// Referral builds a specialist referral. in must already be validated.
func (b *Builder) Referral(c *claim.PatientCase, in claim.ReferralInput) (*pdf.Document, error) {
	return b.referral(c, in, b.now())
}

func (b *Builder) referral(c *claim.PatientCase, in claim.ReferralInput, at time.Time) (*pdf.Document, error) {
	const title = "Specialist Referral"
	w := b.writer(title, at)
	header(w, title, at)
	w.Badge("Urgency: "+strings.ToUpper(string(in.Urgency)), urgencyColors[in.Urgency])
	w.Divider()

	w.Subtitle("Patient Information")
	w.Field("Name: ", c.PatientName, 5)
	w.Field("Patient ID: ", c.PatientID, 5)
	w.Field("Specialist Type: ", in.SpecialistType, 5)
	section(w)

	w.Subtitle("Diagnosis")
	w.Field("Condition: ", c.Condition, 5)
	w.Field("ICD-10 Code: ", c.ICDCode, 5)
	w.Text("Description: "+c.ICDDescription, 5)
	section(w)

	w.Subtitle("Original Clinical Note")
	w.Text(c.ClinicalNote, 5)
	section(w)

	if len(c.DiagnosticTreatments) > 0 {
		w.Subtitle("Diagnostic Tests Completed")
		for i, t := range c.DiagnosticTreatments {
			w.Text(fmt.Sprintf("%d. %s (%s)", i+1, t.Description, t.Code), 5)
			w.Field("  Completed: ", fmt.Sprintf("%dx", t.TimesCompleted), 10)
			if t.Documentation.Notes != "" {
				w.Text("  Findings: "+t.Documentation.Notes, 10)
			}
			attachmentLine(w, t.Documentation)
			w.Space(2)
		}
		w.Divider()
	}

	if len(c.OngoingTreatments) > 0 {
		w.Subtitle("Ongoing Management")
		for i, t := range c.OngoingTreatments {
			w.Text(fmt.Sprintf("%d. %s (%s)", i+1, t.Description, t.Code), 5)
			w.Field("  Frequency: ", fmt.Sprintf("%dx per year", t.TimesCompleted), 10)
			if t.Documentation.Notes != "" {
				w.Text("  Notes: "+t.Documentation.Notes, 10)
			}
			attachmentLine(w, t.Documentation)
			w.Space(2)
		}
		w.Divider()
	}

	if len(c.Medications) > 0 {
		w.Subtitle("Current Medications")
		medicationItems(w, c.Medications, 2)
		if c.MedicationNote != "" {
			w.Space(3)
			w.Text("Registration Note:", 5)
			w.Text(c.MedicationNote, 10)
		}
		w.Divider()
	}

	if len(c.MedicationReports) > 0 {
		w.Subtitle("Medication Updates History")
		for i, r := range c.MedicationReports {
			w.Text(fmt.Sprintf("Report #%d - %s", i+1, r.CreatedAt.Format(historyLayout)), 5)
			if r.FollowUpNotes != "" {
				w.Text("Follow-up: "+r.FollowUpNotes, 10)
			}
			if len(r.NewMedications) > 0 {
				w.Text("New Medications Added:", 10)
				for _, m := range r.NewMedications {
					w.Text(fmt.Sprintf("• %s (%s)", m.NameAndStrength, m.ActiveIngredient), 15)
				}
				if r.Motivation != "" {
					w.Text("Reason: "+r.Motivation, 10)
				}
			}
			w.Space(3)
		}
		w.Divider()
	}

	w.Subtitle("Referral Motivation")
	w.Text(in.Motivation, 5)
	return w.Finish()
}
