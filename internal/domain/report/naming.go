// Package report turns a patient case into the documents a practitioner
// submits: the initial claim, the ongoing management report, a medication
// report and a specialist referral. Each can be exported alone as a PDF or
// bundled with the case's attachments as a ZIP.
package report

import (
	"fmt"
	"time"

	"github.com/salulink/chronic/internal/platform/archive"
)

// Kind identifies a report variant and prefixes its file names.
type Kind string

const (
	KindClaim            Kind = "claim"
	KindOngoing          Kind = "ongoing"
	KindMedicationReport Kind = "medication-report"
	KindReferral         Kind = "referral"
)

// Kinds lists every variant.
var Kinds = []Kind{KindClaim, KindOngoing, KindMedicationReport, KindReferral}

// ParseKind validates a variant name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

const (
	ContentTypePDF = "application/pdf"
	ContentTypeZIP = "application/zip"

	dateStamp = "20060102"
)

// BaseName is "<kind>-<patientId>-<yyyyMMdd>". The patient id is sanitized
// so the name is always a single path element.
func BaseName(kind Kind, patientID string, at time.Time) string {
	return fmt.Sprintf("%s-%s-%s", kind, archive.SanitizeName(patientID), at.Format(dateStamp))
}

// PDFName is the document file name for an export at time at.
func PDFName(kind Kind, patientID string, at time.Time) string {
	return BaseName(kind, patientID, at) + ".pdf"
}

// ZIPName is the bundle file name for an export at time at.
func ZIPName(kind Kind, patientID string, at time.Time) string {
	return BaseName(kind, patientID, at) + ".zip"
}
