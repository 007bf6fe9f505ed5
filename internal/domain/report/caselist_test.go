package report

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/salulink/chronic/internal/domain/claim"
)

func TestCaseListWorkbook(t *testing.T) {
	c := seedCase(t)
	if err := c.SetStatus(claim.StatusOngoing); err != nil {
		t.Fatal(err)
	}

	data, err := CaseListWorkbook([]*claim.PatientCase{c})
	if err != nil {
		t.Fatalf("CaseListWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(caseListSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and one row, got %d rows", len(rows))
	}
	if !equalStrings(rows[0], CaseListHeader) {
		t.Errorf("unexpected header %v", rows[0])
	}
	row := rows[1]
	if row[0] != "P-100" || row[2] != "ongoing" || row[3] != "Asthma" {
		t.Errorf("unexpected row %v", row)
	}
	if row[6] != "1" || row[7] != "1" {
		t.Errorf("expected one item per basket, got %s/%s", row[6], row[7])
	}
	if names := f.GetSheetList(); len(names) != 1 || names[0] != caseListSheet {
		t.Errorf("expected only the %s sheet, got %v", caseListSheet, names)
	}
}

func TestCaseListWorkbook_Empty(t *testing.T) {
	data, err := CaseListWorkbook(nil)
	if err != nil {
		t.Fatalf("CaseListWorkbook: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(caseListSheet)
	if len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
}
