package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/salulink/chronic/internal/domain/claim"
)

const caseListSheet = "Cases"

// CaseListHeader is the header row of the case list workbook.
var CaseListHeader = []string{
	"Patient ID",
	"Patient Name",
	"Status",
	"Condition",
	"ICD-10 Code",
	"Medical Plan",
	"Diagnostic Items",
	"Ongoing Items",
	"Medications",
	"Medication Reports",
	"Referrals",
	"Updated",
}

var caseListWidths = []float64{14, 24, 12, 28, 12, 16, 16, 14, 13, 18, 10, 18}

func caseListRow(c *claim.PatientCase) []any {
	return []any{
		c.PatientID,
		c.PatientName,
		string(c.Status),
		c.Condition,
		c.ICDCode,
		string(c.Plan),
		len(c.DiagnosticTreatments),
		len(c.OngoingTreatments),
		len(c.Medications),
		len(c.MedicationReports),
		len(c.Referrals),
		c.UpdatedAt.Format("2006-01-02 15:04"),
	}
}

// CaseListWorkbook renders cases as a one-sheet XLSX workbook with a frozen,
// styled header row.
func CaseListWorkbook(cases []*claim.PatientCase) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(caseListSheet); err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(caseListSheet)
	if err != nil {
		return nil, fmt.Errorf("locating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	header := make([]any, len(CaseListHeader))
	for i, h := range CaseListHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(caseListSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(CaseListHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(caseListSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}

	for i, w := range caseListWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(caseListSheet, col, col, w); err != nil {
			return nil, fmt.Errorf("setting column width: %w", err)
		}
	}

	for i, c := range cases {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := caseListRow(c)
		if err := f.SetSheetRow(caseListSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(caseListSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freezing header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
