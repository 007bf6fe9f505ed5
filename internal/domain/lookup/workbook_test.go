package lookup

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func csvRows(t *testing.T, s string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return rows
}

func buildWorkbook(t *testing.T) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheets := map[string]string{
		SheetConditions: conditionsCSV,
		SheetMedicines:  medicinesCSV,
		SheetBasket:     basketCSV,
	}
	for _, name := range []string{SheetConditions, SheetMedicines, SheetBasket} {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet: %v", err)
		}
		for i, row := range csvRows(t, sheets[name]) {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			vals := make([]interface{}, len(row))
			for j, v := range row {
				vals[j] = v
			}
			if err := f.SetSheetRow(name, cell, &vals); err != nil {
				t.Fatalf("SetSheetRow: %v", err)
			}
		}
	}
	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	return &buf
}

func TestReadWorkbook(t *testing.T) {
	s, err := ReadWorkbook(buildWorkbook(t))
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}

	conds, meds, basket := s.Stats()
	if conds != 3 || meds != 4 || basket != 5 {
		t.Errorf("expected 3/4/5 rows, got %d/%d/%d", conds, meds, basket)
	}

	rows := s.TreatmentBasketForCondition("Asthma")
	if len(rows) != 2 || rows[0].Ongoing.Covered != "3" {
		t.Errorf("expected workbook basket to de-duplicate like CSV, got %+v", rows)
	}
}

func TestReadWorkbook_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	f.Close()

	if _, err := ReadWorkbook(&buf); err == nil {
		t.Fatal("expected error for workbook without catalog sheets")
	}
}
