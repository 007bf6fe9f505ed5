package lookup

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet names used when the catalog ships as a single workbook.
const (
	SheetConditions = "Chronic Conditions"
	SheetMedicines  = "Medicine List"
	SheetBasket     = "Treatment Basket"
)

// LoadWorkbook builds a Store from an XLSX workbook holding the three source
// sheets.
func LoadWorkbook(path string) (*Store, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return fromWorkbook(f)
}

// ReadWorkbook is LoadWorkbook over an already open stream.
func ReadWorkbook(r io.Reader) (*Store, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return fromWorkbook(f)
}

func fromWorkbook(f *excelize.File) (*Store, error) {
	var sheets [3][][]string
	for i, name := range []string{SheetConditions, SheetMedicines, SheetBasket} {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		sheets[i] = rows
	}
	return fromRows(sheets[0], sheets[1], sheets[2])
}
