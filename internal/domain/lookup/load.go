package lookup

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrMissingColumn = errors.New("required column missing")

// Column names of the source sheets.
const (
	colConditionName = "CHRONIC CONDITIONS"
	colICDCode       = "ICD-Code"
	colICDDesc       = "ICD-Code Description"

	colMedCondition = "CHRONIC DISEASE LIST CONDITION"
	colCDACore      = "CDA FOR CORE, PRIORITY AND SAVER PLANS"
	colCDAExecutive = "CDA FOR EXECUTIVE AND COMPREHENSIVE PLANS"
	colMedClass     = "MEDICINE CLASS"
	colIngredient   = "ACTIVE INGREDIENT"
	colMedName      = "MEDICINE NAME AND STRENGTH"

	colBasketCondition = "CONDITION"
	colDiagnostic      = "DIAGNOSTIC BASKET"
	colOngoing         = "ONGOING MANAGEMENT BASKET"
	colSpecialists     = ""
)

// record is one data row keyed by header name.
type record map[string]string

// table converts raw rows into records. Repeated header names get "_1",
// "_2", ... suffixes in order; blank rows are skipped.
func table(rows [][]string) ([]string, []record) {
	if len(rows) == 0 {
		return nil, nil
	}
	header := make([]string, len(rows[0]))
	seen := make(map[string]int)
	for i, h := range rows[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			header[i] = h + "_" + strconv.Itoa(n+1)
			continue
		}
		seen[h] = 0
		header[i] = h
	}

	var out []record
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		r := make(record, len(header))
		for i, h := range header {
			if i < len(row) {
				r[h] = row[i]
			}
		}
		out = append(out, r)
	}
	return header, out
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func requireColumns(sheet string, header []string, cols ...string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	for _, c := range cols {
		if !have[c] {
			return fmt.Errorf("%s: %w: %q", sheet, ErrMissingColumn, c)
		}
	}
	return nil
}

func parseConditions(rows [][]string) ([]Condition, error) {
	header, recs := table(rows)
	if err := requireColumns("conditions", header, colConditionName, colICDCode); err != nil {
		return nil, err
	}
	var out []Condition
	for _, r := range recs {
		if r[colConditionName] == "" || r[colICDCode] == "" {
			continue
		}
		out = append(out, Condition{
			Condition:      r[colConditionName],
			ICDCode:        r[colICDCode],
			ICDDescription: r[colICDDesc],
		})
	}
	return out, nil
}

func parseMedicines(rows [][]string) ([]Medicine, error) {
	header, recs := table(rows)
	if err := requireColumns("medicines", header, colMedCondition, colMedName); err != nil {
		return nil, err
	}
	var out []Medicine
	for _, r := range recs {
		if r[colMedCondition] == "" {
			continue
		}
		out = append(out, Medicine{
			Condition:        r[colMedCondition],
			CDACore:          r[colCDACore],
			CDAExecutive:     r[colCDAExecutive],
			MedicineClass:    r[colMedClass],
			ActiveIngredient: r[colIngredient],
			NameAndStrength:  r[colMedName],
		})
	}
	return out, nil
}

// parseBasket reads the treatment basket sheet. Its first data row describes
// the sub-columns and is skipped; CONDITION is only filled on the first row
// of each condition and carries forward.
func parseBasket(rows [][]string) ([]BasketEntry, error) {
	header, recs := table(rows)
	if err := requireColumns("basket", header, colBasketCondition, colDiagnostic, colOngoing); err != nil {
		return nil, err
	}
	if len(recs) > 0 {
		recs = recs[1:]
	}
	var out []BasketEntry
	current := ""
	for _, r := range recs {
		if c := r[colBasketCondition]; c != "" {
			current = c
		}
		if current == "" {
			continue
		}
		out = append(out, BasketEntry{
			Condition: current,
			Diagnostic: BasketItem{
				Description: r[colDiagnostic],
				Code:        r[colDiagnostic+"_1"],
				Covered:     r[colDiagnostic+"_2"],
			},
			Ongoing: BasketItem{
				Description: r[colOngoing],
				Code:        r[colOngoing+"_1"],
				Covered:     r[colOngoing+"_2"],
			},
			Specialists: r[colSpecialists],
		})
	}
	return out, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}

// LoadCSV builds a Store from the three CSV exports of the source sheets.
func LoadCSV(conditions, medicines, basket io.Reader) (*Store, error) {
	condRows, err := readCSV(conditions)
	if err != nil {
		return nil, fmt.Errorf("reading conditions: %w", err)
	}
	medRows, err := readCSV(medicines)
	if err != nil {
		return nil, fmt.Errorf("reading medicines: %w", err)
	}
	basketRows, err := readCSV(basket)
	if err != nil {
		return nil, fmt.Errorf("reading basket: %w", err)
	}
	return fromRows(condRows, medRows, basketRows)
}

func fromRows(condRows, medRows, basketRows [][]string) (*Store, error) {
	conds, err := parseConditions(condRows)
	if err != nil {
		return nil, err
	}
	meds, err := parseMedicines(medRows)
	if err != nil {
		return nil, err
	}
	basket, err := parseBasket(basketRows)
	if err != nil {
		return nil, err
	}
	return New(conds, meds, basket), nil
}

// LoadFiles opens and loads the three CSV files.
func LoadFiles(conditionsPath, medicinesPath, basketPath string) (*Store, error) {
	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	for _, p := range []string{conditionsPath, medicinesPath, basketPath} {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("opening lookup table: %w", err)
		}
		files = append(files, f)
	}
	return LoadCSV(files[0], files[1], files[2])
}
