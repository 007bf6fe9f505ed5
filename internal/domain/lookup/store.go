// Package lookup is the read-only reference catalog behind case editing:
// chronic conditions with their ICD-10 codes, the medicine list with
// plan-dependent coverage amounts, and the diagnostic and ongoing-management
// treatment baskets per condition. A Store is loaded once and only queried
// afterwards.
package lookup

import (
	"strconv"
	"strings"
)

// Condition maps a chronic condition to one ICD-10 code.
type Condition struct {
	Condition      string `json:"condition"`
	ICDCode        string `json:"icdCode"`
	ICDDescription string `json:"icdDescription"`
}

// Medicine is a catalog medicine for a condition. CDACore applies to the
// core-tier plans and CDAExecutive to the executive-tier plans; both are kept
// verbatim.
type Medicine struct {
	Condition        string `json:"condition"`
	CDACore          string `json:"cdaCore"`
	CDAExecutive     string `json:"cdaExecutive"`
	MedicineClass    string `json:"medicineClass"`
	ActiveIngredient string `json:"activeIngredient"`
	NameAndStrength  string `json:"medicineNameAndStrength"`
}

// BasketItem is one procedure of a sub-basket. Covered is the catalog's
// annual count token, e.g. "3".
type BasketItem struct {
	Description string `json:"description"`
	Code        string `json:"code"`
	Covered     string `json:"covered"`
}

// Key identifies an item by its trimmed description and code.
func (b BasketItem) Key() string {
	return strings.TrimSpace(b.Description) + "|" + strings.TrimSpace(b.Code)
}

// Complete reports whether both description and code are present.
func (b BasketItem) Complete() bool {
	return strings.TrimSpace(b.Description) != "" && strings.TrimSpace(b.Code) != ""
}

// BasketEntry is one row of the treatment basket sheet.
type BasketEntry struct {
	Condition   string     `json:"condition"`
	Diagnostic  BasketItem `json:"diagnosticBasket"`
	Ongoing     BasketItem `json:"ongoingManagementBasket"`
	Specialists string     `json:"specialists"`
}

// CoveredCount parses the leading integer of a covered token, returning 0
// when there is none.
func CoveredCount(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// Store answers catalog queries. It is safe for concurrent readers.
type Store struct {
	conditions []Condition
	medicines  []Medicine
	basket     []BasketEntry
}

// New builds a Store from already parsed tables.
func New(conditions []Condition, medicines []Medicine, basket []BasketEntry) *Store {
	return &Store{
		conditions: append([]Condition(nil), conditions...),
		medicines:  append([]Medicine(nil), medicines...),
		basket:     append([]BasketEntry(nil), basket...),
	}
}

// Stats returns the number of rows in each table.
func (s *Store) Stats() (conditions, medicines, basket int) {
	return len(s.conditions), len(s.medicines), len(s.basket)
}

// Conditions returns every condition row.
func (s *Store) Conditions() []Condition {
	return append([]Condition(nil), s.conditions...)
}

// ConditionsMatching returns the conditions whose name contains substr,
// ignoring case.
func (s *Store) ConditionsMatching(substr string) []Condition {
	needle := strings.ToLower(substr)
	var out []Condition
	for _, c := range s.conditions {
		if strings.Contains(strings.ToLower(c.Condition), needle) {
			out = append(out, c)
		}
	}
	return out
}

// ICDCodesForCondition returns the ICD rows of one condition.
func (s *Store) ICDCodesForCondition(condition string) []Condition {
	var out []Condition
	for _, c := range s.conditions {
		if strings.EqualFold(c.Condition, condition) {
			out = append(out, c)
		}
	}
	return out
}

// ICDCode returns the row for condition and code.
func (s *Store) ICDCode(condition, code string) (Condition, bool) {
	for _, c := range s.ICDCodesForCondition(condition) {
		if strings.EqualFold(strings.TrimSpace(c.ICDCode), strings.TrimSpace(code)) {
			return c, true
		}
	}
	return Condition{}, false
}

// MedicinesForCondition returns the catalog medicines of one condition.
func (s *Store) MedicinesForCondition(condition string) []Medicine {
	var out []Medicine
	for _, m := range s.medicines {
		if strings.EqualFold(m.Condition, condition) {
			out = append(out, m)
		}
	}
	return out
}

// MedicinesInClass narrows MedicinesForCondition to one class. An empty
// class returns every medicine.
func (s *Store) MedicinesInClass(condition, class string) []Medicine {
	all := s.MedicinesForCondition(condition)
	if class == "" {
		return all
	}
	var out []Medicine
	for _, m := range all {
		if m.MedicineClass == class {
			out = append(out, m)
		}
	}
	return out
}

// MedicineByName finds a medicine of condition by name and strength.
func (s *Store) MedicineByName(condition, nameAndStrength string) (Medicine, bool) {
	for _, m := range s.MedicinesForCondition(condition) {
		if m.NameAndStrength == nameAndStrength {
			return m, true
		}
	}
	return Medicine{}, false
}

// UniqueMedicineClasses returns the distinct non-empty classes of a
// condition's medicines in first-seen order.
func (s *Store) UniqueMedicineClasses(condition string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range s.MedicinesForCondition(condition) {
		if m.MedicineClass == "" || seen[m.MedicineClass] {
			continue
		}
		seen[m.MedicineClass] = true
		out = append(out, m.MedicineClass)
	}
	return out
}

func (s *Store) basketRows(condition string) []BasketEntry {
	var out []BasketEntry
	for _, b := range s.basket {
		if strings.EqualFold(b.Condition, condition) {
			out = append(out, b)
		}
	}
	return out
}

// dedupe keeps one entry per item key as chosen by pick. Entries with an
// incomplete item are dropped; on a key conflict the higher covered count
// wins and the key keeps its first-seen position.
func dedupe(rows []BasketEntry, pick func(BasketEntry) BasketItem) []BasketEntry {
	index := make(map[string]int)
	var out []BasketEntry
	for _, row := range rows {
		item := pick(row)
		if !item.Complete() {
			continue
		}
		key := item.Key()
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, row)
			continue
		}
		if CoveredCount(item.Covered) > CoveredCount(pick(out[i]).Covered) {
			out[i] = row
		}
	}
	return out
}

func pickOngoing(b BasketEntry) BasketItem    { return b.Ongoing }
func pickDiagnostic(b BasketEntry) BasketItem { return b.Diagnostic }

// TreatmentBasketForCondition returns the basket rows of a condition,
// de-duplicated by the ongoing-management (description, code) pair.
func (s *Store) TreatmentBasketForCondition(condition string) []BasketEntry {
	return dedupe(s.basketRows(condition), pickOngoing)
}

// OngoingBasketForCondition projects TreatmentBasketForCondition onto its
// ongoing-management items.
func (s *Store) OngoingBasketForCondition(condition string) []BasketItem {
	rows := s.TreatmentBasketForCondition(condition)
	out := make([]BasketItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Ongoing)
	}
	return out
}

// DiagnosticBasketForCondition returns the diagnostic items of a condition,
// de-duplicated the same way as the ongoing basket.
func (s *Store) DiagnosticBasketForCondition(condition string) []BasketItem {
	rows := dedupe(s.basketRows(condition), pickDiagnostic)
	out := make([]BasketItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Diagnostic)
	}
	return out
}

// FindBasketItem looks up an item of the given sub-basket by code, and by
// description too when one is given.
func (s *Store) FindBasketItem(condition string, diagnostic bool, code, description string) (BasketItem, bool) {
	items := s.OngoingBasketForCondition(condition)
	if diagnostic {
		items = s.DiagnosticBasketForCondition(condition)
	}
	for _, it := range items {
		if strings.TrimSpace(it.Code) != strings.TrimSpace(code) {
			continue
		}
		if description != "" && strings.TrimSpace(it.Description) != strings.TrimSpace(description) {
			continue
		}
		return it, true
	}
	return BasketItem{}, false
}
