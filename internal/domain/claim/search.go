package claim

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey orders a case list.
type SortKey string

const (
	SortByDate      SortKey = "date"
	SortByName      SortKey = "name"
	SortByCondition SortKey = "condition"
)

// CaseQuery filters a case list. Zero values match everything.
type CaseQuery struct {
	Term   string
	Status Status
}

// Matches reports whether c satisfies q. The term is matched
// case-insensitively against patient name, patient id, condition and ICD code.
func (q CaseQuery) Matches(c *PatientCase) bool {
	if q.Status != "" && c.Status != q.Status {
		return false
	}
	if q.Term == "" {
		return true
	}
	term := strings.ToLower(q.Term)
	for _, field := range []string{c.PatientName, c.PatientID, c.Condition, c.ICDCode} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Filter returns the cases matching q, in input order.
func Filter(cases []*PatientCase, q CaseQuery) []*PatientCase {
	out := make([]*PatientCase, 0, len(cases))
	for _, c := range cases {
		if q.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// Sort orders cases in place. Dates sort newest first; names and conditions
// use English collation.
func Sort(cases []*PatientCase, key SortKey) {
	switch key {
	case SortByName, SortByCondition:
		col := collate.New(language.English, collate.IgnoreCase)
		field := func(c *PatientCase) string { return c.PatientName }
		if key == SortByCondition {
			field = func(c *PatientCase) string { return c.Condition }
		}
		sort.SliceStable(cases, func(i, j int) bool {
			return col.CompareString(field(cases[i]), field(cases[j])) < 0
		})
	default:
		sort.SliceStable(cases, func(i, j int) bool {
			return cases[i].UpdatedAt.After(cases[j].UpdatedAt)
		})
	}
}

// ParseSortKey maps a flag value to a SortKey, defaulting to date.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByName, SortByCondition:
		return SortKey(s)
	}
	return SortByDate
}
