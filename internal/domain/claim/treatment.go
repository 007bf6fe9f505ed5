package claim

import (
	"fmt"
	"strings"

	"github.com/salulink/chronic/internal/domain/lookup"
)

// TreatmentFromBasket builds a new entry from a catalog basket item. The
// annual cap is the leading integer of the item's covered count, or 1 when
// the catalog gives none.
func TreatmentFromBasket(item lookup.BasketItem) Treatment {
	maxCovered := lookup.CoveredCount(item.Covered)
	if maxCovered < 1 {
		maxCovered = 1
	}
	return Treatment{
		Description:    strings.TrimSpace(item.Description),
		Code:           strings.TrimSpace(item.Code),
		MaxCovered:     maxCovered,
		TimesCompleted: 1,
		Documentation:  Documentation{Attachments: []AttachmentRef{}},
	}
}

// SameEntry reports whether t and o describe the same basket entry.
func (t Treatment) SameEntry(o Treatment) bool {
	return strings.TrimSpace(t.Description) == strings.TrimSpace(o.Description) &&
		strings.TrimSpace(t.Code) == strings.TrimSpace(o.Code)
}

func clampTimes(n, maxCovered int) int {
	if n > maxCovered {
		n = maxCovered
	}
	if n < 1 {
		n = 1
	}
	return n
}

// HasTreatment reports whether kind already lists an entry with the same
// description and code.
func (c *PatientCase) HasTreatment(kind BasketKind, t Treatment) bool {
	list, err := c.Treatments(kind)
	if err != nil {
		return false
	}
	for _, existing := range list {
		if existing.SameEntry(t) {
			return true
		}
	}
	return false
}

// AddTreatment appends t to the kind basket. A duplicate (description, code)
// pair is rejected and the case is left unchanged.
func (c *PatientCase) AddTreatment(kind BasketKind, t Treatment) error {
	list, err := c.treatmentList(kind)
	if err != nil {
		return err
	}
	if c.HasTreatment(kind, t) {
		return fmt.Errorf("%w: %s (%s)", ErrDuplicateTreatment, strings.TrimSpace(t.Description), strings.TrimSpace(t.Code))
	}
	if t.MaxCovered < 1 {
		t.MaxCovered = 1
	}
	t.TimesCompleted = clampTimes(t.TimesCompleted, t.MaxCovered)
	t.Documentation = t.Documentation.clone()
	*list = append(*list, t)
	c.touch()
	return nil
}

// RemoveTreatment drops the entry at index together with its documentation.
func (c *PatientCase) RemoveTreatment(kind BasketKind, index int) error {
	list, err := c.treatmentList(kind)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*list) {
		return ErrIndexOutOfRange
	}
	*list = append((*list)[:index:index], (*list)[index+1:]...)
	c.touch()
	return nil
}

func (c *PatientCase) treatmentAt(kind BasketKind, index int) (*Treatment, error) {
	list, err := c.treatmentList(kind)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(*list) {
		return nil, ErrIndexOutOfRange
	}
	return &(*list)[index], nil
}

// SetTimesCompleted sets the completed count, clamped to [1, MaxCovered], and
// returns the value stored.
func (c *PatientCase) SetTimesCompleted(kind BasketKind, index, n int) (int, error) {
	t, err := c.treatmentAt(kind, index)
	if err != nil {
		return 0, err
	}
	t.TimesCompleted = clampTimes(n, t.MaxCovered)
	c.touch()
	return t.TimesCompleted, nil
}

// StepTimesCompleted moves the completed count by delta, clamped.
func (c *PatientCase) StepTimesCompleted(kind BasketKind, index, delta int) (int, error) {
	t, err := c.treatmentAt(kind, index)
	if err != nil {
		return 0, err
	}
	return c.SetTimesCompleted(kind, index, t.TimesCompleted+delta)
}

// SetTreatmentNotes replaces the documentation notes of an entry.
func (c *PatientCase) SetTreatmentNotes(kind BasketKind, index int, notes string) error {
	t, err := c.treatmentAt(kind, index)
	if err != nil {
		return err
	}
	t.Documentation.Notes = notes
	c.touch()
	return nil
}

// AttachFiles adds refs to an entry's documentation until max files are
// attached. It returns how many were added; when some did not fit the error
// is ErrTooManyAttachments.
func (c *PatientCase) AttachFiles(kind BasketKind, index, max int, refs ...AttachmentRef) (int, error) {
	t, err := c.treatmentAt(kind, index)
	if err != nil {
		return 0, err
	}
	added, err := t.Documentation.attach(max, refs)
	if added > 0 {
		c.touch()
	}
	return added, err
}

// RemoveAttachment drops one file from an entry's documentation.
func (c *PatientCase) RemoveAttachment(kind BasketKind, index, attIndex int) error {
	t, err := c.treatmentAt(kind, index)
	if err != nil {
		return err
	}
	if err := t.Documentation.remove(attIndex); err != nil {
		return err
	}
	c.touch()
	return nil
}

// RenameAttachment changes the base name of one file, keeping its extension.
func (c *PatientCase) RenameAttachment(kind BasketKind, index, attIndex int, newBase string) error {
	t, err := c.treatmentAt(kind, index)
	if err != nil {
		return err
	}
	if attIndex < 0 || attIndex >= len(t.Documentation.Attachments) {
		return ErrIndexOutOfRange
	}
	renamed, err := t.Documentation.Attachments[attIndex].Rename(newBase)
	if err != nil {
		return err
	}
	t.Documentation.Attachments[attIndex] = renamed
	c.touch()
	return nil
}

func (d *Documentation) attach(max int, refs []AttachmentRef) (int, error) {
	if max <= 0 {
		max = DefaultMaxAttachments
	}
	added := 0
	for _, ref := range refs {
		if len(d.Attachments) >= max {
			return added, fmt.Errorf("%w: maximum %d files allowed", ErrTooManyAttachments, max)
		}
		d.Attachments = append(d.Attachments, ref)
		added++
	}
	return added, nil
}

func (d *Documentation) remove(i int) error {
	if i < 0 || i >= len(d.Attachments) {
		return ErrIndexOutOfRange
	}
	d.Attachments = append(d.Attachments[:i:i], d.Attachments[i+1:]...)
	return nil
}
