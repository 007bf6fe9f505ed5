// Package pdf writes paginated, text-first documents. Layout is tracked by a
// Cursor on a Frame; every atomic unit checks for a page break before it is
// drawn, so nothing is placed below the bottom margin.
package pdf

// Frame is the page geometry in millimetres.
type Frame struct {
	Width  float64
	Height float64
	Margin float64
}

// Bottom is the lowest Y an atomic unit may reach.
func (f Frame) Bottom() float64 {
	return f.Height - f.Margin
}

// PrintableWidth is the width between the side margins.
func (f Frame) PrintableWidth() float64 {
	return f.Width - 2*f.Margin
}

// Cursor is the vertical write position on a 1-based page.
type Cursor struct {
	Y    float64
	Page int
}

// Advance moves the cursor down by dy.
func (c Cursor) Advance(dy float64) Cursor {
	c.Y += dy
	return c
}

// Reserve makes room for a unit of height h. When the unit would cross the
// bottom margin the cursor moves to the top of the next page and Reserve
// reports true.
func (f Frame) Reserve(c Cursor, h float64) (Cursor, bool) {
	if c.Y+h > f.Bottom() {
		return Cursor{Y: f.Margin, Page: c.Page + 1}, true
	}
	return c, false
}

// Unit heights and advances in millimetres.
const (
	titleHeight    = 15
	subtitleHeight = 12
	subtitleStep   = 10
	lineHeight     = 8
	lineStep       = 7
	fieldHeight    = 8
	dividerHeight  = 5
	dividerStep    = 10
	badgeHeight    = 15
	badgeBoxWidth  = 40
	badgeBoxHeight = 8
	footerOffset   = 30
	footerStep     = 5
)
