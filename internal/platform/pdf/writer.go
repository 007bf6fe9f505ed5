package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

var ErrFinished = errors.New("document already finished")

// Kind names a placed unit.
type Kind string

const (
	KindTitle    Kind = "title"
	KindSubtitle Kind = "subtitle"
	KindText     Kind = "text"
	KindField    Kind = "field"
	KindDivider  Kind = "divider"
	KindBadge    Kind = "badge"
	KindFooter   Kind = "footer"
)

// Placement records where a unit was drawn. Y is the top of the reserved
// space; Height is the space the unit reserved.
type Placement struct {
	Kind   Kind
	Page   int
	Y      float64
	Height float64
	Text   string
}

// RGB is a fill or text colour.
type RGB struct {
	R, G, B int
}

// Options configure a Writer.
type Options struct {
	PageSize  string
	Margin    float64
	Creator   string
	Title     string
	CreatedAt time.Time
}

// Writer draws units onto an fpdf document.
type Writer struct {
	pdf        *fpdf.Fpdf
	frame      Frame
	cursor     Cursor
	tr         func(string) string
	placements []Placement
	finished   bool
}

// NewWriter opens a document with one empty page.
func NewWriter(opts Options) *Writer {
	if opts.PageSize == "" {
		opts.PageSize = "A4"
	}
	if opts.Margin <= 0 {
		opts.Margin = 20
	}
	doc := fpdf.New("P", "mm", opts.PageSize, "")
	doc.SetMargins(opts.Margin, opts.Margin, opts.Margin)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCompression(true)
	if opts.Creator != "" {
		doc.SetCreator(opts.Creator, true)
	}
	if opts.Title != "" {
		doc.SetTitle(opts.Title, true)
	}
	if !opts.CreatedAt.IsZero() {
		doc.SetCreationDate(opts.CreatedAt)
	}
	doc.AddPage()

	w, h := doc.GetPageSize()
	return &Writer{
		pdf:    doc,
		frame:  Frame{Width: w, Height: h, Margin: opts.Margin},
		cursor: Cursor{Y: opts.Margin, Page: 1},
		tr:     doc.UnicodeTranslatorFromDescriptor(""),
	}
}

// Frame returns the page geometry.
func (w *Writer) Frame() Frame { return w.frame }

// Cursor returns the current write position.
func (w *Writer) Cursor() Cursor { return w.cursor }

func (w *Writer) reserve(h float64) {
	next, broke := w.frame.Reserve(w.cursor, h)
	if broke {
		w.pdf.AddPage()
	}
	w.cursor = next
}

func (w *Writer) place(kind Kind, h float64, text string) {
	w.placements = append(w.placements, Placement{
		Kind:   kind,
		Page:   w.cursor.Page,
		Y:      w.cursor.Y,
		Height: h,
		Text:   text,
	})
}

func (w *Writer) font(style string, size float64) {
	w.pdf.SetFont("Helvetica", style, size)
}

// Title draws an 18pt bold heading.
func (w *Writer) Title(text string) {
	w.reserve(titleHeight)
	w.place(KindTitle, titleHeight, text)
	w.font("B", 18)
	w.pdf.Text(w.frame.Margin, w.cursor.Y, w.tr(text))
	w.cursor = w.cursor.Advance(titleHeight)
}

// Subtitle draws a 14pt bold section heading.
func (w *Writer) Subtitle(text string) {
	w.reserve(subtitleHeight)
	w.place(KindSubtitle, subtitleHeight, text)
	w.font("B", 14)
	w.pdf.Text(w.frame.Margin, w.cursor.Y, w.tr(text))
	w.cursor = w.cursor.Advance(subtitleStep)
}

// Text draws 11pt body text wrapped to the printable width less indent.
// Each wrapped line is its own unit.
func (w *Writer) Text(text string, indent float64) {
	w.font("", 11)
	x := w.frame.Margin + indent
	for _, line := range w.wrap(text, w.frame.PrintableWidth()-indent) {
		w.reserve(lineHeight)
		w.place(KindText, lineHeight, line.text)
		w.pdf.Text(x, w.cursor.Y, line.encoded)
		w.cursor = w.cursor.Advance(lineStep)
	}
}

type wrappedLine struct {
	text    string
	encoded string
}

// wrap splits text for the current font. The cp1252 translation maps each
// rune to one byte, so encoded offsets index the rune slice of the source.
func (w *Writer) wrap(text string, width float64) []wrappedLine {
	text = strings.ReplaceAll(text, "\r", "")
	runes := []rune(text)
	encoded := w.tr(text)

	var out []wrappedLine
	pos := 0
	for _, l := range w.pdf.SplitLines([]byte(encoded), width) {
		line := string(l)
		idx := strings.Index(encoded[pos:], line)
		if idx < 0 {
			out = append(out, wrappedLine{text: line, encoded: line})
			continue
		}
		start := pos + idx
		end := start + len(line)
		out = append(out, wrappedLine{text: string(runes[start:end]), encoded: line})
		pos = end
	}
	if len(out) == 0 {
		out = []wrappedLine{{}}
	}
	return out
}

// Field draws a bold label followed by a normal-weight value on one line.
func (w *Writer) Field(label, value string, indent float64) {
	w.reserve(fieldHeight)
	w.place(KindField, fieldHeight, label+value)
	x := w.frame.Margin + indent
	l := w.tr(label)
	w.font("B", 11)
	w.pdf.Text(x, w.cursor.Y, l)
	labelWidth := w.pdf.GetStringWidth(l)
	w.font("", 11)
	w.pdf.Text(x+labelWidth+2, w.cursor.Y, w.tr(value))
	w.cursor = w.cursor.Advance(fieldHeight)
}

// Divider draws a light grey rule across the printable width.
func (w *Writer) Divider() {
	w.reserve(dividerHeight)
	w.place(KindDivider, dividerHeight, "")
	w.pdf.SetDrawColor(200, 200, 200)
	w.pdf.Line(w.frame.Margin, w.cursor.Y, w.frame.Width-w.frame.Margin, w.cursor.Y)
	w.cursor = w.cursor.Advance(dividerStep)
}

// Space moves the cursor without drawing.
func (w *Writer) Space(dy float64) {
	w.cursor = w.cursor.Advance(dy)
}

// Badge draws text on a filled box.
func (w *Writer) Badge(text string, fill RGB) {
	w.reserve(badgeHeight)
	w.place(KindBadge, badgeHeight, text)
	w.pdf.SetFillColor(fill.R, fill.G, fill.B)
	w.pdf.Rect(w.frame.Margin, w.cursor.Y, badgeBoxWidth, badgeBoxHeight, "F")
	w.font("", 11)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Text(w.frame.Margin+2, w.cursor.Y+6, w.tr(text))
	w.cursor = w.cursor.Advance(badgeHeight)
}

// Footer writes small grey lines at a fixed offset from the bottom of the
// current page. It does not move the cursor or break the page.
func (w *Writer) Footer(lines ...string) {
	y := w.frame.Height - footerOffset
	w.font("", 9)
	w.pdf.SetTextColor(150, 150, 150)
	for i, line := range lines {
		ly := y + float64(i)*footerStep
		w.placements = append(w.placements, Placement{
			Kind: KindFooter, Page: w.cursor.Page, Y: ly, Text: line,
		})
		w.pdf.Text(w.frame.Margin, ly, w.tr(line))
	}
	w.pdf.SetTextColor(0, 0, 0)
}

// Finish renders the document. The writer cannot be used afterwards.
func (w *Writer) Finish() (*Document, error) {
	if w.finished {
		return nil, ErrFinished
	}
	w.finished = true

	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return &Document{
		data:       buf.Bytes(),
		pages:      w.pdf.PageCount(),
		placements: w.placements,
	}, nil
}

// Document is a rendered PDF with its layout record.
type Document struct {
	data       []byte
	pages      int
	placements []Placement
}

// Bytes returns the encoded PDF.
func (d *Document) Bytes() []byte { return d.data }

// WriteTo writes the encoded PDF to out.
func (d *Document) WriteTo(out io.Writer) (int64, error) {
	n, err := out.Write(d.data)
	return int64(n), err
}

// Pages returns the page count.
func (d *Document) Pages() int { return d.pages }

// Placements returns every drawn unit in drawing order.
func (d *Document) Placements() []Placement {
	return append([]Placement(nil), d.placements...)
}
