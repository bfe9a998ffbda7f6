package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

// Alignment values for Align
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character sizes for Size
const (
	SizeNormal = 0x00
	SizeDouble = 0x11
)

// Paper widths in characters
const (
	Width58mm = 32
	Width80mm = 48
)

// Document accumulates an ESC/POS job. Text helpers pad to the paper width
// counted in runes.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a job for paper that fits width characters per line
func NewDocument(width int) *Document {
	if width <= 0 {
		width = Width58mm
	}
	d := &Document{width: width}
	d.buf.Write([]byte{esc, '@'})
	return d
}

// Width is the number of characters per line
func (d *Document) Width() int { return d.width }

func (d *Document) Feed(n int) *Document {
	for range n {
		d.buf.WriteByte(lf)
	}
	return d
}

func (d *Document) Align(align byte) *Document {
	d.buf.Write([]byte{esc, 'a', align})
	return d
}

func (d *Document) Bold(on bool) *Document {
	var b byte
	if on {
		b = 1
	}
	d.buf.Write([]byte{esc, 'E', b})
	return d
}

func (d *Document) Size(size byte) *Document {
	d.buf.Write([]byte{gs, '!', size})
	return d
}

// Line writes s and a line feed, wrapping it at the paper width
func (d *Document) Line(s string) *Document {
	for _, part := range wrap(s, d.width) {
		d.buf.WriteString(part)
		d.buf.WriteByte(lf)
	}
	return d
}

// Rule prints a full-width line of ch
func (d *Document) Rule(ch rune) *Document {
	return d.Line(strings.Repeat(string(ch), d.width))
}

// Columns prints left and right on one line. A left side too long to share
// the line is wrapped and right goes on its last line.
func (d *Document) Columns(left, right string) *Document {
	rw := utf8.RuneCountInString(right)
	avail := d.width - rw - 1
	if avail < 1 {
		return d.Line(left).Line(right)
	}
	parts := wrap(left, avail)
	for _, p := range parts[:len(parts)-1] {
		d.buf.WriteString(p)
		d.buf.WriteByte(lf)
	}
	last := parts[len(parts)-1]
	d.buf.WriteString(last)
	d.buf.WriteString(strings.Repeat(" ", d.width-utf8.RuneCountInString(last)-rw))
	d.buf.WriteString(right)
	d.buf.WriteByte(lf)
	return d
}

// Cut feeds past the tear bar and partially cuts the paper
func (d *Document) Cut() *Document {
	d.Feed(3)
	d.buf.Write([]byte{gs, 'V', 0x01})
	return d
}

func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// wrap splits s into lines of at most width runes, breaking on spaces when it can
func wrap(s string, width int) []string {
	if utf8.RuneCountInString(s) <= width {
		return []string{s}
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 || len(lines) == 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
