package escpos

import (
	"bytes"
	"strings"
)

// builder accumulates the byte stream for one ticket. Text goes through
// Sanitize before it is measured or written so the column math counts
// exactly what the printer will render.
type builder struct {
	buf     bytes.Buffer
	profile Profile
}

func newBuilder(p Profile) *builder {
	return &builder{profile: p}
}

func (b *builder) raw(data []byte) {
	b.buf.Write(data)
}

func (b *builder) text(s string) {
	b.buf.WriteString(Sanitize(s))
}

func (b *builder) line(s string) {
	b.text(s)
	b.buf.WriteByte(NL)
}

func (b *builder) feed(n int) {
	for i := 0; i < n; i++ {
		b.buf.WriteByte(NL)
	}
}

func (b *builder) bold(on bool) {
	if on {
		b.raw(boldOn)
	} else {
		b.raw(boldOff)
	}
}

func (b *builder) boldLine(s string) {
	b.bold(true)
	b.line(s)
	b.bold(false)
}

func (b *builder) separator() {
	b.line(strings.Repeat("-", b.profile.Columns))
}

// twoColumns writes "label........value" padded to the full grid width.
// An over-long label is truncated; an over-long value wins the row.
func (b *builder) twoColumns(label, value string) {
	label = Sanitize(label)
	value = Sanitize(value)
	if len(value) >= b.profile.Columns {
		b.buf.WriteString(value[:b.profile.Columns])
		b.buf.WriteByte(NL)
		return
	}
	b.buf.WriteString(PadRight(label, b.profile.Columns-len(value)))
	b.buf.WriteString(value)
	b.buf.WriteByte(NL)
}

func (b *builder) bytes() []byte {
	return b.buf.Bytes()
}
