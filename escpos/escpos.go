// Package escpos builds raw command streams for ESC/POS thermal printers.
package escpos

import "bytes"

// ESC/POS Commands
const (
	ESC byte = 0x1B
	GS  byte = 0x1D
	LF  byte = 0x0A
)

type Align byte

const (
	Left   Align = 0
	Center Align = 1
	Right  Align = 2
)

// Print modes for ESC ! n.
const (
	ModeNormal     byte = 0x00
	ModeEmphasized byte = 0x08
	ModeDoubleSize byte = 0x38 // emphasized, double height, double width
)

const SeparatorWidth = 32

type Builder struct {
	buf bytes.Buffer
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Init resets the printer (ESC @).
func (b *Builder) Init() *Builder {
	b.buf.Write([]byte{ESC, '@'})
	return b
}

func (b *Builder) Align(a Align) *Builder {
	b.buf.Write([]byte{ESC, 'a', byte(a)})
	return b
}

func (b *Builder) Mode(mode byte) *Builder {
	b.buf.Write([]byte{ESC, '!', mode})
	return b
}

// Text writes s as is. Callers fold text that must stay ASCII.
func (b *Builder) Text(s string) *Builder {
	b.buf.WriteString(s)
	return b
}

func (b *Builder) Line(s string) *Builder {
	b.buf.WriteString(s)
	b.buf.WriteByte(LF)
	return b
}

// Styled writes one line in mode and drops back to normal.
func (b *Builder) Styled(mode byte, s string) *Builder {
	return b.Mode(mode).Line(s).Mode(ModeNormal)
}

func (b *Builder) Separator() *Builder {
	return b.Line(string(bytes.Repeat([]byte{'-'}, SeparatorWidth)))
}

func (b *Builder) Feed(lines int) *Builder {
	for i := 0; i < lines; i++ {
		b.buf.WriteByte(LF)
	}
	return b
}

// PartialCut is GS V 66 0: feed to the cutter and leave one point uncut.
func (b *Builder) PartialCut() *Builder {
	b.buf.Write([]byte{GS, 'V', 0x42, 0x00})
	return b
}

func (b *Builder) Bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}
