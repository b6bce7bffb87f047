package elf

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/lunixbochs/struc"
)

func orderOf(data uint8) binary.ByteOrder {
	if data == ELFDATA2MSB {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func packLE(t *testing.T, v any) []byte {
	t.Helper()
	return packWith(t, v, binary.LittleEndian)
}

func packWith(t *testing.T, v any, order binary.ByteOrder) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := struc.PackWithOrder(&buf, v, order); err != nil {
		t.Fatalf("packing %T: %v", v, err)
	}
	return buf.Bytes()
}

func makeIdent(class, data uint8) []byte {
	ident := make([]byte, IdentSize)
	copy(ident, Magic)
	ident[eiClass] = class
	ident[eiData] = data
	ident[eiVersion] = 1
	return ident
}

// makeEhdr builds the zero-initialised relocatable-object header the
// classification tests probe: just an identity, nothing else.
func makeEhdr(t *testing.T, class, data uint8, machine uint16) []byte {
	t.Helper()
	buf := makeIdent(class, data)
	if class == ELFCLASS64 {
		body := &ehdrBody64{Type: ET_REL, Machine: machine, Version: 1, EhSize: EhdrSize64}
		return append(buf, packWith(t, body, orderOf(data))...)
	}
	body := &ehdrBody32{Type: ET_REL, Machine: machine, Version: 1, EhSize: EhdrSize32}
	return append(buf, packWith(t, body, orderOf(data))...)
}

// fixture assembles a 64-bit little-endian file image piece by piece.
type fixture struct {
	t   *testing.T
	buf []byte
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t}
}

func (fx *fixture) place(off uint64, data []byte) *fixture {
	end := off + uint64(len(data))
	if end > uint64(len(fx.buf)) {
		fx.buf = append(fx.buf, make([]byte, end-uint64(len(fx.buf)))...)
	}
	copy(fx.buf[off:end], data)
	return fx
}

func (fx *fixture) ehdr(typ uint16, phOff uint64, phNum uint16, shOff uint64, shNum, shStrndx uint16) *fixture {
	body := &ehdrBody64{
		Type: typ, Machine: EM_X86_64, Version: 1, EhSize: EhdrSize64,
		PhOff: phOff, PhEntSize: PhdrSize64, PhNum: phNum,
		ShOff: shOff, ShEntSize: ShdrSize64, ShNum: shNum, ShStrndx: shStrndx,
	}
	fx.place(0, makeIdent(ELFCLASS64, ELFDATA2LSB))
	fx.place(IdentSize, packLE(fx.t, body))
	return fx
}

func (fx *fixture) shdr(idx uint64, shOff uint64, s *shdr64) *fixture {
	return fx.place(shOff+idx*ShdrSize64, packLE(fx.t, s))
}

func (fx *fixture) phdr(idx uint64, phOff uint64, p *phdr64) *fixture {
	return fx.place(phOff+idx*PhdrSize64, packLE(fx.t, p))
}

func (fx *fixture) file() *File {
	fx.t.Helper()
	f, diag := NewFile("fixture", fx.buf)
	if diag != nil {
		fx.t.Fatalf("NewFile: %v", diag)
	}
	return f
}

func mustDiag(t *testing.T, diag *Diagnostic, kind DiagKind) *Diagnostic {
	t.Helper()
	if diag == nil {
		t.Fatal("expected a diagnostic, got none")
	}
	if diag.Kind != kind {
		t.Fatalf("diagnostic kind = %s, want %s (%s)", diag.Kind, kind, diag.Msg)
	}
	return diag
}
