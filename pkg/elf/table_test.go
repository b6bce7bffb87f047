package elf

import (
	"strings"
	"testing"
)

func TestSectionHeaderIndexOutOfRange(t *testing.T) {
	shOff := uint64(0x40)
	fx := newFixture(t).
		ehdr(ET_REL, 0, 0, shOff, 2, 0).
		shdr(0, shOff, &shdr64{}).
		shdr(1, shOff, &shdr64{Type: SHT_PROGBITS})

	f := fx.file()

	diagCheck := func(idx uint32) {
		_, diag := f.SectionHeader(idx)
		mustDiag(t, diag, DiagOutOfBounds)
		if !strings.Contains(diag.Msg, "invalid section header index") {
			t.Errorf("unexpected message: %s", diag.Msg)
		}
	}
	diagCheck(2)
	diagCheck(0xFFFFFFFF)

	if _, diag := f.SectionHeader(1); diag != nil {
		t.Fatalf("SectionHeader(1): %v", diag)
	}
}

func TestProgramHeaderIndexOutOfRange(t *testing.T) {
	phOff := uint64(0x40)
	fx := newFixture(t).
		ehdr(ET_EXEC, phOff, 1, 0, 0, 0).
		phdr(0, phOff, &phdr64{Type: PT_LOAD, VAddr: 0x1000, Offset: 0x100, FileSize: 1, MemSize: 1})

	f := fx.file()

	_, diag := f.ProgramHeader(1)
	mustDiag(t, diag, DiagOutOfBounds)

	phdr, diag := f.ProgramHeader(0)
	if diag != nil {
		t.Fatalf("ProgramHeader(0): %v", diag)
	}
	if phdr.VAddr != 0x1000 {
		t.Errorf("p_vaddr = 0x%x, want 0x1000", phdr.VAddr)
	}
}

// The entry span check reports the computed offset, not a generic
// complaint, when the table itself sits past the end of file.
func TestEntrySpanReportsComputedOffset(t *testing.T) {
	fx := newFixture(t).ehdr(ET_EXEC, 0, 0, 0x10000, 2, 0)
	f := fx.file()

	_, diag := f.SectionHeader(1)
	mustDiag(t, diag, DiagOutOfBounds)
	wantOff := uint64(0x10000 + ShdrSize64)
	if diag.Off != wantOff {
		t.Errorf("diagnostic offset = 0x%x, want 0x%x", diag.Off, wantOff)
	}
	if !strings.Contains(diag.Msg, "0x10040") {
		t.Errorf("message does not carry the computed offset: %s", diag.Msg)
	}
	if !strings.Contains(diag.Msg, "past the end of file") {
		t.Errorf("unexpected message: %s", diag.Msg)
	}
}

func TestEntrySpanOverflow(t *testing.T) {
	buf := makeIdent(ELFCLASS64, ELFDATA2LSB)
	body := &ehdrBody64{
		Type: ET_REL, Machine: EM_X86_64, Version: 1, EhSize: EhdrSize64,
		ShOff: 0xFFFFFFFFFFFFFFC0, ShEntSize: ShdrSize64, ShNum: 4,
	}
	buf = append(buf, packLE(t, body)...)

	f, diag := NewFile("overflow", buf)
	if diag != nil {
		t.Fatalf("NewFile: %v", diag)
	}

	_, diag = f.SectionHeader(1)
	mustDiag(t, diag, DiagOverflow)
}

func TestSectionHeadersWalk(t *testing.T) {
	shOff := uint64(0x40)
	fx := newFixture(t).
		ehdr(ET_REL, 0, 0, shOff, 3, 0).
		shdr(0, shOff, &shdr64{}).
		shdr(1, shOff, &shdr64{Type: SHT_PROGBITS, Addr: 0x1000}).
		shdr(2, shOff, &shdr64{Type: SHT_STRTAB})

	shdrs, diag := fx.file().SectionHeaders()
	if diag != nil {
		t.Fatalf("SectionHeaders: %v", diag)
	}
	if len(shdrs) != 3 {
		t.Fatalf("len = %d, want 3", len(shdrs))
	}
	if shdrs[1].Addr != 0x1000 || shdrs[2].Type != SHT_STRTAB {
		t.Errorf("unexpected headers: %+v", shdrs)
	}
}

// Big-endian 32-bit headers decode through the same accessors.
func TestBigEndian32Headers(t *testing.T) {
	buf := makeIdent(ELFCLASS32, ELFDATA2MSB)
	body := &ehdrBody32{
		Type: ET_EXEC, Machine: EM_PPC, Version: 1, EhSize: EhdrSize32,
		PhOff: EhdrSize32, PhEntSize: PhdrSize32, PhNum: 1,
	}
	buf = append(buf, packWith(t, body, orderOf(ELFDATA2MSB))...)
	buf = append(buf, packWith(t, &phdr32{
		Type: PT_LOAD, Offset: 0x100, VAddr: 0x10000, FileSize: 0x10, MemSize: 0x10,
	}, orderOf(ELFDATA2MSB))...)
	buf = append(buf, make([]byte, 0x200)...)

	f, diag := NewFile("ppc", buf)
	if diag != nil {
		t.Fatalf("NewFile: %v", diag)
	}
	if f.FormatName() != "elf32-powerpc" || f.Arch() != ArchPPC {
		t.Fatalf("classified as (%s, %s)", f.FormatName(), f.Arch())
	}

	phdr, diag := f.ProgramHeader(0)
	if diag != nil {
		t.Fatalf("ProgramHeader(0): %v", diag)
	}
	if phdr.VAddr != 0x10000 || phdr.Offset != 0x100 {
		t.Errorf("decoded phdr = %+v", phdr)
	}

	off, diag := f.ToMappedOffset(0x10008, nil)
	if diag != nil {
		t.Fatalf("ToMappedOffset: %v", diag)
	}
	if off != 0x108 {
		t.Errorf("mapped offset = 0x%x, want 0x108", off)
	}
}
