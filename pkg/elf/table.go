package elf

import (
	"fmt"
	"math/bits"
)

// checkedEnd computes off+n and reports whether the whole range lies
// inside a buffer of bufLen bytes without the arithmetic wrapping.
func checkedEnd(off, n, bufLen uint64) (uint64, bool) {
	end, carry := bits.Add64(off, n, 0)
	if carry != 0 {
		return 0, false
	}
	return end, end <= bufLen
}

// entrySpan is the one bounds check every table walk funnels through:
// it places entry idx of a table at tableOff with entSize-byte entries,
// refusing both arithmetic overflow and any span leaving the buffer.
// desc names the entry for the diagnostic, e.g. "section [index 1]
// data"; the failure message and offset are shared by every accessor
// built on top, so independent queries for the same broken entry report
// the same root cause.
func (f *File) entrySpan(tableOff, entSize uint64, idx uint32, desc string) ([]byte, uint64, *Diagnostic) {
	hi, lo := bits.Mul64(uint64(idx), entSize)
	if hi != 0 {
		return nil, 0, diagf(DiagOverflow, tableOff, entSize,
			"unable to access %s: index %d with entry size 0x%x overflows the offset computation", desc, idx, entSize)
	}
	pos, carry := bits.Add64(tableOff, lo, 0)
	end, carry2 := bits.Add64(pos, entSize, 0)
	if carry != 0 || carry2 != 0 {
		return nil, 0, diagf(DiagOverflow, tableOff, entSize,
			"unable to access %s: index %d with entry size 0x%x overflows the offset computation", desc, idx, entSize)
	}
	if end > uint64(len(f.Contents)) {
		return nil, 0, diagf(DiagOutOfBounds, pos, entSize,
			"unable to access %s at 0x%x: offset goes past the end of file", desc, pos)
	}
	return f.Contents[pos:end], pos, nil
}

// readShdrAt decodes the section header at idx without consulting the
// resolved section count. NewFile needs it to read header zero before
// the count is known.
func (f *File) readShdrAt(idx uint32) (Shdr, *Diagnostic) {
	data, _, diag := f.entrySpan(f.Hdr.ShOff, f.shdrEntSize(), idx, sectionHeaderDesc(idx))
	if diag != nil {
		return Shdr{}, diag
	}
	if f.Ident.Is64() {
		return readRecord[shdr64](data, f.Ident.ByteOrder()).norm(), nil
	}
	return readRecord[shdr32](data, f.Ident.ByteOrder()).norm(), nil
}

func sectionHeaderDesc(idx uint32) string {
	return fmt.Sprintf("section header [index %d]", idx)
}

// SectionHeader returns section header idx, bounds-checked against both
// the declared table geometry and the buffer.
func (f *File) SectionHeader(idx uint32) (Shdr, *Diagnostic) {
	if uint64(idx) >= f.shNum {
		return Shdr{}, diagf(DiagOutOfBounds, f.Hdr.ShOff, f.shdrEntSize(),
			"invalid section header index %d: the file has %d section headers", idx, f.shNum)
	}
	return f.readShdrAt(idx)
}

// ProgramHeader returns program header idx, bounds-checked the same
// way.
func (f *File) ProgramHeader(idx uint32) (Phdr, *Diagnostic) {
	if uint64(idx) >= uint64(f.Hdr.PhNum) {
		return Phdr{}, diagf(DiagOutOfBounds, f.Hdr.PhOff, f.phdrEntSize(),
			"invalid program header index %d: the file has %d program headers", idx, f.Hdr.PhNum)
	}
	data, _, diag := f.entrySpan(f.Hdr.PhOff, f.phdrEntSize(), idx, fmt.Sprintf("program header [index %d]", idx))
	if diag != nil {
		return Phdr{}, diag
	}
	if f.Ident.Is64() {
		return readRecord[phdr64](data, f.Ident.ByteOrder()).norm(), nil
	}
	return readRecord[phdr32](data, f.Ident.ByteOrder()).norm(), nil
}

// ProgramHeaders walks the whole program header table.
func (f *File) ProgramHeaders() ([]Phdr, *Diagnostic) {
	phdrs := make([]Phdr, 0, f.Hdr.PhNum)
	for i := uint32(0); i < uint32(f.Hdr.PhNum); i++ {
		phdr, diag := f.ProgramHeader(i)
		if diag != nil {
			return nil, diag
		}
		phdrs = append(phdrs, phdr)
	}
	return phdrs, nil
}

// SectionHeaders walks the whole section header table.
func (f *File) SectionHeaders() ([]Shdr, *Diagnostic) {
	shdrs := make([]Shdr, 0, f.shNum)
	for i := uint64(0); i < f.shNum; i++ {
		shdr, diag := f.SectionHeader(uint32(i))
		if diag != nil {
			return nil, diag
		}
		shdrs = append(shdrs, shdr)
	}
	return shdrs, nil
}
