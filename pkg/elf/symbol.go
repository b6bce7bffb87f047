package elf

import (
	"fmt"
)

// SymFlags is a bitmask of derived symbol properties.
type SymFlags uint32

const (
	SymFlagUndefined SymFlags = 1 << iota
	SymFlagGlobal
	SymFlagWeak
	SymFlagAbsolute
	SymFlagCommon
	SymFlagThreadLocal
	SymFlagFormatSpecific
)

// sectionEntry resolves entry idx with entSize-byte entries inside the
// content of the section at secIdx. The whole-file check runs first and
// produces the canonical "unable to access section [index N] data"
// diagnostic; a range that fits the file but leaves the section's own
// declared extent is a separate, equally precise failure. Every symbol
// query below terminates at this one check, so they all report the same
// root cause for the same broken index.
func (f *File) sectionEntry(secIdx uint32, sec *Shdr, idx uint32, entSize uint64) ([]byte, *Diagnostic) {
	desc := fmt.Sprintf("section [index %d] data", secIdx)
	data, pos, diag := f.entrySpan(sec.Offset, entSize, idx, desc)
	if diag != nil {
		return nil, diag
	}

	rel := uint64(idx) * entSize // entrySpan already ruled out overflow
	if end, ok := checkedEnd(rel, entSize, sec.Size); !ok || end > sec.Size {
		return nil, diagf(DiagExtentViolation, pos, entSize,
			"unable to access %s at 0x%x: entry %d is past the declared section end (sh_size: 0x%x)",
			desc, pos, idx, sec.Size)
	}
	return data, nil
}

// SymbolEntry fetches one raw symbol table entry. Index 0 is the
// reserved null symbol and resolves without touching the buffer.
func (f *File) SymbolEntry(secIdx, idx uint32) (Sym, *Diagnostic) {
	sec, diag := f.SectionHeader(secIdx)
	if diag != nil {
		return Sym{}, diag
	}
	if idx == 0 {
		return Sym{}, nil
	}

	data, diag := f.sectionEntry(secIdx, &sec, idx, f.symEntSize())
	if diag != nil {
		return Sym{}, diag
	}
	if f.Ident.Is64() {
		return readRecord[sym64](data, f.Ident.ByteOrder()).norm(), nil
	}
	return readRecord[sym32](data, f.Ident.ByteOrder()).norm(), nil
}

// SymbolName resolves the entry's name through the string table the
// symbol table links to.
func (f *File) SymbolName(secIdx, idx uint32) (string, *Diagnostic) {
	sym, diag := f.SymbolEntry(secIdx, idx)
	if diag != nil {
		return "", diag
	}
	if sym.Name == 0 {
		return "", nil
	}

	sec, diag := f.SectionHeader(secIdx)
	if diag != nil {
		return "", diag
	}
	strTab, diag := f.SectionData(sec.Link)
	if diag != nil {
		return "", diag
	}
	name, ok := getName(strTab, sym.Name)
	if !ok {
		return "", diagf(DiagBadString, uint64(sym.Name), 0,
			"st_name (0x%x) is past the end of the string table of size 0x%x", sym.Name, len(strTab))
	}
	return name, nil
}

// SymbolSection reports the index of the section the symbol is defined
// in. Reserved indices (SHN_UNDEF, SHN_ABS, SHN_COMMON) are returned
// as-is; SHN_XINDEX is resolved through the paired SHT_SYMTAB_SHNDX
// section.
func (f *File) SymbolSection(secIdx, idx uint32) (uint32, *Diagnostic) {
	sym, diag := f.SymbolEntry(secIdx, idx)
	if diag != nil {
		return 0, diag
	}
	if sym.Shndx != SHN_XINDEX {
		if sym.Shndx != SHN_UNDEF && sym.Shndx < SHN_LORESERVE && uint64(sym.Shndx) >= f.shNum {
			return 0, diagf(DiagOutOfBounds, 0, 0,
				"symbol entry %d has an invalid section index %d: the file has %d section headers",
				idx, sym.Shndx, f.shNum)
		}
		return uint32(sym.Shndx), nil
	}

	shndxSecIdx, shndxSec, diag := f.findShndxSection(secIdx)
	if diag != nil {
		return 0, diag
	}
	data, diag := f.sectionEntry(shndxSecIdx, shndxSec, idx, 4)
	if diag != nil {
		return 0, diag
	}
	return f.Ident.ByteOrder().Uint32(data), nil
}

func (f *File) findShndxSection(symtabIdx uint32) (uint32, *Shdr, *Diagnostic) {
	for i := uint64(0); i < f.shNum; i++ {
		sec, diag := f.SectionHeader(uint32(i))
		if diag != nil {
			return 0, nil, diag
		}
		if sec.Type == SHT_SYMTAB_SHNDX && sec.Link == symtabIdx {
			return uint32(i), &sec, nil
		}
	}
	return 0, nil, diagf(DiagBadHeader, 0, 0,
		"symbol table [index %d] has an extended symbol index but no SHT_SYMTAB_SHNDX section links to it", symtabIdx)
}

// SymbolFlags derives the property bitmask from the raw entry.
func (f *File) SymbolFlags(secIdx, idx uint32) (SymFlags, *Diagnostic) {
	sym, diag := f.SymbolEntry(secIdx, idx)
	if diag != nil {
		return 0, diag
	}

	var flags SymFlags
	if sym.IsUndef() {
		flags |= SymFlagUndefined
	}
	if sym.Bind() != STB_LOCAL {
		flags |= SymFlagGlobal
	}
	if sym.IsWeak() {
		flags |= SymFlagWeak
	}
	if sym.IsAbs() {
		flags |= SymFlagAbsolute
	}
	if sym.IsCommon() {
		flags |= SymFlagCommon
	}
	if sym.Type() == STT_TLS {
		flags |= SymFlagThreadLocal
	}
	if sym.Type() == STT_FILE || sym.Type() == STT_SECTION {
		flags |= SymFlagFormatSpecific
	}
	return flags, nil
}

// SymbolType reports the STT_* type nibble.
func (f *File) SymbolType(secIdx, idx uint32) (uint8, *Diagnostic) {
	sym, diag := f.SymbolEntry(secIdx, idx)
	if diag != nil {
		return 0, diag
	}
	return sym.Type(), nil
}

// SymbolAddress reports the symbol's value.
func (f *File) SymbolAddress(secIdx, idx uint32) (uint64, *Diagnostic) {
	sym, diag := f.SymbolEntry(secIdx, idx)
	if diag != nil {
		return 0, diag
	}
	return sym.Val, nil
}
