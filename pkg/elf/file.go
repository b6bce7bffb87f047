package elf

// File pairs an immutable byte buffer with a display label and the
// identity parsed out of it. The buffer is owned by the caller and is
// never copied or written to; every accessor hands out either typed
// values decoded from validated spans or a Diagnostic.
type File struct {
	Name     string
	Contents []byte

	Ident Ident
	Hdr   Ehdr

	// Section count and name-table index after extended numbering has
	// been resolved through the first section header.
	shNum    uint64
	shStrndx uint32
}

// NewFile parses the identification block and the ELF header and
// resolves extended section numbering. Section and segment contents are
// not touched here: a section header may declare any size it likes and
// the file still constructs, only later content access fails.
func NewFile(name string, contents []byte) (*File, *Diagnostic) {
	ident, diag := ParseIdent(contents)
	if diag != nil {
		return nil, diag
	}

	f := &File{Name: name, Contents: contents, Ident: ident}

	ehdrSize := EhdrSize32
	if ident.Is64() {
		ehdrSize = EhdrSize64
	}
	if len(contents) < ehdrSize {
		return nil, diagf(DiagTruncated, 0, uint64(len(contents)),
			"buffer of size 0x%x is smaller than an ELF header", len(contents))
	}

	order := ident.ByteOrder()
	body := contents[IdentSize:ehdrSize]
	if ident.Is64() {
		f.Hdr = readRecord[ehdrBody64](body, order).norm()
	} else {
		f.Hdr = readRecord[ehdrBody32](body, order).norm()
	}

	if f.Hdr.ShOff != 0 && uint64(f.Hdr.ShEntSize) != f.shdrEntSize() {
		return nil, diagf(DiagBadHeader, 0, 0,
			"invalid e_shentsize in ELF header: %d", f.Hdr.ShEntSize)
	}
	if f.Hdr.PhNum != 0 && uint64(f.Hdr.PhEntSize) != f.phdrEntSize() {
		return nil, diagf(DiagBadHeader, 0, 0,
			"invalid e_phentsize in ELF header: %d", f.Hdr.PhEntSize)
	}

	f.shNum = uint64(f.Hdr.ShNum)
	f.shStrndx = uint32(f.Hdr.ShStrndx)
	if f.Hdr.ShOff != 0 && (f.Hdr.ShNum == 0 || f.Hdr.ShStrndx == SHN_XINDEX) {
		shdr0, diag := f.readShdrAt(0)
		if diag != nil {
			return nil, diag
		}
		if f.Hdr.ShNum == 0 {
			f.shNum = shdr0.Size
		}
		if f.Hdr.ShStrndx == SHN_XINDEX {
			f.shStrndx = shdr0.Link
		}
	}

	return f, nil
}

// FormatName reports the canonical format tag, e.g. "elf64-x86-64".
func (f *File) FormatName() string {
	name, _ := Classify(f.Ident.Machine, f.Ident.Class, f.Ident.Data)
	return name
}

// Arch reports the classified target architecture.
func (f *File) Arch() Arch {
	_, arch := Classify(f.Ident.Machine, f.Ident.Class, f.Ident.Data)
	return arch
}

func (f *File) SectionCount() uint64 {
	return f.shNum
}

func (f *File) ProgramHeaderCount() uint64 {
	return uint64(f.Hdr.PhNum)
}

func (f *File) shdrEntSize() uint64 {
	if f.Ident.Is64() {
		return ShdrSize64
	}
	return ShdrSize32
}

func (f *File) phdrEntSize() uint64 {
	if f.Ident.Is64() {
		return PhdrSize64
	}
	return PhdrSize32
}

func (f *File) symEntSize() uint64 {
	if f.Ident.Is64() {
		return SymSize64
	}
	return SymSize32
}

// SectionData returns the bytes a section header points at, validated
// against the section's own declared extent. SHT_NOBITS occupies no
// file space and yields nil.
func (f *File) SectionData(idx uint32) ([]byte, *Diagnostic) {
	sec, diag := f.SectionHeader(idx)
	if diag != nil {
		return nil, diag
	}
	if sec.Type == SHT_NOBITS {
		return nil, nil
	}

	end, ok := checkedEnd(sec.Offset, sec.Size, uint64(len(f.Contents)))
	if !ok {
		return nil, diagf(DiagExtentViolation, sec.Offset, sec.Size,
			"section [index %d] has a sh_offset (0x%x) + sh_size (0x%x) that is greater than the file size (0x%x)",
			idx, sec.Offset, sec.Size, len(f.Contents))
	}
	return f.Contents[sec.Offset:end], nil
}

// SectionName resolves a section's name through the section name string
// table.
func (f *File) SectionName(idx uint32) (string, *Diagnostic) {
	sec, diag := f.SectionHeader(idx)
	if diag != nil {
		return "", diag
	}
	strTab, diag := f.SectionData(f.shStrndx)
	if diag != nil {
		return "", diag
	}
	name, ok := getName(strTab, sec.Name)
	if !ok {
		return "", diagf(DiagBadString, uint64(sec.Name), 0,
			"section [index %d] has an invalid sh_name (0x%x) offset which goes past the end of the section name string table",
			idx, sec.Name)
	}
	return name, nil
}
