package elf

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Byte offsets within the identification block.
const (
	eiClass   = 4
	eiData    = 5
	eiVersion = 6
)

// Ident is the file identity pulled from the fixed-offset bytes at the
// start of every ELF file: word class, byte order, object type and
// machine code. It is derived once and never changes.
type Ident struct {
	Class   uint8
	Data    uint8
	Type    uint16
	Machine uint16
}

func (id *Ident) ByteOrder() binary.ByteOrder {
	if id.Data == ELFDATA2MSB {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (id *Ident) Is64() bool {
	return id.Class == ELFCLASS64
}

func CheckMagic(contents []byte) bool {
	return bytes.HasPrefix(contents, Magic)
}

// ParseIdent validates the identification block and extracts the file
// identity. Each failure mode gets its own diagnostic: a buffer shorter
// than the block is not the same defect as a wrong magic.
func ParseIdent(contents []byte) (Ident, *Diagnostic) {
	if len(contents) < IdentSize {
		return Ident{}, diagf(DiagTruncated, 0, uint64(len(contents)),
			"buffer of size 0x%x is too small to hold an ELF identification block", len(contents))
	}
	if !CheckMagic(contents) {
		return Ident{}, diagf(DiagBadMagic, 0, 4, "bad ELF magic")
	}

	class := contents[eiClass]
	if class != ELFCLASS32 && class != ELFCLASS64 {
		return Ident{}, diagf(DiagBadClass, eiClass, 1, "invalid ELF class: %d", class)
	}

	data := contents[eiData]
	if data != ELFDATA2LSB && data != ELFDATA2MSB {
		return Ident{}, diagf(DiagBadEncoding, eiData, 1, "invalid ELF data encoding: %d", data)
	}

	if len(contents) < IdentSize+4 {
		return Ident{}, diagf(DiagTruncated, IdentSize, uint64(len(contents)),
			"buffer of size 0x%x is smaller than an ELF header", len(contents))
	}

	order := binary.LittleEndian.Uint16
	if data == ELFDATA2MSB {
		order = binary.BigEndian.Uint16
	}

	return Ident{
		Class:   class,
		Data:    data,
		Type:    order(contents[16:18]),
		Machine: order(contents[18:20]),
	}, nil
}

// ObjectTypeString names an e_type value the way readelf does.
func ObjectTypeString(typ uint16) string {
	switch typ {
	case ET_NONE:
		return "none"
	case ET_REL:
		return "relocatable"
	case ET_EXEC:
		return "executable"
	case ET_DYN:
		return "shared object"
	case ET_CORE:
		return "core"
	}
	return fmt.Sprintf("0x%x", typ)
}
