package elf

import (
	"bytes"
	"encoding/binary"

	"github.com/lunixbochs/struc"
	"github.com/relfkit/relf/pkg/utils"
)

var Magic = []byte{0x7f, 'E', 'L', 'F'}

const (
	IdentSize = 16

	ELFCLASS32 uint8 = 1
	ELFCLASS64 uint8 = 2

	ELFDATA2LSB uint8 = 1
	ELFDATA2MSB uint8 = 2
)

const (
	ET_NONE uint16 = 0
	ET_REL  uint16 = 1
	ET_EXEC uint16 = 2
	ET_DYN  uint16 = 3
	ET_CORE uint16 = 4
)

const (
	EM_NONE        uint16 = 0
	EM_SPARC       uint16 = 2
	EM_386         uint16 = 3
	EM_68K         uint16 = 4
	EM_IAMCU       uint16 = 6
	EM_MIPS        uint16 = 8
	EM_SPARC32PLUS uint16 = 18
	EM_PPC         uint16 = 20
	EM_PPC64       uint16 = 21
	EM_S390        uint16 = 22
	EM_ARM         uint16 = 40
	EM_SPARCV9     uint16 = 43
	EM_X86_64      uint16 = 62
	EM_AVR         uint16 = 83
	EM_MSP430      uint16 = 105
	EM_HEXAGON     uint16 = 164
	EM_AARCH64     uint16 = 183
	EM_AMDGPU      uint16 = 224
	EM_RISCV       uint16 = 243
	EM_LANAI       uint16 = 244
	EM_BPF         uint16 = 247
	EM_VE          uint16 = 251
	EM_CSKY        uint16 = 252
)

const (
	SHT_NULL         uint32 = 0
	SHT_PROGBITS     uint32 = 1
	SHT_SYMTAB       uint32 = 2
	SHT_STRTAB       uint32 = 3
	SHT_NOBITS       uint32 = 8
	SHT_DYNSYM       uint32 = 11
	SHT_SYMTAB_SHNDX uint32 = 18
)

const (
	SHN_UNDEF  uint16 = 0
	SHN_ABS    uint16 = 0xfff1
	SHN_COMMON uint16 = 0xfff2
	SHN_XINDEX uint16 = 0xffff

	// Section indices at or above SHN_LORESERVE do not name real sections.
	SHN_LORESERVE uint16 = 0xff00
)

const (
	PT_NULL    uint32 = 0
	PT_LOAD    uint32 = 1
	PT_DYNAMIC uint32 = 2
	PT_INTERP  uint32 = 3
)

const (
	STB_LOCAL  uint8 = 0
	STB_GLOBAL uint8 = 1
	STB_WEAK   uint8 = 2
)

const (
	STT_NOTYPE  uint8 = 0
	STT_OBJECT  uint8 = 1
	STT_FUNC    uint8 = 2
	STT_SECTION uint8 = 3
	STT_FILE    uint8 = 4
	STT_COMMON  uint8 = 5
	STT_TLS     uint8 = 6
)

// On-disk record sizes per word class.
const (
	EhdrSize32 = 52
	EhdrSize64 = 64
	ShdrSize32 = 40
	ShdrSize64 = 64
	PhdrSize32 = 32
	PhdrSize64 = 56
	SymSize32  = 16
	SymSize64  = 24
)

// Ehdr is the class-independent view of the ELF header. Offsets and
// sizes are widened to 64 bits; the raw on-disk layouts live below.
type Ehdr struct {
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint64
	PhOff     uint64
	ShOff     uint64
	Flags     uint32
	EhSize    uint16
	PhEntSize uint16
	PhNum     uint16
	ShEntSize uint16
	ShNum     uint16
	ShStrndx  uint16
}

type Shdr struct {
	Name      uint32
	Type      uint32
	Flags     uint64
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

type Phdr struct {
	Type     uint32
	Flags    uint32
	Offset   uint64
	VAddr    uint64
	PAddr    uint64
	FileSize uint64
	MemSize  uint64
	Align    uint64
}

type Sym struct {
	Name  uint32
	Info  uint8
	Other uint8
	Shndx uint16
	Val   uint64
	Size  uint64
}

func (s *Sym) IsUndef() bool {
	return s.Shndx == SHN_UNDEF
}

func (s *Sym) IsCommon() bool {
	return s.Shndx == SHN_COMMON
}

func (s *Sym) IsAbs() bool {
	return s.Shndx == SHN_ABS
}

func (s *Sym) Type() uint8 {
	return s.Info & 0xf
}

func (s *Sym) Bind() uint8 {
	return s.Info >> 4
}

func (s *Sym) IsWeak() bool {
	return s.Bind() == STB_WEAK
}

// Raw on-disk layouts. ehdrBody records start after the 16-byte
// identification block, which is parsed separately since its own bytes
// decide the order the rest is decoded with.

type ehdrBody32 struct {
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint32
	PhOff     uint32
	ShOff     uint32
	Flags     uint32
	EhSize    uint16
	PhEntSize uint16
	PhNum     uint16
	ShEntSize uint16
	ShNum     uint16
	ShStrndx  uint16
}

type ehdrBody64 struct {
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint64
	PhOff     uint64
	ShOff     uint64
	Flags     uint32
	EhSize    uint16
	PhEntSize uint16
	PhNum     uint16
	ShEntSize uint16
	ShNum     uint16
	ShStrndx  uint16
}

type shdr32 struct {
	Name      uint32
	Type      uint32
	Flags     uint32
	Addr      uint32
	Offset    uint32
	Size      uint32
	Link      uint32
	Info      uint32
	AddrAlign uint32
	EntSize   uint32
}

type shdr64 struct {
	Name      uint32
	Type      uint32
	Flags     uint64
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

type phdr32 struct {
	Type     uint32
	Offset   uint32
	VAddr    uint32
	PAddr    uint32
	FileSize uint32
	MemSize  uint32
	Flags    uint32
	Align    uint32
}

type phdr64 struct {
	Type     uint32
	Flags    uint32
	Offset   uint64
	VAddr    uint64
	PAddr    uint64
	FileSize uint64
	MemSize  uint64
	Align    uint64
}

type sym32 struct {
	Name  uint32
	Val   uint32
	Size  uint32
	Info  uint8
	Other uint8
	Shndx uint16
}

type sym64 struct {
	Name  uint32
	Info  uint8
	Other uint8
	Shndx uint16
	Val   uint64
	Size  uint64
}

// readRecord decodes one on-disk record from data under the given byte
// order. The span must have been bounds-checked already; a decode error
// here means a broken record definition, not bad input.
func readRecord[T any](data []byte, order binary.ByteOrder) T {
	var val T
	err := struc.UnpackWithOrder(bytes.NewReader(data), &val, order)
	utils.MustNo(err)
	return val
}

func (e ehdrBody32) norm() Ehdr {
	return Ehdr{
		Type: e.Type, Machine: e.Machine, Version: e.Version,
		Entry: uint64(e.Entry), PhOff: uint64(e.PhOff), ShOff: uint64(e.ShOff),
		Flags: e.Flags, EhSize: e.EhSize,
		PhEntSize: e.PhEntSize, PhNum: e.PhNum,
		ShEntSize: e.ShEntSize, ShNum: e.ShNum, ShStrndx: e.ShStrndx,
	}
}

func (e ehdrBody64) norm() Ehdr {
	return Ehdr{
		Type: e.Type, Machine: e.Machine, Version: e.Version,
		Entry: e.Entry, PhOff: e.PhOff, ShOff: e.ShOff,
		Flags: e.Flags, EhSize: e.EhSize,
		PhEntSize: e.PhEntSize, PhNum: e.PhNum,
		ShEntSize: e.ShEntSize, ShNum: e.ShNum, ShStrndx: e.ShStrndx,
	}
}

func (s shdr32) norm() Shdr {
	return Shdr{
		Name: s.Name, Type: s.Type, Flags: uint64(s.Flags),
		Addr: uint64(s.Addr), Offset: uint64(s.Offset), Size: uint64(s.Size),
		Link: s.Link, Info: s.Info,
		AddrAlign: uint64(s.AddrAlign), EntSize: uint64(s.EntSize),
	}
}

func (s shdr64) norm() Shdr {
	return Shdr(s)
}

func (p phdr32) norm() Phdr {
	return Phdr{
		Type: p.Type, Flags: p.Flags,
		Offset: uint64(p.Offset), VAddr: uint64(p.VAddr), PAddr: uint64(p.PAddr),
		FileSize: uint64(p.FileSize), MemSize: uint64(p.MemSize),
		Align: uint64(p.Align),
	}
}

func (p phdr64) norm() Phdr {
	return Phdr(p)
}

func (s sym32) norm() Sym {
	return Sym{
		Name: s.Name, Info: s.Info, Other: s.Other, Shndx: s.Shndx,
		Val: uint64(s.Val), Size: uint64(s.Size),
	}
}

func (s sym64) norm() Sym {
	return Sym(s)
}

// getName pulls a NUL-terminated string out of a string table blob.
func getName(strTab []byte, offset uint32) (string, bool) {
	if uint64(offset) >= uint64(len(strTab)) {
		return "", false
	}
	length := bytes.IndexByte(strTab[offset:], 0)
	if length < 0 {
		return "", false
	}
	return string(strTab[offset : offset+uint32(length)]), true
}
