package elf

import (
	"github.com/relfkit/relf/pkg/utils"
)

// Relative (load-bias) relocation type codes per processor supplement.
const (
	R_386_RELATIVE     uint32 = 8
	R_X86_64_RELATIVE  uint32 = 8
	R_ARM_RELATIVE     uint32 = 23
	R_AARCH64_RELATIVE uint32 = 1027
	R_CKCORE_RELATIVE  uint32 = 9
	R_HEX_RELATIVE     uint32 = 35
	R_PPC64_RELATIVE   uint32 = 22
	R_RISCV_RELATIVE   uint32 = 3
	R_390_RELATIVE     uint32 = 12
	R_SPARC_RELATIVE   uint32 = 22
)

var relativeRelocs = map[Arch]uint32{
	ArchX86:       R_386_RELATIVE,
	ArchX86_64:    R_X86_64_RELATIVE,
	ArchARM:       R_ARM_RELATIVE,
	ArchAArch64:   R_AARCH64_RELATIVE,
	ArchAArch64BE: R_AARCH64_RELATIVE,
	ArchCSKY:      R_CKCORE_RELATIVE,
	ArchHexagon:   R_HEX_RELATIVE,
	ArchPPC64:     R_PPC64_RELATIVE,
	ArchPPC64LE:   R_PPC64_RELATIVE,
	ArchRISCV32:   R_RISCV_RELATIVE,
	ArchRISCV64:   R_RISCV_RELATIVE,
	ArchSystemZ:   R_390_RELATIVE,
	ArchSparc:     R_SPARC_RELATIVE,
	ArchSparcEL:   R_SPARC_RELATIVE,
	ArchSparcV9:   R_SPARC_RELATIVE,
}

// HasRelativeRelocation reports whether the architecture defines a
// load-bias relocation at all.
func HasRelativeRelocation(arch Arch) bool {
	_, ok := relativeRelocs[arch]
	return ok
}

// RelativeRelocationType returns the relocation code used for load-bias
// fixups on arch. Asking for an architecture without the concept is a
// caller bug, not an input defect.
func RelativeRelocationType(arch Arch) uint32 {
	code, ok := relativeRelocs[arch]
	utils.Assertf(ok, "architecture %s has no relative relocation type", arch)
	return code
}
