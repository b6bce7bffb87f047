package elf

// Arch identifies a target instruction-set architecture. The set is
// closed: classification never yields a value outside this list.
type Arch uint8

const (
	ArchUnknown Arch = iota
	ArchX86
	ArchX86_64
	ArchARM
	ArchAArch64
	ArchAArch64BE
	ArchAVR
	ArchBPFEL
	ArchBPFEB
	ArchCSKY
	ArchHexagon
	ArchLanai
	ArchMIPS
	ArchMIPSEL
	ArchMIPS64
	ArchMIPS64EL
	ArchMSP430
	ArchPPC
	ArchPPC64
	ArchPPC64LE
	ArchRISCV32
	ArchRISCV64
	ArchSparc
	ArchSparcEL
	ArchSparcV9
	ArchSystemZ
	ArchVE
)

var archNames = map[Arch]string{
	ArchUnknown:   "unknown",
	ArchX86:       "x86",
	ArchX86_64:    "x86_64",
	ArchARM:       "arm",
	ArchAArch64:   "aarch64",
	ArchAArch64BE: "aarch64_be",
	ArchAVR:       "avr",
	ArchBPFEL:     "bpfel",
	ArchBPFEB:     "bpfeb",
	ArchCSKY:      "csky",
	ArchHexagon:   "hexagon",
	ArchLanai:     "lanai",
	ArchMIPS:      "mips",
	ArchMIPSEL:    "mipsel",
	ArchMIPS64:    "mips64",
	ArchMIPS64EL:  "mips64el",
	ArchMSP430:    "msp430",
	ArchPPC:       "ppc",
	ArchPPC64:     "ppc64",
	ArchPPC64LE:   "ppc64le",
	ArchRISCV32:   "riscv32",
	ArchRISCV64:   "riscv64",
	ArchSparc:     "sparc",
	ArchSparcEL:   "sparcel",
	ArchSparcV9:   "sparcv9",
	ArchSystemZ:   "systemz",
	ArchVE:        "ve",
}

func (a Arch) String() string {
	if name, ok := archNames[a]; ok {
		return name
	}
	return "unknown"
}

// Classify maps (machine code, word class, byte order) to the canonical
// format name and architecture. It is total: unknown and reserved
// machine codes resolve to a word-size-correct "elfNN-unknown" and
// ArchUnknown instead of failing.
//
// The format name is keyed primarily on the word class, so a machine
// that only exists at the other class degrades to elfNN-unknown, while
// the architecture is keyed on the machine code and keeps resolving.
// Downstream tooling matches on both strings, so the literal values
// matter.
func Classify(machine uint16, class, data uint8) (string, Arch) {
	return formatName(machine, class, data), classifyArch(machine, class, data)
}

func formatName(machine uint16, class, data uint8) string {
	little := data != ELFDATA2MSB

	if class == ELFCLASS64 {
		switch machine {
		case EM_386:
			return "elf64-i386"
		case EM_X86_64:
			return "elf64-x86-64"
		case EM_AARCH64:
			if little {
				return "elf64-littleaarch64"
			}
			return "elf64-bigaarch64"
		case EM_PPC64:
			if little {
				return "elf64-powerpcle"
			}
			return "elf64-powerpc"
		case EM_RISCV:
			return "elf64-littleriscv"
		case EM_S390:
			return "elf64-s390"
		case EM_SPARCV9:
			return "elf64-sparc"
		case EM_MIPS:
			return "elf64-mips"
		case EM_AMDGPU:
			return "elf64-amdgpu"
		case EM_BPF:
			return "elf64-bpf"
		case EM_VE:
			return "elf64-ve"
		}
		return "elf64-unknown"
	}

	switch machine {
	case EM_386:
		return "elf32-i386"
	case EM_IAMCU:
		return "elf32-iamcu"
	case EM_X86_64:
		return "elf32-x86-64"
	case EM_ARM:
		if little {
			return "elf32-littlearm"
		}
		return "elf32-bigarm"
	case EM_AVR:
		return "elf32-avr"
	case EM_HEXAGON:
		return "elf32-hexagon"
	case EM_LANAI:
		return "elf32-lanai"
	case EM_MIPS:
		return "elf32-mips"
	case EM_MSP430:
		return "elf32-msp430"
	case EM_PPC:
		return "elf32-powerpc"
	case EM_RISCV:
		return "elf32-littleriscv"
	case EM_CSKY:
		return "elf32-csky"
	case EM_SPARC, EM_SPARC32PLUS:
		return "elf32-sparc"
	case EM_AMDGPU:
		return "elf32-amdgpu"
	}
	return "elf32-unknown"
}

func classifyArch(machine uint16, class, data uint8) Arch {
	is64 := class == ELFCLASS64
	little := data != ELFDATA2MSB

	switch machine {
	case EM_386, EM_IAMCU:
		return ArchX86
	case EM_X86_64:
		return ArchX86_64
	case EM_AARCH64:
		if little {
			return ArchAArch64
		}
		return ArchAArch64BE
	case EM_ARM:
		return ArchARM
	case EM_AVR:
		return ArchAVR
	case EM_HEXAGON:
		return ArchHexagon
	case EM_LANAI:
		return ArchLanai
	case EM_MIPS:
		switch {
		case is64 && little:
			return ArchMIPS64EL
		case is64:
			return ArchMIPS64
		case little:
			return ArchMIPSEL
		default:
			return ArchMIPS
		}
	case EM_MSP430:
		return ArchMSP430
	case EM_PPC:
		return ArchPPC
	case EM_PPC64:
		if little {
			return ArchPPC64LE
		}
		return ArchPPC64
	case EM_RISCV:
		if is64 {
			return ArchRISCV64
		}
		return ArchRISCV32
	case EM_S390:
		return ArchSystemZ
	case EM_SPARC, EM_SPARC32PLUS:
		// SPARC32PLUS resolves exactly like SPARC.
		if little {
			return ArchSparcEL
		}
		return ArchSparc
	case EM_SPARCV9:
		return ArchSparcV9
	case EM_BPF:
		if little {
			return ArchBPFEL
		}
		return ArchBPFEB
	case EM_VE:
		return ArchVE
	case EM_AMDGPU:
		// Narrowing amdgcn vs r600 needs the OS ABI byte; the format
		// name stays amdgpu but the architecture is left unresolved.
		return ArchUnknown
	case EM_CSKY:
		return ArchCSKY
	}
	return ArchUnknown
}
