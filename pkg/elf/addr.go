package elf

import (
	"math/bits"
	"sort"

	"github.com/apex/log"

	"github.com/relfkit/relf/pkg/utils"
)

// WarnFunc receives non-fatal anomaly reports. ToMappedOffset invokes
// it at most once per call.
type WarnFunc func(msg string)

// ToMappedOffset translates a virtual address to the file offset backing
// it by searching the loadable segments. Segments are expected to come
// sorted ascending by p_vaddr; when they are not, the lookup still
// succeeds over a sorted copy and warn is invoked exactly once for the
// call. A nil warn falls back to the package logger. The returned
// offset is validated against the buffer before it is handed back.
func (f *File) ToMappedOffset(addr uint64, warn WarnFunc) (uint64, *Diagnostic) {
	if warn == nil {
		warn = func(msg string) { log.WithField("file", f.Name).Warn(msg) }
	}

	phdrs, diag := f.ProgramHeaders()
	if diag != nil {
		return 0, diag
	}

	loads := utils.RemoveIf(phdrs, func(phdr Phdr) bool {
		return phdr.Type != PT_LOAD
	})

	byVAddr := func(i, j int) bool { return loads[i].VAddr < loads[j].VAddr }
	if !sort.SliceIsSorted(loads, byVAddr) {
		warn("loadable segments are unsorted by virtual address")
		sort.SliceStable(loads, byVAddr)
	}

	// Last load segment starting at or below addr.
	i := sort.Search(len(loads), func(i int) bool { return loads[i].VAddr > addr })
	if i == 0 {
		return 0, diagf(DiagUnmapped, addr, 0, "virtual address is not in any segment: 0x%x", addr)
	}
	seg := loads[i-1]

	delta := addr - seg.VAddr
	if delta >= seg.MemSize {
		return 0, diagf(DiagUnmapped, addr, 0, "virtual address is not in any segment: 0x%x", addr)
	}

	off, carry := bits.Add64(seg.Offset, delta, 0)
	if carry != 0 {
		return 0, diagf(DiagOverflow, seg.Offset, delta,
			"file offset for virtual address 0x%x overflows: p_offset 0x%x + 0x%x", addr, seg.Offset, delta)
	}
	if off >= uint64(len(f.Contents)) {
		return 0, diagf(DiagOutOfBounds, off, 1,
			"file offset 0x%x for virtual address 0x%x goes past the end of file", off, addr)
	}
	return off, nil
}
