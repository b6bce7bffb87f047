package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/pkg/errors"
	"github.com/xyproto/env/v2"

	"github.com/relfkit/relf/pkg/elf"
)

var version string

type options struct {
	sections bool
	segments bool
	symbols  bool
	addrs    []uint64
}

func main() {
	log.SetHandler(cli.New(os.Stderr))
	if env.Bool("RELF_DEBUG") {
		log.SetLevel(log.DebugLevel)
	}

	opts := &options{}
	remaining := parseNonpositionalArgs(opts)

	if len(remaining) == 0 {
		fmt.Printf("Usage: %s [options] file...\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range remaining {
		if err := inspect(filename, opts); err != nil {
			log.WithError(err).Error(filename)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func inspect(filename string, opts *options) error {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "read")
	}

	file, diag := elf.NewFile(filename, contents)
	if diag != nil {
		return errors.Wrapf(diag, "parse (%s)", diag.Kind)
	}

	fmt.Printf("%s: %s %s, %s\n", file.Name, file.FormatName(), file.Arch(),
		elf.ObjectTypeString(file.Ident.Type))
	log.Debugf("machine 0x%x, %d sections, %d segments",
		file.Ident.Machine, file.SectionCount(), file.ProgramHeaderCount())

	if opts.sections {
		if err := printSections(file); err != nil {
			return err
		}
	}
	if opts.segments {
		if err := printSegments(file); err != nil {
			return err
		}
	}
	if opts.symbols {
		if err := printSymbols(file); err != nil {
			return err
		}
	}

	for _, addr := range opts.addrs {
		off, diag := file.ToMappedOffset(addr, nil)
		if diag != nil {
			log.WithField("addr", fmt.Sprintf("0x%x", addr)).Warn(diag.Msg)
			continue
		}
		fmt.Printf("  0x%x -> file offset 0x%x\n", addr, off)
	}
	return nil
}

func printSections(file *elf.File) error {
	for i := uint64(0); i < file.SectionCount(); i++ {
		shdr, diag := file.SectionHeader(uint32(i))
		if diag != nil {
			return diag
		}
		name, diag := file.SectionName(uint32(i))
		if diag != nil {
			name = fmt.Sprintf("<%s>", diag.Kind)
		}
		fmt.Printf("  [%2d] %-20s type 0x%-8x addr 0x%-10x off 0x%-8x size 0x%x\n",
			i, name, shdr.Type, shdr.Addr, shdr.Offset, shdr.Size)
	}
	return nil
}

func printSegments(file *elf.File) error {
	phdrs, diag := file.ProgramHeaders()
	if diag != nil {
		return diag
	}
	for i, phdr := range phdrs {
		fmt.Printf("  [%2d] type 0x%-8x vaddr 0x%-10x off 0x%-8x filesz 0x%-8x memsz 0x%x\n",
			i, phdr.Type, phdr.VAddr, phdr.Offset, phdr.FileSize, phdr.MemSize)
	}
	return nil
}

func printSymbols(file *elf.File) error {
	for i := uint64(0); i < file.SectionCount(); i++ {
		shdr, diag := file.SectionHeader(uint32(i))
		if diag != nil {
			return diag
		}
		if shdr.Type != elf.SHT_SYMTAB && shdr.Type != elf.SHT_DYNSYM {
			continue
		}

		entSize := shdr.EntSize
		if entSize == 0 {
			continue
		}
		count := shdr.Size / entSize
		for j := uint64(1); j < count; j++ {
			name, diag := file.SymbolName(uint32(i), uint32(j))
			if diag != nil {
				return diag
			}
			addr, diag := file.SymbolAddress(uint32(i), uint32(j))
			if diag != nil {
				return diag
			}
			fmt.Printf("  %016x %s\n", addr, name)
		}
	}
	return nil
}

func parseNonpositionalArgs(opts *options) []string {
	dashes := func(name string) []string {
		if len(name) == 1 {
			return []string{"-" + name}
		}
		return []string{"-" + name, "--" + name}
	}

	args := os.Args[1:]
	remaining := make([]string, 0)
	var arg string

	readArg := func(name string) bool {
		for _, opt := range dashes(name) {
			if args[0] == opt {
				if len(args) == 1 {
					log.Fatalf("option %s: argument missing", opt)
				}
				arg = args[1]
				args = args[2:]
				return true
			}

			prefix := opt
			if len(name) > 1 {
				prefix += "="
			}

			if strings.HasPrefix(args[0], prefix) {
				arg = args[0][len(prefix):]
				args = args[1:]
				return true
			}
		}
		return false
	}

	readFlag := func(name string) bool {
		for _, opt := range dashes(name) {
			if args[0] == opt {
				args = args[1:]
				return true
			}
		}
		return false
	}

	for len(args) > 0 {
		if readFlag("help") {
			fmt.Printf("Usage: %s [options] file...\n", os.Args[0])
			os.Exit(0)
		}

		if readFlag("v") || readFlag("version") {
			fmt.Printf("relf %s\n", version)
			os.Exit(0)
		} else if readFlag("S") || readFlag("sections") {
			opts.sections = true
		} else if readFlag("l") || readFlag("segments") {
			opts.segments = true
		} else if readFlag("s") || readFlag("symbols") {
			opts.symbols = true
		} else if readArg("a") || readArg("addr") {
			addr, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 64)
			if err != nil {
				log.Fatalf("bad address: %s", arg)
			}
			opts.addrs = append(opts.addrs, addr)
		} else {
			if args[0][0] == '-' {
				log.Fatalf("unknown command line option: %s", args[0])
			}
			remaining = append(remaining, args[0])
			args = args[1:]
		}
	}

	return remaining
}
