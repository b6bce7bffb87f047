package elf

import (
	"fmt"
)

// DiagKind discriminates the recoverable failure modes so callers can
// branch programmatically instead of matching message text.
type DiagKind int8

const (
	DiagTruncated DiagKind = iota
	DiagBadMagic
	DiagBadClass
	DiagBadEncoding
	DiagBadHeader
	DiagOutOfBounds
	DiagExtentViolation
	DiagOverflow
	DiagUnmapped
	DiagBadString
)

func (k DiagKind) String() string {
	switch k {
	case DiagTruncated:
		return "truncated"
	case DiagBadMagic:
		return "bad-magic"
	case DiagBadClass:
		return "bad-class"
	case DiagBadEncoding:
		return "bad-encoding"
	case DiagBadHeader:
		return "bad-header"
	case DiagOutOfBounds:
		return "out-of-bounds"
	case DiagExtentViolation:
		return "extent-violation"
	case DiagOverflow:
		return "overflow"
	case DiagUnmapped:
		return "unmapped"
	case DiagBadString:
		return "bad-string"
	}
	return "unknown"
}

// A Diagnostic reports one structural defect in the input buffer. It is
// always returned, never thrown: every accessor yields either a valid
// typed value or a Diagnostic. Off and Len describe the implicated byte
// range where one exists.
type Diagnostic struct {
	Kind DiagKind
	Msg  string
	Off  uint64
	Len  uint64
}

func (d *Diagnostic) Error() string {
	return d.Msg
}

func diagf(kind DiagKind, off, length uint64, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
		Off:  off,
		Len:  length,
	}
}
