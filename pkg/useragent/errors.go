package useragent

import (
	"errors"
	"fmt"
)

var (
	ErrReadPatterns      = errors.New("failed to read pattern definitions")
	ErrDecodePatterns    = errors.New("failed to decode pattern definitions")
	ErrDevicePattern     = errors.New("invalid device pattern")
	ErrOSPattern         = errors.New("invalid os pattern")
	ErrUserAgentPattern  = errors.New("invalid user agent pattern")
	ErrUnknownOverride   = errors.New("unknown override field")
	ErrUnknownOverrideIn = errors.New("unknown override source")
)

// CompileError reports a pattern record that could not be compiled.
// It matches the family sentinel (ErrDevicePattern, ErrOSPattern or
// ErrUserAgentPattern) and the underlying engine error with errors.Is.
type CompileError struct {
	Family  Family
	Index   int
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s pattern #%d %q: %v", e.Family, e.Index, e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() []error {
	return []error{familyError(e.Family), e.Err}
}

func familyError(f Family) error {
	switch f {
	case FamilyDevice:
		return ErrDevicePattern
	case FamilyOS:
		return ErrOSPattern
	default:
		return ErrUserAgentPattern
	}
}
