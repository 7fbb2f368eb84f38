// Package neserr defines the typed error kinds raised across the engine,
// so callers can errors.Is/As instead of matching on string text. Message
// text itself is supplied by the localize package at the point an error
// is raised; neserr only carries the kind.
package neserr

import "errors"

// Kind identifies one of the error conditions spec'd for this engine.
type Kind int

const (
	CartridgeAlreadyInserted Kind = iota
	MalformedFileFormat
	InvalidInstruction
	InvalidPpuRegisterAccess
	MapperNotSupported
	MirroringUnavailable
)

// String returns the message-table key for this kind.
func (k Kind) String() string {
	switch k {
	case CartridgeAlreadyInserted:
		return "CartridgeAlreadyInserted"
	case MalformedFileFormat:
		return "MalformedFileFormat"
	case InvalidInstruction:
		return "InvalidInstruction"
	case InvalidPpuRegisterAccess:
		return "InvalidPpuRegisterAccess"
	case MapperNotSupported:
		return "MapperNotSupported"
	case MirroringUnavailable:
		return "MirroringUnavailable"
	default:
		return "Unknown"
	}
}

// sentinel errors for plain errors.Is checks against a Kind alone, without
// requiring a localized message. Callers add detail by wrapping one of
// these with fmt.Errorf's %w.
var (
	ErrCartridgeAlreadyInserted = sentinel(CartridgeAlreadyInserted)
	ErrMalformedFileFormat      = sentinel(MalformedFileFormat)
	ErrInvalidInstruction       = sentinel(InvalidInstruction)
	ErrInvalidPpuRegisterAccess = sentinel(InvalidPpuRegisterAccess)
	ErrMapperNotSupported       = sentinel(MapperNotSupported)
	ErrMirroringUnavailable     = sentinel(MirroringUnavailable)
)

type kindError Kind

func sentinel(k Kind) error { return kindError(k) }

func (e kindError) Error() string { return Kind(e).String() }

// ForKind returns the sentinel error for a kind, for use with %w.
func ForKind(k Kind) error {
	switch k {
	case CartridgeAlreadyInserted:
		return ErrCartridgeAlreadyInserted
	case MalformedFileFormat:
		return ErrMalformedFileFormat
	case InvalidInstruction:
		return ErrInvalidInstruction
	case InvalidPpuRegisterAccess:
		return ErrInvalidPpuRegisterAccess
	case MapperNotSupported:
		return ErrMapperNotSupported
	case MirroringUnavailable:
		return ErrMirroringUnavailable
	default:
		return errors.New(k.String())
	}
}

// KindOf extracts the Kind carried by an error produced via ForKind, if any.
func KindOf(err error) (Kind, bool) {
	var ke kindError
	if errors.As(err, &ke) {
		return Kind(ke), true
	}
	return 0, false
}
