// Package errs defines the sentinel errors returned by celldag packages.
//
// Errors are grouped into four categories. Every specific error wraps its
// category, so callers can match either level with errors.Is:
//
//	if errors.Is(err, errs.ErrCapacity) { ... }       // any overflow
//	if errors.Is(err, errs.ErrBitsOverflow) { ... }   // bit overflow only
package errs

import (
	"errors"
	"fmt"
)

// Categories.
var (
	// ErrCapacity is returned when a write would exceed the 1023-bit / 4-ref cell limits.
	ErrCapacity = errors.New("capacity exceeded")
	// ErrUnderflow is returned when a read requests more bits or refs than remain.
	ErrUnderflow = errors.New("underflow")
	// ErrMalformed is returned for inconsistent or syntactically invalid input.
	ErrMalformed = errors.New("malformed input")
	// ErrUnsupported is returned for unknown cell types, text formats or compressions.
	ErrUnsupported = errors.New("unsupported")
)

// Capacity errors.
var (
	ErrBitsOverflow = fmt.Errorf("%w: bits overflow", ErrCapacity)
	ErrRefsOverflow = fmt.Errorf("%w: refs overflow", ErrCapacity)
)

// Underflow errors.
var (
	ErrBitsUnderflow = fmt.Errorf("%w: not enough bits", ErrUnderflow)
	ErrRefsUnderflow = fmt.Errorf("%w: not enough refs", ErrUnderflow)
)

// Malformed input errors.
var (
	ErrMalformedBOC      = fmt.Errorf("%w: bag of cells", ErrMalformed)
	ErrChecksumMismatch  = fmt.Errorf("%w: crc32c mismatch", ErrMalformedBOC)
	ErrInvalidRefIndex   = fmt.Errorf("%w: ref index out of range", ErrMalformedBOC)
	ErrInvalidMagic      = fmt.Errorf("%w: unknown magic", ErrMalformedBOC)
	ErrInvalidBitLiteral = fmt.Errorf("%w: bit literal", ErrMalformed)
	ErrInvalidKeyWidth   = fmt.Errorf("%w: dictionary key width", ErrMalformed)
	ErrInvalidDict       = fmt.Errorf("%w: dictionary structure", ErrMalformed)
	ErrValueOutOfRange   = fmt.Errorf("%w: value does not fit width", ErrMalformed)
	ErrInvalidAddress    = fmt.Errorf("%w: address", ErrMalformed)
	ErrInvalidArchive    = fmt.Errorf("%w: archive envelope", ErrMalformed)
	ErrInvalidCell       = fmt.Errorf("%w: cell", ErrMalformed)
)

// Unsupported errors.
var (
	ErrUnsupportedCellType    = fmt.Errorf("%w: cell type", ErrUnsupported)
	ErrUnsupportedFormat      = fmt.Errorf("%w: text format", ErrUnsupported)
	ErrUnsupportedCompression = fmt.Errorf("%w: compression type", ErrUnsupported)
)

// ErrKeyNotFound is returned by dictionary lookups for absent keys.
var ErrKeyNotFound = errors.New("key not found")
