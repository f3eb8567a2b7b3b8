// Package address models the MsgAddress values cells carry.
//
// Only the raw textual form ("workchain:hex") is handled here; user-friendly
// base64 addresses are parsed by higher layers.
package address

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/celldag/errs"
)

// Kind is the MsgAddress constructor.
type Kind uint8

const (
	None   Kind = 0b00 // addr_none$00
	Extern Kind = 0b01 // addr_extern$01
	Std    Kind = 0b10 // addr_std$10
	Var    Kind = 0b11 // addr_var$11
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Extern:
		return "extern"
	case Std:
		return "std"
	case Var:
		return "var"
	default:
		return "unknown"
	}
}

// StdBits is the address length of addr_std.
const StdBits = 256

// Address is a message address.
//
// Data holds Bits bits of address payload (zero padded to whole bytes).
// Workchain is unused for None and Extern.
type Address struct {
	Kind      Kind
	Workchain int32
	Data      []byte
	Bits      uint
}

// NewNone returns addr_none.
func NewNone() *Address {
	return &Address{Kind: None}
}

// NewStd returns an addr_std for the given workchain and 32-byte account hash.
func NewStd(workchain int8, hash [32]byte) *Address {
	return &Address{
		Kind:      Std,
		Workchain: int32(workchain),
		Data:      bytes.Clone(hash[:]),
		Bits:      StdBits,
	}
}

// NewExtern returns an addr_extern holding n bits of data.
func NewExtern(data []byte, n uint) (*Address, error) {
	if n > 511 || uint(len(data))*8 < n {
		return nil, fmt.Errorf("%w: extern address of %d bits", errs.ErrInvalidAddress, n)
	}

	return &Address{Kind: Extern, Data: bytes.Clone(data[:(n+7)/8]), Bits: n}, nil
}

// NewVar returns an addr_var.
func NewVar(workchain int32, data []byte, n uint) (*Address, error) {
	if n > 511 || uint(len(data))*8 < n {
		return nil, fmt.Errorf("%w: var address of %d bits", errs.ErrInvalidAddress, n)
	}

	return &Address{Kind: Var, Workchain: workchain, Data: bytes.Clone(data[:(n+7)/8]), Bits: n}, nil
}

// ParseRaw parses the raw form "workchain:64-hex-digits" into an addr_std.
func ParseRaw(raw string) (*Address, error) {
	wcStr, hashStr, ok := strings.Cut(raw, ":")
	if !ok {
		return nil, fmt.Errorf("%w: %q has no workchain separator", errs.ErrInvalidAddress, raw)
	}

	wc, err := strconv.ParseInt(wcStr, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: workchain %q: %v", errs.ErrInvalidAddress, wcStr, err)
	}

	data, err := hex.DecodeString(hashStr)
	if err != nil || len(data) != 32 {
		return nil, fmt.Errorf("%w: account hash %q", errs.ErrInvalidAddress, hashStr)
	}

	return NewStd(int8(wc), [32]byte(data)), nil
}

// IsNone reports whether a is nil or addr_none.
func (a *Address) IsNone() bool {
	return a == nil || a.Kind == None
}

// Hash returns the 32-byte account id of an addr_std.
func (a *Address) Hash() ([32]byte, bool) {
	if a == nil || a.Kind != Std || len(a.Data) != 32 {
		return [32]byte{}, false
	}

	return [32]byte(a.Data), true
}

// Equal reports whether two addresses are identical.
func (a *Address) Equal(other *Address) bool {
	if a.IsNone() || other.IsNone() {
		return a.IsNone() && other.IsNone()
	}

	return a.Kind == other.Kind &&
		a.Workchain == other.Workchain &&
		a.Bits == other.Bits &&
		bytes.Equal(a.Data, other.Data)
}

// String returns the raw form for std and var addresses.
func (a *Address) String() string {
	switch {
	case a.IsNone():
		return "NONE"
	case a.Kind == Extern:
		return fmt.Sprintf("EXT:%d:%x", a.Bits, a.Data)
	default:
		return fmt.Sprintf("%d:%x", a.Workchain, a.Data)
	}
}
