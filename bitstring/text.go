package bitstring

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/templexxx/xhex"

	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/format"
)

// Parse parses a fift literal: x{...} for hex or b{...} for binary.
func Parse(literal string) (Bits, error) {
	s := strings.TrimSpace(literal)
	if len(s) < 3 || s[1] != '{' || s[len(s)-1] != '}' {
		return Bits{}, fmt.Errorf("%w: %q is not a fift literal", errs.ErrInvalidBitLiteral, literal)
	}

	body := s[2 : len(s)-1]
	switch s[0] {
	case 'x', 'X':
		return FromHex(body)
	case 'b', 'B':
		return FromBinary(body)
	default:
		return Bits{}, fmt.Errorf("%w: unknown literal prefix %q", errs.ErrInvalidBitLiteral, s[0])
	}
}

// MustParse is Parse that panics on error. Intended for constants and tests.
func MustParse(literal string) Bits {
	b, err := Parse(literal)
	if err != nil {
		panic(err)
	}

	return b
}

// FromHex parses hex digits. A trailing "_" means the last nibble carries a
// completion tag: the last 1 bit and the zeros after it are not data.
func FromHex(s string) (Bits, error) {
	tagged := strings.HasSuffix(s, "_")
	if tagged {
		s = s[:len(s)-1]
	}

	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return Bits{}, fmt.Errorf("%w: invalid hex digit %q at %d", errs.ErrInvalidBitLiteral, s[i], i)
		}
	}

	nibbles := uint(len(s))
	src := []byte(strings.ToLower(s))
	if len(src)%2 == 1 {
		src = append(src, '0')
	}

	data := make([]byte, len(src)/2)
	if err := xhex.Decode(data, src); err != nil {
		return Bits{}, fmt.Errorf("%w: %v", errs.ErrInvalidBitLiteral, err)
	}

	n := nibbles * 4
	if tagged {
		for n > 0 && data[(n-1)/8]&(0x80>>((n-1)%8)) == 0 {
			n--
		}
		if n == 0 {
			return Bits{}, fmt.Errorf("%w: %q has no completion tag", errs.ErrInvalidBitLiteral, s+"_")
		}
		n--
	}

	return Bits{data: clip(data, n), n: n}, nil
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// FromBinary parses a string of '0' and '1'.
func FromBinary(s string) (Bits, error) {
	bld := NewBuilderCap(uint(len(s)))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			bld.appendUint(0, 1)
		case '1':
			bld.appendUint(1, 1)
		default:
			return Bits{}, fmt.Errorf("%w: invalid binary digit %q at %d", errs.ErrInvalidBitLiteral, s[i], i)
		}
	}

	return bld.Build(), nil
}

// Format renders b in the given notation. Base64 forms require byte-aligned bits.
func (b Bits) Format(f format.TextFormat) (string, error) {
	switch f {
	case format.Hex:
		return b.hex(), nil
	case format.Binary:
		return b.binary(), nil
	case format.FiftHex:
		return b.fiftHex(), nil
	case format.FiftBin:
		return "b{" + b.binary() + "}", nil
	case format.Base64, format.Base64URL:
		if b.n%8 != 0 {
			return "", fmt.Errorf("%w: %s needs byte-aligned bits, have %d", errs.ErrUnsupportedFormat, f, b.n)
		}
		if f == format.Base64 {
			return base64.StdEncoding.EncodeToString(b.data), nil
		}

		return base64.URLEncoding.EncodeToString(b.data), nil
	default:
		return "", fmt.Errorf("%w: %d", errs.ErrUnsupportedFormat, f)
	}
}

func (b Bits) hex() string {
	src := b.data
	nibbles := (b.n + 3) / 4
	if b.n%4 != 0 {
		src = b.Tagged()
	}

	dst := make([]byte, len(src)*2)
	xhex.Encode(dst, src)
	dst = dst[:nibbles]
	if b.n%4 != 0 {
		dst = append(dst, '_')
	}

	return string(dst)
}

func (b Bits) fiftHex() string {
	return "x{" + string(bytes.ToUpper([]byte(b.hex()))) + "}"
}

func (b Bits) binary() string {
	var sb strings.Builder
	sb.Grow(int(b.n))
	for i := uint(0); i < b.n; i++ {
		if b.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}
