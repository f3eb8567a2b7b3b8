package cell

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/templexxx/xhex"

	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/format"
)

// ToString renders c in the given text format.
//
// Hex and the base64 forms encode the single-root bag of cells (crc32c, no
// index). FiftHex and FiftBin produce the indented tree dump. Binary is not
// supported for whole cells.
func (c *Cell) ToString(f format.TextFormat) (string, error) {
	switch f {
	case format.Hex, format.Base64, format.Base64URL:
		boc, err := c.ToBOC()
		if err != nil {
			return "", err
		}

		switch f {
		case format.Hex:
			dst := make([]byte, len(boc)*2)
			xhex.Encode(dst, boc)

			return string(dst), nil
		case format.Base64:
			return base64.StdEncoding.EncodeToString(boc), nil
		default:
			return base64.URLEncoding.EncodeToString(boc), nil
		}
	case format.FiftHex, format.FiftBin:
		var sb strings.Builder
		if err := c.dump(&sb, 0, f); err != nil {
			return "", err
		}

		return sb.String(), nil
	default:
		return "", fmt.Errorf("%w: %s for cells", errs.ErrUnsupportedFormat, f)
	}
}

// FromString decodes a single-root bag of cells from its hex or base64 text
// form, the inverse of ToString for those formats.
func FromString(s string, f format.TextFormat) (*Cell, error) {
	boc, err := DecodeBOCString(s, f)
	if err != nil {
		return nil, err
	}

	return FromBOC(boc)
}

// DecodeBOCString returns the raw bag-of-cells bytes of a hex or base64
// string without deserializing them.
func DecodeBOCString(s string, f format.TextFormat) ([]byte, error) {
	var (
		boc []byte
		err error
	)

	switch f {
	case format.Hex:
		boc = make([]byte, len(s)/2)
		if len(s)%2 != 0 {
			err = fmt.Errorf("odd hex length %d", len(s))
		} else {
			err = xhex.Decode(boc, []byte(strings.ToLower(s)))
		}
	case format.Base64:
		boc, err = base64.StdEncoding.DecodeString(s)
	case format.Base64URL:
		boc, err = base64.URLEncoding.DecodeString(s)
	default:
		return nil, fmt.Errorf("%w: %s for cells", errs.ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrMalformedBOC, f, err)
	}

	return boc, nil
}

// dump writes one line per cell, children indented by one more space.
func (c *Cell) dump(sb *strings.Builder, indent int, f format.TextFormat) error {
	line, err := c.bits.Format(f)
	if err != nil {
		return err
	}

	if indent > 0 {
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Repeat(" ", indent))
	sb.WriteString(line)

	for _, ref := range c.refs {
		if err := ref.dump(sb, indent+1, f); err != nil {
			return err
		}
	}

	return nil
}

// String returns the fift-hex tree dump.
func (c *Cell) String() string {
	s, _ := c.ToString(format.FiftHex)
	return s
}
