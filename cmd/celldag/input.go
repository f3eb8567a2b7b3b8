package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arloliu/celldag/archive"
	"github.com/arloliu/celldag/cell"
	"github.com/arloliu/celldag/endian"
	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/format"
	"github.com/arloliu/celldag/section"
)

// readInput reads the named file, or stdin for "-" or no argument.
func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(args[0])
}

// decodeBOC accepts a raw bag, an archive, or hex/base64 text and returns
// the raw bag bytes.
func decodeBOC(data []byte) ([]byte, string, error) {
	if len(data) >= section.MagicSize {
		switch endian.GetBigEndianEngine().Uint32(data) {
		case section.MagicGeneric, section.MagicIndexed, section.MagicIndexedCRC32C:
			return data, "boc", nil
		}
	}
	if len(data) >= section.ArchiveHeaderSize && endian.GetBigEndianEngine().Uint16(data) == section.ArchiveMagic {
		boc, err := archive.Unpack(data)
		return boc, "archive", err
	}

	text := string(bytes.TrimSpace(data))
	if text == "" {
		return nil, "", fmt.Errorf("%w: empty input", errs.ErrMalformedBOC)
	}

	f := format.Base64
	switch {
	case isHex(text):
		f = format.Hex
	case strings.ContainsAny(text, "-_"):
		f = format.Base64URL
	}
	boc, err := cell.DecodeBOCString(text, f)

	return boc, f.String(), err
}

func isHex(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}

	return true
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0o644) //nolint:gosec
}
