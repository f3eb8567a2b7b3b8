package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/format"
)

func TestArchiveHeader_Layout(t *testing.T) {
	h := NewArchiveHeader(format.CompressionZstd, 0x0102, 0xAABBCCDDEEFF0011)
	b := h.Bytes()

	require.Len(t, b, ArchiveHeaderSize)
	require.Equal(t, []byte{
		0xCB, 0x0C, 0x01, 0x02,
		0x00, 0x00, 0x01, 0x02,
		0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x00, 0x11,
	}, b)

	parsed, err := ParseArchiveHeader(append(b, 0x99))
	require.NoError(t, err)
	require.Equal(t, h, parsed)
}

func TestParseArchiveHeader_Errors(t *testing.T) {
	valid := NewArchiveHeader(format.CompressionNone, 5, 1).Bytes()

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"short", func(b []byte) []byte { return b[:ArchiveHeaderSize-1] }},
		{"magic", func(b []byte) []byte { b[0] = 0xB5; return b }},
		{"version", func(b []byte) []byte { b[2] = 2; return b }},
		{"too large", func(b []byte) []byte { b[4] = 0x7F; return b }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(append([]byte(nil), valid...))
			_, err := ParseArchiveHeader(data)
			require.ErrorIs(t, err, errs.ErrInvalidArchive)
		})
	}
}
