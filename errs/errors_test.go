package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	tests := []struct {
		err      error
		category error
	}{
		{ErrBitsOverflow, ErrCapacity},
		{ErrRefsOverflow, ErrCapacity},
		{ErrBitsUnderflow, ErrUnderflow},
		{ErrRefsUnderflow, ErrUnderflow},
		{ErrChecksumMismatch, ErrMalformedBOC},
		{ErrChecksumMismatch, ErrMalformed},
		{ErrInvalidRefIndex, ErrMalformedBOC},
		{ErrInvalidKeyWidth, ErrMalformed},
		{ErrUnsupportedCellType, ErrUnsupported},
		{ErrUnsupportedFormat, ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			require.ErrorIs(t, tt.err, tt.category)

			wrapped := fmt.Errorf("%w: extra context", tt.err)
			require.ErrorIs(t, wrapped, tt.err)
			require.ErrorIs(t, wrapped, tt.category)
		})
	}

	require.False(t, errors.Is(ErrBitsOverflow, ErrUnderflow))
	require.False(t, errors.Is(ErrMalformedBOC, ErrChecksumMismatch))
}
