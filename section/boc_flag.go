package section

import (
	"fmt"

	"github.com/arloliu/celldag/errs"
)

// BOCFlag is the packed flag byte following the generic magic.
type BOCFlag uint8

// NewBOCFlag creates a flag with the given ref size and no options set.
func NewBOCFlag(refSize int) BOCFlag {
	return BOCFlag(uint8(refSize) & RefSizeMask) //nolint:gosec
}

// HasIndex returns whether the bag carries an offset index.
func (f BOCFlag) HasIndex() bool {
	return f&IndexMask != 0
}

// WithIndex enables or disables the index bit.
func (f *BOCFlag) WithIndex(enabled bool) {
	f.set(IndexMask, enabled)
}

// HasCRC32C returns whether the bag ends with a crc32c trailer.
func (f BOCFlag) HasCRC32C() bool {
	return f&CRC32CMask != 0
}

// WithCRC32C enables or disables the crc32c bit.
func (f *BOCFlag) WithCRC32C(enabled bool) {
	f.set(CRC32CMask, enabled)
}

// HasCacheBits returns whether index entries carry a cache bit.
func (f BOCFlag) HasCacheBits() bool {
	return f&CacheBitsMask != 0
}

// WithCacheBits enables or disables the cache bits flag.
func (f *BOCFlag) WithCacheBits(enabled bool) {
	f.set(CacheBitsMask, enabled)
}

// RefSize returns the byte width of cell references and count fields.
func (f BOCFlag) RefSize() int {
	return int(f & RefSizeMask)
}

// SetRefSize sets the byte width of cell references.
func (f *BOCFlag) SetRefSize(size int) {
	*f = *f&^RefSizeMask | BOCFlag(uint8(size)&RefSizeMask) //nolint:gosec
}

func (f *BOCFlag) set(mask BOCFlag, enabled bool) {
	if enabled {
		*f |= mask
	} else {
		*f &^= mask
	}
}

// Validate checks reserved bits and the ref size range.
func (f BOCFlag) Validate() error {
	if f&ReservedMask != 0 {
		return fmt.Errorf("%w: reserved flag bits set (0x%02x)", errs.ErrMalformedBOC, uint8(f))
	}
	if size := f.RefSize(); size < 1 || size > MaxRefSize {
		return fmt.Errorf("%w: ref size %d not in [1, %d]", errs.ErrMalformedBOC, size, MaxRefSize)
	}
	if f.HasCacheBits() && !f.HasIndex() {
		return fmt.Errorf("%w: cache bits without index", errs.ErrMalformedBOC)
	}

	return nil
}
