package cell

import (
	"fmt"
	"math/big"

	"github.com/arloliu/celldag/address"
	"github.com/arloliu/celldag/bitstring"
	"github.com/arloliu/celldag/errs"
)

// coinsLenBits is the length prefix width of Coins (VarUInteger 16).
const coinsLenBits = 4

// Builder assembles the bits and refs of a new cell.
//
// Every Store method checks capacity first and leaves the builder untouched
// when it fails.
//
// Note: Builder is NOT thread-safe.
type Builder struct {
	bits *bitstring.Builder
	refs []*Cell
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		bits: bitstring.NewBuilder(),
		refs: make([]*Cell, 0, MaxRefs),
	}
}

// BitsUsed returns the number of bits written.
func (b *Builder) BitsUsed() uint {
	return b.bits.Len()
}

// BitsLeft returns the number of bits that can still be written.
func (b *Builder) BitsLeft() uint {
	return b.bits.Free()
}

// RefsUsed returns the number of refs stored.
func (b *Builder) RefsUsed() int {
	return len(b.refs)
}

// RefsLeft returns the number of refs that can still be stored.
func (b *Builder) RefsLeft() int {
	return MaxRefs - len(b.refs)
}

func (b *Builder) ensureRefs(n int) error {
	if n > MaxRefs-len(b.refs) {
		return fmt.Errorf("%w: need %d refs, %d free", errs.ErrRefsOverflow, n, MaxRefs-len(b.refs))
	}

	return nil
}

// StoreBit writes a single bit.
func (b *Builder) StoreBit(bit bool) error {
	return b.bits.StoreBit(bit)
}

// StoreUint writes v as a width-bit unsigned integer, width <= 64.
func (b *Builder) StoreUint(v uint64, width uint) error {
	return b.bits.StoreUint(v, width)
}

// StoreInt writes v as a width-bit two's complement integer.
func (b *Builder) StoreInt(v int64, width uint) error {
	return b.bits.StoreInt(v, width)
}

// StoreBigUint writes v as a width-bit unsigned integer, width <= 256.
func (b *Builder) StoreBigUint(v *big.Int, width uint) error {
	return b.bits.StoreBigUint(v, width)
}

// StoreBigInt writes v as a width-bit signed integer, width <= 257.
func (b *Builder) StoreBigInt(v *big.Int, width uint) error {
	return b.bits.StoreBigInt(v, width)
}

// StoreBytes writes whole bytes.
func (b *Builder) StoreBytes(data []byte) error {
	return b.bits.StoreBytes(data)
}

// StoreBits appends a bit string.
func (b *Builder) StoreBits(data bitstring.Bits) error {
	return b.bits.StoreBits(data)
}

// StoreZeroes writes n zero bits.
func (b *Builder) StoreZeroes(n uint) error {
	return b.bits.StoreZeroes(n)
}

// StoreOnes writes n one bits.
func (b *Builder) StoreOnes(n uint) error {
	return b.bits.StoreOnes(n)
}

// StoreVarUint writes v with a lenBits-wide byte length prefix.
func (b *Builder) StoreVarUint(v uint64, lenBits uint) error {
	return b.bits.StoreVarUint(v, lenBits)
}

// StoreString writes s with a uint8 byte length prefix.
func (b *Builder) StoreString(s string) error {
	return b.bits.StoreString(s)
}

// StoreCoins writes an amount as VarUInteger 16.
func (b *Builder) StoreCoins(amount uint64) error {
	return b.bits.StoreVarUint(amount, coinsLenBits)
}

// StoreBigCoins writes an amount of up to 120 bits as VarUInteger 16.
func (b *Builder) StoreBigCoins(amount *big.Int) error {
	return b.bits.StoreBigVarUint(amount, coinsLenBits)
}

// StoreRef appends a child reference.
func (b *Builder) StoreRef(ref *Cell) error {
	if ref == nil {
		return fmt.Errorf("%w: nil ref", errs.ErrInvalidCell)
	}
	if err := b.ensureRefs(1); err != nil {
		return err
	}
	b.refs = append(b.refs, ref)

	return nil
}

// StoreMaybeRef writes a presence bit followed, when ref is not nil, by the ref.
func (b *Builder) StoreMaybeRef(ref *Cell) error {
	if ref == nil {
		return b.bits.StoreBit(false)
	}
	if b.bits.Free() < 1 {
		return fmt.Errorf("%w: need 1 bit, 0 free", errs.ErrBitsOverflow)
	}
	if err := b.ensureRefs(1); err != nil {
		return err
	}

	_ = b.bits.StoreBit(true)
	b.refs = append(b.refs, ref)

	return nil
}

// StoreSlice splices the unread bits and refs of s into the builder.
// s is not consumed.
func (b *Builder) StoreSlice(s *Slice) error {
	if err := b.ensureRefs(s.RemainingRefs()); err != nil {
		return err
	}
	if err := b.bits.StoreSlice(s.bits); err != nil {
		return err
	}
	b.refs = append(b.refs, s.refs[s.refPos:]...)

	return nil
}

// StoreBuilder appends everything written to other.
func (b *Builder) StoreBuilder(other *Builder) error {
	if err := b.ensureRefs(len(other.refs)); err != nil {
		return err
	}
	if err := b.bits.StoreBuilder(other.bits); err != nil {
		return err
	}
	b.refs = append(b.refs, other.refs...)

	return nil
}

// StoreCell splices the whole content of c, as StoreSlice(c.BeginParse()).
func (b *Builder) StoreCell(c *Cell) error {
	return b.StoreSlice(c.BeginParse())
}

// StoreDict writes a HashmapE: a 0 bit for an empty dictionary, otherwise a
// 1 bit and a ref to the root.
func (b *Builder) StoreDict(d *Dictionary) error {
	if d == nil || d.IsEmpty() {
		return b.bits.StoreBit(false)
	}

	root, err := d.ToCell()
	if err != nil {
		return err
	}

	return b.StoreMaybeRef(root)
}

// StoreAddress writes a MsgAddress. A nil address is stored as addr_none.
func (b *Builder) StoreAddress(addr *address.Address) error {
	tmp := bitstring.NewBuilderCap(b.bits.Free())

	var err error
	switch {
	case addr.IsNone():
		err = tmp.StoreUint(uint64(address.None), 2)
	case addr.Kind == address.Extern:
		err = storeAll(
			func() error { return tmp.StoreUint(uint64(address.Extern), 2) },
			func() error { return tmp.StoreUint(uint64(addr.Bits), 9) },
			func() error { return storeAddrData(tmp, addr) },
		)
	case addr.Kind == address.Std:
		err = storeAll(
			func() error { return tmp.StoreUint(uint64(address.Std), 2) },
			func() error { return tmp.StoreBit(false) }, // no anycast
			func() error { return tmp.StoreInt(int64(addr.Workchain), 8) },
			func() error { return storeAddrData(tmp, addr) },
		)
	case addr.Kind == address.Var:
		err = storeAll(
			func() error { return tmp.StoreUint(uint64(address.Var), 2) },
			func() error { return tmp.StoreBit(false) },
			func() error { return tmp.StoreUint(uint64(addr.Bits), 9) },
			func() error { return tmp.StoreInt(int64(addr.Workchain), 32) },
			func() error { return storeAddrData(tmp, addr) },
		)
	default:
		err = fmt.Errorf("%w: kind %d", errs.ErrInvalidAddress, addr.Kind)
	}
	if err != nil {
		return err
	}

	return b.bits.StoreBuilder(tmp)
}

func storeAddrData(tmp *bitstring.Builder, addr *address.Address) error {
	if addr.Kind == address.Std && addr.Bits != address.StdBits {
		return fmt.Errorf("%w: std address of %d bits", errs.ErrInvalidAddress, addr.Bits)
	}
	data, err := bitstring.New(addr.Data, addr.Bits)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidAddress, err)
	}

	return tmp.StoreBits(data)
}

func storeAll(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	return nil
}

// Build returns an ordinary cell with the stored bits and refs.
// The builder may keep being used.
func (b *Builder) Build() (*Cell, error) {
	refs := make([]*Cell, len(b.refs))
	copy(refs, b.refs)

	return newCell(b.bits.Build(), refs, false)
}

// BuildExotic returns an exotic cell. The cell type is taken from the first
// payload byte and the payload must match that type's layout.
func (b *Builder) BuildExotic() (*Cell, error) {
	refs := make([]*Cell, len(b.refs))
	copy(refs, b.refs)

	return newCell(b.bits.Build(), refs, true)
}

// MustBuild is Build that panics on error. Intended for constants and tests.
func (b *Builder) MustBuild() *Cell {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}

	return c
}
