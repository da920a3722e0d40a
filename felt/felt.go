// Package felt implements the 252-bit Stark-prime field element used
// throughout the sequencer core for addresses, storage keys, class
// hashes, and values.
package felt

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

// Felt is a field element modulo the Stark prime.
type Felt struct {
	impl fp.Element
}

// Zero is the additive identity.
var Zero = Felt{}

// One is the multiplicative identity.
var One = new(Felt).SetUint64(1)

// New returns a zero-valued Felt, matching the teacher's `new(felt.Felt)`
// call sites.
func New() *Felt {
	return &Felt{}
}

// SetUint64 sets f to v and returns f.
func (f *Felt) SetUint64(v uint64) *Felt {
	f.impl.SetUint64(v)
	return f
}

// SetBytes interprets b as a big-endian integer and reduces it mod the
// Stark prime.
func (f *Felt) SetBytes(b []byte) *Felt {
	f.impl.SetBytes(b)
	return f
}

// SetBigInt sets f from a big.Int, reducing mod the Stark prime.
func (f *Felt) SetBigInt(v *big.Int) *Felt {
	f.impl.SetBigInt(v)
	return f
}

// Bytes returns the big-endian 32-byte representation of f.
func (f *Felt) Bytes() [32]byte {
	return f.impl.Bytes()
}

// Marshal returns the big-endian byte slice representation of f, for use
// as a map/db key.
func (f *Felt) Marshal() []byte {
	b := f.impl.Bytes()
	return b[:]
}

// BigInt writes f into out and returns it.
func (f *Felt) BigInt(out *big.Int) *big.Int {
	return f.impl.BigInt(out)
}

// Equal reports whether f and other represent the same field element.
func (f *Felt) Equal(other *Felt) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.impl.Equal(&other.impl)
}

// Cmp returns -1, 0, or 1 comparing the canonical big-endian form of f
// and other. Only used for deterministic ordering (e.g. iterating
// storage diffs), never for field arithmetic.
func (f *Felt) Cmp(other *Felt) int {
	a := f.impl.Bytes()
	b := other.impl.Bytes()
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// IsZero reports whether f is the zero element.
func (f *Felt) IsZero() bool {
	return f.impl.IsZero()
}

// String renders f as a 0x-prefixed hex string.
func (f *Felt) String() string {
	return fmt.Sprintf("0x%x", f.impl.Bytes())
}

// Clone returns a copy of f.
func (f *Felt) Clone() *Felt {
	n := new(Felt)
	n.impl = f.impl
	return n
}
