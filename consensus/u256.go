package consensus

import "math/big"

// U256 is an unsigned 256-bit integer. Internally it wraps math/big rather
// than a hand-rolled fixed-word type, the idiom used throughout this
// codebase for wide proof-of-work arithmetic. Every operation here is
// checked against the 256-bit bound; overflow is an error, never a silent
// wrap (spec.md §5).
type U256 struct {
	v *big.Int
}

var (
	u256Max   = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	u256Bound = new(big.Int).Lsh(big.NewInt(1), 256)
)

// ZeroU256 is the additive identity.
func ZeroU256() U256 { return U256{v: big.NewInt(0)} }

// U256FromUint64 lifts a uint64 into U256.
func U256FromUint64(x uint64) U256 {
	return U256{v: new(big.Int).SetUint64(x)}
}

// U256FromBigEndianBytes interprets b as a big-endian 256-bit unsigned
// integer.
func U256FromBigEndianBytes(b [32]byte) U256 {
	return U256{v: new(big.Int).SetBytes(b[:])}
}

// U256FromLittleEndianBytes interprets b as a little-endian 256-bit
// unsigned integer — the convention used to compare a block hash against
// its target (spec.md §4.5).
func U256FromLittleEndianBytes(b [32]byte) U256 {
	var rev [32]byte
	for i, v := range b {
		rev[31-i] = v
	}
	return U256FromBigEndianBytes(rev)
}

func (u U256) normalized() *big.Int {
	if u.v == nil {
		return big.NewInt(0)
	}
	return u.v
}

// Bytes32 serializes u as 32 big-endian bytes, zero-padded on the left.
func (u U256) Bytes32() [32]byte {
	var out [32]byte
	b := u.normalized().Bytes()
	copy(out[32-len(b):], b)
	return out
}

// Cmp returns -1, 0, or 1 as u is less than, equal to, or greater than o.
func (u U256) Cmp(o U256) int {
	return u.normalized().Cmp(o.normalized())
}

// IsZero reports whether u is zero.
func (u U256) IsZero() bool {
	return u.normalized().Sign() == 0
}

// String renders u in hexadecimal.
func (u U256) String() string {
	return "0x" + u.normalized().Text(16)
}

// CheckedAdd returns u+o, failing with ErrWorkOverflow if the sum does not
// fit in 256 bits.
func (u U256) CheckedAdd(o U256) (U256, error) {
	sum := new(big.Int).Add(u.normalized(), o.normalized())
	if sum.Cmp(u256Max) > 0 {
		return U256{}, cerr(ErrWorkOverflow, "u256 addition overflow")
	}
	return U256{v: sum}, nil
}

// CheckedLsh returns u<<bits, failing if the result would not fit in 256
// bits.
func (u U256) CheckedLsh(bits uint) (U256, error) {
	shifted := new(big.Int).Lsh(u.normalized(), bits)
	if shifted.Cmp(u256Max) > 0 {
		return U256{}, cerr(ErrTargetOverflow, "u256 left shift overflow")
	}
	return U256{v: shifted}, nil
}

// Rsh returns u>>bits. A right shift can never overflow 256 bits.
func (u U256) Rsh(bits uint) U256 {
	return U256{v: new(big.Int).Rsh(u.normalized(), bits)}
}

// CheckedMul returns u*o, failing if the product would not fit in 256 bits.
func (u U256) CheckedMul(o U256) (U256, error) {
	prod := new(big.Int).Mul(u.normalized(), o.normalized())
	if prod.Cmp(u256Max) > 0 {
		return U256{}, cerr(ErrTargetOverflow, "u256 multiplication overflow")
	}
	return U256{v: prod}, nil
}

// Div returns floor(u/o), failing with a non-nil error if o is zero.
func (u U256) Div(o U256) (U256, error) {
	if o.IsZero() {
		return U256{}, cerr(ErrTargetOverflow, "u256 division by zero")
	}
	return U256{v: new(big.Int).Div(u.normalized(), o.normalized())}, nil
}
