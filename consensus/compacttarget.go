package consensus

// MaxTargetBits is 0x1d00ffff, the network maximum target in compact form.
const MaxTargetBits uint32 = 0x1d00ffff

// MaxTarget is MaxTargetBits decoded; it is computed once at init and
// re-validated by the compacttarget_test round-trip property P1.
var MaxTarget = mustBitsToTarget(MaxTargetBits)

// mustBitsToTarget decodes bits for the MaxTarget initializer. It applies
// the exponent > 3 branch of BitsToTarget's decoding without the MaxTarget
// bound (which BitsToTarget reads), so it only suits bits with a clear sign
// bit and an exponent above 3, as MaxTargetBits has.
func mustBitsToTarget(bits uint32) U256 {
	t, err := U256FromUint64(uint64(bits & 0x007fffff)).CheckedLsh(uint(8 * (bits>>24 - 3)))
	if err != nil {
		panic(err)
	}
	return t
}

// BitsToTarget decodes a 32-bit compact target into a full U256 target,
// per spec.md §4.1. The compact form packs exponent (top byte) and
// mantissa (bottom three bytes); mantissa's own top bit is reserved as a
// sign flag that must be clear.
func BitsToTarget(bits uint32) (U256, error) {
	exponent := bits >> 24
	mantissa := bits & 0x007fffff
	if bits&0x00800000 != 0 {
		return U256{}, cerr(ErrNegativeTarget, "compact target sign bit set")
	}

	mant := U256FromUint64(uint64(mantissa))
	var target U256
	if exponent <= 3 {
		target = mant.Rsh(uint(8 * (3 - exponent)))
	} else {
		shifted, err := mant.CheckedLsh(uint(8 * (exponent - 3)))
		if err != nil {
			return U256{}, cerr(ErrTargetOverflow, "compact target exponent overflows 256 bits")
		}
		target = shifted
	}

	if target.Cmp(MaxTarget) > 0 {
		return U256{}, cerr(ErrTargetAboveMax, "decoded target exceeds network maximum")
	}
	return target, nil
}

// TargetToBits encodes target into the canonical 32-bit compact form, per
// spec.md §4.1. A round-trip bits -> target -> bits on any canonically
// encoded bits value is the identity (property P1).
func TargetToBits(target U256) uint32 {
	raw := target.Bytes32()

	// Minimal byte length L such that target fits in L bytes.
	length := 32
	for length > 0 && raw[32-length] == 0 {
		length--
	}

	var mantissa uint32
	switch {
	case length == 0:
		mantissa = 0
	case length >= 3:
		b := raw[32-length : 32-length+3]
		mantissa = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	case length == 2:
		b := raw[32-length:]
		mantissa = uint32(b[0])<<16 | uint32(b[1])<<8
	case length == 1:
		b := raw[32-length:]
		mantissa = uint32(b[0]) << 16
	}

	// If the top bit of the 3-byte mantissa window is set, the encoding
	// would be read back as negative; shift right one byte and grow L by
	// one to keep the sign bit clear.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		length++
	}

	return uint32(length)<<24 | (mantissa & 0x007fffff)
}

// ComputeWorkFromTarget returns floor((2^256-1)/(target+1)), the additive
// per-block work contribution (spec.md §4.1). target == 2^256-1 is
// special-cased since target+1 would otherwise overflow 256 bits.
func ComputeWorkFromTarget(target U256) U256 {
	maxU256 := U256FromBigEndianBytes([32]byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	})
	if target.Cmp(maxU256) == 0 {
		return U256FromUint64(1)
	}
	denom, err := target.CheckedAdd(U256FromUint64(1))
	if err != nil {
		// Unreachable: target < maxU256 here, so target+1 fits in 256 bits.
		panic(err)
	}
	work, err := maxU256.Div(denom)
	if err != nil {
		panic(err)
	}
	return work
}
