package consensus

// RetargetInterval is the number of blocks between difficulty
// recalculations (spec.md §6: "retarget interval = 2016").
const RetargetInterval uint32 = 2016

// TargetTimespan is the intended duration, in seconds, of one retarget
// epoch — two weeks at one block per ten minutes (spec.md §6).
const TargetTimespan int64 = 1_209_600

// IsRetargetHeight reports whether height is a retarget boundary: a
// multiple of RetargetInterval, excluding genesis (spec.md §4.5).
func IsRetargetHeight(height uint32) bool {
	return height%RetargetInterval == 0 && height > 0
}

// ComputeNextBits returns the compact target that must apply at
// state.BlockHeight+1, given the candidate header's time (only consulted
// when that height is a retarget boundary). Off retarget boundaries the
// target never changes (spec.md §4.5).
func ComputeNextBits(state ChainState, headerTime uint32) (uint32, error) {
	nextHeight := state.BlockHeight + 1
	if !IsRetargetHeight(nextHeight) {
		return state.CurrentTarget, nil
	}

	actualTimespan := int64(headerTime) - int64(state.EpochStartTime)
	actualTimespan = clampTimespan(actualTimespan)

	oldTarget, err := BitsToTarget(state.CurrentTarget)
	if err != nil {
		return 0, err
	}

	scaled, err := oldTarget.CheckedMul(U256FromUint64(uint64(actualTimespan)))
	if err != nil {
		return 0, cerr(ErrTargetOverflow, "retarget multiplication overflows 256 bits")
	}
	newTarget, err := scaled.Div(U256FromUint64(uint64(TargetTimespan)))
	if err != nil {
		return 0, err
	}
	if newTarget.Cmp(MaxTarget) > 0 {
		newTarget = MaxTarget
	}
	return TargetToBits(newTarget), nil
}

func clampTimespan(actual int64) int64 {
	lower := TargetTimespan / 4
	upper := TargetTimespan * 4
	if actual < lower {
		return lower
	}
	if actual > upper {
		return upper
	}
	return actual
}

// VerifyExpectedTarget checks that header.Bits equals the target the
// DifficultyEngine expects at state.BlockHeight+1 — unchanged from
// state.CurrentTarget off a retarget boundary, recomputed at one (spec.md
// §4.5). Mismatch fails with ErrUnexpectedTarget.
func VerifyExpectedTarget(state ChainState, header Header) error {
	expected, err := ComputeNextBits(state, header.Time)
	if err != nil {
		return err
	}
	if header.Bits != expected {
		return cerrMismatch(ErrUnexpectedTarget, "header bits does not match the expected retarget",
			uint32Stringer(expected), uint32Stringer(header.Bits))
	}
	return nil
}

// VerifyProofOfWork checks hash_as_u256(header.Hash) <= bits_to_target(header.Bits),
// interpreting the hash little-endian per Bitcoin convention (spec.md §4.5).
func VerifyProofOfWork(header Header) error {
	target, err := BitsToTarget(header.Bits)
	if err != nil {
		return err
	}
	hashInt := U256FromLittleEndianBytes(header.Hash.RawBytes())
	if hashInt.Cmp(target) > 0 {
		return cerr(ErrInsufficientWork, "block hash exceeds target")
	}
	return nil
}
