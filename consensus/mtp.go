package consensus

import "sort"

// MedianTimePast computes the median of the populated slots of a
// PrevTimestamps ring, per spec.md §4.4. At heights below the window size
// only the populated prefix participates — zero-padded slots at genesis
// are not phantom history.
func MedianTimePast(blockHeight uint32, prevTimestamps [PrevTimestampWindow]uint32) uint32 {
	populated := int(blockHeight)
	if populated > PrevTimestampWindow {
		populated = PrevTimestampWindow
	}
	if populated == 0 {
		return 0
	}

	// Slots are filled by RotatePrevTimestamps at index (k mod 11) for the
	// k-th applied block. Walking k=1..populated and reducing mod 11
	// recovers exactly the populated slots whether or not the window has
	// wrapped: for populated<11 this is {1,...,populated} (slot 0 is still
	// genesis-zero and correctly excluded); for populated==11 it revisits
	// every slot exactly once.
	window := make([]uint32, populated)
	for k := 1; k <= populated; k++ {
		window[k-1] = prevTimestamps[k%PrevTimestampWindow]
	}
	sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
	return window[(len(window)-1)/2]
}

// VerifyTimestamp enforces spec.md §4.4: a candidate header's time must be
// strictly greater than the median of the 11 most recent applied
// timestamps. There is no upper/future-drift bound in the core — that is
// node-local policy, not consensus.
func VerifyTimestamp(blockHeight uint32, prevTimestamps [PrevTimestampWindow]uint32, candidateTime uint32) error {
	median := MedianTimePast(blockHeight, prevTimestamps)
	if candidateTime <= median {
		return cerrMismatch(ErrTimestampTooOld, "candidate time does not exceed median time past",
			uint32Stringer(median), uint32Stringer(candidateTime))
	}
	return nil
}

// RotatePrevTimestamps inserts newTime into the ring at the slot tracked by
// blockHeight mod PrevTimestampWindow (the slot for the block about to be
// applied, i.e. the new tip), returning the updated window. blockHeight is
// the height of the block being applied (the new tip height, i.e. the
// previous state's height + 1).
func RotatePrevTimestamps(prevTimestamps [PrevTimestampWindow]uint32, blockHeight uint32, newTime uint32) [PrevTimestampWindow]uint32 {
	out := prevTimestamps
	out[blockHeight%PrevTimestampWindow] = newTime
	return out
}
