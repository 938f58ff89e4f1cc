package consensus

import "encoding/binary"

// ChainStateBytes is the fixed size of the serialized ChainState (spec.md
// §6): block_height (4) + total_work (32) + best_block_hash (32) +
// current_target (4) + epoch_start_time (4) + prev_timestamps (11*4).
const ChainStateBytes = 4 + 32 + 32 + 4 + 4 + 11*4

// EncodeChainState serializes s per spec.md §6's fixed 120-byte layout, all
// fields little-endian.
func EncodeChainState(s ChainState) []byte {
	buf := make([]byte, ChainStateBytes)
	off := 0

	binary.LittleEndian.PutUint32(buf[off:], s.BlockHeight)
	off += 4

	work := s.TotalWork.Bytes32()
	for i := 0; i < 32; i++ {
		buf[off+i] = work[31-i]
	}
	off += 32

	best := s.BestBlockHash.RawBytes()
	copy(buf[off:], best[:])
	off += 32

	binary.LittleEndian.PutUint32(buf[off:], s.CurrentTarget)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], s.EpochStartTime)
	off += 4

	for i := 0; i < PrevTimestampWindow; i++ {
		binary.LittleEndian.PutUint32(buf[off:], s.PrevTimestamps[i])
		off += 4
	}

	return buf
}

// DecodeChainState is the inverse of EncodeChainState. A short buffer fails
// with ErrSerializationShort.
func DecodeChainState(b []byte) (ChainState, error) {
	if len(b) != ChainStateBytes {
		return ChainState{}, cerr(ErrSerializationShort, "chain state buffer is not 120 bytes")
	}
	off := 0

	var s ChainState
	s.BlockHeight = binary.LittleEndian.Uint32(b[off:])
	off += 4

	var workLE [32]byte
	copy(workLE[:], b[off:off+32])
	var workBE [32]byte
	for i := 0; i < 32; i++ {
		workBE[i] = workLE[31-i]
	}
	s.TotalWork = U256FromBigEndianBytes(workBE)
	off += 32

	var best [32]byte
	copy(best[:], b[off:off+32])
	s.BestBlockHash = DigestFromRawBytes(best)
	off += 32

	s.CurrentTarget = binary.LittleEndian.Uint32(b[off:])
	off += 4
	s.EpochStartTime = binary.LittleEndian.Uint32(b[off:])
	off += 4

	for i := 0; i < PrevTimestampWindow; i++ {
		s.PrevTimestamps[i] = binary.LittleEndian.Uint32(b[off:])
		off += 4
	}

	return s, nil
}
