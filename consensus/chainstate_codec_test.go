package consensus

import "testing"

// TestChainState_RoundTrip is property P3.
func TestChainState_RoundTrip(t *testing.T) {
	state := ChainState{
		BlockHeight:    12345,
		TotalWork:      U256FromUint64(9876543210),
		BestBlockHash:  DigestFromRawBytes(leaf(7)),
		CurrentTarget:  0x1b0404cb,
		EpochStartTime: 1600000000,
		PrevTimestamps: [PrevTimestampWindow]uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	}
	encoded := EncodeChainState(state)
	if len(encoded) != ChainStateBytes {
		t.Fatalf("got len=%d want=%d", len(encoded), ChainStateBytes)
	}
	decoded, err := DecodeChainState(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !chainStatesEqual(decoded, state) {
		t.Fatalf("round-trip mismatch: got=%+v want=%+v", decoded, state)
	}
}

func TestChainState_RoundTripGenesis(t *testing.T) {
	state := GenesisChainState()
	decoded, err := DecodeChainState(EncodeChainState(state))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !chainStatesEqual(decoded, state) {
		t.Fatalf("round-trip mismatch: got=%+v want=%+v", decoded, state)
	}
}

func TestDecodeChainState_RejectsShortBuffer(t *testing.T) {
	_, err := DecodeChainState(make([]byte, ChainStateBytes-1))
	if err == nil {
		t.Fatalf("expected ErrSerializationShort")
	}
	if ce, ok := err.(*ConsensusError); !ok || ce.Code != ErrSerializationShort {
		t.Fatalf("expected ErrSerializationShort, got %v", err)
	}
}
