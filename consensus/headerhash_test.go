package consensus

import (
	"encoding/hex"
	"testing"

	"github.com/blockverify/headerengine/hashcap"
)

func mustHexDigest32(t *testing.T, s string) [32]byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex fixture %q: %v", s, err)
	}
	if len(b) != 32 {
		t.Fatalf("fixture %q is %d bytes, want 32", s, len(b))
	}
	var out [32]byte
	copy(out[:], b)
	return out
}

// block170 builds the header and (prev, merkle) pair from spec.md §8
// scenario 1 — a real mainnet Bitcoin block. All three hashes are written in
// display order, as a block explorer shows them.
func block170(t *testing.T) (Header, Digest, Digest) {
	t.Helper()
	prevDisplay := mustHexDigest32(t, "000000002a22cfee1f2c846adbd12b3e183d4f97683f85dad08a79780a84bd55")
	merkleDisplay := mustHexDigest32(t, "7dac2c5666815c17a3b36427de37bb9d2e2c5ccec3f8633eb91a4205cb4c10ff")
	hashDisplay := mustHexDigest32(t, "00000000d1145790a8694403d4063f323d499e655c83426834d4ce2f8dd4a2ee")

	prev := DigestFromDisplayBytes(prevDisplay)
	merkle := DigestFromDisplayBytes(merkleDisplay)
	hash := DigestFromDisplayBytes(hashDisplay)

	header := Header{
		Hash:    hash,
		Version: 1,
		Time:    1231731025,
		Bits:    0x1d00ffff,
		Nonce:   1889418792,
	}
	return header, prev, merkle
}

// TestVerifyHeaderHash_Block170 is spec.md §8 concrete scenario 1.
func TestVerifyHeaderHash_Block170(t *testing.T) {
	header, prev, merkle := block170(t)
	hp := hashcap.ChainhashPrimitive{}
	if err := VerifyHeaderHash(hp, header, prev, merkle); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestVerifyHeaderHash_WrongMerkle is spec.md §8 concrete scenario 2.
func TestVerifyHeaderHash_WrongMerkle(t *testing.T) {
	header, prev, merkle := block170(t)
	merkleDisplay := merkle.DisplayBytes()
	// Flip the first hex digit of merkle from 7 to 6.
	merkleDisplay[0] = (merkleDisplay[0] &^ 0xf0) | 0x60
	tampered := DigestFromDisplayBytes(merkleDisplay)

	hp := hashcap.ChainhashPrimitive{}
	err := VerifyHeaderHash(hp, header, prev, tampered)
	if err == nil {
		t.Fatalf("expected ErrInvalidBlockHash")
	}
	if ce, ok := err.(*ConsensusError); !ok || ce.Code != ErrInvalidBlockHash {
		t.Fatalf("expected ErrInvalidBlockHash, got %v", err)
	}
}

// TestVerifyHeaderHash_WrongPrev is spec.md §8 concrete scenario 3.
func TestVerifyHeaderHash_WrongPrev(t *testing.T) {
	header, prev, merkle := block170(t)
	prevDisplay := prev.DisplayBytes()
	// Flip the last hex digit of prev from 5 to 6.
	prevDisplay[31] = (prevDisplay[31] &^ 0x0f) | 0x06
	tampered := DigestFromDisplayBytes(prevDisplay)

	hp := hashcap.ChainhashPrimitive{}
	err := VerifyHeaderHash(hp, header, tampered, merkle)
	if err == nil {
		t.Fatalf("expected ErrInvalidBlockHash")
	}
	if ce, ok := err.(*ConsensusError); !ok || ce.Code != ErrInvalidBlockHash {
		t.Fatalf("expected ErrInvalidBlockHash, got %v", err)
	}
}

func TestSerializeHeaderPreimage_Length(t *testing.T) {
	header, prev, merkle := block170(t)
	preimage := SerializeHeaderPreimage(header, prev.RawBytes(), merkle.RawBytes())
	if len(preimage) != HeaderPreimageBytes {
		t.Fatalf("got=%d want=%d", len(preimage), HeaderPreimageBytes)
	}
}
