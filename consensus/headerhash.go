package consensus

import "encoding/binary"

// HeaderPreimageBytes is the fixed size of the serialized header preimage
// (spec.md §4.3): version, prev_block_hash, merkle_root, time, bits, nonce.
const HeaderPreimageBytes = 4 + 32 + 32 + 4 + 4 + 4

// SerializeHeaderPreimage builds the canonical 80-byte Bitcoin wire-order
// preimage. prev and merkle are supplied by the caller (spec.md §3's "Header
// omits prev_block_hash and merkle_root" reduction) in raw/internal byte
// order, written verbatim.
func SerializeHeaderPreimage(h Header, prev, merkle [32]byte) []byte {
	buf := make([]byte, HeaderPreimageBytes)
	off := 0
	binary.LittleEndian.PutUint32(buf[off:], h.Version)
	off += 4
	copy(buf[off:], prev[:])
	off += 32
	copy(buf[off:], merkle[:])
	off += 32
	binary.LittleEndian.PutUint32(buf[off:], h.Time)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], h.Bits)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], h.Nonce)
	off += 4
	return buf
}

// VerifyHeaderHash rebuilds the 80-byte preimage from h plus the externally
// supplied prev/merkle hashes, hashes it, and compares the result against
// h.Hash. Mismatch fails with ErrInvalidBlockHash (spec.md §4.3).
func VerifyHeaderHash(hp HashPrimitive, h Header, prev, merkle Digest) error {
	preimage := SerializeHeaderPreimage(h, prev.RawBytes(), merkle.RawBytes())
	computed := hp.DoubleSHA256(preimage)
	declared := h.Hash.RawBytes()
	if computed != declared {
		return cerrMismatch(ErrInvalidBlockHash, "declared header hash does not match computed hash",
			hexStringer(computed[:]), hexStringer(declared[:]))
	}
	return nil
}
