package consensus

import "encoding/binary"

// Digest is a 32-byte hash value held internally as eight big-endian u32
// words — grouped directly from the raw ("internal order") hash bytes, the
// same bytes SHA-256 emits and the same bytes a little-endian 256-bit
// integer interpretation operates on for proof-of-work comparison. This
// grouping is cheap to compose in a hashing circuit; it is not a byte
// reversal.
//
// Display order (the big-endian-looking hex a block explorer shows) is a
// second, separate transform — a full reversal of the 32 raw bytes —
// applied only at the human-facing boundary. Grounded on the
// GetEncodableHash (no reversal) vs GetDisplayHash (reversal) split in the
// teacher pack's zcash-lightwalletd block header parser.
type Digest [8]uint32

// ZeroDigest is the all-zero 32-byte digest (used for the genesis
// prev_block_hash and the coinbase null outpoint txid).
var ZeroDigest Digest

// DigestFromRawBytes groups 32 raw (internal-order) bytes into a Digest.
func DigestFromRawBytes(b [32]byte) Digest {
	var d Digest
	for i := 0; i < 8; i++ {
		d[i] = binary.BigEndian.Uint32(b[4*i : 4*i+4])
	}
	return d
}

// RawBytes reassembles the Digest back into its 32 raw (internal-order)
// bytes, the identity inverse of DigestFromRawBytes.
func (d Digest) RawBytes() [32]byte {
	var out [32]byte
	for i := 0; i < 8; i++ {
		binary.BigEndian.PutUint32(out[4*i:4*i+4], d[i])
	}
	return out
}

// DisplayBytes reverses RawBytes into the conventional big-endian-looking
// display order.
func (d Digest) DisplayBytes() [32]byte {
	raw := d.RawBytes()
	var out [32]byte
	for i, b := range raw {
		out[31-i] = b
	}
	return out
}

// DigestFromDisplayBytes is the inverse of DisplayBytes.
func DigestFromDisplayBytes(b [32]byte) Digest {
	var raw [32]byte
	for i, v := range b {
		raw[31-i] = v
	}
	return DigestFromRawBytes(raw)
}

// String renders the digest in display order, as Bitcoin tooling does.
func (d Digest) String() string {
	b := d.DisplayBytes()
	return hexStringer(b[:]).String()
}

// Equal reports whether two digests represent the same 32-byte value.
func (d Digest) Equal(o Digest) bool {
	return d == o
}

// IsZero reports whether d is the all-zero digest.
func (d Digest) IsZero() bool {
	return d == ZeroDigest
}
