// Package hashcap provides the default HashPrimitive implementation the
// consensus core consumes but never constructs for itself.
package hashcap

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// ChainhashPrimitive is the production HashPrimitive backend. It wraps
// btcsuite's chainhash package, which implements Bitcoin's double-SHA-256
// bit-exactly — the same package the wider Bitcoin-Go ecosystem (including
// light-client and relay tooling) reaches for rather than hand-rolling the
// double hash over crypto/sha256.
type ChainhashPrimitive struct{}

// DoubleSHA256 returns SHA256(SHA256(data)).
func (ChainhashPrimitive) DoubleSHA256(data []byte) [32]byte {
	var out [32]byte
	copy(out[:], chainhash.DoubleHashB(data))
	return out
}
