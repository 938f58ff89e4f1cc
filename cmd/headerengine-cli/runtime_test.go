package main

import (
	"encoding/hex"
	"io"
	"log/slog"
	"testing"

	"github.com/blockverify/headerengine/consensus"
	"github.com/blockverify/headerengine/hashcap"
	"github.com/blockverify/headerengine/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestStore(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestExecute_AcceptsHeaderOnlyGenesisExtension(t *testing.T) {
	hp := hashcap.ChainhashPrimitive{}
	genesis := consensus.GenesisChainState()

	var merkleRoot [32]byte
	merkleRoot[0] = 1
	header := consensus.Header{Version: 1, Time: 1, Bits: genesis.CurrentTarget}
	preimage := consensus.SerializeHeaderPreimage(header, genesis.BestBlockHash.RawBytes(), merkleRoot)
	hashBytes := hp.DoubleSHA256(preimage)
	header.Hash = consensus.DigestFromRawBytes(hashBytes)

	req := Request{
		Op:         "apply_block",
		PriorState: chainStateToDTO(genesis),
		Block: BlockDTO{
			Version:       header.Version,
			Time:          header.Time,
			Bits:          header.Bits,
			Nonce:         header.Nonce,
			HashHex:       digestDisplayHex(header.Hash),
			MerkleRootHex: hex.EncodeToString(merkleRoot[:]),
		},
		AllowHeaderOnly: true,
	}

	resp := Execute(req, hp, openTestStore(t), discardLogger())
	if !resp.Ok {
		t.Fatalf("expected success, got err=%q", resp.Err)
	}
	if resp.NextState == nil || resp.NextState.BlockHeight != 1 {
		t.Fatalf("expected next_state height 1, got %+v", resp.NextState)
	}
}

func TestExecute_RejectsHeaderOnlyWithoutOptIn(t *testing.T) {
	hp := hashcap.ChainhashPrimitive{}
	genesis := consensus.GenesisChainState()

	var merkleRoot [32]byte
	merkleRoot[0] = 2
	header := consensus.Header{Version: 1, Time: 1, Bits: genesis.CurrentTarget}
	preimage := consensus.SerializeHeaderPreimage(header, genesis.BestBlockHash.RawBytes(), merkleRoot)
	header.Hash = consensus.DigestFromRawBytes(hp.DoubleSHA256(preimage))

	req := Request{
		PriorState: chainStateToDTO(genesis),
		Block: BlockDTO{
			Version:       header.Version,
			Time:          header.Time,
			Bits:          header.Bits,
			HashHex:       digestDisplayHex(header.Hash),
			MerkleRootHex: hex.EncodeToString(merkleRoot[:]),
		},
	}

	resp := Execute(req, hp, openTestStore(t), discardLogger())
	if resp.Ok {
		t.Fatalf("expected rejection when AllowHeaderOnly is false")
	}
}

func TestExecute_RejectsMalformedPrevHash(t *testing.T) {
	hp := hashcap.ChainhashPrimitive{}
	genesis := consensus.GenesisChainState()

	req := Request{
		PriorState: chainStateToDTO(genesis),
		Block: BlockDTO{
			Version:       1,
			Bits:          genesis.CurrentTarget,
			PrevHashHex:   hex.EncodeToString([]byte{0x01}),
			MerkleRootHex: hex.EncodeToString(make([]byte, 32)),
		},
		AllowHeaderOnly: true,
	}
	// PrevHashHex is malformed (not 32 bytes) to exercise the decode-error
	// path distinctly from the mismatch path.
	resp := Execute(req, hp, openTestStore(t), discardLogger())
	if resp.Ok {
		t.Fatalf("expected error for malformed prev_hash_hex")
	}
}

func digestDisplayHex(d consensus.Digest) string {
	b := d.DisplayBytes()
	return hex.EncodeToString(b[:])
}
