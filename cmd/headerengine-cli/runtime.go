package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/blockverify/headerengine/consensus"
	"github.com/blockverify/headerengine/store"
)

// Request is the JSON shape accepted on stdin: a prior ChainState plus a
// candidate Block to apply against it.
type Request struct {
	Op              string        `json:"op"`
	PriorState      ChainStateDTO `json:"prior_state"`
	Block           BlockDTO      `json:"block"`
	AllowHeaderOnly bool          `json:"allow_header_only,omitempty"`
	Fees            []uint64      `json:"fees,omitempty"`
}

// Response is the JSON shape written to stdout.
type Response struct {
	Ok        bool           `json:"ok"`
	Err       string         `json:"err,omitempty"`
	NextState *ChainStateDTO `json:"next_state,omitempty"`
}

// ChainStateDTO is the hex/JSON-friendly encoding of consensus.ChainState.
type ChainStateDTO struct {
	BlockHeight    uint32     `json:"block_height"`
	TotalWorkHex   string     `json:"total_work_hex"`
	BestBlockHash  string     `json:"best_block_hash_hex"`
	CurrentTarget  uint32     `json:"current_target"`
	EpochStartTime uint32     `json:"epoch_start_time"`
	PrevTimestamps [11]uint32 `json:"prev_timestamps"`
}

// BlockDTO is the hex/JSON-friendly encoding of a candidate consensus.Block.
type BlockDTO struct {
	Version       uint32           `json:"version"`
	Time          uint32           `json:"time"`
	Bits          uint32           `json:"bits"`
	Nonce         uint32           `json:"nonce"`
	HashHex       string           `json:"hash_hex"`
	PrevHashHex   string           `json:"prev_hash_hex"`
	MerkleRootHex string           `json:"merkle_root_hex,omitempty"`
	Transactions  []TransactionDTO `json:"transactions,omitempty"`
}

// TransactionDTO is the hex/JSON-friendly encoding of a consensus.Transaction.
type TransactionDTO struct {
	TxIDHex string      `json:"txid_hex"`
	Inputs  []InputDTO  `json:"inputs"`
	Outputs []OutputDTO `json:"outputs"`
}

type InputDTO struct {
	PrevTxIDHex string `json:"prev_txid_hex"`
	PrevVout    uint32 `json:"prev_vout"`
}

type OutputDTO struct {
	Value uint64 `json:"value"`
}

// Execute runs one apply-block request against the store and hash
// primitive, returning the response to write back.
func Execute(req Request, hp consensus.HashPrimitive, db *store.DB, logger *slog.Logger) Response {
	prior, err := chainStateFromDTO(req.PriorState)
	if err != nil {
		return Response{Ok: false, Err: err.Error()}
	}

	block, err := blockFromDTO(req.Block)
	if err != nil {
		return Response{Ok: false, Err: err.Error()}
	}

	if req.Block.PrevHashHex != "" {
		prev, err := hexToDigest(req.Block.PrevHashHex)
		if err != nil {
			return Response{Ok: false, Err: fmt.Sprintf("prev_hash_hex: %v", err)}
		}
		if !prev.Equal(prior.BestBlockHash) {
			return Response{Ok: false, Err: "prev_hash_hex does not match prior_state.best_block_hash_hex"}
		}
	}

	opts := consensus.TransitionOptions{
		Hash:            hp,
		AllowHeaderOnly: req.AllowHeaderOnly,
	}
	if block.Data.Kind == consensus.TransactionDataTransactions {
		opts.Utxo = &feeReplayCollaborator{fees: req.Fees}
	}

	next, err := consensus.ApplyBlock(prior, block, opts)
	if err != nil {
		logger.Warn("block rejected", "height", prior.BlockHeight+1, "err", err)
		return Response{Ok: false, Err: err.Error()}
	}

	if err := db.PutState(next); err != nil {
		logger.Error("persist state", "height", next.BlockHeight, "err", err)
		return Response{Ok: false, Err: fmt.Sprintf("persist: %v", err)}
	}

	logger.Info("block accepted", "height", next.BlockHeight)
	dto := chainStateToDTO(next)
	return Response{Ok: true, NextState: &dto}
}

// feeReplayCollaborator is a CLI-only UtxoCollaborator stand-in: it reports
// the caller-supplied fee for each non-coinbase transaction in order,
// rather than consulting a live UTXO set. It exists only to exercise
// full-mode ApplyBlock from the command line, not as production UTXO logic.
type feeReplayCollaborator struct {
	fees []uint64
	next int
}

func (f *feeReplayCollaborator) ApplyAndFee(_ consensus.Transaction) (uint64, error) {
	if f.next >= len(f.fees) {
		return 0, nil
	}
	fee := f.fees[f.next]
	f.next++
	return fee, nil
}

func chainStateFromDTO(d ChainStateDTO) (consensus.ChainState, error) {
	work, err := hexToU256(d.TotalWorkHex)
	if err != nil {
		return consensus.ChainState{}, fmt.Errorf("total_work_hex: %w", err)
	}
	best, err := hexToDigest(d.BestBlockHash)
	if err != nil {
		return consensus.ChainState{}, fmt.Errorf("best_block_hash_hex: %w", err)
	}
	return consensus.ChainState{
		BlockHeight:    d.BlockHeight,
		TotalWork:      work,
		BestBlockHash:  best,
		CurrentTarget:  d.CurrentTarget,
		EpochStartTime: d.EpochStartTime,
		PrevTimestamps: d.PrevTimestamps,
	}, nil
}

func chainStateToDTO(s consensus.ChainState) ChainStateDTO {
	workBytes := s.TotalWork.Bytes32()
	bestBytes := s.BestBlockHash.RawBytes()
	return ChainStateDTO{
		BlockHeight:    s.BlockHeight,
		TotalWorkHex:   hex.EncodeToString(workBytes[:]),
		BestBlockHash:  hex.EncodeToString(bestBytes[:]),
		CurrentTarget:  s.CurrentTarget,
		EpochStartTime: s.EpochStartTime,
		PrevTimestamps: s.PrevTimestamps,
	}
}

func blockFromDTO(d BlockDTO) (consensus.Block, error) {
	hash, err := hexToDigestDisplay(d.HashHex)
	if err != nil {
		return consensus.Block{}, fmt.Errorf("hash_hex: %w", err)
	}

	header := consensus.Header{
		Hash:    hash,
		Version: d.Version,
		Time:    d.Time,
		Bits:    d.Bits,
		Nonce:   d.Nonce,
	}

	if len(d.Transactions) > 0 {
		txs := make([]consensus.Transaction, len(d.Transactions))
		for i, txDTO := range d.Transactions {
			tx, err := transactionFromDTO(txDTO)
			if err != nil {
				return consensus.Block{}, fmt.Errorf("transactions[%d]: %w", i, err)
			}
			txs[i] = tx
		}
		return consensus.Block{Header: header, Data: consensus.NewTransactionsData(txs)}, nil
	}

	merkle, err := hexToDigest(d.MerkleRootHex)
	if err != nil {
		return consensus.Block{}, fmt.Errorf("merkle_root_hex: %w", err)
	}
	return consensus.Block{Header: header, Data: consensus.NewMerkleRootData(merkle)}, nil
}

func transactionFromDTO(d TransactionDTO) (consensus.Transaction, error) {
	txid, err := hexToDigest(d.TxIDHex)
	if err != nil {
		return consensus.Transaction{}, fmt.Errorf("txid_hex: %w", err)
	}
	inputs := make([]consensus.TxInput, len(d.Inputs))
	for i, in := range d.Inputs {
		prevTxID, err := hexToDigest(in.PrevTxIDHex)
		if err != nil {
			return consensus.Transaction{}, fmt.Errorf("inputs[%d].prev_txid_hex: %w", i, err)
		}
		inputs[i] = consensus.TxInput{PrevOut: consensus.TxOutPoint{TxID: prevTxID, Vout: in.PrevVout}}
	}
	outputs := make([]consensus.TxOutput, len(d.Outputs))
	for i, out := range d.Outputs {
		outputs[i] = consensus.TxOutput{Value: out.Value}
	}
	return consensus.Transaction{TxID: txid, Inputs: inputs, Outputs: outputs}, nil
}

func hexToDigest(s string) (consensus.Digest, error) {
	if s == "" {
		return consensus.ZeroDigest, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return consensus.Digest{}, err
	}
	if len(b) != 32 {
		return consensus.Digest{}, fmt.Errorf("want 32 bytes, got %d", len(b))
	}
	var raw [32]byte
	copy(raw[:], b)
	return consensus.DigestFromRawBytes(raw), nil
}

// hexToDigestDisplay decodes s as the conventional display-order hex a
// block explorer would show (most significant byte first), the inverse of
// Digest.String.
func hexToDigestDisplay(s string) (consensus.Digest, error) {
	if s == "" {
		return consensus.ZeroDigest, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return consensus.Digest{}, err
	}
	if len(b) != 32 {
		return consensus.Digest{}, fmt.Errorf("want 32 bytes, got %d", len(b))
	}
	var raw [32]byte
	copy(raw[:], b)
	return consensus.DigestFromDisplayBytes(raw), nil
}

func hexToU256(s string) (consensus.U256, error) {
	if s == "" {
		return consensus.ZeroU256(), nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return consensus.U256{}, err
	}
	if len(b) != 32 {
		return consensus.U256{}, fmt.Errorf("want 32 bytes, got %d", len(b))
	}
	var raw [32]byte
	copy(raw[:], b)
	return consensus.U256FromBigEndianBytes(raw), nil
}
