package consensus

// Header is the authenticated part of a block carried forward by
// ChainState. prev_block_hash and merkle_root are deliberately NOT stored
// here (spec.md §3, §9): they are reconstructable from the previous
// ChainState and the block body, and omitting them forces every transition
// to re-prove the binding rather than trust stored state.
type Header struct {
	Hash    Digest
	Version uint32
	Time    uint32
	Bits    uint32
	Nonce   uint32
}

// TransactionDataKind tags the two TransactionData variants.
type TransactionDataKind uint8

const (
	// TransactionDataMerkleRoot is header-only/light mode: the caller
	// asserts a Merkle root without supplying the transaction list.
	TransactionDataMerkleRoot TransactionDataKind = iota
	// TransactionDataTransactions is full mode: the Merkle root is
	// computed from the supplied transaction list and transaction
	// semantics are enforced.
	TransactionDataTransactions
)

// TransactionData is the tagged union named in spec.md §3. Exactly one of
// MerkleRoot/Transactions is meaningful, selected by Kind.
type TransactionData struct {
	Kind         TransactionDataKind
	MerkleRoot   Digest
	Transactions []Transaction
}

// NewMerkleRootData builds a header-only TransactionData.
func NewMerkleRootData(root Digest) TransactionData {
	return TransactionData{Kind: TransactionDataMerkleRoot, MerkleRoot: root}
}

// NewTransactionsData builds a full-validation TransactionData.
func NewTransactionsData(txs []Transaction) TransactionData {
	return TransactionData{Kind: TransactionDataTransactions, Transactions: txs}
}

// TxOutPoint references a previous transaction output.
type TxOutPoint struct {
	TxID Digest
	Vout uint32
}

// NullOutpointVout is the special output index of the coinbase's sole,
// non-existent previous output (spec.md §6).
const NullOutpointVout uint32 = 0xFFFFFFFF

// IsNull reports whether p is the null outpoint a coinbase input must
// reference.
func (p TxOutPoint) IsNull() bool {
	return p.TxID.IsZero() && p.Vout == NullOutpointVout
}

// TxInput is a transaction input, reduced to what the core needs: enough
// to recognize the coinbase shape (spec.md §4.6). Signature/script
// contents are an external (script-execution) collaborator's concern.
type TxInput struct {
	PrevOut TxOutPoint
}

// TxOutput is a transaction output, reduced to its spendable value; the
// engine needs only the value to close the subsidy+fees balance.
type TxOutput struct {
	Value uint64
}

// Transaction is reduced to the shape the engine's coinbase/fee/Merkle
// checks need (spec.md §1: "transaction and UTXO validation are described
// only at the interface level"). TxID is supplied by the external
// transaction layer rather than derived here — wire encoding and txid
// hashing are script/parsing concerns out of this engine's scope. Full
// input/output/script semantics belong to the UtxoCollaborator.
type Transaction struct {
	TxID    Digest
	Inputs  []TxInput
	Outputs []TxOutput
}

// Block is a candidate header plus its transaction-data variant (spec.md
// §3).
type Block struct {
	Header Header
	Data   TransactionData
}

// PrevTimestampWindow is the fixed 11-slot median-time-past ring (spec.md
// §3, §4.4).
const PrevTimestampWindow = 11

// ChainState is the fixpoint the transition consumes and produces (spec.md
// §3). It is a plain value — no method mutates it in place across a
// transition boundary.
type ChainState struct {
	BlockHeight    uint32
	TotalWork      U256
	BestBlockHash  Digest
	CurrentTarget  uint32
	EpochStartTime uint32
	PrevTimestamps [PrevTimestampWindow]uint32
}

// GenesisChainState is the ChainState before any block has been applied:
// height 0, zero work, zero best-hash, target at the network maximum, and
// an all-zero timestamp window.
func GenesisChainState() ChainState {
	return ChainState{
		BlockHeight:   0,
		TotalWork:     ZeroU256(),
		BestBlockHash: ZeroDigest,
		CurrentTarget: MaxTargetBits,
	}
}

// UtxoCollaborator is the external, full-mode-only collaborator named in
// spec.md §6: given a transaction, it validates and applies it against its
// own UTXO view and reports the fee it collected. The engine treats this
// opaquely — it requires only a deterministic fee and error.
type UtxoCollaborator interface {
	ApplyAndFee(tx Transaction) (fee uint64, err error)
}
