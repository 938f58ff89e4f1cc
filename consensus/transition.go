package consensus

// TransitionOptions bundles the capabilities and mode flags a transition
// needs beyond (state, block): the hash primitive (always required), the
// UTXO collaborator (full mode only), and whether the caller opts into
// light/header-only application for a MerkleRoot-tagged block (spec.md
// §3: "the ChainState may only be advanced in a light mode that the
// caller opts into").
type TransitionOptions struct {
	Hash            HashPrimitive
	Utxo            UtxoCollaborator
	AllowHeaderOnly bool
}

// ApplyBlock runs the full validate-then-apply sequence of spec.md §4.7
// against (state, block) and returns the next ChainState. On any failure
// the original state is returned unchanged alongside the error — the
// engine never publishes a partial mutation (spec.md §7).
func ApplyBlock(state ChainState, block Block, opts TransitionOptions) (ChainState, error) {
	if opts.Hash == nil {
		return state, cerr(ErrInvalidBlockHash, "no hash primitive supplied")
	}

	nextHeight := state.BlockHeight + 1
	header := block.Header

	// Step 1: hash validity. Resolve the merkle root from the tagged
	// variant, then rebuild and verify the 80-byte preimage.
	merkleRoot, txs, err := resolveMerkleRoot(opts.Hash, block.Data)
	if err != nil {
		return state, err
	}
	if err := VerifyHeaderHash(opts.Hash, header, state.BestBlockHash, merkleRoot); err != nil {
		return state, err
	}

	// Step 2: target encoding check.
	target, err := BitsToTarget(header.Bits)
	if err != nil {
		return state, err
	}

	// Step 3: expected target.
	if err := VerifyExpectedTarget(state, header); err != nil {
		return state, err
	}

	// Step 4: proof of work.
	if err := VerifyProofOfWork(header); err != nil {
		return state, err
	}

	// Step 5: timestamp.
	if err := VerifyTimestamp(state.BlockHeight, state.PrevTimestamps, header.Time); err != nil {
		return state, err
	}

	// Step 6: transactions, full mode only.
	if block.Data.Kind == TransactionDataTransactions {
		if err := applyTransactions(txs, nextHeight, opts.Utxo); err != nil {
			return state, err
		}
	} else if !opts.AllowHeaderOnly {
		return state, cerr(ErrCoinbaseMissing, "header-only block requires AllowHeaderOnly")
	}

	// Step 7: apply.
	return applyAccepted(state, header, target, nextHeight)
}

// resolveMerkleRoot dispatches on the TransactionData tag exactly once, per
// spec.md §9.
func resolveMerkleRoot(hp HashPrimitive, data TransactionData) (Digest, []Transaction, error) {
	switch data.Kind {
	case TransactionDataMerkleRoot:
		return data.MerkleRoot, nil, nil
	case TransactionDataTransactions:
		leaves := make([][32]byte, len(data.Transactions))
		for i, tx := range data.Transactions {
			leaves[i] = tx.TxID.RawBytes()
		}
		root, err := MerkleRoot(hp, leaves)
		if err != nil {
			return Digest{}, nil, err
		}
		return DigestFromRawBytes(root), data.Transactions, nil
	default:
		return Digest{}, nil, cerr(ErrInvalidBlockHash, "unknown transaction data variant")
	}
}

// applyTransactions runs step 6 of spec.md §4.7: each non-coinbase
// transaction is applied and fee'd by the UTXO collaborator, fees are
// summed with overflow checking, and CoinbaseRule closes the balance.
func applyTransactions(txs []Transaction, height uint32, utxo UtxoCollaborator) error {
	if err := VerifyCoinbaseStructure(txs); err != nil {
		return err
	}
	if utxo == nil {
		return cerr(ErrUtxoFailure, "full-mode block requires a UtxoCollaborator")
	}

	var totalFees uint64
	for i := 1; i < len(txs); i++ {
		fee, err := utxo.ApplyAndFee(txs[i])
		if err != nil {
			return UtxoFailure(err)
		}
		sum, addErr := checkedAddUint64(totalFees, fee)
		if addErr != nil {
			return cerr(ErrFeeOverflow, "total fee sum overflows u64")
		}
		totalFees = sum
	}

	return VerifyCoinbaseValue(txs[0], height, totalFees)
}

// applyAccepted produces state' per spec.md §4.7 step 7. Every field is
// derived from (state, header); nothing mutates the input. On total-work
// overflow the original state is returned unchanged, like every other
// failing step in ApplyBlock.
func applyAccepted(state ChainState, header Header, target U256, nextHeight uint32) (ChainState, error) {
	work := ComputeWorkFromTarget(target)
	totalWork, err := state.TotalWork.CheckedAdd(work)
	if err != nil {
		return state, cerr(ErrWorkOverflow, "total_work overflows u256")
	}

	next := ChainState{
		BlockHeight:    nextHeight,
		TotalWork:      totalWork,
		BestBlockHash:  header.Hash,
		CurrentTarget:  state.CurrentTarget,
		EpochStartTime: state.EpochStartTime,
		PrevTimestamps: RotatePrevTimestamps(state.PrevTimestamps, nextHeight, header.Time),
	}

	if IsRetargetHeight(nextHeight) {
		next.CurrentTarget = header.Bits
		// The first block of a new epoch records its own time as the new
		// epoch_start_time — a well-known off-by-one that must be
		// reproduced for consensus (spec.md §4.7).
		next.EpochStartTime = header.Time
	}

	return next, nil
}
