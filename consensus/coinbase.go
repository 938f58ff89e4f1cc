package consensus

// HalvingInterval is the number of blocks between subsidy halvings
// (spec.md §6).
const HalvingInterval uint32 = 210_000

// InitialSubsidy is the subsidy, in satoshis, paid at height 0 (spec.md
// §6).
const InitialSubsidy uint64 = 5_000_000_000

// maxHalvings is the halving count at which the subsidy has shifted to
// zero (spec.md §4.6: "If halvings >= 64, subsidy is 0").
const maxHalvings = 64

// BlockSubsidy returns the newly-minted coinbase allowance at height,
// halving every HalvingInterval blocks (spec.md §4.6).
func BlockSubsidy(height uint32) uint64 {
	halvings := height / HalvingInterval
	if halvings >= maxHalvings {
		return 0
	}
	return InitialSubsidy >> halvings
}

// VerifyCoinbaseStructure checks that txs is non-empty, that txs[0] is the
// sole coinbase, and that it has exactly one input referencing the null
// outpoint (spec.md §4.6). It does not check the value bound — see
// VerifyCoinbaseValue.
func VerifyCoinbaseStructure(txs []Transaction) error {
	if len(txs) == 0 {
		return cerr(ErrCoinbaseMissing, "block has no coinbase transaction")
	}
	coinbase := txs[0]
	if len(coinbase.Inputs) != 1 {
		return cerr(ErrInvalidCoinbaseIn, "coinbase must have exactly one input")
	}
	if !coinbase.Inputs[0].PrevOut.IsNull() {
		return cerr(ErrInvalidCoinbaseIn, "coinbase input does not reference the null outpoint")
	}
	for i := 1; i < len(txs); i++ {
		if len(txs[i].Inputs) == 1 && txs[i].Inputs[0].PrevOut.IsNull() {
			return cerr(ErrCoinbaseMisplaced, "coinbase-shaped input found outside index 0")
		}
	}
	return nil
}

// VerifyCoinbaseValue enforces sum_outputs(coinbase) <= subsidy(height) +
// totalFees (spec.md §4.6). Underpay is permitted; exceeding the bound
// fails with ErrCoinbaseOverpay.
func VerifyCoinbaseValue(coinbase Transaction, height uint32, totalFees uint64) error {
	var sumOutputs uint64
	for _, out := range coinbase.Outputs {
		sum, err := checkedAddUint64(sumOutputs, out.Value)
		if err != nil {
			return cerr(ErrFeeOverflow, "coinbase output sum overflows u64")
		}
		sumOutputs = sum
	}

	subsidy := BlockSubsidy(height)
	limit, err := checkedAddUint64(subsidy, totalFees)
	if err != nil {
		return cerr(ErrFeeOverflow, "subsidy+fees overflows u64")
	}
	if sumOutputs > limit {
		return cerrMismatch(ErrCoinbaseOverpay, "coinbase outputs exceed subsidy+fees",
			uint64Stringer(limit), uint64Stringer(sumOutputs))
	}
	return nil
}

func checkedAddUint64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, cerr(ErrFeeOverflow, "u64 addition overflow")
	}
	return sum, nil
}

type uint64Stringer uint64

func (u uint64Stringer) String() string { return uitoa(uint64(u)) }

func uitoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
