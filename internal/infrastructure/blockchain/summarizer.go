package blockchain

import (
	"math/big"
	"strings"

	"erc20-transfer-tracker/internal/domain/entity"
	"erc20-transfer-tracker/internal/domain/service"
)

const (
	etherDecimals = 18 // 1 ETH = 10^18 wei
	gweiDecimals  = 9  // 1 Gwei = 10^9 wei
)

// TransactionSummarizer implements TransactionSummarizerService. It is a pure
// assembly and unit-conversion step with no state.
type TransactionSummarizer struct{}

// NewTransactionSummarizer creates a new transaction summarizer.
func NewTransactionSummarizer() service.TransactionSummarizerService {
	return &TransactionSummarizer{}
}

// Summarize builds the output record for a raw transaction. The summary
// carries the given transfer exactly when it is non-nil.
func (s *TransactionSummarizer) Summarize(tx *entity.RawTransaction, transfer *entity.DecodedTransfer) *entity.TransactionSummary {
	return &entity.TransactionSummary{
		Hash:             tx.Hash,
		From:             tx.From,
		To:               tx.To,
		Nonce:            tx.Nonce,
		Gas:              tx.Gas,
		ValueWei:         tx.Value,
		ValueETH:         FormatUnits(tx.Value, etherDecimals),
		GasPriceWei:      tx.GasPrice,
		GasPriceGwei:     FormatUnits(tx.GasPrice, gweiDecimals),
		BlockNumber:      tx.BlockNumber,
		TransactionIndex: tx.TransactionIndex,
		BlockHash:        tx.BlockHash,
		ChainID:          tx.ChainID,
		Transfer:         transfer,
	}
}

// FormatUnits renders an integer amount as an exact decimal string with the
// given number of fractional digits, trailing zeros trimmed. Division is done
// on big integers so no precision is lost for 256-bit amounts:
// 2500000000000000000 wei at 18 decimals renders as "2.5".
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(amount, scale, new(big.Int))

	sign := ""
	if whole.Sign() < 0 || frac.Sign() < 0 {
		sign = "-"
		whole.Abs(whole)
		frac.Abs(frac)
	}

	if frac.Sign() == 0 {
		return sign + whole.String()
	}

	fracStr := strings.TrimRight(leftPad(frac.String(), decimals), "0")
	return sign + whole.String() + "." + fracStr
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
