package service

import (
	"erc20-transfer-tracker/internal/domain/entity"
)

// TransactionSummarizerService assembles output records from raw transactions.
type TransactionSummarizerService interface {
	// Summarize builds a TransactionSummary from a raw transaction and an
	// optional decoded transfer. Pure and deterministic: identical inputs
	// produce identical summaries, and the summary carries a transfer exactly
	// when one was passed in.
	Summarize(tx *entity.RawTransaction, transfer *entity.DecodedTransfer) *entity.TransactionSummary
}
