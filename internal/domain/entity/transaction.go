package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// RawTransaction represents a transaction as observed on the feed, before
// classification. Block-related fields are nil while the transaction is
// pending. Values are immutable once observed.
type RawTransaction struct {
	Hash             common.Hash     `json:"hash"`
	From             common.Address  `json:"from"`
	To               *common.Address `json:"to,omitempty"` // nil for contract creation
	Value            *big.Int        `json:"value"`        // wei
	GasPrice         *big.Int        `json:"gas_price"`    // wei per gas unit
	Gas              uint64          `json:"gas"`
	Nonce            uint64          `json:"nonce"`
	BlockNumber      *uint64         `json:"block_number,omitempty"`
	TransactionIndex *uint64         `json:"transaction_index,omitempty"`
	BlockHash        *common.Hash    `json:"block_hash,omitempty"`
	ChainID          *big.Int        `json:"chain_id,omitempty"`
	Input            []byte          `json:"input"`
}

// TransactionSummary is the terminal output record for a matched transaction:
// the raw fields re-exposed in human-friendly units plus the decoded token
// transfer when one was recognized. Summaries are never modified after
// construction.
type TransactionSummary struct {
	Hash             common.Hash      `json:"hash"`
	From             common.Address   `json:"from"`
	To               *common.Address  `json:"to,omitempty"`
	Nonce            uint64           `json:"nonce"`
	Gas              uint64           `json:"gas"`
	ValueWei         *big.Int         `json:"value_wei"`
	ValueETH         string           `json:"value_eth"`
	GasPriceWei      *big.Int         `json:"gas_price_wei"`
	GasPriceGwei     string           `json:"gas_price_gwei"`
	BlockNumber      *uint64          `json:"block_number,omitempty"`
	TransactionIndex *uint64          `json:"transaction_index,omitempty"`
	BlockHash        *common.Hash     `json:"block_hash,omitempty"`
	ChainID          *big.Int         `json:"chain_id,omitempty"`
	Transfer         *DecodedTransfer `json:"transfer,omitempty"`
}

// Pending reports whether the summarized transaction had not been included in
// a block at observation time.
func (s *TransactionSummary) Pending() bool {
	return s.BlockNumber == nil
}
