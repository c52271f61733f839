package repository

import (
	"context"

	"erc20-transfer-tracker/internal/domain/entity"
)

// TransferRepository defines the interface for persisting matched transfers.
type TransferRepository interface {
	// SaveSummary persists a matched transaction summary, creating the sender
	// and destination wallets and the token contract as needed.
	SaveSummary(ctx context.Context, summary *entity.TransactionSummary) error

	// GetTransfersForWallet retrieves stored transfers where the wallet is
	// either the sender or the destination.
	GetTransfersForWallet(ctx context.Context, address string, limit int) ([]*entity.DecodedTransfer, error)

	// GetTransferCount returns the number of stored transfer relationships.
	GetTransferCount(ctx context.Context) (int64, error)
}
