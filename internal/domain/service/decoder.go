package service

import (
	"erc20-transfer-tracker/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// TransferDecoderService classifies transaction input data. Decode is total:
// input that is not a recognized token transfer yields nil, never an error.
type TransferDecoderService interface {
	// Decode inspects call data sent to the given token contract and extracts
	// the transfer destination and amount when the data encodes a standard
	// transfer(address,uint256) call. Returns nil for anything else.
	Decode(tokenContract common.Address, input []byte) *entity.DecodedTransfer
}
