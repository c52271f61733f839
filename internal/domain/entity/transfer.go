package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// DecodedTransfer represents a recognized ERC20 transfer(address,uint256)
// call extracted from transaction input data. TokenContract is the
// transaction's recipient, since a token transfer is a call to the token
// contract itself. Amount is denominated in the token's smallest unit.
type DecodedTransfer struct {
	TokenContract common.Address `json:"token_contract"`
	Destination   common.Address `json:"destination"`
	Amount        *big.Int       `json:"amount"`
}
