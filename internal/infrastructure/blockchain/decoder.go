package blockchain

import (
	"math/big"

	"erc20-transfer-tracker/internal/domain/entity"
	"erc20-transfer-tracker/internal/domain/service"
	"erc20-transfer-tracker/internal/infrastructure/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

const (
	selectorLen = 4
	wordLen     = 32

	// selector + destination word + amount word
	transferCallLen = selectorLen + 2*wordLen
)

// transferSelector is the 4-byte selector for transfer(address,uint256),
// derived from the canonical signature: 0xa9059cbb.
var transferSelector = func() [selectorLen]byte {
	var sel [selectorLen]byte
	copy(sel[:], crypto.Keccak256([]byte("transfer(address,uint256)"))[:selectorLen])
	return sel
}()

// decodeFunc extracts a transfer from the argument bytes that follow a
// matched selector. Returns nil when the arguments are malformed.
type decodeFunc func(tokenContract common.Address, args []byte) *entity.DecodedTransfer

// TransferDecoder implements TransferDecoderService with a selector table.
// The table holds a single entry for transfer(address,uint256); further call
// shapes can be registered without restructuring the dispatch.
type TransferDecoder struct {
	table  map[[selectorLen]byte]decodeFunc
	logger *logger.Logger
}

// NewTransferDecoder creates a new transfer decoder.
func NewTransferDecoder(log *logger.Logger) service.TransferDecoderService {
	return &TransferDecoder{
		table: map[[selectorLen]byte]decodeFunc{
			transferSelector: decodeTransferArgs,
		},
		logger: log.WithComponent("transfer-decoder"),
	}
}

// Decode classifies transaction call data. It is total over all byte
// sequences: data that is too short, carries an unknown selector, or has
// malformed arguments yields nil rather than an error.
func (d *TransferDecoder) Decode(tokenContract common.Address, input []byte) *entity.DecodedTransfer {
	if len(input) < transferCallLen {
		return nil
	}

	var sel [selectorLen]byte
	copy(sel[:], input[:selectorLen])

	decode, ok := d.table[sel]
	if !ok {
		return nil
	}

	transfer := decode(tokenContract, input[selectorLen:])
	if transfer == nil {
		return nil
	}

	d.logger.Debug("Decoded token transfer",
		zap.String("token_contract", tokenContract.Hex()),
		zap.String("destination", transfer.Destination.Hex()),
		zap.String("amount", transfer.Amount.String()))

	return transfer
}

// decodeTransferArgs decodes the two argument words of a
// transfer(address,uint256) call. The destination address occupies the low 20
// bytes of the first word; decoding is tolerant of non-zero high-order
// padding and uses only those low bytes. The second word is a big-endian
// unsigned 256-bit amount.
func decodeTransferArgs(tokenContract common.Address, args []byte) *entity.DecodedTransfer {
	if len(args) < 2*wordLen {
		return nil
	}

	destination := common.BytesToAddress(args[wordLen-common.AddressLength : wordLen])
	amount := new(big.Int).SetBytes(args[wordLen : 2*wordLen])

	return &entity.DecodedTransfer{
		TokenContract: tokenContract,
		Destination:   destination,
		Amount:        amount,
	}
}
