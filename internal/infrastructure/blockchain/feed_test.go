package blockchain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestRawFromTransaction(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	chainID := big.NewInt(1)
	signer := types.LatestSignerForChainID(chainID)

	to := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	input := encodeTransferCall(common.HexToAddress("0x000000000000000000000000000000000000dEaD"), big.NewInt(1000))

	tx := types.MustSignNewTx(key, signer, &types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     3,
		GasTipCap: big.NewInt(1_000_000_000),
		GasFeeCap: big.NewInt(30_000_000_000),
		Gas:       60_000,
		To:        &to,
		Value:     big.NewInt(0),
		Data:      input,
	})

	raw, err := rawFromTransaction(tx, signer)
	require.NoError(t, err)

	require.Equal(t, tx.Hash(), raw.Hash)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), raw.From)
	require.Equal(t, to, *raw.To)
	require.Equal(t, uint64(3), raw.Nonce)
	require.Equal(t, uint64(60_000), raw.Gas)
	require.Equal(t, input, raw.Input)
	require.Zero(t, chainID.Cmp(raw.ChainID))

	// Pending stream: no block placement yet.
	require.Nil(t, raw.BlockNumber)
	require.Nil(t, raw.TransactionIndex)
	require.Nil(t, raw.BlockHash)
}

func TestRawFromTransactionContractCreation(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	chainID := big.NewInt(1)
	signer := types.LatestSignerForChainID(chainID)

	tx := types.MustSignNewTx(key, signer, &types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(20_000_000_000),
		Gas:      1_000_000,
		To:       nil,
		Value:    big.NewInt(0),
		Data:     []byte{0x60, 0x80, 0x60, 0x40},
	})

	raw, err := rawFromTransaction(tx, signer)
	require.NoError(t, err)
	require.Nil(t, raw.To)
}
