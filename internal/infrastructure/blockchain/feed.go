package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"erc20-transfer-tracker/internal/domain/entity"
	"erc20-transfer-tracker/internal/infrastructure/config"
	"erc20-transfer-tracker/internal/infrastructure/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// Handler consumes one observed transaction and reports whether the feed
// should keep running.
type Handler func(ctx context.Context, tx *entity.RawTransaction) bool

// PendingTransactionFeed subscribes to a node's pending transaction stream
// over WebSocket and delivers fully populated RawTransaction values to a
// handler, one at a time, in observation order.
type PendingTransactionFeed struct {
	cfg    *config.EthereumConfig
	logger *logger.Logger

	rpcClient *rpc.Client
	client    *ethclient.Client
	gclient   *gethclient.Client
	signer    types.Signer
	chainID   *big.Int
}

// NewPendingTransactionFeed creates a new pending transaction feed.
func NewPendingTransactionFeed(cfg *config.EthereumConfig, log *logger.Logger) *PendingTransactionFeed {
	return &PendingTransactionFeed{
		cfg:    cfg,
		logger: log.WithComponent("pending-tx-feed"),
	}
}

// Connect dials the node over WebSocket and resolves the chain ID used for
// sender recovery.
func (f *PendingTransactionFeed) Connect(ctx context.Context) error {
	f.logger.Info("Connecting to Ethereum node", zap.String("url", f.cfg.WSURL))

	rpcClient, err := rpc.DialContext(ctx, f.cfg.WSURL)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", ErrConnection, f.cfg.WSURL, err)
	}

	client := ethclient.NewClient(rpcClient)
	chainID, err := client.ChainID(ctx)
	if err != nil {
		rpcClient.Close()
		return fmt.Errorf("%w: resolve chain id: %v", ErrConnection, err)
	}

	f.rpcClient = rpcClient
	f.client = client
	f.gclient = gethclient.New(rpcClient)
	f.chainID = chainID
	f.signer = types.LatestSignerForChainID(chainID)

	f.logger.Info("Connected to Ethereum node", zap.String("chain_id", chainID.String()))
	return nil
}

// Close closes the underlying node connection.
func (f *PendingTransactionFeed) Close() {
	if f.rpcClient != nil {
		f.rpcClient.Close()
		f.rpcClient = nil
	}
}

// Run subscribes to pending transaction hashes and feeds retrieved
// transactions to the handler until the handler signals completion, the
// context is canceled, or the subscription fails. Transactions the node no
// longer knows (evicted or already mined) are skipped; retrieval errors are
// logged and skipped rather than terminating the feed.
func (f *PendingTransactionFeed) Run(ctx context.Context, handle Handler) error {
	hashes := make(chan common.Hash, f.cfg.SubscribeBuffer)
	sub, err := f.gclient.SubscribePendingTransactions(ctx, hashes)
	if err != nil {
		return fmt.Errorf("%w: subscribe pending transactions: %v", ErrConnection, err)
	}
	defer sub.Unsubscribe()

	f.logger.Info("Waiting for new transactions...")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("%w: subscription: %v", ErrConnection, err)
		case hash := <-hashes:
			raw, err := f.fetch(ctx, hash)
			if err != nil {
				f.logger.Warn("Failed to retrieve transaction",
					zap.String("hash", hash.Hex()),
					zap.Error(err))
				continue
			}
			if raw == nil {
				continue
			}
			if !handle(ctx, raw) {
				return nil
			}
		}
	}
}

// fetch retrieves an announced transaction and converts it. Returns nil
// without error when the node no longer has the transaction.
func (f *PendingTransactionFeed) fetch(ctx context.Context, hash common.Hash) (*entity.RawTransaction, error) {
	tx, _, err := f.client.TransactionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRetrieval, hash.Hex(), err)
	}
	return rawFromTransaction(tx, f.signer)
}

// rawFromTransaction converts a node transaction into the feed's
// RawTransaction form. Block fields stay nil: the pending stream only carries
// transactions that have not been included yet.
func rawFromTransaction(tx *types.Transaction, signer types.Signer) (*entity.RawTransaction, error) {
	from, err := types.Sender(signer, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: recover sender of %s: %v", ErrParse, tx.Hash().Hex(), err)
	}

	return &entity.RawTransaction{
		Hash:     tx.Hash(),
		From:     from,
		To:       tx.To(),
		Value:    tx.Value(),
		GasPrice: tx.GasPrice(),
		Gas:      tx.Gas(),
		Nonce:    tx.Nonce(),
		ChainID:  tx.ChainId(),
		Input:    tx.Data(),
	}, nil
}
