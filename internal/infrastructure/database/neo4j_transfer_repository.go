package database

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"erc20-transfer-tracker/internal/domain/entity"
	"erc20-transfer-tracker/internal/domain/repository"
	"erc20-transfer-tracker/internal/infrastructure/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Neo4JTransferRepository implements TransferRepository using Neo4J. Matched
// transactions become SENT relationships between wallets; decoded token
// transfers additionally become TRANSFERRED relationships through the token
// contract node.
type Neo4JTransferRepository struct {
	client *Neo4JClient
	logger *logger.Logger
}

// NewNeo4JTransferRepository creates a new Neo4J transfer repository
func NewNeo4JTransferRepository(client *Neo4JClient, log *logger.Logger) repository.TransferRepository {
	return &Neo4JTransferRepository{
		client: client,
		logger: log.WithComponent("neo4j-transfer-repository"),
	}
}

// SaveSummary persists a matched transaction summary.
func (r *Neo4JTransferRepository) SaveSummary(ctx context.Context, summary *entity.TransactionSummary) error {
	session := r.client.GetDriver().NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	observedAt := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	query := `
		MERGE (from:Wallet {address: $from_address})
		MERGE (to:Wallet {address: $to_address})
		CREATE (from)-[:SENT {
			tx_hash: $tx_hash,
			value_wei: $value_wei,
			value_eth: $value_eth,
			gas_price_gwei: $gas_price_gwei,
			observed_at: $observed_at
		}]->(to)
	`

	var toAddress string
	if summary.To != nil {
		toAddress = summary.To.Hex()
	}

	parameters := map[string]interface{}{
		"from_address":   summary.From.Hex(),
		"to_address":     toAddress,
		"tx_hash":        summary.Hash.Hex(),
		"value_wei":      bigIntString(summary.ValueWei),
		"value_eth":      summary.ValueETH,
		"gas_price_gwei": summary.GasPriceGwei,
		"observed_at":    observedAt,
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, query, parameters); err != nil {
			return nil, err
		}
		if summary.Transfer == nil {
			return nil, nil
		}
		return tx.Run(ctx, transferQuery, transferParameters(summary, observedAt))
	})

	if err != nil {
		r.logger.Error("Failed to save transaction summary",
			zap.String("tx_hash", summary.Hash.Hex()),
			zap.Error(err))
		return fmt.Errorf("failed to save transaction summary: %w", err)
	}

	return nil
}

const transferQuery = `
	MERGE (from:Wallet {address: $from_address})
	MERGE (dest:Wallet {address: $destination})
	MERGE (contract:TokenContract {address: $contract_address})
	CREATE (from)-[:TRANSFERRED {
		amount: $amount,
		tx_hash: $tx_hash,
		contract_address: $contract_address,
		observed_at: $observed_at
	}]->(dest)
	MERGE (from)-[:INTERACTED_WITH]->(contract)
	MERGE (dest)-[:INTERACTED_WITH]->(contract)
`

func transferParameters(summary *entity.TransactionSummary, observedAt string) map[string]interface{} {
	return map[string]interface{}{
		"from_address":     summary.From.Hex(),
		"destination":      summary.Transfer.Destination.Hex(),
		"contract_address": summary.Transfer.TokenContract.Hex(),
		"amount":           bigIntString(summary.Transfer.Amount),
		"tx_hash":          summary.Hash.Hex(),
		"observed_at":      observedAt,
	}
}

// GetTransfersForWallet retrieves stored transfers involving the wallet.
func (r *Neo4JTransferRepository) GetTransfersForWallet(ctx context.Context, address string, limit int) ([]*entity.DecodedTransfer, error) {
	session := r.client.GetDriver().NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	query := `
		MATCH (w:Wallet {address: $address})-[t:TRANSFERRED]-(other:Wallet)
		RETURN t.contract_address AS contract, endNode(t).address AS destination, t.amount AS amount
		ORDER BY t.observed_at DESC
		LIMIT $limit
	`

	parameters := map[string]interface{}{
		"address": address,
		"limit":   limit,
	}

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, parameters)
		if err != nil {
			return nil, err
		}

		var transfers []*entity.DecodedTransfer
		for res.Next(ctx) {
			record := res.Record()
			transfer, err := transferFromRecord(record)
			if err != nil {
				return nil, err
			}
			transfers = append(transfers, transfer)
		}
		return transfers, res.Err()
	})

	if err != nil {
		r.logger.Error("Failed to get transfers for wallet",
			zap.String("address", address),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get transfers for wallet: %w", err)
	}

	return result.([]*entity.DecodedTransfer), nil
}

// GetTransferCount returns the number of stored transfer relationships.
func (r *Neo4JTransferRepository) GetTransferCount(ctx context.Context) (int64, error) {
	session := r.client.GetDriver().NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, "MATCH ()-[t:TRANSFERRED]->() RETURN count(t) AS count", nil)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		count, _ := record.Get("count")
		return count, nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to count transfers: %w", err)
	}

	return result.(int64), nil
}

func transferFromRecord(record *neo4j.Record) (*entity.DecodedTransfer, error) {
	contract, _ := record.Get("contract")
	destination, _ := record.Get("destination")
	amountStr, _ := record.Get("amount")

	amount, ok := new(big.Int).SetString(amountStr.(string), 10)
	if !ok {
		return nil, fmt.Errorf("malformed stored amount: %v", amountStr)
	}

	return &entity.DecodedTransfer{
		TokenContract: common.HexToAddress(contract.(string)),
		Destination:   common.HexToAddress(destination.(string)),
		Amount:        amount,
	}, nil
}

func bigIntString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
