package presentation

import (
	"bytes"
	"math/big"
	"testing"

	"erc20-transfer-tracker/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestReportSummary(t *testing.T) {
	to := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	summary := &entity.TransactionSummary{
		Hash:         common.HexToHash("0xabc"),
		From:         common.HexToAddress("0x5555555555555555555555555555555555555555"),
		To:           &to,
		ValueETH:     "2.5",
		GasPriceGwei: "30",
		Gas:          21000,
		Nonce:        7,
		ChainID:      big.NewInt(1),
		Transfer: &entity.DecodedTransfer{
			TokenContract: to,
			Destination:   common.HexToAddress("0x000000000000000000000000000000000000dEaD"),
			Amount:        big.NewInt(1000),
		},
	}

	var buf bytes.Buffer
	NewConsoleReporterTo(&buf).ReportSummary(summary)
	out := buf.String()

	require.Contains(t, out, "Transaction Details")
	require.Contains(t, out, "Value Transferred (ETH): 2.5")
	require.Contains(t, out, "Gas Price (Gwei): 30")
	require.Contains(t, out, "Block Number: Pending")
	require.Contains(t, out, "Token Transfer Detected:")
	require.Contains(t, out, "Amount: 1000")
}

func TestReportSummaryContractCreation(t *testing.T) {
	summary := &entity.TransactionSummary{
		Hash:         common.HexToHash("0xdef"),
		From:         common.HexToAddress("0x5555555555555555555555555555555555555555"),
		ValueETH:     "0",
		GasPriceGwei: "0",
	}

	var buf bytes.Buffer
	NewConsoleReporterTo(&buf).ReportSummary(summary)
	out := buf.String()

	require.Contains(t, out, "To Address: None (Contract Creation)")
	require.Contains(t, out, "Token Information: Not available")
}

func TestReportFinal(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewConsoleReporterTo(&buf)

	reporter.ReportFinal([]*entity.TransactionSummary{
		{Hash: common.HexToHash("0x01"), ValueETH: "1", GasPriceGwei: "1"},
		{Hash: common.HexToHash("0x02"), ValueETH: "2", GasPriceGwei: "1"},
	})

	out := buf.String()
	require.Contains(t, out, "Collected 2 matching transactions, sorted by value:")
	require.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("Transaction Details")))
	require.Contains(t, out, common.HexToHash("0x01").Hex())
}
