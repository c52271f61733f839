package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"erc20-transfer-tracker/internal/domain/entity"
	"erc20-transfer-tracker/internal/infrastructure/blockchain"
	"erc20-transfer-tracker/internal/infrastructure/config"
	"erc20-transfer-tracker/internal/infrastructure/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

const targetHex = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"

type captureReporter struct {
	matched []*entity.TransactionSummary
	final   []*entity.TransactionSummary
}

func (r *captureReporter) ReportSummary(summary *entity.TransactionSummary) {
	r.matched = append(r.matched, summary)
}

func (r *captureReporter) ReportFinal(summaries []*entity.TransactionSummary) {
	r.final = summaries
}

type failingPublisher struct{ err error }

func (p *failingPublisher) PublishSummary(ctx context.Context, summary *entity.TransactionSummary) error {
	return p.err
}

func newTestTracker(t *testing.T, limit int, reporter *captureReporter) *TrackingApplicationService {
	t.Helper()
	log := logger.NewNopLogger()
	svc := NewTrackingApplicationService(
		&config.TrackerConfig{TargetAddress: targetHex, MatchLimit: limit},
		blockchain.NewTransferDecoder(log),
		blockchain.NewTransactionSummarizer(),
		nil,
		nil,
		reporter,
		log,
	)
	return svc.(*TrackingApplicationService)
}

func rawTx(hash byte, to *common.Address, value *big.Int, input []byte) *entity.RawTransaction {
	return &entity.RawTransaction{
		Hash:     common.BytesToHash([]byte{hash}),
		From:     common.HexToAddress("0x5555555555555555555555555555555555555555"),
		To:       to,
		Value:    value,
		GasPrice: big.NewInt(1_000_000_000),
		Gas:      21000,
		Input:    input,
	}
}

func transferInput(destination common.Address, amount *big.Int) []byte {
	data := append([]byte{0xa9, 0x05, 0x9c, 0xbb}, common.LeftPadBytes(destination.Bytes(), 32)...)
	return append(data, common.LeftPadBytes(amount.Bytes(), 32)...)
}

func TestProcessTransactionIgnoresNonMatching(t *testing.T) {
	reporter := &captureReporter{}
	tracker := newTestTracker(t, 5, reporter)
	ctx := context.Background()

	other := common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")

	summary, err := tracker.ProcessTransaction(ctx, rawTx(1, &other, big.NewInt(1), nil))
	require.NoError(t, err)
	require.Nil(t, summary)

	summary, err = tracker.ProcessTransaction(ctx, rawTx(2, nil, big.NewInt(1), nil))
	require.NoError(t, err)
	require.Nil(t, summary)

	require.Zero(t, tracker.MatchCount())
	require.Empty(t, reporter.matched)
}

func TestProcessTransactionMatchesAndDecodes(t *testing.T) {
	reporter := &captureReporter{}
	tracker := newTestTracker(t, 5, reporter)
	ctx := context.Background()

	target := common.HexToAddress(targetHex)
	destination := common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	amount := big.NewInt(123456)

	summary, err := tracker.ProcessTransaction(ctx, rawTx(1, &target, big.NewInt(0), transferInput(destination, amount)))
	require.NoError(t, err)
	require.NotNil(t, summary)
	require.NotNil(t, summary.Transfer)
	require.Equal(t, target, summary.Transfer.TokenContract)
	require.Equal(t, destination, summary.Transfer.Destination)
	require.Zero(t, amount.Cmp(summary.Transfer.Amount))

	// Plain call to the target without recognizable transfer data still
	// matches, with no transfer attached.
	summary, err = tracker.ProcessTransaction(ctx, rawTx(2, &target, big.NewInt(10), []byte{0x01, 0x02}))
	require.NoError(t, err)
	require.NotNil(t, summary)
	require.Nil(t, summary.Transfer)

	require.Equal(t, 2, tracker.MatchCount())
	require.Len(t, reporter.matched, 2)
	require.False(t, tracker.Done())
}

func TestDoneAfterMatchLimit(t *testing.T) {
	reporter := &captureReporter{}
	tracker := newTestTracker(t, 2, reporter)
	ctx := context.Background()

	target := common.HexToAddress(targetHex)
	for i := byte(1); i <= 2; i++ {
		_, err := tracker.ProcessTransaction(ctx, rawTx(i, &target, big.NewInt(int64(i)), nil))
		require.NoError(t, err)
	}

	require.True(t, tracker.Done())
}

func TestFinalReportSortsByValueAscending(t *testing.T) {
	reporter := &captureReporter{}
	tracker := newTestTracker(t, 5, reporter)
	ctx := context.Background()

	target := common.HexToAddress(targetHex)
	values := []int64{300, 100, 200}
	for i, v := range values {
		_, err := tracker.ProcessTransaction(ctx, rawTx(byte(i+1), &target, big.NewInt(v), nil))
		require.NoError(t, err)
	}

	require.NoError(t, tracker.FinalReport(ctx))
	require.Len(t, reporter.final, 3)

	var got []int64
	for _, s := range reporter.final {
		got = append(got, s.ValueWei.Int64())
	}
	require.Equal(t, []int64{100, 200, 300}, got)

	// Per-match reporting stays in observation order.
	require.Equal(t, int64(300), reporter.matched[0].ValueWei.Int64())
}

func TestSinkFailureKeepsSummary(t *testing.T) {
	reporter := &captureReporter{}
	log := logger.NewNopLogger()
	pubErr := errors.New("broker unavailable")
	svc := NewTrackingApplicationService(
		&config.TrackerConfig{TargetAddress: targetHex, MatchLimit: 5},
		blockchain.NewTransferDecoder(log),
		blockchain.NewTransactionSummarizer(),
		nil,
		&failingPublisher{err: pubErr},
		reporter,
		log,
	)
	tracker := svc.(*TrackingApplicationService)

	target := common.HexToAddress(targetHex)
	summary, err := tracker.ProcessTransaction(context.Background(), rawTx(1, &target, big.NewInt(1), nil))
	require.ErrorIs(t, err, pubErr)
	require.NotNil(t, summary)
	require.Equal(t, 1, tracker.MatchCount())
}
