package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"erc20-transfer-tracker/internal/domain/entity"
	"erc20-transfer-tracker/internal/domain/repository"
	"erc20-transfer-tracker/internal/domain/service"
	"erc20-transfer-tracker/internal/infrastructure/blockchain"
	"erc20-transfer-tracker/internal/infrastructure/config"
	"erc20-transfer-tracker/internal/infrastructure/logger"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// TrackingApplicationService implements TrackingService. It runs each
// observed transaction through match, decode, and summarize, delivers
// matches to the configured sinks, and holds the only pipeline state: the
// collected matches and their count.
type TrackingApplicationService struct {
	target     common.Address
	matchLimit int
	decoder    service.TransferDecoderService
	summarizer service.TransactionSummarizerService
	transfers  repository.TransferRepository
	publisher  service.SummaryPublisher
	reporter   service.SummaryReporter
	logger     *logger.Logger

	mu        sync.Mutex
	summaries []*entity.TransactionSummary
}

// NewTrackingApplicationService creates a new tracking application service.
// The repository and publisher sinks may be nil when disabled.
func NewTrackingApplicationService(
	cfg *config.TrackerConfig,
	decoder service.TransferDecoderService,
	summarizer service.TransactionSummarizerService,
	transfers repository.TransferRepository,
	publisher service.SummaryPublisher,
	reporter service.SummaryReporter,
	log *logger.Logger,
) service.TrackingService {
	return &TrackingApplicationService{
		target:     cfg.Target(),
		matchLimit: cfg.MatchLimit,
		decoder:    decoder,
		summarizer: summarizer,
		transfers:  transfers,
		publisher:  publisher,
		reporter:   reporter,
		logger:     log.WithComponent("tracking-service"),
	}
}

// ProcessTransaction classifies one observed transaction. Non-matching
// transactions return (nil, nil). For a match, the summary is built,
// collected, and handed to every sink; sink failures are joined into the
// returned error but never discard the summary.
func (s *TrackingApplicationService) ProcessTransaction(ctx context.Context, tx *entity.RawTransaction) (*entity.TransactionSummary, error) {
	if !blockchain.MatchesTarget(tx.To, s.target) {
		return nil, nil
	}

	s.logger.Info("Analyzing transaction with address",
		zap.String("hash", tx.Hash.Hex()),
		zap.String("to", tx.To.Hex()))

	transfer := s.decoder.Decode(*tx.To, tx.Input)
	summary := s.summarizer.Summarize(tx, transfer)

	s.mu.Lock()
	s.summaries = append(s.summaries, summary)
	count := len(s.summaries)
	s.mu.Unlock()

	s.logger.Info("Matched transaction",
		zap.String("hash", summary.Hash.Hex()),
		zap.String("value_eth", summary.ValueETH),
		zap.Bool("token_transfer", summary.Transfer != nil),
		zap.Int("match_count", count))

	var sinkErr error
	if s.reporter != nil {
		s.reporter.ReportSummary(summary)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishSummary(ctx, summary); err != nil {
			sinkErr = errors.Join(sinkErr, fmt.Errorf("publish: %w", err))
		}
	}
	if s.transfers != nil {
		if err := s.transfers.SaveSummary(ctx, summary); err != nil {
			sinkErr = errors.Join(sinkErr, fmt.Errorf("persist: %w", err))
		}
	}

	return summary, sinkErr
}

// MatchCount returns the number of matched transactions so far.
func (s *TrackingApplicationService) MatchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.summaries)
}

// Done reports whether the configured match limit has been reached.
func (s *TrackingApplicationService) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.summaries) >= s.matchLimit
}

// FinalReport emits the collected summaries sorted by transferred value
// ascending.
func (s *TrackingApplicationService) FinalReport(ctx context.Context) error {
	s.mu.Lock()
	sorted := make([]*entity.TransactionSummary, len(s.summaries))
	copy(sorted, s.summaries)
	s.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return compareValues(sorted[i].ValueWei, sorted[j].ValueWei) < 0
	})

	s.logger.Info("Emitting final report",
		zap.String("target", s.target.Hex()),
		zap.Int("matches", len(sorted)))

	if s.reporter != nil {
		s.reporter.ReportFinal(sorted)
	}
	return nil
}

func compareValues(a, b *big.Int) int {
	if a == nil {
		a = new(big.Int)
	}
	if b == nil {
		b = new(big.Int)
	}
	return a.Cmp(b)
}
