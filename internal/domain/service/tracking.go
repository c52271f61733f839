package service

import (
	"context"

	"erc20-transfer-tracker/internal/domain/entity"
)

// TrackingService defines the interface for the transaction tracking pipeline.
type TrackingService interface {
	// ProcessTransaction classifies a single observed transaction. Returns the
	// assembled summary when the transaction is addressed to the configured
	// contract, or nil when it is not relevant. Sink delivery failures are
	// returned but do not invalidate the summary.
	ProcessTransaction(ctx context.Context, tx *entity.RawTransaction) (*entity.TransactionSummary, error)

	// MatchCount returns the number of matched transactions so far.
	MatchCount() int

	// Done reports whether the configured match limit has been reached.
	Done() bool

	// FinalReport emits the collected summaries, sorted by transferred value
	// ascending, to the reporter.
	FinalReport(ctx context.Context) error
}

// SummaryPublisher delivers matched summaries to an external message broker.
type SummaryPublisher interface {
	PublishSummary(ctx context.Context, summary *entity.TransactionSummary) error
}

// SummaryReporter presents matched summaries to the operator.
type SummaryReporter interface {
	// ReportSummary presents a single summary as it is matched.
	ReportSummary(summary *entity.TransactionSummary)

	// ReportFinal presents the closing report over all collected summaries.
	ReportFinal(summaries []*entity.TransactionSummary)
}
