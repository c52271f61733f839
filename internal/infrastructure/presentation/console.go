package presentation

import (
	"fmt"
	"io"
	"os"
	"sync"

	"erc20-transfer-tracker/internal/domain/entity"
	"erc20-transfer-tracker/internal/domain/service"
)

// ConsoleReporter writes formatted transaction details to a writer, one block
// per matched transaction.
type ConsoleReporter struct {
	mu  sync.Mutex
	out io.Writer
}

var _ service.SummaryReporter = (*ConsoleReporter)(nil)

// NewConsoleReporter creates a reporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterTo creates a reporter writing to the given writer.
func NewConsoleReporterTo(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// ReportSummary prints a single matched transaction.
func (r *ConsoleReporter) ReportSummary(summary *entity.TransactionSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printSummary(summary)
}

// ReportFinal prints the closing report over all collected summaries.
func (r *ConsoleReporter) ReportFinal(summaries []*entity.TransactionSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "Collected %d matching transactions, sorted by value:\n", len(summaries))
	for _, summary := range summaries {
		r.printSummary(summary)
	}
}

func (r *ConsoleReporter) printSummary(s *entity.TransactionSummary) {
	fmt.Fprintln(r.out, "==================== Transaction Details ====================")
	fmt.Fprintf(r.out, "Transaction Hash: %s\n", s.Hash.Hex())
	fmt.Fprintf(r.out, "From Address: %s\n", s.From.Hex())
	if s.To != nil {
		fmt.Fprintf(r.out, "To Address: %s\n", s.To.Hex())
	} else {
		fmt.Fprintln(r.out, "To Address: None (Contract Creation)")
	}
	fmt.Fprintf(r.out, "Value Transferred (ETH): %s\n", s.ValueETH)
	fmt.Fprintf(r.out, "Gas Price (Gwei): %s\n", s.GasPriceGwei)
	fmt.Fprintf(r.out, "Gas Limit: %d\n", s.Gas)
	fmt.Fprintf(r.out, "Nonce: %d\n", s.Nonce)

	if s.BlockNumber != nil {
		fmt.Fprintf(r.out, "Block Number: %d\n", *s.BlockNumber)
	} else {
		fmt.Fprintln(r.out, "Block Number: Pending")
	}
	if s.TransactionIndex != nil {
		fmt.Fprintf(r.out, "Transaction Index in Block: %d\n", *s.TransactionIndex)
	} else {
		fmt.Fprintln(r.out, "Transaction Index: Pending")
	}
	if s.BlockHash != nil {
		fmt.Fprintf(r.out, "Block Hash: %s\n", s.BlockHash.Hex())
	} else {
		fmt.Fprintln(r.out, "Block Hash: Pending")
	}
	if s.ChainID != nil {
		fmt.Fprintf(r.out, "Chain ID: %s\n", s.ChainID.String())
	}

	if s.Transfer != nil {
		fmt.Fprintln(r.out, "Token Transfer Detected:")
		fmt.Fprintf(r.out, "  Token Contract: %s\n", s.Transfer.TokenContract.Hex())
		fmt.Fprintf(r.out, "  Recipient: %s\n", s.Transfer.Destination.Hex())
		fmt.Fprintf(r.out, "  Amount: %s\n", s.Transfer.Amount.String())
	} else {
		fmt.Fprintln(r.out, "Token Information: Not available")
	}

	fmt.Fprintln(r.out, "============================================================")
}
