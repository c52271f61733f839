package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"erc20-transfer-tracker/internal/domain/entity"
	"erc20-transfer-tracker/internal/domain/service"
	"erc20-transfer-tracker/internal/infrastructure/config"
	"erc20-transfer-tracker/internal/infrastructure/logger"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSPublisher publishes matched transaction summaries to NATS.
type NATSPublisher struct {
	conn   *nats.Conn
	config *config.NATSConfig
	logger *logger.Logger
}

var _ service.SummaryPublisher = (*NATSPublisher)(nil)

// NewNATSPublisher creates a new NATS publisher
func NewNATSPublisher(cfg *config.NATSConfig, log *logger.Logger) *NATSPublisher {
	return &NATSPublisher{
		config: cfg,
		logger: log.WithComponent("nats-publisher"),
	}
}

// Connect connects to the NATS server. A disabled publisher connects to
// nothing and silently drops summaries.
func (n *NATSPublisher) Connect(ctx context.Context) error {
	if !n.config.Enabled {
		n.logger.Info("NATS is disabled, skipping connection")
		return nil
	}

	n.logger.Info("Connecting to NATS server", zap.String("url", n.config.URL))

	opts := []nats.Option{
		nats.Name("erc20-transfer-tracker"),
		nats.Timeout(n.config.ConnectTimeout),
		nats.ReconnectWait(n.config.ReconnectDelay),
		nats.MaxReconnects(n.config.ReconnectAttempts),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			n.logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			n.logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			n.logger.Info("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(n.config.URL, opts...)
	if err != nil {
		n.logger.Error("Failed to connect to NATS", zap.Error(err))
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	n.conn = conn
	n.logger.Info("Successfully connected to NATS")
	return nil
}

// PublishSummary publishes a matched summary as JSON to
// "<subject_prefix>.matches".
func (n *NATSPublisher) PublishSummary(ctx context.Context, summary *entity.TransactionSummary) error {
	if !n.config.Enabled || n.conn == nil {
		return nil
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	subject := fmt.Sprintf("%s.matches", n.config.SubjectPrefix)
	if err := n.conn.Publish(subject, data); err != nil {
		n.logger.Error("Failed to publish summary",
			zap.String("subject", subject),
			zap.String("hash", summary.Hash.Hex()),
			zap.Error(err))
		return fmt.Errorf("failed to publish summary: %w", err)
	}

	n.logger.Debug("Published summary",
		zap.String("subject", subject),
		zap.String("hash", summary.Hash.Hex()))
	return nil
}

// Disconnect flushes and closes the NATS connection.
func (n *NATSPublisher) Disconnect() error {
	if n.conn != nil {
		if err := n.conn.Flush(); err != nil {
			n.logger.Warn("Failed to flush NATS connection", zap.Error(err))
		}
		n.conn.Close()
		n.conn = nil
	}
	n.logger.Info("Disconnected from NATS")
	return nil
}

// IsConnected checks if connected to NATS
func (n *NATSPublisher) IsConnected() bool {
	return n.conn != nil && n.conn.IsConnected()
}
