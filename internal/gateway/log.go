package gateway

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes notifications to the log instead of delivering them.
// Used when no Telegram token is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates the notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the would-be message.
func (n *LogNotifier) Notify(_ context.Context, address, text string) error {
	n.logger.Info("notification (log only)",
		zap.String("address", address),
		zap.String("text", text),
	)
	return nil
}
