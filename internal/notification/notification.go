package notification

import (
	"context"
	"log/slog"
)

const (
	// KindOTPCode delivers a one-time login code.
	KindOTPCode = "otp_code"
	// KindOrderReceipt delivers a checkout receipt.
	KindOrderReceipt = "order_receipt"
)

// Message describes an outbound mail payload. Delivery is fire-and-forget:
// there is no retry or queueing behind this interface.
type Message struct {
	Kind        string
	ToAddress   string
	DisplayName string
	Subject     string
	BodyText    string
}

// Notifier delivers messages to the mail transport.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes messages to the structured logger instead of a real
// transport. Used in development and tests.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		"kind", message.Kind,
		"to", message.ToAddress,
		"subject", message.Subject,
		"body", message.BodyText,
	)
	return nil
}
