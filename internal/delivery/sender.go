package delivery

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/unclebandit/ostrich-customer-api/internal/model"
)

// Sender hands a message to an SMS or WhatsApp provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of a provider.
type LogSender struct {
	Log *zap.Logger
}

func (s LogSender) Send(_ context.Context, msg Message) error {
	switch msg.Channel {
	case model.ChannelSMS, model.ChannelWhatsApp:
	default:
		return fmt.Errorf("unsupported channel %q", msg.Channel)
	}
	if msg.Phone == "" {
		return fmt.Errorf("message %s has no phone", msg.ID)
	}
	s.Log.Info("📩 outbound message",
		zap.String("id", msg.ID),
		zap.String("channel", msg.Channel),
		zap.String("phone", maskPhone(msg.Phone)),
		zap.String("purpose", msg.Purpose),
		zap.Int("chars", len(msg.Body)),
	)
	return nil
}

func maskPhone(p string) string {
	if len(p) <= 4 {
		return p
	}
	masked := make([]byte, len(p))
	for i := range p {
		if i < len(p)-4 {
			masked[i] = '*'
		} else {
			masked[i] = p[i]
		}
	}
	return string(masked)
}
