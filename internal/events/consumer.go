package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Handler receives a decoded event.
type Handler func(ctx context.Context, event Event) error

// Consume decodes messages until ctx is cancelled or the channel closes.
// Every message is acked; handler failures are only logged.
func Consume(ctx context.Context, messages <-chan *message.Message, handler Handler, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				logger.Warn("Dropping undecodable event", "message_uuid", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			if err := handler(ctx, event); err != nil {
				logger.Error("Event handler failed", "event_id", event.ID, "event_type", event.Type, "error", err)
			}
			msg.Ack()
		}
	}
}

// LogHandler logs every event it receives.
func LogHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, event Event) error {
		logger.InfoContext(ctx, "Event received",
			"event_id", event.ID,
			"event_type", event.Type,
			"user_id", event.UserID)
		return nil
	}
}
