package events_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/linguaplay/scoring-service/internal/config"
	"github.com/linguaplay/scoring-service/internal/events"
)

// Example_progressEventStream wires the in-process publisher the way the
// server does and consumes its own events.
func Example_progressEventStream() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.EventConfig{Enabled: true, Publisher: "memory", Topic: "progress-events"}
	publisher, err := cfg.CreateEventPublisher(logger)
	if err != nil {
		fmt.Println("create publisher:", err)
		return
	}
	defer publisher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	local, ok := publisher.(*events.InMemoryEventPublisher)
	if !ok {
		fmt.Println("expected an in-memory publisher")
		return
	}
	messages, err := local.Subscribe(ctx)
	if err != nil {
		fmt.Println("subscribe:", err)
		return
	}

	received := make(chan events.Event, 1)
	go events.Consume(ctx, messages, func(_ context.Context, event events.Event) error {
		received <- event
		return nil
	}, logger)

	if err := publisher.Publish(ctx, events.NewStreakMilestoneEvent("learner-1", 7, "Week Warrior")); err != nil {
		fmt.Println("publish:", err)
		return
	}

	event := <-received
	fmt.Println(event.Type, event.UserID)
	// Output: streak.milestone learner-1
}
