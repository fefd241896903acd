//go:build ignore

package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"docqa-chat-be/internal/config"
	"docqa-chat-be/pkg/events"
	pktNats "docqa-chat-be/pkg/nats"

	"github.com/fatih/color"
)

// Tails every session event mirrored to the NATS EVENTS stream.
// Run with: go run scripts/tail_events.go (requires NATS_URL)
func main() {
	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		log.Fatal("NATS_URL is not set")
	}

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect subscriber: %v", err)
	}
	defer sub.Close()

	err = sub.Subscribe("events.session.>", "tail-events", func(_ context.Context, ev events.Event) error {
		color.Cyan("[%s] %s", ev.Timestamp().Format("15:04:05"), ev.EventType())
		for k, v := range ev.Payload() {
			color.White("  %s: %v", k, v)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	color.Green("Tailing events.session.> (Ctrl+C to stop)")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
}
