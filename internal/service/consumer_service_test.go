package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"docqa-chat-be/internal/constant"
	"docqa-chat-be/internal/dto"
	"docqa-chat-be/internal/pkg/logger"
	"docqa-chat-be/internal/websocket"
	"docqa-chat-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *websocket.Hub {
	t.Helper()
	wsLogger := logger.NewIsolatedLogger(t.TempDir() + "/ws.log")
	hub := websocket.NewHub(nil, wsLogger)
	go hub.Run()
	return hub
}

func activityPayload(t *testing.T, sessionID string) []byte {
	t.Helper()
	ev := events.NewDocumentStoredEvent(sessionID, "report.pdf", 3, 42, 128, "Revenue grew.")
	msg := dto.SessionActivityMessage{
		Type:       ev.EventType(),
		SessionID:  sessionID,
		Data:       ev.Payload(),
		OccurredAt: ev.Timestamp(),
	}
	payload, err := json.Marshal(msg)
	require.NoError(t, err)
	return payload
}

func requireAcked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Acked():
	case <-msg.Nacked():
		t.Fatal("message was nacked, want ack")
	case <-time.After(time.Second):
		t.Fatal("message was neither acked nor nacked")
	}
}

func TestProcessMessageAcksSessionActivity(t *testing.T) {
	cs := NewConsumerService(nil, constant.SessionActivityTopic, newTestHub(t), nil).(*consumerService)

	msg := message.NewMessage(watermill.NewUUID(), activityPayload(t, "abc"))
	cs.processMessage(context.Background(), msg)

	requireAcked(t, msg)
}

func TestProcessMessageAcksBroadcastActivity(t *testing.T) {
	cs := NewConsumerService(nil, constant.SessionActivityTopic, newTestHub(t), nil).(*consumerService)

	ev := events.NewSessionsEvictedEvent(2, 86400)
	payload, err := json.Marshal(dto.SessionActivityMessage{
		Type:       ev.EventType(),
		Data:       ev.Payload(),
		OccurredAt: ev.Timestamp(),
	})
	require.NoError(t, err)

	msg := message.NewMessage(watermill.NewUUID(), payload)
	cs.processMessage(context.Background(), msg)

	requireAcked(t, msg)
}

func TestProcessMessageAcksInvalidPayload(t *testing.T) {
	cs := NewConsumerService(nil, constant.SessionActivityTopic, newTestHub(t), nil).(*consumerService)

	// Garbage must be acked, not nacked, or the bus would redeliver forever.
	msg := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	cs.processMessage(context.Background(), msg)

	requireAcked(t, msg)
}

func TestConsumeDeliversPublishedActivity(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	cs := NewConsumerService(pubSub, constant.SessionActivityTopic, newTestHub(t), nil)
	require.NoError(t, cs.Consume(ctx))

	pub := NewPublisherService(constant.SessionActivityTopic, pubSub)
	require.NoError(t, pub.Publish(ctx, activityPayload(t, "abc")))

	// Give the subscriber goroutine a beat to drain before shutdown.
	time.Sleep(50 * time.Millisecond)
}
