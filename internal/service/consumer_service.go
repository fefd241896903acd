// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"docqa-chat-be/internal/dto"
	"docqa-chat-be/internal/websocket"
	"docqa-chat-be/pkg/events"
	pktNats "docqa-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	hub           *websocket.Hub
	natsPublisher *pktNats.Publisher // nil when NATS is not configured
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	natsPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		hub:           hub,
		natsPublisher: natsPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SessionActivityMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal activity message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing activity %s for session %s", payload.Type, payload.SessionID)

	// Fan the original frame out to websocket watchers. Store-wide events
	// carry no session id and go to everyone.
	if payload.SessionID != "" {
		cs.hub.SendToSession(payload.SessionID, msg.Payload)
	} else {
		cs.hub.Broadcast(msg.Payload)
	}

	// Mirror to the NATS bus when configured. The bus is auxiliary, a
	// failed mirror is not worth redelivering the whole message for.
	if cs.natsPublisher != nil {
		evt := events.BaseEvent{
			Type:       payload.Type,
			Data:       payload.Data,
			OccurredAt: payload.OccurredAt,
		}
		if err := cs.natsPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to mirror %s event to NATS: %v", payload.Type, err)
		}
	}

	log.Printf("[SUCCESS] Activity processed: %s for session %s", payload.Type, payload.SessionID)
	msg.Ack()
}
