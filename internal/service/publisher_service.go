package service

import (
	"context"
	"encoding/json"
	"log"

	"docqa-chat-be/internal/dto"
	"docqa-chat-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (s *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return s.pubSub.Publish(s.topicName, msg)
}

// publishActivity marshals one activity message and hands it to the topic.
// The feed is auxiliary, failures are logged and never fail the operation
// that produced the event.
func publishActivity(ctx context.Context, publisher IPublisherService, sessionID string, ev events.Event) {
	msg := dto.SessionActivityMessage{
		Type:       ev.EventType(),
		SessionID:  sessionID,
		Data:       ev.Payload(),
		OccurredAt: ev.Timestamp(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WARN] Failed to marshal %s activity: %v", ev.EventType(), err)
		return
	}
	if err := publisher.Publish(ctx, payload); err != nil {
		log.Printf("[WARN] Failed to publish %s activity: %v", ev.EventType(), err)
	}
}
