package mqtt

import (
	"context"
	"fmt"

	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
)

// Publisher sends JSON payloads to a topic
type Publisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// EventPublisher forwards moderation events to nah/moderation/<guildId>/<type>
type EventPublisher struct {
	publisher Publisher
}

// NewEventPublisher creates an event sink over publisher
func NewEventPublisher(publisher Publisher) *EventPublisher {
	return &EventPublisher{publisher: publisher}
}

// EventTopic returns the topic an event is published on
func EventTopic(event moderation.Event) string {
	return fmt.Sprintf("%s/moderation/%s/%s", TopicPrefix, event.GuildID, event.Type)
}

// Publish implements moderation.EventSink
func (p *EventPublisher) Publish(ctx context.Context, event moderation.Event) error {
	return p.publisher.Publish(ctx, EventTopic(event), event)
}
