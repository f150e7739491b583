package service

import (
	"context"
	"time"

	"github.com/luisfernandomp/ApiDataDriven/internal/logging"
)

const (
	TopicCategoryEvents = "category_events"
	TopicProductEvents  = "product_events"
	TopicUserEvents     = "user_events"
)

// EventPublisher is satisfied by mykafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// publish sends a domain event best effort. A nil publisher or a broker
// failure never fails the request.
func publish(ctx context.Context, p EventPublisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", topic, "error", err)
	}
}
