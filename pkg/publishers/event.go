package publishers

import (
	"time"

	"github.com/google/uuid"

	"github.com/devcorner/devcorner-blog/internal/domain"
)

// EventNewsletterSubscribed is emitted once per accepted newsletter subscription.
const EventNewsletterSubscribed = "newsletter.subscribed"

// Event represents the payload published downstream.
type Event struct {
	ID           string            `json:"id"`
	Type         string            `json:"type"`
	Subscription domain.Newsletter `json:"subscription"`
	OccurredAt   time.Time         `json:"occurred_at"`
}

// NewSubscriptionEvent constructs the event announcing a new subscriber.
func NewSubscriptionEvent(sub domain.Newsletter) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         EventNewsletterSubscribed,
		Subscription: sub,
		OccurredAt:   time.Now().UTC(),
	}
}

// attributes are attached as message metadata by queue-backed publishers.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_id":   e.ID,
		"event_type": e.Type,
	}
}
