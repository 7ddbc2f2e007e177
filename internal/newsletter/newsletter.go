// Package newsletter runs the subscription workflow in front of the CMS.
package newsletter

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/devcorner/devcorner-blog/internal/domain"
	"github.com/devcorner/devcorner-blog/internal/logger"
	"github.com/devcorner/devcorner-blog/pkg/cms"
	"github.com/devcorner/devcorner-blog/pkg/publishers"
)

const (
	MessageInvalidEmail      = "Please provide a valid email address"
	MessageAlreadySubscribed = "This email is already subscribed"
)

// Subscriber stores a subscription in the content backend.
type Subscriber interface {
	SubscribeToNewsletter(ctx context.Context, attrs domain.NewsletterAttributes) cms.Result[domain.Newsletter]
}

// Ledger remembers addresses that already subscribed.
type Ledger interface {
	SeenSubscription(email string) (bool, error)
	MarkSubscription(email string) error
}

// EventPublisher fans subscription events out to downstream sinks.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Service coordinates validation, deduplication, the CMS call and notifications.
type Service struct {
	cms    Subscriber
	ledger Ledger
	events EventPublisher
	log    logger.Logger
}

// NewService wires the workflow. ledger and events may be nil.
func NewService(sub Subscriber, ledger Ledger, events EventPublisher, log logger.Logger) (*Service, error) {
	if sub == nil {
		return nil, errors.New("newsletter service requires a cms subscriber")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{cms: sub, ledger: ledger, events: events, log: log}, nil
}

// Subscribe registers email. It never returns an error; failures are reported
// through the result like every other content operation.
func (s *Service) Subscribe(ctx context.Context, email string) cms.Result[domain.Newsletter] {
	addr, ok := normalizeEmail(email)
	if !ok {
		return cms.Fail[domain.Newsletter](MessageInvalidEmail, http.StatusBadRequest)
	}

	if s.ledger != nil {
		seen, err := s.ledger.SeenSubscription(addr)
		if err != nil {
			s.log.WarnObj("newsletter ledger lookup failed", "newsletter_ledger_error", map[string]any{
				"error": err.Error(),
			})
		} else if seen {
			return cms.Fail[domain.Newsletter](MessageAlreadySubscribed, http.StatusConflict)
		}
	}

	res := s.cms.SubscribeToNewsletter(ctx, domain.NewsletterAttributes{Email: addr})
	if !res.Success {
		s.log.WarnObj("newsletter subscription rejected", "newsletter_subscription", map[string]any{
			"status":  res.Status,
			"message": res.Message,
		})
		return res
	}

	if s.ledger != nil {
		if err := s.ledger.MarkSubscription(addr); err != nil {
			s.log.WarnObj("newsletter ledger update failed", "newsletter_ledger_error", map[string]any{
				"error": err.Error(),
			})
		}
	}

	s.notify(ctx, res.Data)
	s.log.InfoObj("newsletter subscription stored", "newsletter_subscription", map[string]any{
		"id":     res.Data.ID,
		"status": res.Status,
	})
	return res
}

func (s *Service) notify(ctx context.Context, sub domain.Newsletter) {
	if s.events == nil {
		return
	}
	evt := publishers.NewSubscriptionEvent(sub)
	delivered, err := s.events.Publish(ctx, evt)
	if err != nil {
		s.log.ErrorObj("newsletter event delivery failed", "newsletter_event_error", map[string]any{
			"event_id":  evt.ID,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}
}

// normalizeEmail lowercases and validates a bare address. Display names are rejected.
func normalizeEmail(raw string) (string, bool) {
	addr := strings.ToLower(strings.TrimSpace(raw))
	if addr == "" {
		return "", false
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr || !strings.Contains(addr[strings.LastIndex(addr, "@")+1:], ".") {
		return "", false
	}
	return addr, true
}
