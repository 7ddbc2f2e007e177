package newsletter

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/devcorner/devcorner-blog/internal/domain"
	"github.com/devcorner/devcorner-blog/internal/logger"
	"github.com/devcorner/devcorner-blog/pkg/cms"
	"github.com/devcorner/devcorner-blog/pkg/publishers"
)

type fakeSubscriber struct {
	result cms.Result[domain.Newsletter]
	calls  []domain.NewsletterAttributes
}

func (f *fakeSubscriber) SubscribeToNewsletter(_ context.Context, attrs domain.NewsletterAttributes) cms.Result[domain.Newsletter] {
	f.calls = append(f.calls, attrs)
	return f.result
}

type memoryLedger struct {
	seen    map[string]bool
	seenErr error
}

func (m *memoryLedger) SeenSubscription(email string) (bool, error) {
	if m.seenErr != nil {
		return false, m.seenErr
	}
	return m.seen[email], nil
}

func (m *memoryLedger) MarkSubscription(email string) error {
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	m.seen[email] = true
	return nil
}

type recordingPublisher struct {
	events []publishers.Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	r.events = append(r.events, evt)
	if r.err != nil {
		return 0, r.err
	}
	return 1, nil
}

func newTestService(t *testing.T, sub Subscriber, ledger Ledger, events EventPublisher) *Service {
	t.Helper()
	svc, err := NewService(sub, ledger, events, logger.NopLogger{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestSubscribeStoresMarksAndNotifies(t *testing.T) {
	sub := &fakeSubscriber{result: cms.OK(domain.Newsletter{ID: 3, Email: "ada@example.com"}, http.StatusOK)}
	ledger := &memoryLedger{}
	events := &recordingPublisher{}
	svc := newTestService(t, sub, ledger, events)

	res := svc.Subscribe(context.Background(), "  Ada@Example.com ")
	if !res.Success || res.Data.ID != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(sub.calls) != 1 || sub.calls[0].Email != "ada@example.com" {
		t.Fatalf("cms not called with normalized email: %+v", sub.calls)
	}
	if !ledger.seen["ada@example.com"] {
		t.Fatalf("ledger not marked")
	}
	if len(events.events) != 1 || events.events[0].Type != publishers.EventNewsletterSubscribed {
		t.Fatalf("expected one subscription event, got %+v", events.events)
	}
	if events.events[0].Subscription.ID != 3 {
		t.Fatalf("event carries wrong subscription: %+v", events.events[0])
	}
}

func TestSubscribeRejectsInvalidEmail(t *testing.T) {
	sub := &fakeSubscriber{}
	svc := newTestService(t, sub, nil, nil)

	for _, email := range []string{"", "nope", "Ada <ada@example.com>", "ada@localhost"} {
		res := svc.Subscribe(context.Background(), email)
		if res.Success || res.Status != http.StatusBadRequest || res.Message != MessageInvalidEmail {
			t.Errorf("%q: unexpected result %+v", email, res)
		}
	}
	if len(sub.calls) != 0 {
		t.Fatalf("cms should not be called for invalid input")
	}
}

func TestSubscribeShortCircuitsKnownAddresses(t *testing.T) {
	sub := &fakeSubscriber{}
	ledger := &memoryLedger{seen: map[string]bool{"ada@example.com": true}}
	svc := newTestService(t, sub, ledger, nil)

	res := svc.Subscribe(context.Background(), "ada@example.com")
	if res.Success || res.Status != http.StatusConflict {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(sub.calls) != 0 {
		t.Fatalf("cms should not be called for known addresses")
	}
}

func TestSubscribeContinuesWhenLedgerFails(t *testing.T) {
	sub := &fakeSubscriber{result: cms.OK(domain.Newsletter{ID: 1}, http.StatusOK)}
	svc := newTestService(t, sub, &memoryLedger{seenErr: errors.New("disk")}, nil)

	if res := svc.Subscribe(context.Background(), "ada@example.com"); !res.Success {
		t.Fatalf("ledger errors must not block subscriptions: %+v", res)
	}
}

func TestSubscribePassesBackendFailureThrough(t *testing.T) {
	sub := &fakeSubscriber{result: cms.Fail[domain.Newsletter]("This attribute must be unique", http.StatusBadRequest)}
	ledger := &memoryLedger{}
	events := &recordingPublisher{}
	svc := newTestService(t, sub, ledger, events)

	res := svc.Subscribe(context.Background(), "ada@example.com")
	if res.Success || res.Status != http.StatusBadRequest || res.Message != "This attribute must be unique" {
		t.Fatalf("unexpected result %+v", res)
	}
	if ledger.seen["ada@example.com"] || len(events.events) != 0 {
		t.Fatalf("failed subscriptions must not be recorded or announced")
	}
}

func TestSubscribeIgnoresPublishFailures(t *testing.T) {
	sub := &fakeSubscriber{result: cms.OK(domain.Newsletter{ID: 1}, http.StatusOK)}
	svc := newTestService(t, sub, nil, &recordingPublisher{err: errors.New("queue down")})

	if res := svc.Subscribe(context.Background(), "ada@example.com"); !res.Success {
		t.Fatalf("publish errors must not surface: %+v", res)
	}
}

func TestNewServiceRequiresSubscriber(t *testing.T) {
	if _, err := NewService(nil, nil, nil, nil); err == nil {
		t.Fatal("expected error")
	}
}
