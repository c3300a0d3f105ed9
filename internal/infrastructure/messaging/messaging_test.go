package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "stockview/internal/core/context"
	"stockview/internal/core/id"
	"stockview/internal/domain"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	mu         sync.Mutex
	exchanges  []string
	bindings   map[string]string
	published  []published
	publishErr error
	deliveries chan amqp.Delivery
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{bindings: map[string]string{}, deliveries: make(chan amqp.Delivery, 8)}
}

func (f *fakeChannel) ExchangeDeclare(name, _ string, _, _, _, _ bool, _ amqp.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchanges = append(f.exchanges, name)
	return nil
}

func (f *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) QueueBind(name, key, _ string, _ bool, _ amqp.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bindings[name] = key
	return nil
}

func (f *fakeChannel) Qos(int, int, bool) error { return nil }

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeChannel) Close() error { return nil }

// fakeAck records the outcome of each delivery.
type fakeAck struct {
	mu      sync.Mutex
	outcome []string
	done    chan struct{}
}

func newFakeAck() *fakeAck { return &fakeAck{done: make(chan struct{}, 8)} }

func (a *fakeAck) record(s string) error {
	a.mu.Lock()
	a.outcome = append(a.outcome, s)
	a.mu.Unlock()
	a.done <- struct{}{}
	return nil
}

func (a *fakeAck) Ack(uint64, bool) error { return a.record("ack") }

func (a *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	if requeue {
		return a.record("requeue")
	}
	return a.record("nack")
}

func (a *fakeAck) Reject(uint64, bool) error { return a.record("reject") }

func (a *fakeAck) wait(t *testing.T, n int) []string {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-a.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d", i+1)
		}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.outcome...)
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "inventory.delivery_note.confirmed",
		RoutingKey(domain.ChangeScope{Kind: domain.ChangeDeliveryNote, Action: "confirmed"}))
	assert.Equal(t, "inventory.all.changed", RoutingKey(domain.ChangeScope{}))
}

func TestPublisher_NotifyChange(t *testing.T) {
	ch := newFakeChannel()
	pub, err := NewPublisher(NewWithChannel(ch), "", "stockview-test")
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultExchange}, ch.exchanges)

	itemID := id.New()
	ctx := appctx.WithTrace(context.Background(), &appctx.TraceContext{RequestID: "req-1"})
	pub.NotifyChange(ctx, domain.ChangeScope{Kind: domain.ChangeItem, Action: "updated", RecordID: itemID, ItemIDs: []id.ID{itemID}})

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, DefaultExchange, got.exchange)
	assert.Equal(t, "inventory.item.updated", got.key)
	assert.Equal(t, "req-1", got.msg.CorrelationId)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)

	var event Event
	require.NoError(t, json.Unmarshal(got.msg.Body, &event))
	assert.Equal(t, "stockview-test", event.Source)
	assert.Equal(t, []id.ID{itemID}, event.Scope.ItemIDs)
}

func TestPublisher_FailureIsSwallowed(t *testing.T) {
	ch := newFakeChannel()
	ch.publishErr = errors.New("broker down")
	pub, err := NewPublisher(NewWithChannel(ch), "", "stockview-test")
	require.NoError(t, err)

	assert.Error(t, pub.Publish(context.Background(), domain.ChangeScope{Kind: domain.ChangeItem}))
	assert.NotPanics(t, func() {
		pub.NotifyChange(context.Background(), domain.ChangeScope{Kind: domain.ChangeItem})
	})
}

func TestConsumer_Dispatch(t *testing.T) {
	ch := newFakeChannel()
	ack := newFakeAck()

	var mu sync.Mutex
	var seen []string
	handler := func(ctx context.Context, event *Event) error {
		mu.Lock()
		seen = append(seen, appctx.GetRequestID(ctx))
		mu.Unlock()
		if event.Scope.Action == "fail" {
			return errors.New("boom")
		}
		return nil
	}

	consumer, err := NewConsumer(NewWithChannel(ch), "", "stockview.worker", handler)
	require.NoError(t, err)
	assert.Equal(t, RoutingPatternAll, ch.bindings["stockview.worker"])

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()

	encode := func(action string) []byte {
		body, err := json.Marshal(NewEvent("test", "corr-"+action, domain.ChangeScope{Kind: domain.ChangeItem, Action: action}))
		require.NoError(t, err)
		return body
	}

	ch.deliveries <- amqp.Delivery{Acknowledger: ack, Body: encode("ok")}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, Body: encode("fail")}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, Body: encode("fail"), Redelivered: true}

	assert.Equal(t, []string{"ack", "reject", "requeue", "reject"}, ack.wait(t, 4))

	mu.Lock()
	assert.Equal(t, []string{"corr-ok", "corr-fail", "corr-fail"}, seen)
	mu.Unlock()

	cancel()
	require.NoError(t, <-done)
}
