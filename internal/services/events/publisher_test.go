package events

import (
	"context"
	"testing"
	"time"

	domain "github.com/esmeraldas/zoosanitario/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanQueue chan domain.Event

func (q chanQueue) ToProduceBuffered() chan<- domain.Event { return q }
func (q chanQueue) Close()                                 {}

func TestPublisher_Publish(t *testing.T) {
	q := make(chanQueue, 1)
	p := NewPublisher(q, nil)
	at := time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)
	p.now = func() time.Time { return at }

	p.Publish(context.Background(), domain.EventInvoicePaid, "17", map[string]string{"numero": "FAC-000017"})

	event := <-q
	assert.Equal(t, domain.EventInvoicePaid, event.Type)
	assert.Equal(t, domain.ID("17"), event.Subject)
	assert.Equal(t, at, event.OccurredAt)
	assert.JSONEq(t, `{"numero":"FAC-000017"}`, string(event.Payload))
}

func TestPublisher_DropsOnCancelledContext(t *testing.T) {
	q := make(chanQueue)
	p := NewPublisher(q, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p.Publish(ctx, domain.EventInvoiceCreated, "1", nil)
	require.Len(t, q, 0)
}

func TestPublisher_NilIsSafe(t *testing.T) {
	var p *Publisher
	p.Publish(context.Background(), domain.EventInvoiceCreated, "1", nil)
	NewPublisher(nil, nil).Publish(context.Background(), domain.EventInvoiceCreated, "1", nil)
}
