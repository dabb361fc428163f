package repositories

import (
	"context"

	domain "github.com/esmeraldas/zoosanitario/internal/domain/entities"
	shared "github.com/esmeraldas/zoosanitario/pkg/shared/domain/entities"
)

type Pagination interface {
	Limit() int64
	Offset() int64
}

// Page is the default Pagination. A zero Limit asks the API for every record.
type Page struct {
	Size  int64
	Start int64
}

func (p Page) Limit() int64  { return p.Size }
func (p Page) Offset() int64 { return p.Start }

// All requests the whole collection.
var All Pagination = Page{}

type MappedModel map[string]any

type UpdateMapped[T shared.Entity] interface {
	UpdateMapped(ctx context.Context, entity T, model *MappedModel) (T, error)
}

type CRUD[T shared.Entity, P Pagination] interface {
	Create(ctx context.Context, entity T) (T, error)
	Get(ctx context.Context, id shared.ID) (T, error)
	Update(ctx context.Context, entity T) (T, error)
	Delete(ctx context.Context, entity T) error
	Paginate(ctx context.Context, page P) ([]T, error)
	UpdateMapped() UpdateMapped[T]
}

type (
	RateRepository        CRUD[domain.Rate, Pagination]
	IntroducerRepository  CRUD[domain.Introducer, Pagination]
	InvoiceRepository     CRUD[domain.Invoice, Pagination]
	CertificateRepository CRUD[domain.ZoosanitaryCertificate, Pagination]
)

type MessageQueueParams interface {
	Get() map[string]any
}

type InitializeMessageQueue func(MessageQueueParams) (MessageQueue, error)

type MessageQueueConsumer interface {
	ToConsumeBuffered() <-chan domain.Event
	Close()
}

type MessageQueueProducer interface {
	ToProduceBuffered() chan<- domain.Event
	Close()
}

type MessageQueue interface {
	MessageQueueProducer
	MessageQueueConsumer
}
