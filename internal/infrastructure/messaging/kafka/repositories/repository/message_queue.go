package repository

import (
	"context"
	"errors"
	"sync"

	domain "github.com/esmeraldas/zoosanitario/internal/domain/entities"
	domainrepos "github.com/esmeraldas/zoosanitario/internal/domain/repositories"
	sdk "github.com/segmentio/kafka-go"
)

// KafkaMessageQueueParams implements repositories.MessageQueueParams
// and provides configuration for initializing KafkaMessageQueue.
type KafkaMessageQueueParams struct {
	// Required
	Brokers []string
	Topic   string

	// Optional
	GroupID          string
	ToProduceBufSize int
	ToConsumeBufSize int
	// Produce and Consume select the workers to start. Both false starts both.
	Produce bool
	Consume bool
}

func (p KafkaMessageQueueParams) Get() map[string]any {
	return map[string]any{
		"brokers":         p.Brokers,
		"topic":           p.Topic,
		"groupId":         p.GroupID,
		"toProduceBuffer": p.ToProduceBufSize,
		"toConsumeBuffer": p.ToConsumeBufSize,
		"produce":         p.Produce,
		"consume":         p.Consume,
	}
}

func (p KafkaMessageQueueParams) withDefaults() KafkaMessageQueueParams {
	if p.ToProduceBufSize <= 0 {
		p.ToProduceBufSize = 1024
	}
	if p.ToConsumeBufSize <= 0 {
		p.ToConsumeBufSize = 1024
	}
	if !p.Produce && !p.Consume {
		p.Produce, p.Consume = true, true
	}
	return p
}

// KafkaMessageQueue implements domain MessageQueue interfaces
// by bridging to the StartProducer/StartConsumer workers.
type KafkaMessageQueue struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     *sync.WaitGroup
	once   sync.Once

	reader MessageReader
	writer MessageWriter
	commit bool

	// External facing channels (Event based)
	toProduce chan domain.Event
	toConsume chan domain.Event

	// Internal bridges
	flush         chan chan struct{}
	consBucket    chan delivery
	errs          chan error
	confirmations chan sdk.Message
}

// InitializeKafkaMessageQueue creates a KafkaMessageQueue using params.
func InitializeKafkaMessageQueue(params domainrepos.MessageQueueParams) (domainrepos.MessageQueue, error) {
	typed, ok := params.(KafkaMessageQueueParams)
	if !ok {
		return nil, errors.New("kafka: unexpected params type")
	}
	if err := ValidateKafkaParams(typed); err != nil {
		return nil, err
	}
	typed = typed.withDefaults()

	var (
		writer MessageWriter
		reader MessageReader
	)
	if typed.Produce {
		writer = &sdk.Writer{
			Addr:         sdk.TCP(typed.Brokers...),
			Topic:        typed.Topic,
			RequiredAcks: sdk.RequireAll,
			Balancer:     &sdk.LeastBytes{},
		}
	}
	if typed.Consume {
		reader = sdk.NewReader(sdk.ReaderConfig{
			Brokers: typed.Brokers,
			Topic:   typed.Topic,
			GroupID: typed.GroupID,
		})
	}

	return NewKafkaMessageQueue(reader, writer, typed), nil
}

// NewKafkaMessageQueue starts workers over the given reader and writer.
// Either may be nil to run one direction only.
func NewKafkaMessageQueue(reader MessageReader, writer MessageWriter, params KafkaMessageQueueParams) *KafkaMessageQueue {
	params = params.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	mq := &KafkaMessageQueue{
		ctx:           ctx,
		cancel:        cancel,
		wg:            &sync.WaitGroup{},
		reader:        reader,
		writer:        writer,
		commit:        params.GroupID != "",
		toProduce:     make(chan domain.Event, params.ToProduceBufSize),
		toConsume:     make(chan domain.Event, params.ToConsumeBufSize),
		flush:         make(chan chan struct{}),
		consBucket:    make(chan delivery, params.ToConsumeBufSize),
		errs:          make(chan error, 16),
		confirmations: make(chan sdk.Message, 16),
	}

	mq.startWorkers()
	return mq
}

func (q *KafkaMessageQueue) startWorkers() {
	if q.writer != nil {
		q.wg.Add(1)
		go StartProducer(q.ctx, q.wg, q.writer, q.toProduce, q.flush, q.errs)
	}

	if q.reader != nil {
		q.wg.Add(1)
		go StartConsumer(q.ctx, q.wg, q.reader, q.consBucket, q.errs, q.confirmations)

		// Bridge consBucket -> toConsume and confirmation
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for d := range q.consBucket {
				select {
				case q.toConsume <- *d.event:
				case <-q.ctx.Done():
					return
				}
				if !q.commit {
					continue
				}
				select {
				case q.confirmations <- d.message:
				case <-q.ctx.Done():
					return
				}
			}
		}()
	}
}

// ToConsumeBuffered exposes the consumer channel of events. It is closed
// by Close.
func (q *KafkaMessageQueue) ToConsumeBuffered() <-chan domain.Event {
	return q.toConsume
}

// ToProduceBuffered exposes the producer channel of events.
func (q *KafkaMessageQueue) ToProduceBuffered() chan<- domain.Event {
	return q.toProduce
}

// Errors exposes worker failures. Errors are dropped when nobody reads.
func (q *KafkaMessageQueue) Errors() <-chan error {
	return q.errs
}

// Flush blocks until every event handed to ToProduceBuffered before the
// call has been written.
func (q *KafkaMessageQueue) Flush(ctx context.Context) error {
	if q.writer == nil {
		return nil
	}
	reply := make(chan struct{})
	select {
	case q.flush <- reply:
	case <-q.ctx.Done():
		return errors.New("kafka: message queue closed")
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-q.ctx.Done():
		return errors.New("kafka: message queue closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops workers and closes resources. Events still buffered in
// ToProduceBuffered are dropped; call Flush first to keep them.
func (q *KafkaMessageQueue) Close() {
	q.once.Do(func() {
		q.cancel()

		if c, ok := q.reader.(interface{ Close() error }); ok {
			_ = c.Close()
		}
		if c, ok := q.writer.(interface{ Close() error }); ok {
			_ = c.Close()
		}

		q.wg.Wait()
		close(q.toConsume)
	})
}

// Compile-time assertions to ensure interface conformance
var _ domainrepos.MessageQueueConsumer = (*KafkaMessageQueue)(nil)
var _ domainrepos.MessageQueueProducer = (*KafkaMessageQueue)(nil)
var _ domainrepos.MessageQueue = (*KafkaMessageQueue)(nil)
var _ domainrepos.InitializeMessageQueue = InitializeKafkaMessageQueue

// ValidateKafkaParams ensures required params are set.
func ValidateKafkaParams(p KafkaMessageQueueParams) error {
	if len(p.Brokers) == 0 {
		return errors.New("kafka brokers are required")
	}
	if p.Topic == "" {
		return errors.New("kafka topic is required")
	}
	return nil
}
