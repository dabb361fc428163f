package repository

import (
	"context"
	"sync"

	domain "github.com/esmeraldas/zoosanitario/internal/domain/entities"
	mapper "github.com/esmeraldas/zoosanitario/internal/infrastructure/messaging/kafka/repositories/mapper"
	json "github.com/goccy/go-json"
	sdk "github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer used by the producer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...sdk.Message) error
}

// StartProducer writes events from bucket until ctx ends. A request on
// flush is answered once every event already buffered in bucket has been
// written.
func StartProducer(
	ctx context.Context,
	wg *sync.WaitGroup,
	writer MessageWriter,
	bucket <-chan domain.Event,
	flush <-chan chan struct{},
	errors chan<- error,
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-bucket:
			if !ok {
				return
			}
			produce(ctx, writer, &event, errors)
		case reply := <-flush:
		drain:
			for {
				select {
				case event := <-bucket:
					produce(ctx, writer, &event, errors)
				default:
					break drain
				}
			}
			close(reply)
		}
	}
}

func produce(ctx context.Context, writer MessageWriter, event *domain.Event, errors chan<- error) {
	model, err := mapper.ToMessage(event)
	if err != nil {
		report(ctx, errors, err)
		return
	}

	serialized, err := json.Marshal(model)
	if err != nil {
		report(ctx, errors, err)
		return
	}
	err = writer.WriteMessages(ctx, sdk.Message{
		Key:   []byte(model.Hash),
		Value: serialized,
		Headers: []sdk.Header{
			{Key: "type", Value: []byte(model.Type)},
		},
	})
	if err != nil {
		report(ctx, errors, err)
	}
}

// report forwards err unless the error channel is full or ctx is done.
func report(ctx context.Context, errors chan<- error, err error) {
	select {
	case errors <- err:
	case <-ctx.Done():
	default:
	}
}
