package repository

import (
	"context"
	"sync"

	domain "github.com/esmeraldas/zoosanitario/internal/domain/entities"
	mapper "github.com/esmeraldas/zoosanitario/internal/infrastructure/messaging/kafka/repositories/mapper"
	models "github.com/esmeraldas/zoosanitario/internal/infrastructure/messaging/kafka/repositories/models"
	json "github.com/goccy/go-json"
	sdk "github.com/segmentio/kafka-go"
)

// MessageReader is the subset of *kafka.Reader used by the consumer.
type MessageReader interface {
	FetchMessage(ctx context.Context) (sdk.Message, error)
	CommitMessages(ctx context.Context, msgs ...sdk.Message) error
}

// delivery pairs a decoded event with the Kafka message to commit once the
// event has been handed over.
type delivery struct {
	event   *domain.Event
	message sdk.Message
}

func StartConsumer(
	ctx context.Context,
	wg *sync.WaitGroup,
	reader MessageReader,
	bucket chan<- delivery,
	errors chan<- error,
	confirmed <-chan sdk.Message,
) {
	defer wg.Done()

	// Read messages from the reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(bucket)

		for {
			data, err := reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				report(ctx, errors, err)
				continue
			}

			model := new(models.Message)
			if err := json.Unmarshal(data.Value, model); err != nil {
				report(ctx, errors, err)
				continue
			}

			event, err := mapper.FromMessage(model)
			if err != nil {
				report(ctx, errors, err)
				continue
			}

			select {
			case bucket <- delivery{event: event, message: data}:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Confirm messages
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-confirmed:
			if !ok {
				return
			}
			if err := reader.CommitMessages(ctx, msg); err != nil {
				report(ctx, errors, err)
			}
		}
	}
}
