package mapper

import (
	"crypto/sha256"
	"errors"
	"fmt"

	domain "github.com/esmeraldas/zoosanitario/internal/domain/entities"
	"github.com/esmeraldas/zoosanitario/internal/infrastructure/messaging/kafka/repositories/models"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

var ErrHashMismatch = errors.New("message content does not match its hash")

// Hash is the base58 SHA-256 digest of content, used as the Kafka key.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return base58.Encode(sum[:])
}

func ToMessage(event *domain.Event) (*models.Message, error) {
	if event == nil {
		return nil, errors.New("nil event")
	}
	serialized, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &models.Message{
		ID:      uuid.New(),
		Type:    string(event.Type),
		Content: string(serialized),
		Hash:    Hash(serialized),
	}, nil
}

func FromMessage(message *models.Message) (*domain.Event, error) {
	if message == nil {
		return nil, errors.New("nil message")
	}
	if message.Hash != "" && message.Hash != Hash([]byte(message.Content)) {
		return nil, fmt.Errorf("%w: message %s", ErrHashMismatch, message.ID)
	}

	event := new(domain.Event)
	if err := json.Unmarshal([]byte(message.Content), event); err != nil {
		return nil, err
	}

	return event, nil
}
