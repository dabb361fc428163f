package models

import "github.com/google/uuid"

type Message struct {
	ID      uuid.UUID `json:"id"`
	Type    string    `json:"type"`
	Content string    `json:"content"`
	Hash    string    `json:"hash"`
}
