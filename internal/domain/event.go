package domain

import "time"

const (
	EventReceived = "received"
	EventCreated  = "created"
)

// Event notifies realtime subscribers about objects entering the store.
type Event struct {
	Type      string    `json:"type"`
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}
