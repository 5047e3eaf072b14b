package uuidx

import "github.com/google/uuid"

// New returns a fresh v7 UUID. Panics when entropy is unavailable.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString returns a fresh v7 UUID rendered as a string.
func NewString() string {
	return New().String()
}
