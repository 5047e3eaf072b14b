package provider

import (
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/teascout/teascout/internal/memory"
	"github.com/teascout/teascout/messages"
)

// StreamEvent is the union of events a Provider can emit during a
// completion: Delim, Chunk, Response and Error.
type StreamEvent interface {
	streamEvent()
}

// Delim marks the start and end of a streamed completion.
type Delim struct {
	RunID  uuid.UUID `json:"run_id"`
	TurnID uuid.UUID `json:"turn_id"`
	Delim  string    `json:"delim"`
}

func (Delim) streamEvent() {}

// Chunk carries one incremental piece of a streamed response.
type Chunk[T messages.Response] struct {
	RunID     uuid.UUID       `json:"run_id"`
	TurnID    uuid.UUID       `json:"turn_id"`
	Chunk     T               `json:"chunk"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Chunk[T]) streamEvent() {}

// ChunkToMessage copies a chunk's identity and payload into a thread message.
func ChunkToMessage[T messages.Response, M messages.ModelMessage](dst *messages.Message[M], src Chunk[T]) {
	dst.RunID = src.RunID
	dst.TurnID = src.TurnID
	dst.Timestamp = src.Timestamp
	if payload, ok := any(src.Chunk).(M); ok {
		dst.Payload = payload
	} else {
		panic(fmt.Sprintf("invalid chunk type: %T", src.Chunk))
	}
}

// Response carries a completed model turn along with a snapshot of the
// thread state at that point.
type Response[T messages.Response] struct {
	RunID      uuid.UUID         `json:"run_id"`
	TurnID     uuid.UUID         `json:"turn_id"`
	Checkpoint memory.Checkpoint `json:"checkpoint"`
	Response   T                 `json:"response"`
	Timestamp  strfmt.DateTime   `json:"timestamp,omitempty"`
}

func (Response[T]) streamEvent() {}

// ResponseToMessage copies a response's identity and payload into a thread
// message.
func ResponseToMessage[T messages.Response, M messages.ModelMessage](dst *messages.Message[M], src Response[T]) {
	dst.RunID = src.RunID
	dst.TurnID = src.TurnID
	dst.Timestamp = src.Timestamp
	if payload, ok := any(src.Response).(M); ok {
		dst.Payload = payload
	} else {
		panic(fmt.Sprintf("invalid response type: %T", src.Response))
	}
}

// Error reports a failure during a completion.
type Error struct {
	RunID     uuid.UUID       `json:"run_id"`
	TurnID    uuid.UUID       `json:"turn_id"`
	Err       error           `json:"error"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Error) streamEvent() {}

func (e Error) Error() string {
	return fmt.Sprintf("run_id: %s, turn_id: %s, timestamp: %s, error: %v", e.RunID, e.TurnID, e.Timestamp, e.Err)
}
