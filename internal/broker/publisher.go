package broker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/teascout/teascout/events"
	"github.com/teascout/teascout/messages"
	"github.com/teascout/teascout/pkg/slogx"
)

// Publisher adapts a topic into an event hook. Every message observed during
// a run is republished on the topic, so remote subscribers can follow along.
func Publisher[T any](topic Topic[T]) events.Hook[T] {
	return &publisher[T]{topic: topic}
}

type publisher[T any] struct {
	topic Topic[T]

	// run identity of the last observed message, stamped onto results and
	// errors which arrive without one
	mu     sync.Mutex
	runID  uuid.UUID
	turnID uuid.UUID
	sender string
}

func (p *publisher[T]) publish(ctx context.Context, event events.Event) {
	if err := p.topic.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", slogx.Error(err))
	}
}

func (p *publisher[T]) observe(runID, turnID uuid.UUID, sender string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runID, p.turnID = runID, turnID
	if sender != "" {
		p.sender = sender
	}
}

func (p *publisher[T]) identity() (uuid.UUID, uuid.UUID, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runID, p.turnID, p.sender
}

func (p *publisher[T]) OnUserPrompt(ctx context.Context, msg messages.Message[messages.UserMessage]) {
	p.observe(msg.RunID, msg.TurnID, msg.Sender)
	p.publish(ctx, events.Request[messages.UserMessage]{
		RunID:     msg.RunID,
		TurnID:    msg.TurnID,
		Message:   msg.Payload,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
	})
}

func (p *publisher[T]) OnAssistantChunk(ctx context.Context, msg messages.Message[messages.AssistantMessage]) {
	p.observe(msg.RunID, msg.TurnID, msg.Sender)
	p.publish(ctx, events.Chunk[messages.AssistantMessage]{
		RunID:     msg.RunID,
		TurnID:    msg.TurnID,
		Chunk:     msg.Payload,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
	})
}

func (p *publisher[T]) OnToolCallChunk(ctx context.Context, msg messages.Message[messages.ToolCallMessage]) {
	p.observe(msg.RunID, msg.TurnID, msg.Sender)
	p.publish(ctx, events.Chunk[messages.ToolCallMessage]{
		RunID:     msg.RunID,
		TurnID:    msg.TurnID,
		Chunk:     msg.Payload,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
	})
}

func (p *publisher[T]) OnAssistantMessage(ctx context.Context, msg messages.Message[messages.AssistantMessage]) {
	p.observe(msg.RunID, msg.TurnID, msg.Sender)
	p.publish(ctx, events.Response[messages.AssistantMessage]{
		RunID:     msg.RunID,
		TurnID:    msg.TurnID,
		Response:  msg.Payload,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
	})
}

func (p *publisher[T]) OnToolCallMessage(ctx context.Context, msg messages.Message[messages.ToolCallMessage]) {
	p.observe(msg.RunID, msg.TurnID, msg.Sender)
	p.publish(ctx, events.Response[messages.ToolCallMessage]{
		RunID:     msg.RunID,
		TurnID:    msg.TurnID,
		Response:  msg.Payload,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
	})
}

func (p *publisher[T]) OnToolCallResponse(ctx context.Context, msg messages.Message[messages.ToolResponse]) {
	p.observe(msg.RunID, msg.TurnID, msg.Sender)
	p.publish(ctx, events.Request[messages.ToolResponse]{
		RunID:     msg.RunID,
		TurnID:    msg.TurnID,
		Message:   msg.Payload,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
	})
}

func (p *publisher[T]) OnResult(ctx context.Context, result T) {
	runID, turnID, sender := p.identity()
	p.publish(ctx, events.Result[T]{
		RunID:     runID,
		TurnID:    turnID,
		Result:    result,
		Sender:    sender,
		Timestamp: strfmt.DateTime(time.Now()),
	})
}

func (p *publisher[T]) OnError(ctx context.Context, err error) {
	if event, ok := err.(events.Error); ok {
		p.publish(ctx, event)
		return
	}
	runID, turnID, _ := p.identity()
	p.publish(ctx, events.Error{RunID: runID, TurnID: turnID, Err: err, Timestamp: strfmt.DateTime(time.Now())})
}
