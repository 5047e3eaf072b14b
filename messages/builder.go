package messages

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

type messageBuilder struct {
	runID     uuid.UUID
	turnID    uuid.UUID
	sender    string
	timestamp strfmt.DateTime
}

// New starts a message builder stamped with the current time.
func New() messageBuilder {
	return messageBuilder{timestamp: strfmt.DateTime(time.Now())}
}

func (b messageBuilder) ForRun(runID, turnID uuid.UUID) messageBuilder {
	b.runID = runID
	b.turnID = turnID
	return b
}

func (b messageBuilder) WithSender(sender string) messageBuilder {
	b.sender = sender
	return b
}

func (b messageBuilder) WithTimestamp(timestamp strfmt.DateTime) messageBuilder {
	b.timestamp = timestamp
	return b
}

func (b messageBuilder) Instructions(content string) Message[InstructionsMessage] {
	return wrap(b, InstructionsMessage{Content: content})
}

func (b messageBuilder) UserPrompt(content string) Message[UserMessage] {
	return wrap(b, UserMessage{Content: content})
}

func (b messageBuilder) AssistantMessage(content string) Message[AssistantMessage] {
	return wrap(b, AssistantMessage{Content: content})
}

func (b messageBuilder) AssistantRefusal(refusal string) Message[AssistantMessage] {
	return wrap(b, AssistantMessage{Refusal: refusal})
}

func (b messageBuilder) ToolCall(calls []ToolCallData) Message[ToolCallMessage] {
	return wrap(b, ToolCallMessage{ToolCalls: calls})
}

func (b messageBuilder) ToolResponse(callID, toolName, content string) Message[ToolResponse] {
	return wrap(b, ToolResponse{ToolCallID: callID, ToolName: toolName, Content: content})
}

func (b messageBuilder) ToolError(callID, toolName string, err error) Message[Retry] {
	return wrap(b, Retry{Error: err, ToolCallID: callID, ToolName: toolName})
}

func wrap[T ModelMessage](b messageBuilder, payload T) Message[T] {
	return Message[T]{
		RunID:     b.runID,
		TurnID:    b.turnID,
		Payload:   payload,
		Sender:    b.sender,
		Timestamp: b.timestamp,
	}
}
