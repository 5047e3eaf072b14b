package messages

import (
	"errors"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ModelMessage is implemented by every payload type that can appear in a
// conversation thread.
type ModelMessage interface {
	message()
}

// Request marks payloads that flow from the application to the model.
type Request interface {
	request()
}

// Response marks payloads that flow from the model to the application.
type Response interface {
	response()
}

// Message wraps a payload with the run metadata every event carries.
type Message[T ModelMessage] struct {
	RunID     uuid.UUID       `json:"run_id"`
	TurnID    uuid.UUID       `json:"turn_id"`
	Payload   T               `json:"-"`
	Sender    string          `json:"sender,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

type InstructionsMessage struct {
	Content string `json:"content"`
}

func (InstructionsMessage) message() {}

type UserMessage struct {
	Content string `json:"content"`
}

func (UserMessage) message() {}
func (UserMessage) request() {}

type AssistantMessage struct {
	Content string `json:"content"`
	Refusal string `json:"refusal,omitempty"`
}

func (AssistantMessage) message()  {}
func (AssistantMessage) response() {}

type ToolCallData struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type ToolCallMessage struct {
	ToolCalls []ToolCallData `json:"tool_calls"`
}

func (ToolCallMessage) message()  {}
func (ToolCallMessage) response() {}

type ToolResponse struct {
	ToolName   string `json:"tool_name"`
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
}

func (ToolResponse) message() {}
func (ToolResponse) request() {}

// Retry is recorded when a tool call fails and the model should try again.
type Retry struct {
	Error      error  `json:"error"`
	ToolName   string `json:"tool_name,omitempty"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

func (Retry) message() {}
func (Retry) request() {}

// CallTool builds the ToolCallData for a single invocation.
func CallTool(id, name string, args gjson.Result) ToolCallData {
	return ToolCallData{ID: id, Name: name, Arguments: args.Raw}
}

func typeName(msg ModelMessage) string {
	switch msg.(type) {
	case InstructionsMessage:
		return "instructions"
	case UserMessage:
		return "user"
	case AssistantMessage:
		return "assistant"
	case ToolCallMessage:
		return "tool_call"
	case ToolResponse:
		return "tool_response"
	case Retry:
		return "retry"
	default:
		return ""
	}
}

func (m Message[T]) MarshalJSON() ([]byte, error) {
	doc := "{}"
	var err error

	kind := typeName(any(m.Payload).(ModelMessage))
	if kind == "" {
		return nil, fmt.Errorf("unknown message payload %T", m.Payload)
	}
	if doc, err = sjson.Set(doc, "type", kind); err != nil {
		return nil, err
	}

	switch payload := any(m.Payload).(type) {
	case InstructionsMessage:
		doc, err = sjson.Set(doc, "content", payload.Content)
	case UserMessage:
		doc, err = sjson.Set(doc, "content", payload.Content)
	case AssistantMessage:
		if payload.Content != "" {
			doc, err = sjson.Set(doc, "content", payload.Content)
		}
		if err == nil && payload.Refusal != "" {
			doc, err = sjson.Set(doc, "refusal", payload.Refusal)
		}
	case ToolCallMessage:
		doc, err = sjson.Set(doc, "tool_calls", payload.ToolCalls)
	case ToolResponse:
		if doc, err = sjson.Set(doc, "tool_name", payload.ToolName); err != nil {
			return nil, err
		}
		if doc, err = sjson.Set(doc, "tool_call_id", payload.ToolCallID); err != nil {
			return nil, err
		}
		doc, err = sjson.Set(doc, "content", payload.Content)
	case Retry:
		doc, err = sjson.Set(doc, "error", payload.Error.Error())
		if err == nil && payload.ToolName != "" {
			doc, err = sjson.Set(doc, "tool_name", payload.ToolName)
		}
		if err == nil && payload.ToolCallID != "" {
			doc, err = sjson.Set(doc, "tool_call_id", payload.ToolCallID)
		}
	}
	if err != nil {
		return nil, err
	}

	if m.RunID != uuid.Nil {
		if doc, err = sjson.Set(doc, "run_id", m.RunID.String()); err != nil {
			return nil, err
		}
	}
	if m.TurnID != uuid.Nil {
		if doc, err = sjson.Set(doc, "turn_id", m.TurnID.String()); err != nil {
			return nil, err
		}
	}
	if m.Sender != "" {
		if doc, err = sjson.Set(doc, "sender", m.Sender); err != nil {
			return nil, err
		}
	}
	if doc, err = sjson.Set(doc, "timestamp", m.Timestamp.String()); err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

func (m *Message[T]) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("messages: invalid json payload")
	}
	root := gjson.ParseBytes(data)

	kind := root.Get("type")
	if !kind.Exists() {
		return errors.New("missing required field 'type'")
	}

	payload, err := payloadFromJSON(kind.String(), root)
	if err != nil {
		return err
	}
	typed, ok := payload.(T)
	if !ok {
		return fmt.Errorf("message type %q does not match %T", kind.String(), m.Payload)
	}
	m.Payload = typed

	if v := root.Get("run_id"); v.Exists() {
		if m.RunID, err = uuid.Parse(v.String()); err != nil {
			return fmt.Errorf("invalid 'run_id': %w", err)
		}
	}
	if v := root.Get("turn_id"); v.Exists() {
		if m.TurnID, err = uuid.Parse(v.String()); err != nil {
			return fmt.Errorf("invalid 'turn_id': %w", err)
		}
	}
	m.Sender = root.Get("sender").String()
	if v := root.Get("timestamp"); v.Exists() {
		if err := m.Timestamp.UnmarshalText([]byte(v.String())); err != nil {
			return fmt.Errorf("invalid 'timestamp': %w", err)
		}
	}
	return nil
}

func payloadFromJSON(kind string, root gjson.Result) (ModelMessage, error) {
	switch kind {
	case "instructions":
		content := root.Get("content")
		if !content.Exists() {
			return nil, errors.New("missing required field 'content'")
		}
		return InstructionsMessage{Content: content.String()}, nil
	case "user":
		content := root.Get("content")
		if !content.Exists() {
			return nil, errors.New("missing required field 'content'")
		}
		return UserMessage{Content: content.String()}, nil
	case "assistant":
		content := root.Get("content")
		refusal := root.Get("refusal")
		if content.Exists() && refusal.Exists() {
			return nil, errors.New("both 'content' and 'refusal' cannot be present")
		}
		return AssistantMessage{Content: content.String(), Refusal: refusal.String()}, nil
	case "tool_call":
		calls := root.Get("tool_calls")
		if !calls.Exists() {
			return nil, errors.New("missing required field 'tool_calls'")
		}
		if !calls.IsArray() {
			return nil, errors.New("'tool_calls' must be an array")
		}
		var payload ToolCallMessage
		if err := json.Unmarshal([]byte(calls.Raw), &payload.ToolCalls); err != nil {
			return nil, fmt.Errorf("invalid 'tool_calls': %w", err)
		}
		return payload, nil
	case "tool_response":
		name := root.Get("tool_name")
		if !name.Exists() {
			return nil, errors.New("missing required field 'tool_name'")
		}
		callID := root.Get("tool_call_id")
		if !callID.Exists() {
			return nil, errors.New("missing required field 'tool_call_id'")
		}
		content := root.Get("content")
		if !content.Exists() {
			return nil, errors.New("missing required field 'content'")
		}
		return ToolResponse{ToolName: name.String(), ToolCallID: callID.String(), Content: content.String()}, nil
	case "retry":
		msg := root.Get("error")
		if !msg.Exists() {
			return nil, errors.New("missing required field 'error'")
		}
		return Retry{
			Error:      errors.New(msg.String()),
			ToolName:   root.Get("tool_name").String(),
			ToolCallID: root.Get("tool_call_id").String(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown message type: %s", kind)
	}
}
