package events

import (
	"errors"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/teascout/teascout/messages"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ToJSON serializes an event with a "type" discriminator so that it can be
// routed over the wire and decoded by FromJSON on the other side.
func ToJSON(event Event) ([]byte, error) {
	switch e := event.(type) {
	case Delim:
		return marshalEvent("delim", e.RunID, e.TurnID, "", "delim", e.Delim, "")
	case Chunk[messages.AssistantMessage]:
		return marshalEvent("chunk", e.RunID, e.TurnID, e.Sender, "chunk", e.Chunk, e.Timestamp.String())
	case Chunk[messages.ToolCallMessage]:
		return marshalEvent("chunk", e.RunID, e.TurnID, e.Sender, "chunk", e.Chunk, e.Timestamp.String())
	case Request[messages.UserMessage]:
		return marshalEvent("request", e.RunID, e.TurnID, e.Sender, "message", e.Message, e.Timestamp.String())
	case Request[messages.ToolResponse]:
		return marshalEvent("request", e.RunID, e.TurnID, e.Sender, "message", e.Message, e.Timestamp.String())
	case Response[messages.AssistantMessage]:
		return marshalEvent("response", e.RunID, e.TurnID, e.Sender, "response", e.Response, e.Timestamp.String())
	case Response[messages.ToolCallMessage]:
		return marshalEvent("response", e.RunID, e.TurnID, e.Sender, "response", e.Response, e.Timestamp.String())
	case Error:
		msg := "<nil>"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		return marshalEvent("error", e.RunID, e.TurnID, e.Sender, "error", msg, e.Timestamp.String())
	default:
		// result events are generic over the payload type, so they are
		// matched through type erasure rather than a concrete case
		if r, ok := event.(interface{ erased() Result[any] }); ok {
			e := r.erased()
			return marshalEvent("result", e.RunID, e.TurnID, e.Sender, "result", e.Result, e.Timestamp.String())
		}
		return nil, fmt.Errorf("unsupported event type: %T", event)
	}
}

func marshalEvent(kind string, runID, turnID uuid.UUID, sender, payloadKey string, payload any, timestamp string) ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	if doc, err = sjson.SetBytes(doc, "type", kind); err != nil {
		return nil, err
	}
	if doc, err = sjson.SetBytes(doc, "run_id", runID.String()); err != nil {
		return nil, err
	}
	if doc, err = sjson.SetBytes(doc, "turn_id", turnID.String()); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", payloadKey, err)
	}
	if doc, err = sjson.SetRawBytes(doc, payloadKey, raw); err != nil {
		return nil, err
	}

	if sender != "" {
		if doc, err = sjson.SetBytes(doc, "sender", sender); err != nil {
			return nil, err
		}
	}
	if timestamp != "" {
		if doc, err = sjson.SetBytes(doc, "timestamp", timestamp); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// FromJSON decodes an event serialized with ToJSON. Payload variants are
// told apart by their shape, tool call payloads carry a "tool_calls" array
// and tool responses a "tool_call_id".
func FromJSON(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}
	root := gjson.ParseBytes(data)

	kind := root.Get("type")
	if !kind.Exists() {
		return nil, errors.New("missing required field 'type'")
	}

	runID, turnID, err := eventIDs(root)
	if err != nil {
		return nil, err
	}
	sender := root.Get("sender").String()

	var timestamp strfmt.DateTime
	if v := root.Get("timestamp"); v.Exists() {
		if err := timestamp.UnmarshalText([]byte(v.String())); err != nil {
			return nil, fmt.Errorf("invalid timestamp: %w", err)
		}
	}

	switch kind.String() {
	case "delim":
		return Delim{RunID: runID, TurnID: turnID, Delim: root.Get("delim").String()}, nil
	case "chunk":
		payload := root.Get("chunk")
		if !payload.Exists() {
			return nil, errors.New("missing required field 'chunk'")
		}
		if payload.Get("tool_calls").Exists() {
			var chunk messages.ToolCallMessage
			if err := json.Unmarshal([]byte(payload.Raw), &chunk); err != nil {
				return nil, fmt.Errorf("invalid chunk: %w", err)
			}
			return Chunk[messages.ToolCallMessage]{RunID: runID, TurnID: turnID, Chunk: chunk, Sender: sender, Timestamp: timestamp}, nil
		}
		var chunk messages.AssistantMessage
		if err := json.Unmarshal([]byte(payload.Raw), &chunk); err != nil {
			return nil, fmt.Errorf("invalid chunk: %w", err)
		}
		return Chunk[messages.AssistantMessage]{RunID: runID, TurnID: turnID, Chunk: chunk, Sender: sender, Timestamp: timestamp}, nil
	case "request":
		payload := root.Get("message")
		if !payload.Exists() {
			return nil, errors.New("missing required field 'message'")
		}
		if payload.Get("tool_call_id").Exists() {
			var msg messages.ToolResponse
			if err := json.Unmarshal([]byte(payload.Raw), &msg); err != nil {
				return nil, fmt.Errorf("invalid message: %w", err)
			}
			return Request[messages.ToolResponse]{RunID: runID, TurnID: turnID, Message: msg, Sender: sender, Timestamp: timestamp}, nil
		}
		var msg messages.UserMessage
		if err := json.Unmarshal([]byte(payload.Raw), &msg); err != nil {
			return nil, fmt.Errorf("invalid message: %w", err)
		}
		return Request[messages.UserMessage]{RunID: runID, TurnID: turnID, Message: msg, Sender: sender, Timestamp: timestamp}, nil
	case "response":
		payload := root.Get("response")
		if !payload.Exists() {
			return nil, errors.New("missing required field 'response'")
		}
		if payload.Get("tool_calls").Exists() {
			var resp messages.ToolCallMessage
			if err := json.Unmarshal([]byte(payload.Raw), &resp); err != nil {
				return nil, fmt.Errorf("invalid response: %w", err)
			}
			return Response[messages.ToolCallMessage]{RunID: runID, TurnID: turnID, Response: resp, Sender: sender, Timestamp: timestamp}, nil
		}
		var resp messages.AssistantMessage
		if err := json.Unmarshal([]byte(payload.Raw), &resp); err != nil {
			return nil, fmt.Errorf("invalid response: %w", err)
		}
		return Response[messages.AssistantMessage]{RunID: runID, TurnID: turnID, Response: resp, Sender: sender, Timestamp: timestamp}, nil
	case "result":
		payload := root.Get("result")
		if !payload.Exists() {
			return nil, errors.New("missing required field 'result'")
		}
		var result any
		if err := json.Unmarshal([]byte(payload.Raw), &result); err != nil {
			return nil, fmt.Errorf("invalid result: %w", err)
		}
		return Result[any]{RunID: runID, TurnID: turnID, Result: result, Sender: sender, Timestamp: timestamp}, nil
	case "error":
		msg := root.Get("error")
		if !msg.Exists() {
			return nil, errors.New("missing required field 'error'")
		}
		return Error{RunID: runID, TurnID: turnID, Err: errors.New(msg.String()), Sender: sender, Timestamp: timestamp}, nil
	default:
		return nil, fmt.Errorf("unknown event type: %s", kind.String())
	}
}

func eventIDs(root gjson.Result) (uuid.UUID, uuid.UUID, error) {
	var runID, turnID uuid.UUID
	v := root.Get("run_id")
	if !v.Exists() {
		return runID, turnID, errors.New("missing required field 'run_id'")
	}
	if err := runID.UnmarshalText([]byte(v.String())); err != nil {
		return runID, turnID, fmt.Errorf("invalid run_id: %w", err)
	}
	v = root.Get("turn_id")
	if !v.Exists() {
		return runID, turnID, errors.New("missing required field 'turn_id'")
	}
	if err := turnID.UnmarshalText([]byte(v.String())); err != nil {
		return runID, turnID, fmt.Errorf("invalid turn_id: %w", err)
	}
	return runID, turnID, nil
}
