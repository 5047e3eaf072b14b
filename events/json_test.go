package events

import (
	"errors"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teascout/teascout/messages"
)

func TestEventJSONRoundTrip(t *testing.T) {
	runID := uuid.New()
	turnID := uuid.New()
	now := strfmt.DateTime(time.Now().UTC().Truncate(time.Second))

	t.Run("delim", func(t *testing.T) {
		in := Delim{RunID: runID, TurnID: turnID, Delim: "start"}
		data, err := ToJSON(in)
		require.NoError(t, err)

		out, err := FromJSON(data)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("assistant chunk", func(t *testing.T) {
		in := Chunk[messages.AssistantMessage]{
			RunID:     runID,
			TurnID:    turnID,
			Chunk:     messages.AssistantMessage{Content: "partial"},
			Sender:    "scout",
			Timestamp: now,
		}
		data, err := ToJSON(in)
		require.NoError(t, err)

		out, err := FromJSON(data)
		require.NoError(t, err)
		decoded, ok := out.(Chunk[messages.AssistantMessage])
		require.True(t, ok)
		assert.Equal(t, in.Chunk, decoded.Chunk)
		assert.Equal(t, in.Sender, decoded.Sender)
	})

	t.Run("tool call response", func(t *testing.T) {
		in := Response[messages.ToolCallMessage]{
			RunID:  runID,
			TurnID: turnID,
			Response: messages.ToolCallMessage{
				ToolCalls: []messages.ToolCallData{
					{ID: "1", Name: "search_nearby", Arguments: `{"radius":500}`},
				},
			},
			Sender:    "scout",
			Timestamp: now,
		}
		data, err := ToJSON(in)
		require.NoError(t, err)

		out, err := FromJSON(data)
		require.NoError(t, err)
		decoded, ok := out.(Response[messages.ToolCallMessage])
		require.True(t, ok)
		require.Len(t, decoded.Response.ToolCalls, 1)
		assert.Equal(t, "search_nearby", decoded.Response.ToolCalls[0].Name)
	})

	t.Run("tool response request", func(t *testing.T) {
		in := Request[messages.ToolResponse]{
			RunID:     runID,
			TurnID:    turnID,
			Message:   messages.ToolResponse{ToolName: "search_nearby", ToolCallID: "1", Content: "ok"},
			Sender:    "tool",
			Timestamp: now,
		}
		data, err := ToJSON(in)
		require.NoError(t, err)

		out, err := FromJSON(data)
		require.NoError(t, err)
		decoded, ok := out.(Request[messages.ToolResponse])
		require.True(t, ok)
		assert.Equal(t, in.Message, decoded.Message)
	})

	t.Run("untyped result", func(t *testing.T) {
		in := Result[any]{RunID: runID, TurnID: turnID, Result: "final answer", Sender: "reporter", Timestamp: now}
		data, err := ToJSON(in)
		require.NoError(t, err)

		out, err := FromJSON(data)
		require.NoError(t, err)
		decoded, ok := out.(Result[any])
		require.True(t, ok)
		assert.Equal(t, "final answer", decoded.Result)
		assert.Equal(t, runID, decoded.RunID)
	})

	t.Run("typed result", func(t *testing.T) {
		type verdict struct {
			Location string  `json:"location"`
			Score    float64 `json:"score"`
		}
		in := Result[verdict]{
			RunID:     runID,
			TurnID:    turnID,
			Result:    verdict{Location: "Westfield Plaza", Score: 8.5},
			Sender:    "reporter",
			Timestamp: now,
		}
		data, err := ToJSON(in)
		require.NoError(t, err)

		out, err := FromJSON(data)
		require.NoError(t, err)
		decoded, ok := out.(Result[any])
		require.True(t, ok)
		assert.Equal(t, runID, decoded.RunID)
		assert.Equal(t, "reporter", decoded.Sender)
		payload, ok := decoded.Result.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Westfield Plaza", payload["location"])
		assert.InDelta(t, 8.5, payload["score"], 1e-9)
	})

	t.Run("error", func(t *testing.T) {
		in := Error{RunID: runID, TurnID: turnID, Err: errors.New("boom"), Sender: "scout", Timestamp: now}
		data, err := ToJSON(in)
		require.NoError(t, err)

		out, err := FromJSON(data)
		require.NoError(t, err)
		decoded, ok := out.(Error)
		require.True(t, ok)
		assert.EqualError(t, decoded.Err, "boom")
	})
}

func TestFromJSONErrors(t *testing.T) {
	_, err := FromJSON([]byte(`{invalid`))
	require.Error(t, err)

	_, err = FromJSON([]byte(`{"run_id":"x"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required field 'type'")

	_, err = FromJSON([]byte(`{"type":"nope","run_id":"` + uuid.NewString() + `","turn_id":"` + uuid.NewString() + `"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}
