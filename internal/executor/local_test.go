package executor

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teascout/teascout/api"
	"github.com/teascout/teascout/internal/checkpoint"
	"github.com/teascout/teascout/internal/memory"
	"github.com/teascout/teascout/messages"
	"github.com/teascout/teascout/pkg/uuidx"
	"github.com/teascout/teascout/provider"
	"github.com/teascout/teascout/tool"
	"github.com/teascout/teascout/types"
)

type textMarshaler struct {
	shouldError bool
}

func (t textMarshaler) MarshalText() ([]byte, error) {
	if t.shouldError {
		return nil, fmt.Errorf("marshal error")
	}
	return []byte("marshaled text"), nil
}

func TestBuildArgList(t *testing.T) {
	tests := []struct {
		name       string
		arguments  string
		parameters map[string]string
		want       []string
	}{
		{
			name:      "empty arguments",
			arguments: "{}",
			parameters: map[string]string{
				"param0": "arg1",
			},
			want: []string{},
		},
		{
			name:      "single argument",
			arguments: `{"arg1": "value1"}`,
			parameters: map[string]string{
				"param0": "arg1",
			},
			want: []string{"value1"},
		},
		{
			name:      "multiple arguments",
			arguments: `{"arg1": "value1", "arg2": "value2"}`,
			parameters: map[string]string{
				"param0": "arg1",
				"param1": "arg2",
			},
			want: []string{"value1", "value2"},
		},
		{
			name:      "different types",
			arguments: `{"num": 42, "bool": true, "str": "text"}`,
			parameters: map[string]string{
				"param0": "num",
				"param1": "bool",
				"param2": "str",
			},
			want: []string{"42", "true", "text"},
		},
		{
			name:      "missing argument skipped",
			arguments: `{"arg2": "value2"}`,
			parameters: map[string]string{
				"param0": "arg1",
				"param1": "arg2",
			},
			want: []string{"value2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildArgList(tt.arguments, tt.parameters)

			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}

			gotStrings := make([]string, 0, len(got))
			for _, g := range got {
				if g.IsValid() {
					gotStrings = append(gotStrings, fmt.Sprintf("%v", g.Interface()))
				}
			}

			assert.Equal(t, tt.want, gotStrings)
		})
	}
}

func TestCallFunction(t *testing.T) {
	tests := []struct {
		name        string
		fn          any
		args        []any
		contextVars types.ContextVars
		wantValue   string
		wantErr     bool
	}{
		{
			name:      "string return",
			fn:        func() string { return "test" },
			wantValue: "test",
		},
		{
			name:      "int return",
			fn:        func() int { return 42 },
			wantValue: "42",
		},
		{
			name:      "uint return",
			fn:        func() uint { return 7 },
			wantValue: "7",
		},
		{
			name:      "float return",
			fn:        func() float64 { return 2.5 },
			wantValue: "2.5",
		},
		{
			name:    "error return",
			fn:      func() error { return assert.AnError },
			wantErr: true,
		},
		{
			name: "with context vars",
			fn: func(cv types.ContextVars) string {
				return cv["key"].(string)
			},
			contextVars: types.ContextVars{"key": "value"},
			wantValue:   "value",
		},
		{
			name: "time return",
			fn: func() time.Time {
				return time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
			},
			wantValue: "2023-01-01T00:00:00Z",
		},
		{
			name:      "text marshaler return",
			fn:        func() textMarshaler { return textMarshaler{} },
			wantValue: "marshaled text",
		},
		{
			name:    "text marshaler error",
			fn:      func() textMarshaler { return textMarshaler{shouldError: true} },
			wantErr: true,
		},
		{
			name: "struct return marshals to JSON",
			fn: func() struct {
				Name string `json:"name"`
			} {
				return struct {
					Name string `json:"name"`
				}{Name: "boba"}
			},
			wantValue: `{"name":"boba"}`,
		},
		{
			name: "value and error, error wins",
			fn: func() (string, error) {
				return "ignored", assert.AnError
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args []reflect.Value
			if tt.args != nil {
				args = make([]reflect.Value, len(tt.args))
				for i, arg := range tt.args {
					args[i] = reflect.ValueOf(arg)
				}
			}
			result, err := callFunction(tt.fn, args, tt.contextVars)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, result.Value)
		})
	}
}

func TestHandleToolCalls(t *testing.T) {
	t.Run("basic tool call", func(t *testing.T) {
		l := NewLocal()
		agent := newTestAgent()

		hook := &mockHook{}
		params := toolCallParams{
			runID:       uuidx.New(),
			agent:       agent,
			contextVars: types.ContextVars{},
			mem:         memory.New(),
			hook:        hook,
			toolCalls: messages.ToolCallMessage{
				ToolCalls: []messages.ToolCallData{
					{Name: "test_tool", Arguments: "{}"},
				},
			},
		}

		nextAgent, err := l.handleToolCalls(context.Background(), params)
		require.NoError(t, err)
		assert.Nil(t, nextAgent)
		require.Len(t, hook.toolCallResponses, 1)
		assert.Equal(t, "result", hook.toolCallResponses[0].Payload.Content)
	})

	t.Run("unknown tool", func(t *testing.T) {
		l := NewLocal()
		params := toolCallParams{
			runID: uuidx.New(),
			agent: newTestAgent(),
			mem:   memory.New(),
			hook:  &mockHook{},
			toolCalls: messages.ToolCallMessage{
				ToolCalls: []messages.ToolCallData{
					{Name: "no_such_tool", Arguments: "{}"},
				},
			},
		}

		_, err := l.handleToolCalls(context.Background(), params)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown tool no_such_tool")
	})

	t.Run("agent transfer runs before regular tools", func(t *testing.T) {
		l := NewLocal()

		nextTestAgent := newTestAgent()
		nextTestAgent.testName = "next_agent"

		executionOrder := []string{}
		agent := &mockAgent{
			testName:  "test_agent",
			testModel: testModel{provider: &mockProvider{}},
			testTools: []tool.Definition{
				{
					Name: "regular_tool",
					Function: func() string {
						executionOrder = append(executionOrder, "regular_tool")
						return "regular result"
					},
				},
				{
					Name: "agent_tool",
					Function: func() api.Agent {
						executionOrder = append(executionOrder, "agent_tool")
						return nextTestAgent
					},
				},
			},
		}

		params := toolCallParams{
			runID: uuidx.New(),
			agent: agent,
			mem:   memory.New(),
			hook:  &mockHook{},
			toolCalls: messages.ToolCallMessage{
				ToolCalls: []messages.ToolCallData{
					{Name: "regular_tool", Arguments: "{}"},
					{Name: "agent_tool", Arguments: "{}"},
				},
			},
		}

		nextAgent, err := l.handleToolCalls(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, nextTestAgent, nextAgent)
		assert.Equal(t, []string{"agent_tool"}, executionOrder)
	})

	t.Run("context variable propagation", func(t *testing.T) {
		l := NewLocal()

		var secondSaw types.ContextVars
		agent := &mockAgent{
			testName:  "test_agent",
			testModel: testModel{provider: &mockProvider{}},
			testTools: []tool.Definition{
				{
					Name: "first_tool",
					Function: func() types.ContextVars {
						return types.ContextVars{"region": "downtown"}
					},
				},
				{
					Name: "second_tool",
					Function: func(cv types.ContextVars) string {
						secondSaw = cv
						return "done"
					},
				},
			},
		}

		params := toolCallParams{
			runID:       uuidx.New(),
			agent:       agent,
			contextVars: types.ContextVars{},
			mem:         memory.New(),
			hook:        &mockHook{},
			toolCalls: messages.ToolCallMessage{
				ToolCalls: []messages.ToolCallData{
					{Name: "first_tool", Arguments: "{}"},
					{Name: "second_tool", Arguments: "{}"},
				},
			},
		}

		_, err := l.handleToolCalls(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, "downtown", secondSaw["region"])
	})

	t.Run("arguments mapped by position", func(t *testing.T) {
		l := NewLocal()

		var gotQuery string
		var gotLimit int
		agent := &mockAgent{
			testName:  "test_agent",
			testModel: testModel{provider: &mockProvider{}},
			testTools: []tool.Definition{
				{
					Name: "search",
					Parameters: map[string]string{
						"param0": "query",
						"param1": "limit",
					},
					Function: func(query string, limit int) string {
						gotQuery = query
						gotLimit = limit
						return "ok"
					},
				},
			},
		}

		params := toolCallParams{
			runID: uuidx.New(),
			agent: agent,
			mem:   memory.New(),
			hook:  &mockHook{},
			toolCalls: messages.ToolCallMessage{
				ToolCalls: []messages.ToolCallData{
					{Name: "search", Arguments: `{"query": "bubble tea", "limit": 5}`},
				},
			},
		}

		_, err := l.handleToolCalls(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, "bubble tea", gotQuery)
		assert.Equal(t, 5, gotLimit)
	})
}

func TestLocalRun(t *testing.T) {
	t.Run("assistant response completes the promise", func(t *testing.T) {
		agent := newTestAgent(provider.Response[messages.AssistantMessage]{
			RunID:    uuidx.New(),
			TurnID:   uuidx.New(),
			Response: messages.AssistantMessage{Content: "final answer"},
		})

		thread := memory.New()
		cmd, err := NewRunCommand(agent, thread, &mockHook{})
		require.NoError(t, err)

		promise := &mockPromise{}
		require.NoError(t, NewLocal().Run(context.Background(), cmd, promise))
		require.Len(t, promise.completed, 1)
		assert.Equal(t, "final answer", promise.completed[0])
		require.Len(t, thread.Messages(), 1)
	})

	t.Run("tool call loops back into the provider", func(t *testing.T) {
		callCount := 0
		prov := &mockProvider{}
		prov.streamCh = nil

		agent := &mockAgent{
			testName: "test_agent",
			testTools: []tool.Definition{
				{Name: "lookup", Function: func() string { callCount++; return "42" }},
			},
		}
		agent.testModel = testModel{provider: prov}

		prov.responses = []provider.StreamEvent{
			provider.Response[messages.ToolCallMessage]{
				RunID:  uuidx.New(),
				TurnID: uuidx.New(),
				Response: messages.ToolCallMessage{
					ToolCalls: []messages.ToolCallData{{ID: "1", Name: "lookup", Arguments: "{}"}},
				},
			},
		}

		thread := memory.New()
		cmd, err := NewRunCommand(agent, thread, &mockHook{})
		require.NoError(t, err)
		cmd = cmd.WithMaxTurns(2)

		promise := &mockPromise{}
		// Second provider call replays the same tool call, so the run exhausts its turns.
		runErr := NewLocal().Run(context.Background(), cmd, promise)
		require.Error(t, runErr)
		assert.Contains(t, runErr.Error(), "max turns exceeded")
		assert.GreaterOrEqual(t, callCount, 1)
	})

	t.Run("provider error fails the run", func(t *testing.T) {
		prov := &mockProvider{err: assert.AnError}
		agent := &mockAgent{
			testName:  "test_agent",
			testModel: testModel{provider: prov},
		}

		cmd, err := NewRunCommand(agent, memory.New(), &mockHook{})
		require.NoError(t, err)

		runErr := NewLocal().Run(context.Background(), cmd, &mockPromise{})
		require.Error(t, runErr)
		assert.Contains(t, runErr.Error(), "failed to get chat completion")
	})

	t.Run("stream error reaches hook and promise", func(t *testing.T) {
		agent := newTestAgent(provider.Error{
			RunID:  uuidx.New(),
			TurnID: uuidx.New(),
			Err:    assert.AnError,
		})

		hook := &mockHook{}
		cmd, err := NewRunCommand(agent, memory.New(), hook)
		require.NoError(t, err)

		promise := &mockPromise{}
		runErr := NewLocal().Run(context.Background(), cmd, promise)
		require.Error(t, runErr)
		require.Len(t, promise.errs, 1)
		require.Len(t, hook.errors, 1)
	})

	t.Run("checkpoints are persisted per turn", func(t *testing.T) {
		runID := uuidx.New()
		agent := newTestAgent(provider.Response[messages.AssistantMessage]{
			RunID:    runID,
			TurnID:   uuidx.New(),
			Response: messages.AssistantMessage{Content: "checkpointed"},
		})

		store := checkpoint.InMemory()
		cmd, err := NewRunCommand(agent, memory.New(), &mockHook{})
		require.NoError(t, err)
		cmd = cmd.WithCheckpoints(store)

		require.NoError(t, NewLocal().Run(context.Background(), cmd, &mockPromise{}))

		cp, found, err := store.Latest(context.Background(), cmd.ID())
		require.NoError(t, err)
		require.True(t, found)
		require.Len(t, cp.Messages(), 1)
	})

	t.Run("context cancellation aborts the stream", func(t *testing.T) {
		streamCh := make(chan provider.StreamEvent)
		prov := &mockProvider{streamCh: streamCh}
		agent := &mockAgent{
			testName:  "test_agent",
			testModel: testModel{provider: prov},
		}

		cmd, err := NewRunCommand(agent, memory.New(), &mockHook{})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		runErr := NewLocal().Run(ctx, cmd, &mockPromise{})
		require.ErrorIs(t, runErr, context.Canceled)
	})
}
