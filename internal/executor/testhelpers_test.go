package executor

import (
	"context"
	"sync"

	"github.com/teascout/teascout/api"
	"github.com/teascout/teascout/events"
	"github.com/teascout/teascout/messages"
	"github.com/teascout/teascout/provider"
	"github.com/teascout/teascout/tool"
	"github.com/teascout/teascout/types"
)

// Mock Provider

type mockProvider struct {
	responses  []provider.StreamEvent
	err        error
	lastParams provider.CompletionParams
	streamCh   chan provider.StreamEvent
}

func (m *mockProvider) ChatCompletion(ctx context.Context, params provider.CompletionParams) (<-chan provider.StreamEvent, error) {
	if m.err != nil {
		return nil, m.err
	}

	m.lastParams = params

	if m.streamCh != nil {
		return m.streamCh, nil
	}

	ch := make(chan provider.StreamEvent, len(m.responses))
	for _, resp := range m.responses {
		ch <- resp
	}
	close(ch)
	return ch, nil
}

// Mock Agent

type mockAgent struct {
	testName  string
	testModel testModel
	testTools []tool.Definition
}

func (m *mockAgent) Name() string {
	if m.testName == "" {
		return "mock_agent"
	}
	return m.testName
}

func (m *mockAgent) Model() api.Model {
	return m.testModel
}

func (m *mockAgent) Tools() []tool.Definition {
	return m.testTools
}

func (m *mockAgent) ParallelToolCalls() bool {
	return false
}

func (m *mockAgent) RenderInstructions(types.ContextVars) (string, error) {
	return "mock instructions", nil
}

// Mock Hook

type mockHook struct {
	mu                 sync.Mutex
	assistantMessages  []messages.Message[messages.AssistantMessage]
	toolCallMessages   []messages.Message[messages.ToolCallMessage]
	toolCallResponses  []messages.Message[messages.ToolResponse]
	errors             []error
	onAssistantMessage func(ctx context.Context, msg messages.Message[messages.AssistantMessage])
}

func (h *mockHook) OnUserPrompt(context.Context, messages.Message[messages.UserMessage]) {}

func (h *mockHook) OnAssistantChunk(context.Context, messages.Message[messages.AssistantMessage]) {}

func (h *mockHook) OnToolCallChunk(context.Context, messages.Message[messages.ToolCallMessage]) {}

func (h *mockHook) OnAssistantMessage(ctx context.Context, msg messages.Message[messages.AssistantMessage]) {
	h.mu.Lock()
	h.assistantMessages = append(h.assistantMessages, msg)
	h.mu.Unlock()
	if h.onAssistantMessage != nil {
		h.onAssistantMessage(ctx, msg)
	}
}

func (h *mockHook) OnToolCallMessage(_ context.Context, msg messages.Message[messages.ToolCallMessage]) {
	h.mu.Lock()
	h.toolCallMessages = append(h.toolCallMessages, msg)
	h.mu.Unlock()
}

func (h *mockHook) OnToolCallResponse(_ context.Context, msg messages.Message[messages.ToolResponse]) {
	h.mu.Lock()
	h.toolCallResponses = append(h.toolCallResponses, msg)
	h.mu.Unlock()
}

func (h *mockHook) OnError(_ context.Context, err error) {
	h.mu.Lock()
	h.errors = append(h.errors, err)
	h.mu.Unlock()
}

var _ events.MessageHook = &mockHook{}

// Mock Promise

type mockPromise struct {
	mu        sync.Mutex
	completed []string
	errs      []error
}

func (p *mockPromise) Complete(result string) {
	p.mu.Lock()
	p.completed = append(p.completed, result)
	p.mu.Unlock()
}

func (p *mockPromise) Error(err error) {
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
}

// Test Model

type testModel struct {
	provider provider.Provider
}

func (m testModel) Provider() provider.Provider { return m.provider }
func (m testModel) Name() string                { return "test_model" }

// Helper Functions

func newTestAgent(responses ...provider.StreamEvent) *mockAgent {
	if len(responses) == 0 {
		responses = []provider.StreamEvent{
			provider.Response[messages.AssistantMessage]{
				Response: messages.AssistantMessage{Content: "test result"},
			},
		}
	}
	prov := &mockProvider{responses: responses}
	return &mockAgent{
		testName:  "test_agent",
		testModel: testModel{provider: prov},
		testTools: []tool.Definition{
			{
				Name:     "test_tool",
				Function: func() string { return "result" },
			},
		},
	}
}
