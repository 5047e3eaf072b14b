package teascout

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teascout/teascout/agent"
	"github.com/teascout/teascout/api"
	"github.com/teascout/teascout/messages"
	"github.com/teascout/teascout/pkg/uuidx"
	"github.com/teascout/teascout/provider"
)

type scriptedProvider struct {
	mu      sync.Mutex
	replies []string
	calls   int
}

func (p *scriptedProvider) ChatCompletion(ctx context.Context, params provider.CompletionParams) (<-chan provider.StreamEvent, error) {
	p.mu.Lock()
	reply := p.replies[p.calls%len(p.replies)]
	p.calls++
	p.mu.Unlock()

	ch := make(chan provider.StreamEvent, 1)
	ch <- provider.Response[messages.AssistantMessage]{
		RunID:    params.RunID,
		TurnID:   uuidx.New(),
		Response: messages.AssistantMessage{Content: reply},
	}
	close(ch)
	return ch, nil
}

type scriptedModel struct {
	prov provider.Provider
}

func (m scriptedModel) Name() string                { return "scripted" }
func (m scriptedModel) Provider() provider.Provider { return m.prov }

type resultHook[T any] struct {
	mu      sync.Mutex
	results []T
	errors  []error
	prompts []string
	closed  bool
}

func (h *resultHook[T]) OnUserPrompt(_ context.Context, msg messages.Message[messages.UserMessage]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prompts = append(h.prompts, msg.Payload.Content)
}

func (h *resultHook[T]) OnAssistantChunk(context.Context, messages.Message[messages.AssistantMessage]) {
}

func (h *resultHook[T]) OnToolCallChunk(context.Context, messages.Message[messages.ToolCallMessage]) {
}

func (h *resultHook[T]) OnAssistantMessage(context.Context, messages.Message[messages.AssistantMessage]) {
}

func (h *resultHook[T]) OnToolCallMessage(context.Context, messages.Message[messages.ToolCallMessage]) {
}

func (h *resultHook[T]) OnToolCallResponse(context.Context, messages.Message[messages.ToolResponse]) {
}

func (h *resultHook[T]) OnResult(_ context.Context, result T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = append(h.results, result)
}

func (h *resultHook[T]) OnError(_ context.Context, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, err)
}

func (h *resultHook[T]) OnClose(context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
}

func newScriptedAgent(name string, replies ...string) api.Agent {
	model := scriptedModel{prov: &scriptedProvider{replies: replies}}
	return agent.New(
		agent.Name(name),
		agent.Model(model),
		agent.Instructions("You analyze bubble tea shop locations."),
	)
}

func TestSwarmRun(t *testing.T) {
	t.Run("steps run in order and the last completes the result", func(t *testing.T) {
		scout := newScriptedAgent("scout", "found three plazas")
		reporter := newScriptedAgent("reporter", "final report")

		swarm := New(
			Name("analyst"),
			Agents(scout, reporter),
			Steps(
				Step("scout", "scout the area around the mall"),
				Step("reporter", "compile the report"),
			),
		)

		hook := &resultHook[string]{}
		execCtx := Local(hook)

		require.NoError(t, swarm.Run(context.Background(), execCtx))

		require.Len(t, hook.results, 1)
		assert.Equal(t, "final report", hook.results[0])
		assert.Equal(t, []string{"scout the area around the mall", "compile the report"}, hook.prompts)
		assert.True(t, hook.closed)
		assert.Empty(t, hook.errors)
	})

	t.Run("structured output decodes into the result type", func(t *testing.T) {
		type verdict struct {
			Recommendation string  `json:"recommendation"`
			Confidence     float64 `json:"confidence"`
		}

		reporter := newScriptedAgent("reporter", `{"recommendation":"GO","confidence":0.8}`)
		swarm := New(
			Agents(reporter),
			Steps(Step("reporter", "summarize the findings")),
		)

		hook := &resultHook[verdict]{}
		execCtx := Local(hook, StructuredOutput[verdict]("verdict", "location verdict"))

		require.NoError(t, swarm.Run(context.Background(), execCtx))

		require.Len(t, hook.results, 1)
		assert.Equal(t, "GO", hook.results[0].Recommendation)
		assert.InDelta(t, 0.8, hook.results[0].Confidence, 1e-9)
	})

	t.Run("missing agent fails the run", func(t *testing.T) {
		swarm := New(Steps(Step("nobody", "do something")))

		hook := &resultHook[string]{}
		require.Error(t, swarm.Run(context.Background(), Local[string](hook)))
		assert.True(t, hook.closed)
	})

	t.Run("later steps see the shared thread", func(t *testing.T) {
		var sawThreadLen int
		prov := &checkingProvider{onCall: func(params provider.CompletionParams) {
			sawThreadLen = params.Thread.Len()
		}}
		second := agent.New(
			agent.Name("second"),
			agent.Model(scriptedModel{prov: prov}),
			agent.Instructions("inspect"),
		)
		first := newScriptedAgent("first", "first reply")

		swarm := New(
			Agents(first, second),
			Steps(Step("first", "one"), Step("second", "two")),
		)

		hook := &resultHook[string]{}
		require.NoError(t, swarm.Run(context.Background(), Local(hook)))

		// user prompt + assistant reply from step one, plus step two's prompt
		assert.Equal(t, 3, sawThreadLen)
	})
}

type checkingProvider struct {
	onCall func(provider.CompletionParams)
}

func (p *checkingProvider) ChatCompletion(ctx context.Context, params provider.CompletionParams) (<-chan provider.StreamEvent, error) {
	if p.onCall != nil {
		p.onCall(params)
	}
	ch := make(chan provider.StreamEvent, 1)
	ch <- provider.Response[messages.AssistantMessage]{
		RunID:    params.RunID,
		TurnID:   uuidx.New(),
		Response: messages.AssistantMessage{Content: "ok"},
	}
	close(ch)
	return ch, nil
}
