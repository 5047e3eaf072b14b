// Package teascout orchestrates a swarm of LLM-driven analysis agents that
// evaluate candidate retail locations for a bubble tea shop. Agents carry
// tools over external data APIs (places, reviews, census data), hand off to
// one another during a run, and the final reporter step emits a structured
// report.
package teascout

import (
	"context"
	"fmt"
	"slices"

	"github.com/alphadose/haxmap"
	"github.com/fogfish/opts"
	"github.com/teascout/teascout/api"
	"github.com/teascout/teascout/internal/executor"
	"github.com/teascout/teascout/internal/memory"
	"github.com/teascout/teascout/messages"
	"github.com/teascout/teascout/provider"
)

// Swarm is a named collection of agents and the ordered steps they execute.
// All steps share one conversation thread, so later steps see the findings
// of earlier ones.
type Swarm struct {
	name   string
	agents *haxmap.Map[string, api.Agent]
	steps  []ConversationStep
}

func Agents(agent api.Agent, extraAgents ...api.Agent) opts.Option[Swarm] {
	return opts.Type[Swarm](func(o *Swarm) error {
		o.agents.Set(agent.Name(), agent)
		for elem := range slices.Values(extraAgents) {
			o.agents.Set(elem.Name(), elem)
		}
		return nil
	})
}

func Steps(step ConversationStep, extraSteps ...ConversationStep) opts.Option[Swarm] {
	return opts.Type[Swarm](func(o *Swarm) error {
		o.steps = append(o.steps, step)
		o.steps = append(o.steps, extraSteps...)
		return nil
	})
}

var Name = opts.ForName[Swarm, string]("name")

func New(options ...opts.Option[Swarm]) *Swarm {
	p := &Swarm{
		name:   "User",
		agents: haxmap.New[string, api.Agent](),
	}
	if err := opts.Apply(p, options); err != nil {
		panic(err)
	}
	return p
}

// Run executes the swarm's steps in order. Only the final step completes the
// execution context's promise and carries the structured output schema, the
// earlier steps feed the shared thread.
func (p *Swarm) Run(ctx context.Context, rc ExecutionContext) error {
	defer rc.onClose(ctx)

	thread := memory.New()
	maxItems := len(p.steps) - 1

	for i, step := range p.steps {
		var promise executor.Promise
		var schema *provider.StructuredOutput
		if i < maxItems {
			promise = noopPromise{}
		} else {
			promise = rc.promise
			schema = rc.responseSchema
		}

		stepCtx := rc
		stepCtx.promise = promise
		stepCtx.responseSchema = schema

		if err := p.runStep(ctx, step.agentName, step.task, thread, stepCtx); err != nil {
			return err
		}
	}

	return nil
}

func (p *Swarm) runStep(ctx context.Context, agentName string, prompt task, thread *memory.Aggregator, rc ExecutionContext) error {
	agent, found := p.agents.Get(agentName)
	if !found {
		return fmt.Errorf("agent %s not found", agentName)
	}

	var message messages.Message[messages.UserMessage]
	switch tsk := prompt.(type) {
	case stringTask:
		message = messages.New().WithSender(p.name).UserPrompt(string(tsk))
	case messageTask:
		message = messages.Message[messages.UserMessage](tsk)
	default:
		return fmt.Errorf("unknown task type %T", tsk)
	}
	thread.AddUserPrompt(message)
	rc.hook.OnUserPrompt(ctx, message)

	cmd, err := rc.createCommand(agent, thread)
	if err != nil {
		return err
	}

	return rc.executor.Run(ctx, cmd, rc.promise)
}
