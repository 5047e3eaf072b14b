package api

import (
	"github.com/teascout/teascout/tool"
	"github.com/teascout/teascout/types"
)

// Agent is the core contract every workflow role satisfies. Implementations
// are immutable after construction; the executor only reads from them.
type Agent interface {
	// Name returns the agent's unique identifier, used in logs and for
	// routing handoffs.
	Name() string

	// Model returns the model this agent runs on.
	Model() Model

	// Tools returns the functions this agent may call.
	Tools() []tool.Definition

	// ParallelToolCalls reports whether tool calls from one turn may run
	// concurrently.
	ParallelToolCalls() bool

	// RenderInstructions produces the system prompt, interpolating the
	// given context variables into the instruction template.
	RenderInstructions(types.ContextVars) (string, error)
}
