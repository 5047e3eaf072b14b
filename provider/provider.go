package provider

import (
	"context"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/teascout/teascout/internal/memory"
	"github.com/teascout/teascout/tool"
)

// Provider abstracts a chat completion backend. Implementations translate
// the request into the backend's wire format and emit StreamEvents on the
// returned channel, closing it when the completion finishes.
type Provider interface {
	ChatCompletion(context.Context, CompletionParams) (<-chan StreamEvent, error)
}

// CompletionParams describes a single chat completion request.
type CompletionParams struct {
	// RunID ties the completion to a workflow run.
	RunID uuid.UUID

	// Instructions is the rendered system prompt for the active agent.
	Instructions string

	// Thread holds the conversation so far.
	Thread *memory.Aggregator

	// Stream requests incremental chunks instead of a single response.
	Stream bool

	// ResponseSchema, when set, constrains the model to structured output.
	ResponseSchema *StructuredOutput

	// Model names the model to run. The interface is inlined here so agent
	// model types can live outside this package.
	Model interface {
		Name() string
		Provider() Provider
	}

	// Tools lists the functions the model may call.
	Tools []tool.Definition

	_ struct{}
}

// StructuredOutput requests JSON responses conforming to a schema.
type StructuredOutput struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
}
