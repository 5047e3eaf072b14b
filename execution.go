package teascout

import (
	"context"
	"reflect"

	"github.com/fogfish/opts"
	"github.com/invopop/jsonschema"
	"github.com/teascout/teascout/api"
	"github.com/teascout/teascout/events"
	"github.com/teascout/teascout/internal/checkpoint"
	"github.com/teascout/teascout/internal/executor"
	"github.com/teascout/teascout/internal/memory"
	"github.com/teascout/teascout/provider"
	"github.com/teascout/teascout/types"
	"github.com/tidwall/gjson"
)

// ExecutionContext holds the configuration for running a workflow: the
// executor, the hook that observes events, the promise that receives the
// final completion, and the per-run settings.
type ExecutionContext struct {
	executor       executor.Executor
	hook           events.MessageHook
	promise        executor.Promise
	responseSchema *provider.StructuredOutput
	contextVars    types.ContextVars
	checkpoints    checkpoint.Store
	onClose        func(context.Context)
	stream         bool
	maxTurns       int
}

func (e *ExecutionContext) createCommand(agent api.Agent, mem *memory.Aggregator) (executor.RunCommand, error) {
	cmd, err := executor.NewRunCommand(agent, mem, e.hook)
	if err != nil {
		return executor.RunCommand{}, err
	}
	if len(e.contextVars) > 0 {
		cmd = cmd.WithContextVariables(e.contextVars)
	}
	if e.responseSchema != nil {
		cmd = cmd.WithStructuredOutput(e.responseSchema)
	}
	if e.stream {
		cmd = cmd.WithStream(e.stream)
	}
	if e.maxTurns > 0 {
		cmd = cmd.WithMaxTurns(e.maxTurns)
	}
	if e.checkpoints != nil {
		cmd = cmd.WithCheckpoints(e.checkpoints)
	}
	return cmd, nil
}

var (
	WithContextVars = opts.ForName[ExecutionContext, types.ContextVars]("contextVars")
	Streaming       = opts.ForName[ExecutionContext, bool]("stream")
	WithMaxTurns    = opts.ForName[ExecutionContext, int]("maxTurns")
	WithCheckpoints = opts.ForName[ExecutionContext, checkpoint.Store]("checkpoints")
)

func jsonSchema[T any]() *jsonschema.Schema {
	var schema *jsonschema.Schema
	var t T
	_, isGjsonResult := any(t).(gjson.Result)
	isString := reflect.TypeFor[T]().Kind() == reflect.String

	if !isGjsonResult && !isString {
		schema = executor.ToJSONSchema[T]()
	}

	return schema
}

// StructuredOutput constrains the final step's completion to the JSON schema
// of T. String and gjson result types skip the schema, the raw completion is
// passed through.
func StructuredOutput[T any](name, description string) opts.Option[ExecutionContext] {
	return opts.Type[ExecutionContext](func(s *ExecutionContext) error {
		schema := jsonSchema[T]()
		if schema != nil {
			s.responseSchema = &provider.StructuredOutput{
				Name:        name,
				Description: description,
				Schema:      schema,
			}
		}
		return nil
	})
}

// Local creates an ExecutionContext that runs the workflow in-process. The
// hook observes every event and receives the final result of type T.
func Local[T any](hook Hook[T], options ...opts.Option[ExecutionContext]) ExecutionContext {
	fut := executor.NewFuture(executor.DefaultUnmarshal[T]())
	dp := &deferredPromise[T]{
		promise: fut,
		hook:    hook,
	}

	execCtx := ExecutionContext{
		executor: executor.NewLocal(),
		hook:     hook,
		promise:  dp,
		onClose: func(ctx context.Context) {
			dp.Forward(ctx)
			hook.OnClose(ctx)
		},
	}

	if err := opts.Apply(&execCtx, options); err != nil {
		panic(err)
	}

	return execCtx
}
