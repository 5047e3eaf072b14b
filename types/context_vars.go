package types

import (
	"github.com/goccy/go-json"
)

// ContextVars carries run-scoped state between agents and tools. Tools can
// return a ContextVars value to merge new state into the running workflow,
// and agent instructions are rendered against it as template data.
type ContextVars map[string]any

func (cv ContextVars) String() string {
	data, err := json.Marshal(cv)
	if err != nil {
		return ""
	}
	return string(data)
}
