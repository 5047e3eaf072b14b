package agent

import (
	"github.com/teascout/teascout/api"
	"github.com/teascout/teascout/internal/registry"
)

// Global indexes every constructed agent by name so handoff targets can be
// resolved at runtime.
var Global = registry.New[api.Agent]()

func Add(agent api.Agent) {
	Global.Add(agent.Name(), agent)
}

func Get(name string) (api.Agent, bool) {
	return Global.Get(name)
}

func Del(name string) {
	Global.Del(name)
}
