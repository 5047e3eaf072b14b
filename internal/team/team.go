// Package team assembles the research agents that evaluate boba shop
// locations: a location scout orchestrating a niche finder, a voice of
// customer analyst, a quantitative analyst, a demographics analyst, and a
// reporter that writes the final verdict.
package team

import (
	"context"
	"fmt"
	"strings"

	"github.com/teascout/teascout/agent"
	"github.com/teascout/teascout/api"
	"github.com/teascout/teascout/internal/census"
	"github.com/teascout/teascout/internal/places"
	"github.com/teascout/teascout/internal/yelp"
	"github.com/teascout/teascout/tool"
)

// Agent names, also the handoff targets.
const (
	ScoutName        = "Location Scout"
	NicheFinderName  = "Niche Finder"
	VoiceName        = "Voice of Customer"
	QuantName        = "Quantitative Analyst"
	DemographicsName = "Demographics Analyst"
	ReporterName     = "Reporter"
)

// Deps are the external services the team's tools call.
type Deps struct {
	Places *places.Client
	Yelp   *yelp.Client
	Census *census.Client
	Model  api.Model
}

// Team holds the six research agents, wired with their tools and handoffs.
type Team struct {
	ctx  context.Context
	deps Deps

	Scout           api.Agent
	NicheFinder     api.Agent
	VoiceOfCustomer api.Agent
	Quant           api.Agent
	Demographics    api.Agent
	Reporter        api.Agent
}

// New builds the team. The context is carried into every outbound API call
// the tools make, cancel it to stop in-flight research.
func New(ctx context.Context, deps Deps) (*Team, error) {
	if deps.Places == nil {
		return nil, fmt.Errorf("team: places client is required")
	}
	if deps.Model == nil {
		return nil, fmt.Errorf("team: model is required")
	}

	t := &Team{ctx: ctx, deps: deps}
	t.Scout = t.newScout()
	t.NicheFinder = t.newNicheFinder()
	t.VoiceOfCustomer = t.newVoiceOfCustomer()
	t.Quant = t.newQuant()
	t.Demographics = t.newDemographics()
	t.Reporter = t.newReporter()

	for _, a := range t.Agents() {
		agent.Add(a)
	}
	return t, nil
}

// Agents lists the team members, scout first.
func (t *Team) Agents() []api.Agent {
	return []api.Agent{t.Scout, t.NicheFinder, t.VoiceOfCustomer, t.Quant, t.Demographics, t.Reporter}
}

// handoff builds a transfer tool. Targets resolve lazily through the agent
// registry since the agents reference each other.
func handoff(target, description string) tool.Definition {
	name := "transfer_to_" + strings.ReplaceAll(strings.ToLower(target), " ", "_")
	return tool.Must(func() (api.Agent, error) {
		a, ok := agent.Get(target)
		if !ok {
			return nil, fmt.Errorf("agent %q is not registered", target)
		}
		return a, nil
	}, tool.Name(name), tool.Description(description))
}

// splitList parses the comma-separated list arguments the models pass.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
