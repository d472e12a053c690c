package auditor

import (
	"context"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Model invokes the reasoning model with a fully composed prompt and returns
// its raw text output.
type Model interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// agentModel adapts a go-agents chat agent to Model. The agent is built once
// per service, not per call.
type agentModel struct {
	agent agent.Agent
}

func newAgentModel(cfg *gaconfig.AgentConfig) (*agentModel, error) {
	a, err := agent.New(cfg)
	if err != nil {
		return nil, err
	}
	return &agentModel{agent: a}, nil
}

func (m *agentModel) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := m.agent.Chat(ctx, prompt)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
