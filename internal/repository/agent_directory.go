package repository

import (
	"github.com/auradesk/service-desk/internal/domain"
	apperrors "github.com/auradesk/service-desk/pkg/util"
)

// AgentDirectory exposes read-only access to the support agent roster.
// Mutation belongs to an external directory service.
type AgentDirectory interface {
	ListAgents() []domain.Agent
	GetAgent(name string) (*domain.Agent, error)
}

type staticAgentDirectory struct {
	agents []domain.Agent
}

// NewStaticAgentDirectory returns the in-memory production roster.
func NewStaticAgentDirectory() AgentDirectory {
	return &staticAgentDirectory{agents: defaultAgents()}
}

// NewAgentDirectory builds a directory over an explicit roster, used
// by tests and by deployments that load agents from configuration.
func NewAgentDirectory(agents []domain.Agent) AgentDirectory {
	return &staticAgentDirectory{agents: append([]domain.Agent(nil), agents...)}
}

func (d *staticAgentDirectory) ListAgents() []domain.Agent {
	out := make([]domain.Agent, len(d.agents))
	copy(out, d.agents)
	return out
}

func (d *staticAgentDirectory) GetAgent(name string) (*domain.Agent, error) {
	for i := range d.agents {
		if d.agents[i].Name == name {
			agent := d.agents[i]
			return &agent, nil
		}
	}
	return nil, apperrors.NewNotFound("agent", map[string]any{"name": name})
}

func defaultAgents() []domain.Agent {
	return []domain.Agent{
		{
			Name:         "Alice Johnson",
			Skills:       []string{"Email", "Software", "Other"},
			Experience:   domain.ExperienceSenior,
			Specialties:  []string{"Microsoft Office", "Email clients", "General troubleshooting"},
			Availability: domain.AgentAvailable,
		},
		{
			Name:         "Bob Smith",
			Skills:       []string{"Network", "Access", "Hardware"},
			Experience:   domain.ExperienceExpert,
			Specialties:  []string{"Network infrastructure", "WiFi", "VPN", "Access management"},
			Availability: domain.AgentAvailable,
		},
		{
			Name:         "Carol Williams",
			Skills:       []string{"Hardware", "Software", "Other"},
			Experience:   domain.ExperienceSenior,
			Specialties:  []string{"Printer support", "Hardware troubleshooting", "System maintenance"},
			Availability: domain.AgentBusy,
		},
		{
			Name:         "Dave Brown",
			Skills:       []string{"Access", "Network", "Software"},
			Experience:   domain.ExperienceExpert,
			Specialties:  []string{"Security", "Access controls", "User management"},
			Availability: domain.AgentAvailable,
		},
		{
			Name:         "Eva Davis",
			Skills:       []string{"Network", "Hardware", "Other"},
			Experience:   domain.ExperienceSenior,
			Specialties:  []string{"Network optimization", "Performance issues", "System diagnostics"},
			Availability: domain.AgentAvailable,
		},
	}
}
