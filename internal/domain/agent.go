package domain

// ExperienceLevel grades a support agent's seniority.
type ExperienceLevel string

const (
	ExperienceSenior ExperienceLevel = "Senior"
	ExperienceExpert ExperienceLevel = "Expert"
)

// Availability is the agent's current assignment readiness.
type Availability string

const (
	AgentAvailable Availability = "Available"
	AgentBusy      Availability = "Busy"
)

// Agent models a human support staff member eligible for assignment.
// Agents are read-only to this service; mutation belongs to the
// external directory.
type Agent struct {
	Name         string          `json:"name"`
	Skills       []string        `json:"skills"`
	Experience   ExperienceLevel `json:"experience"`
	Specialties  []string        `json:"specialties"`
	Availability Availability    `json:"availability"`
}
