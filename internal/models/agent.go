package models

import "time"

// Provider identifies the LLM backend an agent talks to.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
	ProviderOllama    Provider = "ollama"
)

// Agent is a chat participant configured with a model and, optionally, a role.
type Agent struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Provider     Provider  `json:"provider" gorm:"not null"`
	Model        string    `json:"model" gorm:"not null"`
	SystemPrompt string    `json:"systemPrompt" gorm:"column:system_prompt"`
	Temperature  float64   `json:"temperature"`
	RoleID       string    `json:"roleId,omitempty" gorm:"column:role_id;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Agent Model
func (Agent) TableName() string {
	return "agents"
}

// AgentInput is the payload for creating or importing an agent.
type AgentInput struct {
	Name         string   `json:"name" validate:"required,max=64"`
	Provider     Provider `json:"provider" validate:"required,oneof=openai anthropic gemini ollama"`
	Model        string   `json:"model" validate:"required,max=128"`
	SystemPrompt string   `json:"systemPrompt" validate:"max=8000"`
	Temperature  *float64 `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	RoleID       string   `json:"roleId"`
}

// Label names the input in bulk summaries.
func (in AgentInput) Label() string {
	if in.Name == "" {
		return "<unnamed agent>"
	}
	return in.Name
}
