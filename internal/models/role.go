package models

import "time"

// Role is an assistant persona that agents can be bound to.
type Role struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	Prompt      string    `json:"prompt"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Role Model
func (Role) TableName() string {
	return "roles"
}

// RoleInput is the payload for creating, updating or importing a role.
type RoleInput struct {
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description" validate:"max=512"`
	Prompt      string `json:"prompt" validate:"max=8000"`
	Avatar      string `json:"avatar" validate:"omitempty,max=16"`
}

// Label names the input in bulk summaries.
func (in RoleInput) Label() string {
	if in.Name == "" {
		return "<unnamed role>"
	}
	return in.Name
}
