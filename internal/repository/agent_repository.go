package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"agent-settings-api/internal/bulk"
	"agent-settings-api/internal/cache"
	"agent-settings-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultTemperature = 0.7

func agentKey(id string) string { return "agent:id:" + id }

func agentListKey(roleID string) string {
	if roleID == "" {
		return "agents:all"
	}
	return "agents:role:" + roleID
}

// AgentRepository reads agents through a TTL cache. Role references are
// checked through the RoleRepository so they hit the role cache too.
type AgentRepository struct {
	db    *gorm.DB
	roles *RoleRepository
	rows  *cache.ReadThrough[models.Agent]
	lists *cache.ReadThrough[[]models.Agent]
}

func NewAgentRepository(db *gorm.DB, roles *RoleRepository, rows *cache.TTLCache[string, models.Agent], lists *cache.TTLCache[string, []models.Agent]) *AgentRepository {
	return &AgentRepository{
		db:    db,
		roles: roles,
		rows:  cache.NewReadThrough(rows),
		lists: cache.NewReadThrough(lists),
	}
}

func (r *AgentRepository) Caches() []cache.Inspector {
	return []cache.Inspector{r.rows, r.lists}
}

// List returns agents ordered by name, optionally only those bound to roleID.
func (r *AgentRepository) List(ctx context.Context, roleID string) ([]models.Agent, error) {
	agents, err := r.lists.GetOrLoad(ctx, agentListKey(roleID), func(ctx context.Context) ([]models.Agent, error) {
		var agents []models.Agent
		q := r.db.WithContext(ctx).Order("name asc")
		if roleID != "" {
			q = q.Where("role_id = ?", roleID)
		}
		if err := q.Find(&agents).Error; err != nil {
			return nil, fmt.Errorf("list agents: %w", err)
		}
		return agents, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(agents), nil
}

func (r *AgentRepository) GetByID(ctx context.Context, id string) (models.Agent, error) {
	return r.rows.GetOrLoad(ctx, agentKey(id), func(ctx context.Context) (models.Agent, error) {
		var agent models.Agent
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&agent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Agent{}, fmt.Errorf("agent %s: %w", id, ErrNotFound)
			}
			return models.Agent{}, fmt.Errorf("get agent %s: %w", id, err)
		}
		return agent, nil
	})
}

// Create validates and inserts an agent.
func (r *AgentRepository) Create(ctx context.Context, in models.AgentInput) (models.Agent, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Model = strings.TrimSpace(in.Model)
	in.RoleID = strings.TrimSpace(in.RoleID)
	if err := Validate(in); err != nil {
		return models.Agent{}, err
	}
	if in.RoleID != "" {
		if _, err := r.roles.GetByID(ctx, in.RoleID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return models.Agent{}, fmt.Errorf("agent %q references %s: %w", in.Name, in.RoleID, ErrUnknownRole)
			}
			return models.Agent{}, err
		}
	}

	temperature := defaultTemperature
	if in.Temperature != nil {
		temperature = *in.Temperature
	}
	agent := models.Agent{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Provider:     in.Provider,
		Model:        in.Model,
		SystemPrompt: in.SystemPrompt,
		Temperature:  temperature,
		RoleID:       in.RoleID,
	}
	if err := r.db.WithContext(ctx).Create(&agent).Error; err != nil {
		return models.Agent{}, fmt.Errorf("create agent: %w", err)
	}

	r.lists.InvalidateAll()
	r.rows.Put(agentKey(agent.ID), agent)
	return agent, nil
}

func (r *AgentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Agent{})
	if res.Error != nil {
		return fmt.Errorf("delete agent %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("agent %s: %w", id, ErrNotFound)
	}
	r.rows.Invalidate(agentKey(id))
	r.lists.InvalidateAll()
	return nil
}

// ImportAgents creates every input independently.
func (r *AgentRepository) ImportAgents(ctx context.Context, inputs []models.AgentInput) bulk.Result[models.Agent] {
	return bulk.Run(ctx, inputs, r.Create)
}
