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

const rolesListKey = "roles:all"

func roleKey(id string) string { return "role:id:" + id }

// RoleRepository reads roles through a TTL cache and keeps it in sync on writes.
type RoleRepository struct {
	db    *gorm.DB
	rows  *cache.ReadThrough[models.Role]
	lists *cache.ReadThrough[[]models.Role]
}

func NewRoleRepository(db *gorm.DB, rows *cache.TTLCache[string, models.Role], lists *cache.TTLCache[string, []models.Role]) *RoleRepository {
	return &RoleRepository{
		db:    db,
		rows:  cache.NewReadThrough(rows),
		lists: cache.NewReadThrough(lists),
	}
}

// Caches exposes the repository's caches for stats and manual clearing.
func (r *RoleRepository) Caches() []cache.Inspector {
	return []cache.Inspector{r.rows, r.lists}
}

// List returns every role ordered by name.
func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	roles, err := r.lists.GetOrLoad(ctx, rolesListKey, func(ctx context.Context) ([]models.Role, error) {
		var roles []models.Role
		if err := r.db.WithContext(ctx).Order("name asc").Find(&roles).Error; err != nil {
			return nil, fmt.Errorf("list roles: %w", err)
		}
		return roles, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(roles), nil
}

// GetByID returns a role, served from cache when possible.
func (r *RoleRepository) GetByID(ctx context.Context, id string) (models.Role, error) {
	return r.rows.GetOrLoad(ctx, roleKey(id), func(ctx context.Context) (models.Role, error) {
		return r.find(ctx, id)
	})
}

// find bypasses the cache.
func (r *RoleRepository) find(ctx context.Context, id string) (models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Role{}, fmt.Errorf("role %s: %w", id, ErrNotFound)
		}
		return models.Role{}, fmt.Errorf("get role %s: %w", id, err)
	}
	return role, nil
}

func (r *RoleRepository) nameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Role{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check role name: %w", err)
	}
	return count > 0, nil
}

func normalizeRole(in models.RoleInput) models.RoleInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// Create validates and inserts a new role.
func (r *RoleRepository) Create(ctx context.Context, in models.RoleInput) (models.Role, error) {
	in = normalizeRole(in)
	if err := Validate(in); err != nil {
		return models.Role{}, err
	}
	taken, err := r.nameTaken(ctx, in.Name, "")
	if err != nil {
		return models.Role{}, err
	}
	if taken {
		return models.Role{}, fmt.Errorf("role %q: %w", in.Name, ErrDuplicateName)
	}

	role := models.Role{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Prompt:      in.Prompt,
		Avatar:      in.Avatar,
	}
	if err := r.db.WithContext(ctx).Create(&role).Error; err != nil {
		return models.Role{}, fmt.Errorf("create role: %w", err)
	}

	r.lists.Invalidate(rolesListKey)
	r.rows.Put(roleKey(role.ID), role)
	return role, nil
}

// Update replaces the editable fields of a role.
func (r *RoleRepository) Update(ctx context.Context, id string, in models.RoleInput) (models.Role, error) {
	in = normalizeRole(in)
	if err := Validate(in); err != nil {
		return models.Role{}, err
	}
	role, err := r.find(ctx, id)
	if err != nil {
		return models.Role{}, err
	}
	taken, err := r.nameTaken(ctx, in.Name, id)
	if err != nil {
		return models.Role{}, err
	}
	if taken {
		return models.Role{}, fmt.Errorf("role %q: %w", in.Name, ErrDuplicateName)
	}

	role.Name = in.Name
	role.Description = in.Description
	role.Prompt = in.Prompt
	role.Avatar = in.Avatar
	if err := r.db.WithContext(ctx).Save(&role).Error; err != nil {
		return models.Role{}, fmt.Errorf("update role %s: %w", id, err)
	}

	r.lists.Invalidate(rolesListKey)
	r.rows.Put(roleKey(role.ID), role)
	return role, nil
}

// Delete removes a role that no agent is bound to.
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.find(ctx, id); err != nil {
		return err
	}
	var bound int64
	if err := r.db.WithContext(ctx).Model(&models.Agent{}).Where("role_id = ?", id).Count(&bound).Error; err != nil {
		return fmt.Errorf("count agents for role %s: %w", id, err)
	}
	if bound > 0 {
		return fmt.Errorf("role %s (%d agents): %w", id, bound, ErrRoleInUse)
	}
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Role{}).Error; err != nil {
		return fmt.Errorf("delete role %s: %w", id, err)
	}
	r.rows.Invalidate(roleKey(id))
	r.lists.Invalidate(rolesListKey)
	return nil
}

// ImportRoles creates every input independently; a bad input does not stop
// the rest of the batch.
func (r *RoleRepository) ImportRoles(ctx context.Context, inputs []models.RoleInput) bulk.Result[models.Role] {
	return bulk.Run(ctx, inputs, r.Create)
}

// DeleteMany deletes each id independently and reports the deleted ids.
func (r *RoleRepository) DeleteMany(ctx context.Context, ids []string) bulk.Result[string] {
	return bulk.Run(ctx, ids, func(ctx context.Context, id string) (string, error) {
		if err := r.Delete(ctx, id); err != nil {
			return "", err
		}
		return id, nil
	})
}
