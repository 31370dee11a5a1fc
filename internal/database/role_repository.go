package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/smartcafe/cafeteria-portal/internal/models"
)

// RoleRepository handles database operations for staff roles
type RoleRepository struct {
	db DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// List returns roles matching search on ID or name. An empty search returns all roles.
func (r *RoleRepository) List(ctx context.Context, search string) ([]models.Role, error) {
	var roles []models.Role
	query := `
		SELECT role_id, role_name
		FROM roles
		WHERE $1 = '' OR role_id ILIKE '%' || $1 || '%' OR role_name ILIKE '%' || $1 || '%'
		ORDER BY role_id
	`
	if err := r.db.SelectContext(ctx, &roles, query, search); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// GetByID retrieves a role by ID
func (r *RoleRepository) GetByID(ctx context.Context, roleID string) (*models.Role, error) {
	var role models.Role
	err := r.db.GetContext(ctx, &role, `SELECT role_id, role_name FROM roles WHERE role_id = $1`, roleID)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return &role, nil
}

// Create inserts a role. The ID comes from role_id_seq (R004, R005, ...).
func (r *RoleRepository) Create(ctx context.Context, name string) (*models.Role, error) {
	role := &models.Role{RoleName: name}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO roles (role_name) VALUES ($1) RETURNING role_id`, name,
	).Scan(&role.RoleID)
	if err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

// Update renames a role
func (r *RoleRepository) Update(ctx context.Context, roleID, name string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE roles SET role_name = $1 WHERE role_id = $2`, name, roleID)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	return expectAffected(result)
}

// Delete removes a role and its grants unless staff still hold it.
// It returns the number of staff holding the role; when that is non-zero nothing is deleted.
func (r *RoleRepository) Delete(ctx context.Context, roleID string) (int, error) {
	var assigned int
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &assigned, `SELECT COUNT(*) FROM staff WHERE role_id = $1`, roleID); err != nil {
			return fmt.Errorf("failed to count staff with role: %w", err)
		}
		if assigned > 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
			return fmt.Errorf("failed to delete role permissions: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM roles WHERE role_id = $1`, roleID)
		if err != nil {
			return fmt.Errorf("failed to delete role: %w", err)
		}
		return expectAffected(result)
	})
	return assigned, err
}
