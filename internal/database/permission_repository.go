package database

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/smartcafe/cafeteria-portal/internal/models"
)

// defaultRoleIDType is used when the roles.role_id column cannot be inspected
const defaultRoleIDType = "VARCHAR(10)"

// RoleGrant is one (role, permission name) pair
type RoleGrant struct {
	RoleID         string `db:"role_id"`
	PermissionName string `db:"permission_name"`
}

// PermissionRepository handles the permissions catalogue and role grants
type PermissionRepository struct {
	db DB
}

// NewPermissionRepository creates a new permission repository
func NewPermissionRepository(db DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// ListPermissions returns the whole catalogue ordered by name
func (r *PermissionRepository) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	var permissions []models.Permission
	query := `
		SELECT permission_id, permission_name, description
		FROM permissions
		ORDER BY permission_name
	`
	if err := r.db.SelectContext(ctx, &permissions, query); err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return permissions, nil
}

// ListRolePermissions returns the permissions granted to a role ordered by name
func (r *PermissionRepository) ListRolePermissions(ctx context.Context, roleID string) ([]models.Permission, error) {
	var permissions []models.Permission
	query := `
		SELECT p.permission_id, p.permission_name, p.description
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.permission_id
		WHERE rp.role_id = $1
		ORDER BY p.permission_name
	`
	if err := r.db.SelectContext(ctx, &permissions, query, roleID); err != nil {
		return nil, fmt.Errorf("failed to list role permissions: %w", err)
	}
	return permissions, nil
}

// PermissionNamesForRole returns just the granted permission names
func (r *PermissionRepository) PermissionNamesForRole(ctx context.Context, roleID string) ([]string, error) {
	var names []string
	query := `
		SELECT p.permission_name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.permission_id
		WHERE rp.role_id = $1
	`
	if err := r.db.SelectContext(ctx, &names, query, roleID); err != nil {
		return nil, fmt.Errorf("failed to get role permission names: %w", err)
	}
	return names, nil
}

// ListGrants returns every role grant ordered by role then permission
func (r *PermissionRepository) ListGrants(ctx context.Context) ([]RoleGrant, error) {
	var grants []RoleGrant
	query := `
		SELECT rp.role_id, p.permission_name
		FROM role_permissions rp
		JOIN permissions p ON p.permission_id = rp.permission_id
		ORDER BY rp.role_id, p.permission_name
	`
	if err := r.db.SelectContext(ctx, &grants, query); err != nil {
		return nil, fmt.Errorf("failed to list role grants: %w", err)
	}
	return grants, nil
}

// CountPermissions counts catalogue rows
func (r *PermissionRepository) CountPermissions(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM permissions`); err != nil {
		return 0, fmt.Errorf("failed to count permissions: %w", err)
	}
	return count, nil
}

// CountGrants counts role_permissions rows
func (r *PermissionRepository) CountGrants(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM role_permissions`); err != nil {
		return 0, fmt.Errorf("failed to count role permissions: %w", err)
	}
	return count, nil
}

// ReplaceRolePermissions swaps a role's grants for the given set in one transaction.
// An empty set clears the role.
func (r *PermissionRepository) ReplaceRolePermissions(ctx context.Context, roleID string, permissionIDs []int) error {
	ids := uniqueInts(permissionIDs)

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
			return fmt.Errorf("failed to clear role permissions: %w", err)
		}

		for _, id := range ids {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)`,
				roleID, id,
			); err != nil {
				return fmt.Errorf("failed to grant permission %d: %w", id, err)
			}
		}
		return nil
	})
}

// GrantAll replaces a role's grants with the whole catalogue
func (r *PermissionRepository) GrantAll(ctx context.Context, roleID string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
			return fmt.Errorf("failed to clear role permissions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO role_permissions (role_id, permission_id)
			SELECT $1, permission_id FROM permissions
		`, roleID); err != nil {
			return fmt.Errorf("failed to grant all permissions: %w", err)
		}
		return nil
	})
}

// EnsureTables creates and seeds the permission tables if they are missing
// and grants the whole catalogue to adminRoleID. Safe to call repeatedly.
func (r *PermissionRepository) EnsureTables(ctx context.Context, adminRoleID string, defaults []models.Permission) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		roleIDType, err := roleIDColumnType(ctx, tx)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS permissions (
				permission_id   SERIAL PRIMARY KEY,
				permission_name VARCHAR(50) NOT NULL UNIQUE,
				description     VARCHAR(255) NOT NULL DEFAULT ''
			)
		`); err != nil {
			return fmt.Errorf("failed to create permissions table: %w", err)
		}

		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS role_permissions (
				id            SERIAL PRIMARY KEY,
				role_id       %s NOT NULL,
				permission_id INT NOT NULL REFERENCES permissions(permission_id) ON DELETE CASCADE,
				UNIQUE (role_id, permission_id)
			)
		`, roleIDType)); err != nil {
			return fmt.Errorf("failed to create role_permissions table: %w", err)
		}

		for _, p := range defaults {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO permissions (permission_name, description)
				VALUES ($1, $2)
				ON CONFLICT (permission_name) DO NOTHING
			`, p.Name, p.Description); err != nil {
				return fmt.Errorf("failed to seed permission %s: %w", p.Name, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO role_permissions (role_id, permission_id)
			SELECT $1, permission_id FROM permissions
			ON CONFLICT (role_id, permission_id) DO NOTHING
		`, adminRoleID); err != nil {
			return fmt.Errorf("failed to grant admin permissions: %w", err)
		}

		return nil
	})
}

// roleIDColumnType mirrors the roles.role_id type so grants line up with roles.
// Only a fixed set of type names is emitted into DDL.
func roleIDColumnType(ctx context.Context, q Querier) (string, error) {
	var column struct {
		DataType  string `db:"data_type"`
		MaxLength *int   `db:"character_maximum_length"`
	}
	err := q.GetContext(ctx, &column, `
		SELECT data_type, character_maximum_length
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND table_name = 'roles'
		  AND column_name = 'role_id'
	`)
	if isNoRows(err) {
		return defaultRoleIDType, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to inspect roles.role_id: %w", err)
	}

	switch column.DataType {
	case "character varying":
		if column.MaxLength != nil && *column.MaxLength > 0 {
			return fmt.Sprintf("VARCHAR(%d)", *column.MaxLength), nil
		}
		return "VARCHAR", nil
	case "character":
		if column.MaxLength != nil && *column.MaxLength > 0 {
			return fmt.Sprintf("CHAR(%d)", *column.MaxLength), nil
		}
		return "CHAR(10)", nil
	case "text":
		return "TEXT", nil
	case "integer":
		return "INTEGER", nil
	case "bigint":
		return "BIGINT", nil
	}
	return defaultRoleIDType, nil
}

func uniqueInts(values []int) []int {
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
