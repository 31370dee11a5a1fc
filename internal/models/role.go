package models

import (
	"fmt"

	"github.com/smartcafe/cafeteria-portal/pkg/validator"
)

// Role represents a staff role such as R001 Administrator
type Role struct {
	RoleID   string `db:"role_id" json:"role_id"`
	RoleName string `db:"role_name" json:"role_name"`
}

// RoleRequest is the add/update role form
type RoleRequest struct {
	RoleName string `form:"role_name"`
}

// Validate trims and checks the role name
func (r *RoleRequest) Validate() error {
	name, err := validator.ValidateName(r.RoleName)
	if err != nil {
		return fmt.Errorf("Role %w", err)
	}
	r.RoleName = name
	return nil
}
