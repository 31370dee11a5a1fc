package models

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Staff represents a staff member who can sign in to the admin portal
type Staff struct {
	StaffID      int            `db:"staff_id" json:"staff_id"`
	Username     string         `db:"username" json:"username"`
	PasswordHash string         `db:"password_hash" json:"-"`
	RoleID       string         `db:"role_id" json:"role_id"`
	CafeteriaID  sql.NullString `db:"cafeteria_id" json:"cafeteria_id,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// StaffDetail is a staff row joined with its role and cafeteria names
type StaffDetail struct {
	StaffID       int            `db:"staff_id" json:"staff_id"`
	Username      string         `db:"username" json:"username"`
	RoleID        string         `db:"role_id" json:"role_id"`
	RoleName      sql.NullString `db:"role_name" json:"role_name,omitempty"`
	CafeteriaID   sql.NullString `db:"cafeteria_id" json:"cafeteria_id,omitempty"`
	CafeteriaName sql.NullString `db:"cafeteria_name" json:"cafeteria_name,omitempty"`
}

// StaffLoginRequest is the staff login form
type StaffLoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Validate checks that both credentials were supplied
func (r *StaffLoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return errors.New("Please enter both username and password.")
	}
	return nil
}

// UpdateStaffRequest reassigns a staff member's role and cafeteria
type UpdateStaffRequest struct {
	RoleID      string `form:"role_id"`
	CafeteriaID string `form:"cafeteria_id"`
}

// Validate checks the reassignment form
func (r *UpdateStaffRequest) Validate() error {
	r.RoleID = strings.TrimSpace(r.RoleID)
	r.CafeteriaID = strings.TrimSpace(r.CafeteriaID)
	if r.RoleID == "" {
		return errors.New("Role is required.")
	}
	return nil
}

// CafeteriaValue maps an empty cafeteria selection to NULL
func (r *UpdateStaffRequest) CafeteriaValue() sql.NullString {
	return sql.NullString{String: r.CafeteriaID, Valid: r.CafeteriaID != ""}
}
