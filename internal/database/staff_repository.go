package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/smartcafe/cafeteria-portal/internal/models"
)

// StaffRepository handles database operations for staff accounts
type StaffRepository struct {
	db DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffColumns = `staff_id, username, password_hash, role_id, cafeteria_id, created_at`

// GetByUsername retrieves a staff member by login name
func (r *StaffRepository) GetByUsername(ctx context.Context, username string) (*models.Staff, error) {
	var staff models.Staff
	query := `SELECT ` + staffColumns + ` FROM staff WHERE username = $1`
	err := r.db.GetContext(ctx, &staff, query, username)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff by username: %w", err)
	}
	return &staff, nil
}

// GetByID retrieves a staff member by ID
func (r *StaffRepository) GetByID(ctx context.Context, staffID int) (*models.Staff, error) {
	var staff models.Staff
	query := `SELECT ` + staffColumns + ` FROM staff WHERE staff_id = $1`
	err := r.db.GetContext(ctx, &staff, query, staffID)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &staff, nil
}

// GetRoleID returns the staff member's role, or "" when the staff member does not exist
func (r *StaffRepository) GetRoleID(ctx context.Context, staffID int) (string, error) {
	var roleID string
	err := r.db.GetContext(ctx, &roleID, `SELECT role_id FROM staff WHERE staff_id = $1`, staffID)
	if isNoRows(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get staff role: %w", err)
	}
	return roleID, nil
}

// GetCafeteriaName returns the name of the staff member's cafeteria, or "" when unassigned
func (r *StaffRepository) GetCafeteriaName(ctx context.Context, staffID int) (string, error) {
	var name string
	query := `
		SELECT c.name
		FROM staff s
		JOIN cafeterias c ON c.cafeteria_id = s.cafeteria_id
		WHERE s.staff_id = $1
	`
	err := r.db.GetContext(ctx, &name, query, staffID)
	if isNoRows(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get staff cafeteria: %w", err)
	}
	return name, nil
}

// Create inserts a staff account with an already-hashed password
func (r *StaffRepository) Create(ctx context.Context, username, passwordHash, roleID string, cafeteriaID sql.NullString) (*models.Staff, error) {
	staff := &models.Staff{
		Username:     username,
		PasswordHash: passwordHash,
		RoleID:       roleID,
		CafeteriaID:  cafeteriaID,
	}

	query := `
		INSERT INTO staff (username, password_hash, role_id, cafeteria_id)
		VALUES ($1, $2, $3, $4)
		RETURNING staff_id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, username, passwordHash, roleID, cafeteriaID).
		Scan(&staff.StaffID, &staff.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}
	return staff, nil
}

// UpdateAssignment changes a staff member's role and cafeteria
func (r *StaffRepository) UpdateAssignment(ctx context.Context, staffID int, roleID string, cafeteriaID sql.NullString) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE staff SET role_id = $1, cafeteria_id = $2 WHERE staff_id = $3`,
		roleID, cafeteriaID, staffID,
	)
	if err != nil {
		return fmt.Errorf("failed to update staff: %w", err)
	}
	return expectAffected(result)
}

// ListDetailed returns all staff with role and cafeteria names
func (r *StaffRepository) ListDetailed(ctx context.Context) ([]models.StaffDetail, error) {
	var staff []models.StaffDetail
	query := `
		SELECT s.staff_id, s.username, s.role_id, r.role_name, s.cafeteria_id, c.name AS cafeteria_name
		FROM staff s
		LEFT JOIN roles r ON r.role_id = s.role_id
		LEFT JOIN cafeterias c ON c.cafeteria_id = s.cafeteria_id
		ORDER BY s.staff_id
	`
	if err := r.db.SelectContext(ctx, &staff, query); err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}
