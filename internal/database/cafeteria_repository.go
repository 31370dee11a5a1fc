package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/smartcafe/cafeteria-portal/internal/models"
)

// CafeteriaRepository handles database operations for cafeterias
type CafeteriaRepository struct {
	db DB
}

// NewCafeteriaRepository creates a new cafeteria repository
func NewCafeteriaRepository(db DB) *CafeteriaRepository {
	return &CafeteriaRepository{db: db}
}

// List returns cafeterias matching search on ID, name or location
func (r *CafeteriaRepository) List(ctx context.Context, search string) ([]models.Cafeteria, error) {
	var cafeterias []models.Cafeteria
	query := `
		SELECT cafeteria_id, name, location
		FROM cafeterias
		WHERE $1 = ''
		   OR cafeteria_id ILIKE '%' || $1 || '%'
		   OR name ILIKE '%' || $1 || '%'
		   OR location ILIKE '%' || $1 || '%'
		ORDER BY cafeteria_id
	`
	if err := r.db.SelectContext(ctx, &cafeterias, query, search); err != nil {
		return nil, fmt.Errorf("failed to list cafeterias: %w", err)
	}
	return cafeterias, nil
}

// GetByID retrieves a cafeteria by ID
func (r *CafeteriaRepository) GetByID(ctx context.Context, cafeteriaID string) (*models.Cafeteria, error) {
	var cafeteria models.Cafeteria
	err := r.db.GetContext(ctx, &cafeteria,
		`SELECT cafeteria_id, name, location FROM cafeterias WHERE cafeteria_id = $1`, cafeteriaID)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cafeteria: %w", err)
	}
	return &cafeteria, nil
}

// Create inserts a cafeteria. The ID comes from cafeteria_id_seq (C001, C002, ...).
func (r *CafeteriaRepository) Create(ctx context.Context, name, location string) (*models.Cafeteria, error) {
	cafeteria := &models.Cafeteria{Name: name, Location: location}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO cafeterias (name, location) VALUES ($1, $2) RETURNING cafeteria_id`,
		name, location,
	).Scan(&cafeteria.CafeteriaID)
	if err != nil {
		return nil, fmt.Errorf("failed to create cafeteria: %w", err)
	}
	return cafeteria, nil
}

// Update changes a cafeteria's name and location
func (r *CafeteriaRepository) Update(ctx context.Context, cafeteriaID, name, location string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE cafeterias SET name = $1, location = $2 WHERE cafeteria_id = $3`,
		name, location, cafeteriaID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cafeteria: %w", err)
	}
	return expectAffected(result)
}

// Delete removes a cafeteria together with its staff's work schedules, its
// menu items and its staff. Either everything goes or nothing does.
func (r *CafeteriaRepository) Delete(ctx context.Context, cafeteriaID string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM work_schedules
			WHERE staff_id IN (SELECT staff_id FROM staff WHERE cafeteria_id = $1)
		`, cafeteriaID); err != nil {
			return fmt.Errorf("failed to delete work schedules: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE cafeteria_id = $1`, cafeteriaID); err != nil {
			return fmt.Errorf("failed to delete menu items: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM staff WHERE cafeteria_id = $1`, cafeteriaID); err != nil {
			return fmt.Errorf("failed to delete staff: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM cafeterias WHERE cafeteria_id = $1`, cafeteriaID)
		if err != nil {
			return fmt.Errorf("failed to delete cafeteria: %w", err)
		}
		return expectAffected(result)
	})
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
