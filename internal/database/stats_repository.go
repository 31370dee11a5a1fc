package database

import (
	"context"
	"fmt"

	"github.com/smartcafe/cafeteria-portal/internal/models"
)

// StatsRepository answers dashboard and diagnostics queries
type StatsRepository struct {
	db DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// DashboardCounts counts cafeterias, menu items and staff in one round trip
func (r *StatsRepository) DashboardCounts(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM cafeterias) AS cafeteria_count,
			(SELECT COUNT(*) FROM items)      AS menu_count,
			(SELECT COUNT(*) FROM staff)      AS staff_count
	`
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get dashboard counts: %w", err)
	}
	return &stats, nil
}

// DescribeTable lists the columns of a table in the current schema
func (r *StatsRepository) DescribeTable(ctx context.Context, table string) ([]models.ColumnInfo, error) {
	var columns []models.ColumnInfo
	query := `
		SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position
	`
	if err := r.db.SelectContext(ctx, &columns, query, table); err != nil {
		return nil, fmt.Errorf("failed to describe table %s: %w", table, err)
	}
	return columns, nil
}
