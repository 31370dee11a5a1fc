package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/smartcafe/cafeteria-portal/internal/models"
)

// ItemRepository handles database operations for menu items
type ItemRepository struct {
	db DB
}

// NewItemRepository creates a new menu item repository
func NewItemRepository(db DB) *ItemRepository {
	return &ItemRepository{db: db}
}

const itemColumns = `i.item_id, i.name, i.price, i.availability, i.cafeteria_id, c.name AS cafeteria_name`

// List returns items matching search on item name or cafeteria name
func (r *ItemRepository) List(ctx context.Context, search string) ([]models.Item, error) {
	var items []models.Item
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		LEFT JOIN cafeterias c ON c.cafeteria_id = i.cafeteria_id
		WHERE $1 = '' OR i.name ILIKE '%' || $1 || '%' OR c.name ILIKE '%' || $1 || '%'
		ORDER BY i.item_id
	`
	if err := r.db.SelectContext(ctx, &items, query, search); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// GetByID retrieves a menu item by ID
func (r *ItemRepository) GetByID(ctx context.Context, itemID int) (*models.Item, error) {
	var item models.Item
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		LEFT JOIN cafeterias c ON c.cafeteria_id = i.cafeteria_id
		WHERE i.item_id = $1
	`
	err := r.db.GetContext(ctx, &item, query, itemID)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

// GetByIDs retrieves the listed items. Unknown IDs are simply absent from the result.
func (r *ItemRepository) GetByIDs(ctx context.Context, itemIDs []int) ([]models.Item, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	ids := make(pq.Int64Array, len(itemIDs))
	for i, id := range itemIDs {
		ids[i] = int64(id)
	}

	var items []models.Item
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		LEFT JOIN cafeterias c ON c.cafeteria_id = i.cafeteria_id
		WHERE i.item_id = ANY($1)
		ORDER BY i.item_id
	`
	if err := r.db.SelectContext(ctx, &items, query, ids); err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	return items, nil
}

// Create inserts a menu item and returns it with its generated ID
func (r *ItemRepository) Create(ctx context.Context, req *models.ItemRequest) (*models.Item, error) {
	item := &models.Item{
		Name:         req.Name,
		Price:        req.Price,
		Availability: req.Availability,
		CafeteriaID:  req.CafeteriaID,
	}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO items (name, price, availability, cafeteria_id)
		VALUES ($1, $2, $3, $4)
		RETURNING item_id
	`, req.Name, req.Price, req.Availability, req.CafeteriaID).Scan(&item.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

// Update changes every editable field of a menu item
func (r *ItemRepository) Update(ctx context.Context, itemID int, req *models.ItemRequest) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET name = $1, price = $2, availability = $3, cafeteria_id = $4
		WHERE item_id = $5
	`, req.Name, req.Price, req.Availability, req.CafeteriaID, itemID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return expectAffected(result)
}

// Delete removes a menu item unless order lines still reference it.
// It returns the number of referencing order lines; when that is non-zero nothing is deleted.
func (r *ItemRepository) Delete(ctx context.Context, itemID int) (int, error) {
	var references int
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &references,
			`SELECT COUNT(*) FROM order_details WHERE item_id = $1`, itemID,
		); err != nil {
			return fmt.Errorf("failed to count item references: %w", err)
		}
		if references > 0 {
			return nil
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE item_id = $1`, itemID)
		if err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}
		return expectAffected(result)
	})
	return references, err
}
