package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/smartcafe/cafeteria-portal/internal/models"
)

// OrderRepository handles orders, order lines, payments and payment methods
type OrderRepository struct {
	db DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderSummarySelect = `
	SELECT o.order_id, o.reg_no, o.order_date, o.total_cost,
	       s.first_name, s.last_name,
	       (SELECT COUNT(*) FROM order_details d WHERE d.order_id = o.order_id) AS line_count
	FROM orders o
	LEFT JOIN students s ON s.reg_no = o.reg_no
`

// ListRecent returns the latest orders with student names
func (r *OrderRepository) ListRecent(ctx context.Context, limit int) ([]models.OrderSummary, error) {
	var orders []models.OrderSummary
	query := orderSummarySelect + `
		ORDER BY o.order_date DESC, o.order_id DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &orders, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return orders, nil
}

// GetSummary retrieves one order with the student's name
func (r *OrderRepository) GetSummary(ctx context.Context, orderID int) (*models.OrderSummary, error) {
	var order models.OrderSummary
	err := r.db.GetContext(ctx, &order, orderSummarySelect+` WHERE o.order_id = $1`, orderID)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// ListLines returns an order's lines with current item names and prices
func (r *OrderRepository) ListLines(ctx context.Context, orderID int) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	query := `
		SELECT d.details_id, d.order_id, d.item_id, d.quantity, i.name AS item_name, i.price
		FROM order_details d
		LEFT JOIN items i ON i.item_id = d.item_id
		WHERE d.order_id = $1
		ORDER BY d.details_id
	`
	if err := r.db.SelectContext(ctx, &lines, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to list order lines: %w", err)
	}
	return lines, nil
}

// GetPayment returns the payment recorded for an order, if any
func (r *OrderRepository) GetPayment(ctx context.Context, orderID int) (*models.Payment, error) {
	var payment models.Payment
	query := `
		SELECT p.payment_id, p.order_id, p.amount, p.paid_at, p.method_id, m.method
		FROM payments p
		LEFT JOIN payment_methods m ON m.method_id = p.method_id
		WHERE p.order_id = $1
		ORDER BY p.paid_at DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &payment, query, orderID)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

// ListPaymentMethods returns every payment method
func (r *OrderRepository) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	if err := r.db.SelectContext(ctx, &methods,
		`SELECT method_id, method FROM payment_methods ORDER BY method_id`,
	); err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

// GetPaymentMethod retrieves a payment method by ID
func (r *OrderRepository) GetPaymentMethod(ctx context.Context, methodID int) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.GetContext(ctx, &method,
		`SELECT method_id, method FROM payment_methods WHERE method_id = $1`, methodID)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}
	return &method, nil
}

// PlaceOrder records an order, its payment and one line per item in a single
// transaction. Every line has quantity 1.
func (r *OrderRepository) PlaceOrder(ctx context.Context, regNo string, total float64, methodID int, itemIDs []int) (*models.PlacedOrder, error) {
	placed := &models.PlacedOrder{Total: total}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, `
			INSERT INTO orders (reg_no, order_date, total_cost)
			VALUES ($1, NOW(), $2)
			RETURNING order_id
		`, regNo, total).Scan(&placed.OrderID); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		if err := tx.QueryRowxContext(ctx, `
			INSERT INTO payments (order_id, amount, paid_at, method_id)
			VALUES ($1, $2, NOW(), $3)
			RETURNING payment_id, paid_at
		`, placed.OrderID, total, methodID).Scan(&placed.PaymentID, &placed.PaidAt); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		for _, itemID := range itemIDs {
			var detailsID int64
			if err := tx.QueryRowxContext(ctx, `
				INSERT INTO order_details (order_id, item_id, quantity)
				VALUES ($1, $2, 1)
				RETURNING details_id
			`, placed.OrderID, itemID).Scan(&detailsID); err != nil {
				return fmt.Errorf("failed to add order line for item %d: %w", itemID, err)
			}
			placed.DetailIDs = append(placed.DetailIDs, detailsID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}
