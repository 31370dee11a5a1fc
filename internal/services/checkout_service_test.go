package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/smartcafe/cafeteria-portal/internal/database"
	"github.com/smartcafe/cafeteria-portal/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemColumns = []string{"item_id", "name", "price", "availability", "cafeteria_id", "cafeteria_name"}

func newTestCheckoutService(db database.DB) *CheckoutService {
	return NewCheckoutService(database.NewItemRepository(db), database.NewOrderRepository(db), testLogger())
}

func TestConfirm(t *testing.T) {
	t.Run("Prices from catalogue", func(t *testing.T) {
		db, mock := setupTestDB(t)
		service := newTestCheckoutService(db)

		mock.ExpectQuery(`WHERE i.item_id = ANY\(\$1\)`).
			WillReturnRows(sqlmock.NewRows(itemColumns).
				AddRow(1, "Chapati", "150.00", true, "C001", "Main").
				AddRow(2, "Pilau", "300.00", true, "C001", "Main"))

		cart, items, err := service.Confirm(context.Background(), []int{2, 1, 2})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, cart.ItemIDs)
		assert.Equal(t, 450.0, cart.Total)
		assert.Len(t, items, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nothing selected", func(t *testing.T) {
		db, mock := setupTestDB(t)
		service := newTestCheckoutService(db)

		_, _, err := service.Confirm(context.Background(), nil)
		assert.ErrorIs(t, err, ErrEmptyCart)
		assert.Equal(t, "No items selected. Please select at least one item.", err.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown item", func(t *testing.T) {
		db, mock := setupTestDB(t)
		service := newTestCheckoutService(db)

		mock.ExpectQuery(`WHERE i.item_id = ANY\(\$1\)`).
			WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(1, "Chapati", "150.00", true, "C001", "Main"))

		_, _, err := service.Confirm(context.Background(), []int{1, 77})
		var validation *ValidationError
		assert.True(t, errors.As(err, &validation))
	})

	t.Run("Unavailable item", func(t *testing.T) {
		db, mock := setupTestDB(t)
		service := newTestCheckoutService(db)

		mock.ExpectQuery(`WHERE i.item_id = ANY\(\$1\)`).
			WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(3, "Samosa", "50.00", false, "C001", "Main"))

		_, _, err := service.Confirm(context.Background(), []int{3})
		assert.EqualError(t, err, "Samosa is currently unavailable.")
	})
}

func TestPay(t *testing.T) {
	cart := &session.Cart{ItemIDs: []int{1, 2}, Total: 450}

	t.Run("Method required", func(t *testing.T) {
		db, _ := setupTestDB(t)
		_, err := newTestCheckoutService(db).Pay(context.Background(), "S001", cart, " ")
		assert.ErrorIs(t, err, ErrPaymentMethodRequired)
	})

	t.Run("Method not a number", func(t *testing.T) {
		db, _ := setupTestDB(t)
		_, err := newTestCheckoutService(db).Pay(context.Background(), "S001", cart, "cash")
		assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	})

	t.Run("Unknown method", func(t *testing.T) {
		db, mock := setupTestDB(t)
		mock.ExpectQuery(`FROM payment_methods WHERE method_id = \$1`).
			WithArgs(8).
			WillReturnRows(sqlmock.NewRows([]string{"method_id", "method"}))

		_, err := newTestCheckoutService(db).Pay(context.Background(), "S001", cart, "8")
		assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty cart", func(t *testing.T) {
		db, _ := setupTestDB(t)
		_, err := newTestCheckoutService(db).Pay(context.Background(), "S001", nil, "1")
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("Places the order", func(t *testing.T) {
		db, mock := setupTestDB(t)
		paidAt := time.Now()

		mock.ExpectQuery(`FROM payment_methods WHERE method_id = \$1`).
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows([]string{"method_id", "method"}).AddRow(2, "M-Pesa"))
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs("S001", 450.0).
			WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(10))
		mock.ExpectQuery(`INSERT INTO payments`).
			WithArgs(10, 450.0, 2).
			WillReturnRows(sqlmock.NewRows([]string{"payment_id", "paid_at"}).AddRow("P001", paidAt))
		mock.ExpectQuery(`INSERT INTO order_details`).
			WithArgs(10, 1).
			WillReturnRows(sqlmock.NewRows([]string{"details_id"}).AddRow(int64(1)))
		mock.ExpectQuery(`INSERT INTO order_details`).
			WithArgs(10, 2).
			WillReturnRows(sqlmock.NewRows([]string{"details_id"}).AddRow(int64(2)))
		mock.ExpectCommit()

		receipt, err := newTestCheckoutService(db).Pay(context.Background(), "S001", cart, "2")
		require.NoError(t, err)
		assert.Equal(t, 10, receipt.OrderID)
		assert.Equal(t, "P001", receipt.PaymentID)
		assert.Equal(t, "M-Pesa", receipt.Method)
		assert.Equal(t, 450.0, receipt.Total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderReceipt_Missing(t *testing.T) {
	db, mock := setupTestDB(t)
	mock.ExpectQuery(`WHERE o.order_id = \$1`).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}))

	receipt, err := newTestCheckoutService(db).OrderReceipt(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, receipt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, []int{1, 3, 7}, distinct([]int{7, 3, 1, 3, 0, -2, 7}))
	assert.Empty(t, distinct(nil))
}
