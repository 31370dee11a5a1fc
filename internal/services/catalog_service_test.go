package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/smartcafe/cafeteria-portal/internal/database"
	"github.com/smartcafe/cafeteria-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalogService(db database.DB) *CatalogService {
	return NewCatalogService(
		database.NewCafeteriaRepository(db),
		database.NewItemRepository(db),
		database.NewRoleRepository(db),
		database.NewStaffRepository(db),
		DefaultPolicy(),
		testLogger(),
	)
}

func TestDeleteItem_Referenced(t *testing.T) {
	db, mock := setupTestDB(t)
	service := newTestCatalogService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM order_details WHERE item_id = \$1`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectCommit()

	err := service.DeleteItem(context.Background(), 4)
	var referenced *ReferencedError
	require.True(t, errors.As(err, &referenced))
	assert.Equal(t, "Cannot delete menu item. It is referenced in 2 order(s).", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRole(t *testing.T) {
	t.Run("Administrator role is protected", func(t *testing.T) {
		db, mock := setupTestDB(t)
		service := newTestCatalogService(db)

		err := service.DeleteRole(context.Background(), "R001")
		var validation *ValidationError
		assert.True(t, errors.As(err, &validation))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Assigned role", func(t *testing.T) {
		db, mock := setupTestDB(t)
		service := newTestCatalogService(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM staff WHERE role_id = \$1`).
			WithArgs("R003").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectCommit()

		err := service.DeleteRole(context.Background(), "R003")
		assert.EqualError(t, err, "Cannot delete role. It is currently assigned to 1 staff member(s).")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAddCafeteria_Validation(t *testing.T) {
	db, mock := setupTestDB(t)
	service := newTestCatalogService(db)

	_, err := service.AddCafeteria(context.Background(), &models.CafeteriaRequest{Name: "Main", Location: "  "})
	assert.EqualError(t, err, "Location is required.")

	mock.ExpectQuery(`INSERT INTO cafeterias`).
		WithArgs("Main", "Block A").
		WillReturnRows(sqlmock.NewRows([]string{"cafeteria_id"}).AddRow("C002"))

	cafeteria, err := service.AddCafeteria(context.Background(), &models.CafeteriaRequest{Name: " Main ", Location: "Block A"})
	require.NoError(t, err)
	assert.Equal(t, "C002", cafeteria.CafeteriaID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddItem(t *testing.T) {
	t.Run("Rejects non-positive price", func(t *testing.T) {
		db, mock := setupTestDB(t)
		service := newTestCatalogService(db)

		_, err := service.AddItem(context.Background(), &models.ItemRequest{Name: "Tea", Price: 0, CafeteriaID: "C001"})
		var validation *ValidationError
		assert.True(t, errors.As(err, &validation))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown cafeteria", func(t *testing.T) {
		db, mock := setupTestDB(t)
		service := newTestCatalogService(db)

		mock.ExpectQuery(`INSERT INTO items`).
			WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

		_, err := service.AddItem(context.Background(), &models.ItemRequest{Name: "Tea", Price: 30, CafeteriaID: "C999"})
		assert.EqualError(t, err, "Cafeteria C999 does not exist.")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateStaffAssignment(t *testing.T) {
	t.Run("Bad role ID", func(t *testing.T) {
		db, mock := setupTestDB(t)
		service := newTestCatalogService(db)

		err := service.UpdateStaffAssignment(context.Background(), 2, &models.UpdateStaffRequest{RoleID: "admin"})
		assert.EqualError(t, err, "Invalid role: admin.")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Clears cafeteria", func(t *testing.T) {
		db, mock := setupTestDB(t)
		service := newTestCatalogService(db)

		mock.ExpectExec(`UPDATE staff SET role_id = \$1, cafeteria_id = \$2 WHERE staff_id = \$3`).
			WithArgs("R002", nil, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := service.UpdateStaffAssignment(context.Background(), 2, &models.UpdateStaffRequest{RoleID: "R002"})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Invalid password.", UserMessage(ErrInvalidPassword, "generic"))
	assert.Equal(t, "bad input", UserMessage(&ValidationError{Message: "bad input"}, "generic"))
	assert.Equal(t, "Cannot delete role. It is currently assigned to 3 staff member(s).",
		UserMessage(&ReferencedError{Entity: EntityRole, Count: 3}, "generic"))
	assert.Equal(t, "generic", UserMessage(errors.New("pq: connection refused"), "generic"))
}
