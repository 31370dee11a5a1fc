package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/smartcafe/cafeteria-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCafeteriaDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Cascades in order", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCafeteriaRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM work_schedules\s+WHERE staff_id IN \(SELECT staff_id FROM staff WHERE cafeteria_id = \$1\)`).
			WithArgs("C001").
			WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(`DELETE FROM items WHERE cafeteria_id = \$1`).
			WithArgs("C001").
			WillReturnResult(sqlmock.NewResult(0, 6))
		mock.ExpectExec(`DELETE FROM staff WHERE cafeteria_id = \$1`).
			WithArgs("C001").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM cafeterias WHERE cafeteria_id = \$1`).
			WithArgs("C001").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(ctx, "C001"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure part way rolls back", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCafeteriaRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM work_schedules`).
			WithArgs("C001").
			WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(`DELETE FROM items WHERE cafeteria_id = \$1`).
			WithArgs("C001").
			WillReturnResult(sqlmock.NewResult(0, 6))
		mock.ExpectExec(`DELETE FROM staff WHERE cafeteria_id = \$1`).
			WithArgs("C001").
			WillReturnError(fmt.Errorf("lock timeout"))
		mock.ExpectRollback()

		err := repo.Delete(ctx, "C001")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete staff")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown cafeteria", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCafeteriaRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM work_schedules`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM items`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM staff`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM cafeterias`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(ctx, "C999")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCafeteriaCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCafeteriaRepository(db)

	mock.ExpectQuery(`INSERT INTO cafeterias \(name, location\) VALUES \(\$1, \$2\) RETURNING cafeteria_id`).
		WithArgs("Main", "Block A").
		WillReturnRows(sqlmock.NewRows([]string{"cafeteria_id"}).AddRow("C004"))

	cafeteria, err := repo.Create(context.Background(), "Main", "Block A")
	require.NoError(t, err)
	assert.Equal(t, "C004", cafeteria.CafeteriaID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCafeteriaList_Search(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCafeteriaRepository(db)

	mock.ExpectQuery(`SELECT cafeteria_id, name, location\s+FROM cafeterias`).
		WithArgs("main").
		WillReturnRows(sqlmock.NewRows([]string{"cafeteria_id", "name", "location"}).
			AddRow("C001", "Main Cafeteria", "Block A"))

	cafeterias, err := repo.List(context.Background(), "main")
	require.NoError(t, err)
	require.Len(t, cafeterias, 1)
	assert.Equal(t, "Main Cafeteria", cafeterias[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Blocked when referenced", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewItemRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM order_details WHERE item_id = \$1`).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectCommit()

		references, err := repo.Delete(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, 3, references)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Deleted when unreferenced", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewItemRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM order_details`).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM items WHERE item_id = \$1`).
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		references, err := repo.Delete(ctx, 7)
		require.NoError(t, err)
		assert.Zero(t, references)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestItemGetByIDs(t *testing.T) {
	t.Run("No IDs skips the query", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewItemRepository(db)

		items, err := repo.GetByIDs(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Loads listed items", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewItemRepository(db)

		mock.ExpectQuery(`WHERE i.item_id = ANY\(\$1\)`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"item_id", "name", "price", "availability", "cafeteria_id", "cafeteria_name"}).
				AddRow(1, "Chapati", "150.00", true, "C001", "Main").
				AddRow(2, "Pilau", "300.00", true, "C001", "Main"))

		items, err := repo.GetByIDs(context.Background(), []int{1, 2})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, 150.0, items[0].Price)
		assert.Equal(t, "Main", items[1].CafeteriaName.String)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestItemCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewItemRepository(db)

	req := &models.ItemRequest{Name: "Mandazi", Price: 20, Availability: true, CafeteriaID: "C001"}
	mock.ExpectQuery(`INSERT INTO items`).
		WithArgs("Mandazi", 20.0, true, "C001").
		WillReturnRows(sqlmock.NewRows([]string{"item_id"}).AddRow(12))

	item, err := repo.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 12, item.ItemID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Blocked while assigned", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRoleRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM staff WHERE role_id = \$1`).
			WithArgs("R002").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
		mock.ExpectCommit()

		assigned, err := repo.Delete(ctx, "R002")
		require.NoError(t, err)
		assert.Equal(t, 4, assigned)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Removes grants then role", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRoleRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM staff WHERE role_id = \$1`).
			WithArgs("R004").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM role_permissions WHERE role_id = \$1`).
			WithArgs("R004").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM roles WHERE role_id = \$1`).
			WithArgs("R004").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assigned, err := repo.Delete(ctx, "R004")
		require.NoError(t, err)
		assert.Zero(t, assigned)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRoleCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoleRepository(db)

	mock.ExpectQuery(`INSERT INTO roles \(role_name\) VALUES \(\$1\) RETURNING role_id`).
		WithArgs("Cashier").
		WillReturnRows(sqlmock.NewRows([]string{"role_id"}).AddRow("R004"))

	role, err := repo.Create(context.Background(), "Cashier")
	require.NoError(t, err)
	assert.Equal(t, "R004", role.RoleID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
