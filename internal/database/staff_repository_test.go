package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffGetByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewStaffRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM staff WHERE username = \$1`).
			WithArgs("admin").
			WillReturnRows(sqlmock.NewRows([]string{"staff_id", "username", "password_hash", "role_id", "cafeteria_id", "created_at"}).
				AddRow(1, "admin", "$2a$10$hash", "R001", nil, time.Now()))

		staff, err := repo.GetByUsername(ctx, "admin")
		require.NoError(t, err)
		require.NotNil(t, staff)
		assert.Equal(t, "R001", staff.RoleID)
		assert.False(t, staff.CafeteriaID.Valid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewStaffRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM staff WHERE username = \$1`).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		staff, err := repo.GetByUsername(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, staff)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStaffGetRoleID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStaffRepository(db)

	mock.ExpectQuery(`SELECT role_id FROM staff WHERE staff_id = \$1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"role_id"}).AddRow("R003"))
	mock.ExpectQuery(`SELECT role_id FROM staff WHERE staff_id = \$1`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"role_id"}))

	roleID, err := repo.GetRoleID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "R003", roleID)

	roleID, err = repo.GetRoleID(context.Background(), 4)
	require.NoError(t, err)
	assert.Empty(t, roleID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffUpdateAssignment(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStaffRepository(db)

	mock.ExpectExec(`UPDATE staff SET role_id = \$1, cafeteria_id = \$2 WHERE staff_id = \$3`).
		WithArgs("R003", sql.NullString{String: "C002", Valid: true}, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateAssignment(context.Background(), 5, "R003", sql.NullString{String: "C002", Valid: true})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
