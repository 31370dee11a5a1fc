package services

import (
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/database"
	"github.com/stretchr/testify/require"
)

const (
	roleNamesQuery = `SELECT p.permission_name\s+FROM permissions p\s+JOIN role_permissions rp`
	staffRoleQuery = `SELECT role_id FROM staff WHERE staff_id = \$1`
)

func setupTestDB(t *testing.T) (*database.PostgresDB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &database.PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestAuthorization(db database.DB) *AuthorizationService {
	return NewAuthorizationService(
		database.NewStaffRepository(db),
		database.NewPermissionRepository(db),
		DefaultPolicy(),
		testLogger(),
	)
}

func nameRows(names ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"permission_name"})
	for _, n := range names {
		rows.AddRow(n)
	}
	return rows
}
