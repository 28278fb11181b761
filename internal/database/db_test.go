package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/config"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
	}{
		{
			name: "creates connection with valid config",
			cfg: config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				Database: "recall",
				Username: "testuser",
				Password: "testpass",
			},
		},
		{
			name: "creates connection with pool settings",
			cfg: config.DatabaseConfig{
				Host:            "localhost",
				Port:            3306,
				Database:        "recall",
				Username:        "testuser",
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 300,
			},
		},
		{
			name: "creates connection with TLS and params",
			cfg: config.DatabaseConfig{
				Host:     "db.example.com",
				Port:     3307,
				Database: "recall",
				Username: "admin",
				TLS:      true,
				Params:   map[string]string{"charset": "utf8mb4"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Open(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, got)
			defer got.Close()

			assert.Equal(t, "mysql", got.DriverName())
		})
	}
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "recall.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "sqlite", db.DriverName())
	require.NoError(t, Migrate(context.Background(), db))
	// Migrations are idempotent
	require.NoError(t, Migrate(context.Background(), db))

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM scheduled_items"))
	assert.Equal(t, 0, count)
}

func TestMigrate(t *testing.T) {
	t.Run("mysql schema", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS scheduled_items").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS review_logs").WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, Migrate(context.Background(), sqlx.NewDb(db, "mysql")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops at the first error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS scheduled_items").WillReturnError(fmt.Errorf("access denied"))

		err = Migrate(context.Background(), sqlx.NewDb(db, "mysql"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRunInTx(t *testing.T) {
	tests := []struct {
		name      string
		fn        func(ctx context.Context, tx *sqlx.Tx) error
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
		errMsg    string
	}{
		{
			name: "commits on success",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
		},
		{
			name: "rolls back on error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return fmt.Errorf("something failed")
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			wantErr: true,
			errMsg:  "something failed",
		},
		{
			name: "rollback error keeps the original error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return fmt.Errorf("something failed")
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(fmt.Errorf("rollback failed"))
			},
			wantErr: true,
			errMsg:  "original error: something failed",
		},
		{
			name: "begin error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(fmt.Errorf("begin failed"))
			},
			wantErr: true,
			errMsg:  "begin transaction",
		},
		{
			name: "commit error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(fmt.Errorf("commit failed"))
			},
			wantErr: true,
			errMsg:  "commit transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			tt.setupMock(mock)

			err = RunInTx(context.Background(), sqlxDB, tt.fn)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBuildMultiRowInsert(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		rowCount int
		want     string
	}{
		{
			name:     "single row",
			columns:  []string{"id", "item_id"},
			rowCount: 1,
			want:     "INSERT INTO review_logs (id, item_id) VALUES (?, ?)",
		},
		{
			name:     "multiple rows",
			columns:  []string{"id", "item_id", "reviewed_at"},
			rowCount: 2,
			want:     "INSERT INTO review_logs (id, item_id, reviewed_at) VALUES (?, ?, ?), (?, ?, ?)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildMultiRowInsert("review_logs", tt.columns, tt.rowCount))
		})
	}
}

func TestMigrationStatements(t *testing.T) {
	migrations := fstest.MapFS{
		"migrations/mysql/002_add_index.sql": {Data: []byte("CREATE INDEX idx_b ON b(id);\n")},
		"migrations/mysql/001_create.sql": {Data: []byte(`-- first migration
CREATE TABLE a (
    id INT
);

CREATE TABLE b (id INT);
`)},
		"migrations/mysql/README.md": {Data: []byte("not a migration")},
		"migrations/sqlite/001_create.sql": {Data: []byte("CREATE TABLE c (id INTEGER);")},
	}

	tests := []struct {
		name    string
		dialect string
		want    []string
		wantErr bool
	}{
		{
			name:    "mysql in file name order",
			dialect: "mysql",
			want: []string{
				"CREATE TABLE a (\n    id INT\n)",
				"CREATE TABLE b (id INT)",
				"CREATE INDEX idx_b ON b(id)",
			},
		},
		{
			name:    "sqlite",
			dialect: "sqlite",
			want:    []string{"CREATE TABLE c (id INTEGER)"},
		},
		{
			name:    "unknown dialect",
			dialect: "postgres",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := migrationStatements(migrations, tt.dialect)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
