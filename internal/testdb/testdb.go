// Package testdb provides throwaway in-memory databases for package tests.
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// New opens a private in-memory SQLite database and creates a table for each model.
// The database is closed when the test ends.
//
// It is limited to a single connection, so a test must close a store handle before
// touching the database through another one.
func New(t testing.TB, models ...any) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	for _, model := range models {
		_, err = db.NewCreateTable().Model(model).IfNotExists().Exec(context.Background())
		require.NoError(t, err)
	}

	return db
}

// Seed inserts records directly, bypassing the store.
func Seed[T any](t testing.TB, db *bun.DB, records []T) {
	t.Helper()

	if len(records) == 0 {
		return
	}
	_, err := db.NewInsert().Model(&records).Exec(context.Background())
	require.NoError(t, err)
}
