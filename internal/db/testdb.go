package db

import (
	"context"
	"database/sql"
	"testing"
)

// NewTestSQLite crea una base SQLite en memoria con el esquema aplicado.
// Se cierra sola al terminar el test.
func NewTestSQLite(t testing.TB) *sql.DB {
	t.Helper()

	database, err := OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	t.Cleanup(func() { database.Close() })

	return database
}
