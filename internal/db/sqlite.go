package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite"
)

// pragmas se pasan por DSN para que apliquen a cada conexión del pool,
// no solo a la primera.
var sqlitePragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// SQLiteDSN convierte DATABASE_URL ("sqlite:archivo.db", "sqlite://archivo.db",
// "file:archivo.db", ":memory:" o una ruta) en un DSN de modernc.org/sqlite.
func SQLiteDSN(databaseURL string) (path string, dsn string) {
	path = strings.TrimSpace(databaseURL)
	for _, prefix := range []string{"sqlite://", "sqlite:", "file:"} {
		if strings.HasPrefix(path, prefix) {
			path = strings.TrimPrefix(path, prefix)
			break
		}
	}
	if path == "" {
		path = ":memory:"
	}

	params := url.Values{}
	for _, pragma := range sqlitePragmas {
		if isMemory(path) && strings.HasPrefix(pragma, "journal_mode") {
			continue
		}
		params.Add("_pragma", pragma)
	}
	// BEGIN IMMEDIATE: el read-modify-write de Apply toma el lock de escritura de entrada.
	params.Set("_txlock", "immediate")

	return path, "file:" + path + "?" + params.Encode()
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// OpenSQLite abre la base, aplica el esquema y la deja lista para items.SQLiteRepository.
func OpenSQLite(ctx context.Context, databaseURL string) (*sql.DB, error) {
	path, dsn := SQLiteDSN(databaseURL)

	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Cada conexión a :memory: es una base distinta: una sola conexión.
	if isMemory(path) {
		database.SetMaxOpenConns(1)
	}

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	if _, err := database.ExecContext(ctx, sqliteSchema); err != nil {
		database.Close()
		return nil, fmt.Errorf("applying sqlite schema: %w", err)
	}

	return database, nil
}
