package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantPath string
	}{
		{"sqlite prefix", "sqlite:lost_found.db", "lost_found.db"},
		{"sqlite url", "sqlite://data/items.db", "data/items.db"},
		{"file prefix", "file:items.db", "items.db"},
		{"bare path", "/tmp/items.db", "/tmp/items.db"},
		{"memory", ":memory:", ":memory:"},
		{"empty", "sqlite:", ":memory:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, dsn := SQLiteDSN(tt.url)

			require.Equal(t, tt.wantPath, path)
			require.Contains(t, dsn, "file:"+tt.wantPath+"?")
			require.Contains(t, dsn, "_txlock=immediate")
			require.Contains(t, dsn, "busy_timeout")
		})
	}
}

func TestSQLiteDSN_MemorySkipsWAL(t *testing.T) {
	_, dsn := SQLiteDSN(":memory:")
	require.NotContains(t, dsn, "journal_mode")

	_, dsn = SQLiteDSN("sqlite:items.db")
	require.Contains(t, dsn, "journal_mode")
}

func TestOpenSQLite_Memory(t *testing.T) {
	database := NewTestSQLite(t)

	var name string
	err := database.QueryRowContext(context.Background(),
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'items'`,
	).Scan(&name)

	require.NoError(t, err)
	require.Equal(t, "items", name)
}

func TestOpenSQLite_SchemaIsIdempotent(t *testing.T) {
	path := t.TempDir() + "/items.db"

	first, err := OpenSQLite(context.Background(), "sqlite:"+path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenSQLite(context.Background(), "sqlite:"+path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}
