package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Driver identifica el motor que selecciona DATABASE_URL.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// DriverFor decide el motor a partir de la connection string.
// postgres:// y postgresql:// van a Postgres; cualquier otra cosa se trata como SQLite.
func DriverFor(databaseURL string) Driver {
	lower := strings.ToLower(strings.TrimSpace(databaseURL))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

type poolPinger interface {
	Ping(ctx context.Context) error
	Close()
}

const (
	connectTimeout  = 5 * time.Second
	maxConns        = 10
	maxConnIdleTime = 5 * time.Minute
)

var (
	newPool  = pgxpool.NewWithConfig
	pingPool = func(ctx context.Context, pool poolPinger) error {
		return pool.Ping(ctx)
	}
	closePool = func(pool poolPinger) {
		pool.Close()
	}
)

// PoolConfig parsea DATABASE_URL y aplica los límites del pool.
// Si la URL ya trae pool_max_conns se respeta.
func PoolConfig(databaseURL string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: parsing postgres url: %w", err)
	}
	if !strings.Contains(databaseURL, "pool_max_conns") {
		cfg.MaxConns = maxConns
	}
	cfg.MaxConnIdleTime = maxConnIdleTime
	return cfg, nil
}

// NewPool crea el pool de PostgreSQL y hace un ping inicial.
// El arranque no espera más de connectTimeout a la DB.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := PoolConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := newPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db: creating pool: %w", err)
	}

	if err := pingPool(ctx, pool); err != nil {
		closePool(pool)
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return pool, nil
}

// Execer es lo mínimo que necesita Migrate (pgxpool.Pool lo cumple).
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Migrate crea la tabla items en Postgres si no existe.
func Migrate(ctx context.Context, database Execer) error {
	if _, err := database.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("applying postgres schema: %w", err)
	}
	return nil
}
