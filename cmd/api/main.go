package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Lelo88/lostfound-api-golang/internal/auth"
	"github.com/Lelo88/lostfound-api-golang/internal/config"
	"github.com/Lelo88/lostfound-api-golang/internal/db"
	"github.com/Lelo88/lostfound-api-golang/internal/docs"
	"github.com/Lelo88/lostfound-api-golang/internal/health"
	"github.com/Lelo88/lostfound-api-golang/internal/httpx"
	"github.com/Lelo88/lostfound-api-golang/internal/items"
	"github.com/Lelo88/lostfound-api-golang/internal/logger"
	"github.com/Lelo88/lostfound-api-golang/internal/metrics"
	"github.com/Lelo88/lostfound-api-golang/internal/stats"
)

const serviceName = "lostfound-api"

// appStore es el store de items más lo que necesitan /ready y el cierre del proceso.
type appStore interface {
	items.Store
	Ping(ctx context.Context) error
	Close()
}

type appDeps struct {
	loadConfig     func() (config.Config, error)
	newLogger      func(serviceName, logLevel string) (*zap.Logger, error)
	openStore      func(ctx context.Context, databaseURL string) (appStore, error)
	listenAndServe func(addr string, handler http.Handler) error
}

// Hooks reemplazables desde tests.
var (
	loadConfigFn     = config.Load
	newLoggerFn      = logger.New
	openStoreFn      = openStore
	listenAndServeFn = listenAndServe
	fatalf           = log.Fatal
)

func main() {
	err := run(context.Background(), appDeps{
		loadConfig:     loadConfigFn,
		newLogger:      newLoggerFn,
		openStore:      openStoreFn,
		listenAndServe: listenAndServeFn,
	})
	if err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, deps appDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	appLog, err := deps.newLogger(serviceName, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = appLog.Sync() }()

	secret := cfg.SessionSecret
	if secret == "" {
		secret, err = auth.RandomSecret()
		if err != nil {
			return err
		}
		appLog.Warn("SESSION_SECRET not set; using a random secret, sessions will not survive restarts")
	}

	gate, err := auth.NewGate(auth.StaticCredentials{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
	}, secret, cfg.SessionTTL)
	if err != nil {
		return err
	}

	store, err := deps.openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	router, err := buildRouter(store, gate, routerOptions{
		SecureCookie: cfg.CookieSecure,
		CORSOrigins:  cfg.CORSAllowedOrigins,
	}, appLog)
	if err != nil {
		return err
	}

	addr := ":" + cfg.Port
	appLog.Info("listening", zap.String("addr", addr), zap.String("driver", string(db.DriverFor(cfg.DatabaseURL))))
	return deps.listenAndServe(addr, router)
}

// routerOptions es lo que buildRouter toma de la config.
type routerOptions struct {
	SecureCookie bool
	CORSOrigins  []string
}

// corsMiddleware acepta cualquier origen sin credenciales con "*"; con orígenes
// explícitos habilita credenciales para que viaje la cookie de sesión.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	wildcard := len(origins) == 0 || slices.Contains(origins, "*")
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	})
}

func buildRouter(store appStore, gate *auth.Gate, opts routerOptions, appLog *zap.Logger) (http.Handler, error) {
	appMetrics := metrics.New()
	aggregator := stats.NewAggregator(store)
	if err := appMetrics.RegisterItems(aggregator); err != nil {
		return nil, fmt.Errorf("registering item metrics: %w", err)
	}

	r := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(appLog))
	r.Use(appMetrics.Middleware)
	r.Use(corsMiddleware(opts.CORSOrigins))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	// Errores de routing se manejan a nivel router.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusNotFound, "not_found", "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	healthHandler := health.New(store)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", appMetrics.Handler())
	docs.RegisterRoutes(r)

	auth.RegisterRoutes(r, auth.NewHandler(gate, opts.SecureCookie, appLog))
	items.RegisterRoutes(r, items.NewHandler(items.NewService(store), appLog), gate.RequireSession)
	stats.RegisterRoutes(r, stats.NewHandler(aggregator, appLog))

	return r, nil
}

func listenAndServe(addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return server.ListenAndServe()
}

// openStore elige Postgres o SQLite según DATABASE_URL y deja el esquema aplicado.
func openStore(ctx context.Context, databaseURL string) (appStore, error) {
	switch db.DriverFor(databaseURL) {
	case db.DriverPostgres:
		pool, err := db.NewPool(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &postgresStore{Repository: items.NewRepository(pool), pool: pool}, nil
	default:
		database, err := db.OpenSQLite(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return newSQLiteStore(database), nil
	}
}

type postgresStore struct {
	*items.Repository
	pool *pgxpool.Pool
}

func (store *postgresStore) Ping(ctx context.Context) error { return store.pool.Ping(ctx) }

func (store *postgresStore) Close() { store.pool.Close() }

type sqliteStore struct {
	*items.SQLiteRepository
	database *sql.DB
}

func newSQLiteStore(database *sql.DB) *sqliteStore {
	return &sqliteStore{SQLiteRepository: items.NewSQLiteRepository(database), database: database}
}

func (store *sqliteStore) Ping(ctx context.Context) error { return store.database.PingContext(ctx) }

func (store *sqliteStore) Close() { _ = store.database.Close() }
