package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX es el subconjunto de pgxpool.Pool que usa el repositorio.
// Permite testear con fakes sin levantar Postgres.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository accede a la tabla items en PostgreSQL.
// Contiene SQL y mapeo DB → modelo.
type Repository struct {
	database DBTX
}

// NewRepository crea un repositorio de items sobre Postgres.
func NewRepository(database DBTX) *Repository {
	return &Repository{database: database}
}

const itemColumns = `id, title, description, category, status, location,
	contact_name, contact_email, contact_phone, date_created, date_resolved, is_resolved`

// rowScanner cubre pgx.Row, pgx.Rows, *sql.Row y *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgresItem(row rowScanner) (Item, error) {
	var item Item
	var status string
	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.Category, &status, &item.Location,
		&item.ContactName, &item.ContactEmail, &item.ContactPhone,
		&item.DateCreated, &item.DateResolved, &item.IsResolved,
	)
	if err != nil {
		return Item{}, err
	}
	item.Status = Status(status)
	item.DateCreated = item.DateCreated.UTC()
	if item.DateResolved != nil {
		resolved := item.DateResolved.UTC()
		item.DateResolved = &resolved
	}
	return item, nil
}

// Insert crea un item y devuelve el id asignado por la DB.
func (repository *Repository) Insert(ctx context.Context, item Item) (int64, error) {
	const query = `
		INSERT INTO items (title, description, category, status, location,
			contact_name, contact_email, contact_phone, date_created, date_resolved, is_resolved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id;
	`

	var id int64
	err := repository.database.QueryRow(ctx, query,
		item.Title, item.Description, item.Category, string(item.Status), item.Location,
		item.ContactName, item.ContactEmail, item.ContactPhone,
		item.DateCreated, item.DateResolved, item.IsResolved,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("items: insert: %w", err)
	}

	return id, nil
}

// GetByID busca un item; pgx.ErrNoRows se traduce a ErrorNotFound.
func (repository *Repository) GetByID(ctx context.Context, id int64) (Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1;`

	item, err := scanPostgresItem(repository.database.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrorNotFound
		}
		return Item{}, fmt.Errorf("items: get: %w", err)
	}
	return item, nil
}

// List devuelve los items que cumplen el filtro, más nuevos primero.
func (repository *Repository) List(ctx context.Context, filter Filter) ([]Item, error) {
	where, args := whereClause(filter, func(n int) string { return fmt.Sprintf("$%d", n) })
	query := `SELECT ` + itemColumns + ` FROM items` + where + ` ORDER BY date_created DESC, id DESC;`

	rows, err := repository.database.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("items: list: %w", err)
	}
	defer rows.Close()

	result := []Item{}
	for rows.Next() {
		item, err := scanPostgresItem(rows)
		if err != nil {
			return nil, fmt.Errorf("items: list scan: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("items: list rows: %w", err)
	}

	return result, nil
}

// Apply lee el item con SELECT ... FOR UPDATE, aplica mutate y guarda todo
// en la misma transacción. Si algo falla se hace rollback y no queda nada escrito.
func (repository *Repository) Apply(ctx context.Context, id int64, mutate func(*Item) error) (Item, error) {
	tx, err := repository.database.Begin(ctx)
	if err != nil {
		return Item{}, fmt.Errorf("items: apply begin: %w", err)
	}
	// Rollback después de Commit es un no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE;`
	item, err := scanPostgresItem(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrorNotFound
		}
		return Item{}, fmt.Errorf("items: apply load: %w", err)
	}

	if err := mutate(&item); err != nil {
		return Item{}, err
	}
	item.ID = id

	const update = `
		UPDATE items SET
			title = $1, description = $2, category = $3, status = $4, location = $5,
			contact_name = $6, contact_email = $7, contact_phone = $8,
			date_resolved = $9, is_resolved = $10
		WHERE id = $11;
	`
	if _, err := tx.Exec(ctx, update,
		item.Title, item.Description, item.Category, string(item.Status), item.Location,
		item.ContactName, item.ContactEmail, item.ContactPhone,
		item.DateResolved, item.IsResolved, id,
	); err != nil {
		return Item{}, fmt.Errorf("items: apply update: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Item{}, fmt.Errorf("items: apply commit: %w", err)
	}

	return item, nil
}

// Delete borra el item. Devuelve false si no existía.
func (repository *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM items WHERE id = $1 RETURNING id;`

	var deletedID int64
	if err := repository.database.QueryRow(ctx, query, id).Scan(&deletedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("items: delete: %w", err)
	}
	return true, nil
}

// whereClause arma el WHERE para ambos dialectos; placeholder recibe la posición (1-based).
func whereClause(filter Filter, placeholder func(n int) string) (string, []any) {
	var conditions []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, column+" = "+placeholder(len(args)))
	}

	if filter.Status != "" {
		add("status", string(filter.Status))
	}
	if filter.Category != "" {
		add("category", filter.Category)
	}
	switch filter.Resolution {
	case ResolutionActive:
		add("is_resolved", false)
	case ResolutionResolved:
		add("is_resolved", true)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
