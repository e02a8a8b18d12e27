package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// sqliteTimeLayout es de ancho fijo para que el orden lexicográfico de la
// columna coincida con el cronológico (ORDER BY date_created).
const sqliteTimeLayout = "2006-01-02T15:04:05.000000Z"

// SQLiteRepository implementa Store sobre SQLite (modernc.org/sqlite vía database/sql).
type SQLiteRepository struct {
	database *sql.DB
}

// NewSQLiteRepository crea un repositorio de items sobre SQLite.
func NewSQLiteRepository(database *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{database: database}
}

func formatSQLiteTime(value time.Time) string {
	return value.UTC().Format(sqliteTimeLayout)
}

func scanSQLiteItem(row rowScanner) (Item, error) {
	var item Item
	var status, created string
	var resolved sql.NullString
	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.Category, &status, &item.Location,
		&item.ContactName, &item.ContactEmail, &item.ContactPhone,
		&created, &resolved, &item.IsResolved,
	)
	if err != nil {
		return Item{}, err
	}
	item.Status = Status(status)

	item.DateCreated, err = time.Parse(sqliteTimeLayout, created)
	if err != nil {
		return Item{}, fmt.Errorf("parsing date_created %q: %w", created, err)
	}
	if resolved.Valid {
		stamp, err := time.Parse(sqliteTimeLayout, resolved.String)
		if err != nil {
			return Item{}, fmt.Errorf("parsing date_resolved %q: %w", resolved.String, err)
		}
		item.DateResolved = &stamp
	}
	return item, nil
}

func nullableSQLiteTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return formatSQLiteTime(*value)
}

// Insert crea un item y devuelve el rowid asignado.
func (repository *SQLiteRepository) Insert(ctx context.Context, item Item) (int64, error) {
	const query = `
		INSERT INTO items (title, description, category, status, location,
			contact_name, contact_email, contact_phone, date_created, date_resolved, is_resolved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := repository.database.ExecContext(ctx, query,
		item.Title, item.Description, item.Category, string(item.Status), item.Location,
		item.ContactName, item.ContactEmail, item.ContactPhone,
		formatSQLiteTime(item.DateCreated), nullableSQLiteTime(item.DateResolved), item.IsResolved,
	)
	if err != nil {
		return 0, fmt.Errorf("items: insert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("items: insert id: %w", err)
	}
	return id, nil
}

// GetByID busca un item; sql.ErrNoRows se traduce a ErrorNotFound.
func (repository *SQLiteRepository) GetByID(ctx context.Context, id int64) (Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`

	item, err := scanSQLiteItem(repository.database.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrorNotFound
		}
		return Item{}, fmt.Errorf("items: get: %w", err)
	}
	return item, nil
}

// List devuelve los items que cumplen el filtro, más nuevos primero.
func (repository *SQLiteRepository) List(ctx context.Context, filter Filter) ([]Item, error) {
	where, args := whereClause(filter, func(int) string { return "?" })
	query := `SELECT ` + itemColumns + ` FROM items` + where + ` ORDER BY date_created DESC, id DESC`

	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("items: list: %w", err)
	}
	defer rows.Close()

	result := []Item{}
	for rows.Next() {
		item, err := scanSQLiteItem(rows)
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

// Apply hace el read-modify-write dentro de una transacción. La conexión se
// abre con _txlock=immediate, así que el lock de escritura se toma en BEGIN.
func (repository *SQLiteRepository) Apply(ctx context.Context, id int64, mutate func(*Item) error) (Item, error) {
	tx, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return Item{}, fmt.Errorf("items: apply begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	item, err := scanSQLiteItem(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
			title = ?, description = ?, category = ?, status = ?, location = ?,
			contact_name = ?, contact_email = ?, contact_phone = ?,
			date_resolved = ?, is_resolved = ?
		WHERE id = ?
	`
	if _, err := tx.ExecContext(ctx, update,
		item.Title, item.Description, item.Category, string(item.Status), item.Location,
		item.ContactName, item.ContactEmail, item.ContactPhone,
		nullableSQLiteTime(item.DateResolved), item.IsResolved, id,
	); err != nil {
		return Item{}, fmt.Errorf("items: apply update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Item{}, fmt.Errorf("items: apply commit: %w", err)
	}

	// Devolvemos lo mismo que quedó persistido (precisión de microsegundos).
	if item.DateResolved != nil {
		stamp := item.DateResolved.UTC().Truncate(time.Microsecond)
		item.DateResolved = &stamp
	}
	return item, nil
}

// Delete borra el item. Devuelve false si no existía.
func (repository *SQLiteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := repository.database.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("items: delete: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("items: delete rows: %w", err)
	}
	return affected > 0, nil
}
