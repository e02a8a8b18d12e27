package items

import (
	"encoding/json"
	"time"
)

// TimestampLayout es el formato con el que se serializan las fechas (siempre UTC).
const TimestampLayout = "2006-01-02 15:04:05"

// Status indica si el reporte es de algo perdido o de algo encontrado.
type Status string

const (
	StatusLost  Status = "lost"
	StatusFound Status = "found"
)

// Valid informa si el status es uno de los admitidos.
func (status Status) Valid() bool {
	return status == StatusLost || status == StatusFound
}

// Item representa un reporte persistido.
// DateResolved es nil mientras el item esté activo; solo SetResolved lo toca.
type Item struct {
	ID           int64
	Title        string
	Description  string
	Category     string
	Status       Status
	Location     string
	ContactName  string
	ContactEmail string
	ContactPhone string
	DateCreated  time.Time
	DateResolved *time.Time
	IsResolved   bool
}

type itemJSON struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Status       Status  `json:"status"`
	Location     string  `json:"location"`
	ContactName  string  `json:"contact_name"`
	ContactEmail string  `json:"contact_email"`
	ContactPhone string  `json:"contact_phone"`
	DateCreated  string  `json:"date_created"`
	DateResolved *string `json:"date_resolved"`
	IsResolved   bool    `json:"is_resolved"`
}

// MarshalJSON serializa las fechas con TimestampLayout en UTC.
func (item Item) MarshalJSON() ([]byte, error) {
	out := itemJSON{
		ID:           item.ID,
		Title:        item.Title,
		Description:  item.Description,
		Category:     item.Category,
		Status:       item.Status,
		Location:     item.Location,
		ContactName:  item.ContactName,
		ContactEmail: item.ContactEmail,
		ContactPhone: item.ContactPhone,
		DateCreated:  item.DateCreated.UTC().Format(TimestampLayout),
		IsResolved:   item.IsResolved,
	}
	if item.DateResolved != nil {
		resolved := item.DateResolved.UTC().Format(TimestampLayout)
		out.DateResolved = &resolved
	}
	return json.Marshal(out)
}

// CreateItemInput representa el payload para crear un reporte.
// Se usan punteros para distinguir "no vino" de "vino vacío".
type CreateItemInput struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	Status       *string `json:"status"`
	Location     *string `json:"location"`
	ContactName  *string `json:"contact_name"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
}

// UpdateItemInput representa una actualización parcial.
// nil significa "no tocar" (tanto si el campo no vino como si vino en null).
type UpdateItemInput struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	Status       *string `json:"status"`
	Location     *string `json:"location"`
	ContactName  *string `json:"contact_name"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	IsResolved   *bool   `json:"is_resolved"`
}

// Empty informa si la actualización no trae ningún campo.
func (in UpdateItemInput) Empty() bool {
	return in.Title == nil && in.Description == nil && in.Category == nil &&
		in.Status == nil && in.Location == nil && in.ContactName == nil &&
		in.ContactEmail == nil && in.ContactPhone == nil && in.IsResolved == nil
}

// Resolution filtra por estado de resolución.
type Resolution string

const (
	ResolutionActive   Resolution = "active"
	ResolutionResolved Resolution = "resolved"
	ResolutionAll      Resolution = "all"
)

// Filter combina (AND) predicados de igualdad sobre el store.
// Campos vacíos no restringen.
type Filter struct {
	Status     Status
	Category   string
	Resolution Resolution
}

// ListQuery son los filtros tal como llegan del cliente.
type ListQuery struct {
	Status   string
	Category string
	Resolved string
}
