package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	ErrorInvalidInput = errors.New("invalid input")
	ErrorNotFound     = errors.New("item not found")
)

// ValidationError describe qué campo falló. errors.Is(err, ErrorInvalidInput) es true.
type ValidationError struct {
	Field   string
	Message string
}

func (err *ValidationError) Error() string {
	return err.Message
}

func (err *ValidationError) Is(target error) bool {
	return target == ErrorInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Store es lo que el service necesita de la persistencia.
// Cada operación es atómica; Apply corre mutate con la fila bloqueada y
// no escribe nada si mutate devuelve error.
type Store interface {
	Insert(ctx context.Context, item Item) (int64, error)
	GetByID(ctx context.Context, id int64) (Item, error)
	List(ctx context.Context, filter Filter) ([]Item, error)
	Apply(ctx context.Context, id int64, mutate func(*Item) error) (Item, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Service contiene reglas de negocio de items.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService crea un service de items.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create valida el reporte y lo persiste como activo.
func (service *Service) Create(ctx context.Context, in CreateItemInput) (Item, error) {
	item := Item{}
	required := []struct {
		field string
		value *string
		dest  *string
	}{
		{"title", in.Title, &item.Title},
		{"description", in.Description, &item.Description},
		{"category", in.Category, &item.Category},
		{"location", in.Location, &item.Location},
		{"contact_name", in.ContactName, &item.ContactName},
		{"contact_email", in.ContactEmail, &item.ContactEmail},
	}
	for _, field := range required {
		value, err := requiredString(field.field, field.value)
		if err != nil {
			return Item{}, err
		}
		*field.dest = value
	}

	status, err := parseStatus(in.Status)
	if err != nil {
		return Item{}, err
	}
	item.Status = status

	if in.ContactPhone != nil {
		item.ContactPhone = strings.TrimSpace(*in.ContactPhone)
	}

	// Truncamos a microsegundos: es la precisión de timestamptz y así
	// lo que devolvemos coincide con lo que se lee después.
	item.DateCreated = service.now().UTC().Truncate(time.Microsecond)
	item.IsResolved = false
	item.DateResolved = nil

	id, err := service.store.Insert(ctx, item)
	if err != nil {
		return Item{}, err
	}
	item.ID = id

	return item, nil
}

// List resuelve los filtros del cliente y delega en el store.
// El orden (más nuevo primero) lo garantiza el store.
func (service *Service) List(ctx context.Context, query ListQuery) ([]Item, error) {
	return service.store.List(ctx, filterFrom(query))
}

// filterFrom aplica los defaults: status/category sin restricción y resolved=active.
// "all" en cualquiera de los tres significa sin restricción; un resolved
// desconocido también.
func filterFrom(query ListQuery) Filter {
	filter := Filter{Resolution: ResolutionActive}

	if status := strings.TrimSpace(query.Status); status != "" && status != "all" {
		filter.Status = Status(status)
	}
	if category := strings.TrimSpace(query.Category); category != "" && category != "all" {
		filter.Category = category
	}

	switch resolved := Resolution(strings.TrimSpace(query.Resolved)); resolved {
	case "", ResolutionActive:
		filter.Resolution = ResolutionActive
	case ResolutionResolved:
		filter.Resolution = ResolutionResolved
	default:
		filter.Resolution = ResolutionAll
	}

	return filter
}

// Get obtiene un item por ID.
func (service *Service) Get(ctx context.Context, id int64) (Item, error) {
	return service.store.GetByID(ctx, id)
}

// Update aplica una actualización parcial dentro de una única operación del store.
func (service *Service) Update(ctx context.Context, id int64, in UpdateItemInput) (Item, error) {
	// Validamos antes de tocar el store: un input inválido nunca abre transacción.
	patch, err := normalizeUpdate(in)
	if err != nil {
		return Item{}, err
	}
	if patch.Empty() {
		return service.store.GetByID(ctx, id)
	}

	return service.store.Apply(ctx, id, func(item *Item) error {
		patch.applyTo(item, service.now())
		return nil
	})
}

// Delete elimina un item por ID.
func (service *Service) Delete(ctx context.Context, id int64) error {
	removed, err := service.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrorNotFound
	}
	return nil
}

// normalizeUpdate valida y recorta los campos presentes.
func normalizeUpdate(in UpdateItemInput) (UpdateItemInput, error) {
	fields := []struct {
		name  string
		value **string
	}{
		{"title", &in.Title},
		{"description", &in.Description},
		{"category", &in.Category},
		{"location", &in.Location},
		{"contact_name", &in.ContactName},
		{"contact_email", &in.ContactEmail},
	}
	for _, field := range fields {
		if *field.value == nil {
			continue
		}
		value, err := requiredString(field.name, *field.value)
		if err != nil {
			return UpdateItemInput{}, err
		}
		*field.value = &value
	}

	if in.Status != nil {
		if _, err := parseStatus(in.Status); err != nil {
			return UpdateItemInput{}, err
		}
	}

	// contact_phone puede quedar vacío.
	if in.ContactPhone != nil {
		phone := strings.TrimSpace(*in.ContactPhone)
		in.ContactPhone = &phone
	}

	return in, nil
}

// applyTo asume un input ya normalizado.
func (in UpdateItemInput) applyTo(item *Item, now time.Time) {
	assign(&item.Title, in.Title)
	assign(&item.Description, in.Description)
	assign(&item.Category, in.Category)
	assign(&item.Location, in.Location)
	assign(&item.ContactName, in.ContactName)
	assign(&item.ContactEmail, in.ContactEmail)
	assign(&item.ContactPhone, in.ContactPhone)

	if in.Status != nil {
		item.Status = Status(strings.TrimSpace(*in.Status))
	}
	if in.IsResolved != nil {
		item.SetResolved(*in.IsResolved, now.Truncate(time.Microsecond))
	}
}

func assign(dest *string, value *string) {
	if value != nil {
		*dest = *value
	}
}

func requiredString(field string, value *string) (string, error) {
	if value == nil {
		return "", invalid(field, "%s is required", field)
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return "", invalid(field, "%s must not be empty", field)
	}
	return trimmed, nil
}

func parseStatus(value *string) (Status, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "", invalid("status", "status is required")
	}
	status := Status(strings.TrimSpace(*value))
	if !status.Valid() {
		return "", invalid("status", "status must be one of: lost, found")
	}
	return status, nil
}
