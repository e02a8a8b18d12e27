package items

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeStore implementa Store en memoria.
type fakeStore struct {
	items  map[int64]Item
	nextID int64

	insertCalled bool
	applyCalled  bool
	listFilter   Filter

	insertErr error
	listErr   error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[int64]Item{}}
}

func (store *fakeStore) Insert(ctx context.Context, item Item) (int64, error) {
	store.insertCalled = true
	if store.insertErr != nil {
		return 0, store.insertErr
	}
	store.nextID++
	item.ID = store.nextID
	store.items[item.ID] = item
	return item.ID, nil
}

func (store *fakeStore) GetByID(ctx context.Context, id int64) (Item, error) {
	item, ok := store.items[id]
	if !ok {
		return Item{}, ErrorNotFound
	}
	return item, nil
}

func (store *fakeStore) List(ctx context.Context, filter Filter) ([]Item, error) {
	store.listFilter = filter
	if store.listErr != nil {
		return nil, store.listErr
	}
	out := []Item{}
	for _, item := range store.items {
		out = append(out, item)
	}
	return out, nil
}

func (store *fakeStore) Apply(ctx context.Context, id int64, mutate func(*Item) error) (Item, error) {
	store.applyCalled = true
	item, ok := store.items[id]
	if !ok {
		return Item{}, ErrorNotFound
	}
	if err := mutate(&item); err != nil {
		return Item{}, err
	}
	store.items[id] = item
	return item, nil
}

func (store *fakeStore) Delete(ctx context.Context, id int64) (bool, error) {
	if store.deleteErr != nil {
		return false, store.deleteErr
	}
	if _, ok := store.items[id]; !ok {
		return false, nil
	}
	delete(store.items, id)
	return true, nil
}

func ptr[T any](value T) *T {
	return &value
}

func validCreateInput() CreateItemInput {
	return CreateItemInput{
		Title:        ptr("Phone"),
		Description:  ptr("Black phone"),
		Category:     ptr("electronics"),
		Status:       ptr("lost"),
		Location:     ptr("Library"),
		ContactName:  ptr("Ana"),
		ContactEmail: ptr("ana@example.com"),
	}
}

func newTestService(store Store, now time.Time) *Service {
	service := NewService(store)
	service.now = func() time.Time { return now }
	return service
}

func TestService_Create(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 123456789, time.UTC)

	t.Run("success trims and stamps", func(t *testing.T) {
		store := newFakeStore()
		service := newTestService(store, now)

		in := validCreateInput()
		in.Title = ptr("  Phone  ")
		in.Status = ptr(" found ")
		in.ContactPhone = ptr(" 555-0100 ")

		item, err := service.Create(context.Background(), in)

		require.NoError(t, err)
		require.Equal(t, int64(1), item.ID)
		require.Equal(t, "Phone", item.Title)
		require.Equal(t, StatusFound, item.Status)
		require.Equal(t, "555-0100", item.ContactPhone)
		require.Equal(t, now.Truncate(time.Microsecond), item.DateCreated)
		require.False(t, item.IsResolved)
		require.Nil(t, item.DateResolved)
		require.Equal(t, item, store.items[1])
	})

	t.Run("phone is optional", func(t *testing.T) {
		service := newTestService(newFakeStore(), now)

		item, err := service.Create(context.Background(), validCreateInput())

		require.NoError(t, err)
		require.Empty(t, item.ContactPhone)
	})

	tests := []struct {
		name    string
		mutate  func(in *CreateItemInput)
		field   string
		message string
	}{
		{"missing title", func(in *CreateItemInput) { in.Title = nil }, "title", "title is required"},
		{"blank title", func(in *CreateItemInput) { in.Title = ptr("   ") }, "title", "title must not be empty"},
		{"blank description", func(in *CreateItemInput) { in.Description = ptr("") }, "description", "description must not be empty"},
		{"missing category", func(in *CreateItemInput) { in.Category = nil }, "category", "category is required"},
		{"blank location", func(in *CreateItemInput) { in.Location = ptr("\t") }, "location", "location must not be empty"},
		{"missing contact name", func(in *CreateItemInput) { in.ContactName = nil }, "contact_name", "contact_name is required"},
		{"blank contact email", func(in *CreateItemInput) { in.ContactEmail = ptr(" ") }, "contact_email", "contact_email must not be empty"},
		{"missing status", func(in *CreateItemInput) { in.Status = nil }, "status", "status is required"},
		{"unknown status", func(in *CreateItemInput) { in.Status = ptr("stolen") }, "status", "status must be one of: lost, found"},
		{"status is case sensitive", func(in *CreateItemInput) { in.Status = ptr("LOST") }, "status", "status must be one of: lost, found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			service := newTestService(store, now)

			in := validCreateInput()
			tc.mutate(&in)

			_, err := service.Create(context.Background(), in)

			require.ErrorIs(t, err, ErrorInvalidInput)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.field, validationErr.Field)
			require.Equal(t, tc.message, validationErr.Message)
			require.False(t, store.insertCalled)
			require.Empty(t, store.items)
		})
	}

	t.Run("first invalid field wins", func(t *testing.T) {
		service := newTestService(newFakeStore(), now)

		_, err := service.Create(context.Background(), CreateItemInput{})

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Equal(t, "title", validationErr.Field)
	})

	t.Run("store error", func(t *testing.T) {
		store := newFakeStore()
		store.insertErr = errors.New("disk full")
		service := newTestService(store, now)

		_, err := service.Create(context.Background(), validCreateInput())

		require.ErrorIs(t, err, store.insertErr)
	})
}

func TestFilterFrom(t *testing.T) {
	tests := []struct {
		name  string
		query ListQuery
		want  Filter
	}{
		{"defaults to active", ListQuery{}, Filter{Resolution: ResolutionActive}},
		{"all means unrestricted", ListQuery{Status: "all", Category: "all", Resolved: "all"}, Filter{Resolution: ResolutionAll}},
		{"status and category", ListQuery{Status: "lost", Category: "electronics"}, Filter{Status: StatusLost, Category: "electronics", Resolution: ResolutionActive}},
		{"resolved", ListQuery{Resolved: "resolved"}, Filter{Resolution: ResolutionResolved}},
		{"explicit active", ListQuery{Resolved: "active"}, Filter{Resolution: ResolutionActive}},
		{"unknown resolved means all", ListQuery{Resolved: "maybe"}, Filter{Resolution: ResolutionAll}},
		{"unknown status passes through", ListQuery{Status: "stolen"}, Filter{Status: "stolen", Resolution: ResolutionActive}},
		{"values are trimmed", ListQuery{Status: " found ", Category: " keys "}, Filter{Status: StatusFound, Category: "keys", Resolution: ResolutionActive}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, filterFrom(tc.query))
		})
	}
}

func TestService_List(t *testing.T) {
	t.Run("passes resolved filter", func(t *testing.T) {
		store := newFakeStore()
		service := NewService(store)

		_, err := service.List(context.Background(), ListQuery{Status: "lost", Resolved: "resolved"})

		require.NoError(t, err)
		require.Equal(t, Filter{Status: StatusLost, Resolution: ResolutionResolved}, store.listFilter)
	})

	t.Run("store error", func(t *testing.T) {
		store := newFakeStore()
		store.listErr = errors.New("db down")
		service := NewService(store)

		_, err := service.List(context.Background(), ListQuery{})

		require.ErrorIs(t, err, store.listErr)
	})
}

func TestService_Get(t *testing.T) {
	store := newFakeStore()
	service := NewService(store)

	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	item, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created, item)

	_, err = service.Get(context.Background(), 404)
	require.ErrorIs(t, err, ErrorNotFound)
}

func TestService_Update(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeStore, *Service, int64) {
		t.Helper()
		store := newFakeStore()
		service := newTestService(store, created)
		item, err := service.Create(ctx, validCreateInput())
		require.NoError(t, err)
		return store, service, item.ID
	}

	t.Run("partial fields", func(t *testing.T) {
		_, service, id := setup(t)

		item, err := service.Update(ctx, id, UpdateItemInput{
			Title:        ptr(" Blue phone "),
			Status:       ptr("found"),
			ContactPhone: ptr("  "),
		})

		require.NoError(t, err)
		require.Equal(t, "Blue phone", item.Title)
		require.Equal(t, StatusFound, item.Status)
		require.Empty(t, item.ContactPhone)
		require.Equal(t, "Black phone", item.Description)
		require.False(t, item.IsResolved)
	})

	t.Run("resolve stamps now once", func(t *testing.T) {
		store, service, id := setup(t)

		resolvedAt := created.Add(time.Hour)
		service.now = func() time.Time { return resolvedAt }
		item, err := service.Update(ctx, id, UpdateItemInput{IsResolved: ptr(true)})
		require.NoError(t, err)
		require.True(t, item.IsResolved)
		require.Equal(t, resolvedAt, *item.DateResolved)

		service.now = func() time.Time { return resolvedAt.Add(time.Hour) }
		item, err = service.Update(ctx, id, UpdateItemInput{IsResolved: ptr(true), Title: ptr("Again")})
		require.NoError(t, err)
		require.Equal(t, resolvedAt, *item.DateResolved)
		require.Equal(t, "Again", store.items[id].Title)
	})

	t.Run("reopen clears timestamp", func(t *testing.T) {
		_, service, id := setup(t)

		_, err := service.Update(ctx, id, UpdateItemInput{IsResolved: ptr(true)})
		require.NoError(t, err)

		item, err := service.Update(ctx, id, UpdateItemInput{IsResolved: ptr(false)})
		require.NoError(t, err)
		require.False(t, item.IsResolved)
		require.Nil(t, item.DateResolved)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		store, service, id := setup(t)
		before := store.items[id]

		item, err := service.Update(ctx, id, UpdateItemInput{})

		require.NoError(t, err)
		require.Equal(t, before, item)
		require.False(t, store.applyCalled)
	})

	t.Run("empty update on missing item", func(t *testing.T) {
		_, service, _ := setup(t)

		_, err := service.Update(ctx, 999, UpdateItemInput{})

		require.ErrorIs(t, err, ErrorNotFound)
	})

	t.Run("blank required field rejected before store", func(t *testing.T) {
		store, service, id := setup(t)

		_, err := service.Update(ctx, id, UpdateItemInput{Title: ptr(" "), IsResolved: ptr(true)})

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Equal(t, "title must not be empty", validationErr.Message)
		require.False(t, store.applyCalled)
		require.False(t, store.items[id].IsResolved)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		store, service, id := setup(t)

		_, err := service.Update(ctx, id, UpdateItemInput{Status: ptr("gone")})

		require.ErrorIs(t, err, ErrorInvalidInput)
		require.False(t, store.applyCalled)
	})

	t.Run("missing item", func(t *testing.T) {
		_, service, _ := setup(t)

		_, err := service.Update(ctx, 999, UpdateItemInput{Title: ptr("New")})

		require.ErrorIs(t, err, ErrorNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := newFakeStore()
		service := NewService(store)
		item, err := service.Create(context.Background(), validCreateInput())
		require.NoError(t, err)

		require.NoError(t, service.Delete(context.Background(), item.ID))
		require.Empty(t, store.items)
	})

	t.Run("missing", func(t *testing.T) {
		service := NewService(newFakeStore())

		err := service.Delete(context.Background(), 1)

		require.ErrorIs(t, err, ErrorNotFound)
	})

	t.Run("store error", func(t *testing.T) {
		store := newFakeStore()
		store.deleteErr = errors.New("db down")
		service := NewService(store)

		err := service.Delete(context.Background(), 1)

		require.ErrorIs(t, err, store.deleteErr)
	})
}
