package forms

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var errStorageDown = errors.New("connection refused")

type mockFormStore struct {
	mu       sync.Mutex
	forms    map[uuid.UUID]*FormSchema
	order    []uuid.UUID
	saveErr  error
	slugErr  error
	delErr   error
	inUse    map[uuid.UUID]bool
	saves    int
	getCalls int
}

func newMockFormStore() *mockFormStore {
	return &mockFormStore{forms: make(map[uuid.UUID]*FormSchema), inUse: make(map[uuid.UUID]bool)}
}

func copyForm(f *FormSchema) *FormSchema {
	c := *f
	c.Fields = cloneFields(f.Fields)
	return &c
}

func (m *mockFormStore) Save(_ context.Context, in *NewForm) (*FormSchema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.saves++
	now := time.Now().UTC()
	f := &FormSchema{
		ID:        uuid.New(),
		Title:     in.Title,
		Slug:      in.Slug,
		Fields:    cloneFields(in.Fields),
		CreatedBy: strPtr(in.CreatedBy),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.forms[f.ID] = f
	m.order = append(m.order, f.ID)
	return copyForm(f), nil
}

func (m *mockFormStore) Get(_ context.Context, id uuid.UUID) (*FormSchema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	f, ok := m.forms[id]
	if !ok {
		return nil, ErrFormNotFound
	}
	return copyForm(f), nil
}

func (m *mockFormStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	if _, ok := m.forms[id]; !ok {
		return ErrFormNotFound
	}
	if m.inUse[id] {
		return ErrFormInUse
	}
	delete(m.forms, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockFormStore) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugErr != nil {
		return false, m.slugErr
	}
	for _, f := range m.forms {
		if f.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockFormStore) List(_ context.Context, limit, offset int) ([]*FormSchema, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*FormSchema
	for i := len(m.order) - 1; i >= 0; i-- {
		all = append(all, copyForm(m.forms[m.order[i]]))
	}
	return page(all, limit, offset), len(all), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type mockEntryStore struct {
	mu      sync.Mutex
	entries []*FormEntry
	saveErr error
	now     func() time.Time
}

func newMockEntryStore() *mockEntryStore {
	return &mockEntryStore{now: func() time.Time { return time.Now().UTC() }}
}

func (m *mockEntryStore) Save(_ context.Context, in *NewEntry) (*FormEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	e := &FormEntry{
		ID:            uuid.New(),
		FormID:        in.FormID,
		MotherID:      in.MotherID,
		Data:          in.Data.Clone(),
		NextVisitDate: in.NextVisitDate,
		CreatedBy:     strPtr(in.CreatedBy),
		CreatedAt:     m.now(),
	}
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *mockEntryStore) Get(_ context.Context, id uuid.UUID) (*FormEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, ErrEntryNotFound
}

// newestFirst orders by CreatedAt descending, later inserts first on ties.
func (m *mockEntryStore) newestFirst(keep func(*FormEntry) bool) []*FormEntry {
	var out []*FormEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if keep(m.entries[i]) {
			out = append(out, m.entries[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *mockEntryStore) ListByMother(_ context.Context, motherID string) ([]*FormEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newestFirst(func(e *FormEntry) bool { return e.MotherID == motherID }), nil
}

func (m *mockEntryStore) List(_ context.Context, f EntryFilter, limit, offset int) ([]*FormEntry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.newestFirst(func(e *FormEntry) bool {
		if f.MotherID != "" && e.MotherID != f.MotherID {
			return false
		}
		if f.FormID != uuid.Nil && e.FormID != f.FormID {
			return false
		}
		if f.CreatedBy != "" && (e.CreatedBy == nil || *e.CreatedBy != f.CreatedBy) {
			return false
		}
		return true
	})
	return page(all, limit, offset), len(all), nil
}

func (m *mockEntryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type fakeSession struct{ id string }

func (s fakeSession) CurrentActorID(context.Context) (string, bool) {
	return s.id, s.id != ""
}

type fakeSubjects map[string]bool

func (f fakeSubjects) SubjectExists(_ context.Context, id string) (bool, error) {
	return f[id], nil
}
