package forms

import (
	"context"

	"github.com/google/uuid"
)

// FormStore persists form schemas. Get and Delete return ErrFormNotFound when
// absent; Delete returns ErrFormInUse while entries still reference the form.
type FormStore interface {
	Save(ctx context.Context, in *NewForm) (*FormSchema, error)
	Get(ctx context.Context, id uuid.UUID) (*FormSchema, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*FormSchema, int, error)
}

// EntryStore persists form entries. Listings are newest first, ties broken by
// insertion order.
type EntryStore interface {
	Save(ctx context.Context, in *NewEntry) (*FormEntry, error)
	Get(ctx context.Context, id uuid.UUID) (*FormEntry, error)
	ListByMother(ctx context.Context, motherID string) ([]*FormEntry, error)
	List(ctx context.Context, f EntryFilter, limit, offset int) ([]*FormEntry, int, error)
}

// SessionContext identifies the signed-in user.
type SessionContext interface {
	CurrentActorID(ctx context.Context) (string, bool)
}

// SubjectDirectory confirms a mother record exists before an entry is saved.
type SubjectDirectory interface {
	SubjectExists(ctx context.Context, id string) (bool, error)
}
