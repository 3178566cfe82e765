package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mochcare/mochcare/internal/domain/forms"
	"github.com/mochcare/mochcare/internal/domain/mothers"
)

// untitledForm labels entries whose form can no longer be loaded.
const untitledForm = "Untitled form"

type entryLister interface {
	ListByMother(ctx context.Context, motherID string) ([]*forms.FormEntry, error)
}

type schemaGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*forms.FormSchema, error)
}

// formActivity feeds a mother's timeline from the form entry store. Titles
// come from the form store, so a cached store serves repeated lookups.
type formActivity struct {
	entries entryLister
	schemas schemaGetter
}

func newFormActivity(entries entryLister, schemas schemaGetter) mothers.FormActivityRepository {
	return &formActivity{entries: entries, schemas: schemas}
}

func (a *formActivity) ListByMother(ctx context.Context, motherID uuid.UUID) ([]mothers.FormActivity, error) {
	entries, err := a.entries.ListByMother(ctx, motherID.String())
	if err != nil {
		return nil, fmt.Errorf("list form entries: %w", err)
	}

	titles := make(map[uuid.UUID]string)
	out := make([]mothers.FormActivity, 0, len(entries))
	for _, e := range entries {
		title, ok := titles[e.FormID]
		if !ok {
			f, err := a.schemas.Get(ctx, e.FormID)
			switch {
			case errors.Is(err, forms.ErrFormNotFound):
				title = untitledForm
			case err != nil:
				return nil, fmt.Errorf("load form %s: %w", e.FormID, err)
			default:
				title = f.Title
			}
			titles[e.FormID] = title
		}
		out = append(out, mothers.FormActivity{
			EntryID:       e.ID,
			FormID:        e.FormID,
			FormTitle:     title,
			NextVisitDate: e.NextVisitDate,
			CreatedAt:     e.CreatedAt,
		})
	}
	return out, nil
}
