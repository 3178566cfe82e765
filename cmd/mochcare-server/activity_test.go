package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mochcare/mochcare/internal/domain/forms"
)

type stubEntries struct {
	byMother map[string][]*forms.FormEntry
	err      error
}

func (s stubEntries) ListByMother(_ context.Context, motherID string) ([]*forms.FormEntry, error) {
	return s.byMother[motherID], s.err
}

type stubSchemas struct {
	forms map[uuid.UUID]*forms.FormSchema
	err   error
	calls int
}

func (s *stubSchemas) Get(_ context.Context, id uuid.UUID) (*forms.FormSchema, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	f, ok := s.forms[id]
	if !ok {
		return nil, forms.ErrFormNotFound
	}
	return f, nil
}

func TestFormActivity_ListByMother(t *testing.T) {
	mother := uuid.New()
	anc, pnc, gone := uuid.New(), uuid.New(), uuid.New()
	next := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	entries := []*forms.FormEntry{
		{ID: uuid.New(), FormID: pnc, MotherID: mother.String(), CreatedAt: time.Date(2024, 7, 10, 9, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), FormID: anc, MotherID: mother.String(), CreatedAt: time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), FormID: anc, MotherID: mother.String(), NextVisitDate: &next, CreatedAt: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), FormID: gone, MotherID: mother.String(), CreatedAt: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)},
	}
	schemas := &stubSchemas{forms: map[uuid.UUID]*forms.FormSchema{
		anc: {ID: anc, Title: "ANC Visit"},
		pnc: {ID: pnc, Title: "PNC Check"},
	}}

	a := newFormActivity(stubEntries{byMother: map[string][]*forms.FormEntry{mother.String(): entries}}, schemas)
	got, err := a.ListByMother(context.Background(), mother)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTitles := []string{"PNC Check", "ANC Visit", "ANC Visit", untitledForm}
	if len(got) != len(wantTitles) {
		t.Fatalf("expected %d activities, got %d", len(wantTitles), len(got))
	}
	for i, w := range wantTitles {
		if got[i].FormTitle != w || got[i].EntryID != entries[i].ID || !got[i].CreatedAt.Equal(entries[i].CreatedAt) {
			t.Errorf("activity %d: unexpected %+v", i, got[i])
		}
	}
	if got[2].NextVisitDate == nil || !got[2].NextVisitDate.Equal(next) {
		t.Errorf("expected next visit date carried over, got %v", got[2].NextVisitDate)
	}
	if schemas.calls != 3 {
		t.Errorf("expected one title lookup per form, got %d", schemas.calls)
	}
}

func TestFormActivity_Errors(t *testing.T) {
	mother := uuid.New()
	storeDown := errors.New("connection refused")

	a := newFormActivity(stubEntries{err: storeDown}, &stubSchemas{})
	if _, err := a.ListByMother(context.Background(), mother); !errors.Is(err, storeDown) {
		t.Errorf("expected entry store error, got %v", err)
	}

	entries := stubEntries{byMother: map[string][]*forms.FormEntry{
		mother.String(): {{ID: uuid.New(), FormID: uuid.New(), MotherID: mother.String()}},
	}}
	a = newFormActivity(entries, &stubSchemas{err: storeDown})
	if _, err := a.ListByMother(context.Background(), mother); !errors.Is(err, storeDown) {
		t.Errorf("expected form store error, got %v", err)
	}
}

func TestFormActivity_NoEntries(t *testing.T) {
	got, err := newFormActivity(stubEntries{}, &stubSchemas{}).ListByMother(context.Background(), uuid.New())
	if err != nil || len(got) != 0 {
		t.Errorf("expected no activity, got %v %v", got, err)
	}
}
