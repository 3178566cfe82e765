package forms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mochcare/mochcare/internal/platform/metrics"
)

type FieldInput struct {
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

type CreateFormRequest struct {
	Title  string       `json:"title"`
	Slug   string       `json:"slug"`
	Fields []FieldInput `json:"fields"`
}

type DuplicateFormRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// SubmitEntryRequest carries answers keyed by field id. Values may be JSON
// strings, numbers or booleans; each is converted by its field's type.
type SubmitEntryRequest struct {
	MotherID      string                 `json:"mother_id"`
	Values        map[string]interface{} `json:"values"`
	NextVisitDate string                 `json:"next_visit_date"`
}

type Service struct {
	forms    FormStore
	entries  EntryStore
	session  SessionContext
	subjects SubjectDirectory
	builder  *Builder
}

func NewService(forms FormStore, entries EntryStore, session SessionContext, subjects SubjectDirectory) *Service {
	return &Service{
		forms:    forms,
		entries:  entries,
		session:  session,
		subjects: subjects,
		builder:  NewBuilder(forms, session),
	}
}

// -- Forms --

func (s *Service) CreateForm(ctx context.Context, req CreateFormRequest) (*FormSchema, error) {
	d := StartDraft(req.Title, req.Slug)
	var problems []*FieldError
	for i, in := range req.Fields {
		p := PendingField{Label: in.Label, Type: in.Type, Required: in.Required}
		for _, opt := range in.Options {
			p = p.AddOption(opt)
		}
		next, err := d.AddField(p)
		if err != nil {
			problems = append(problems, &FieldError{Field: fmt.Sprintf("fields[%d]", i), Err: errors.Unwrap(err)})
			continue
		}
		d = next
	}
	if len(problems) > 0 {
		return nil, &ValidationFailedError{Problems: append(d.Validate(), problems...)}
	}
	return s.submitDraft(ctx, d)
}

// DuplicateForm saves a new form carrying the admin-defined fields of the form
// with id.
func (s *Service) DuplicateForm(ctx context.Context, id uuid.UUID, req DuplicateFormRequest) (*FormSchema, error) {
	src, err := s.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.submitDraft(ctx, DraftFromSchema(src, req.Title, req.Slug))
}

func (s *Service) submitDraft(ctx context.Context, d Draft) (*FormSchema, error) {
	f, err := s.builder.Submit(ctx, d)
	if err != nil {
		var pe *PersistenceError
		if errors.As(err, &pe) {
			zerolog.Ctx(ctx).Error().Err(err).Str("slug", d.Slug()).Msg("form save failed")
		}
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("form_id", f.ID.String()).Str("slug", f.Slug).Int("fields", len(f.Fields)).Msg("form created")
	return f, nil
}

func (s *Service) GetForm(ctx context.Context, id uuid.UUID) (*FormSchema, error) {
	f, err := s.forms.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrFormNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, &PersistenceError{Op: "get form", Err: err}
	}
	return f, nil
}

// DeleteForm removes a form that no entry references.
func (s *Service) DeleteForm(ctx context.Context, id uuid.UUID) error {
	err := s.forms.Delete(ctx, id)
	switch {
	case err == nil:
		zerolog.Ctx(ctx).Info().Str("form_id", id.String()).Msg("form deleted")
		return nil
	case errors.Is(err, ErrFormNotFound), errors.Is(err, ErrFormInUse):
		return err
	}
	zerolog.Ctx(ctx).Error().Err(err).Str("form_id", id.String()).Msg("form delete failed")
	return &PersistenceError{Op: "delete form", Err: err}
}

func (s *Service) ListForms(ctx context.Context, limit, offset int) ([]*FormSchema, int, error) {
	items, total, err := s.forms.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, &PersistenceError{Op: "list forms", Err: err}
	}
	return items, total, nil
}

// RenderForm returns the form with the input controls a midwife fills in.
func (s *Service) RenderForm(ctx context.Context, id uuid.UUID) (*FormSchema, []Control, error) {
	f, err := s.GetForm(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return f, ControlsFor(f, nil), nil
}

// SuggestSlug derives a slug from title and reports whether it is free.
func (s *Service) SuggestSlug(ctx context.Context, title string) (string, bool, error) {
	slug := Slugify(title)
	if validateSlug(slug) != nil {
		return slug, false, nil
	}
	taken, err := s.forms.SlugExists(ctx, slug)
	if err != nil {
		return "", false, &PersistenceError{Op: "check slug", Err: err}
	}
	return slug, !taken, nil
}

// -- Entries --

func (s *Service) SubmitEntry(ctx context.Context, formID uuid.UUID, req SubmitEntryRequest) (*FormEntry, error) {
	r := NewRenderer(s.forms, s.entries, s.session)
	schema, err := r.Load(ctx, formID)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	keys := make([]string, 0, len(req.Values))
	for k := range req.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := r.SetFieldValue(k, rawInput(req.Values[k])); err != nil {
			if errors.Is(err, ErrUnknownField) {
				err = &FieldError{Field: k, Err: err}
			}
			s.recordFailure(err)
			return nil, err
		}
	}
	if err := r.SetNextVisitDate(req.NextVisitDate); err != nil {
		err = &FieldError{Field: "next_visit_date", Err: err}
		s.recordFailure(err)
		return nil, err
	}

	r.SetSubjectID(req.MotherID)
	if s.subjects != nil && r.SubjectID() != "" {
		ok, err := s.subjects.SubjectExists(ctx, r.SubjectID())
		if err != nil {
			return nil, &PersistenceError{Op: "find mother", Err: err}
		}
		if !ok {
			s.recordFailure(ErrSubjectNotFound)
			return nil, ErrSubjectNotFound
		}
	}

	entry, err := r.Submit(ctx)
	if err != nil {
		s.recordFailure(err)
		var pe *PersistenceError
		if errors.As(err, &pe) {
			zerolog.Ctx(ctx).Error().Err(err).
				Str("form_id", formID.String()).
				Str("mother_id", r.SubjectID()).
				Msg("form entry save failed")
		}
		return nil, err
	}

	metrics.FormEntries.WithLabelValues(schema.Slug).Inc()
	zerolog.Ctx(ctx).Info().
		Str("entry_id", entry.ID.String()).
		Str("form_id", formID.String()).
		Str("mother_id", entry.MotherID).
		Msg("form entry saved")
	return entry, nil
}

func (s *Service) GetEntry(ctx context.Context, id uuid.UUID) (*FormEntry, error) {
	e, err := s.entries.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, &PersistenceError{Op: "get entry", Err: err}
	}
	return e, nil
}

func (s *Service) ListEntries(ctx context.Context, f EntryFilter, limit, offset int) ([]*FormEntry, int, error) {
	items, total, err := s.entries.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, &PersistenceError{Op: "list entries", Err: err}
	}
	return items, total, nil
}

func (s *Service) recordFailure(err error) {
	metrics.FormSubmitFailures.WithLabelValues(failureReason(err)).Inc()
}

func failureReason(err error) string {
	var missing *RequiredFieldMissingError
	var pe *PersistenceError
	switch {
	case errors.As(err, &missing):
		return "required_field_missing"
	case errors.Is(err, ErrMissingSubject):
		return "missing_subject"
	case errors.Is(err, ErrSubjectNotFound):
		return "subject_not_found"
	case errors.Is(err, ErrFormNotFound):
		return "form_not_found"
	case errors.As(err, &pe):
		return "persistence"
	}
	return "invalid_value"
}

func rawInput(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}
