package forms

import (
	"context"
	"strconv"
	"strings"
)

// Builder validates drafts and persists them as form schemas.
type Builder struct {
	forms   FormStore
	session SessionContext
}

func NewBuilder(forms FormStore, session SessionContext) *Builder {
	return &Builder{forms: forms, session: session}
}

// Submit validates d, appends the hidden subject field and stores the form in
// a single write. Every validation problem is reported together in a
// *ValidationFailedError; storage failures come back as *PersistenceError.
func (b *Builder) Submit(ctx context.Context, d Draft) (*FormSchema, error) {
	fields, problems := d.check()

	slug := d.Slug()
	if validateSlug(slug) == nil {
		taken, err := b.forms.SlugExists(ctx, slug)
		if err != nil {
			return nil, &PersistenceError{Op: "check slug", Err: err}
		}
		if taken {
			problems = append(problems, &FieldError{Field: "slug", Err: ErrSlugTaken})
		}
	}

	if len(problems) > 0 {
		return nil, &ValidationFailedError{Problems: problems}
	}

	// Appended even when the draft already carries a field with this id.
	fields = append(fields, SystemField())

	var createdBy string
	if b.session != nil {
		createdBy, _ = b.session.CurrentActorID(ctx)
	}

	schema, err := b.forms.Save(ctx, &NewForm{
		Title:     strings.TrimSpace(d.Title()),
		Slug:      slug,
		Fields:    fields,
		CreatedBy: createdBy,
	})
	if err != nil {
		return nil, &PersistenceError{Op: "save form", Err: err}
	}
	return schema, nil
}

// Validate reports every problem with d that can be found without storage.
func (d Draft) Validate() []*FieldError {
	_, problems := d.check()
	return problems
}

// check validates d and returns its fields normalised by ValidateField.
func (d Draft) check() ([]FieldDefinition, []*FieldError) {
	var problems []*FieldError
	if len(strings.TrimSpace(d.title)) < 2 {
		problems = append(problems, &FieldError{Field: "title", Err: ErrTitleTooShort})
	}
	if err := validateSlug(d.slug); err != nil {
		problems = append(problems, &FieldError{Field: "slug", Err: err})
	}
	fields := make([]FieldDefinition, 0, len(d.fields))
	for i, f := range d.fields {
		norm, err := ValidateField(f)
		if err != nil {
			problems = append(problems, &FieldError{Field: fieldKey(f, i), Err: err})
			continue
		}
		fields = append(fields, norm)
	}
	return fields, problems
}

func fieldKey(f FieldDefinition, i int) string {
	if f.ID != "" {
		return f.ID
	}
	return "fields[" + strconv.Itoa(i) + "]"
}
