package forms

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitting
	StateSubmitted
	StateNotFound
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateNotFound:
		return "not_found"
	}
	return "unknown"
}

// Renderer drives one fill of a form for one mother. It is not safe for
// concurrent use.
type Renderer struct {
	forms   FormStore
	entries EntryStore
	session SessionContext

	state     State
	schema    *FormSchema
	subjectID string
	values    Payload
	nextVisit *time.Time
	entry     *FormEntry
}

func NewRenderer(forms FormStore, entries EntryStore, session SessionContext) *Renderer {
	return &Renderer{
		forms:   forms,
		entries: entries,
		session: session,
		state:   StateLoading,
		values:  Payload{},
	}
}

// Load fetches the form. A missing form moves the renderer to StateNotFound,
// which is terminal.
func (r *Renderer) Load(ctx context.Context, formID uuid.UUID) (*FormSchema, error) {
	if r.state != StateLoading {
		return nil, ErrNotReady
	}
	schema, err := r.forms.Get(ctx, formID)
	if errors.Is(err, ErrFormNotFound) {
		r.state = StateNotFound
		return nil, ErrFormNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load form", Err: err}
	}
	r.schema = schema
	r.state = StateReady
	return schema, nil
}

func (r *Renderer) State() State          { return r.state }
func (r *Renderer) Schema() *FormSchema   { return r.schema }
func (r *Renderer) SubjectID() string     { return r.subjectID }
func (r *Renderer) Values() Payload       { return r.values.Clone() }
func (r *Renderer) Entry() *FormEntry     { return r.entry }
func (r *Renderer) NextVisit() *time.Time { return r.nextVisit }

// SetSubjectID selects the mother. An empty id is accepted here and rejected
// at Submit.
func (r *Renderer) SetSubjectID(motherID string) {
	r.subjectID = strings.TrimSpace(motherID)
}

// SetFieldValue records raw input for a visible field, converted to the
// field's value type. Unparseable numbers are kept as an invalid marker.
func (r *Renderer) SetFieldValue(fieldID, raw string) error {
	if r.state != StateReady {
		return ErrNotReady
	}
	def, ok := r.schema.Field(fieldID)
	if !ok {
		return ErrUnknownField
	}
	v, err := coerce(def, raw)
	if err != nil {
		return &FieldError{Field: fieldID, Err: err}
	}
	r.values[fieldID] = v
	return nil
}

// SetNextVisitDate accepts YYYY-MM-DD or an empty string to clear.
func (r *Renderer) SetNextVisitDate(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		r.nextVisit = nil
		return nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return ErrInvalidDate
	}
	r.nextVisit = &d
	return nil
}

// Submit validates the answers and stores one entry. Validation and storage
// failures leave the recorded answers as they were so the call can be
// repeated.
func (r *Renderer) Submit(ctx context.Context) (*FormEntry, error) {
	if r.state != StateReady {
		return nil, ErrNotReady
	}

	data := r.values.Clone()
	for _, f := range r.schema.Fields {
		if f.Type == TypeCheckbox {
			if _, ok := data[f.ID]; !ok {
				data[f.ID] = BoolValue(false)
			}
		}
	}

	for _, f := range r.schema.Fields {
		if !f.Required || f.Type == TypeHidden {
			continue
		}
		if !data[f.ID].Present() {
			return nil, &RequiredFieldMissingError{FieldID: f.ID, Label: f.Label}
		}
	}

	if r.subjectID == "" {
		return nil, ErrMissingSubject
	}
	data[SubjectFieldID] = StringValue(r.subjectID)

	var createdBy string
	if r.session != nil {
		createdBy, _ = r.session.CurrentActorID(ctx)
	}

	r.state = StateSubmitting
	entry, err := r.entries.Save(ctx, &NewEntry{
		FormID:        r.schema.ID,
		MotherID:      r.subjectID,
		Data:          data,
		NextVisitDate: r.nextVisit,
		CreatedBy:     createdBy,
	})
	if err != nil {
		r.state = StateReady
		return nil, &PersistenceError{Op: "save entry", Err: err}
	}

	r.entry = entry
	r.state = StateSubmitted
	return entry, nil
}
