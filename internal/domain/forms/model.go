package forms

import (
	"time"

	"github.com/google/uuid"
)

// FormSchema maps to the forms table. Fields is stored as a JSONB document.
type FormSchema struct {
	ID        uuid.UUID         `db:"id" json:"id"`
	Title     string            `db:"title" json:"title"`
	Slug      string            `db:"slug" json:"slug"`
	Fields    []FieldDefinition `db:"fields" json:"fields"`
	CreatedBy *string           `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

// Field returns the definition with id, or false.
func (s *FormSchema) Field(id string) (FieldDefinition, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// NewForm is what the builder hands to FormStore.Save.
type NewForm struct {
	Title     string
	Slug      string
	Fields    []FieldDefinition
	CreatedBy string
}

// FormEntry maps to the form_entries table. Entries are insert-only.
type FormEntry struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	FormID        uuid.UUID  `db:"form_id" json:"form_id"`
	MotherID      string     `db:"mother_id" json:"mother_id"`
	Data          Payload    `db:"data" json:"data"`
	NextVisitDate *time.Time `db:"next_visit_date" json:"next_visit_date,omitempty"`
	CreatedBy     *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

type NewEntry struct {
	FormID        uuid.UUID
	MotherID      string
	Data          Payload
	NextVisitDate *time.Time
	CreatedBy     string
}

// EntryFilter narrows entry listings. Zero values match everything.
type EntryFilter struct {
	MotherID  string
	FormID    uuid.UUID
	CreatedBy string
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
