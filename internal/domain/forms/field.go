package forms

import "strings"

type FieldType string

const (
	TypeText     FieldType = "text"
	TypeTextarea FieldType = "textarea"
	TypeNumber   FieldType = "number"
	TypeDate     FieldType = "date"
	TypeCheckbox FieldType = "checkbox"
	TypeSelect   FieldType = "select"
	TypeRadio    FieldType = "radio"
	TypeHidden   FieldType = "hidden"
)

var validFieldTypes = map[FieldType]bool{
	TypeText: true, TypeTextarea: true, TypeNumber: true, TypeDate: true,
	TypeCheckbox: true, TypeSelect: true, TypeRadio: true, TypeHidden: true,
}

func (t FieldType) Valid() bool { return validFieldTypes[t] }

// IsChoice reports whether the type picks one value from Options.
func (t FieldType) IsChoice() bool { return t == TypeSelect || t == TypeRadio }

// FieldDefinition describes one input of a form. ID is the key the field's
// answer is stored under in an entry's data.
type FieldDefinition struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// SubjectFieldID is the id of the hidden field every stored form ends with.
const SubjectFieldID = "mother_id"

// SystemField returns the hidden subject field appended to every form on save.
func SystemField() FieldDefinition {
	return FieldDefinition{
		ID:       SubjectFieldID,
		Label:    "Mother ID",
		Type:     TypeHidden,
		Required: true,
	}
}

func isSystemField(f FieldDefinition) bool {
	return f.ID == SubjectFieldID && f.Type == TypeHidden
}

// ValidateField checks def and returns it normalised: options are copied for
// choice fields and dropped for every other type.
func ValidateField(def FieldDefinition) (FieldDefinition, error) {
	if strings.TrimSpace(def.Label) == "" {
		return FieldDefinition{}, ErrEmptyLabel
	}
	if !def.Type.Valid() {
		return FieldDefinition{}, ErrUnknownType
	}
	if def.Type.IsChoice() {
		if len(def.Options) == 0 {
			return FieldDefinition{}, ErrMissingOptions
		}
		def.Options = append([]string(nil), def.Options...)
	} else {
		def.Options = nil
	}
	return def, nil
}

func cloneFields(fields []FieldDefinition) []FieldDefinition {
	out := make([]FieldDefinition, len(fields))
	for i, f := range fields {
		if f.Options != nil {
			f.Options = append([]string(nil), f.Options...)
		}
		out[i] = f
	}
	return out
}
