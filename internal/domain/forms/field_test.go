package forms

import (
	"errors"
	"testing"
)

func TestValidateField(t *testing.T) {
	tests := []struct {
		name string
		def  FieldDefinition
		want error
	}{
		{"text ok", FieldDefinition{Label: "Name", Type: TypeText}, nil},
		{"blank label", FieldDefinition{Label: "   ", Type: TypeText}, ErrEmptyLabel},
		{"empty label", FieldDefinition{Type: TypeNumber}, ErrEmptyLabel},
		{"unknown type", FieldDefinition{Label: "X", Type: "slider"}, ErrUnknownType},
		{"select without options", FieldDefinition{Label: "Blood group", Type: TypeSelect}, ErrMissingOptions},
		{"radio without options", FieldDefinition{Label: "HIV status", Type: TypeRadio, Options: []string{}}, ErrMissingOptions},
		{"radio ok", FieldDefinition{Label: "HIV status", Type: TypeRadio, Options: []string{"Negative", "Positive"}}, nil},
		{"hidden ok", FieldDefinition{Label: "Mother ID", Type: TypeHidden, Required: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateField(tt.def)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateField_DropsOptionsFromNonChoice(t *testing.T) {
	got, err := ValidateField(FieldDefinition{Label: "Weight", Type: TypeNumber, Options: []string{"a"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Options != nil {
		t.Errorf("expected options to be dropped, got %v", got.Options)
	}
}

func TestValidateField_CopiesOptions(t *testing.T) {
	opts := []string{"A", "B"}
	got, _ := ValidateField(FieldDefinition{Label: "Group", Type: TypeSelect, Options: opts})
	opts[0] = "changed"
	if got.Options[0] != "A" {
		t.Error("expected validated field to own its options")
	}
}

func TestSystemField(t *testing.T) {
	f := SystemField()
	if f.ID != "mother_id" || f.Type != TypeHidden || !f.Required || f.Label != "Mother ID" {
		t.Errorf("unexpected system field %+v", f)
	}
}

func TestFieldType_IsChoice(t *testing.T) {
	for _, ft := range []FieldType{TypeSelect, TypeRadio} {
		if !ft.IsChoice() {
			t.Errorf("expected %s to be a choice type", ft)
		}
	}
	for _, ft := range []FieldType{TypeText, TypeTextarea, TypeNumber, TypeDate, TypeCheckbox, TypeHidden} {
		if ft.IsChoice() {
			t.Errorf("expected %s not to be a choice type", ft)
		}
	}
}
