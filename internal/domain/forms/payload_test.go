package forms

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCoerce(t *testing.T) {
	choice := FieldDefinition{ID: "f", Label: "Group", Type: TypeSelect, Options: []string{"A", "B"}}
	tests := []struct {
		name string
		def  FieldDefinition
		raw  string
		want Value
		err  error
	}{
		{"number", FieldDefinition{Type: TypeNumber}, "62.5", NumberValue(62.5), nil},
		{"number padded", FieldDefinition{Type: TypeNumber}, " 70 ", NumberValue(70), nil},
		{"number zero", FieldDefinition{Type: TypeNumber}, "0", NumberValue(0), nil},
		{"number junk", FieldDefinition{Type: TypeNumber}, "sixty", InvalidNumber(), nil},
		{"number empty", FieldDefinition{Type: TypeNumber}, "", InvalidNumber(), nil},
		{"number NaN text", FieldDefinition{Type: TypeNumber}, "NaN", InvalidNumber(), nil},
		{"checkbox true", FieldDefinition{Type: TypeCheckbox}, "true", BoolValue(true), nil},
		{"checkbox on", FieldDefinition{Type: TypeCheckbox}, "on", BoolValue(true), nil},
		{"checkbox false", FieldDefinition{Type: TypeCheckbox}, "false", BoolValue(false), nil},
		{"checkbox empty", FieldDefinition{Type: TypeCheckbox}, "", BoolValue(false), nil},
		{"text", FieldDefinition{Type: TypeText}, " as typed ", StringValue(" as typed "), nil},
		{"date", FieldDefinition{Type: TypeDate}, "2024-05-01", StringValue("2024-05-01"), nil},
		{"date padded", FieldDefinition{Type: TypeDate}, " 2024-05-01 ", StringValue("2024-05-01"), nil},
		{"date cleared", FieldDefinition{Type: TypeDate}, "", StringValue(""), nil},
		{"date junk", FieldDefinition{Type: TypeDate}, "banana", Value{}, ErrInvalidDate},
		{"date wrong layout", FieldDefinition{Type: TypeDate}, "01/05/2024", Value{}, ErrInvalidDate},
		{"date out of range", FieldDefinition{Type: TypeDate}, "2024-02-30", Value{}, ErrInvalidDate},
		{"select option", choice, "B", StringValue("B"), nil},
		{"select cleared", choice, "", StringValue(""), nil},
		{"select unknown", choice, "C", Value{}, ErrInvalidChoice},
		{"hidden", SystemField(), "m1", Value{}, ErrFieldNotInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerce(tt.def, tt.raw)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected error %v, got %v", tt.err, err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestValue_Present(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Value{}, false},
		{StringValue(""), false},
		{StringValue("  "), false},
		{StringValue("x"), true},
		{NumberValue(0), true},
		{InvalidNumber(), false},
		{BoolValue(false), true},
	}
	for _, tt := range tests {
		if got := tt.v.Present(); got != tt.want {
			t.Errorf("%+v.Present() = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestPayload_JSON(t *testing.T) {
	p := Payload{
		"field_1":   NumberValue(62.5),
		"field_2":   BoolValue(false),
		"field_3":   InvalidNumber(),
		"mother_id": StringValue("mother-123"),
	}
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"field_1":62.5,"field_2":false,"field_3":null,"mother_id":"mother-123"}`
	if string(raw) != want {
		t.Errorf("expected %s, got %s", want, raw)
	}

	var back Payload
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["field_1"] != NumberValue(62.5) || back["mother_id"] != StringValue("mother-123") {
		t.Errorf("unexpected decoded payload %+v", back)
	}
	if back["field_3"].Present() {
		t.Error("expected null answer to decode as absent")
	}
}

func TestValue_UnmarshalRejectsObjects(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"a":1}`), &v); err == nil {
		t.Error("expected error for object value")
	}
}

func TestPayload_Clone(t *testing.T) {
	p := Payload{"a": StringValue("x")}
	c := p.Clone()
	c["a"] = StringValue("y")
	if p["a"].Str != "x" {
		t.Error("expected clone to be independent")
	}
}
