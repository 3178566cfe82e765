package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindString
	KindNumber
	KindBool
)

// Value is one answer in an entry. The kind follows the field type: number
// fields hold KindNumber, checkboxes KindBool, everything else KindString.
// A number whose text did not parse keeps Invalid set and counts as no
// answer.
type Value struct {
	Kind    ValueKind
	Str     string
	Num     float64
	Bool    bool
	Invalid bool
}

func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func NumberValue(f float64) Value { return Value{Kind: KindNumber, Num: f} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }

// InvalidNumber marks numeric input that could not be parsed.
func InvalidNumber() Value { return Value{Kind: KindNumber, Invalid: true} }

// Present reports whether v counts as an answer for required-field checks.
func (v Value) Present() bool {
	switch v.Kind {
	case KindString:
		return strings.TrimSpace(v.Str) != ""
	case KindNumber:
		return !v.Invalid
	case KindBool:
		return true
	}
	return false
}

// Interface returns v as a plain Go value; nil when absent or invalid.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		if v.Invalid {
			return nil
		}
		return v.Num
	case KindBool:
		return v.Bool
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = Value{}
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case 't', 'f':
		var bv bool
		if err := json.Unmarshal(b, &bv); err != nil {
			return err
		}
		*v = BoolValue(bv)
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return fmt.Errorf("unsupported answer value %s", b)
		}
		*v = NumberValue(f)
	}
	return nil
}

// Payload maps field ids to answers.
type Payload map[string]Value

func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// coerce converts raw input text into the value type of def.
func coerce(def FieldDefinition, raw string) (Value, error) {
	switch def.Type {
	case TypeNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return InvalidNumber(), nil
		}
		return NumberValue(f), nil
	case TypeCheckbox:
		return BoolValue(parseChecked(raw)), nil
	case TypeSelect, TypeRadio:
		if raw == "" {
			return StringValue(""), nil
		}
		for _, opt := range def.Options {
			if opt == raw {
				return StringValue(raw), nil
			}
		}
		return Value{}, ErrInvalidChoice
	case TypeDate:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return StringValue(""), nil
		}
		if _, err := time.Parse(time.DateOnly, raw); err != nil {
			return Value{}, ErrInvalidDate
		}
		return StringValue(raw), nil
	case TypeHidden:
		return Value{}, ErrFieldNotInput
	}
	return StringValue(raw), nil
}

func parseChecked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "on", "yes", "checked":
		return true
	}
	return false
}
