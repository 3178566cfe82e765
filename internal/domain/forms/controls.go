package forms

type Widget string

const (
	WidgetInput    Widget = "input"
	WidgetTextarea Widget = "textarea"
	WidgetNumber   Widget = "number"
	WidgetDate     Widget = "date"
	WidgetToggle   Widget = "toggle"
	WidgetSelect   Widget = "select"
	WidgetRadio    Widget = "radio"
)

var widgets = map[FieldType]Widget{
	TypeText:     WidgetInput,
	TypeTextarea: WidgetTextarea,
	TypeNumber:   WidgetNumber,
	TypeDate:     WidgetDate,
	TypeCheckbox: WidgetToggle,
	TypeSelect:   WidgetSelect,
	TypeRadio:    WidgetRadio,
}

// Control describes how one field is presented for input.
type Control struct {
	FieldID  string   `json:"field_id"`
	Label    string   `json:"label"`
	Widget   Widget   `json:"widget"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
	Value    Value    `json:"value"`
}

// ControlsFor lists the inputs of s in order. Hidden fields are left out.
func ControlsFor(s *FormSchema, values Payload) []Control {
	controls := make([]Control, 0, len(s.Fields))
	for _, f := range s.Fields {
		w, ok := widgets[f.Type]
		if !ok {
			continue
		}
		c := Control{
			FieldID:  f.ID,
			Label:    f.Label,
			Widget:   w,
			Required: f.Required,
			Value:    values[f.ID],
		}
		if f.Type.IsChoice() {
			c.Options = append([]string{}, f.Options...)
		}
		controls = append(controls, c)
	}
	return controls
}

// Controls lists the inputs of the loaded form with the answers so far.
func (r *Renderer) Controls() []Control {
	if r.schema == nil {
		return nil
	}
	return ControlsFor(r.schema, r.values)
}
