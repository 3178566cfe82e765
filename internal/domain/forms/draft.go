package forms

import (
	"strconv"
	"strings"
)

// Draft is a form under construction. It is a value: every operation returns
// a new Draft and leaves the receiver untouched.
type Draft struct {
	title       string
	slug        string
	slugTouched bool
	fields      []FieldDefinition
	nextSeq     int
}

// StartDraft begins an empty draft. An empty slug is derived from title and
// keeps following it until the slug is set by hand.
func StartDraft(title, slug string) Draft {
	d := Draft{title: title, nextSeq: 1}
	return d.SetSlug(slug)
}

// DraftFromSchema starts a draft holding a copy of the admin-defined fields of
// s. The hidden subject field is left out; Submit appends it again.
func DraftFromSchema(s *FormSchema, title, slug string) Draft {
	d := StartDraft(title, slug)
	fields := make([]FieldDefinition, 0, len(s.Fields))
	for _, f := range s.Fields {
		if isSystemField(f) {
			continue
		}
		fields = append(fields, f)
	}
	d.fields = cloneFields(fields)
	return d
}

func (d Draft) Title() string             { return d.title }
func (d Draft) Slug() string              { return d.slug }
func (d Draft) SlugTouched() bool         { return d.slugTouched }
func (d Draft) Len() int                  { return len(d.fields) }
func (d Draft) Fields() []FieldDefinition { return cloneFields(d.fields) }

func (d Draft) SetTitle(title string) Draft {
	d.title = title
	if !d.slugTouched {
		d.slug = Slugify(title)
	}
	return d
}

// SetSlug records a hand-edited slug. Clearing it hands control back to the
// title.
func (d Draft) SetSlug(slug string) Draft {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		d.slugTouched = false
		d.slug = Slugify(d.title)
		return d
	}
	d.slugTouched = true
	d.slug = slug
	return d
}

// AddField validates p, gives it a fresh id and appends it.
func (d Draft) AddField(p PendingField) (Draft, error) {
	def, err := ValidateField(FieldDefinition{
		Label:    p.Label,
		Type:     p.Type,
		Required: p.Required,
		Options:  p.Options,
	})
	if err != nil {
		return d, &InvalidFieldError{Err: err}
	}

	def.ID, d.nextSeq = d.freshID()
	d.fields = append(cloneFields(d.fields), def)
	return d, nil
}

func (d Draft) freshID() (string, int) {
	seq := d.nextSeq
	for {
		id := "field_" + strconv.Itoa(seq)
		seq++
		if d.indexOf(id) < 0 {
			return id, seq
		}
	}
}

func (d Draft) indexOf(id string) int {
	for i, f := range d.fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// RemoveField drops the field with id. Unknown ids are ignored.
func (d Draft) RemoveField(id string) Draft {
	i := d.indexOf(id)
	if i < 0 {
		return d
	}
	fields := make([]FieldDefinition, 0, len(d.fields)-1)
	fields = append(fields, d.fields[:i]...)
	d.fields = cloneFields(append(fields, d.fields[i+1:]...))
	return d
}

// MoveField places the field with id at index to, clamped to the list bounds.
func (d Draft) MoveField(id string, to int) Draft {
	from := d.indexOf(id)
	if from < 0 {
		return d
	}
	if to < 0 {
		to = 0
	}
	if to >= len(d.fields) {
		to = len(d.fields) - 1
	}
	if to == from {
		return d
	}

	fields := cloneFields(d.fields)
	f := fields[from]
	fields = append(fields[:from], fields[from+1:]...)
	fields = append(fields[:to], append([]FieldDefinition{f}, fields[to:]...)...)
	d.fields = fields
	return d
}

// PendingField is a field still being composed, before AddField.
type PendingField struct {
	Label    string
	Type     FieldType
	Required bool
	Options  []string
}

// AddOption appends text as a choice. Blank text is ignored.
func (p PendingField) AddOption(text string) PendingField {
	if strings.TrimSpace(text) == "" {
		return p
	}
	p.Options = append(append([]string(nil), p.Options...), text)
	return p
}

// RemoveOption drops the option at index i. Out-of-range indexes are ignored.
func (p PendingField) RemoveOption(i int) PendingField {
	if i < 0 || i >= len(p.Options) {
		return p
	}
	opts := make([]string, 0, len(p.Options)-1)
	opts = append(opts, p.Options[:i]...)
	p.Options = append(opts, p.Options[i+1:]...)
	return p
}
