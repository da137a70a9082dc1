package controller

// Section aggregates the controllers of a section's fields. It is valid and
// complete only when every field is. Value accessors delegate to the first
// field, which is the only one in current forms.
type Section struct {
	title  string
	fields []Controller
}

// NewSection groups fields under title. Nil fields are dropped.
func NewSection(title string, fields ...Controller) *Section {
	kept := make([]Controller, 0, len(fields))
	for _, field := range fields {
		if field != nil {
			kept = append(kept, field)
		}
	}
	return &Section{title: title, fields: kept}
}

// Title returns the section title resource key.
func (s *Section) Title() string { return s.title }

// Fields returns the aggregated controllers.
func (s *Section) Fields() []Controller {
	return append([]Controller(nil), s.fields...)
}

func (s *Section) RawValue() string {
	if len(s.fields) == 0 {
		return ""
	}
	return s.fields[0].RawValue()
}

func (s *Section) SetRawValue(value string) {
	if len(s.fields) == 0 {
		return
	}
	s.fields[0].SetRawValue(value)
}

// State reports the least advanced field state: any invalid field makes the
// section invalid, then editing, then empty.
func (s *Section) State() State {
	if len(s.fields) == 0 {
		return StateEmpty
	}
	var editing, empty, valid bool
	for _, field := range s.fields {
		switch field.State() {
		case StateInvalid:
			return StateInvalid
		case StateEditing:
			editing = true
		case StateEmpty:
			empty = true
		case StateValid:
			valid = true
		}
	}
	switch {
	case editing:
		return StateEditing
	case empty && !valid:
		return StateEmpty
	case empty:
		return StateEditing
	default:
		return StateValid
	}
}

func (s *Section) Valid() bool {
	for _, field := range s.fields {
		if !field.Valid() {
			return false
		}
	}
	return true
}

func (s *Section) Complete() bool {
	for _, field := range s.fields {
		if !field.Complete() {
			return false
		}
	}
	return true
}

func (s *Section) Required() bool {
	for _, field := range s.fields {
		if field.Required() {
			return true
		}
	}
	return false
}

// Error returns the first field error.
func (s *Section) Error() *FieldError {
	for _, field := range s.fields {
		if err := field.Error(); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe observes every field; the observer receives the section snapshot.
func (s *Section) Subscribe(observer Observer) func() {
	if observer == nil {
		return func() {}
	}
	cancels := make([]func(), 0, len(s.fields))
	for _, field := range s.fields {
		cancels = append(cancels, field.Subscribe(func(Snapshot) {
			observer(SnapshotOf(s))
		}))
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}
