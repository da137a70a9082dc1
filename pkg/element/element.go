// Package element defines the runtime counterparts of form specs: each element
// carries the originating identifier and the controller the UI layer binds
// to. Display-only elements return a nil controller.
package element

import (
	"github.com/goliatone/go-payform/pkg/controller"
	"github.com/goliatone/go-payform/pkg/spec"
)

// Kind discriminates element variants.
type Kind string

const (
	KindSection          Kind = "section"
	KindSimpleText       Kind = "simple_text"
	KindEmail            Kind = "email"
	KindIban             Kind = "iban"
	KindCountry          Kind = "country"
	KindDropdown         Kind = "dropdown"
	KindSaveForFutureUse Kind = "save_for_future_use"
	KindMandateText      Kind = "mandate_text"
)

// FieldKind maps a spec field kind onto its element kind.
func FieldKind(kind spec.FieldKind) (Kind, bool) {
	switch kind {
	case spec.FieldKindSimpleText:
		return KindSimpleText, true
	case spec.FieldKindEmail:
		return KindEmail, true
	case spec.FieldKindIban:
		return KindIban, true
	case spec.FieldKindCountry:
		return KindCountry, true
	case spec.FieldKindDropdown:
		return KindDropdown, true
	default:
		return "", false
	}
}

// FormElement is a top-level entry in a transformed form.
type FormElement interface {
	Identifier() spec.Identifier
	Kind() Kind
	// Controller returns the bound controller, or nil for display-only
	// elements.
	Controller() controller.Controller
}

// Field is a single input inside a section.
type Field struct {
	ID        spec.Identifier
	FieldKind Kind
	Ctrl      controller.Controller
}

func (f *Field) Identifier() spec.Identifier { return f.ID }
func (f *Field) Kind() Kind { return f.FieldKind }
func (f *Field) Controller() controller.Controller { return f.Ctrl }

// TextController returns the controller as a text field when it is one.
func (f *Field) TextController() (*controller.TextField, bool) {
	ctrl, ok := f.Ctrl.(*controller.TextField)
	return ctrl, ok
}

// DropdownController returns the controller as a dropdown when it is one.
func (f *Field) DropdownController() (*controller.DropdownField, bool) {
	ctrl, ok := f.Ctrl.(*controller.DropdownField)
	return ctrl, ok
}

// Section wraps exactly one field.
type Section struct {
	ID    spec.Identifier
	Title string
	Field *Field
	ctrl  controller.Controller
}

// NewSection builds a section whose controller is the field's own
// controller, so section and field validity are always identical.
func NewSection(id spec.Identifier, title string, field *Field) *Section {
	section := &Section{ID: id, Title: title, Field: field}
	if field != nil {
		section.ctrl = field.Ctrl
	}
	return section
}

// NewSectionWithController builds a section bound to an explicit controller,
// typically a controller.Section aggregating the field.
func NewSectionWithController(id spec.Identifier, title string, field *Field, ctrl controller.Controller) *Section {
	return &Section{ID: id, Title: title, Field: field, ctrl: ctrl}
}

func (s *Section) Identifier() spec.Identifier { return s.ID }
func (s *Section) Kind() Kind { return KindSection }
func (s *Section) Controller() controller.Controller { return s.ctrl }

// SaveForFutureUse is the save-payment-method toggle.
type SaveForFutureUse struct {
	ID           spec.Identifier
	Ctrl         *controller.SaveForFutureUse
	Label        string
	MerchantName string
}

func (s *SaveForFutureUse) Identifier() spec.Identifier { return s.ID }
func (s *SaveForFutureUse) Kind() Kind { return KindSaveForFutureUse }

func (s *SaveForFutureUse) Controller() controller.Controller {
	if s.Ctrl == nil {
		return nil
	}
	return s.Ctrl
}

// MandateText is informational text with the merchant name already applied.
type MandateText struct {
	ID           spec.Identifier
	Text         string
	Color        string
	MerchantName string
}

func (m *MandateText) Identifier() spec.Identifier { return m.ID }
func (m *MandateText) Kind() Kind { return KindMandateText }
func (m *MandateText) Controller() controller.Controller { return nil }
