package controller

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-payform/pkg/spec"
)

// SaveForFutureUse is the toggle controlling whether the payment method is
// saved. While it is off, the identifiers it tracks are hidden from the form.
type SaveForFutureUse struct {
	label string
	value bool
	ids   []spec.Identifier
	obs   observers
}

// NewSaveForFutureUse seeds the toggle with initial and copies ids.
func NewSaveForFutureUse(label string, initial bool, ids []spec.Identifier) *SaveForFutureUse {
	return &SaveForFutureUse{
		label: label,
		value: initial,
		ids:   append([]spec.Identifier(nil), ids...),
	}
}

// Label returns the label resource key.
func (s *SaveForFutureUse) Label() string { return s.label }

// Value reports the toggle position.
func (s *SaveForFutureUse) Value() bool { return s.value }

// SetValue moves the toggle and notifies observers.
func (s *SaveForFutureUse) SetValue(value bool) {
	s.value = value
	s.obs.notify(SnapshotOf(s))
}

// Toggle flips the toggle.
func (s *SaveForFutureUse) Toggle() { s.SetValue(!s.value) }

// IdentifiersRequiredForFutureUse returns the tracked identifiers.
func (s *SaveForFutureUse) IdentifiersRequiredForFutureUse() []spec.Identifier {
	return append([]spec.Identifier(nil), s.ids...)
}

// HiddenIdentifiers returns the tracked identifiers while the toggle is off.
func (s *SaveForFutureUse) HiddenIdentifiers() []spec.Identifier {
	if s.value {
		return nil
	}
	return s.IdentifiersRequiredForFutureUse()
}

func (s *SaveForFutureUse) RawValue() string { return strconv.FormatBool(s.value) }

// SetRawValue accepts strconv.ParseBool spellings; anything else is ignored.
func (s *SaveForFutureUse) SetRawValue(value string) {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return
	}
	s.SetValue(parsed)
}

func (s *SaveForFutureUse) State() State { return StateValid }
func (s *SaveForFutureUse) Valid() bool { return true }
func (s *SaveForFutureUse) Complete() bool { return true }
func (s *SaveForFutureUse) Required() bool { return false }
func (s *SaveForFutureUse) Error() *FieldError { return nil }

func (s *SaveForFutureUse) Subscribe(observer Observer) func() { return s.obs.add(observer) }
