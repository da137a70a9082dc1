package controller

import (
	"strings"

	"github.com/goliatone/go-payform/pkg/spec"
)

// DropdownConfig supplies the resolved option list of a dropdown field.
type DropdownConfig interface {
	Label() string
	Items() []spec.DropdownItem
	// Normalize maps raw input onto the form used by item values.
	Normalize(value string) string
}

// CountryConfig lists countries keyed by ISO 3166 alpha-2 code.
type CountryConfig struct {
	LabelKey  string
	Countries []spec.DropdownItem
}

func (c CountryConfig) Label() string {
	if c.LabelKey == "" {
		return spec.LabelCountry
	}
	return c.LabelKey
}

func (c CountryConfig) Items() []spec.DropdownItem { return c.Countries }

func (CountryConfig) Normalize(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// SimpleDropdownConfig lists arbitrary items such as banks.
type SimpleDropdownConfig struct {
	LabelKey string
	Options  []spec.DropdownItem
}

func (c SimpleDropdownConfig) Label() string { return c.LabelKey }

func (c SimpleDropdownConfig) Items() []spec.DropdownItem { return c.Options }

func (SimpleDropdownConfig) Normalize(value string) string { return strings.TrimSpace(value) }

// DropdownField holds a selection from a fixed item list. It starts with the
// first item selected when the list is not empty.
type DropdownField struct {
	config   DropdownConfig
	items    []spec.DropdownItem
	selected int
	raw      string
	state    State
	obs      observers
}

// NewDropdownField builds a controller over a copy of config's items.
func NewDropdownField(config DropdownConfig) *DropdownField {
	items := append([]spec.DropdownItem(nil), config.Items()...)
	field := &DropdownField{config: config, items: items, selected: -1}
	if len(items) > 0 {
		field.selected = 0
		field.raw = items[0].Value
		field.state = StateValid
	}
	return field
}

// Config returns the dropdown configuration.
func (d *DropdownField) Config() DropdownConfig { return d.config }

// Label returns the label resource key.
func (d *DropdownField) Label() string { return d.config.Label() }

// Items returns the resolved option list.
func (d *DropdownField) Items() []spec.DropdownItem {
	return append([]spec.DropdownItem(nil), d.items...)
}

// DisplayItems returns the option texts in list order.
func (d *DropdownField) DisplayItems() []string {
	out := make([]string, len(d.items))
	for idx, item := range d.items {
		out[idx] = item.Text
	}
	return out
}

// SelectedIndex returns the selected item index, or -1.
func (d *DropdownField) SelectedIndex() int { return d.selected }

// SelectIndex selects the item at idx; out-of-range indices are ignored.
func (d *DropdownField) SelectIndex(idx int) bool {
	if idx < 0 || idx >= len(d.items) {
		return false
	}
	d.selected = idx
	d.raw = d.items[idx].Value
	d.state = StateValid
	d.obs.notify(SnapshotOf(d))
	return true
}

func (d *DropdownField) RawValue() string { return d.raw }

// SetRawValue selects the item whose value matches. An empty value clears the
// selection; a value outside the list is kept and marks the field invalid.
func (d *DropdownField) SetRawValue(value string) {
	value = d.config.Normalize(value)
	d.raw = value
	d.selected = -1
	switch {
	case value == "":
		d.state = StateEmpty
	default:
		d.state = StateInvalid
		for idx, item := range d.items {
			if item.Value == value {
				d.selected = idx
				d.state = StateValid
				break
			}
		}
	}
	d.obs.notify(SnapshotOf(d))
}

func (d *DropdownField) State() State { return d.state }

func (d *DropdownField) Valid() bool { return d.state == StateValid }

func (d *DropdownField) Complete() bool { return d.Valid() && d.raw != "" }

func (d *DropdownField) Required() bool { return true }

func (d *DropdownField) Error() *FieldError {
	switch d.state {
	case StateValid:
		return nil
	case StateEmpty:
		return &FieldError{Key: ErrKeyBlank}
	default:
		return &FieldError{Key: ErrKeySelectionInvalid, Args: []any{d.raw}}
	}
}

func (d *DropdownField) Subscribe(observer Observer) func() { return d.obs.add(observer) }
