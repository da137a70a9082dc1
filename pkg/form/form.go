// Package form aggregates transformed elements into a submittable form:
// overall completeness, visible values and identifiers hidden by
// save-for-future-use toggles.
package form

import (
	"sort"

	"github.com/goliatone/go-payform/pkg/controller"
	"github.com/goliatone/go-payform/pkg/element"
	"github.com/goliatone/go-payform/pkg/spec"
)

// Form is a view over an element list. It holds no state of its own; every
// query reads the current controller state.
type Form struct {
	elements []element.FormElement
}

// New wraps elements. Nil entries are dropped.
func New(elements []element.FormElement) *Form {
	kept := make([]element.FormElement, 0, len(elements))
	for _, el := range elements {
		if el != nil {
			kept = append(kept, el)
		}
	}
	return &Form{elements: kept}
}

// Elements returns the wrapped elements in order.
func (f *Form) Elements() []element.FormElement {
	if f == nil {
		return nil
	}
	return append([]element.FormElement(nil), f.elements...)
}

// HiddenIdentifiers returns the identifiers hidden by toggles that are off,
// sorted and deduplicated.
func (f *Form) HiddenIdentifiers() []spec.Identifier {
	set := f.hidden()
	out := make([]spec.Identifier, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Hidden reports whether el is hidden by a toggle.
func (f *Form) Hidden(el element.FormElement) bool {
	return isHidden(f.hidden(), el)
}

// Complete reports whether every visible interactive element is complete.
func (f *Form) Complete() bool {
	return len(f.Incomplete()) == 0
}

// Incomplete lists the value identifiers of visible elements that are not
// complete, in element order.
func (f *Form) Incomplete() []spec.Identifier {
	if f == nil {
		return nil
	}
	hidden := f.hidden()
	var out []spec.Identifier
	for _, el := range f.elements {
		ctrl := el.Controller()
		if ctrl == nil || isHidden(hidden, el) {
			continue
		}
		if !ctrl.Complete() {
			out = append(out, valueID(el))
		}
	}
	return out
}

// Values returns the raw values of visible, complete elements keyed by field
// identifier.
func (f *Form) Values() map[spec.Identifier]string {
	values := make(map[spec.Identifier]string)
	if f == nil {
		return values
	}
	hidden := f.hidden()
	for _, el := range f.elements {
		ctrl := el.Controller()
		if ctrl == nil || isHidden(hidden, el) || !ctrl.Complete() {
			continue
		}
		values[valueID(el)] = ctrl.RawValue()
	}
	return values
}

// Subscribe calls observer with the form completeness after any controller
// changes. The returned function cancels every underlying subscription.
func (f *Form) Subscribe(observer func(complete bool)) func() {
	if f == nil || observer == nil {
		return func() {}
	}
	var cancels []func()
	for _, el := range f.elements {
		ctrl := el.Controller()
		if ctrl == nil {
			continue
		}
		cancels = append(cancels, ctrl.Subscribe(func(controller.Snapshot) {
			observer(f.Complete())
		}))
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}

func (f *Form) hidden() map[spec.Identifier]struct{} {
	set := make(map[spec.Identifier]struct{})
	if f == nil {
		return set
	}
	for _, el := range f.elements {
		toggle, ok := el.(*element.SaveForFutureUse)
		if !ok || toggle.Ctrl == nil {
			continue
		}
		for _, id := range toggle.Ctrl.HiddenIdentifiers() {
			set[id] = struct{}{}
		}
	}
	return set
}

func isHidden(hidden map[spec.Identifier]struct{}, el element.FormElement) bool {
	if _, ok := hidden[el.Identifier()]; ok {
		return true
	}
	if section, ok := el.(*element.Section); ok && section.Field != nil {
		_, ok := hidden[section.Field.Identifier()]
		return ok
	}
	return false
}

// valueID is the identifier a value is submitted under: the field identifier
// for sections, the element identifier otherwise.
func valueID(el element.FormElement) spec.Identifier {
	if section, ok := el.(*element.Section); ok && section.Field != nil {
		return section.Field.Identifier()
	}
	return el.Identifier()
}
