package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-payform/pkg/element"
	"github.com/goliatone/go-payform/pkg/spec"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetToggle = "toggle"
	WidgetSelect = "select"
	WidgetInput  = "input"
	WidgetMasked = "masked-input"
	WidgetNotice = "notice"
)

// Matcher decides whether a widget should present the supplied element.
type Matcher func(el element.FormElement) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for elements based on explicit overrides or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves a widget.
type Registry struct {
	mu        sync.RWMutex
	rules     []rule
	overrides map[spec.Identifier]string
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence. Callers should avoid duplicate names; the
// latest registration wins during resolution.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Override pins the widget for an element or field identifier, bypassing
// matchers. An empty widget removes the override.
func (r *Registry) Override(id spec.Identifier, widget string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	widget = strings.TrimSpace(widget)
	if widget == "" {
		delete(r.overrides, id)
		return
	}
	if r.overrides == nil {
		r.overrides = make(map[spec.Identifier]string)
	}
	r.overrides[id] = widget
}

// Resolve returns the widget name for an element. Overrides registered for
// the element identifier, or for the field identifier of a section, are
// honoured before matcher evaluation.
func (r *Registry) Resolve(el element.FormElement) (string, bool) {
	if r == nil || el == nil {
		return "", false
	}
	r.mu.RLock()
	if explicit := r.explicitWidget(el); explicit != "" {
		r.mu.RUnlock()
		return explicit, true
	}
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(el) {
			return entry.name, true
		}
	}
	return "", false
}

// Assign resolves every element, keyed by element identifier. Elements
// without a widget are left out.
func (r *Registry) Assign(elements []element.FormElement) map[spec.Identifier]string {
	out := make(map[spec.Identifier]string, len(elements))
	for _, el := range elements {
		if widget, ok := r.Resolve(el); ok {
			out[el.Identifier()] = widget
		}
	}
	return out
}

// KindOf returns the kind presented by el: the field kind for sections, the
// element kind otherwise.
func KindOf(el element.FormElement) element.Kind {
	if section, ok := el.(*element.Section); ok && section.Field != nil {
		return section.Field.Kind()
	}
	if el == nil {
		return ""
	}
	return el.Kind()
}

func (r *Registry) explicitWidget(el element.FormElement) string {
	if len(r.overrides) == 0 {
		return ""
	}
	if widget := r.overrides[el.Identifier()]; widget != "" {
		return widget
	}
	if section, ok := el.(*element.Section); ok && section.Field != nil {
		return r.overrides[section.Field.Identifier()]
	}
	return ""
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetToggle, 90, func(el element.FormElement) bool {
		return KindOf(el) == element.KindSaveForFutureUse
	})

	r.Register(WidgetNotice, 80, func(el element.FormElement) bool {
		return el.Controller() == nil
	})

	r.Register(WidgetSelect, 70, func(el element.FormElement) bool {
		kind := KindOf(el)
		return kind == element.KindCountry || kind == element.KindDropdown
	})

	r.Register(WidgetMasked, 60, func(el element.FormElement) bool {
		if KindOf(el) == element.KindIban {
			return true
		}
		section, ok := el.(*element.Section)
		if !ok || section.Field == nil {
			return false
		}
		text, ok := section.Field.TextController()
		return ok && text.Config().Keyboard() == spec.KeyboardPassword
	})

	r.Register(WidgetInput, 50, func(el element.FormElement) bool {
		kind := KindOf(el)
		return kind == element.KindSimpleText || kind == element.KindEmail
	})
}
