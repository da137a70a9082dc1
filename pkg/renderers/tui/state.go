package tui

import (
	"strings"

	"github.com/goliatone/go-payform/pkg/spec"
)

// RenderOptions seeds a session.
type RenderOptions struct {
	// Values pre-populates controllers keyed by field identifier.
	Values map[string]string
	// Errors surfaces server-side feedback keyed by field identifier. It is
	// shown once before the field is prompted.
	Errors map[string][]string
}

// State tracks prefilled values and server-provided errors keyed by field
// identifier. Collected values live in the controllers themselves.
type State struct {
	values map[spec.Identifier]string
	errors map[spec.Identifier][]string
}

// NewState seeds the state with prefilled values and errors. Blank keys are
// dropped.
func NewState(prefill map[string]string, errs map[string][]string) *State {
	s := &State{
		values: make(map[spec.Identifier]string, len(prefill)),
		errors: make(map[spec.Identifier][]string, len(errs)),
	}
	for key, value := range prefill {
		if id := strings.TrimSpace(key); id != "" {
			s.values[spec.Identifier(id)] = value
		}
	}
	for key, messages := range errs {
		if id := strings.TrimSpace(key); id != "" && len(messages) > 0 {
			s.errors[spec.Identifier(id)] = append([]string(nil), messages...)
		}
	}
	return s
}

// Prefill returns the seeded value for id.
func (s *State) Prefill(id spec.Identifier) (string, bool) {
	if s == nil {
		return "", false
	}
	value, ok := s.values[id]
	return value, ok
}

// ErrorsFor returns the errors attached to id.
func (s *State) ErrorsFor(id spec.Identifier) []string {
	if s == nil || len(s.errors) == 0 {
		return nil
	}
	return s.errors[id]
}

// ConsumeErrors returns and clears the errors attached to id.
func (s *State) ConsumeErrors(id spec.Identifier) []string {
	messages := s.ErrorsFor(id)
	if len(messages) > 0 {
		delete(s.errors, id)
	}
	return messages
}
