package controller

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-payform/pkg/spec"
)

// TextConfig supplies the kind-specific rules of a text field.
type TextConfig interface {
	Label() string
	Capitalization() spec.Capitalization
	Keyboard() spec.KeyboardType
	// Filter normalises raw input before it is stored (e.g. strips spaces).
	Filter(input string) string
	// Determine classifies a filtered value.
	Determine(value string) (State, *FieldError)
}

// TextField is the controller for free-text style inputs.
type TextField struct {
	config   TextConfig
	optional bool
	raw      string
	state    State
	err      *FieldError
	obs      observers
}

// TextFieldOption configures a TextField.
type TextFieldOption func(*TextField)

// WithOptional marks the field optional; an empty optional field is valid.
func WithOptional(optional bool) TextFieldOption {
	return func(t *TextField) {
		t.optional = optional
	}
}

// NewTextField builds a controller for config, starting empty.
func NewTextField(config TextConfig, options ...TextFieldOption) *TextField {
	if config == nil {
		config = SimpleTextConfig{}
	}
	field := &TextField{config: config}
	for _, opt := range options {
		if opt != nil {
			opt(field)
		}
	}
	field.state, field.err = config.Determine("")
	return field
}

// Config returns the field configuration.
func (t *TextField) Config() TextConfig { return t.config }

// Label returns the label resource key.
func (t *TextField) Label() string { return t.config.Label() }

// Optional reports whether the field may be left blank.
func (t *TextField) Optional() bool { return t.optional }

func (t *TextField) RawValue() string { return t.raw }

// SetRawValue filters and stores value, re-derives the state and notifies
// observers.
func (t *TextField) SetRawValue(value string) {
	t.raw = t.config.Filter(value)
	t.state, t.err = t.config.Determine(t.raw)
	t.obs.notify(SnapshotOf(t))
}

func (t *TextField) State() State { return t.state }

func (t *TextField) Valid() bool {
	return t.state == StateValid || (t.state == StateEmpty && t.optional)
}

func (t *TextField) Complete() bool {
	return t.Valid() && (!t.Required() || t.raw != "")
}

func (t *TextField) Required() bool { return !t.optional }

// Error returns the current error, or nil when the value is valid. An empty
// optional field reports no error.
func (t *TextField) Error() *FieldError {
	if t.Valid() {
		return nil
	}
	return t.err
}

func (t *TextField) Subscribe(observer Observer) func() { return t.obs.add(observer) }

// SetExternalState replaces the derived state without re-running the config
// rule. The bridge uses it to adopt validation results computed by a script.
func (t *TextField) SetExternalState(state State, err *FieldError) {
	t.state = state
	t.err = err
	t.obs.notify(SnapshotOf(t))
}

// SimpleTextConfig accepts any non-blank value.
type SimpleTextConfig struct {
	LabelKey       string
	Capitalize     spec.Capitalization
	KeyboardLayout spec.KeyboardType
}

func (c SimpleTextConfig) Label() string { return c.LabelKey }

func (c SimpleTextConfig) Capitalization() spec.Capitalization {
	if c.Capitalize == "" {
		return spec.CapitalizationNone
	}
	return c.Capitalize
}

func (c SimpleTextConfig) Keyboard() spec.KeyboardType {
	if c.KeyboardLayout == "" {
		return spec.KeyboardText
	}
	return c.KeyboardLayout
}

func (SimpleTextConfig) Filter(input string) string { return input }

func (SimpleTextConfig) Determine(value string) (State, *FieldError) {
	if strings.TrimSpace(value) == "" {
		return StateEmpty, &FieldError{Key: ErrKeyBlank}
	}
	return StateValid, nil
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-']+@[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?)+$`)

// EmailConfig accepts local@domain.tld shaped addresses.
type EmailConfig struct {
	LabelKey string
}

func (c EmailConfig) Label() string {
	if c.LabelKey == "" {
		return spec.LabelEmail
	}
	return c.LabelKey
}

func (EmailConfig) Capitalization() spec.Capitalization { return spec.CapitalizationNone }
func (EmailConfig) Keyboard() spec.KeyboardType { return spec.KeyboardEmail }

// Filter drops whitespace, which is never part of an address.
func (EmailConfig) Filter(input string) string {
	return strings.Join(strings.Fields(input), "")
}

func (EmailConfig) Determine(value string) (State, *FieldError) {
	switch {
	case value == "":
		return StateEmpty, &FieldError{Key: ErrKeyBlank}
	case emailPattern.MatchString(value):
		return StateValid, nil
	case strings.HasPrefix(value, "@") || strings.Count(value, "@") > 1:
		return StateInvalid, &FieldError{Key: ErrKeyEmailInvalid}
	case strings.ContainsAny(value, `,;:<>()[]\"`):
		return StateInvalid, &FieldError{Key: ErrKeyEmailInvalid}
	case brokenDomain(value):
		return StateInvalid, &FieldError{Key: ErrKeyEmailInvalid}
	default:
		return StateEditing, &FieldError{Key: ErrKeyEmailIncomplete}
	}
}

// brokenDomain reports domain parts no further typing can repair: an empty
// label ("a@.b", "a@b..c") or a label that starts or ends with a hyphen
// before its dot ("a@-b", "a@b-.c"). A trailing dot or hyphen is still
// being typed.
func brokenDomain(value string) bool {
	at := strings.LastIndex(value, "@")
	if at < 0 {
		return false
	}
	domain := value[at+1:]
	if strings.HasPrefix(domain, ".") || strings.HasPrefix(domain, "-") {
		return true
	}
	return strings.Contains(domain, "..") || strings.Contains(domain, ".-") || strings.Contains(domain, "-.")
}
