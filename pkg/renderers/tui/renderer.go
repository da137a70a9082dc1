package tui

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-payform/pkg/controller"
	"github.com/goliatone/go-payform/pkg/element"
	"github.com/goliatone/go-payform/pkg/form"
	"github.com/goliatone/go-payform/pkg/resources"
	"github.com/goliatone/go-payform/pkg/spec"
	"github.com/goliatone/go-payform/pkg/widgets"
)

const defaultMaxAttempts = 5

var plainText = bluemonday.StrictPolicy()

// Renderer drives a terminal session over transformed elements: it prompts
// every visible element with the widget the registry picks, writes answers
// into the controllers and serializes the collected values.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	widgets           *widgets.Registry
	translator        resources.Translator
	locale            string
	maxAttempts       int
}

// New constructs a TUI renderer with defaults (survey driver, JSON output,
// built-in widgets).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       NewSurveyDriver(nil),
		outputFormat: OutputFormatJSON,
		widgets:      widgets.NewRegistry(),
		locale:       resources.DefaultLocale,
		maxAttempts:  defaultMaxAttempts,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts every visible element in order. Elements hidden by a
// save-for-future-use toggle are skipped, using the toggle position at the
// time they are reached, as are prefilled elements that are already
// complete.
func (r *Renderer) Render(ctx context.Context, elements []element.FormElement, opts RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	f := form.New(elements)
	state := NewState(opts.Values, opts.Errors)
	prefilled := prefill(f.Elements(), state)

	for _, el := range f.Elements() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.Hidden(el) {
			continue
		}
		if _, ok := prefilled[fieldID(el)]; ok && el.Controller() != nil && el.Controller().Complete() {
			continue
		}
		if err := r.promptElement(ctx, el, state); err != nil {
			return nil, err
		}
	}

	if missing := f.Incomplete(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrIncomplete, missing)
	}

	values := make(map[string]string)
	for id, value := range f.Values() {
		values[string(id)] = value
	}
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

func (r *Renderer) promptElement(ctx context.Context, el element.FormElement, state *State) error {
	widget, _ := r.widgets.Resolve(el)
	switch widget {
	case widgets.WidgetNotice:
		if mandate, ok := el.(*element.MandateText); ok && mandate.Text != "" {
			return r.driver.Info(ctx, r.theme.InfoPrefix+html.UnescapeString(plainText.Sanitize(mandate.Text)))
		}
		return nil
	case widgets.WidgetToggle:
		if toggle, ok := el.(*element.SaveForFutureUse); ok && toggle.Ctrl != nil {
			return r.promptToggle(ctx, toggle)
		}
	case widgets.WidgetSelect:
		if dropdown, ok := dropdownOf(el); ok {
			return r.promptSelect(ctx, el, dropdown, state)
		}
	}
	if el.Controller() == nil {
		return nil
	}
	return r.promptText(ctx, el, widget == widgets.WidgetMasked, state)
}

func (r *Renderer) promptText(ctx context.Context, el element.FormElement, masked bool, state *State) error {
	ctrl := el.Controller()
	id := fieldID(el)
	label := r.text(labelOf(el))
	secret := masked && isSecret(el)

	for attempt := 1; ; attempt++ {
		if err := r.showErrors(ctx, state.ConsumeErrors(id)); err != nil {
			return err
		}

		cfg := InputConfig{Message: label, Help: r.help(el)}
		var response string
		var err error
		if secret {
			response, err = r.driver.Password(ctx, cfg)
		} else {
			cfg.Default = ctrl.RawValue()
			response, err = r.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}

		ctrl.SetRawValue(response)
		if ctrl.Complete() {
			return nil
		}
		if err := r.reject(ctx, id, ctrl.Error(), attempt); err != nil {
			return err
		}
	}
}

func (r *Renderer) promptSelect(ctx context.Context, el element.FormElement, dropdown *controller.DropdownField, state *State) error {
	options := dropdown.DisplayItems()
	if len(options) == 0 {
		return nil
	}
	id := fieldID(el)
	label := r.text(labelOf(el))

	for attempt := 1; ; attempt++ {
		if err := r.showErrors(ctx, state.ConsumeErrors(id)); err != nil {
			return err
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: dropdown.SelectedIndex(),
		})
		if err != nil {
			return err
		}
		if dropdown.SelectIndex(idx) && dropdown.Complete() {
			return nil
		}
		if err := r.reject(ctx, id, dropdown.Error(), attempt); err != nil {
			return err
		}
	}
}

func (r *Renderer) promptToggle(ctx context.Context, toggle *element.SaveForFutureUse) error {
	message := r.text(toggle.Ctrl.Label())
	if toggle.MerchantName != "" && strings.Contains(message, "%s") {
		message = strings.ReplaceAll(message, "%s", toggle.MerchantName)
	}
	answer, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: toggle.Ctrl.Value()})
	if err != nil {
		return err
	}
	toggle.Ctrl.SetValue(answer)
	return nil
}

func (r *Renderer) reject(ctx context.Context, id spec.Identifier, fieldErr *controller.FieldError, attempt int) error {
	if fieldErr == nil {
		fieldErr = &controller.FieldError{Key: controller.ErrKeyBlank}
	}
	message := resources.Resolve(r.translator, r.locale, fieldErr.Key, fieldErr.Key, nil, fieldErr.Args...)
	if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
		return err
	}
	if r.maxAttempts > 0 && attempt >= r.maxAttempts {
		return fmt.Errorf("%w: %s", ErrTooManyAttempts, id)
	}
	return nil
}

func (r *Renderer) showErrors(ctx context.Context, messages []string) error {
	for _, msg := range messages {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) text(key string) string {
	if r.translator == nil {
		return key
	}
	return resources.Resolve(r.translator, r.locale, key, key, nil)
}

func (r *Renderer) help(el element.FormElement) string {
	section, ok := el.(*element.Section)
	if !ok || section.Field == nil {
		return ""
	}
	text, ok := section.Field.TextController()
	if !ok || !text.Optional() {
		return ""
	}
	return "optional"
}

func (r *Renderer) serialize(values map[string]string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

// prefill seeds controllers from state and returns the identifiers it set.
func prefill(elements []element.FormElement, state *State) map[spec.Identifier]struct{} {
	set := make(map[spec.Identifier]struct{})
	for _, el := range elements {
		ctrl := el.Controller()
		if ctrl == nil {
			continue
		}
		id := fieldID(el)
		if value, ok := state.Prefill(id); ok {
			ctrl.SetRawValue(value)
			set[id] = struct{}{}
		}
	}
	return set
}

// fieldID is the identifier values are keyed by: the field identifier for
// sections, the element identifier otherwise.
func fieldID(el element.FormElement) spec.Identifier {
	if section, ok := el.(*element.Section); ok && section.Field != nil {
		return section.Field.Identifier()
	}
	return el.Identifier()
}

func labelOf(el element.FormElement) string {
	ctrl := el.Controller()
	if section, ok := el.(*element.Section); ok && section.Field != nil {
		ctrl = section.Field.Controller()
	}
	if labeled, ok := ctrl.(controller.Labeled); ok && labeled.Label() != "" {
		return labeled.Label()
	}
	return string(fieldID(el))
}

func dropdownOf(el element.FormElement) (*controller.DropdownField, bool) {
	section, ok := el.(*element.Section)
	if !ok || section.Field == nil {
		return nil, false
	}
	return section.Field.DropdownController()
}

func isSecret(el element.FormElement) bool {
	section, ok := el.(*element.Section)
	if !ok || section.Field == nil {
		return false
	}
	text, ok := section.Field.TextController()
	if !ok {
		return false
	}
	keyboard := text.Config().Keyboard()
	return keyboard == spec.KeyboardPassword || keyboard == spec.KeyboardNumberPassword
}

func flattenForm(values map[string]string) string {
	flattened := url.Values{}
	for key, value := range values {
		flattened.Set(key, value)
	}
	return flattened.Encode()
}

func prettyPrint(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, values[key])
	}
	return b.String()
}
