package bridge

import (
	"context"

	"github.com/goliatone/go-payform/pkg/controller"
	"github.com/goliatone/go-payform/pkg/spec"
)

// LabelPlaceholder labels fields built from host descriptions.
const LabelPlaceholder = "label.placeholder"

var placeholderConfig = controller.SimpleTextConfig{
	LabelKey:       LabelPlaceholder,
	Capitalize:     spec.CapitalizationNone,
	KeyboardLayout: spec.KeyboardASCII,
}

// TextField is a text controller validated by a host script. Each change is
// sent to the engine as an Event when a callback is bound; responses
// addressed to the field id replace its state.
type TextField struct {
	*controller.TextField

	engine   *Engine
	id       string
	callback string
	last     TextFieldState
	err      error
	cancel   func()
}

// NewTextField builds a field observing responses for id. An empty callback
// keeps validation local.
func NewTextField(engine *Engine, id, callback string) *TextField {
	field := &TextField{
		TextField: controller.NewTextField(placeholderConfig),
		engine:    engine,
		id:        id,
		callback:  callback,
		cancel:    func() {},
	}
	if engine != nil {
		field.cancel = engine.Observe(id, field.apply)
	}
	return field
}

// ID returns the host node id.
func (t *TextField) ID() string { return t.id }

// Callback returns the bound callback, or "".
func (t *TextField) Callback() string { return t.callback }

// SetRawValue stores value and notifies the host without a deadline.
// Reported request failures are logged and kept for Err; use Update to pass
// a context and receive them directly.
func (t *TextField) SetRawValue(value string) {
	if err := t.Update(context.Background(), value); err != nil {
		t.engine.logger.WithField("id", t.id).WithError(err).Warn("bridge: text field request failed")
	}
}

// Update stores value and, when a callback is bound, sends the change event.
func (t *TextField) Update(ctx context.Context, value string) error {
	t.TextField.SetRawValue(value)
	t.err = nil
	if t.engine == nil || t.callback == "" {
		return nil
	}
	raw := t.RawValue()
	_, err := t.engine.RequestCustomServer(ctx, t.callback, Event{Target: Target{ID: t.id, Value: &raw}})
	t.err = err
	return err
}

// Err returns the reported failure of the most recent request, or nil.
func (t *TextField) Err() error { return t.err }

// ShouldShowError reports the host's error display hint for the focus state.
func (t *TextField) ShouldShowError(hasFocus bool) bool {
	if hasFocus {
		return t.last.ShouldShowErrorHasFocus
	}
	return t.last.ShouldShowErrorHasNoFocus
}

// Close stops observing responses.
func (t *TextField) Close() {
	t.cancel()
}

func (t *TextField) apply(response Response) {
	t.last = response.State
	var fieldErr *controller.FieldError
	if response.State.ErrorMsg != "" {
		fieldErr = &controller.FieldError{Key: response.State.ErrorMsg}
	}

	switch {
	case response.State.Valid:
		t.SetExternalState(controller.StateValid, nil)
	case response.State.Blank:
		if fieldErr == nil {
			fieldErr = &controller.FieldError{Key: controller.ErrKeyBlank}
		}
		t.SetExternalState(controller.StateEmpty, fieldErr)
	case response.State.Full:
		t.SetExternalState(controller.StateInvalid, fieldErr)
	default:
		t.SetExternalState(controller.StateEditing, fieldErr)
	}
}
