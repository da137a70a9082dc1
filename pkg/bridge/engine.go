// Package bridge builds form elements from descriptions produced by an
// external script host and relays validation requests and responses between
// the host and the resulting controllers.
//
// The engine has no internal locking; callers serialize concurrent use.
package bridge

import (
	"context"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-payform/pkg/controller"
	"github.com/goliatone/go-payform/pkg/element"
	"github.com/goliatone/go-payform/pkg/spec"
)

// FailurePolicy decides whether malformed input is reported to the caller.
type FailurePolicy int

const (
	// PolicySwallow logs malformed input and carries on.
	PolicySwallow FailurePolicy = iota
	// PolicyReport logs malformed input and returns the error.
	PolicyReport
)

// Runtime evaluates a request script and returns the serialized Response, or
// "" when the script produces none.
type Runtime interface {
	Evaluate(ctx context.Context, script string) (string, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine diagnostics to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithFailurePolicy selects how Decode, InsertChild, RemoveChild,
// RequestCustomServer and AddResponse treat malformed input. Mount always
// reports.
func WithFailurePolicy(policy FailurePolicy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

// WithRuntime evaluates request scripts in-process and feeds their results
// back through AddResponse.
func WithRuntime(runtime Runtime) Option {
	return func(e *Engine) {
		e.runtime = runtime
	}
}

// Engine holds the element list built from host descriptions.
type Engine struct {
	elements  []element.FormElement
	policy    FailurePolicy
	logger    logrus.FieldLogger
	runtime   Runtime
	requests  listeners[string]
	scripts   listeners[string]
	responses listeners[Response]
}

// NewEngine constructs an engine. Without options failures are swallowed
// and diagnostics discarded.
func NewEngine(options ...Option) *Engine {
	e := &Engine{policy: PolicySwallow}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		e.logger = discard
	}
	return e
}

// Elements returns the current element list, or nil before anything has been
// decoded or mounted.
func (e *Engine) Elements() []element.FormElement {
	if e.elements == nil {
		return nil
	}
	return append([]element.FormElement(nil), e.elements...)
}

// Decode parses a single description. Only TextField nodes produce an
// element, replacing the current list and closing the fields it held; other
// types and malformed payloads, including nodes without a kind, leave the
// list unchanged.
func (e *Engine) Decode(payload string) error {
	log := e.logger.WithField("op", "decode")
	var data SerializedData
	if err := json.Unmarshal([]byte(strings.ReplaceAll(payload, "@", "_")), &data); err != nil {
		return e.fail(log, fmt.Errorf("%w: decode: %v", ErrMalformedPayload, err))
	}
	if err := data.validate(); err != nil {
		return e.fail(log, fmt.Errorf("%w: decode: %v", ErrMalformedPayload, err))
	}
	if data.Type != TypeTextField {
		log.WithFields(logrus.Fields{"id": data.ID, "kind": data.Kind, "type": data.Type}).Debug("bridge: ignoring node")
		return nil
	}
	field := NewTextField(e, data.ID, data.Callback(PropTextChange))
	e.replace([]element.FormElement{e.section(data.ID, field)})
	log.WithField("id", data.ID).Debug("bridge: decoded text field")
	return nil
}

// InsertChild parses a single description and replaces the list with a text
// field stub for it, whatever its type. No callback is bound.
func (e *Engine) InsertChild(payload string) error {
	log := e.logger.WithField("op", "insert_child")
	var data SerializedData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return e.fail(log, fmt.Errorf("%w: insert child: %v", ErrMalformedPayload, err))
	}
	if err := data.validate(); err != nil {
		return e.fail(log, fmt.Errorf("%w: insert child: %v", ErrMalformedPayload, err))
	}
	field := NewTextField(e, data.ID, "")
	e.replace([]element.FormElement{e.section(data.ID, field)})
	log.WithFields(logrus.Fields{"id": data.ID, "type": data.Type}).Debug("bridge: inserted stub")
	return nil
}

// RemoveChild parses a description list and drops elements built for any of
// the listed ids.
func (e *Engine) RemoveChild(payload string) error {
	log := e.logger.WithField("op", "remove_child")
	var data []SerializedData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return e.fail(log, fmt.Errorf("%w: remove child: %v", ErrMalformedPayload, err))
	}
	if err := validateAll(data); err != nil {
		return e.fail(log, fmt.Errorf("%w: remove child: %v", ErrMalformedPayload, err))
	}
	if e.elements == nil {
		return nil
	}
	drop := make(map[spec.Identifier]struct{}, len(data))
	for _, node := range data {
		drop[spec.Identifier(node.ID)] = struct{}{}
		drop[spec.Identifier(node.ID+sectionSuffix)] = struct{}{}
	}
	kept := make([]element.FormElement, 0, len(e.elements))
	for _, el := range e.elements {
		if _, ok := drop[el.Identifier()]; ok {
			release(el)
			continue
		}
		kept = append(kept, el)
	}
	log.WithField("removed", len(e.elements)-len(kept)).Debug("bridge: removed children")
	e.elements = kept
	return nil
}

// Mount parses a description list and replaces the element list with a plain
// text section for every ui-text node. Other nodes are dropped. Decode
// failures are always returned and leave the list unchanged.
func (e *Engine) Mount(payload string) error {
	var data []SerializedData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		err = fmt.Errorf("%w: mount: %v", ErrMalformedPayload, err)
		e.logger.WithField("op", "mount").WithError(err).Debug("bridge: mount failed")
		return err
	}
	if err := validateAll(data); err != nil {
		err = fmt.Errorf("%w: mount: %v", ErrMalformedPayload, err)
		e.logger.WithField("op", "mount").WithError(err).Debug("bridge: mount failed")
		return err
	}
	elements := make([]element.FormElement, 0, len(data))
	for _, node := range data {
		if node.Type != TypeUIText {
			continue
		}
		ctrl := controller.NewTextField(placeholderConfig)
		field := &element.Field{ID: spec.Identifier(node.ID), FieldKind: element.KindSimpleText, Ctrl: ctrl}
		elements = append(elements, element.NewSectionWithController(
			spec.Identifier(node.ID+sectionSuffix), "", field, controller.NewSection("", ctrl)))
	}
	e.replace(elements)
	e.logger.WithFields(logrus.Fields{"op": "mount", "nodes": len(data), "elements": len(elements)}).Debug("bridge: mounted")
	return nil
}

// RequestCustomServer wraps fnBody as a function invoked with event, publishes
// the script to request listeners and, with a Runtime configured, evaluates
// it and applies the result as a response. It returns the script.
func (e *Engine) RequestCustomServer(ctx context.Context, fnBody string, event Event) (string, error) {
	log := e.logger.WithFields(logrus.Fields{"op": "request", "target": event.Target.ID})
	encoded, err := json.Marshal(event)
	if err != nil {
		return "", e.fail(log, fmt.Errorf("%w: encode event: %v", ErrMalformedPayload, err))
	}
	script := "javascript:(function(e) " + fnBody + ")(" + string(encoded) + ");"
	log.Debug("bridge: request")
	e.requests.notify(script)

	if e.runtime == nil {
		return script, nil
	}
	result, err := e.runtime.Evaluate(ctx, script)
	if err != nil {
		return script, e.fail(log, fmt.Errorf("%w: %v", ErrRuntime, err))
	}
	if strings.TrimSpace(result) == "" {
		return script, nil
	}
	return script, e.AddResponse(result)
}

// RunJavascript publishes js unchanged to script listeners.
func (e *Engine) RunJavascript(js string) {
	e.logger.WithField("op", "run_javascript").Debug("bridge: raw script")
	e.scripts.notify(js)
}

// AddResponse decodes raw and delivers it to observers of its id.
func (e *Engine) AddResponse(raw string) error {
	log := e.logger.WithField("op", "response")
	var response Response
	if err := json.Unmarshal([]byte(raw), &response); err != nil {
		return e.fail(log, fmt.Errorf("%w: response: %v", ErrMalformedPayload, err))
	}
	log.WithField("id", response.ID).Debug("bridge: response")
	e.responses.notify(response)
	return nil
}

// Observe calls fn with every response addressed to id.
func (e *Engine) Observe(id string, fn func(Response)) func() {
	if fn == nil {
		return func() {}
	}
	return e.responses.add(func(r Response) {
		if r.ID == id {
			fn(r)
		}
	})
}

// OnRequest calls fn with every script built by RequestCustomServer.
func (e *Engine) OnRequest(fn func(script string)) func() {
	return e.requests.add(fn)
}

// OnScript calls fn with every script passed to RunJavascript.
func (e *Engine) OnScript(fn func(script string)) func() {
	return e.scripts.add(fn)
}

// replace swaps in elements, closing the script fields of the previous list.
func (e *Engine) replace(elements []element.FormElement) {
	for _, el := range e.elements {
		release(el)
	}
	e.elements = elements
}

// release stops a dropped element's script field from observing responses.
func release(el element.FormElement) {
	section, ok := el.(*element.Section)
	if !ok || section.Field == nil {
		return
	}
	if field, ok := section.Field.Ctrl.(*TextField); ok {
		field.Close()
	}
}

func (e *Engine) section(id string, field *TextField) *element.Section {
	el := &element.Field{ID: spec.Identifier(id), FieldKind: element.KindSimpleText, Ctrl: field}
	return element.NewSectionWithController(
		spec.Identifier(id+sectionSuffix), "", el, controller.NewSection("", field))
}

func (e *Engine) fail(log logrus.FieldLogger, err error) error {
	log.WithError(err).Debug("bridge: failure")
	if e.policy == PolicyReport {
		return err
	}
	return nil
}

type listener[T any] struct {
	id int
	fn func(T)
}

type listeners[T any] struct {
	next int
	subs []listener[T]
}

func (l *listeners[T]) add(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	l.next++
	id := l.next
	l.subs = append(l.subs, listener[T]{id: id, fn: fn})
	return func() {
		for idx, sub := range l.subs {
			if sub.id == id {
				l.subs = append(l.subs[:idx:idx], l.subs[idx+1:]...)
				return
			}
		}
	}
}

func (l *listeners[T]) notify(value T) {
	subs := append([]listener[T](nil), l.subs...)
	for _, sub := range subs {
		sub.fn(value)
	}
}
