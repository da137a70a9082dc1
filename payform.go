package payform

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-payform/pkg/bank"
	"github.com/goliatone/go-payform/pkg/bridge"
	"github.com/goliatone/go-payform/pkg/bridge/gojavm"
	"github.com/goliatone/go-payform/pkg/element"
	"github.com/goliatone/go-payform/pkg/form"
	"github.com/goliatone/go-payform/pkg/resources"
	"github.com/goliatone/go-payform/pkg/spec"
	"github.com/goliatone/go-payform/pkg/transform"
)

// Layout aliases spec.LayoutSpec for callers building forms from the root
// package.
type Layout = spec.LayoutSpec

// Element aliases element.FormElement.
type Element = element.FormElement

// Option configures NewForm and NewElements.
type Option func(*options)

type options struct {
	banks      bank.Lookup
	translator resources.Translator
	locale     string
	transform  []transform.Option
}

// WithBanks replaces the embedded bank lists.
func WithBanks(banks bank.Lookup) Option {
	return func(o *options) {
		o.banks = banks
	}
}

// WithTranslator sets the translator and locale used for labels, section
// titles and mandate text.
func WithTranslator(t resources.Translator, locale string) Option {
	return func(o *options) {
		o.translator = t
		if locale != "" {
			o.locale = locale
		}
	}
}

// WithTransformOptions forwards extra options to the transformer.
func WithTransformOptions(opts ...transform.Option) Option {
	return func(o *options) {
		o.transform = append(o.transform, opts...)
	}
}

// Builtin returns a built-in layout by name.
func Builtin(name string) (Layout, bool) {
	return spec.Builtin(name)
}

// NewElements validates layout and transforms it into live elements. Banks
// default to the embedded lists and strings to the embedded bundle.
func NewElements(layout Layout, merchantName string, opts ...Option) ([]Element, error) {
	o := options{
		banks:      bank.Default(),
		translator: resources.Default(),
		locale:     resources.DefaultLocale,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("payform: %w", err)
	}

	transformOpts := append([]transform.Option{
		transform.WithTranslator(o.translator),
		transform.WithLocale(o.locale),
	}, o.transform...)
	return transform.Transform(layout.Items, merchantName, o.banks, transformOpts...)
}

// NewForm is NewElements wrapped in a form.Form.
func NewForm(layout Layout, merchantName string, opts ...Option) (*form.Form, error) {
	elements, err := NewElements(layout, merchantName, opts...)
	if err != nil {
		return nil, err
	}
	return form.New(elements), nil
}

// NewBridge returns a bridge engine whose host callbacks run in an embedded
// JavaScript runtime bounded by timeout. A nil logger discards diagnostics.
func NewBridge(timeout time.Duration, logger logrus.FieldLogger, opts ...bridge.Option) *bridge.Engine {
	runtimeOpts := []gojavm.Option{gojavm.WithTimeout(timeout)}
	engineOpts := []bridge.Option{}
	if logger != nil {
		runtimeOpts = append(runtimeOpts, gojavm.WithLogger(logger))
		engineOpts = append(engineOpts, bridge.WithLogger(logger))
	}
	engineOpts = append(engineOpts, bridge.WithRuntime(gojavm.New(runtimeOpts...)))
	return bridge.NewEngine(append(engineOpts, opts...)...)
}
