// Package transform turns form item specs into elements bound to freshly
// built controllers.
package transform

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-payform/pkg/bank"
	"github.com/goliatone/go-payform/pkg/controller"
	"github.com/goliatone/go-payform/pkg/element"
	"github.com/goliatone/go-payform/pkg/resources"
	"github.com/goliatone/go-payform/pkg/spec"
)

// merchantPlaceholder marks where mandate text receives the merchant name.
const merchantPlaceholder = "%s"

// Transformer converts a spec list into form elements.
type Transformer interface {
	Transform(items []spec.FormItemSpec, merchantName string, banks bank.Lookup) ([]element.FormElement, error)
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(items []spec.FormItemSpec, merchantName string, banks bank.Lookup) ([]element.FormElement, error)

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(items []spec.FormItemSpec, merchantName string, banks bank.Lookup) ([]element.FormElement, error) {
	if fn == nil {
		return nil, nil
	}
	return fn(items, merchantName, banks)
}

// New returns a Transformer that applies options on every call.
func New(options ...Option) Transformer {
	return TransformerFunc(func(items []spec.FormItemSpec, merchantName string, banks bank.Lookup) ([]element.FormElement, error) {
		return Transform(items, merchantName, banks, options...)
	})
}

// Transform maps items one to one, in order, onto elements. Every call builds
// new controllers. A dropdown whose bank type is missing from banks fails the
// whole call and no elements are returned.
func Transform(items []spec.FormItemSpec, merchantName string, banks bank.Lookup, options ...Option) ([]element.FormElement, error) {
	cfg := newConfig(options...)
	out := make([]element.FormElement, 0, len(items))
	for idx, item := range items {
		el, err := cfg.item(item, merchantName, banks)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", idx, err)
		}
		out = append(out, el)
	}
	return out, nil
}

// MustTransform is like Transform but panics on error. Use it for built-in
// forms whose bank data ships with the binary.
func MustTransform(items []spec.FormItemSpec, merchantName string, banks bank.Lookup, options ...Option) []element.FormElement {
	out, err := Transform(items, merchantName, banks, options...)
	if err != nil {
		panic(err)
	}
	return out
}

func (cfg config) item(item spec.FormItemSpec, merchantName string, banks bank.Lookup) (element.FormElement, error) {
	switch it := item.(type) {
	case spec.SectionSpec:
		field, err := cfg.field(it.Field, banks)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", it.ID, err)
		}
		title := it.Title
		if title != "" {
			title = cfg.label(title)
		}
		return element.NewSection(it.ID, title, field), nil
	case spec.SaveForFutureUseSpec:
		label := cfg.label(it.Label())
		ctrl := controller.NewSaveForFutureUse(label, it.InitialValue, it.IdentifiersRequiredForFutureUse)
		return &element.SaveForFutureUse{
			ID:           it.ID,
			Ctrl:         ctrl,
			Label:        label,
			MerchantName: merchantName,
		}, nil
	case spec.MandateTextSpec:
		return &element.MandateText{
			ID:           it.ID,
			Text:         cfg.mandate(it.Text, merchantName),
			Color:        it.Color,
			MerchantName: merchantName,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownItemKind, item)
	}
}

func (cfg config) field(field spec.FieldSpec, banks bank.Lookup) (*element.Field, error) {
	if field == nil {
		return nil, fmt.Errorf("%w: field is nil", ErrUnknownFieldKind)
	}
	kind, ok := element.FieldKind(field.Kind())
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFieldKind, field.Kind())
	}

	var ctrl controller.Controller
	switch f := field.(type) {
	case spec.SimpleTextSpec:
		ctrl = controller.NewTextField(controller.SimpleTextConfig{
			LabelKey:       cfg.label(f.Label()),
			Capitalize:     f.Capitalization,
			KeyboardLayout: f.Keyboard,
		}, controller.WithOptional(f.ShowOptionalLabel))
	case spec.EmailSpec:
		ctrl = controller.NewTextField(controller.EmailConfig{LabelKey: cfg.label(f.Label())})
	case spec.IbanSpec:
		ctrl = controller.NewTextField(controller.IbanConfig{LabelKey: cfg.label(f.Label())})
	case spec.CountrySpec:
		ctrl = controller.NewDropdownField(controller.CountryConfig{
			LabelKey:  cfg.label(f.Label()),
			Countries: resources.CountryItems(cfg.locale, f.OnlyShowCountryCodes),
		})
	case spec.DropdownSpec:
		if banks == nil {
			return nil, fmt.Errorf("%w: %q (no bank lookup)", ErrBankTypeNotFound, f.BankType)
		}
		items, found := banks.Get(f.BankType)
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrBankTypeNotFound, f.BankType)
		}
		ctrl = controller.NewDropdownField(controller.SimpleDropdownConfig{
			LabelKey: cfg.label(f.Label()),
			Options:  items,
		})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownFieldKind, field)
	}
	return &element.Field{ID: field.Identifier(), FieldKind: kind, Ctrl: ctrl}, nil
}

// mandate resolves text, substitutes the merchant name and sanitizes the
// result. The merchant name is stripped of markup before substitution.
func (cfg config) mandate(text, merchantName string) string {
	resolved := cfg.label(text)
	merchant := strictPolicy.Sanitize(strings.TrimSpace(merchantName))
	resolved = strings.ReplaceAll(resolved, merchantPlaceholder, merchant)
	return cfg.sanitizer.Sanitize(resolved)
}
