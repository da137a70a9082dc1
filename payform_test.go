package payform

import (
	"errors"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-payform/pkg/bank"
	"github.com/goliatone/go-payform/pkg/bridge"
	"github.com/goliatone/go-payform/pkg/element"
	"github.com/goliatone/go-payform/pkg/resources"
	"github.com/goliatone/go-payform/pkg/spec"
	"github.com/goliatone/go-payform/pkg/transform"
)

func TestNewForm_USBankAccount(t *testing.T) {
	layout, ok := Builtin(spec.FormUSBankAccount)
	if !ok {
		t.Fatalf("builtin form missing")
	}
	f, err := NewForm(layout, "Acme")
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if f.Complete() {
		t.Fatalf("empty form should be incomplete")
	}

	var ids []spec.Identifier
	for _, el := range f.Elements() {
		ids = append(ids, el.Identifier())
	}
	if diff := cmp.Diff([]spec.Identifier{spec.IdentifierName, spec.IdentifierEmail}, ids); diff != "" {
		t.Fatalf("section ids mismatch (-want +got):\n%s", diff)
	}

	for _, el := range f.Elements() {
		section := el.(*element.Section)
		switch section.Field.Identifier() {
		case spec.IdentifierName:
			section.Controller().SetRawValue("Jane Doe")
		case spec.IdentifierEmail:
			section.Controller().SetRawValue("jane@example.com")
		}
	}

	want := map[spec.Identifier]string{
		spec.IdentifierName:  "Jane Doe",
		spec.IdentifierEmail: "jane@example.com",
	}
	if diff := cmp.Diff(want, f.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestNewElements_TranslatesWithLocale(t *testing.T) {
	elements, err := NewElements(spec.SepaDebitForm(), "Acme",
		WithTranslator(resources.Default(), "de"),
		WithTransformOptions(transform.WithSanitizer(nil)),
	)
	if err != nil {
		t.Fatalf("new elements: %v", err)
	}
	mandate := elements[len(elements)-1].(*element.MandateText)
	if !strings.Contains(mandate.Text, "Acme") || strings.Contains(mandate.Text, "By providing") {
		t.Fatalf("mandate not localised: %q", mandate.Text)
	}
}

func TestNewElements_Errors(t *testing.T) {
	_, err := NewElements(spec.IdealForm(), "Acme", WithBanks(bank.Map{}))
	if !errors.Is(err, transform.ErrBankTypeNotFound) {
		t.Fatalf("expected ErrBankTypeNotFound, got %v", err)
	}

	invalid := spec.NewLayout(
		spec.NewSection("a", spec.EmailSpec{ID: "email"}),
		spec.NewSection("b", spec.EmailSpec{ID: "email"}),
	)
	var layoutErr *spec.LayoutError
	if _, err := NewElements(invalid, "Acme"); !errors.As(err, &layoutErr) {
		t.Fatalf("expected layout error, got %v", err)
	}
}

func TestNewBridge_EvaluatesCallbacks(t *testing.T) {
	engine := NewBridge(time.Second, nil, bridge.WithFailurePolicy(bridge.PolicyReport))

	payload, err := json.Marshal(map[string]any{
		"id":   "code",
		"kind": "input",
		"type": bridge.TypeTextField,
		"props": map[string]any{
			bridge.PropTextChange: map[string]string{"@@f": `{
				var v = e.target.value || "";
				return JSON.stringify({id: e.target.id, state: {valid: v === "ok", full: v.length >= 2}});
			}`},
		},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := engine.Decode(string(payload)); err != nil {
		t.Fatalf("decode: %v", err)
	}

	elements := engine.Elements()
	if len(elements) != 1 || elements[0].Identifier() != "codesection" {
		t.Fatalf("unexpected elements %#v", elements)
	}
	ctrl := elements[0].Controller()
	ctrl.SetRawValue("no")
	if ctrl.Complete() {
		t.Fatalf("script rejected value but field is complete")
	}
	ctrl.SetRawValue("ok")
	if !ctrl.Complete() {
		t.Fatalf("script accepted value but field is incomplete")
	}
}
