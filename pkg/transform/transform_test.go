package transform_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-payform/pkg/bank"
	"github.com/goliatone/go-payform/pkg/controller"
	"github.com/goliatone/go-payform/pkg/element"
	"github.com/goliatone/go-payform/pkg/resources"
	"github.com/goliatone/go-payform/pkg/spec"
	"github.com/goliatone/go-payform/pkg/testsupport"
	"github.com/goliatone/go-payform/pkg/transform"
)

func nameEmailItems() []spec.FormItemSpec {
	return []spec.FormItemSpec{
		spec.NewSection("name_section", spec.NameSpec),
		spec.NewSection("email_section", spec.EmailSpec{ID: spec.IdentifierEmail}),
	}
}

func fieldIDs(t *testing.T, elements []element.FormElement) []spec.Identifier {
	t.Helper()
	ids := make([]spec.Identifier, 0, len(elements))
	for _, el := range elements {
		section, ok := el.(*element.Section)
		if !ok {
			ids = append(ids, el.Identifier())
			continue
		}
		ids = append(ids, section.Field.Identifier())
	}
	return ids
}

func TestTransform_NameAndEmail(t *testing.T) {
	elements, err := transform.Transform(nameEmailItems(), "Acme", bank.Map{})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	want := []spec.Identifier{spec.IdentifierName, spec.IdentifierEmail}
	if diff := cmp.Diff(want, fieldIDs(t, elements)); diff != "" {
		t.Fatalf("field identifiers mismatch (-want +got):\n%s", diff)
	}

	email := elements[1].Controller()
	email.SetRawValue("a@b.com")
	if !email.Complete() {
		t.Fatalf("expected a@b.com to complete, state %v", email.State())
	}
	email.SetRawValue("a@")
	if email.Complete() {
		t.Fatalf("expected a@ to be incomplete")
	}
	if email.State() != controller.StateEditing {
		t.Fatalf("expected editing state for a@, got %v", email.State())
	}
}

func TestTransform_PreservesOrderAndLength(t *testing.T) {
	layout := spec.SepaDebitForm()
	elements, err := transform.Transform(layout.Items, "Acme", bank.Default())
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if len(elements) != len(layout.Items) {
		t.Fatalf("expected %d elements, got %d", len(layout.Items), len(elements))
	}
	for idx, item := range layout.Items {
		if elements[idx].Identifier() != item.Identifier() {
			t.Fatalf("element %d: want %q, got %q", idx, item.Identifier(), elements[idx].Identifier())
		}
	}

	mandate, ok := elements[len(elements)-1].(*element.MandateText)
	if !ok {
		t.Fatalf("expected trailing mandate element, got %T", elements[len(elements)-1])
	}
	if mandate.Controller() != nil {
		t.Fatalf("mandate text should not carry a controller")
	}
}

func TestTransform_SectionControllerIsFieldController(t *testing.T) {
	elements, err := transform.Transform([]spec.FormItemSpec{
		spec.NewSection("iban_section", spec.IbanSpec{ID: spec.IdentifierIban}),
	}, "Acme", nil)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	section := elements[0].(*element.Section)
	if section.Controller() != section.Field.Controller() {
		t.Fatalf("section and field controllers differ")
	}

	for _, input := range []string{"", "DE", "DE89 3704", "DE89370400440532013000", "DE00370400440532013000", "XX89370400440532013000"} {
		section.Field.Controller().SetRawValue(input)
		if section.Controller().Valid() != section.Field.Controller().Valid() {
			t.Fatalf("validity diverged for %q", input)
		}
	}
}

func TestTransform_MissingBankType(t *testing.T) {
	items := []spec.FormItemSpec{
		spec.NewSection("name_section", spec.NameSpec),
		spec.NewSection("bank_section", spec.DropdownSpec{ID: spec.IdentifierBank, BankType: "us"}),
	}

	cases := []struct {
		name  string
		banks bank.Lookup
	}{
		{name: "empty map", banks: bank.Map{}},
		{name: "nil lookup", banks: nil},
		{name: "other types only", banks: bank.Default()},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			elements, err := transform.Transform(items, "Acme", tc.banks)
			if !errors.Is(err, transform.ErrBankTypeNotFound) {
				t.Fatalf("expected ErrBankTypeNotFound, got %v", err)
			}
			if elements != nil {
				t.Fatalf("expected no partial result, got %d elements", len(elements))
			}
		})
	}
}

func TestMustTransform_Panics(t *testing.T) {
	defer func() {
		recovered := recover()
		err, ok := recovered.(error)
		if !ok || !errors.Is(err, transform.ErrBankTypeNotFound) {
			t.Fatalf("expected panic with ErrBankTypeNotFound, got %v", recovered)
		}
	}()
	transform.MustTransform([]spec.FormItemSpec{
		spec.NewSection("bank_section", spec.DropdownSpec{ID: spec.IdentifierBank, BankType: "us"}),
	}, "Acme", bank.Map{})
}

func TestTransform_DropdownUsesBankList(t *testing.T) {
	banks := bank.Map{"us": {{Value: "chase", Text: "Chase"}, {Value: "citi", Text: "Citi"}}}
	elements := transform.MustTransform([]spec.FormItemSpec{
		spec.NewSection("bank_section", spec.DropdownSpec{ID: spec.IdentifierBank, BankType: "us"}),
	}, "Acme", banks)

	field := elements[0].(*element.Section).Field
	dropdown, ok := field.DropdownController()
	if !ok {
		t.Fatalf("expected dropdown controller, got %T", field.Controller())
	}
	if diff := cmp.Diff([]string{"Chase", "Citi"}, dropdown.DisplayItems()); diff != "" {
		t.Fatalf("display items mismatch (-want +got):\n%s", diff)
	}
	if dropdown.RawValue() != "chase" {
		t.Fatalf("expected first bank preselected, got %q", dropdown.RawValue())
	}
}

func TestTransform_SaveForFutureUse(t *testing.T) {
	for _, initial := range []bool{true, false} {
		items := []spec.FormItemSpec{
			spec.NewSection("email_section", spec.EmailSpec{ID: spec.IdentifierEmail}),
			spec.NewSaveForFutureUse(initial, spec.IdentifierEmail),
		}
		elements := transform.MustTransform(items, "Acme", nil)
		toggle := elements[1].(*element.SaveForFutureUse)
		if toggle.Ctrl.Value() != initial {
			t.Fatalf("initial value: want %v, got %v", initial, toggle.Ctrl.Value())
		}

		email := elements[0].Controller()
		email.SetRawValue("a@b.com")
		before := controller.SnapshotOf(email)
		toggle.Ctrl.Toggle()
		if diff := cmp.Diff(before, controller.SnapshotOf(email)); diff != "" {
			t.Fatalf("toggle mutated another controller (-want +got):\n%s", diff)
		}
	}
}

func TestTransform_FreshControllersPerCall(t *testing.T) {
	first := transform.MustTransform(nameEmailItems(), "Acme", nil)
	second := transform.MustTransform(nameEmailItems(), "Acme", nil)

	first[0].Controller().SetRawValue("Jane Doe")
	if second[0].Controller().RawValue() != "" {
		t.Fatalf("controllers shared between calls")
	}
}

func TestTransform_MandateMerchantAndTranslation(t *testing.T) {
	items := []spec.FormItemSpec{
		spec.NewSection("name_section", spec.NameSpec),
		spec.MandateTextSpec{ID: spec.IdentifierMandate, Text: spec.TextSepaMandate},
	}
	elements, err := transform.Transform(items, "Acme <script>alert(1)</script>", nil,
		transform.WithTranslator(resources.Default()),
		transform.WithLocale("de"),
	)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	section := elements[0].(*element.Section)
	labeled, ok := section.Controller().(controller.Labeled)
	if !ok || labeled.Label() != "Vollständiger Name" {
		t.Fatalf("expected translated label, got %#v", section.Controller())
	}

	mandate := elements[1].(*element.MandateText)
	if !strings.Contains(mandate.Text, "Acme") {
		t.Fatalf("merchant missing from mandate: %q", mandate.Text)
	}
	if strings.Contains(mandate.Text, "%s") || strings.Contains(mandate.Text, "<script") {
		t.Fatalf("mandate not substituted or sanitized: %q", mandate.Text)
	}
}

func TestTransform_LiteralMandateWithoutTranslator(t *testing.T) {
	items := []spec.FormItemSpec{
		spec.MandateTextSpec{ID: spec.IdentifierMandate, Text: "<b>%s</b> may debit you."},
	}
	elements := transform.MustTransform(items, "Acme", nil)
	if got := elements[0].(*element.MandateText).Text; got != "<b>Acme</b> may debit you." {
		t.Fatalf("unexpected mandate text %q", got)
	}

	strict := transform.MustTransform(items, "Acme", nil, transform.WithSanitizer(bluemonday.StrictPolicy()))
	if got := strict[0].(*element.MandateText).Text; got != "Acme may debit you." {
		t.Fatalf("strict policy not applied: %q", got)
	}
}

func TestTransform_UnknownItems(t *testing.T) {
	_, err := transform.Transform([]spec.FormItemSpec{nil}, "Acme", nil)
	if !errors.Is(err, transform.ErrUnknownItemKind) {
		t.Fatalf("expected ErrUnknownItemKind, got %v", err)
	}
	_, err = transform.Transform([]spec.FormItemSpec{spec.SectionSpec{ID: "empty"}}, "Acme", nil)
	if !errors.Is(err, transform.ErrUnknownFieldKind) {
		t.Fatalf("expected ErrUnknownFieldKind, got %v", err)
	}
}

func TestNew_AppliesOptions(t *testing.T) {
	var tr transform.Transformer = transform.New(transform.WithTranslator(resources.Default()))
	elements, err := tr.Transform(nameEmailItems(), "Acme", nil)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	labeled := elements[1].Controller().(controller.Labeled)
	if labeled.Label() != "Email" {
		t.Fatalf("expected english label, got %q", labeled.Label())
	}

	var nilFunc transform.TransformerFunc
	if got, err := nilFunc.Transform(nameEmailItems(), "Acme", nil); got != nil || err != nil {
		t.Fatalf("nil func should be a no-op")
	}
}

func TestTransform_DocumentGolden(t *testing.T) {
	layout := testsupport.LoadLayout(t, "testdata/sepa.yaml")
	elements, err := transform.Transform(layout.Items, "Acme", nil, transform.WithTranslator(resources.Default()))
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	got := testsupport.Summarize(elements)
	const golden = "testdata/sepa.golden.json"
	if testsupport.WriteGolden(t, golden, got) {
		return
	}
	var want []testsupport.ElementSummary
	testsupport.MustLoadGolden(t, golden, &want)
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("golden mismatch (-want +got):\n%s", diff)
	}
}
