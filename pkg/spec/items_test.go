package spec

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLayoutValidate_ReportsDuplicates(t *testing.T) {
	layout := NewLayout(
		NewSection("a", EmailSpec{ID: "email"}),
		NewSection("b", EmailSpec{ID: "email"}),
		SectionSpec{ID: "c"},
	)

	err := layout.Validate()
	var layoutErr *LayoutError
	if !errors.As(err, &layoutErr) {
		t.Fatalf("expected LayoutError, got %v", err)
	}
	if len(layoutErr.Problems) != 2 {
		t.Fatalf("expected two problems, got %v", layoutErr.Problems)
	}
	if !strings.Contains(err.Error(), `field "email" declared by items 0 and 1`) {
		t.Fatalf("duplicate not reported: %v", err)
	}
}

func TestLayoutValidate_BuiltinsAreClean(t *testing.T) {
	for _, name := range BuiltinNames() {
		layout, ok := Builtin(name)
		if !ok {
			t.Fatalf("builtin %q missing", name)
		}
		if err := layout.Validate(); err != nil {
			t.Fatalf("builtin %q: %v", name, err)
		}
	}
}

func TestLayoutIdentifiers_PreservesOrder(t *testing.T) {
	got := USBankAccountForm().Identifiers()
	want := []Identifier{IdentifierName, IdentifierName, IdentifierEmail, IdentifierEmail}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestConstructorsCopyInputs(t *testing.T) {
	codes := []string{"de", "fr"}
	country := NewCountrySpec(IdentifierCountry, codes...)
	codes[0] = "xx"
	if country.OnlyShowCountryCodes[0] != "DE" {
		t.Fatalf("country spec aliases caller slice: %v", country.OnlyShowCountryCodes)
	}

	ids := []Identifier{IdentifierMandate}
	save := NewSaveForFutureUse(false, ids...)
	ids[0] = "other"
	if save.IdentifiersRequiredForFutureUse[0] != IdentifierMandate {
		t.Fatalf("save spec aliases caller slice: %v", save.IdentifiersRequiredForFutureUse)
	}
}

func TestBuiltin_ReturnsFreshCopies(t *testing.T) {
	first, _ := Builtin(FormSepaDebit)
	first.Items[0] = MandateTextSpec{ID: "mutated"}
	second, _ := Builtin(FormSepaDebit)
	if second.Items[0].Identifier() != IdentifierName {
		t.Fatalf("builtin shares state across calls: %v", second.Items[0].Identifier())
	}
	if _, ok := Builtin("unknown"); ok {
		t.Fatalf("unknown builtin resolved")
	}
}
