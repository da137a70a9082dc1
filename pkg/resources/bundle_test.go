package resources

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-payform/pkg/spec"
)

func TestDefaultBundle_FallbackChain(t *testing.T) {
	bundle := Default()

	if diff := cmp.Diff([]string{"de", "en"}, bundle.Locales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}

	cases := []struct {
		locale string
		key    string
		want   string
	}{
		{locale: "en", key: spec.LabelEmail, want: "Email"},
		{locale: "de", key: spec.LabelEmail, want: "E-Mail"},
		{locale: "de_AT", key: spec.LabelName, want: "Vollständiger Name"},
		{locale: "de", key: "error.iban_checksum", want: "The IBAN you entered is invalid."},
		{locale: "", key: spec.LabelIban, want: "IBAN"},
	}
	for _, tc := range cases {
		got, err := bundle.Translate(tc.locale, tc.key)
		if err != nil {
			t.Fatalf("translate %s/%s: %v", tc.locale, tc.key, err)
		}
		if got != tc.want {
			t.Fatalf("translate %s/%s: want %q, got %q", tc.locale, tc.key, tc.want, got)
		}
	}

	mandate, err := bundle.Translate("en", spec.TextSepaMandate)
	if err != nil || !strings.Contains(mandate, "%s") {
		t.Fatalf("mandate text should keep the merchant placeholder: %q (%v)", mandate, err)
	}

	if _, err := bundle.Translate("en", "missing.key"); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}

func TestLoadFS_MixedFormats(t *testing.T) {
	bundle, err := LoadFS(os.DirFS("testdata"), "locales", "en")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"en", "fr"}, bundle.Locales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}
	got, _ := bundle.Translate("fr", spec.LabelName)
	if got != "Nom complet" {
		t.Fatalf("json locale not loaded: %q", got)
	}
	greeting, _ := bundle.Translate("fr", "greeting", "Acme")
	if greeting != "Hello Acme" {
		t.Fatalf("args not applied through fallback: %q", greeting)
	}
}

func TestResolve(t *testing.T) {
	bundle := NewBundle("en")
	bundle.Add("en", map[string]string{"known": "Known", " ": "skipped"})

	if got := Resolve(bundle, "en", "known", "fallback", nil); got != "Known" {
		t.Fatalf("known key: %q", got)
	}
	if got := Resolve(bundle, "en", "unknown", "fallback", nil); got != "fallback" {
		t.Fatalf("fallback not used: %q", got)
	}
	if got := Resolve(nil, "en", "unknown", "", nil); got != "unknown" {
		t.Fatalf("nil translator should echo the key: %q", got)
	}

	var gotErr error
	handler := func(locale, key string, args []any, err error) string {
		gotErr = err
		return "[" + key + "]"
	}
	if got := Resolve(nil, "en", "k", "", handler); got != "[k]" || !errors.Is(gotErr, ErrMissingTranslator) {
		t.Fatalf("missing handler not used: %q (%v)", got, gotErr)
	}

	fn := TranslatorFunc(func(locale, key string, args ...any) (string, error) {
		return strings.ToUpper(key), nil
	})
	if got := Resolve(fn, "en", "abc", "", nil); got != "ABC" {
		t.Fatalf("translator func: %q", got)
	}
}

func TestCountryItems(t *testing.T) {
	items := CountryItems("en", []string{"fr", "DE", "de", "??"})
	want := []spec.DropdownItem{
		{Value: "FR", Text: "France"},
		{Value: "DE", Text: "Germany"},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Fatalf("country items mismatch (-want +got):\n%s", diff)
	}

	german := CountryItems("de", []string{"DE"})
	if len(german) != 1 || german[0].Text != "Deutschland" {
		t.Fatalf("expected localized name, got %#v", german)
	}

	all := CountryItems("", nil)
	if len(all) != len(SupportedCountries) {
		t.Fatalf("expected %d countries, got %d", len(SupportedCountries), len(all))
	}
}
