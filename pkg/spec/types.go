package spec

import "strings"

// Identifier keys a spec (and the element built from it) within a form.
type Identifier string

// Well-known identifiers shared by the built-in forms.
const (
	IdentifierName             Identifier = "name"
	IdentifierEmail            Identifier = "email"
	IdentifierCountry          Identifier = "country"
	IdentifierIban             Identifier = "iban"
	IdentifierBank             Identifier = "bank"
	IdentifierSaveForFutureUse Identifier = "save_for_future_use"
	IdentifierMandate          Identifier = "mandate"
)

// String returns the identifier value.
func (id Identifier) String() string { return string(id) }

// Default label resource keys. Translators resolve them through
// pkg/resources; without a translator the key is shown verbatim.
const (
	LabelName             = "label.name"
	LabelEmail            = "label.email"
	LabelIban             = "label.iban"
	LabelCountry          = "label.country"
	LabelBank             = "label.bank"
	LabelSaveForFutureUse = "label.save_for_future_use"
	TextSepaMandate       = "text.sepa_mandate"
)

// FieldKind discriminates the FieldSpec variants.
type FieldKind string

const (
	FieldKindSimpleText FieldKind = "simple_text"
	FieldKindEmail      FieldKind = "email"
	FieldKindIban       FieldKind = "iban"
	FieldKindCountry    FieldKind = "country"
	FieldKindDropdown   FieldKind = "dropdown"
)

// Capitalization is the keyboard capitalization hint for text fields.
type Capitalization string

const (
	CapitalizationNone       Capitalization = "none"
	CapitalizationCharacters Capitalization = "characters"
	CapitalizationWords      Capitalization = "words"
	CapitalizationSentences  Capitalization = "sentences"
)

// KeyboardType is the keyboard layout hint for text fields.
type KeyboardType string

const (
	KeyboardText           KeyboardType = "text"
	KeyboardASCII          KeyboardType = "ascii"
	KeyboardNumber         KeyboardType = "number"
	KeyboardPhone          KeyboardType = "phone"
	KeyboardURI            KeyboardType = "uri"
	KeyboardEmail          KeyboardType = "email"
	KeyboardPassword       KeyboardType = "password"
	KeyboardNumberPassword KeyboardType = "number_password"
)

// FieldSpec is the closed set of field variants that can live in a section.
// The unexported marker keeps the set closed to this package.
type FieldSpec interface {
	Identifier() Identifier
	Kind() FieldKind
	Label() string
	isFieldSpec()
}

// SimpleTextSpec describes a free-form text input.
type SimpleTextSpec struct {
	ID                Identifier
	LabelKey          string
	Capitalization    Capitalization
	Keyboard          KeyboardType
	ShowOptionalLabel bool
}

func (s SimpleTextSpec) Identifier() Identifier { return s.ID }
func (SimpleTextSpec) Kind() FieldKind { return FieldKindSimpleText }
func (s SimpleTextSpec) Label() string { return labelOr(s.LabelKey, string(s.ID)) }
func (SimpleTextSpec) isFieldSpec() {}

// NameSpec is the full-name field used by the built-in forms.
var NameSpec = SimpleTextSpec{
	ID:             IdentifierName,
	LabelKey:       LabelName,
	Capitalization: CapitalizationWords,
	Keyboard:       KeyboardText,
}

// EmailSpec describes an email address input.
type EmailSpec struct {
	ID       Identifier
	LabelKey string
}

func (s EmailSpec) Identifier() Identifier { return s.ID }
func (EmailSpec) Kind() FieldKind { return FieldKindEmail }
func (s EmailSpec) Label() string { return labelOr(s.LabelKey, LabelEmail) }
func (EmailSpec) isFieldSpec() {}

// IbanSpec describes an IBAN input.
type IbanSpec struct {
	ID       Identifier
	LabelKey string
}

func (s IbanSpec) Identifier() Identifier { return s.ID }
func (IbanSpec) Kind() FieldKind { return FieldKindIban }
func (s IbanSpec) Label() string { return labelOr(s.LabelKey, LabelIban) }
func (IbanSpec) isFieldSpec() {}

// CountrySpec describes a country selector. An empty OnlyShowCountryCodes
// offers every supported country.
type CountrySpec struct {
	ID                   Identifier
	LabelKey             string
	OnlyShowCountryCodes []string
}

// NewCountrySpec copies the supplied codes so the spec stays immutable.
func NewCountrySpec(id Identifier, codes ...string) CountrySpec {
	return CountrySpec{ID: id, OnlyShowCountryCodes: normaliseCodes(codes)}
}

func (s CountrySpec) Identifier() Identifier { return s.ID }
func (CountrySpec) Kind() FieldKind { return FieldKindCountry }
func (s CountrySpec) Label() string { return labelOr(s.LabelKey, LabelCountry) }
func (CountrySpec) isFieldSpec() {}

// DropdownSpec describes a selector backed by a bank list keyed by BankType.
type DropdownSpec struct {
	ID       Identifier
	LabelKey string
	BankType string
}

func (s DropdownSpec) Identifier() Identifier { return s.ID }
func (DropdownSpec) Kind() FieldKind { return FieldKindDropdown }
func (s DropdownSpec) Label() string { return labelOr(s.LabelKey, LabelBank) }
func (DropdownSpec) isFieldSpec() {}

// DropdownItem is one selectable entry in a dropdown: the value submitted to
// the payments API and the text displayed to the user.
type DropdownItem struct {
	Value string `json:"value" yaml:"value"`
	Text  string `json:"text" yaml:"text"`
}

func labelOr(label, fallback string) string {
	if trimmed := strings.TrimSpace(label); trimmed != "" {
		return trimmed
	}
	return fallback
}

func normaliseCodes(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		out = append(out, code)
	}
	return out
}
