package spec

import "sort"

// Built-in form names accepted by Builtin.
const (
	FormUSBankAccount = "us_bank_account"
	FormSepaDebit     = "sepa_debit"
	FormIdeal         = "ideal"
)

// SepaDebitCountries lists the countries offered by the SEPA debit form.
var SepaDebitCountries = []string{
	"AT", "BE", "BG", "CH", "CY", "CZ", "DE", "DK", "EE", "ES", "FI", "FR",
	"GB", "GR", "HR", "HU", "IE", "IS", "IT", "LI", "LT", "LU", "LV", "MT",
	"NL", "NO", "PL", "PT", "RO", "SE", "SI", "SK",
}

// USBankAccountForm collects the account holder name and email. Built-in
// sections share the identifier of the field they wrap.
func USBankAccountForm() LayoutSpec {
	return NewLayout(
		NewSection(IdentifierName, NameSpec),
		NewSection(IdentifierEmail, EmailSpec{ID: IdentifierEmail}),
	)
}

// SepaDebitForm collects the details required for a SEPA Direct Debit
// payment. The mandate text is only shown when the customer chooses to save
// the payment method.
func SepaDebitForm() LayoutSpec {
	return NewLayout(
		NewSection(IdentifierName, NameSpec),
		NewSection(IdentifierEmail, EmailSpec{ID: IdentifierEmail}),
		NewSection(IdentifierIban, IbanSpec{ID: IdentifierIban}),
		NewSection(IdentifierCountry, NewCountrySpec(IdentifierCountry, SepaDebitCountries...)),
		NewSaveForFutureUse(true, IdentifierMandate),
		MandateTextSpec{ID: IdentifierMandate, Text: TextSepaMandate, Color: "#6b7c93"},
	)
}

// IdealForm collects the account holder name and the customer's iDEAL bank.
func IdealForm() LayoutSpec {
	return NewLayout(
		NewSection(IdentifierName, NameSpec),
		NewSection(IdentifierBank, DropdownSpec{ID: IdentifierBank, BankType: "ideal"}),
	)
}

var builtins = map[string]func() LayoutSpec{
	FormUSBankAccount: USBankAccountForm,
	FormSepaDebit:     SepaDebitForm,
	FormIdeal:         IdealForm,
}

// Builtin returns a fresh copy of the named built-in form.
func Builtin(name string) (LayoutSpec, bool) {
	fn, ok := builtins[name]
	if !ok {
		return LayoutSpec{}, false
	}
	return fn(), true
}

// BuiltinNames lists the built-in form names in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
