package controller

import (
	"strings"

	"github.com/goliatone/go-payform/pkg/spec"
)

const ibanMaxLength = 34

// ibanLengths maps ISO 3166 country codes to their registered IBAN length.
var ibanLengths = map[string]int{
	"AD": 24, "AE": 23, "AL": 28, "AT": 20, "AZ": 28, "BA": 20, "BE": 16,
	"BG": 22, "BH": 22, "BR": 29, "CH": 21, "CR": 22, "CY": 28, "CZ": 24,
	"DE": 22, "DK": 18, "DO": 28, "EE": 20, "ES": 24, "FI": 18, "FO": 18,
	"FR": 27, "GB": 22, "GE": 22, "GI": 23, "GL": 18, "GR": 27, "GT": 28,
	"HR": 21, "HU": 28, "IE": 22, "IL": 23, "IS": 26, "IT": 27, "JO": 30,
	"KW": 30, "KZ": 20, "LB": 28, "LI": 21, "LT": 20, "LU": 20, "LV": 21,
	"MC": 27, "MD": 24, "ME": 22, "MK": 19, "MR": 27, "MT": 31, "MU": 30,
	"NL": 18, "NO": 15, "PK": 24, "PL": 28, "PS": 29, "PT": 25, "QA": 29,
	"RO": 24, "RS": 22, "SA": 24, "SE": 24, "SI": 19, "SK": 24, "SM": 27,
	"TN": 24, "TR": 26, "UA": 29, "VG": 24, "XK": 20,
}

// IbanConfig validates International Bank Account Numbers: a known country
// prefix, the registered length for that country, and the ISO 7064 mod-97
// checksum.
type IbanConfig struct {
	LabelKey string
}

func (c IbanConfig) Label() string {
	if c.LabelKey == "" {
		return spec.LabelIban
	}
	return c.LabelKey
}

func (IbanConfig) Capitalization() spec.Capitalization { return spec.CapitalizationCharacters }
func (IbanConfig) Keyboard() spec.KeyboardType { return spec.KeyboardASCII }

// Filter upper-cases the input, keeps only letters and digits, and truncates
// to the longest IBAN length.
func (IbanConfig) Filter(input string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(input) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == ibanMaxLength {
				break
			}
		}
	}
	return b.String()
}

func (IbanConfig) Determine(value string) (State, *FieldError) {
	if value == "" {
		return StateEmpty, &FieldError{Key: ErrKeyBlank}
	}
	for idx, r := range value {
		if idx >= 2 {
			break
		}
		if r < 'A' || r > 'Z' {
			return StateInvalid, &FieldError{Key: ErrKeyIbanCountry}
		}
	}
	if len(value) < 2 {
		return StateEditing, &FieldError{Key: ErrKeyIbanIncomplete}
	}
	country := value[:2]
	expected, ok := ibanLengths[country]
	if !ok {
		return StateInvalid, &FieldError{Key: ErrKeyIbanCountry}
	}
	if len(value) > 2 {
		for _, r := range value[2:min(4, len(value))] {
			if r < '0' || r > '9' {
				return StateInvalid, &FieldError{Key: ErrKeyIbanInvalid}
			}
		}
	}
	switch {
	case len(value) < expected:
		return StateEditing, &FieldError{Key: ErrKeyIbanIncomplete}
	case len(value) > expected:
		return StateInvalid, &FieldError{Key: ErrKeyIbanInvalid}
	}
	if ibanMod97(value) != 1 {
		return StateInvalid, &FieldError{Key: ErrKeyIbanChecksum}
	}
	return StateValid, nil
}

// ibanMod97 moves the first four characters to the end, expands letters to
// two-digit numbers (A=10 ... Z=35) and reduces the result modulo 97.
func ibanMod97(iban string) int {
	rearranged := iban[4:] + iban[:4]
	remainder := 0
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			remainder = (remainder*10 + int(r-'0')) % 97
		case r >= 'A' && r <= 'Z':
			n := int(r-'A') + 10
			remainder = (remainder*100 + n) % 97
		}
	}
	return remainder
}
