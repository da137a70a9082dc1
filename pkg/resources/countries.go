package resources

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/goliatone/go-payform/pkg/spec"
)

// SupportedCountries lists the ISO 3166 alpha-2 codes offered when a country
// field does not restrict the set.
var SupportedCountries = []string{
	"AD", "AE", "AG", "AL", "AM", "AO", "AR", "AT", "AU", "AZ", "BA", "BD",
	"BE", "BG", "BH", "BJ", "BN", "BO", "BR", "BS", "BT", "BW", "CA", "CH",
	"CI", "CL", "CO", "CR", "CY", "CZ", "DE", "DK", "DO", "DZ", "EC", "EE",
	"EG", "ES", "ET", "FI", "FR", "GA", "GB", "GH", "GI", "GM", "GR", "GT",
	"GY", "HK", "HR", "HU", "ID", "IE", "IL", "IN", "IS", "IT", "JM", "JO",
	"JP", "KE", "KH", "KR", "KW", "KZ", "LA", "LC", "LI", "LK", "LT", "LU",
	"LV", "MA", "MC", "MD", "MG", "MK", "MN", "MO", "MT", "MU", "MX", "MY",
	"NA", "NE", "NG", "NL", "NO", "NZ", "OM", "PA", "PE", "PH", "PK", "PL",
	"PT", "PY", "QA", "RO", "RS", "RW", "SA", "SE", "SG", "SI", "SK", "SM",
	"SN", "SV", "TH", "TN", "TR", "TT", "TW", "TZ", "US", "UY", "UZ", "VN",
	"ZA",
}

// CountryItems returns dropdown items for codes, named in locale and sorted
// by display name. An empty codes slice selects SupportedCountries. Codes
// that do not parse as regions are skipped.
func CountryItems(locale string, codes []string) []spec.DropdownItem {
	if len(codes) == 0 {
		codes = SupportedCountries
	}
	tag := language.Make(normaliseLocale(locale))
	if tag == language.Und {
		tag = language.English
	}
	namer := display.Regions(tag)

	items := make([]spec.DropdownItem, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if _, dup := seen[code]; dup {
			continue
		}
		region, err := language.ParseRegion(code)
		if err != nil {
			continue
		}
		seen[code] = struct{}{}
		name := ""
		if namer != nil {
			name = namer.Name(region)
		}
		if name == "" {
			name = code
		}
		items = append(items, spec.DropdownItem{Value: code, Text: name})
	}

	collator := collate.New(tag, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		return collator.CompareString(items[i].Text, items[j].Text) < 0
	})
	return items
}
