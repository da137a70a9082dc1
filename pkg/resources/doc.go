// Package resources resolves the label, error and mandate resource keys used
// by form specs and controllers. Bundle is a flat locale → key → message
// table loaded from YAML or JSON files; Default embeds English and German
// strings. CountryItems builds localized country dropdown entries.
package resources
