package spec

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format selects the document encoding understood by Decode.
type Format string

const (
	// FormatAuto tries JSON first and falls back to YAML.
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrEmptyDocument is returned when a form document has no content.
	ErrEmptyDocument = errors.New("spec: document is empty")
	// ErrUnsupportedFormat is returned for unknown Format values or file extensions.
	ErrUnsupportedFormat = errors.New("spec: unsupported document format")
	// ErrUnknownKind is returned when an item or field `type` is not recognised.
	ErrUnknownKind = errors.New("spec: unknown kind")
)

// documentFile is the on-disk shape of a form document:
//
//	items:
//	  - type: section
//	    id: email_section
//	    field: {type: email, id: email}
//	  - type: save_for_future_use
//	    initialValue: true
//	    identifiers: [mandate]
//	  - type: mandate_text
//	    id: mandate
//	    text: text.sepa_mandate
type documentFile struct {
	Items []itemFile `json:"items" yaml:"items"`
}

type itemFile struct {
	Type         string       `json:"type" yaml:"type"`
	ID           string       `json:"id" yaml:"id"`
	Title        string       `json:"title" yaml:"title"`
	Field        *fieldFile   `json:"field" yaml:"field"`
	Label        string       `json:"label" yaml:"label"`
	Identifiers  []Identifier `json:"identifiers" yaml:"identifiers"`
	InitialValue *bool        `json:"initialValue" yaml:"initialValue"`
	Text         string       `json:"text" yaml:"text"`
	Color        string       `json:"color" yaml:"color"`
}

type fieldFile struct {
	Type           string   `json:"type" yaml:"type"`
	ID             string   `json:"id" yaml:"id"`
	Label          string   `json:"label" yaml:"label"`
	Capitalization string   `json:"capitalization" yaml:"capitalization"`
	Keyboard       string   `json:"keyboard" yaml:"keyboard"`
	Optional       bool     `json:"optional" yaml:"optional"`
	Countries      []string `json:"countries" yaml:"countries"`
	BankType       string   `json:"bankType" yaml:"bankType"`
}

// Decode parses a form document. With FormatAuto the payload is tried as
// JSON, then as YAML.
func Decode(data []byte, format Format) (LayoutSpec, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return LayoutSpec{}, ErrEmptyDocument
	}

	var doc documentFile
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return LayoutSpec{}, fmt.Errorf("spec: parse json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return LayoutSpec{}, fmt.Errorf("spec: parse yaml: %w", err)
		}
	case FormatAuto:
		if err := json.Unmarshal(data, &doc); err != nil {
			doc = documentFile{}
			if yerr := yaml.Unmarshal(data, &doc); yerr != nil {
				return LayoutSpec{}, errors.New("spec: parse document: invalid JSON or YAML")
			}
		}
	default:
		return LayoutSpec{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	items := make([]FormItemSpec, 0, len(doc.Items))
	for idx, raw := range doc.Items {
		item, err := raw.toSpec()
		if err != nil {
			return LayoutSpec{}, fmt.Errorf("spec: item %d: %w", idx, err)
		}
		items = append(items, item)
	}
	return LayoutSpec{Items: items}, nil
}

// LoadFS reads and decodes a form document, selecting the format from the
// file extension.
func LoadFS(fsys fs.FS, path string) (LayoutSpec, error) {
	if fsys == nil {
		return LayoutSpec{}, errors.New("spec: filesystem is nil")
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return LayoutSpec{}, err
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return LayoutSpec{}, fmt.Errorf("spec: read %s: %w", path, err)
	}
	layout, err := Decode(data, format)
	if err != nil {
		return LayoutSpec{}, fmt.Errorf("%s: %w", path, err)
	}
	return layout, nil
}

// FormatFromPath maps .json/.yaml/.yml extensions onto a Format.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatAuto, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func (raw itemFile) toSpec() (FormItemSpec, error) {
	id := Identifier(strings.TrimSpace(raw.ID))
	switch FormItemKind(strings.TrimSpace(raw.Type)) {
	case FormItemSection:
		if raw.Field == nil {
			return nil, fmt.Errorf("section %q has no field", id)
		}
		field, err := raw.Field.toSpec()
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", id, err)
		}
		return SectionSpec{ID: id, Title: strings.TrimSpace(raw.Title), Field: field}, nil
	case FormItemSaveForFutureUse:
		if id == "" {
			id = IdentifierSaveForFutureUse
		}
		initial := true
		if raw.InitialValue != nil {
			initial = *raw.InitialValue
		}
		return SaveForFutureUseSpec{
			ID:                              id,
			LabelKey:                        strings.TrimSpace(raw.Label),
			IdentifiersRequiredForFutureUse: append([]Identifier(nil), raw.Identifiers...),
			InitialValue:                    initial,
		}, nil
	case FormItemMandateText:
		if id == "" {
			id = IdentifierMandate
		}
		return MandateTextSpec{ID: id, Text: raw.Text, Color: strings.TrimSpace(raw.Color)}, nil
	default:
		return nil, fmt.Errorf("%w: item type %q", ErrUnknownKind, raw.Type)
	}
}

func (raw fieldFile) toSpec() (FieldSpec, error) {
	id := Identifier(strings.TrimSpace(raw.ID))
	label := strings.TrimSpace(raw.Label)
	switch FieldKind(strings.TrimSpace(raw.Type)) {
	case FieldKindSimpleText:
		capitalization := Capitalization(strings.TrimSpace(raw.Capitalization))
		if capitalization == "" {
			capitalization = CapitalizationNone
		}
		keyboard := KeyboardType(strings.TrimSpace(raw.Keyboard))
		if keyboard == "" {
			keyboard = KeyboardText
		}
		return SimpleTextSpec{
			ID:                id,
			LabelKey:          label,
			Capitalization:    capitalization,
			Keyboard:          keyboard,
			ShowOptionalLabel: raw.Optional,
		}, nil
	case FieldKindEmail:
		return EmailSpec{ID: id, LabelKey: label}, nil
	case FieldKindIban:
		return IbanSpec{ID: id, LabelKey: label}, nil
	case FieldKindCountry:
		country := NewCountrySpec(id, raw.Countries...)
		country.LabelKey = label
		return country, nil
	case FieldKindDropdown:
		bankType := strings.TrimSpace(raw.BankType)
		if bankType == "" {
			return nil, fmt.Errorf("dropdown %q has no bankType", id)
		}
		return DropdownSpec{ID: id, LabelKey: label, BankType: bankType}, nil
	default:
		return nil, fmt.Errorf("%w: field type %q", ErrUnknownKind, raw.Type)
	}
}
