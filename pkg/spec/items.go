package spec

import (
	"fmt"
	"strings"
)

// FormItemKind discriminates the FormItemSpec variants.
type FormItemKind string

const (
	FormItemSection          FormItemKind = "section"
	FormItemSaveForFutureUse FormItemKind = "save_for_future_use"
	FormItemMandateText      FormItemKind = "mandate_text"
)

// FormItemSpec is the closed set of top-level form entries.
type FormItemSpec interface {
	Identifier() Identifier
	Kind() FormItemKind
	isFormItemSpec()
}

// SectionSpec groups a single field under an optional title.
type SectionSpec struct {
	ID    Identifier
	Title string
	Field FieldSpec
}

// NewSection builds a section holding field.
func NewSection(id Identifier, field FieldSpec) SectionSpec {
	return SectionSpec{ID: id, Field: field}
}

func (s SectionSpec) Identifier() Identifier { return s.ID }
func (SectionSpec) Kind() FormItemKind { return FormItemSection }
func (SectionSpec) isFormItemSpec() {}

// SaveForFutureUseSpec describes the "save this payment method" toggle. The
// listed identifiers are only collected while the toggle is on.
type SaveForFutureUseSpec struct {
	ID                              Identifier
	LabelKey                        string
	IdentifiersRequiredForFutureUse []Identifier
	InitialValue                    bool
}

// NewSaveForFutureUse copies ids so the spec stays immutable.
func NewSaveForFutureUse(initial bool, ids ...Identifier) SaveForFutureUseSpec {
	return SaveForFutureUseSpec{
		ID:                              IdentifierSaveForFutureUse,
		IdentifiersRequiredForFutureUse: append([]Identifier(nil), ids...),
		InitialValue:                    initial,
	}
}

func (s SaveForFutureUseSpec) Identifier() Identifier { return s.ID }
func (SaveForFutureUseSpec) Kind() FormItemKind { return FormItemSaveForFutureUse }
func (SaveForFutureUseSpec) isFormItemSpec() {}

// Label returns the toggle label resource key.
func (s SaveForFutureUseSpec) Label() string { return labelOr(s.LabelKey, LabelSaveForFutureUse) }

// MandateTextSpec is informational text shown below the form. Every `%s` in
// Text is replaced with the merchant name.
type MandateTextSpec struct {
	ID    Identifier
	Text  string
	Color string
}

func (s MandateTextSpec) Identifier() Identifier { return s.ID }
func (MandateTextSpec) Kind() FormItemKind { return FormItemMandateText }
func (MandateTextSpec) isFormItemSpec() {}

// LayoutSpec is an ordered form description.
type LayoutSpec struct {
	Items []FormItemSpec
}

// NewLayout builds a layout from items, preserving their order.
func NewLayout(items ...FormItemSpec) LayoutSpec {
	return LayoutSpec{Items: append([]FormItemSpec(nil), items...)}
}

// Identifiers lists every item and field identifier in declaration order.
func (l LayoutSpec) Identifiers() []Identifier {
	out := make([]Identifier, 0, len(l.Items)*2)
	for _, item := range l.Items {
		out = append(out, item.Identifier())
		if section, ok := item.(SectionSpec); ok && section.Field != nil {
			out = append(out, section.Field.Identifier())
		}
	}
	return out
}

// Validate reports structural problems: empty identifiers, sections without a
// field, and identifiers used by more than one field. Transform does not call
// it; it exists for linting static form definitions.
func (l LayoutSpec) Validate() error {
	var problems []string
	seen := make(map[Identifier]int)
	for idx, item := range l.Items {
		if item == nil {
			problems = append(problems, fmt.Sprintf("item %d is nil", idx))
			continue
		}
		if strings.TrimSpace(item.Identifier().String()) == "" {
			problems = append(problems, fmt.Sprintf("item %d has an empty identifier", idx))
		}
		section, ok := item.(SectionSpec)
		if !ok {
			continue
		}
		if section.Field == nil {
			problems = append(problems, fmt.Sprintf("section %q has no field", section.ID))
			continue
		}
		id := section.Field.Identifier()
		if strings.TrimSpace(id.String()) == "" {
			problems = append(problems, fmt.Sprintf("section %q field has an empty identifier", section.ID))
			continue
		}
		if prev, dup := seen[id]; dup {
			problems = append(problems, fmt.Sprintf("field %q declared by items %d and %d", id, prev, idx))
			continue
		}
		seen[id] = idx
	}
	if len(problems) == 0 {
		return nil
	}
	return &LayoutError{Problems: problems}
}

// LayoutError aggregates problems found by LayoutSpec.Validate.
type LayoutError struct {
	Problems []string
}

func (e *LayoutError) Error() string {
	return "spec: invalid layout: " + strings.Join(e.Problems, "; ")
}
