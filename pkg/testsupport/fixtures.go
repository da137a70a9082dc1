package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-payform/pkg/controller"
	"github.com/goliatone/go-payform/pkg/element"
	"github.com/goliatone/go-payform/pkg/spec"
)

// ElementSummary is the golden representation of a transformed element. It
// captures structure and resolved labels, not live controller state.
type ElementSummary struct {
	ID                   string   `json:"id"`
	Kind                 string   `json:"kind"`
	Field                string   `json:"field,omitempty"`
	FieldKind            string   `json:"fieldKind,omitempty"`
	Label                string   `json:"label,omitempty"`
	Options              int      `json:"options,omitempty"`
	RequiredForFutureUse []string `json:"requiredForFutureUse,omitempty"`
	Merchant             string   `json:"merchant,omitempty"`
}

// LoadLayout reads a form document fixture. Testing helpers fail the test on
// error to keep table setup concise.
func LoadLayout(t *testing.T, path string) spec.LayoutSpec {
	t.Helper()

	layout, err := LoadLayoutFromPath(path)
	if err != nil {
		t.Fatalf("load layout: %v", err)
	}
	return layout
}

// LoadLayoutFromPath returns a layout without requiring testing.T.
func LoadLayoutFromPath(path string) (spec.LayoutSpec, error) {
	if path == "" {
		return spec.LayoutSpec{}, errors.New("testsupport: layout path is required")
	}
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	layout, err := spec.LoadFS(os.DirFS(dir), name)
	if err != nil {
		return spec.LayoutSpec{}, fmt.Errorf("testsupport: %w", err)
	}
	return layout, nil
}

// Summarize converts elements into their golden representation.
func Summarize(elements []element.FormElement) []ElementSummary {
	out := make([]ElementSummary, 0, len(elements))
	for _, el := range elements {
		if el == nil {
			continue
		}
		summary := ElementSummary{ID: string(el.Identifier()), Kind: string(el.Kind())}
		switch typed := el.(type) {
		case *element.Section:
			if typed.Field != nil {
				summary.Field = string(typed.Field.Identifier())
				summary.FieldKind = string(typed.Field.Kind())
				summary.Label = labelOf(typed.Field.Controller())
				if dropdown, ok := typed.Field.DropdownController(); ok {
					summary.Options = len(dropdown.DisplayItems())
				}
			}
		case *element.SaveForFutureUse:
			summary.Label = typed.Label
			summary.Merchant = typed.MerchantName
			if typed.Ctrl != nil {
				for _, id := range typed.Ctrl.IdentifiersRequiredForFutureUse() {
					summary.RequiredForFutureUse = append(summary.RequiredForFutureUse, string(id))
				}
				sort.Strings(summary.RequiredForFutureUse)
			}
		case *element.MandateText:
			summary.Merchant = typed.MerchantName
		}
		out = append(out, summary)
	}
	return out
}

// MustLoadGolden decodes a JSON golden file into out.
func MustLoadGolden(t *testing.T, path string, out any) {
	t.Helper()

	data := MustReadGolden(t, path)
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
// Returns true if the golden was written (test should exit early).
func WriteGolden(t *testing.T, path string, value any) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

func labelOf(ctrl controller.Controller) string {
	if labeled, ok := ctrl.(controller.Labeled); ok {
		return labeled.Label()
	}
	return ""
}
