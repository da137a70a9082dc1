package bank

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-payform/pkg/spec"
)

func TestDefault_EmbeddedLists(t *testing.T) {
	repo := Default()
	types, err := repo.Types()
	if err != nil {
		t.Fatalf("types: %v", err)
	}
	if diff := cmp.Diff([]string{TypeEPS, TypeIdeal, TypeP24}, types); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	if err := repo.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	items, ok := repo.Get(TypeIdeal)
	if !ok || len(items) == 0 {
		t.Fatalf("ideal banks missing")
	}
	if items[0] != (spec.DropdownItem{Value: "abn_amro", Text: "ABN Amro"}) {
		t.Fatalf("unexpected first bank: %#v", items[0])
	}
}

func TestRepository_LoadFormats(t *testing.T) {
	fsys := fstest.MapFS{
		"banks/us.yaml":     {Data: []byte("- value: chase\n  text: Chase\n- value: citi\n")},
		"banks/broken.json": {Data: []byte(`[{"text": "no value"}]`)},
		"banks/bad.json":    {Data: []byte(`{not json`)},
	}
	repo, err := NewRepository(fsys, "banks", WithCacheSize(4))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}

	got, err := repo.Load("us")
	if err != nil {
		t.Fatalf("load us: %v", err)
	}
	want := []spec.DropdownItem{{Value: "chase", Text: "Chase"}, {Value: "citi", Text: "citi"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("us banks mismatch (-want +got):\n%s", diff)
	}

	got[0].Text = "mutated"
	again, _ := repo.Get("us")
	if again[0].Text != "Chase" {
		t.Fatalf("cached list was mutated through a returned slice")
	}

	if _, err := repo.Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Load("../us"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("path traversal should not resolve, got %v", err)
	}
	if _, ok := repo.Get("broken"); ok {
		t.Fatalf("entry without value should not resolve")
	}
	if err := repo.Init(); err == nil {
		t.Fatalf("init should surface parse errors")
	}
}

func TestMap_GetCopies(t *testing.T) {
	lookup := Map{"us": {{Value: "chase", Text: "Chase"}}}
	items, ok := lookup.Get("us")
	if !ok {
		t.Fatalf("expected us list")
	}
	items[0].Value = "mutated"
	if lookup["us"][0].Value != "chase" {
		t.Fatalf("map entry mutated through Get")
	}
	if _, ok := (Map{}).Get("us"); ok {
		t.Fatalf("empty map resolved a list")
	}
}
