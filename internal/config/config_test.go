package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load([]string{"-env-file", ""}, envMap(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := &Config{
		Form:          "sepa_debit",
		Merchant:      "Merchant",
		Locale:        "en",
		Format:        "json",
		ScriptTimeout: 2 * time.Second,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "payform.env")
	content := "PAYFORM_MERCHANT=Dotenv Shop\nPAYFORM_LOCALE=fr\nPAYFORM_FORMAT=pretty\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	env := envMap(map[string]string{
		"PAYFORM_LOCALE":         "de",
		"PAYFORM_VERBOSE":        "true",
		"PAYFORM_SCRIPT_TIMEOUT": "500ms",
		"PAYFORM_FORMAT":         "form",
	})
	cfg, err := load([]string{"-env-file", envFile, "-format", "json", "-form", "ideal"}, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Merchant != "Dotenv Shop" {
		t.Fatalf("dotenv value not applied: %q", cfg.Merchant)
	}
	if cfg.Locale != "de" {
		t.Fatalf("environment should beat dotenv: %q", cfg.Locale)
	}
	if cfg.Format != "json" {
		t.Fatalf("explicit flag should beat environment: %q", cfg.Format)
	}
	if !cfg.Verbose || cfg.ScriptTimeout != 500*time.Millisecond || cfg.Form != "ideal" {
		t.Fatalf("unexpected config %#v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "unknown form", args: []string{"-form", "cash"}},
		{name: "unknown format", args: []string{"-format", "xml"}},
		{name: "bad env duration", env: map[string]string{"PAYFORM_SCRIPT_TIMEOUT": "soon"}},
		{name: "zero timeout", args: []string{"-script-timeout", "0s"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"-env-file", ""}, tc.args...)
			if _, err := load(args, envMap(tc.env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	cfg, err := load([]string{"-env-file", "", "-form", "cash", "-form-file", "form.yaml"}, envMap(nil))
	if err != nil || cfg.FormFile != "form.yaml" {
		t.Fatalf("form file should bypass builtin lookup: %v", err)
	}
}
