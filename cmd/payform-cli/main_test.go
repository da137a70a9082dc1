package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-payform/internal/config"
	"github.com/goliatone/go-payform/pkg/renderers/tui"
)

type scriptedDriver struct {
	inputs  []string
	selects []int
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Password(ctx context.Context, cfg tui.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return false, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	v := d.selects[0]
	d.selects = d.selects[1:]
	return v, nil
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func baseConfig() *config.Config {
	return &config.Config{
		Form:          "us_bank_account",
		Merchant:      "Acme",
		Locale:        "en",
		Format:        "pretty",
		ScriptTimeout: time.Second,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRun_BuiltinForm(t *testing.T) {
	driver := &scriptedDriver{inputs: []string{"Jane", "jane@example.com"}}
	out, err := run(context.Background(), baseConfig(), quietLogger(), driver)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff("email=jane@example.com\nname=Jane\n", string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_FormFileAndBanksDir(t *testing.T) {
	dir := t.TempDir()
	formFile := filepath.Join(dir, "form.yaml")
	writeFile(t, formFile, `items:
  - type: section
    id: bank_section
    field:
      type: dropdown
      id: bank
      bankType: local
`)
	banksDir := filepath.Join(dir, "banks")
	if err := os.Mkdir(banksDir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(banksDir, "local.json"),
		`[{"value":"first","text":"First Bank"},{"value":"second","text":"Second Bank"}]`)

	cfg := baseConfig()
	cfg.FormFile = formFile
	cfg.BanksDir = banksDir
	out, err := run(context.Background(), cfg, quietLogger(), &scriptedDriver{selects: []int{1}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff("bank=second\n", string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_BridgeFile(t *testing.T) {
	dir := t.TempDir()
	bridgeFile := filepath.Join(dir, "host.json")
	writeFile(t, bridgeFile, `[{"id":"nickname","kind":"text","type":"ui-text"},{"id":"row","kind":"view","type":"ui-view"}]`)

	cfg := baseConfig()
	cfg.BridgeFile = bridgeFile
	out, err := run(context.Background(), cfg, quietLogger(), &scriptedDriver{inputs: []string{"Jay"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff("nickname=Jay\n", string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	empty := filepath.Join(dir, "empty.json")
	writeFile(t, empty, `[]`)
	cfg.BridgeFile = empty
	if _, err := run(context.Background(), cfg, quietLogger(), &scriptedDriver{}); err == nil {
		t.Fatalf("expected error for an empty description list")
	}

	missingKind := filepath.Join(dir, "nokind.json")
	writeFile(t, missingKind, `[{"id":"nickname","type":"ui-text"}]`)
	cfg.BridgeFile = missingKind
	if _, err := run(context.Background(), cfg, quietLogger(), &scriptedDriver{}); err == nil {
		t.Fatalf("expected error for a node without kind")
	}
}
