package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-payform"
	"github.com/goliatone/go-payform/internal/config"
	"github.com/goliatone/go-payform/pkg/bank"
	"github.com/goliatone/go-payform/pkg/bridge"
	"github.com/goliatone/go-payform/pkg/element"
	"github.com/goliatone/go-payform/pkg/renderers/tui"
	"github.com/goliatone/go-payform/pkg/resources"
	"github.com/goliatone/go-payform/pkg/spec"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetOutput(os.Stderr)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := run(ctx, cfg, logger, nil)
	if err != nil {
		logger.Fatalf("Failed to collect payment details: %v", err)
	}

	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, out, 0o600); err != nil {
			logger.Fatalf("Failed to write output: %v", err)
		}
		logger.WithField("path", cfg.Output).Info("payment details written")
		return
	}
	fmt.Println(string(out))
}

// run resolves the configured form and renders it with driver, or the
// terminal driver when driver is nil.
func run(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger, driver tui.PromptDriver) ([]byte, error) {
	bundle, err := loadBundle(cfg)
	if err != nil {
		return nil, err
	}
	elements, err := loadElements(ctx, cfg, bundle, logger)
	if err != nil {
		return nil, err
	}
	logger.WithField("elements", len(elements)).Debug("form ready")

	renderOpts := []tui.Option{
		tui.WithOutputFormat(tui.OutputFormat(cfg.Format)),
		tui.WithTranslator(bundle, cfg.Locale),
		tui.WithTheme(tui.Theme{InfoPrefix: "  ", ErrorPrefix: "  ! "}),
	}
	if driver != nil {
		renderOpts = append(renderOpts, tui.WithPromptDriver(driver))
	}
	renderer, err := tui.New(renderOpts...)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, elements, tui.RenderOptions{})
}

func loadElements(ctx context.Context, cfg *config.Config, bundle *resources.Bundle, logger logrus.FieldLogger) ([]element.FormElement, error) {
	if cfg.BridgeFile != "" {
		return loadBridge(ctx, cfg, logger)
	}

	layout, err := loadLayout(cfg)
	if err != nil {
		return nil, err
	}
	banks, err := loadBanks(cfg)
	if err != nil {
		return nil, err
	}
	return payform.NewElements(layout, cfg.Merchant,
		payform.WithBanks(banks),
		payform.WithTranslator(bundle, cfg.Locale),
	)
}

func loadLayout(cfg *config.Config) (spec.LayoutSpec, error) {
	if cfg.FormFile == "" {
		layout, ok := spec.Builtin(cfg.Form)
		if !ok {
			return spec.LayoutSpec{}, fmt.Errorf("unknown form %q", cfg.Form)
		}
		return layout, nil
	}
	dir, name := filepath.Split(cfg.FormFile)
	if dir == "" {
		dir = "."
	}
	return spec.LoadFS(os.DirFS(dir), name)
}

// loadBridge mounts a description list, or decodes a single description
// when the file holds an object.
func loadBridge(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) ([]element.FormElement, error) {
	data, err := os.ReadFile(cfg.BridgeFile)
	if err != nil {
		return nil, fmt.Errorf("read bridge file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	engine := payform.NewBridge(cfg.ScriptTimeout, logger, bridge.WithFailurePolicy(bridge.PolicyReport))
	engine.OnScript(func(script string) {
		logger.WithField("script", script).Debug("host script")
	})

	payload := strings.TrimSpace(string(data))
	if strings.HasPrefix(payload, "[") {
		err = engine.Mount(payload)
	} else {
		err = engine.Decode(payload)
	}
	if err != nil {
		return nil, err
	}
	elements := engine.Elements()
	if len(elements) == 0 {
		return nil, fmt.Errorf("bridge file %s describes no fields", cfg.BridgeFile)
	}
	return elements, nil
}

func loadBanks(cfg *config.Config) (bank.Lookup, error) {
	if cfg.BanksDir == "" {
		return bank.Default(), nil
	}
	repo, err := bank.NewRepository(os.DirFS(cfg.BanksDir), ".")
	if err != nil {
		return nil, err
	}
	if err := repo.Init(); err != nil {
		return nil, err
	}
	return repo, nil
}

func loadBundle(cfg *config.Config) (*resources.Bundle, error) {
	if cfg.LocalesDir == "" {
		return resources.Default(), nil
	}
	return resources.LoadFS(os.DirFS(cfg.LocalesDir), ".", resources.DefaultLocale)
}
