package resources

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingTranslator is reported to MissingTranslationHandler when no
	// translator is configured.
	ErrMissingTranslator = errors.New("resources: translator is nil")
	// ErrMissingKey is returned when no locale in the lookup chain defines a key.
	ErrMissingKey = errors.New("resources: missing key")
)

// Translator resolves a resource key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls fn.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides the text shown when a key cannot be
// resolved.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// DefaultLocale is the fallback locale of the embedded bundle.
const DefaultLocale = "en"

// Bundle is an in-memory Translator keyed by locale then resource key.
type Bundle struct {
	fallback string
	messages map[string]map[string]string
}

// NewBundle builds an empty bundle falling back to fallbackLocale.
func NewBundle(fallbackLocale string) *Bundle {
	return &Bundle{
		fallback: normaliseLocale(fallbackLocale),
		messages: make(map[string]map[string]string),
	}
}

// Default returns a bundle over the embedded English and German strings.
func Default() *Bundle {
	bundle, err := LoadFS(embeddedLocales, "locales", DefaultLocale)
	if err != nil {
		panic(fmt.Sprintf("resources: embedded locales: %v", err))
	}
	return bundle
}

// LoadFS reads every .yaml/.yml/.json file under dir. The file name without
// extension is the locale ("en.yaml", "de-AT.json"); files hold a flat
// key → message map.
func LoadFS(fsys fs.FS, dir, fallbackLocale string) (*Bundle, error) {
	if fsys == nil {
		return nil, errors.New("resources: filesystem is nil")
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("resources: read %s: %w", dir, err)
	}

	bundle := NewBundle(fallbackLocale)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(path.Ext(name))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("resources: read %s: %w", name, err)
		}
		messages := make(map[string]string)
		if ext == ".json" {
			err = json.Unmarshal(data, &messages)
		} else {
			err = yaml.Unmarshal(data, &messages)
		}
		if err != nil {
			return nil, fmt.Errorf("resources: parse %s: %w", name, err)
		}
		bundle.Add(strings.TrimSuffix(name, path.Ext(name)), messages)
	}
	return bundle, nil
}

// Add merges messages into locale, overwriting existing keys.
func (b *Bundle) Add(locale string, messages map[string]string) {
	locale = normaliseLocale(locale)
	if locale == "" || len(messages) == 0 {
		return
	}
	target := b.messages[locale]
	if target == nil {
		target = make(map[string]string, len(messages))
		b.messages[locale] = target
	}
	for key, msg := range messages {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		target[key] = msg
	}
}

// Locales lists the loaded locales in sorted order.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.messages))
	for locale := range b.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate looks key up in locale, its base language, then the fallback
// locale. Args are applied with fmt.Sprintf when present.
func (b *Bundle) Translate(locale, key string, args ...any) (string, error) {
	if b == nil {
		return "", ErrMissingTranslator
	}
	for _, candidate := range b.chain(locale) {
		msg, ok := b.messages[candidate][key]
		if !ok {
			continue
		}
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...), nil
		}
		return msg, nil
	}
	return "", fmt.Errorf("%w: %q (locale %q)", ErrMissingKey, key, locale)
}

func (b *Bundle) chain(locale string) []string {
	locale = normaliseLocale(locale)
	chain := make([]string, 0, 3)
	if locale != "" {
		chain = append(chain, locale)
		if base, _, found := strings.Cut(locale, "-"); found {
			chain = append(chain, base)
		}
	}
	if b.fallback != "" && b.fallback != locale {
		chain = append(chain, b.fallback)
	}
	return chain
}

func normaliseLocale(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
}

// Resolve translates key, falling back to fallback (or the key itself) when
// translation fails. onMissing, when set, takes over the fallback decision.
func Resolve(t Translator, locale, key, fallback string, onMissing MissingTranslationHandler, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, args, ErrMissingTranslator)
		}
		if strings.TrimSpace(fallback) != "" {
			return fallback
		}
		return key
	}

	result, err := t.Translate(locale, key, args...)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, args, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
