package transform

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-payform/pkg/resources"
)

var strictPolicy = bluemonday.StrictPolicy()

// Option configures a transform call or a Transformer built with New.
type Option func(*config)

type config struct {
	translator resources.Translator
	locale     string
	sanitizer  *bluemonday.Policy
}

func newConfig(options ...Option) config {
	cfg := config{locale: resources.DefaultLocale}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.sanitizer == nil {
		cfg.sanitizer = bluemonday.UGCPolicy()
	}
	return cfg
}

// WithTranslator resolves label and mandate resource keys through t. Without
// a translator, labels stay as resource keys and mandate text is used as
// given.
func WithTranslator(t resources.Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
	}
}

// WithLocale selects the locale used for translations and country names.
func WithLocale(locale string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			cfg.locale = trimmed
		}
	}
}

// WithSanitizer overrides the HTML policy applied to mandate text.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.sanitizer = policy
		}
	}
}

func (cfg config) label(key string) string {
	if cfg.translator == nil {
		return key
	}
	return resources.Resolve(cfg.translator, cfg.locale, key, key, nil)
}
