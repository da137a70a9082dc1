package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/goliatone/go-payform/pkg/spec"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PAYFORM_"

// Output formats accepted by -format.
var outputFormats = []string{"json", "form", "pretty"}

// Config drives the payform CLI.
type Config struct {
	Form          string
	FormFile      string
	BridgeFile    string
	Merchant      string
	Locale        string
	BanksDir      string
	LocalesDir    string
	Output        string
	Format        string
	Verbose       bool
	ScriptTimeout time.Duration
	EnvFile       string
}

// Load parses args (without the program name). Values resolve in order:
// explicit flags, PAYFORM_* environment variables, the .env file, defaults.
func Load(args []string) (*Config, error) {
	return load(args, os.LookupEnv)
}

func load(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	fset := flag.NewFlagSet("payform", flag.ContinueOnError)
	fset.StringVar(&cfg.Form, "form", spec.FormSepaDebit, "built-in form name ("+strings.Join(spec.BuiltinNames(), ", ")+")")
	fset.StringVar(&cfg.FormFile, "form-file", "", "form document (json or yaml); overrides -form")
	fset.StringVar(&cfg.BridgeFile, "bridge-file", "", "external description (json) mounted through the bridge; overrides -form")
	fset.StringVar(&cfg.Merchant, "merchant", "Merchant", "merchant name shown in mandate text")
	fset.StringVar(&cfg.Locale, "locale", "en", "display locale")
	fset.StringVar(&cfg.BanksDir, "banks-dir", "", "directory of bank lists (defaults to embedded lists)")
	fset.StringVar(&cfg.LocalesDir, "locales-dir", "", "directory of locale bundles (defaults to embedded bundles)")
	fset.StringVar(&cfg.Output, "output", "", "output file (stdout if empty)")
	fset.StringVar(&cfg.Format, "format", "json", "output format ("+strings.Join(outputFormats, ", ")+")")
	fset.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")
	fset.DurationVar(&cfg.ScriptTimeout, "script-timeout", 2*time.Second, "bridge script timeout")
	fset.StringVar(&cfg.EnvFile, "env-file", ".env", "dotenv file with PAYFORM_* defaults")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	explicit := make(map[string]struct{})
	fset.Visit(func(f *flag.Flag) { explicit[f.Name] = struct{}{} })

	dotenv, err := readDotenv(cfg.EnvFile)
	if err != nil {
		return nil, err
	}
	lookup := func(key string) string {
		if value, ok := lookupEnv(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		return strings.TrimSpace(dotenv[key])
	}

	var problems []string
	fset.VisitAll(func(f *flag.Flag) {
		if f.Name == "env-file" {
			return
		}
		if _, ok := explicit[f.Name]; ok {
			return
		}
		value := lookup(envName(f.Name))
		if value == "" {
			return
		}
		if err := f.Value.Set(value); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", envName(f.Name), err))
		}
	})
	if len(problems) > 0 {
		return nil, fmt.Errorf("config: invalid environment: %s", strings.Join(problems, "; "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config: nil config")
	}
	if !contains(outputFormats, c.Format) {
		return fmt.Errorf("config: unsupported format %q", c.Format)
	}
	if c.FormFile == "" && c.BridgeFile == "" {
		if _, ok := spec.Builtin(c.Form); !ok {
			return fmt.Errorf("config: unknown form %q", c.Form)
		}
	}
	if c.ScriptTimeout <= 0 {
		return fmt.Errorf("config: script timeout must be positive, got %s", c.ScriptTimeout)
	}
	return nil
}

func envName(flagName string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func readDotenv(path string) (map[string]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return values, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
