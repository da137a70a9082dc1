// Package bank resolves the bank lists backing dropdown fields. Lists are
// keyed by bank type ("ideal", "eps", "p24"); Repository reads them from a
// filesystem on demand and keeps parsed lists in an LRU cache.
package bank

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-payform/pkg/spec"
)

// Bank types shipped with the embedded data set.
const (
	TypeIdeal = "ideal"
	TypeEPS   = "eps"
	TypeP24   = "p24"
)

// ErrNotFound is returned by Repository.Load when no list exists for a type.
var ErrNotFound = errors.New("bank: list not found")

// Lookup resolves a bank type into its display list.
type Lookup interface {
	Get(bankType string) ([]spec.DropdownItem, bool)
}

// Map is an in-memory Lookup.
type Map map[string][]spec.DropdownItem

// Get returns a copy of the list registered for bankType.
func (m Map) Get(bankType string) ([]spec.DropdownItem, bool) {
	items, ok := m[bankType]
	if !ok {
		return nil, false
	}
	return append([]spec.DropdownItem(nil), items...), true
}

//go:embed data/*.json
var embeddedData embed.FS

const defaultCacheSize = 32

// Repository loads bank lists named <dir>/<bankType>.{json,yaml,yml}.
type Repository struct {
	fsys  fs.FS
	dir   string
	cache *lru.Cache[string, []spec.DropdownItem]
}

// Option configures a Repository.
type Option func(*repositoryConfig)

type repositoryConfig struct {
	cacheSize int
}

// WithCacheSize bounds the number of cached lists.
func WithCacheSize(size int) Option {
	return func(cfg *repositoryConfig) {
		if size > 0 {
			cfg.cacheSize = size
		}
	}
}

// NewRepository builds a repository reading from dir within fsys.
func NewRepository(fsys fs.FS, dir string, options ...Option) (*Repository, error) {
	if fsys == nil {
		return nil, errors.New("bank: filesystem is nil")
	}
	cfg := repositoryConfig{cacheSize: defaultCacheSize}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	cache, err := lru.New[string, []spec.DropdownItem](cfg.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("bank: cache: %w", err)
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	return &Repository{fsys: fsys, dir: dir, cache: cache}, nil
}

// Default returns a repository over the embedded iDEAL, EPS and P24 lists.
func Default() *Repository {
	repo, err := NewRepository(embeddedData, "data")
	if err != nil {
		panic(fmt.Sprintf("bank: embedded data: %v", err))
	}
	return repo
}

// Get implements Lookup. Read or parse failures resolve to not found; use
// Load to inspect them.
func (r *Repository) Get(bankType string) ([]spec.DropdownItem, bool) {
	items, err := r.Load(bankType)
	if err != nil {
		return nil, false
	}
	return items, true
}

// Load returns the list for bankType, reading it on first use.
func (r *Repository) Load(bankType string) ([]spec.DropdownItem, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: repository is nil", ErrNotFound)
	}
	key := strings.TrimSpace(bankType)
	if key == "" || strings.ContainsAny(key, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, bankType)
	}
	if items, ok := r.cache.Get(key); ok {
		return append([]spec.DropdownItem(nil), items...), nil
	}

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		name := path.Join(r.dir, key+ext)
		data, err := fs.ReadFile(r.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("bank: read %s: %w", name, err)
		}
		items, err := parseList(data, ext)
		if err != nil {
			return nil, fmt.Errorf("bank: parse %s: %w", name, err)
		}
		r.cache.Add(key, items)
		return append([]spec.DropdownItem(nil), items...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, bankType)
}

// Init loads every list in the directory, surfacing the first parse error.
func (r *Repository) Init() error {
	types, err := r.Types()
	if err != nil {
		return err
	}
	for _, bankType := range types {
		if _, err := r.Load(bankType); err != nil {
			return err
		}
	}
	return nil
}

// Types lists the bank types available in the directory.
func (r *Repository) Types() ([]string, error) {
	entries, err := fs.ReadDir(r.fsys, r.dir)
	if err != nil {
		return nil, fmt.Errorf("bank: read %s: %w", r.dir, err)
	}
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func parseList(data []byte, ext string) ([]spec.DropdownItem, error) {
	var items []spec.DropdownItem
	var err error
	if ext == ".json" {
		err = json.Unmarshal(data, &items)
	} else {
		err = yaml.Unmarshal(data, &items)
	}
	if err != nil {
		return nil, err
	}
	for idx, item := range items {
		if strings.TrimSpace(item.Value) == "" {
			return nil, fmt.Errorf("entry %d has an empty value", idx)
		}
		if strings.TrimSpace(item.Text) == "" {
			items[idx].Text = item.Value
		}
	}
	return items, nil
}
