// Package provider defines the contract every job source integration
// satisfies. Concrete sources live in subpackages.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pathforge-labs/pathforge/internal/jobs"
)

var ErrMissingCredentials = errors.New("provider credentials are not configured")

// Provider produces normalized listings from one upstream job source.
// Authentication and rate limiting are the implementer's concern. An upstream
// failure is returned as an error, never as an empty or partial result.
type Provider interface {
	Name() string
	Search(ctx context.Context, params SearchParams) ([]jobs.RawListing, error)
}

type SearchParams struct {
	Keywords    string `mapstructure:"keywords"`
	Location    string `mapstructure:"location"`
	CountryCode string `mapstructure:"country"`
	Page        int    `mapstructure:"page"`
	PageSize    int    `mapstructure:"page-size"`
}

// WithDefaults fills the zero Page and PageSize.
func (p SearchParams) WithDefaults(defaultPageSize int) SearchParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	return p
}

// Error wraps an upstream failure with the provider that produced it.
type Error struct {
	Provider string
	Op       string
	Err      error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns nil when err is nil.
func Wrap(name, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Provider: name, Op: op, Err: err}
}

// Registry keeps configured providers by name.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds p, replacing any provider with the same name.
func (r *Registry) Register(p Provider) {
	if p == nil {
		return
	}
	r.providers[strings.ToLower(p.Name())] = p
}

func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Select returns the named providers, or all of them sorted by name when names
// is empty.
func (r *Registry) Select(names []string) ([]Provider, error) {
	if len(names) == 0 {
		all := make([]Provider, 0, len(r.providers))
		for _, p := range r.providers {
			all = append(all, p)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
		return all, nil
	}

	selected := make([]Provider, 0, len(names))
	for _, name := range names {
		p, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown provider %q", name)
		}
		selected = append(selected, p)
	}
	return selected, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
