package filtering

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pathforge-labs/pathforge/internal/fingerprint"
	"github.com/pathforge-labs/pathforge/internal/jobs"
	"github.com/pathforge-labs/pathforge/internal/textnorm"
)

type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

type redFlagsFilter struct {
	toggle
	flags []string
}

// NewRedFlags creates a filter that removes listings mentioning any configured red flag.
func NewRedFlags() Filter {
	return &redFlagsFilter{}
}

func (f *redFlagsFilter) Name() string { return "red_flags" }

func (f *redFlagsFilter) Validate(cfg *Config) error {
	f.flags = nil
	if cfg == nil {
		return nil
	}
	for _, flag := range cfg.RedFlags {
		if flag = strings.TrimSpace(flag); flag != "" {
			f.flags = append(f.flags, strings.ToLower(flag))
		}
	}
	return nil
}

func (f *redFlagsFilter) Apply(_ context.Context, deps Deps, l *Listings) (*Listings, Step, error) {
	initial := l.Len()
	if len(f.flags) == 0 {
		return l, Step{Initial: initial, Left: initial}, nil
	}

	excluded := l.Exclude(func(r jobs.RawListing) bool {
		return containsRedFlag(r, f.flags)
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding listings with red flags",
			zap.Strings("excluded_listings", excluded),
			zap.Int("listings_left", l.Len()),
		)
	}

	return l, Step{Initial: initial, Dropped: len(excluded), Left: l.Len()}, nil
}

func (f *redFlagsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"flags": strconv.Itoa(len(f.flags))},
	}
}

func containsRedFlag(r jobs.RawListing, flags []string) bool {
	combined := strings.ToLower(r.Title + " " + r.Company + " " + r.Description)
	for _, flag := range flags {
		if strings.Contains(combined, flag) {
			return true
		}
	}
	return false
}

type companiesFilter struct {
	toggle
	companies map[string]struct{}
}

// NewCompanies creates a filter that removes listings from companies excluded in the config.
func NewCompanies() Filter {
	return &companiesFilter{}
}

func (f *companiesFilter) Name() string { return "companies" }

func (f *companiesFilter) Validate(cfg *Config) error {
	f.companies = map[string]struct{}{}
	if cfg == nil {
		return nil
	}
	for _, c := range cfg.Companies {
		if k := textnorm.Normalize(c); k != "" {
			f.companies[k] = struct{}{}
		}
	}
	return nil
}

func (f *companiesFilter) Apply(_ context.Context, deps Deps, l *Listings) (*Listings, Step, error) {
	initial := l.Len()
	if len(f.companies) == 0 {
		return l, Step{Initial: initial, Left: initial}, nil
	}

	excluded := l.Exclude(func(r jobs.RawListing) bool {
		_, ok := f.companies[textnorm.Normalize(r.Company)]
		return ok
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding listings by companies",
			zap.Strings("excluded_listings", excluded),
			zap.Int("listings_left", l.Len()),
		)
	}

	return l, Step{Initial: initial, Dropped: len(excluded), Left: l.Len()}, nil
}

func (f *companiesFilter) Status() Status {
	names := make([]string, 0, len(f.companies))
	for c := range f.companies {
		names = append(names, c)
	}
	details := map[string]string{}
	if len(names) > 0 {
		details["companies"] = strings.Join(names, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type blacklistFilter struct {
	toggle
}

// NewBlacklist creates a filter that removes listings from blacklisted companies.
// Lookup failures keep the listing.
func NewBlacklist() Filter {
	return &blacklistFilter{}
}

func (f *blacklistFilter) Name() string { return "blacklist" }

func (f *blacklistFilter) Validate(*Config) error { return nil }

func (f *blacklistFilter) Apply(ctx context.Context, deps Deps, l *Listings) (*Listings, Step, error) {
	initial := l.Len()
	if deps.Blacklist == nil {
		deps.Logger.Debug("blacklist is not configured; skipping blacklist filter")
		return l, Step{Initial: initial, Left: initial}, nil
	}

	verdicts := map[string]bool{}
	excluded := l.Exclude(func(r jobs.RawListing) bool {
		if v, ok := verdicts[r.Company]; ok {
			return v
		}
		listed, err := deps.Blacklist.Contains(ctx, r.Company)
		if err != nil {
			deps.Logger.Warn("blacklist lookup failed",
				zap.String("company", r.Company),
				zap.Error(err),
			)
			return false
		}
		verdicts[r.Company] = listed
		return listed
	})
	if len(excluded) > 0 {
		deps.Logger.Info("excluding listings from blacklisted companies",
			zap.Strings("excluded_listings", excluded),
			zap.Int("listings_left", l.Len()),
		)
	}

	return l, Step{Initial: initial, Dropped: len(excluded), Left: l.Len()}, nil
}

type duplicatesFilter struct {
	toggle
}

// NewDuplicates creates a filter that keeps only the first listing per fingerprint.
func NewDuplicates() Filter {
	return &duplicatesFilter{}
}

func (f *duplicatesFilter) Name() string { return "duplicates" }

func (f *duplicatesFilter) Validate(*Config) error { return nil }

func (f *duplicatesFilter) Apply(_ context.Context, deps Deps, l *Listings) (*Listings, Step, error) {
	initial := l.Len()
	seen := make(map[string]struct{}, initial)
	excluded := l.Exclude(func(r jobs.RawListing) bool {
		fp := fingerprint.Of(r)
		if _, ok := seen[fp]; ok {
			return true
		}
		seen[fp] = struct{}{}
		return false
	})
	if len(excluded) > 0 {
		deps.Logger.Debug("excluding duplicate listings within batch",
			zap.Strings("excluded_listings", excluded),
		)
	}

	return l, Step{Initial: initial, Dropped: len(excluded), Left: l.Len()}, nil
}
