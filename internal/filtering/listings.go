package filtering

import (
	"github.com/pathforge-labs/pathforge/internal/fingerprint"
	"github.com/pathforge-labs/pathforge/internal/jobs"
)

// Listings is the batch a filter chain works on.
type Listings struct {
	Items []jobs.RawListing
}

func NewListings(items []jobs.RawListing) *Listings {
	return &Listings{Items: items}
}

func (l *Listings) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// Exclude drops every listing matching drop, keeping order, and returns
// short labels of what was removed.
func (l *Listings) Exclude(drop func(jobs.RawListing) bool) []string {
	var excluded []string
	kept := l.Items[:0]
	for _, item := range l.Items {
		if drop(item) {
			excluded = append(excluded, label(item))
			continue
		}
		kept = append(kept, item)
	}
	l.Items = kept
	return excluded
}

func label(r jobs.RawListing) string {
	if r.ExternalID != "" {
		return r.ExternalID
	}
	return fingerprint.Of(r)[:12]
}
