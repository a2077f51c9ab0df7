// Package jobs holds the job listing data model shared by providers, the
// ingestion loop and the embedding pipeline.
package jobs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EmbeddingDimensions is the length of every stored embedding vector.
const EmbeddingDimensions = 3072

var ErrMissingField = errors.New("missing required field")

// RawListing is a listing as returned by a provider, already mapped into the
// common shape. It has no identity of its own.
type RawListing struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`

	Location       string `json:"location,omitempty"`
	WorkType       string `json:"work_type,omitempty"`
	SalaryInfo     string `json:"salary_info,omitempty"`
	SourceURL      string `json:"source_url,omitempty"`
	SourcePlatform string `json:"source_platform,omitempty"`
	ExternalID     string `json:"external_id,omitempty"`

	// Extra carries provider specific data without a dedicated column.
	Extra map[string]any `json:"extra,omitempty"`
}

// Validate reports the first missing required field.
func (l RawListing) Validate() error {
	switch {
	case strings.TrimSpace(l.Title) == "":
		return fmt.Errorf("%w: title", ErrMissingField)
	case strings.TrimSpace(l.Company) == "":
		return fmt.Errorf("%w: company", ErrMissingField)
	case strings.TrimSpace(l.Description) == "":
		return fmt.Errorf("%w: description", ErrMissingField)
	}
	return nil
}

// Listing is a stored job listing.
type Listing struct {
	ID          string
	Fingerprint string
	RawListing

	// Embedding is nil until the embedding pipeline fills it.
	Embedding  []float32
	CreatedAt  time.Time
	EmbeddedAt *time.Time
}

// Embedded reports whether the listing already has a vector.
func (l *Listing) Embedded() bool {
	return l.Embedding != nil
}
