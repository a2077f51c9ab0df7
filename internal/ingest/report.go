package ingest

import "sort"

// Counters tracks one provider's listings through a run.
type Counters struct {
	Fetched int
	Invalid int
	// Filtered counts listings dropped by the filter chain.
	Filtered int
	// Accepted counts listings that passed every filter and were not seen
	// earlier in the run.
	Accepted  int
	Duplicate int
	Inserted  int
	// Failed counts storage errors.
	Failed       int
	SearchErrors int
}

func (c *Counters) add(o *Counters) {
	c.Fetched += o.Fetched
	c.Invalid += o.Invalid
	c.Filtered += o.Filtered
	c.Accepted += o.Accepted
	c.Duplicate += o.Duplicate
	c.Inserted += o.Inserted
	c.Failed += o.Failed
	c.SearchErrors += o.SearchErrors
}

type Report struct {
	providers map[string]*Counters
}

func NewReport() *Report {
	return &Report{providers: map[string]*Counters{}}
}

// For returns the counters for provider, creating them on first use.
func (r *Report) For(provider string) *Counters {
	c, ok := r.providers[provider]
	if !ok {
		c = &Counters{}
		r.providers[provider] = c
	}
	return c
}

// Providers returns provider names in sorted order.
func (r *Report) Providers() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Report) Total() Counters {
	var total Counters
	for _, c := range r.providers {
		total.add(c)
	}
	return total
}
