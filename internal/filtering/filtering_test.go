package filtering

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pathforge-labs/pathforge/internal/jobs"
)

type fakeBlacklist struct {
	listed map[string]bool
	err    error
	calls  int
}

func (f *fakeBlacklist) Contains(_ context.Context, company string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.listed[company], nil
}

func raw(title, company, description string) jobs.RawListing {
	return jobs.RawListing{Title: title, Company: company, Description: description, Location: "Remote"}
}

func titles(l *Listings) []string {
	out := make([]string, 0, l.Len())
	for _, item := range l.Items {
		out = append(out, item.Title)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunAppliesStepsInOrder(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	blacklist := &fakeBlacklist{listed: map[string]bool{"Evil Corp": true}}

	in := NewListings([]jobs.RawListing{
		raw("Go Engineer", "Acme", "Build services"),
		raw("Go Engineer", "ACME", "Build services"),
		raw("Rockstar Ninja", "Startup", "Unpaid overtime expected"),
		raw("SRE", "Evil Corp", "Keep lights on"),
		raw("Data Engineer", "Société Générale", "Pipelines"),
		raw("Backend Developer", "Globex", "APIs"),
	})

	cfg := &Config{
		RedFlags:  []string{"UNPAID", " "},
		Companies: []string{"societe generale"},
	}

	out, err := Run(context.Background(), cfg, Deps{Logger: zap.New(core), Blacklist: blacklist}, Default(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Go Engineer", "Backend Developer"}
	if got := titles(out); !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	steps := logs.FilterMessage("filter step").All()
	if len(steps) != 4 {
		t.Fatalf("expected 4 logged steps, got %d", len(steps))
	}
	order := []string{"red_flags", "companies", "blacklist", "duplicates"}
	for i, entry := range steps {
		if name := entry.ContextMap()["name"]; name != order[i] {
			t.Fatalf("step %d: expected %s, got %v", i, order[i], name)
		}
		if dropped := entry.ContextMap()["dropped"]; dropped != int64(1) {
			t.Fatalf("step %s: expected 1 dropped, got %v", order[i], dropped)
		}
	}
}

func TestRunSkipsDisabledSteps(t *testing.T) {
	steps := Default()
	DisableByName(steps, "duplicates", "testing")

	in := NewListings([]jobs.RawListing{raw("A", "B", ""), raw("a", "b", "")})
	out, err := Run(context.Background(), nil, Deps{}, steps, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("expected duplicates to survive when filter is disabled, got %d", out.Len())
	}

	for _, st := range Describe(steps) {
		if st.Name == "duplicates" && st.Enabled {
			t.Fatal("expected duplicates to be reported as disabled")
		}
	}
}

func TestBlacklistFailsOpen(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	blacklist := &fakeBlacklist{err: errors.New("connection refused")}

	in := NewListings([]jobs.RawListing{raw("A", "Acme", ""), raw("B", "Acme", "")})
	out, _, err := NewBlacklist().Apply(context.Background(), Deps{Logger: zap.New(core), Blacklist: blacklist}, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("expected listings to be kept, got %d", out.Len())
	}
	if logs.FilterMessage("blacklist lookup failed").Len() != 2 {
		t.Fatalf("expected lookup failures to be logged")
	}
}

func TestBlacklistCachesVerdictPerCompany(t *testing.T) {
	blacklist := &fakeBlacklist{listed: map[string]bool{"Acme": true}}
	in := NewListings([]jobs.RawListing{raw("A", "Acme", ""), raw("B", "Acme", ""), raw("C", "Globex", "")})

	out, step, err := NewBlacklist().Apply(context.Background(), Deps{Logger: zap.NewNop(), Blacklist: blacklist}, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step.Dropped != 2 || out.Len() != 1 {
		t.Fatalf("unexpected step %+v", step)
	}
	if blacklist.calls != 2 {
		t.Fatalf("expected one lookup per company, got %d", blacklist.calls)
	}
}

func TestBlacklistWithoutClient(t *testing.T) {
	in := NewListings([]jobs.RawListing{raw("A", "Acme", "")})
	out, step, err := NewBlacklist().Apply(context.Background(), Deps{Logger: zap.NewNop()}, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 || step.Dropped != 0 {
		t.Fatalf("unexpected step %+v", step)
	}
}

func TestRedFlagsStatus(t *testing.T) {
	f := NewRedFlags()
	if err := f.Validate(&Config{RedFlags: []string{"unpaid", "", "  crypto "}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := Describe([]Filter{f})[0]
	if st.Details["flags"] != "2" {
		t.Fatalf("expected 2 flags, got %q", st.Details["flags"])
	}
}

func TestExcludeLabels(t *testing.T) {
	withID := raw("A", "B", "")
	withID.ExternalID = "adzuna:42"

	l := NewListings([]jobs.RawListing{withID, raw("C", "D", "")})
	excluded := l.Exclude(func(jobs.RawListing) bool { return true })

	if len(excluded) != 2 || excluded[0] != "adzuna:42" || len(excluded[1]) != 12 {
		t.Fatalf("unexpected labels %v", excluded)
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty batch, got %d", l.Len())
	}
}
