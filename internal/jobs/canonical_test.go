package jobs

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCanonicalizeTitleAndCompanyOnly(t *testing.T) {
	l := Listing{RawListing: RawListing{Title: "Go Developer", Company: "Acme"}}

	got := Canonicalize(l)
	want := "Title: Go Developer\nCompany: Acme"
	if got != want {
		t.Fatalf("unexpected canonical text:\n%q\nwant\n%q", got, want)
	}

	if lines := strings.Split(got, "\n"); len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

func TestCanonicalizeAllFieldsInOrder(t *testing.T) {
	l := Listing{RawListing: RawListing{
		Title:       "Backend Engineer",
		Company:     "Globex",
		Location:    "Berlin",
		WorkType:    "full_time",
		SalaryInfo:  "60000-80000 EUR",
		Description: "Build services.",
		SourceURL:   "https://example.com/1",
	}}

	want := strings.Join([]string{
		"Title: Backend Engineer",
		"Company: Globex",
		"Location: Berlin",
		"Type: full_time",
		"Salary: 60000-80000 EUR",
		"Description: Build services.",
	}, "\n")

	if got := Canonicalize(l); got != want {
		t.Fatalf("unexpected canonical text:\n%s\nwant\n%s", got, want)
	}
}

func TestCanonicalizeSkipsMissingMiddleFields(t *testing.T) {
	l := Listing{RawListing: RawListing{Title: "T", Company: "C", SalaryInfo: "100", Description: "D"}}

	want := "Title: T\nCompany: C\nSalary: 100\nDescription: D"
	if got := Canonicalize(l); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCanonicalizeTruncatesDescription(t *testing.T) {
	long := strings.Repeat("é", MaxDescriptionRunes+500)
	l := Listing{RawListing: RawListing{Title: "T", Company: "C", Description: long}}

	got := Canonicalize(l)
	lines := strings.Split(got, "\n")
	desc := strings.TrimPrefix(lines[len(lines)-1], "Description: ")

	if n := utf8.RuneCountInString(desc); n != MaxDescriptionRunes {
		t.Fatalf("expected %d description runes, got %d", MaxDescriptionRunes, n)
	}
	if desc != strings.Repeat("é", MaxDescriptionRunes) {
		t.Fatalf("expected the first %d runes to be kept", MaxDescriptionRunes)
	}
}

func TestCanonicalizeKeepsShortDescription(t *testing.T) {
	exact := strings.Repeat("a", MaxDescriptionRunes)
	l := Listing{RawListing: RawListing{Title: "T", Company: "C", Description: exact}}

	if got := Canonicalize(l); !strings.HasSuffix(got, "Description: "+exact) {
		t.Fatalf("description at the limit must not be cut")
	}
}

func TestCanonicalizeDeterministic(t *testing.T) {
	l := Listing{RawListing: RawListing{Title: "T", Company: "C", Location: "L", Description: "D"}}
	if Canonicalize(l) != Canonicalize(l) {
		t.Fatalf("canonical text must be stable")
	}
}

func TestRawListingValidate(t *testing.T) {
	tests := []struct {
		name    string
		listing RawListing
		wantErr bool
	}{
		{name: "complete", listing: RawListing{Title: "T", Company: "C", Description: "D"}},
		{name: "missing title", listing: RawListing{Company: "C", Description: "D"}, wantErr: true},
		{name: "blank company", listing: RawListing{Title: "T", Company: "  ", Description: "D"}, wantErr: true},
		{name: "missing description", listing: RawListing{Title: "T", Company: "C"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.listing.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
