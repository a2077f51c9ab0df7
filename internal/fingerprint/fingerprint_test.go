package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/pathforge-labs/pathforge/internal/jobs"
	"github.com/pathforge-labs/pathforge/internal/textnorm"
)

func TestComputeShapeAndStability(t *testing.T) {
	first := Compute("Senior Engineer", "Acme Corp", "Berlin")
	if !Valid(first) {
		t.Fatalf("expected 64 lowercase hex characters, got %q", first)
	}

	for i := 0; i < 10; i++ {
		if got := Compute("Senior Engineer", "Acme Corp", "Berlin"); got != first {
			t.Fatalf("fingerprint changed between calls: %q != %q", got, first)
		}
	}
}

func TestComputeKnownDigest(t *testing.T) {
	sum := sha256.Sum256([]byte("senior engineer|acme corp|berlin"))
	want := hex.EncodeToString(sum[:])

	if got := Compute("Senior Engineer", "Acme Corp", "Berlin"); got != want {
		t.Fatalf("Compute = %q, want %q", got, want)
	}

	emptyLocation := sha256.Sum256([]byte("senior engineer|acme corp|"))
	if got := Compute("Senior Engineer", "Acme Corp", ""); got != hex.EncodeToString(emptyLocation[:]) {
		t.Fatalf("expected a trailing empty segment for missing location, got %q", got)
	}
}

func TestComputeNearDuplicatesCollide(t *testing.T) {
	a := Compute("Senior Engineer", "Acme Corp", "Berlin")
	b := Compute("senior   engineer!!", "ACME CORP", "berlin")
	if a != b {
		t.Fatalf("expected near duplicates to collide: %q != %q", a, b)
	}

	c := Compute("Développeur", "Société Générale", "")
	d := Compute("developpeur", "societe generale", "")
	if c != d {
		t.Fatalf("expected diacritics to be ignored: %q != %q", c, d)
	}
}

func TestComputeFieldBoundaries(t *testing.T) {
	cases := []struct {
		name string
		a    [3]string
		b    [3]string
	}{
		{name: "title company shift", a: [3]string{"A", "BC", ""}, b: [3]string{"AB", "C", ""}},
		{name: "company location shift", a: [3]string{"x", "ab", "c"}, b: [3]string{"x", "a", "bc"}},
		{name: "empty segment moves", a: [3]string{"", "a", "b"}, b: [3]string{"a", "", "b"}},
		{name: "swapped fields", a: [3]string{"Acme", "Engineer", ""}, b: [3]string{"Engineer", "Acme", ""}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if Compute(tt.a[0], tt.a[1], tt.a[2]) == Compute(tt.b[0], tt.b[1], tt.b[2]) {
				t.Fatalf("unexpected collision between %q and %q", tt.a, tt.b)
			}
		})
	}
}

func TestSeparatorNeverSurvivesNormalization(t *testing.T) {
	inputs := []string{"|", "a|b", "||", " | ", "title|company|location", "｜fullwidth｜"}
	for _, in := range inputs {
		if out := textnorm.Normalize(in); strings.Contains(out, Separator) {
			t.Fatalf("Normalize(%q) = %q contains the separator", in, out)
		}
	}

	// An injected separator must not let one field impersonate two.
	if Compute("a|b", "c", "") == Compute("a", "b|c", "") {
		t.Fatalf("separator inside a field produced a boundary collision")
	}
}

func TestComputeTotalOnEmptyInput(t *testing.T) {
	got := Compute("", "", "")
	if !Valid(got) {
		t.Fatalf("expected a valid fingerprint for empty input, got %q", got)
	}
	if got == Compute("", "", "x") {
		t.Fatalf("expected location to contribute to the digest")
	}
}

func TestOf(t *testing.T) {
	l := jobs.RawListing{Title: "Go Developer", Company: "Globex", Location: "Remote", Description: "..."}
	if Of(l) != Compute("Go Developer", "Globex", "Remote") {
		t.Fatalf("Of must match Compute on the same fields")
	}
}
