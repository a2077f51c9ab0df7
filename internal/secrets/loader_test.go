package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "token")
	if err := os.WriteFile(file, []byte("  from-file \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATHFORGE_TEST_SECRET", "from-env")

	tests := []struct {
		name   string
		src    Source
		expect string
	}{
		{name: "file wins", src: Source{File: file, Value: "inline", Env: "PATHFORGE_TEST_SECRET"}, expect: "from-file"},
		{name: "inline before env", src: Source{Value: " inline ", Env: "PATHFORGE_TEST_SECRET"}, expect: "inline"},
		{name: "env fallback", src: Source{Env: "PATHFORGE_TEST_SECRET"}, expect: "from-env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, []byte("\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(Source{Name: "api key", File: empty}); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}

	if _, err := Load(Source{Name: "api key", File: filepath.Join(dir, "missing")}); err == nil {
		t.Fatalf("expected missing file error")
	}

	t.Setenv("PATHFORGE_TEST_UNSET", "")
	if _, err := Load(Source{Name: "api key", Env: "PATHFORGE_TEST_UNSET"}); err == nil || !strings.Contains(err.Error(), "PATHFORGE_TEST_UNSET") {
		t.Fatalf("expected hint about env variable, got %v", err)
	}

	if _, err := Load(Source{}); err == nil || !strings.Contains(err.Error(), "secret is not configured") {
		t.Fatalf("expected default name in error, got %v", err)
	}
}

func TestOptional(t *testing.T) {
	t.Setenv("PATHFORGE_TEST_UNSET", "")

	got, err := Optional(Source{Name: "token", Env: "PATHFORGE_TEST_UNSET"})
	if err != nil || got != "" {
		t.Fatalf("expected empty optional secret, got %q, %v", got, err)
	}

	if _, err := Optional(Source{Name: "token", File: "/does/not/exist"}); err == nil {
		t.Fatalf("expected error for unreadable configured file")
	}
}
