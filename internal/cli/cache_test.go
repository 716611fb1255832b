package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCachePath(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	got, err := runCLI(t, cfg, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(got) != filepath.ToSlash(dir) && strings.TrimSpace(got) != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"ab/one.json", "ab/two.json", "cd/three.json"} {
		p := filepath.Join(dir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := writeConfig(t, "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	got, err := runCLI(t, cfg, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Cleared 3 cached entries") {
		t.Errorf("output = %q", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
}

func TestCacheClearNonFileBackend(t *testing.T) {
	cfg := writeConfig(t, "[cache]\nbackend = \"memory\"\n")

	got, err := runCLI(t, cfg, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "only the file backend") {
		t.Errorf("output = %q", got)
	}
}

func TestCountEntries(t *testing.T) {
	if n := countEntries(filepath.Join(t.TempDir(), "missing")); n != 0 {
		t.Errorf("missing dir: got %d", n)
	}
}
