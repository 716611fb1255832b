package cli

import (
	"bytes"
	"context"
	"image/color"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/cyzmcl/Lunarian/pkg/buildinfo"
	"github.com/cyzmcl/Lunarian/pkg/config"
)

// runCLI executes the root command with a config file at cfgPath (which
// need not exist) and returns everything written to out.
func runCLI(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{
		config.EnvHeroURL, config.EnvHeroTimeout, config.EnvRedisURL,
		config.EnvMongoURI, config.EnvFontDir, config.EnvPort,
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if cfgPath == "" {
		cfgPath = filepath.Join(t.TempDir(), "missing.toml")
	}

	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	root.SetOut(&buf)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

// writeImage saves a solid w×h PNG and returns its path.
func writeImage(t *testing.T, name string, w, h int) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := imaging.Save(imaging.New(w, h, color.NRGBA{R: 40, G: 120, B: 200, A: 255}), p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"generate", "serve", "hero", "fonts", "cache", "history", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommandFlags(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"verbose", "config"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
}

func TestVersion(t *testing.T) {
	got, err := runCLI(t, "", "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, buildinfo.Version) || !strings.Contains(got, "commit:") {
		t.Errorf("version output = %q", got)
	}
}

func TestCompletion(t *testing.T) {
	got, err := runCLI(t, "", "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "lunarian") {
		t.Error("bash completion should mention the command name")
	}

	if _, err := runCLI(t, "", "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}
