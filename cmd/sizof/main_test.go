package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/sizof/internal/config"
	"github.com/hyperjump/sizof/internal/models"
)

// execute runs the root command in dir with an isolated HOME and returns stdout.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	chdir(t, dir)

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	if filepath.IsAbs(dir) {
		t.Setenv("PWD", dir)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			panic("testing.Chdir: " + err.Error())
		}
	})
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRootCmd_noArgsPrintsHelp(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "--config", filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	for _, want := range []string{"Usage:", "sizof <path|glob>", "sizof '*.js' '!*.min.js'", "--json"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestRootCmd_json(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.txt":     "hello",
		"b.txt":     "abc",
		"sub/c.txt": "x",
	})
	out, err := execute(t, dir, "--json", "*.txt", "sub")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	var entries []models.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	for _, e := range entries[:2] {
		info, err := os.Lstat(e.Path)
		if err != nil {
			t.Fatal(err)
		}
		if e.Bytes != info.Size() {
			t.Errorf("%s: bytes = %d, want %d", e.Name, e.Bytes, info.Size())
		}
	}
	if entries[0].Name != "a.txt" || entries[1].Name != "b.txt" || entries[2].Name != "sub" {
		t.Errorf("names = %q, %q, %q", entries[0].Name, entries[1].Name, entries[2].Name)
	}
	if !strings.Contains(out, "\n    {") {
		t.Errorf("expected 4-space indentation:\n%s", out)
	}
}

func TestRootCmd_text(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.txt": "hello", "b.txt": "abc"})
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "glob",
			args: []string{"*.txt"},
			want: []string{"a.txt", "b.txt", "Found: 2", "Total size: 8B"},
		},
		{
			name:    "negation",
			args:    []string{"*.txt", "!b.txt"},
			want:    []string{"a.txt", "Found: 1", "Total size: 5B"},
			notWant: []string{"b.txt"},
		},
		{
			name: "no matches",
			args: []string{"*.js"},
			want: []string{"Found: 0", "Total size: 0B"},
		},
		{
			name: "missing literal is skipped",
			args: []string{"a.txt", "gone.txt"},
			want: []string{"Found: 1"},
		},
		{
			name: "exact bytes",
			args: []string{"--exact", "*.txt"},
			want: []string{"Total size: 8B (8 bytes)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, dir, tt.args...)
			if err != nil {
				t.Fatalf("execute() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output unexpectedly contains %q:\n%s", w, out)
				}
			}
			if strings.Contains(out, "\x1b[") {
				t.Errorf("non-terminal output contains escape sequences:\n%s", out)
			}
		})
	}
}

func TestRootCmd_invalidFlags(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.txt": "hello"})
	tests := []struct {
		name string
		args []string
	}{
		{"bad name mode", []string{"--name", "full", "a.txt"}},
		{"bad units", []string{"--units", "si", "a.txt"}},
		{"missing explicit config", []string{"--config", filepath.Join(dir, "nope.yaml"), "a.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, dir, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRootCmd_basenameFromConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"sub/a.txt":     "hello",
		localConfigName: "output:\n  name_mode: basename\n",
	})
	out, err := execute(t, dir, "--json", "sub/a.txt")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	var entries []models.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name != "a.txt" {
		t.Errorf("entries = %+v, want single entry named a.txt", entries)
	}

	out, err = execute(t, dir, "--json", "--name", "relative", "sub/a.txt")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if !strings.Contains(out, `"name": "sub/a.txt"`) {
		t.Errorf("flag should override config:\n%s", out)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	t.Run("local config preferred over default path", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{localConfigName: "output:\n  units: binary\n"})
		cfg, path, err := loadConfig("", dir)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if path != filepath.Join(dir, localConfigName) {
			t.Errorf("path = %q", path)
		}
		if cfg.Output.Units != "binary" {
			t.Errorf("Units = %q, want binary", cfg.Output.Units)
		}
	})

	t.Run("defaults when nothing exists", func(t *testing.T) {
		cfg, _, err := loadConfig("", t.TempDir())
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Output.Units != "decimal" || cfg.Output.NameMode != "relative" {
			t.Errorf("unexpected defaults: %+v", cfg.Output)
		}
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		if _, _, err := loadConfig(filepath.Join(t.TempDir(), "x.yaml"), t.TempDir()); err == nil {
			t.Error("expected error")
		}
	})
}

func TestApplyFlags_onlyChangedFlagsOverride(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantUnits string
		wantColor bool
	}{
		{"no flags keep config", nil, "binary", true},
		{"units flag overrides", []string{"--units", "decimal"}, "decimal", true},
		{"no-color disables color", []string{"--no-color"}, "binary", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd(io.Discard)
			flags := cmd.Flags()
			if err := flags.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			units, _ := flags.GetString("units")
			noColor, _ := flags.GetBool("no-color")

			cfg := config.Default()
			cfg.Output.Units = "binary"
			applyFlags(flags, &options{units: units, noColor: noColor}, cfg)
			if cfg.Output.Units != tt.wantUnits {
				t.Errorf("Units = %q, want %q", cfg.Output.Units, tt.wantUnits)
			}
			if got := cfg.Output.ColorOrDefault(); got != tt.wantColor {
				t.Errorf("ColorOrDefault() = %v, want %v", got, tt.wantColor)
			}
		})
	}
}
