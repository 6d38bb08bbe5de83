package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetVersion(t *testing.T) {
	SetVersion("1.0.0", "abc123", "2024-01-01")

	if version != "1.0.0" {
		t.Errorf("version = %q, want %q", version, "1.0.0")
	}
	if commit != "abc123" {
		t.Errorf("commit = %q, want %q", commit, "abc123")
	}
	if date != "2024-01-01" {
		t.Errorf("date = %q, want %q", date, "2024-01-01")
	}
}

func TestRootCommandStructure(t *testing.T) {
	root := newRootCmd()

	want := map[string]bool{"resolve": false, "graph": false, "serve": false, "cache": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestValidateKind(t *testing.T) {
	for _, k := range []string{kindLib, kindCSS, kindPackage} {
		if err := validateKind(k); err != nil {
			t.Errorf("validateKind(%q) = %v, want nil", k, err)
		}
	}
	if err := validateKind("bundle"); err == nil {
		t.Error("validateKind should reject unknown kinds")
	}
}

// writeManifest writes a small manifest file into a temp dir.
func writeManifest(t *testing.T) string {
	t.Helper()
	const doc = `
[[lib]]
handle = "jquery"
url = "/static/jquery.js"

[[lib]]
handle = "deform"
deps = "jquery"
url = "/static/deform.js"

[[css]]
handle = "deform"
url = "/static/deform.css"

[[package]]
handle = "forms"
libs = "deform"
css = "deform"
`
	path := filepath.Join(t.TempDir(), "assets.toml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with args and returns its error.
func run(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	return root.Execute()
}

func TestResolveCommand(t *testing.T) {
	path := writeManifest(t)
	if err := run(t, "resolve", "-m", path, "deform"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
}

func TestResolveCommandPackage(t *testing.T) {
	path := writeManifest(t)
	if err := run(t, "resolve", "-m", path, "-k", "package", "--tags", "forms"); err != nil {
		t.Fatalf("resolve package: %v", err)
	}
}

func TestResolveCommandUnknownHandle(t *testing.T) {
	path := writeManifest(t)
	if err := run(t, "resolve", "-m", path, "bogus"); err == nil {
		t.Fatal("resolve should fail for an undeclared handle")
	}
}

func TestResolveCommandMissingManifest(t *testing.T) {
	if err := run(t, "resolve", "-m", filepath.Join(t.TempDir(), "missing.toml"), "jquery"); err == nil {
		t.Fatal("resolve should fail when the manifest does not exist")
	}
}

func TestResolveCommandInvalidKind(t *testing.T) {
	path := writeManifest(t)
	if err := run(t, "resolve", "-m", path, "-k", "bundle", "jquery"); err == nil {
		t.Fatal("resolve should reject invalid kinds")
	}
}

func TestGraphCommand(t *testing.T) {
	path := writeManifest(t)
	out := filepath.Join(t.TempDir(), "graph.dot")
	if err := run(t, "graph", "-m", path, "-o", out); err != nil {
		t.Fatalf("graph: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	dot := string(data)
	for _, want := range []string{"digraph", `"libs/deform" -> "libs/jquery"`, "cluster_"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q", want)
		}
	}
}

func TestGraphCommandInvalidFormat(t *testing.T) {
	path := writeManifest(t)
	if err := run(t, "graph", "-m", path, "-f", "pdf"); err == nil {
		t.Fatal("graph should reject unsupported formats")
	}
}

func TestCachePathCommand(t *testing.T) {
	if err := run(t, "cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
}
