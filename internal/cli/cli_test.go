package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/graph"
	"github.com/matzehuels/skilltree/pkg/tree"
)

func skillRecords() []tree.Record {
	return []tree.Record{
		{ID: "strike", Category: "melee", State: "owned"},
		{ID: "cleave", Category: "melee", Requirements: []tree.Requirement{{ID: "strike"}}},
		{ID: "whirl", Category: "melee", Requirements: []tree.Requirement{{ID: "cleave"}}},
		{ID: "fireball", Category: "fire"},
	}
}

func writeRecords(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skills.yaml")
	if err := graph.WriteRecordsFile(skillRecords(), path); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"cache", "completion", "explore", "layout", "render", "serve", "version", "visualize"}
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	for _, name := range want {
		found := false
		for _, g := range got {
			found = found || g == name
		}
		if !found {
			t.Errorf("missing subcommand %q (have %v)", name, got)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,png", []string{"svg", "png"}},
		{"svg, dot , json", []string{"svg", "dot", "json"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseStates(t *testing.T) {
	got, err := parseStates([]string{"cleave=owned", " whirl = equipped "})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"cleave": "owned", "whirl": "equipped"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseStates = %v, want %v", got, want)
	}

	if got, err := parseStates(nil); got != nil || err != nil {
		t.Errorf("parseStates(nil) = %v, %v", got, err)
	}

	for _, bad := range []string{"cleave", "=owned", "a b=owned"} {
		if _, err := parseStates([]string{bad}); err == nil {
			t.Errorf("parseStates(%q) should fail", bad)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "skills.yaml", "skills"},
		{"", filepath.Join("trees", "skills.layout.json"), filepath.Join("trees", "skills")},
		{filepath.Join("out", "tree.svg"), "skills.yaml", filepath.Join("out", "tree")},
		{"tree", "skills.yaml", "tree"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "skills")
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}"), "dot": []byte("digraph{}")}

	paths, err := writeArtifacts(base, []string{"json", "svg", "pdf"}, artifacts)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{base + ".layout.json", base + ".svg"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(base + ".svg")
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("svg = %q, %v", data, err)
	}
	if _, err := os.Stat(base + ".dot"); !os.IsNotExist(err) {
		t.Error("dot was not requested and should not be written")
	}
}

func TestLayoutCommand(t *testing.T) {
	input := writeRecords(t)
	if _, err := execute(t, "layout", input, "--no-cache", "--category", "melee"); err != nil {
		t.Fatal(err)
	}

	l, err := readLayout(strings.TrimSuffix(input, ".yaml") + ".layout.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Nodes) != 3 || len(l.Edges) != 2 {
		t.Errorf("layout has %d nodes, %d edges", len(l.Nodes), len(l.Edges))
	}
	if l.Category != "melee" || l.Strategy != tree.DefaultStrategy {
		t.Errorf("category = %q, strategy = %q", l.Category, l.Strategy)
	}
}

func TestLayoutCommandConfig(t *testing.T) {
	input := writeRecords(t)
	cfg := filepath.Join(t.TempDir(), "skilltree.yaml")
	if err := os.WriteFile(cfg, []byte("strategy: tidy\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(t.TempDir(), "out.layout.json")

	if _, err := execute(t, "--config", cfg, "layout", input, "--no-cache", "-o", output); err != nil {
		t.Fatal(err)
	}
	l, err := readLayout(output)
	if err != nil {
		t.Fatal(err)
	}
	if l.Strategy != "tidy" {
		t.Errorf("strategy = %q, want tidy from config", l.Strategy)
	}

	// Flags win over the config file.
	if _, err := execute(t, "--config", cfg, "layout", input, "--no-cache", "-o", output, "--strategy", "columns"); err != nil {
		t.Fatal(err)
	}
	if l, _ = readLayout(output); l.Strategy != "columns" {
		t.Errorf("strategy = %q, want columns from flag", l.Strategy)
	}
}

func TestRenderCommand(t *testing.T) {
	input := writeRecords(t)
	base := filepath.Join(t.TempDir(), "tree")

	_, err := execute(t, "render", input, "--no-cache", "-o", base+".svg", "-f", "svg,dot,json",
		"--category", "melee", "--highlight", "whirl", "--state", "cleave=owned")
	if err != nil {
		t.Fatal(err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(`id="node-whirl"`)) {
		t.Error("svg missing whirl node")
	}
	if !bytes.Contains(svg, []byte("highlight")) {
		t.Error("svg missing highlighted path")
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(dot, []byte(`"strike" -> "cleave"`)) {
		t.Errorf("dot missing strike -> cleave edge:\n%s", dot)
	}
	if _, err := readLayout(base + ".layout.json"); err != nil {
		t.Errorf("json artifact is not a layout: %v", err)
	}
}

func TestVisualizeCommand(t *testing.T) {
	input := writeRecords(t)
	if _, err := execute(t, "layout", input, "--no-cache"); err != nil {
		t.Fatal(err)
	}
	layoutPath := strings.TrimSuffix(input, ".yaml") + ".layout.json"
	if _, err := execute(t, "visualize", layoutPath, "--no-cache", "-f", "svg"); err != nil {
		t.Fatal(err)
	}
	svg, err := os.ReadFile(strings.TrimSuffix(input, ".yaml") + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(`id="node-fireball"`)) {
		t.Error("svg missing fireball node")
	}
}

func TestCommandErrors(t *testing.T) {
	input := writeRecords(t)
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing records", []string{"layout", missing, "--no-cache"}, errors.ErrCodeFileNotFound},
		{"bad strategy", []string{"layout", input, "--no-cache", "--strategy", "force"}, errors.ErrCodeInvalidStrategy},
		{"bad format", []string{"render", input, "--no-cache", "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"bad state", []string{"render", input, "--no-cache", "--state", "cleave"}, errors.ErrCodeInvalidInput},
		{"missing layout", []string{"visualize", missing, "--no-cache"}, errors.ErrCodeFileNotFound},
		{"records as layout", []string{"visualize", input, "--no-cache"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}

	if _, err := execute(t, "render", input, "--no-cache", "-f", "svg,dot", "-o", "-"); err == nil {
		t.Error("stdout output with two formats should fail")
	}
	if _, err := execute(t, "serve", "--store", "etcd"); err == nil {
		t.Error("unknown session store should fail")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "version: dev") {
		t.Errorf("version output = %q", out)
	}

	out, err = execute(t, "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"version": "dev"`) {
		t.Errorf("version --json output = %q", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, "skilltree") {
			t.Errorf("completion %s output does not mention skilltree", shell)
		}
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}

	out, err := execute(t, "__complete", "serve", "--cache", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"file", "redis", "none"} {
		if !strings.Contains(out, want+"\n") {
			t.Errorf("--cache completions %q missing %q", out, want)
		}
	}
}
