package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paiml/ruchy-sub011/internal/parser"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.ruchy")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunExitCodes(t *testing.T) {
	good := writeScript(t, "let x = 1\nx + 1\n")
	bad := writeScript(t, "let = = =\n")

	cases := []struct {
		name string
		args []string
		want int
	}{
		{"run ok", []string{"run", good}, exitOK},
		{"parse ok", []string{"parse", good}, exitOK},
		{"check ok", []string{"check", good}, exitOK},
		{"ast ok", []string{"ast", good}, exitOK},
		{"transpile ok", []string{"transpile", good}, exitOK},
		{"parse error", []string{"parse", bad}, exitIssue},
		{"run parse error", []string{"run", bad}, exitIssue},
		{"eval ok", []string{"-e", "1 + 2"}, exitOK},
		{"eval runtime error", []string{"-e", "1 / 0"}, exitIssue},
		{"no args", nil, exitUsage},
		{"unknown command", []string{"frobnicate"}, exitUsage},
		{"missing file", []string{"run", filepath.Join(t.TempDir(), "absent.ruchy")}, exitInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(tc.args); got != tc.want {
				t.Errorf("run(%v) = %d, want %d", tc.args, got, tc.want)
			}
		})
	}
}

func TestOpenBrackets(t *testing.T) {
	cases := []struct {
		src  string
		want int
	}{
		{"let x = 1", 0},
		{"fun f() {", 1},
		{"fun f() {\n  if x {", 2},
		{"[1, 2, 3]", 0},
		{`let s = "{unbalanced in string"`, 0},
		{"// comment with {\nlet x = 1", 0},
		{"let c = '{'", 0},
	}
	for _, tc := range cases {
		if got := openBrackets(tc.src); got != tc.want {
			t.Errorf("openBrackets(%q) = %d, want %d", tc.src, got, tc.want)
		}
	}
}

func TestDumpTree(t *testing.T) {
	p := parser.New("1 + 2 * x")
	program := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	root := dumpExpr(program.Exprs[0])
	if root.Kind != "Infix" || root.Text != "+" {
		t.Fatalf("root = %s %s", root.Kind, root.Text)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected two children, got %d", len(root.Children))
	}
	if root.Children[1].Kind != "Infix" || root.Children[1].Text != "*" {
		t.Errorf("right child = %s %s", root.Children[1].Kind, root.Children[1].Text)
	}
}
