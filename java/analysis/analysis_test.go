package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/javalyzer/config"
	"github.com/dhamidi/javalyzer/java/parser"
)

func defaults() config.AnalysisConfig {
	return config.Default().Analysis
}

func TestAnalyzeClean(t *testing.T) {
	res := Analyze("class A { private int x; }", defaults())

	if !res.Clean() {
		t.Fatalf("Clean() = false, diagnostics: %v", res.Diagnostics())
	}
	if res.Stage != StageSyntax {
		t.Errorf("Stage = %v, want %v", res.Stage, StageSyntax)
	}
	if len(res.Tokens) != 8 {
		t.Errorf("got %d tokens, want 8", len(res.Tokens))
	}
	if len(res.Symbols) != 2 {
		t.Errorf("got %d symbols, want 2", len(res.Symbols))
	}
	if res.ID.String() == "" {
		t.Error("result has no id")
	}
}

func TestAnalyzeLexicalGate(t *testing.T) {
	src := "class A { private int 2x; }"

	res := Analyze(src, defaults())
	if res.Stage != StageLexical {
		t.Errorf("Stage = %v, want %v", res.Stage, StageLexical)
	}
	if len(res.LexicalErrors) != 1 {
		t.Fatalf("got %d lexical errors, want 1", len(res.LexicalErrors))
	}
	if len(res.SyntaxErrors) != 0 || len(res.Symbols) != 0 {
		t.Errorf("parser ran despite lexical errors: %v, %v", res.SyntaxErrors, res.Symbols)
	}

	cfg := defaults()
	cfg.ParseOnLexicalErrors = true
	res = Analyze(src, cfg)
	if res.Stage != StageSyntax {
		t.Errorf("Stage = %v, want %v", res.Stage, StageSyntax)
	}
	if len(res.Symbols) == 0 {
		t.Error("no symbols with parse_on_lexical_errors")
	}
	if res.Clean() {
		t.Error("Clean() = true with lexical errors")
	}
}

func TestAnalyzeMaxErrors(t *testing.T) {
	src := "class A { public void f() { a; b; c; d; } }"

	res := Analyze(src, defaults())
	if len(res.SyntaxErrors) != 2 || !res.Stopped {
		t.Errorf("default cap: %d errors, stopped %v", len(res.SyntaxErrors), res.Stopped)
	}

	cfg := defaults()
	cfg.MaxErrors = 10
	res = Analyze(src, cfg)
	if len(res.SyntaxErrors) != 4 || res.Stopped {
		t.Errorf("cap 10: %d errors, stopped %v", len(res.SyntaxErrors), res.Stopped)
	}
}

func TestDiagnostics(t *testing.T) {
	cfg := defaults()
	cfg.ParseOnLexicalErrors = true
	cfg.MaxErrors = 10

	res := Analyze("class A {\n  private int ;\n  # \n}", cfg)
	diags := res.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %+v", len(diags), diags)
	}

	if diags[0].Source != SourceSyntax || diags[0].Line != 2 {
		t.Errorf("first diagnostic = %+v, want syntax error on line 2", diags[0])
	}
	if !strings.Contains(diags[0].Message, "found Delimiter (';')") {
		t.Errorf("Message = %q", diags[0].Message)
	}
	if diags[1].Source != SourceLexical || diags[1].Line != 3 || diags[1].Column != 3 {
		t.Errorf("second diagnostic = %+v, want lexical error at 3:3", diags[1])
	}
	if diags[1].Length != 1 {
		t.Errorf("Length = %d, want 1", diags[1].Length)
	}
}

func TestSymbolAt(t *testing.T) {
	res := Analyze("class Point {\n  private int xs;\n}", defaults())

	tests := []struct {
		line, column int
		want         string
		found        bool
	}{
		{1, 7, "Point", true},
		{1, 11, "Point", true},
		{1, 12, "", false},
		{2, 15, "xs", true},
		{2, 16, "xs", true},
		{2, 17, "", false},
		{3, 1, "", false},
	}

	for _, tt := range tests {
		sym, ok := res.SymbolAt(tt.line, tt.column)
		if ok != tt.found || sym.Name != tt.want {
			t.Errorf("SymbolAt(%d, %d) = %q, %v, want %q, %v", tt.line, tt.column, sym.Name, ok, tt.want, tt.found)
		}
	}

	if got := res.Lookup("xs"); len(got) != 1 || got[0].Category != parser.CategoryField {
		t.Errorf("Lookup(xs) = %+v", got)
	}
}

func TestRunContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A canceled context may still lose the race against a fast analysis.
	res, err := RunContext(ctx, "class A {}", defaults())
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("RunContext() error = %v, want context.Canceled", err)
	}
	if err == nil && res == nil {
		t.Error("RunContext() returned neither result nor error")
	}
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "A.java")
	if err := os.WriteFile(path, []byte("class A { public A() { } }"), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := AnalyzeFile(context.Background(), path, defaults())
	if err != nil {
		t.Fatalf("AnalyzeFile() error = %v", err)
	}
	if res.Path != path {
		t.Errorf("Path = %q, want %q", res.Path, path)
	}
	if !res.Clean() {
		t.Errorf("diagnostics: %v", res.Diagnostics())
	}

	if _, err := AnalyzeFile(context.Background(), filepath.Join(dir, "missing.java"), defaults()); err == nil {
		t.Error("AnalyzeFile() of a missing file returned no error")
	}
}

func TestResultJSON(t *testing.T) {
	res := Analyze("class A { private int x; }", defaults())
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Stage   string `json:"stage"`
		Symbols []struct {
			Identifier string `json:"identifier"`
			Category   string `json:"category"`
			Context    string `json:"context"`
			Line       int    `json:"line"`
		} `json:"symbols"`
		Tokens []struct {
			Lexeme string `json:"lexeme"`
			Kind   string `json:"kind"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	if decoded.Stage != "syntax" {
		t.Errorf("stage = %q, want syntax", decoded.Stage)
	}
	if len(decoded.Symbols) != 2 || decoded.Symbols[1].Context != "field of class 'A'" {
		t.Errorf("symbols = %+v", decoded.Symbols)
	}
	if decoded.Tokens[3].Kind != "AccessModifier" || decoded.Tokens[3].Lexeme != "private" {
		t.Errorf("token 3 = %+v", decoded.Tokens[3])
	}
}
