package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/javalyzer/config"
	"github.com/dhamidi/javalyzer/java/analysis"
	"gopkg.in/yaml.v3"
)

func analyze(t *testing.T, src string) *analysis.Result {
	t.Helper()
	res := analysis.Analyze(src, config.Default().Analysis)
	res.Path = "A.java"
	return res
}

func TestNew(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			enc, err := New(name, &bytes.Buffer{}, Options{})
			if err != nil {
				t.Fatalf("New(%q) error = %v", name, err)
			}
			if enc == nil {
				t.Fatalf("New(%q) returned nil", name)
			}
		})
	}

	if _, err := New("xml", &bytes.Buffer{}, Options{}); err == nil {
		t.Error("New(xml) error = nil")
	}
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewJSONEncoder(&buf, SectionSymbols)
	if err := enc.Encode(analyze(t, "class A { private int x; }")); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Path    string            `json:"path"`
		Clean   bool              `json:"clean"`
		Tokens  []json.RawMessage `json:"tokens"`
		Symbols []struct {
			Identifier string `json:"identifier"`
			Category   string `json:"category"`
		} `json:"symbols"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.Path != "A.java" || !got.Clean {
		t.Errorf("path = %q, clean = %v", got.Path, got.Clean)
	}
	if len(got.Tokens) != 0 {
		t.Errorf("tokens written although not selected: %d", len(got.Tokens))
	}
	if len(got.Symbols) != 2 || got.Symbols[1].Identifier != "x" || got.Symbols[1].Category != "Field" {
		t.Errorf("symbols = %+v", got.Symbols)
	}
}

func TestYAMLEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewYAMLEncoder(&buf, SectionAll)
	if err := enc.Encode(analyze(t, "class A { private int ; }")); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Stage       string `yaml:"stage"`
		Clean       bool   `yaml:"clean"`
		Diagnostics []struct {
			Source string `yaml:"source"`
			Line   int    `yaml:"line"`
			Column int    `yaml:"column"`
		} `yaml:"diagnostics"`
		Tokens []struct {
			Lexeme string `yaml:"lexeme"`
		} `yaml:"tokens"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}
	if got.Stage != "syntax" || got.Clean {
		t.Errorf("stage = %q, clean = %v", got.Stage, got.Clean)
	}
	if len(got.Diagnostics) != 1 || got.Diagnostics[0].Column != 23 || got.Diagnostics[0].Source != "syntax" {
		t.Errorf("diagnostics = %+v", got.Diagnostics)
	}
	if len(got.Tokens) != 8 {
		t.Errorf("got %d tokens, want 8", len(got.Tokens))
	}
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewLineEncoder(&buf, SectionAll)
	if err := enc.Encode(analyze(t, "class A {\n  private String s;\n}")); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"token\t1\t1\tKeyword\t\"class\"",
		"token\t1\t7\tIdentifier\t\"A\"",
		"token\t1\t9\tDelimiter\t\"{\"",
		"token\t2\t3\tAccessModifier\t\"private\"",
		"token\t2\t11\tType\t\"String\"",
		"token\t2\t18\tIdentifier\t\"s\"",
		"token\t2\t19\tDelimiter\t\";\"",
		"token\t3\t1\tDelimiter\t\"}\"",
		"symbol\t1\t7\tA\tclass\tClass\tclass definition",
		"symbol\t2\t18\ts\tString\tField\tfield of class 'A'",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTextEncoder(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		banner string
		parts  []string
	}{
		{"clean", "class A { private int x; }", "without errors", []string{"Tokens (8)", "Symbols (2)", "field of class 'A'"}},
		{"lexical", "class A { # }", "parsing skipped", []string{"Errors (1)", "unrecognized character: '#'"}},
		{"syntax", "class A { private int ; }", "1 error(s) found", []string{"Errors (1)", "expected Identifier"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			enc := NewTextEncoder(&buf, Options{Sections: SectionAll})
			if err := enc.Encode(analyze(t, tt.src)); err != nil {
				t.Fatal(err)
			}
			out := buf.String()
			if !strings.Contains(out, tt.banner) {
				t.Errorf("output lacks banner %q:\n%s", tt.banner, out)
			}
			for _, part := range tt.parts {
				if !strings.Contains(out, part) {
					t.Errorf("output lacks %q:\n%s", part, out)
				}
			}
		})
	}
}

func TestEncodeSummaries(t *testing.T) {
	clean := analyze(t, "class A {}").Summary()
	broken := analyze(t, "class B { x }").Summary()
	broken.Path = "B.java"
	failed := analysis.FailedSummary("C.java", errors.New("permission denied"))
	summaries := []analysis.Summary{clean, broken, failed}

	var buf bytes.Buffer
	if err := NewLineEncoder(&buf, SectionAll).EncodeSummaries(summaries); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "file\tA.java\tclean\t") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "file\tB.java\terrors\t") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[3], "total\t-\tfailed\t") {
		t.Errorf("line 3 = %q", lines[3])
	}

	buf.Reset()
	if err := NewJSONEncoder(&buf, SectionAll).EncodeSummaries(summaries); err != nil {
		t.Fatal(err)
	}
	var batch struct {
		Files []analysis.Summary `json:"files"`
		Total analysis.Summary   `json:"total"`
	}
	if err := json.Unmarshal(buf.Bytes(), &batch); err != nil {
		t.Fatal(err)
	}
	if len(batch.Files) != 3 || batch.Files[2].Error != "permission denied" {
		t.Errorf("files = %+v", batch.Files)
	}
	if batch.Total.Status != analysis.StatusFailed {
		t.Errorf("total status = %q, want failed", batch.Total.Status)
	}

	buf.Reset()
	if err := NewTextEncoder(&buf, Options{}).EncodeSummaries(summaries[:1]); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "1 file(s) clean") {
		t.Errorf("text summary:\n%s", buf.String())
	}
}
