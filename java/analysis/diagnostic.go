package analysis

import (
	"cmp"
	"slices"

	"github.com/dhamidi/javalyzer/java/parser"
)

type Source string

const (
	SourceLexical Source = "lexical"
	SourceSyntax  Source = "syntax"
)

// Diagnostic is a lexical or syntax error flattened for display.
type Diagnostic struct {
	Source  Source          `json:"source"`
	Pos     parser.Position `json:"-"`
	Line    int             `json:"line"`
	Column  int             `json:"column"`
	Length  int             `json:"length"`
	Message string          `json:"message"`
}

// Diagnostics merges lexical and syntax errors, ordered by position.
func (r *Result) Diagnostics() []Diagnostic {
	diags := make([]Diagnostic, 0, r.ErrorCount())
	for _, e := range r.LexicalErrors {
		diags = append(diags, Diagnostic{
			Source:  SourceLexical,
			Pos:     e.Pos,
			Line:    e.Pos.Line,
			Column:  e.Pos.Column,
			Length:  len([]rune(e.Text)),
			Message: e.Message(),
		})
	}
	for _, e := range r.SyntaxErrors {
		length := len([]rune(e.Found.Literal))
		if e.Found.Kind == parser.TokenEOF {
			length = 0
		}
		diags = append(diags, Diagnostic{
			Source:  SourceSyntax,
			Pos:     e.Pos,
			Line:    e.Pos.Line,
			Column:  e.Pos.Column,
			Length:  length,
			Message: e.Message + ", found " + e.Found.String(),
		})
	}
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.Line, b.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Column, b.Column)
	})
	return diags
}

// SymbolAt returns the symbol whose declaring identifier covers the given
// 1-based line and rune column.
func (r *Result) SymbolAt(line, column int) (parser.Symbol, bool) {
	for _, s := range r.Symbols {
		if s.Pos.Line != line {
			continue
		}
		if column >= s.Pos.Column && column < s.Pos.Column+len([]rune(s.Name)) {
			return s, true
		}
	}
	return parser.Symbol{}, false
}

// Lookup returns every symbol declared under name, in declaration order.
func (r *Result) Lookup(name string) []parser.Symbol {
	var out []parser.Symbol
	for _, s := range r.Symbols {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}
