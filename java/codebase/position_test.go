package codebase

import (
	"context"
	"testing"

	"github.com/dhamidi/javalyzer/config"
	"github.com/dhamidi/javalyzer/java/analysis"
)

const emojiSource = `class A {
    public void f() {
        String s = "😀"; int x = 1;
    }
}`

func TestLineIndexOffsets(t *testing.T) {
	li := newLineIndex([]byte("ab😀c\nxyz"))

	tests := []struct {
		name  string
		line  int
		runes int
		units int
	}{
		{"line start", 1, 0, 0},
		{"before emoji", 1, 2, 2},
		{"after emoji", 1, 3, 4},
		{"line end", 1, 4, 5},
		{"past line end", 1, 6, 7},
		{"ascii line", 2, 2, 2},
		{"unknown line", 9, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := li.utf16Offset(tt.line, tt.runes); got != tt.units {
				t.Errorf("utf16Offset(%d, %d) = %d, want %d", tt.line, tt.runes, got, tt.units)
			}
			if got := li.runeOffset(tt.line, tt.units); got != tt.runes {
				t.Errorf("runeOffset(%d, %d) = %d, want %d", tt.line, tt.units, got, tt.runes)
			}
		})
	}

	// An offset between the two halves of a surrogate pair.
	if got := li.runeOffset(1, 3); got != 3 {
		t.Errorf("runeOffset inside surrogate pair = %d, want 3", got)
	}

	empty := newLineIndex(nil)
	if got := empty.utf16Offset(1, 4); got != 4 {
		t.Errorf("utf16Offset without text = %d, want 4", got)
	}
}

func TestRangesAfterAstralCharacters(t *testing.T) {
	res := analysis.Analyze(emojiSource, config.Default().Analysis)
	if !res.Clean() {
		t.Fatalf("unexpected errors: %+v", res.Diagnostics())
	}

	symbols := documentSymbols(res.Symbols, newLineIndex([]byte(emojiSource)))
	if len(symbols) != 1 || len(symbols[0].Children) != 1 {
		t.Fatalf("symbols = %+v", symbols)
	}
	locals := symbols[0].Children[0].Children
	if len(locals) != 2 || locals[1].Name != "x" {
		t.Fatalf("locals of f = %+v", locals)
	}

	// x is rune column 29; the emoji before it takes two UTF-16 units.
	r := locals[1].Range
	if r.Start.Line != 2 || r.Start.Character != 29 || r.End.Character != 30 {
		t.Errorf("x range = %+v, want line 2, characters 29-30", r)
	}

	c := newCodebase(t.TempDir())
	info := c.UpdateFile(context.Background(), "A.java", []byte(`class A {
    public void f() {
        String s = "😀"; #
    }
}`))
	diags := toDiagnostics(info)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if d := diags[0].Range; d.Start.Character != 25 || d.End.Character != 26 {
		t.Errorf("diagnostic range = %+v, want characters 25-26", d)
	}
}
