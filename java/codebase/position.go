package codebase

import (
	"strings"
	"unicode/utf16"

	"github.com/dhamidi/javalyzer/java/parser"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// lineIndex converts between the analyzer's rune columns and the UTF-16
// offsets LSP positions are measured in. Without text every rune counts as
// one unit.
type lineIndex struct {
	lines []string
}

func newLineIndex(content []byte) lineIndex {
	if content == nil {
		return lineIndex{}
	}
	return lineIndex{lines: strings.Split(string(content), "\n")}
}

// utf16Offset returns the UTF-16 length of the first runes runes of the
// 1-based line. Runes past the end of the line count as one unit each.
func (li lineIndex) utf16Offset(line, runes int) int {
	if line < 1 || line > len(li.lines) {
		return runes
	}
	n := 0
	for _, r := range li.lines[line-1] {
		if runes == 0 {
			return n
		}
		n += utf16.RuneLen(r)
		runes--
	}
	return n + runes
}

// runeOffset is the inverse of utf16Offset. An offset inside a surrogate
// pair resolves to the rune after it.
func (li lineIndex) runeOffset(line, units int) int {
	if line < 1 || line > len(li.lines) {
		return units
	}
	runes := 0
	for _, r := range li.lines[line-1] {
		if units <= 0 {
			return runes
		}
		units -= utf16.RuneLen(r)
		runes++
	}
	return runes + max(units, 0)
}

// toRange converts a 1-based position and a rune length into an LSP range.
func (li lineIndex) toRange(pos parser.Position, length int) protocol.Range {
	line := max(pos.Line-1, 0)
	col := max(pos.Column-1, 0)
	start := li.utf16Offset(pos.Line, col)
	end := li.utf16Offset(pos.Line, col+length)
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(start)},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(end)},
	}
}
