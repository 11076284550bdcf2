package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// pattern matches one token class anchored at the start of its input and
// returns the length in bytes of the match, or 0.
type pattern struct {
	kind  TokenKind
	match func(s string) int
}

// patterns is evaluated in full at every position. The longest match wins and
// equal lengths go to the earlier entry, so fixed words stay ahead of
// TokenIdent.
var patterns = []pattern{
	{TokenAnnotation, matchWord("@Override")},
	{TokenAccessModifier, matchWord(accessModifiers...)},
	{TokenType, matchWord(typeKeywords...)},
	{TokenKeyword, matchWord(reservedWords...)},
	{TokenPrint, matchWord("System.out.println")},
	{TokenStringLiteral, matchQuoted('"')},
	{TokenCharLiteral, matchQuoted('\'')},
	{tokenInvalidIdent, matchDigitLedIdent},
	{TokenRealLiteral, matchReal},
	{TokenIntLiteral, matchDigits},
	{TokenRelOp, matchAny(">=", "<=", "==", "!=", ">", "<")},
	{TokenArithOp, matchAny("+", "-", "*", "/", "%")},
	{TokenAssignOp, matchAny("=", "+=", "-=", "*=", "/=", "%=")},
	{TokenLogicOp, matchAny("&&", "||", "!")},
	{TokenIncDec, matchAny("++", "--")},
	{TokenDelim, matchAny("(", ")", "{", "}", "[", "]", ";", ",", ".")},
	{TokenIdent, matchIdent},
}

type Lexer struct {
	input  string
	pos    int
	line   int
	column int
	tokens []Token
	errors []LexicalError
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		pos:    0,
		line:   1,
		column: 1,
	}
}

// Scan tokenizes src in a single pass. Malformed input never stops the scan;
// it is reported through the returned errors.
func Scan(src string) ([]Token, []LexicalError) {
	return NewLexer(src).Scan()
}

func (l *Lexer) Position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) Scan() ([]Token, []LexicalError) {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])

		if isSpace(r) {
			l.pos += size
			if r == '\n' {
				l.line++
				l.column = 1
			} else {
				l.column++
			}
			continue
		}

		if l.skipComment() {
			continue
		}

		if l.scanToken() {
			continue
		}

		l.errors = append(l.errors, LexicalError{
			Kind: ErrUnrecognizedChar,
			Pos:  l.Position(),
			Text: string(r),
		})
		l.pos += size
		l.column++
	}
	return l.tokens, l.errors
}

func (l *Lexer) skipComment() bool {
	rest := l.input[l.pos:]
	switch {
	case strings.HasPrefix(rest, "//"):
		if end := strings.IndexByte(rest, '\n'); end >= 0 {
			rest = rest[:end+1]
		}
		l.advanceText(rest)
		return true
	case strings.HasPrefix(rest, "/*"):
		if end := strings.Index(rest[2:], "*/"); end >= 0 {
			rest = rest[:end+4]
		}
		l.advanceText(rest)
		return true
	}
	return false
}

func (l *Lexer) scanToken() bool {
	rest := l.input[l.pos:]
	best, bestLen := -1, 0
	for i, p := range patterns {
		if n := p.match(rest); n > bestLen {
			best, bestLen = i, n
		}
	}
	if best < 0 {
		return false
	}

	start := l.Position()
	text := rest[:bestLen]
	l.advanceText(text)

	kind := patterns[best].kind
	if kind == tokenInvalidIdent {
		l.errors = append(l.errors, LexicalError{
			Kind: ErrInvalidIdentifier,
			Pos:  start,
			Text: text,
		})
		return true
	}

	l.tokens = append(l.tokens, Token{
		Kind:    kind,
		Span:    Span{Start: start, End: l.Position()},
		Literal: text,
	})
	return true
}

// advanceText moves the cursor over text. Embedded newlines move the line
// counter and restart the column after the last one.
func (l *Lexer) advanceText(text string) {
	l.pos += len(text)
	if n := strings.Count(text, "\n"); n > 0 {
		l.line += n
		l.column = utf8.RuneCountInString(text[strings.LastIndexByte(text, '\n')+1:]) + 1
		return
	}
	l.column += utf8.RuneCountInString(text)
}

func matchWord(words ...string) func(string) int {
	return func(s string) int {
		for _, w := range words {
			if strings.HasPrefix(s, w) && (len(s) == len(w) || !isWordByte(s[len(w)])) {
				return len(w)
			}
		}
		return 0
	}
}

func matchAny(ops ...string) func(string) int {
	return func(s string) int {
		longest := 0
		for _, op := range ops {
			if len(op) > longest && strings.HasPrefix(s, op) {
				longest = len(op)
			}
		}
		return longest
	}
}

// matchQuoted matches a quote-delimited literal with backslash escapes. The
// body may span lines; an escape may not be followed by a line break.
func matchQuoted(quote byte) func(string) int {
	return func(s string) int {
		if s == "" || s[0] != quote {
			return 0
		}
		for i := 1; i < len(s); {
			switch s[i] {
			case quote:
				return i + 1
			case '\\':
				if i+1 >= len(s) || s[i+1] == '\n' || s[i+1] == '\r' {
					return 0
				}
				_, size := utf8.DecodeRuneInString(s[i+1:])
				i += 1 + size
			default:
				i++
			}
		}
		return 0
	}
}

func matchDigits(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

func matchReal(s string) int {
	whole := matchDigits(s)
	if whole == 0 || whole >= len(s) || s[whole] != '.' {
		return 0
	}
	frac := matchDigits(s[whole+1:])
	if frac == 0 {
		return 0
	}
	return whole + 1 + frac
}

func matchDigitLedIdent(s string) int {
	n := matchDigits(s)
	if n == 0 || n >= len(s) || !isLetter(s[n]) {
		return 0
	}
	n++
	for n < len(s) && isWordByte(s[n]) {
		n++
	}
	return n
}

func matchIdent(s string) int {
	if s == "" || !isLetter(s[0]) {
		return 0
	}
	n := 1
	for n < len(s) && isWordByte(s[n]) {
		n++
	}
	return n
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isWordByte(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}
