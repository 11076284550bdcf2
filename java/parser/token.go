package parser

import (
	"fmt"
	"slices"
)

// Position is a location in the analyzed source. Line and Column are 1-based;
// Column counts runes, Offset counts bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes strictly before q in (line, column) order.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenAnnotation
	TokenAccessModifier
	TokenType
	TokenKeyword
	TokenPrint

	// Literals
	TokenStringLiteral
	TokenCharLiteral
	TokenRealLiteral
	TokenIntLiteral

	// Operators and punctuation
	TokenRelOp
	TokenArithOp
	TokenAssignOp
	TokenLogicOp
	TokenIncDec
	TokenDelim

	TokenIdent

	// tokenInvalidIdent marks a digit-led identifier. The lexer reports it as
	// an error and never emits it.
	tokenInvalidIdent
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:            "EOF",
	TokenAnnotation:     "Annotation",
	TokenAccessModifier: "AccessModifier",
	TokenType:           "Type",
	TokenKeyword:        "Keyword",
	TokenPrint:          "Print",
	TokenStringLiteral:  "StringLiteral",
	TokenCharLiteral:    "CharLiteral",
	TokenRealLiteral:    "RealLiteral",
	TokenIntLiteral:     "IntLiteral",
	TokenRelOp:          "RelOp",
	TokenArithOp:        "ArithOp",
	TokenAssignOp:       "AssignOp",
	TokenLogicOp:        "LogicOp",
	TokenIncDec:         "IncDec",
	TokenDelim:          "Delimiter",
	TokenIdent:          "Identifier",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

func (t Token) Pos() Position {
	return t.Span.Start
}

// Is reports whether the token has the given kind and literal.
func (t Token) Is(kind TokenKind, literal string) bool {
	return t.Kind == kind && t.Literal == literal
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s ('%s')", t.Kind, t.Literal)
}

var (
	accessModifiers = []string{"public", "private", "protected"}
	typeKeywords    = []string{"String", "int", "float", "double", "boolean", "char"}
	reservedWords   = []string{"class", "static", "if", "else", "while", "for", "return", "new", "this", "void"}
)

func IsAccessModifier(ident string) bool {
	return slices.Contains(accessModifiers, ident)
}

func IsTypeKeyword(ident string) bool {
	return slices.Contains(typeKeywords, ident)
}

func IsReservedWord(ident string) bool {
	return slices.Contains(reservedWords, ident)
}
