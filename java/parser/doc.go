// Package parser implements the front end of the analyzer for a small subset
// of Java: a maximal-munch lexer, a token stream and a recursive-descent
// parser that records declarations into a symbol table.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Source    │────▶│   Lexer     │────▶│   Parser    │
//	│  (string)   │     │  (tokens)   │     │  (symbols)  │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │ LexicalError│     │ SyntaxError │
//	                    │   list      │     │ (capped)    │
//	                    └─────────────┘     └─────────────┘
//
// # Lexing
//
// At every position the lexer tries each entry of an ordered pattern table
// and keeps the longest match. Equal lengths go to the earlier entry, which
// places fixed words (access modifiers, type keywords, reserved words,
// "System.out.println") ahead of identifiers. Comments and whitespace produce
// no tokens. Lexemes and comments spanning several lines move the line counter
// by the number of embedded newlines.
//
// Two lexical errors exist: an unrecognized character, after which the lexer
// skips one rune, and an identifier starting with a digit ("2cats"), which is
// consumed whole and produces no token.
//
// # Parsing
//
// The parser accepts classes made of fields, constructors and methods, picked
// by fixed lookahead:
//
//	field        access type ident ;
//	constructor  access ident (      |  ident (
//	method       @Override ...       |  access (type | void | static) ...
//
// Method bodies hold local declarations, object declarations, println calls,
// returns, assignments, calls and this-assignments. Expressions are flat
// chains of terms and operators without precedence.
//
// # Error Recovery
//
// Each failed expectation records a SyntaxError at the current token; a
// second report at the same position is dropped. Below the cap (two by
// default, see WithMaxErrors) the parser skips tokens up to the next ";"
// (consumed), brace or synchronization keyword and abandons the failing
// production. Reaching the cap stops the parse: ErrAnalysisStopped travels up
// through every production and ParseResult.Stopped is set. Partial results
// are always returned.
//
// # Example Usage
//
//	tokens, lexErrs := parser.Scan("class A { private int x; }")
//	if len(lexErrs) == 0 {
//	    res := parser.Parse(tokens)
//	    for _, sym := range res.Symbols {
//	        fmt.Println(sym.Name, sym.Category, sym.Context)
//	    }
//	}
//
// # Thread Safety
//
// Lexer and Parser values are not safe for concurrent use. Scan and Parse
// allocate fresh state on every call and can run concurrently.
package parser
