package parser

import "errors"

// DefaultMaxErrors is the number of syntax errors after which parsing stops.
const DefaultMaxErrors = 2

type Option func(*Parser)

// WithMaxErrors sets the syntax error cap. Values below 1 keep the default.
func WithMaxErrors(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxErrors = n
		}
	}
}

type ParseResult struct {
	Errors  []SyntaxError
	Symbols []Symbol
	// Stopped is set when the error cap cut the parse short.
	Stopped bool
}

type Parser struct {
	ts        *TokenStream
	maxErrors int
	errors    []SyntaxError
	symbols   []Symbol
}

// syncLiterals are the lexemes panic-mode recovery stops in front of.
var syncLiterals = map[string]bool{
	"class":     true,
	"public":    true,
	"private":   true,
	"protected": true,
	"void":      true,
	"static":    true,
	"int":       true,
	"String":    true,
	"boolean":   true,
	"return":    true,
	"if":        true,
	"else":      true,
	"while":     true,
	"for":       true,
	"@Override": true,
}

func NewParser(tokens []Token, opts ...Option) *Parser {
	p := &Parser{
		ts:        NewTokenStream(tokens),
		maxErrors: DefaultMaxErrors,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse runs the parser over tokens and returns the syntax errors and the
// symbol table collected until the end of input or the error cap.
func Parse(tokens []Token, opts ...Option) ParseResult {
	return NewParser(tokens, opts...).Parse()
}

func (p *Parser) Parse() ParseResult {
	err := p.parseProgram()
	return ParseResult{
		Errors:  p.errors,
		Symbols: p.symbols,
		Stopped: stopped(err),
	}
}

func stopped(err error) bool {
	return errors.Is(err, ErrAnalysisStopped)
}

func (p *Parser) at(kind TokenKind) bool {
	return p.ts.Kind() == kind
}

func (p *Parser) atDelim(literal string) bool {
	return p.ts.Current().Is(TokenDelim, literal)
}

func (p *Parser) atKeyword(literal string) bool {
	return p.ts.Current().Is(TokenKeyword, literal)
}

func (p *Parser) peekKind(k int) TokenKind {
	tok, ok := p.ts.Peek(k)
	if !ok {
		return TokenEOF
	}
	return tok.Kind
}

func (p *Parser) peekIs(k int, kind TokenKind, literal string) bool {
	tok, ok := p.ts.Peek(k)
	return ok && tok.Is(kind, literal)
}

// accept consumes the current token when it has the given kind and, if
// literal is non-empty, the given literal.
func (p *Parser) accept(kind TokenKind, literal string) bool {
	tok := p.ts.Current()
	if tok.Kind == kind && (literal == "" || tok.Literal == literal) {
		p.ts.Advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind TokenKind, literal string) (Token, error) {
	tok := p.ts.Current()
	if p.accept(kind, literal) {
		return tok, nil
	}
	want := kind.String()
	if literal != "" {
		want = "'" + literal + "'"
	}
	return tok, p.fail("expected " + want)
}

// fail records a syntax error at the current token. A report at the same
// position as the previous one is dropped. Once the cap is reached it returns
// ErrAnalysisStopped; otherwise it synchronizes and returns errRecovered.
func (p *Parser) fail(msg string) error {
	tok := p.ts.Current()
	pos := tok.Pos()
	if n := len(p.errors); n == 0 || p.errors[n-1].Pos.Line != pos.Line || p.errors[n-1].Pos.Column != pos.Column {
		p.errors = append(p.errors, SyntaxError{
			Pos:     pos,
			Message: msg,
			Found:   tok,
		})
	}
	if len(p.errors) >= p.maxErrors {
		return ErrAnalysisStopped
	}
	p.synchronize()
	return errRecovered
}

// synchronize discards tokens up to the next statement terminator (consumed),
// brace or synchronization lexeme (both left in place).
func (p *Parser) synchronize() {
	for !p.ts.AtEnd() {
		tok := p.ts.Current()
		switch {
		case tok.Is(TokenDelim, ";"):
			p.ts.Advance()
			return
		case tok.Is(TokenDelim, "{"), tok.Is(TokenDelim, "}"):
			return
		case syncLiterals[p.ts.Literal()]:
			return
		}
		p.ts.Advance()
	}
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end; it skips one token if nothing was consumed.
func (p *Parser) mustProgress() func() bool {
	saved := p.ts.Index()
	return func() bool {
		if p.ts.Index() == saved {
			p.ts.Advance()
			return false
		}
		return true
	}
}

func (p *Parser) declare(name Token, typeName string, c Category, sc scope) {
	p.symbols = append(p.symbols, Symbol{
		Name:     name.Literal,
		Type:     typeName,
		Category: c,
		Context:  sc.describe(c),
		Pos:      name.Pos(),
		Class:    sc.className,
		Method:   sc.methodName,
	})
}

func (p *Parser) parseProgram() error {
	for !p.ts.AtEnd() {
		progressed := p.mustProgress()
		var err error
		if p.atKeyword("class") || p.at(TokenAccessModifier) {
			err = p.parseClass()
		} else {
			err = p.fail("code outside class structure")
		}
		if stopped(err) {
			return err
		}
		progressed()
	}
	return nil
}

func (p *Parser) parseClass() error {
	p.accept(TokenAccessModifier, "")

	var sc scope
	if !p.atKeyword("class") {
		if err := p.fail("expected reserved word 'class'"); stopped(err) {
			return err
		}
		sc = sc.inClass("<undefined>")
		for !p.ts.AtEnd() && !p.atDelim("{") {
			p.ts.Advance()
		}
	} else {
		p.ts.Advance()
		name, err := p.expect(TokenIdent, "")
		if stopped(err) {
			return err
		}
		if err != nil {
			sc = sc.inClass("<unnamed>")
		} else {
			sc = sc.inClass(name.Literal)
			p.declare(name, "class", CategoryClass, sc)
		}
	}

	if _, err := p.expect(TokenDelim, "{"); stopped(err) {
		return err
	}
	for !p.ts.AtEnd() && !p.atDelim("}") {
		progressed := p.mustProgress()
		if err := p.parseMember(sc); stopped(err) {
			return err
		}
		progressed()
	}
	_, err := p.expect(TokenDelim, "}")
	return err
}

func (p *Parser) isFieldStart() bool {
	return p.at(TokenAccessModifier) &&
		p.peekKind(1) == TokenType &&
		p.peekKind(2) == TokenIdent &&
		p.peekIs(3, TokenDelim, ";")
}

func (p *Parser) isConstructorStart() bool {
	if p.at(TokenAccessModifier) {
		return p.peekKind(1) == TokenIdent && p.peekIs(2, TokenDelim, "(")
	}
	return p.at(TokenIdent) && p.peekIs(1, TokenDelim, "(")
}

func (p *Parser) isMethodStart() bool {
	if p.at(TokenAnnotation) {
		return true
	}
	return p.at(TokenAccessModifier) &&
		(p.peekKind(1) == TokenType || p.peekIs(1, TokenKeyword, "void") || p.peekIs(1, TokenKeyword, "static"))
}

func (p *Parser) parseMember(sc scope) error {
	switch {
	case p.isFieldStart():
		return p.parseField(sc)
	case p.isConstructorStart():
		return p.parseConstructor(sc)
	case p.isMethodStart():
		return p.parseMethod(sc)
	}
	return p.fail("declaration not recognized inside class")
}

func (p *Parser) parseField(sc scope) error {
	if _, err := p.expect(TokenAccessModifier, ""); err != nil {
		return err
	}
	typ, err := p.expect(TokenType, "")
	if err != nil {
		return err
	}
	name, err := p.expect(TokenIdent, "")
	if err != nil {
		return err
	}
	p.declare(name, typ.Literal, CategoryField, sc)
	_, err = p.expect(TokenDelim, ";")
	return err
}

func (p *Parser) parseConstructor(sc scope) error {
	p.accept(TokenAccessModifier, "")
	name, err := p.expect(TokenIdent, "")
	if err != nil {
		return err
	}
	sc = sc.inMethod(name.Literal)
	return p.parseSignatureAndBody(sc)
}

func (p *Parser) parseMethod(sc scope) error {
	p.accept(TokenAnnotation, "")
	if _, err := p.expect(TokenAccessModifier, ""); err != nil {
		return err
	}
	p.accept(TokenKeyword, "static")

	returnType := "void"
	if !p.accept(TokenKeyword, "void") {
		typ, err := p.expect(TokenType, "")
		if err != nil {
			return err
		}
		returnType = typ.Literal
	}

	name, err := p.expect(TokenIdent, "")
	if err != nil {
		return err
	}
	p.declare(name, returnType, CategoryMethod, sc)
	sc = sc.inMethod(name.Literal)
	return p.parseSignatureAndBody(sc)
}

// parseSignatureAndBody parses "( params ) { body }" for methods and
// constructors.
func (p *Parser) parseSignatureAndBody(sc scope) error {
	if _, err := p.expect(TokenDelim, "("); err != nil {
		return err
	}
	if p.at(TokenType) {
		if err := p.parseParameters(sc); err != nil {
			return err
		}
	}
	if _, err := p.expect(TokenDelim, ")"); err != nil {
		return err
	}
	return p.parseBlock(sc)
}

func (p *Parser) parseParameters(sc scope) error {
	for {
		typeName, err := p.parseTypeName()
		if err != nil {
			return err
		}
		name, err := p.expect(TokenIdent, "")
		if err != nil {
			return err
		}
		p.declare(name, typeName, CategoryParameter, sc)
		if !p.accept(TokenDelim, ",") {
			return nil
		}
	}
}

// parseTypeName parses a type keyword with an optional "[]" suffix.
func (p *Parser) parseTypeName() (string, error) {
	typ, err := p.expect(TokenType, "")
	if err != nil {
		return "", err
	}
	if !p.accept(TokenDelim, "[") {
		return typ.Literal, nil
	}
	if _, err := p.expect(TokenDelim, "]"); err != nil {
		return "", err
	}
	return typ.Literal + "[]", nil
}

func (p *Parser) parseBlock(sc scope) error {
	if _, err := p.expect(TokenDelim, "{"); err != nil {
		return err
	}
	for !p.ts.AtEnd() && !p.atDelim("}") {
		progressed := p.mustProgress()
		if err := p.parseStatement(sc); stopped(err) {
			return err
		}
		progressed()
	}
	_, err := p.expect(TokenDelim, "}")
	return err
}

func (p *Parser) parseStatement(sc scope) error {
	switch {
	case p.at(TokenType) && (p.peekKind(1) == TokenIdent || p.peekIs(1, TokenDelim, "[")):
		return p.parseLocalDeclaration(sc)
	case p.at(TokenIdent) && p.peekKind(1) == TokenIdent:
		return p.parseObjectDeclaration(sc)
	case p.at(TokenPrint):
		return p.parsePrint()
	case p.atKeyword("return"):
		return p.parseReturn()
	case p.at(TokenIdent):
		return p.parseIdentStatement()
	case p.atKeyword("this"):
		return p.parseThisAssignment()
	}
	return p.fail("statement not recognized")
}

func (p *Parser) parseLocalDeclaration(sc scope) error {
	typeName, err := p.parseTypeName()
	if err != nil {
		return err
	}
	name, err := p.expect(TokenIdent, "")
	if err != nil {
		return err
	}
	p.declare(name, typeName, CategoryLocalVariable, sc)
	return p.parseInitializer()
}

func (p *Parser) parseObjectDeclaration(sc scope) error {
	typ, err := p.expect(TokenIdent, "")
	if err != nil {
		return err
	}
	name, err := p.expect(TokenIdent, "")
	if err != nil {
		return err
	}
	p.declare(name, typ.Literal, CategoryLocalObjectVariable, sc)
	return p.parseInitializer()
}

// parseInitializer parses the optional "= expr" of a declaration and its ";".
func (p *Parser) parseInitializer() error {
	if p.accept(TokenAssignOp, "=") {
		if err := p.parseExpression(); err != nil {
			return err
		}
	}
	_, err := p.expect(TokenDelim, ";")
	return err
}

func (p *Parser) parsePrint() error {
	if _, err := p.expect(TokenPrint, ""); err != nil {
		return err
	}
	if _, err := p.expect(TokenDelim, "("); err != nil {
		return err
	}
	if !p.atDelim(")") {
		if err := p.parseExpression(); err != nil {
			return err
		}
	}
	if _, err := p.expect(TokenDelim, ")"); err != nil {
		return err
	}
	_, err := p.expect(TokenDelim, ";")
	return err
}

func (p *Parser) parseReturn() error {
	if _, err := p.expect(TokenKeyword, "return"); err != nil {
		return err
	}
	if !p.atDelim(";") {
		if err := p.parseExpression(); err != nil {
			return err
		}
	}
	_, err := p.expect(TokenDelim, ";")
	return err
}

// parseIdentStatement parses assignments, calls and increments that start
// with a bare identifier. The token after the identifier picks the form.
func (p *Parser) parseIdentStatement() error {
	if _, err := p.expect(TokenIdent, ""); err != nil {
		return err
	}
	switch {
	case p.at(TokenAssignOp):
		p.ts.Advance()
		if err := p.parseExpression(); err != nil {
			return err
		}
	case p.atDelim(".") || p.atDelim("("):
		if err := p.parseCallTail(); err != nil {
			return err
		}
	case p.at(TokenIncDec):
		p.ts.Advance()
	default:
		return p.fail("invalid use of identifier as a statement")
	}
	_, err := p.expect(TokenDelim, ";")
	return err
}

func (p *Parser) parseThisAssignment() error {
	if _, err := p.expect(TokenKeyword, "this"); err != nil {
		return err
	}
	if _, err := p.expect(TokenDelim, "."); err != nil {
		return err
	}
	if _, err := p.expect(TokenIdent, ""); err != nil {
		return err
	}
	if _, err := p.expect(TokenAssignOp, "="); err != nil {
		return err
	}
	if err := p.parseExpression(); err != nil {
		return err
	}
	_, err := p.expect(TokenDelim, ";")
	return err
}

// parseExpression parses a flat chain of terms joined by binary operators,
// left to right and without precedence.
func (p *Parser) parseExpression() error {
	for {
		if err := p.parseTerm(); err != nil {
			return err
		}
		if !p.atBinaryOperator() {
			return nil
		}
		p.ts.Advance()
	}
}

func (p *Parser) atBinaryOperator() bool {
	tok := p.ts.Current()
	switch tok.Kind {
	case TokenArithOp, TokenRelOp:
		return true
	case TokenLogicOp:
		return tok.Literal != "!"
	}
	return false
}

func (p *Parser) parseTerm() error {
	tok := p.ts.Current()
	switch {
	case tok.Kind == TokenIdent:
		p.ts.Advance()
		if p.atDelim(".") || p.atDelim("(") {
			return p.parseCallTail()
		}
		return nil
	case tok.Kind == TokenIntLiteral, tok.Kind == TokenRealLiteral,
		tok.Kind == TokenStringLiteral, tok.Kind == TokenCharLiteral:
		p.ts.Advance()
		return nil
	case tok.Is(TokenKeyword, "new"):
		p.ts.Advance()
		if _, err := p.expect(TokenIdent, ""); err != nil {
			return err
		}
		return p.parseArguments()
	case tok.Is(TokenKeyword, "this"):
		p.ts.Advance()
		if _, err := p.expect(TokenDelim, "."); err != nil {
			return err
		}
		if _, err := p.expect(TokenIdent, ""); err != nil {
			return err
		}
		if p.atDelim(".") || p.atDelim("(") {
			return p.parseCallTail()
		}
		return nil
	case tok.Is(TokenDelim, "("):
		p.ts.Advance()
		if err := p.parseExpression(); err != nil {
			return err
		}
		_, err := p.expect(TokenDelim, ")")
		return err
	case tok.Is(TokenArithOp, "-"), tok.Is(TokenLogicOp, "!"):
		p.ts.Advance()
		return p.parseTerm()
	}
	return p.fail("expected expression")
}

// parseCallTail parses "{. Ident} ( args )" after the leading identifier of a
// method call.
func (p *Parser) parseCallTail() error {
	for p.accept(TokenDelim, ".") {
		if _, err := p.expect(TokenIdent, ""); err != nil {
			return err
		}
	}
	return p.parseArguments()
}

func (p *Parser) parseArguments() error {
	if _, err := p.expect(TokenDelim, "("); err != nil {
		return err
	}
	if !p.atDelim(")") {
		for {
			if err := p.parseExpression(); err != nil {
				return err
			}
			if !p.accept(TokenDelim, ",") {
				break
			}
		}
	}
	_, err := p.expect(TokenDelim, ")")
	return err
}
