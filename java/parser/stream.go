package parser

// TokenStream is a read-only cursor over a scanned token sequence.
type TokenStream struct {
	tokens []Token
	pos    int
	eof    Token
}

func NewTokenStream(tokens []Token) *TokenStream {
	end := Position{Line: 1, Column: 1}
	if n := len(tokens); n > 0 {
		end = tokens[n-1].Span.End
	}
	return &TokenStream{
		tokens: tokens,
		eof:    Token{Kind: TokenEOF, Span: Span{Start: end, End: end}},
	}
}

// Current returns the token under the cursor, or an EOF token positioned just
// after the last token.
func (s *TokenStream) Current() Token {
	if s.pos >= len(s.tokens) {
		return s.eof
	}
	return s.tokens[s.pos]
}

func (s *TokenStream) Kind() TokenKind {
	return s.Current().Kind
}

// Literal returns the current lexeme, or "EOF" past the end.
func (s *TokenStream) Literal() string {
	if s.pos >= len(s.tokens) {
		return "EOF"
	}
	return s.tokens[s.pos].Literal
}

func (s *TokenStream) Advance() {
	if s.pos < len(s.tokens) {
		s.pos++
	}
}

// Peek returns the token k positions ahead of the cursor. Peek(0) is the
// current token.
func (s *TokenStream) Peek(k int) (Token, bool) {
	i := s.pos + k
	if k < 0 || i >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[i], true
}

func (s *TokenStream) AtEnd() bool {
	return s.pos >= len(s.tokens)
}

func (s *TokenStream) Index() int {
	return s.pos
}
