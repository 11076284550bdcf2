package parser

import "encoding/json"

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonToken struct {
	Lexeme string `json:"lexeme"`
	Kind   string `json:"kind"`
	jsonPosition
}

type jsonLexicalError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Text    string `json:"text"`
	jsonPosition
}

type jsonSyntaxError struct {
	Message string `json:"message"`
	Found   string `json:"found"`
	jsonPosition
}

type jsonSymbol struct {
	Identifier string `json:"identifier"`
	Type       string `json:"type"`
	Category   string `json:"category"`
	Context    string `json:"context"`
	jsonPosition
}

func toJSONPosition(p Position) jsonPosition {
	return jsonPosition{Line: p.Line, Column: p.Column}
}

func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonToken{
		Lexeme:       t.Literal,
		Kind:         t.Kind.String(),
		jsonPosition: toJSONPosition(t.Span.Start),
	})
}

func (e LexicalError) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonLexicalError{
		Kind:         e.Kind.String(),
		Message:      e.Message(),
		Text:         e.Text,
		jsonPosition: toJSONPosition(e.Pos),
	})
}

func (e SyntaxError) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonSyntaxError{
		Message:      e.Message,
		Found:        e.Found.String(),
		jsonPosition: toJSONPosition(e.Pos),
	})
}

func (s Symbol) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonSymbol{
		Identifier:   s.Name,
		Type:         s.Type,
		Category:     s.Category.String(),
		Context:      s.Context,
		jsonPosition: toJSONPosition(s.Pos),
	})
}
