package format

import (
	"bytes"
	"io"

	"github.com/dhamidi/javalyzer/java/analysis"
	"gopkg.in/yaml.v3"
)

type YAMLEncoder struct {
	payload
}

func NewYAMLEncoder(w io.Writer, sections Section) *YAMLEncoder {
	return &YAMLEncoder{payload{w: w, sections: sections}}
}

func (e *YAMLEncoder) Encode(res *analysis.Result) error {
	e.set(res, nil)
	return write(e.w, e)
}

func (e *YAMLEncoder) EncodeSummaries(summaries []analysis.Summary) error {
	e.set(nil, summaries)
	return write(e.w, e)
}

type yamlResult struct {
	ID          string           `yaml:"id"`
	Path        string           `yaml:"path,omitempty"`
	Stage       string           `yaml:"stage"`
	Clean       bool             `yaml:"clean"`
	Stopped     bool             `yaml:"stopped"`
	Tokens      []yamlToken      `yaml:"tokens,omitempty"`
	Diagnostics []yamlDiagnostic `yaml:"diagnostics,omitempty"`
	Symbols     []yamlSymbol     `yaml:"symbols,omitempty"`
}

type yamlToken struct {
	Lexeme string `yaml:"lexeme"`
	Kind   string `yaml:"kind"`
	Line   int    `yaml:"line"`
	Column int    `yaml:"column"`
}

type yamlDiagnostic struct {
	Source  string `yaml:"source"`
	Message string `yaml:"message"`
	Line    int    `yaml:"line"`
	Column  int    `yaml:"column"`
}

type yamlSymbol struct {
	Identifier string `yaml:"identifier"`
	Type       string `yaml:"type"`
	Category   string `yaml:"category"`
	Context    string `yaml:"context"`
	Line       int    `yaml:"line"`
	Column     int    `yaml:"column"`
}

type yamlBatch struct {
	Files []analysis.Summary `yaml:"files"`
	Total analysis.Summary   `yaml:"total"`
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	var data any
	if e.res != nil {
		data = e.buildResultData()
	} else {
		data = yamlBatch{
			Files: e.summaries,
			Total: analysis.Totals(e.summaries),
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *YAMLEncoder) buildResultData() yamlResult {
	r := e.res
	data := yamlResult{
		ID:      r.ID.String(),
		Path:    r.Path,
		Stage:   r.Stage.String(),
		Clean:   r.Clean(),
		Stopped: r.Stopped,
	}

	if e.sections.Has(SectionTokens) {
		for _, tok := range r.Tokens {
			pos := tok.Pos()
			data.Tokens = append(data.Tokens, yamlToken{
				Lexeme: tok.Literal,
				Kind:   tok.Kind.String(),
				Line:   pos.Line,
				Column: pos.Column,
			})
		}
	}

	if e.sections.Has(SectionDiagnostics) {
		for _, d := range r.Diagnostics() {
			data.Diagnostics = append(data.Diagnostics, yamlDiagnostic{
				Source:  string(d.Source),
				Message: d.Message,
				Line:    d.Line,
				Column:  d.Column,
			})
		}
	}

	if e.sections.Has(SectionSymbols) {
		for _, s := range r.Symbols {
			data.Symbols = append(data.Symbols, yamlSymbol{
				Identifier: s.Name,
				Type:       s.Type,
				Category:   s.Category.String(),
				Context:    s.Context,
				Line:       s.Pos.Line,
				Column:     s.Pos.Column,
			})
		}
	}

	return data
}
