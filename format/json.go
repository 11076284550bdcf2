package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/javalyzer/java/analysis"
	"github.com/dhamidi/javalyzer/java/parser"
)

type JSONEncoder struct {
	payload
}

func NewJSONEncoder(w io.Writer, sections Section) *JSONEncoder {
	return &JSONEncoder{payload{w: w, sections: sections}}
}

func (e *JSONEncoder) Encode(res *analysis.Result) error {
	e.set(res, nil)
	return write(e.w, e)
}

func (e *JSONEncoder) EncodeSummaries(summaries []analysis.Summary) error {
	e.set(nil, summaries)
	return write(e.w, e)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	var data any
	if e.res != nil {
		data = e.buildResultData()
	} else {
		data = jsonBatch{
			Files: e.summaries,
			Total: analysis.Totals(e.summaries),
		}
	}
	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}

type jsonResult struct {
	ID            string                `json:"id"`
	Path          string                `json:"path,omitempty"`
	Stage         analysis.Stage        `json:"stage"`
	Clean         bool                  `json:"clean"`
	Stopped       bool                  `json:"stopped"`
	Tokens        []parser.Token        `json:"tokens,omitempty"`
	LexicalErrors []parser.LexicalError `json:"lexicalErrors,omitempty"`
	SyntaxErrors  []parser.SyntaxError  `json:"syntaxErrors,omitempty"`
	Symbols       []parser.Symbol       `json:"symbols,omitempty"`
}

type jsonBatch struct {
	Files []analysis.Summary `json:"files"`
	Total analysis.Summary   `json:"total"`
}

func (e *JSONEncoder) buildResultData() jsonResult {
	r := e.res
	data := jsonResult{
		ID:      r.ID.String(),
		Path:    r.Path,
		Stage:   r.Stage,
		Clean:   r.Clean(),
		Stopped: r.Stopped,
	}
	if e.sections.Has(SectionTokens) {
		data.Tokens = r.Tokens
	}
	if e.sections.Has(SectionDiagnostics) {
		data.LexicalErrors = r.LexicalErrors
		data.SyntaxErrors = r.SyntaxErrors
	}
	if e.sections.Has(SectionSymbols) {
		data.Symbols = r.Symbols
	}
	return data
}
