package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/javalyzer/java/analysis"
)

// Section selects which parts of a result an encoder writes.
type Section int

const (
	SectionTokens Section = 1 << iota
	SectionDiagnostics
	SectionSymbols

	SectionAll = SectionTokens | SectionDiagnostics | SectionSymbols
)

func (s Section) Has(other Section) bool {
	return s&other != 0
}

// Encoder writes one analysis result, or a batch of file summaries, to its
// writer. MarshalText renders whatever was passed last.
type Encoder interface {
	encoding.TextMarshaler
	Encode(res *analysis.Result) error
	EncodeSummaries(summaries []analysis.Summary) error
}

type Options struct {
	Sections Section
	Color    bool
}

var Names = []string{"text", "json", "yaml", "line"}

// New returns the encoder registered under name.
func New(name string, w io.Writer, opts Options) (Encoder, error) {
	if opts.Sections == 0 {
		opts.Sections = SectionAll
	}
	switch name {
	case "text":
		return NewTextEncoder(w, opts), nil
	case "json":
		return NewJSONEncoder(w, opts.Sections), nil
	case "yaml":
		return NewYAMLEncoder(w, opts.Sections), nil
	case "line":
		return NewLineEncoder(w, opts.Sections), nil
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}

// payload is the state shared by every encoder: either a single result or a
// batch of summaries.
type payload struct {
	w         io.Writer
	sections  Section
	res       *analysis.Result
	summaries []analysis.Summary
}

func (p *payload) set(res *analysis.Result, summaries []analysis.Summary) {
	p.res = res
	p.summaries = summaries
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
