package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/javalyzer/java/analysis"
)

// LineEncoder writes one tab-separated record per line, led by the record
// type, for consumption by grep, cut and awk.
type LineEncoder struct {
	payload
}

func NewLineEncoder(w io.Writer, sections Section) *LineEncoder {
	return &LineEncoder{payload{w: w, sections: sections}}
}

func (e *LineEncoder) Encode(res *analysis.Result) error {
	e.set(res, nil)
	return write(e.w, e)
}

func (e *LineEncoder) EncodeSummaries(summaries []analysis.Summary) error {
	e.set(nil, summaries)
	return write(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	if e.res == nil {
		for _, s := range e.summaries {
			e.writeSummary(&sb, "file", s)
		}
		e.writeSummary(&sb, "total", analysis.Totals(e.summaries))
		return []byte(sb.String()), nil
	}

	r := e.res
	if e.sections.Has(SectionTokens) {
		for _, tok := range r.Tokens {
			pos := tok.Pos()
			fmt.Fprintf(&sb, "token\t%d\t%d\t%s\t%s\n",
				pos.Line,
				pos.Column,
				tok.Kind,
				strconv.Quote(tok.Literal),
			)
		}
	}

	if e.sections.Has(SectionDiagnostics) {
		for _, d := range r.Diagnostics() {
			fmt.Fprintf(&sb, "error\t%d\t%d\t%s\t%s\n",
				d.Line,
				d.Column,
				d.Source,
				d.Message,
			)
		}
	}

	if e.sections.Has(SectionSymbols) {
		for _, s := range r.Symbols {
			fmt.Fprintf(&sb, "symbol\t%d\t%d\t%s\t%s\t%s\t%s\n",
				s.Pos.Line,
				s.Pos.Column,
				s.Name,
				s.Type,
				s.Category,
				s.Context,
			)
		}
	}

	return []byte(sb.String()), nil
}

func (e *LineEncoder) writeSummary(sb *strings.Builder, record string, s analysis.Summary) {
	path := s.Path
	if path == "" {
		path = "-"
	}
	fmt.Fprintf(sb, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
		record,
		path,
		s.Status,
		s.Tokens,
		s.LexicalErrors,
		s.SyntaxErrors,
		s.Symbols,
	)
}
