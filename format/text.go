package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dhamidi/javalyzer/java/analysis"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorOK      = lipgloss.Color("#10B981")
	colorWarn    = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

type styles struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	fail   lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
}

func newStyles(color bool) styles {
	cell := lipgloss.NewStyle().Padding(0, 1)
	if !color {
		return styles{
			title:  lipgloss.NewStyle(),
			ok:     lipgloss.NewStyle(),
			warn:   lipgloss.NewStyle(),
			fail:   lipgloss.NewStyle(),
			header: cell,
			cell:   cell,
			border: lipgloss.NewStyle(),
		}
	}
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		ok:     lipgloss.NewStyle().Bold(true).Foreground(colorOK),
		warn:   lipgloss.NewStyle().Bold(true).Foreground(colorWarn),
		fail:   lipgloss.NewStyle().Bold(true).Foreground(colorError),
		header: cell.Bold(true).Foreground(colorPrimary),
		cell:   cell,
		border: lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// TextEncoder renders results as bordered tables with a status banner for
// reading in a terminal.
type TextEncoder struct {
	payload
	styles styles
}

func NewTextEncoder(w io.Writer, opts Options) *TextEncoder {
	return &TextEncoder{
		payload: payload{w: w, sections: opts.Sections},
		styles:  newStyles(opts.Color),
	}
}

func (e *TextEncoder) Encode(res *analysis.Result) error {
	e.set(res, nil)
	return write(e.w, e)
}

func (e *TextEncoder) EncodeSummaries(summaries []analysis.Summary) error {
	e.set(nil, summaries)
	return write(e.w, e)
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	var blocks []string
	if e.res == nil {
		blocks = e.summaryBlocks()
	} else {
		blocks = e.resultBlocks()
	}
	return []byte(strings.Join(blocks, "\n\n") + "\n"), nil
}

func (e *TextEncoder) resultBlocks() []string {
	r := e.res
	var blocks []string

	if r.Path != "" {
		blocks = append(blocks, e.styles.title.Render(r.Path))
	}

	if e.sections.Has(SectionTokens) {
		rows := make([][]string, 0, len(r.Tokens))
		for _, tok := range r.Tokens {
			pos := tok.Pos()
			rows = append(rows, []string{
				strconv.Itoa(pos.Line),
				strconv.Itoa(pos.Column),
				tok.Kind.String(),
				tok.Literal,
			})
		}
		blocks = append(blocks, e.section(fmt.Sprintf("Tokens (%d)", len(rows)),
			[]string{"Line", "Column", "Kind", "Lexeme"}, rows))
	}

	if e.sections.Has(SectionDiagnostics) {
		diags := r.Diagnostics()
		if len(diags) > 0 {
			rows := make([][]string, 0, len(diags))
			for _, d := range diags {
				rows = append(rows, []string{
					strconv.Itoa(d.Line),
					strconv.Itoa(d.Column),
					string(d.Source),
					d.Message,
				})
			}
			blocks = append(blocks, e.section(fmt.Sprintf("Errors (%d)", len(rows)),
				[]string{"Line", "Column", "Stage", "Message"}, rows))
		}
	}

	if e.sections.Has(SectionSymbols) && r.Stage == analysis.StageSyntax {
		rows := make([][]string, 0, len(r.Symbols))
		for _, s := range r.Symbols {
			rows = append(rows, []string{
				s.Name,
				s.Type,
				s.Category.String(),
				s.Context,
				s.Pos.String(),
			})
		}
		blocks = append(blocks, e.section(fmt.Sprintf("Symbols (%d)", len(rows)),
			[]string{"Identifier", "Type", "Category", "Context", "Position"}, rows))
	}

	blocks = append(blocks, e.banner(r))
	return blocks
}

func (e *TextEncoder) banner(r *analysis.Result) string {
	switch {
	case r.Clean():
		return e.styles.ok.Render("✔ Analysis completed without errors")
	case r.Stage == analysis.StageLexical:
		return e.styles.fail.Render(fmt.Sprintf("✘ %d lexical error(s), parsing skipped", len(r.LexicalErrors)))
	case r.Stopped:
		return e.styles.fail.Render(fmt.Sprintf("✘ Analysis stopped after %d syntax error(s)", len(r.SyntaxErrors)))
	}
	return e.styles.warn.Render(fmt.Sprintf("✘ %d error(s) found", r.ErrorCount()))
}

func (e *TextEncoder) summaryBlocks() []string {
	rows := make([][]string, 0, len(e.summaries))
	for _, s := range e.summaries {
		status := string(s.Status)
		if s.Error != "" {
			status += ": " + s.Error
		}
		rows = append(rows, []string{
			s.Path,
			status,
			strconv.Itoa(s.LexicalErrors),
			strconv.Itoa(s.SyntaxErrors),
			strconv.Itoa(s.Symbols),
		})
	}

	total := analysis.Totals(e.summaries)
	var banner string
	switch total.Status {
	case analysis.StatusClean:
		banner = e.styles.ok.Render(fmt.Sprintf("✔ %d file(s) clean", len(e.summaries)))
	case analysis.StatusErrors:
		banner = e.styles.warn.Render(fmt.Sprintf("✘ %d error(s) in %d file(s)",
			total.LexicalErrors+total.SyntaxErrors, len(e.summaries)))
	default:
		banner = e.styles.fail.Render(fmt.Sprintf("✘ some of %d file(s) could not be analyzed", len(e.summaries)))
	}

	return []string{
		e.section(fmt.Sprintf("Files (%d)", len(rows)),
			[]string{"Path", "Status", "Lexical", "Syntax", "Symbols"}, rows),
		banner,
	}
}

func (e *TextEncoder) section(title string, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(e.styles.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return e.styles.header
			}
			return e.styles.cell
		})
	return e.styles.title.Render(title) + "\n" + t.String()
}
