package analysis

type Status string

const (
	StatusClean  Status = "clean"
	StatusErrors Status = "errors"
	StatusFailed Status = "failed"
)

// Summary condenses one file's analysis into counts, for batch listings.
type Summary struct {
	Path          string `json:"path" yaml:"path"`
	Status        Status `json:"status" yaml:"status"`
	Stage         string `json:"stage,omitempty" yaml:"stage,omitempty"`
	Tokens        int    `json:"tokens" yaml:"tokens"`
	LexicalErrors int    `json:"lexicalErrors" yaml:"lexical_errors"`
	SyntaxErrors  int    `json:"syntaxErrors" yaml:"syntax_errors"`
	Symbols       int    `json:"symbols" yaml:"symbols"`
	Stopped       bool   `json:"stopped" yaml:"stopped"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (r *Result) Summary() Summary {
	s := Summary{
		Path:          r.Path,
		Status:        StatusClean,
		Stage:         r.Stage.String(),
		Tokens:        len(r.Tokens),
		LexicalErrors: len(r.LexicalErrors),
		SyntaxErrors:  len(r.SyntaxErrors),
		Symbols:       len(r.Symbols),
		Stopped:       r.Stopped,
	}
	if !r.Clean() {
		s.Status = StatusErrors
	}
	return s
}

// FailedSummary describes a file that could not be analyzed at all.
func FailedSummary(path string, err error) Summary {
	return Summary{
		Path:   path,
		Status: StatusFailed,
		Error:  err.Error(),
	}
}

// Totals adds up a batch. The returned summary has an empty path and the
// worst status of the batch.
func Totals(summaries []Summary) Summary {
	total := Summary{Status: StatusClean}
	for _, s := range summaries {
		total.Tokens += s.Tokens
		total.LexicalErrors += s.LexicalErrors
		total.SyntaxErrors += s.SyntaxErrors
		total.Symbols += s.Symbols
		switch {
		case s.Status == StatusFailed:
			total.Status = StatusFailed
		case s.Status == StatusErrors && total.Status == StatusClean:
			total.Status = StatusErrors
		}
	}
	return total
}
