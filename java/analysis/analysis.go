// Package analysis runs the scanner and parser over one source text and
// collects tokens, diagnostics and symbols into a Result.
package analysis

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dhamidi/javalyzer/config"
	"github.com/dhamidi/javalyzer/java/parser"
	"github.com/google/uuid"
)

// Stage tells how far an analysis got.
type Stage int

const (
	// StageLexical means scanning reported errors and parsing was skipped.
	StageLexical Stage = iota
	// StageSyntax means the parser ran over the token stream.
	StageSyntax
)

func (s Stage) String() string {
	switch s {
	case StageLexical:
		return "lexical"
	case StageSyntax:
		return "syntax"
	}
	return "unknown"
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Result struct {
	ID            uuid.UUID             `json:"id"`
	Path          string                `json:"path,omitempty"`
	Stage         Stage                 `json:"stage"`
	Tokens        []parser.Token        `json:"tokens"`
	LexicalErrors []parser.LexicalError `json:"lexicalErrors"`
	SyntaxErrors  []parser.SyntaxError  `json:"syntaxErrors"`
	Symbols       []parser.Symbol       `json:"symbols"`
	// Stopped is set when the syntax error cap ended parsing early.
	Stopped  bool          `json:"stopped"`
	Duration time.Duration `json:"duration"`
}

// Clean reports whether the source produced no diagnostics at all.
func (r *Result) Clean() bool {
	return len(r.LexicalErrors) == 0 && len(r.SyntaxErrors) == 0
}

// ErrorCount returns the number of lexical and syntax errors.
func (r *Result) ErrorCount() int {
	return len(r.LexicalErrors) + len(r.SyntaxErrors)
}

// Analyze scans src and, unless scanning failed and cfg says otherwise,
// parses the tokens.
func Analyze(src string, cfg config.AnalysisConfig) *Result {
	start := time.Now()
	res := &Result{
		ID:    uuid.New(),
		Stage: StageLexical,
	}

	res.Tokens, res.LexicalErrors = parser.Scan(src)
	if len(res.LexicalErrors) == 0 || cfg.ParseOnLexicalErrors {
		parsed := parser.Parse(res.Tokens, parser.WithMaxErrors(cfg.MaxErrors))
		res.Stage = StageSyntax
		res.SyntaxErrors = parsed.Errors
		res.Symbols = parsed.Symbols
		res.Stopped = parsed.Stopped
	}

	res.Duration = time.Since(start)
	return res
}

// RunContext runs Analyze off the calling goroutine and gives up when ctx is
// done first. The abandoned analysis finishes in the background.
func RunContext(ctx context.Context, src string, cfg config.AnalysisConfig) (*Result, error) {
	done := make(chan *Result, 1)
	go func() {
		done <- Analyze(src, cfg)
	}()

	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AnalyzeFile reads path and analyzes it within cfg.Timeout.
func AnalyzeFile(ctx context.Context, path string, cfg config.AnalysisConfig) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return AnalyzeSource(ctx, path, data, cfg)
}

// AnalyzeSource analyzes content on behalf of path within cfg.Timeout.
func AnalyzeSource(ctx context.Context, path string, content []byte, cfg config.AnalysisConfig) (*Result, error) {
	if cfg.Timeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout.Duration)
		defer cancel()
	}

	res, err := RunContext(ctx, string(content), cfg)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", path, err)
	}
	res.Path = path
	return res, nil
}
