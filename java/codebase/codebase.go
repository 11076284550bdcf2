package codebase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dhamidi/javalyzer/config"
	"github.com/dhamidi/javalyzer/java/analysis"
	"github.com/dhamidi/javalyzer/java/parser"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("javalyzer.codebase")

// Codebase keeps the latest analysis of every source file under a root
// directory. Documents pushed by an editor replace what is on disk.
type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	cfg     config.AnalysisConfig
	files   map[string]*FileInfo
}

type FileInfo struct {
	Path    string
	Content []byte
	Result  *analysis.Result
	Err     error
}

func (f *FileInfo) Summary() analysis.Summary {
	if f.Err != nil || f.Result == nil {
		err := f.Err
		if err == nil {
			err = fmt.Errorf("%s was not analyzed", f.Path)
		}
		return analysis.FailedSummary(f.Path, err)
	}
	return f.Result.Summary()
}

func New(rootDir string, cfg config.AnalysisConfig) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		cfg:     cfg,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) Config() config.AnalysisConfig {
	return c.cfg
}

// ScanAll analyzes every source file below the root directory, skipping
// hidden directories.
func (c *Codebase) ScanAll(ctx context.Context) error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warningf("walk %s: %s", path, err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if info.IsDir() {
			if path != c.rootDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if c.cfg.HasExtension(path) {
			c.ScanFile(ctx, path)
		}
		return nil
	})
}

func (c *Codebase) ScanFile(ctx context.Context, path string) *FileInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("read %s: %s", path, err)
		info := &FileInfo{Path: path, Err: err}
		c.mu.Lock()
		c.files[path] = info
		c.mu.Unlock()
		return info
	}
	return c.UpdateFile(ctx, path, content)
}

// UpdateFile analyzes content as the new text of path and stores the result.
func (c *Codebase) UpdateFile(ctx context.Context, path string, content []byte) *FileInfo {
	res, err := analysis.AnalyzeSource(ctx, path, content, c.cfg)
	if err != nil {
		log.Errorf("%s", err)
	} else {
		log.Debugf("analyzed %s: %d tokens, %d errors, %d symbols",
			path, len(res.Tokens), res.ErrorCount(), len(res.Symbols))
	}

	info := &FileInfo{
		Path:    path,
		Content: content,
		Result:  res,
		Err:     err,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = info
	return info
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths lists the known files in lexical order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

// Summaries returns one summary per known file, in path order.
func (c *Codebase) Summaries() []analysis.Summary {
	var out []analysis.Summary
	for _, path := range c.Paths() {
		f := c.GetFile(path)
		if f != nil {
			out = append(out, f.Summary())
		}
	}
	return out
}

// SymbolAt returns the declaration whose name covers the 1-based line and
// column of path.
func (c *Codebase) SymbolAt(path string, line, column int) (parser.Symbol, bool) {
	f := c.GetFile(path)
	if f == nil || f.Result == nil {
		return parser.Symbol{}, false
	}
	return f.Result.SymbolAt(line, column)
}

// Declarations returns every symbol named name across the codebase.
func (c *Codebase) Declarations(name string) []Declaration {
	var out []Declaration
	for _, path := range c.Paths() {
		f := c.GetFile(path)
		if f == nil || f.Result == nil {
			continue
		}
		for _, sym := range f.Result.Lookup(name) {
			out = append(out, Declaration{Path: path, Symbol: sym})
		}
	}
	return out
}

type Declaration struct {
	Path   string
	Symbol parser.Symbol
}

// IdentifierAt returns the identifier token under the 1-based line and
// column of path, if any.
func (c *Codebase) IdentifierAt(path string, line, column int) (parser.Token, bool) {
	f := c.GetFile(path)
	if f == nil || f.Result == nil {
		return parser.Token{}, false
	}
	for _, tok := range f.Result.Tokens {
		pos := tok.Pos()
		if tok.Kind != parser.TokenIdent || pos.Line != line {
			continue
		}
		if column >= pos.Column && column < pos.Column+len([]rune(tok.Literal)) {
			return tok, true
		}
	}
	return parser.Token{}, false
}
