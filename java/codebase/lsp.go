package codebase

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dhamidi/javalyzer/config"
	"github.com/dhamidi/javalyzer/java/analysis"
	"github.com/dhamidi/javalyzer/java/parser"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "javalyzer"

type LSPServer struct {
	codebase *Codebase
	cfg      config.AnalysisConfig
	handler  protocol.Handler
	server   *server.Server
	version  string
}

func NewLSPServer(version string, cfg config.AnalysisConfig) *LSPServer {
	ls := &LSPServer{
		version: version,
		cfg:     cfg,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentCompletion:     ls.textDocumentCompletion,
		TextDocumentHover:          ls.textDocumentHover,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) RunTCP(addr string) error {
	return ls.server.RunTCP(addr)
}

func (ls *LSPServer) RunWebSocket(addr string) error {
	return ls.server.RunWebSocket(addr)
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.cfg)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(context.Background()); err != nil {
		log.Errorf("scan %s: %s", ls.codebase.RootDir(), err)
	}
	log.Infof("indexed %d file(s) under %s", len(ls.codebase.Paths()), ls.codebase.RootDir())
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	info := ls.codebase.UpdateFile(context.Background(), path, []byte(params.TextDocument.Text))
	ls.publishDiagnostics(ctx, params.TextDocument.URI, info)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			info := ls.codebase.UpdateFile(context.Background(), path, []byte(textChange.Text))
			ls.publishDiagnostics(ctx, params.TextDocument.URI, info)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	var info *FileInfo
	if params.Text != nil {
		info = ls.codebase.UpdateFile(context.Background(), path, []byte(*params.Text))
	} else {
		info = ls.codebase.ScanFile(context.Background(), path)
	}
	ls.publishDiagnostics(ctx, params.TextDocument.URI, info)
	return nil
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, info *FileInfo) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toDiagnostics(info),
	})
}

func toDiagnostics(info *FileInfo) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	if info == nil {
		return diags
	}
	severity := protocol.DiagnosticSeverityError

	if info.Err != nil || info.Result == nil {
		source := lsName
		message := "analysis failed"
		if info.Err != nil {
			message = info.Err.Error()
		}
		return append(diags, protocol.Diagnostic{
			Range:    protocol.Range{},
			Severity: &severity,
			Source:   &source,
			Message:  message,
		})
	}

	li := newLineIndex(info.Content)
	for _, d := range info.Result.Diagnostics() {
		source := lsName + "/" + string(d.Source)
		diags = append(diags, protocol.Diagnostic{
			Range:    li.toRange(d.Pos, d.Length),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return diags
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	file := ls.codebase.GetFile(path)
	if file == nil || file.Result == nil {
		return []protocol.DocumentSymbol{}, nil
	}
	return documentSymbols(file.Result.Symbols, newLineIndex(file.Content)), nil
}

// documentSymbols nests the flat symbol table: members under their class,
// parameters and locals under their method. Constructor parameters and locals
// hang off the class since constructors are not registered.
func documentSymbols(symbols []parser.Symbol, li lineIndex) []protocol.DocumentSymbol {
	out := []protocol.DocumentSymbol{}
	for _, sym := range symbols {
		ds := toDocumentSymbol(sym, li)
		if sym.Category == parser.CategoryClass || len(out) == 0 {
			out = append(out, ds)
			continue
		}

		class := &out[len(out)-1]
		switch sym.Category {
		case parser.CategoryField, parser.CategoryMethod:
			class.Children = append(class.Children, ds)
		default:
			if n := len(class.Children); n > 0 {
				last := &class.Children[n-1]
				if last.Kind == protocol.SymbolKindMethod && last.Name == sym.Method {
					last.Children = append(last.Children, ds)
					continue
				}
			}
			class.Children = append(class.Children, ds)
		}
	}
	return out
}

func toDocumentSymbol(sym parser.Symbol, li lineIndex) protocol.DocumentSymbol {
	detail := sym.Type
	r := li.toRange(sym.Pos, len([]rune(sym.Name)))
	return protocol.DocumentSymbol{
		Name:           sym.Name,
		Detail:         &detail,
		Kind:           symbolKind(sym.Category),
		Range:          r,
		SelectionRange: r,
	}
}

func symbolKind(c parser.Category) protocol.SymbolKind {
	switch c {
	case parser.CategoryClass:
		return protocol.SymbolKindClass
	case parser.CategoryField:
		return protocol.SymbolKindField
	case parser.CategoryMethod:
		return protocol.SymbolKindMethod
	default:
		return protocol.SymbolKindVariable
	}
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	file := ls.codebase.GetFile(path)
	if file == nil {
		return nil, nil
	}
	li := newLineIndex(file.Content)

	line := int(params.Position.Line) + 1
	col := li.runeOffset(line, int(params.Position.Character)) + 1

	sym, ok := ls.hoverSymbol(path, line, col)
	if !ok {
		return nil, nil
	}

	r := li.toRange(sym.Pos, len([]rune(sym.Name)))
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: hoverText(sym),
		},
		Range: &r,
	}, nil
}

// hoverSymbol resolves the identifier under the cursor to its declaration,
// preferring declarations in the same file and the same method.
func (ls *LSPServer) hoverSymbol(path string, line, col int) (parser.Symbol, bool) {
	if sym, ok := ls.codebase.SymbolAt(path, line, col); ok {
		return sym, true
	}
	tok, ok := ls.codebase.IdentifierAt(path, line, col)
	if !ok {
		return parser.Symbol{}, false
	}

	decls := ls.codebase.Declarations(tok.Literal)
	var best *Declaration
	for i := range decls {
		d := &decls[i]
		if d.Path != path {
			if best == nil {
				best = d
			}
			continue
		}
		if best == nil || best.Path != path || d.Symbol.Pos.Before(tok.Pos()) {
			best = d
		}
	}
	if best == nil {
		return parser.Symbol{}, false
	}
	return best.Symbol, true
}

func hoverText(sym parser.Symbol) string {
	return fmt.Sprintf("```java\n%s %s\n```\n%s, %s (line %d)",
		sym.Type, sym.Name, sym.Category, sym.Context, sym.Pos.Line)
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	file := ls.codebase.GetFile(path)
	if file == nil || file.Result == nil {
		return nil, nil
	}
	return completionItems(file.Result), nil
}

// completionItems offers every distinct name declared in the file.
func completionItems(res *analysis.Result) []protocol.CompletionItem {
	seen := make(map[string]bool)
	var items []protocol.CompletionItem
	for _, sym := range res.Symbols {
		if seen[sym.Name] {
			continue
		}
		seen[sym.Name] = true

		kind := completionKind(sym.Category)
		detail := sym.Type + " - " + sym.Context
		items = append(items, protocol.CompletionItem{
			Label:  sym.Name,
			Kind:   &kind,
			Detail: &detail,
		})
	}
	return items
}

func completionKind(c parser.Category) protocol.CompletionItemKind {
	switch c {
	case parser.CategoryClass:
		return protocol.CompletionItemKindClass
	case parser.CategoryField:
		return protocol.CompletionItemKindField
	case parser.CategoryMethod:
		return protocol.CompletionItemKindMethod
	default:
		return protocol.CompletionItemKindVariable
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
