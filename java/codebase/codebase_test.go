package codebase

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dhamidi/javalyzer/config"
	"github.com/dhamidi/javalyzer/java/analysis"
	"github.com/dhamidi/javalyzer/java/parser"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const pointSource = `class Point {
    private int x;
    private int y;

    public Point(int x, int y) {
        this.x = x;
        this.y = y;
    }

    public int getX() {
        int copy = x;
        return copy;
    }
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newCodebase(dir string) *Codebase {
	return New(dir, config.Default().Analysis)
}

func TestScanAll(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "Point.java", pointSource)
	bad := writeFile(t, dir, "pkg/Broken.java", "class Broken { x }")
	writeFile(t, dir, ".hidden/Skipped.java", "class Skipped {}")
	writeFile(t, dir, "notes.txt", "not java")

	c := newCodebase(dir)
	if err := c.ScanAll(context.Background()); err != nil {
		t.Fatalf("ScanAll() error = %v", err)
	}

	paths := c.Paths()
	if len(paths) != 2 {
		t.Fatalf("Paths() = %v, want 2 files", paths)
	}

	if f := c.GetFile(good); f == nil || !f.Result.Clean() {
		t.Errorf("GetFile(%s) = %+v, want clean result", good, f)
	}
	if f := c.GetFile(bad); f == nil || f.Result.Clean() {
		t.Errorf("GetFile(%s) = %+v, want errors", bad, f)
	}

	summaries := c.Summaries()
	if got := analysis.Totals(summaries).Status; got != analysis.StatusErrors {
		t.Errorf("total status = %q, want errors", got)
	}

	c.RemoveFile(bad)
	if c.GetFile(bad) != nil {
		t.Error("file still present after RemoveFile")
	}
}

func TestScanFileMissing(t *testing.T) {
	c := newCodebase(t.TempDir())
	info := c.ScanFile(context.Background(), "/does/not/exist.java")
	if info.Err == nil {
		t.Fatal("ScanFile() of a missing file has no error")
	}
	summaries := c.Summaries()
	if len(summaries) != 1 || summaries[0].Status != analysis.StatusFailed {
		t.Errorf("Summaries() = %+v", summaries)
	}
}

func TestSymbolLookups(t *testing.T) {
	c := newCodebase(t.TempDir())
	c.UpdateFile(context.Background(), "Point.java", []byte(pointSource))

	sym, ok := c.SymbolAt("Point.java", 2, 17)
	if !ok || sym.Name != "x" || sym.Category != parser.CategoryField {
		t.Errorf("SymbolAt(2, 17) = %+v, %v", sym, ok)
	}

	tok, ok := c.IdentifierAt("Point.java", 11, 20)
	if !ok || tok.Literal != "x" {
		t.Errorf("IdentifierAt(11, 20) = %v, %v", tok, ok)
	}

	decls := c.Declarations("x")
	if len(decls) != 2 {
		t.Fatalf("Declarations(x) = %+v, want field and parameter", decls)
	}
	if decls[1].Symbol.Category != parser.CategoryParameter || decls[1].Symbol.Method != "Point" {
		t.Errorf("second declaration = %+v", decls[1].Symbol)
	}
}

func TestDocumentSymbols(t *testing.T) {
	res := analysis.Analyze(pointSource, config.Default().Analysis)
	symbols := documentSymbols(res.Symbols, newLineIndex([]byte(pointSource)))

	if len(symbols) != 1 || symbols[0].Name != "Point" || symbols[0].Kind != protocol.SymbolKindClass {
		t.Fatalf("top level = %+v", symbols)
	}

	var names []string
	for _, child := range symbols[0].Children {
		names = append(names, child.Name)
	}
	// Constructor parameters hang off the class.
	want := []string{"x", "y", "x", "y", "getX"}
	if len(names) != len(want) {
		t.Fatalf("children = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("child %d = %q, want %q", i, names[i], want[i])
		}
	}

	getX := symbols[0].Children[4]
	if getX.Kind != protocol.SymbolKindMethod || len(getX.Children) != 1 || getX.Children[0].Name != "copy" {
		t.Errorf("getX = %+v", getX)
	}
	if r := getX.Range; r.Start.Line != 9 || r.Start.Character != 15 || r.End.Character != 19 {
		t.Errorf("getX range = %+v", r)
	}
}

func TestToDiagnostics(t *testing.T) {
	c := newCodebase(t.TempDir())
	info := c.UpdateFile(context.Background(), "A.java", []byte("class A {\n  private int ;\n}"))

	diags := toDiagnostics(info)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	d := diags[0]
	if d.Range.Start.Line != 1 || d.Range.Start.Character != 14 || d.Range.End.Character != 15 {
		t.Errorf("range = %+v", d.Range)
	}
	if *d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("severity = %v", *d.Severity)
	}
	if *d.Source != "javalyzer/syntax" {
		t.Errorf("source = %q", *d.Source)
	}

	clean := c.UpdateFile(context.Background(), "A.java", []byte("class A {}"))
	if diags := toDiagnostics(clean); diags == nil || len(diags) != 0 {
		t.Errorf("clean file diagnostics = %v, want empty non-nil slice", diags)
	}
}

func TestHoverSymbol(t *testing.T) {
	ls := NewLSPServer("test", config.Default().Analysis)
	ls.codebase = newCodebase(t.TempDir())
	ls.codebase.UpdateFile(context.Background(), "Point.java", []byte(pointSource))

	// "x" in "int copy = x;" resolves to the constructor parameter, the
	// nearest earlier declaration in the file.
	sym, ok := ls.hoverSymbol("Point.java", 11, 20)
	if !ok || sym.Name != "x" {
		t.Fatalf("hoverSymbol = %+v, %v", sym, ok)
	}
	if sym.Pos.Line != 5 {
		t.Errorf("resolved declaration on line %d, want 5", sym.Pos.Line)
	}

	if _, ok := ls.hoverSymbol("Point.java", 1, 1); ok {
		t.Error("hover on a keyword resolved a symbol")
	}

	items := completionItems(ls.codebase.GetFile("Point.java").Result)
	if len(items) != 5 {
		t.Errorf("got %d completion items, want 5 distinct names", len(items))
	}
}

func TestFileWatcher(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "A.java", "class A {}")

	c := newCodebase(dir)
	var events []string
	w := NewFileWatcher(c, time.Hour, func(p string, info *FileInfo) {
		if info == nil {
			events = append(events, "removed "+filepath.Base(p))
			return
		}
		events = append(events, "analyzed "+filepath.Base(p))
	})

	if n := w.Scan(); n != 1 {
		t.Errorf("first Scan() = %d, want 1", n)
	}
	if n := w.Scan(); n != 0 {
		t.Errorf("second Scan() = %d, want 0", n)
	}

	later := time.Now().Add(time.Minute)
	if err := os.WriteFile(path, []byte("class A { x }"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	if n := w.Scan(); n != 1 {
		t.Errorf("Scan() after modification = %d, want 1", n)
	}
	if f := c.GetFile(path); f == nil || f.Result.Clean() {
		t.Error("modified file was not re-analyzed")
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if n := w.Scan(); n != 1 {
		t.Errorf("Scan() after removal = %d, want 1", n)
	}

	want := []string{"analyzed A.java", "analyzed A.java", "removed A.java"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, events[i], want[i])
		}
	}
}

func TestFileWatcherScanWhileRunning(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"A.java", "b/B.java", "c/C.java"} {
		writeFile(t, dir, name, "class X {}")
	}

	c := newCodebase(dir)
	w := NewFileWatcher(c, time.Millisecond, nil)
	w.Start()

	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := w.Scan()
			mu.Lock()
			total += n
			mu.Unlock()
		}()
	}
	wg.Wait()
	w.Stop()

	if n := w.Scan(); n != 0 {
		t.Errorf("Scan() after settling = %d, want 0", n)
	}
	if got := len(c.Paths()); got != 3 {
		t.Errorf("Paths() = %d files, want 3", got)
	}
	if total > 3 {
		t.Errorf("concurrent scans reported %d changes for 3 files", total)
	}
}
