package golang_test

import (
	"testing"

	"github.com/standardbeagle/semext/internal/langextract/golang"
	"github.com/standardbeagle/semext/internal/parse"
	"github.com/standardbeagle/semext/internal/types"
)

func parseGo(t *testing.T, source string) *parse.ParsedFile {
	t.Helper()
	p := parse.NewParser()
	pf, err := p.ParseFile(types.LanguageGo, types.FileID(1), "m.go", []byte(source))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return pf
}

// TestGoMethodCallContainment is spec.md §8 scenario 3.
func TestGoMethodCallContainment(t *testing.T) {
	src := `package main

type Server struct{}

func (s *Server) Handle() {
	s.Process()
	s.Validate()
}

func (s *Server) Process() {}

func (s *Server) Validate() {}
`
	pf := parseGo(t, src)
	fs := golang.FromParsed(pf)

	if len(fs.Functions) != 3 {
		t.Fatalf("expected 3 function defs, got %d: %+v", len(fs.Functions), fs.Functions)
	}

	byName := map[string]types.FunctionDef{}
	for _, fn := range fs.Functions {
		byName[fn.Name] = fn
	}

	handle, ok := byName["Handle"]
	if !ok {
		t.Fatal("expected Handle method")
	}
	if len(handle.Calls) != 2 {
		t.Fatalf("expected Handle to have 2 calls, got %d: %+v", len(handle.Calls), handle.Calls)
	}

	callees := map[string]bool{}
	for _, c := range handle.Calls {
		callees[c.Callee] = true
		if c.Line < handle.Location.Line {
			t.Fatalf("call %+v appears before Handle's own definition line %d", c, handle.Location.Line)
		}
	}
	if !callees["Process"] || !callees["Validate"] {
		t.Fatalf("expected callees {Process, Validate}, got %+v", callees)
	}

	if len(byName["Process"].Calls) != 0 {
		t.Fatalf("expected Process to have no calls, got %+v", byName["Process"].Calls)
	}
	if len(byName["Validate"].Calls) != 0 {
		t.Fatalf("expected Validate to have no calls, got %+v", byName["Validate"].Calls)
	}

	if handle.Kind != types.FunctionKindMethod || byName["Process"].Kind != types.FunctionKindMethod {
		t.Fatal("expected all three to be methods")
	}
	if handle.EnclosingClass != "Server" {
		t.Fatalf("expected receiver type Server, got %q", handle.EnclosingClass)
	}
}

func TestGoImportClassification(t *testing.T) {
	src := `package main

import (
	"fmt"
	"github.com/some/external"
	"./local"
)

func main() {
	fmt.Println("hi")
}
`
	pf := parseGo(t, src)
	fs := golang.FromParsed(pf)

	byPath := map[string]types.Import{}
	for _, imp := range fs.Imports {
		byPath[imp.ModulePath] = imp
	}

	if byPath["fmt"].Source != types.ImportSourceStandardLib {
		t.Fatalf("expected fmt StandardLib, got %+v", byPath["fmt"])
	}
	if byPath["github.com/some/external"].Source != types.ImportSourceExternal {
		t.Fatalf("expected github.com/some/external External, got %+v", byPath["github.com/some/external"])
	}
	if byPath["./local"].Source != types.ImportSourceLocal {
		t.Fatalf("expected ./local Local, got %+v", byPath["./local"])
	}
}

func TestGoExportedVisibility(t *testing.T) {
	src := "package main\n\nfunc Exported() {}\nfunc unexported() {}\n"
	pf := parseGo(t, src)
	fs := golang.FromParsed(pf)

	byName := map[string]types.FunctionDef{}
	for _, fn := range fs.Functions {
		byName[fn.Name] = fn
	}
	if byName["Exported"].Visibility != types.VisibilityPublic {
		t.Fatalf("expected Exported to be Public, got %v", byName["Exported"].Visibility)
	}
	if byName["unexported"].Visibility != types.VisibilityPackage {
		t.Fatalf("expected unexported to be Package, got %v", byName["unexported"].Visibility)
	}
}
