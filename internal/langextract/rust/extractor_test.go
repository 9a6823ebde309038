package rust_test

import (
	"testing"

	"github.com/standardbeagle/semext/internal/langextract/rust"
	"github.com/standardbeagle/semext/internal/parse"
	"github.com/standardbeagle/semext/internal/types"
)

func parseRust(t *testing.T, source string) *parse.ParsedFile {
	t.Helper()
	p := parse.NewParser()
	pf, err := p.ParseFile(types.LanguageRust, types.FileID(1), "m.rs", []byte(source))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return pf
}

func TestRustImplMethodsAndVisibility(t *testing.T) {
	src := `struct Server;

impl Server {
    pub fn handle(&self) {
        self.process();
    }

    fn process(&self) {}
}
`
	pf := parseRust(t, src)
	fs := rust.FromParsed(pf)

	byName := map[string]types.FunctionDef{}
	for _, fn := range fs.Functions {
		byName[fn.Name] = fn
	}

	handle, ok := byName["handle"]
	if !ok {
		t.Fatal("expected handle method")
	}
	if handle.Kind != types.FunctionKindMethod || handle.EnclosingClass != "Server" {
		t.Fatalf("expected handle to be a Server method, got %+v", handle)
	}
	if handle.Visibility != types.VisibilityPublic {
		t.Fatalf("expected pub fn to be Public, got %v", handle.Visibility)
	}
	if byName["process"].Visibility != types.VisibilityPackage {
		t.Fatalf("expected non-pub fn to be Package, got %v", byName["process"].Visibility)
	}
	if len(handle.Calls) != 1 || handle.Calls[0].Callee != "process" {
		t.Fatalf("expected one call to process, got %+v", handle.Calls)
	}
}

func TestRustUseDeclarationClassification(t *testing.T) {
	src := `use std::collections::HashMap;
use crate::models::User;
use reqwest::Client;

fn main() {}
`
	pf := parseRust(t, src)
	fs := rust.FromParsed(pf)

	byPath := map[string]types.Import{}
	for _, imp := range fs.Imports {
		byPath[imp.ModulePath] = imp
	}

	if byPath["std::collections::HashMap"].Source != types.ImportSourceStandardLib {
		t.Fatalf("expected std:: to be StandardLib, got %+v", byPath["std::collections::HashMap"])
	}
	if byPath["crate::models::User"].Source != types.ImportSourceLocal {
		t.Fatalf("expected crate:: to be Local, got %+v", byPath["crate::models::User"])
	}
	if byPath["reqwest::Client"].Source != types.ImportSourceExternal {
		t.Fatalf("expected reqwest:: to be External, got %+v", byPath["reqwest::Client"])
	}
}

func TestRustAsyncFunctionFlag(t *testing.T) {
	src := `async fn fetch_user() {}

fn sync_fn() {}
`
	pf := parseRust(t, src)
	fs := rust.FromParsed(pf)

	byName := map[string]types.FunctionDef{}
	for _, fn := range fs.Functions {
		byName[fn.Name] = fn
	}
	if !byName["fetch_user"].Async {
		t.Fatal("expected fetch_user to be async")
	}
	if byName["sync_fn"].Async {
		t.Fatal("expected sync_fn not to be async")
	}
}
