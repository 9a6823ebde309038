package ecma_test

import (
	"testing"

	"github.com/standardbeagle/semext/internal/langextract/ecma"
	"github.com/standardbeagle/semext/internal/parse"
	"github.com/standardbeagle/semext/internal/types"
)

func parseTS(t *testing.T, source string) *parse.ParsedFile {
	t.Helper()
	p := parse.NewParser()
	pf, err := p.ParseFile(types.LanguageTypescript, types.FileID(1), "m.ts", []byte(source))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return pf
}

func parseJS(t *testing.T, source string) *parse.ParsedFile {
	t.Helper()
	p := parse.NewParser()
	pf, err := p.ParseFile(types.LanguageJavascript, types.FileID(1), "m.js", []byte(source))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return pf
}

// TestArrowFunctionCallCollection is spec.md §8 scenario 6.
func TestArrowFunctionCallCollection(t *testing.T) {
	src := `const myFunc = () => {
  helper();
  console.log("test");
};

function helper() {}
`
	pf := parseTS(t, src)
	fs := ecma.FromParsed(pf)

	if len(fs.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d: %+v", len(fs.Functions), fs.Functions)
	}

	byName := map[string]types.FunctionDef{}
	for _, fn := range fs.Functions {
		byName[fn.Name] = fn
	}

	myFunc, ok := byName["myFunc"]
	if !ok {
		t.Fatal("expected myFunc arrow function")
	}
	if myFunc.Kind != types.FunctionKindLambda {
		t.Fatalf("expected myFunc to be a Lambda, got %v", myFunc.Kind)
	}
	if len(myFunc.Calls) != 2 {
		t.Fatalf("expected 2 calls, got %d: %+v", len(myFunc.Calls), myFunc.Calls)
	}

	callees := map[string]types.FunctionCall{}
	for _, c := range myFunc.Calls {
		callees[c.Callee] = c
	}
	if _, ok := callees["helper"]; !ok {
		t.Fatalf("expected a call to helper, got %+v", myFunc.Calls)
	}
	logCall, ok := callees["log"]
	if !ok {
		t.Fatalf("expected a call to log, got %+v", myFunc.Calls)
	}
	if logCall.Receiver != "console" {
		t.Fatalf("expected console.log receiver console, got %q", logCall.Receiver)
	}

	if byName["helper"].Kind != types.FunctionKindFunction {
		t.Fatalf("expected helper to be a plain function, got %v", byName["helper"].Kind)
	}
}

func TestImportClassification(t *testing.T) {
	src := `import React from "react";
import { useState, useEffect } from "react";
import * as path from "path";
import "./setup";
import type { Config } from "./config";

function App() {}
`
	pf := parseTS(t, src)
	fs := ecma.FromParsed(pf)

	var def, named, star, sideEffect, typeOnly *types.Import
	for i := range fs.Imports {
		imp := &fs.Imports[i]
		switch imp.Style {
		case types.ImportStyleDefault:
			def = imp
		case types.ImportStyleNamed:
			if imp.TypeOnly {
				typeOnly = imp
			} else {
				named = imp
			}
		case types.ImportStyleStar:
			star = imp
		case types.ImportStyleSideEffect:
			sideEffect = imp
		}
	}

	if def == nil || def.ModuleAlias != "React" || def.Source != types.ImportSourceExternal {
		t.Fatalf("expected a default React import, got %+v", def)
	}
	if named == nil || len(named.Items) != 2 {
		t.Fatalf("expected a named import with 2 items, got %+v", named)
	}
	if star == nil || star.ModuleAlias != "path" {
		t.Fatalf("expected a namespace import aliased path, got %+v", star)
	}
	if sideEffect == nil || sideEffect.ModulePath != "./setup" || sideEffect.Source != types.ImportSourceLocal {
		t.Fatalf("expected a local side-effect import of ./setup, got %+v", sideEffect)
	}
	if typeOnly == nil || !typeOnly.TypeOnly {
		t.Fatalf("expected a type-only named import, got %+v", typeOnly)
	}
}

func TestClassMethodVisibilityAndAsync(t *testing.T) {
	src := `class Repo {
  async save(x) {
    await this.write(x);
  }

  private helper() {}
}
`
	pf := parseTS(t, src)
	fs := ecma.FromParsed(pf)

	byName := map[string]types.FunctionDef{}
	for _, fn := range fs.Functions {
		byName[fn.Name] = fn
	}

	save, ok := byName["save"]
	if !ok {
		t.Fatal("expected save method")
	}
	if !save.Async {
		t.Fatal("expected save to be async")
	}
	if save.EnclosingClass != "Repo" {
		t.Fatalf("expected enclosing class Repo, got %q", save.EnclosingClass)
	}
	if byName["helper"].Visibility != types.VisibilityPrivate {
		t.Fatalf("expected helper to be Private, got %v", byName["helper"].Visibility)
	}
	if save.Visibility != types.VisibilityPublic {
		t.Fatalf("expected save to default to Public, got %v", save.Visibility)
	}
}

func TestJavaScriptSharesGrammarSuperset(t *testing.T) {
	src := "function greet(name) {\n  return `hi ${name}`;\n}\n"
	pf := parseJS(t, src)
	fs := ecma.FromParsed(pf)
	if len(fs.Functions) != 1 || fs.Functions[0].Name != "greet" {
		t.Fatalf("expected one function greet, got %+v", fs.Functions)
	}
}
