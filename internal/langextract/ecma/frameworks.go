package ecma

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/semext/internal/langextract/common"
	"github.com/standardbeagle/semext/internal/parse"
	"github.com/standardbeagle/semext/internal/types"
)

// AnalyzeFrameworks is the second pass for TypeScript/JavaScript: fetch/
// axios/got/ky HTTP call sites (with URL extraction — spec.md §9
// resolves the open question that URL is only ever populated for this
// language family), Prisma/TypeORM DB call sites, and Promise/await/
// setTimeout/AbortController async operations.
func AnalyzeFrameworks(pf *parse.ParsedFile, fs *FileSemantics) error {
	root := pf.Root()
	if root == nil {
		fs.State = types.StateAnnotated
		return nil
	}
	a := &analyzer{pf: pf, fs: fs, ctx: common.NewContext()}
	a.walk(root)
	fs.State = types.StateAnnotated
	return nil
}

type analyzer struct {
	pf  *parse.ParsedFile
	fs  *FileSemantics
	ctx *common.Context
}

func (a *analyzer) content() []byte { return a.pf.Content }
func (a *analyzer) enclosingFunction() string {
	return a.ctx.Current().FunctionName
}

func (a *analyzer) walk(n *tree_sitter.Node) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "function_declaration", "function_expression", "arrow_function", "generator_function_declaration", "method_definition":
		name := ""
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			name = common.TextOf(a.content(), nameNode)
		}
		a.ctx.Push(common.Frame{FunctionName: name, Async: hasLeadingKeyword(a.content(), n, "async")})
		defer a.ctx.Pop()
	case "for_statement", "for_in_statement", "while_statement":
		a.ctx.EnterLoop()
		defer a.ctx.ExitLoop()
	case "await_expression":
		a.classifyAwait(n)
	case "new_expression":
		a.classifyNewExpression(n)
	case "call_expression":
		a.classifyCall(n)
	}
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		a.walk(n.Child(i))
	}
}

func (a *analyzer) classifyAwait(n *tree_sitter.Node) {
	loc := common.Locate(a.fs.FileID, n)
	a.fs.AsyncOperations = append(a.fs.AsyncOperations, types.AsyncOperation{
		Runtime:           types.AsyncRuntime{Kind: types.AsyncRuntimePromiseNative},
		OperationType:     types.AsyncOperationTaskAwait,
		OperationText:     common.TextOf(a.content(), n),
		Location:          loc,
		EnclosingFunction: a.enclosingFunction(),
		InLoop:            a.ctx.InLoop(),
	})
}

func (a *analyzer) classifyNewExpression(n *tree_sitter.Node) {
	ctorNode := n.ChildByFieldName("constructor")
	if ctorNode == nil {
		return
	}
	switch common.TextOf(a.content(), ctorNode) {
	case "Promise":
		a.emitAsync(types.AsyncOperationTaskSpawn, n)
	case "AbortController":
		loc := common.Locate(a.fs.FileID, n)
		a.fs.AsyncOperations = append(a.fs.AsyncOperations, types.AsyncOperation{
			Runtime:           types.AsyncRuntime{Kind: types.AsyncRuntimePromiseNative},
			OperationType:     types.AsyncOperationUnknown,
			HasCancellation:   true,
			Cancellation:      "AbortController",
			OperationText:     common.TextOf(a.content(), n),
			Location:          loc,
			EnclosingFunction: a.enclosingFunction(),
		})
	}
}

func (a *analyzer) emitAsync(opType types.AsyncOperationType, n *tree_sitter.Node) {
	loc := common.Locate(a.fs.FileID, n)
	a.fs.AsyncOperations = append(a.fs.AsyncOperations, types.AsyncOperation{
		Runtime:           types.AsyncRuntime{Kind: types.AsyncRuntimePromiseNative},
		OperationType:     opType,
		OperationText:     common.TextOf(a.content(), n),
		Location:          loc,
		EnclosingFunction: a.enclosingFunction(),
		InLoop:            a.ctx.InLoop(),
	})
}

func (a *analyzer) classifyCall(n *tree_sitter.Node) {
	fnNode := n.ChildByFieldName("function")
	if fnNode == nil {
		return
	}
	full := common.TextOf(a.content(), fnNode)
	receiver, callee, hasReceiver := common.SplitCallee(full)
	loc := common.Locate(a.fs.FileID, n)
	text := common.TextOf(a.content(), n)

	switch full {
	case "Promise.all":
		a.emitAsync(types.AsyncOperationTaskGather, n)
		return
	case "Promise.race", "Promise.allSettled":
		a.emitAsync(types.AsyncOperationSelectRace, n)
		return
	case "setTimeout":
		a.emitAsync(types.AsyncOperationSleep, n)
		return
	}

	if lib, url, hasURL, ok := httpCallFor(a.content(), n, receiver, callee, hasReceiver, full); ok {
		a.fs.HttpCalls = append(a.fs.HttpCalls, types.HttpCall{
			Library:           lib,
			Method:            httpMethodFor(callee, full),
			URL:               url,
			HasURL:            hasURL,
			CallText:          text,
			Location:          loc,
			EnclosingFunction: a.enclosingFunction(),
			InAsyncContext:    a.ctx.Current().Async,
			InLoop:            a.ctx.InLoop(),
		})
		return
	}

	if lib, opType, ok := dbOperationFor(callee, receiver, hasReceiver); ok {
		a.fs.DbOperations = append(a.fs.DbOperations, types.DbOperation{
			Library:           lib,
			OperationType:     opType,
			OperationText:     text,
			Location:          loc,
			EnclosingFunction: a.enclosingFunction(),
			InLoop:            a.ctx.InLoop(),
			HasEagerLoading:   callee == "findMany" || callee == "findUnique",
			EagerLoading:      types.EagerLoadStrategy{Kind: types.EagerLoadNone},
		})
		return
	}

	if callee == "then" || callee == "catch" || callee == "finally" {
		a.emitAsync(types.AsyncOperationTaskAwait, n)
	}
}

func httpMethodFor(callee, full string) types.HttpMethod {
	switch callee {
	case "get", "post", "put", "patch", "delete", "head":
		return types.ParseHttpMethod(callee)
	}
	if full == "fetch" || full == "got" || full == "ky" {
		return types.HttpMethod{Kind: types.HttpMethodGet}
	}
	return types.HttpMethod{Kind: types.HttpMethodGet}
}

// httpCallFor recognizes fetch/axios/got/ky call sites and, uniquely for
// this language family, extracts a literal string first argument as the
// URL (spec.md §9).
func httpCallFor(content []byte, call *tree_sitter.Node, receiver, callee string, hasReceiver bool, full string) (types.HttpClientLibrary, string, bool, bool) {
	var lib types.HttpClientLibrary
	matched := false
	switch {
	case full == "fetch":
		lib = types.HttpClientLibrary{Kind: types.HttpClientLibraryFetch}
		matched = true
	case strings.HasPrefix(full, "axios."):
		lib = types.HttpClientLibrary{Kind: types.HttpClientLibraryAxios}
		matched = true
	case full == "axios":
		lib = types.HttpClientLibrary{Kind: types.HttpClientLibraryAxios}
		matched = true
	case full == "got" || strings.HasPrefix(full, "got."):
		lib = types.HttpClientLibrary{Kind: types.HttpClientLibraryGot}
		matched = true
	case full == "ky" || strings.HasPrefix(full, "ky."):
		lib = types.HttpClientLibrary{Kind: types.HttpClientLibraryKy}
		matched = true
	}
	if !matched {
		return types.HttpClientLibrary{}, "", false, false
	}
	url, hasURL := firstStringArg(content, call)
	return lib, url, hasURL, true
}

func firstStringArg(content []byte, call *tree_sitter.Node) (string, bool) {
	argsNode := call.ChildByFieldName("arguments")
	if argsNode == nil {
		return "", false
	}
	count := argsNode.ChildCount()
	for i := uint(0); i < count; i++ {
		child := argsNode.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "string":
			text := common.TextOf(content, child)
			return strings.Trim(text, `"'`), true
		case "template_string":
			return common.TextOf(content, child), true
		}
	}
	return "", false
}

// dbOperationFor recognizes Prisma and TypeORM QueryBuilder call sites.
func dbOperationFor(callee, receiver string, hasReceiver bool) (types.DbLibrary, types.DbOperationType, bool) {
	if !hasReceiver {
		return types.DbLibrary{}, types.DbOperationUnknown, false
	}
	switch callee {
	case "findMany", "findUnique", "findFirst":
		return types.DbLibrary{Kind: types.DbLibraryPrisma}, types.DbOperationSelect, true
	case "create":
		return types.DbLibrary{Kind: types.DbLibraryPrisma}, types.DbOperationInsert, true
	case "update", "updateMany":
		return types.DbLibrary{Kind: types.DbLibraryPrisma}, types.DbOperationUpdate, true
	case "delete", "deleteMany":
		return types.DbLibrary{Kind: types.DbLibraryPrisma}, types.DbOperationDelete, true
	case "find", "findOne", "findOneBy":
		return types.DbLibrary{Kind: types.DbLibraryTypeOrm}, types.DbOperationSelect, true
	case "save":
		return types.DbLibrary{Kind: types.DbLibraryTypeOrm}, types.DbOperationInsert, true
	case "remove":
		return types.DbLibrary{Kind: types.DbLibraryTypeOrm}, types.DbOperationDelete, true
	case "leftJoinAndSelect", "innerJoinAndSelect":
		return types.DbLibrary{Kind: types.DbLibraryTypeOrm}, types.DbOperationRelationshipAccess, true
	}
	return types.DbLibrary{}, types.DbOperationUnknown, false
}
