package rust

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/semext/internal/langextract/common"
	"github.com/standardbeagle/semext/internal/parse"
	"github.com/standardbeagle/semext/internal/types"
)

// AnalyzeFrameworks is the second pass for Rust: reqwest/ureq/hyper/surf/
// awc/isahc HTTP call sites, sqlx/diesel DB call sites, and tokio/
// async-std task spawns, with the runtime inferred from the file's own
// imports the way the structural pass already recorded them.
func AnalyzeFrameworks(pf *parse.ParsedFile, fs *FileSemantics) error {
	root := pf.Root()
	if root == nil {
		fs.State = types.StateAnnotated
		return nil
	}
	a := &analyzer{pf: pf, fs: fs, ctx: common.NewContext(), runtime: inferRuntime(fs.Imports)}
	a.walk(root)
	fs.State = types.StateAnnotated
	return nil
}

func inferRuntime(imports []types.Import) types.AsyncRuntime {
	for _, imp := range imports {
		switch {
		case strings.HasPrefix(imp.ModulePath, "tokio"):
			return types.AsyncRuntime{Kind: types.AsyncRuntimeTokio}
		case strings.HasPrefix(imp.ModulePath, "async_std"):
			return types.AsyncRuntime{Kind: types.AsyncRuntimeAsyncStd}
		}
	}
	return types.AsyncRuntime{Kind: types.AsyncRuntimeUnknown}
}

type analyzer struct {
	pf         *parse.ParsedFile
	fs         *FileSemantics
	ctx        *common.Context
	runtime    types.AsyncRuntime
	suppressed []types.Location
}

func (a *analyzer) isSuppressed(loc types.Location) bool {
	for _, s := range a.suppressed {
		if s.Contains(loc) {
			return true
		}
	}
	return false
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
	case "function_item":
		name := ""
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			name = common.TextOf(a.content(), nameNode)
		}
		a.ctx.Push(common.Frame{FunctionName: name, Async: hasAsyncModifier(a.content(), n)})
		defer a.ctx.Pop()
	case "for_expression", "while_expression", "loop_expression":
		a.ctx.EnterLoop()
		defer a.ctx.ExitLoop()
	case "await_expression":
		a.ctx.SetAwait()
		defer a.ctx.TakeAwait()
		a.classifyAwait(n)
	case "call_expression":
		a.classifyCall(n)
	case "macro_invocation":
		a.classifySelectMacro(n)
	}
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		a.walk(n.Child(i))
	}
}

func (a *analyzer) classifyAwait(n *tree_sitter.Node) {
	loc := common.Locate(a.fs.FileID, n)
	a.fs.AsyncOperations = append(a.fs.AsyncOperations, types.AsyncOperation{
		Runtime:           a.runtime,
		OperationType:     types.AsyncOperationTaskAwait,
		OperationText:     common.TextOf(a.content(), n),
		Location:          loc,
		EnclosingFunction: a.enclosingFunction(),
		InLoop:            a.ctx.InLoop(),
	})
}

// classifySelectMacro recognizes tokio::select!/futures::select! macro
// invocations as a race between branches.
func (a *analyzer) classifySelectMacro(n *tree_sitter.Node) {
	nameNode := n.ChildByFieldName("macro")
	if nameNode == nil {
		return
	}
	name := common.TextOf(a.content(), nameNode)
	if !strings.HasSuffix(name, "select") {
		return
	}
	loc := common.Locate(a.fs.FileID, n)
	a.fs.AsyncOperations = append(a.fs.AsyncOperations, types.AsyncOperation{
		Runtime:           a.runtime,
		OperationType:     types.AsyncOperationSelectRace,
		OperationText:     common.TextOf(a.content(), n),
		Location:          loc,
		EnclosingFunction: a.enclosingFunction(),
	})
}

func (a *analyzer) classifyCall(n *tree_sitter.Node) {
	fnNode := n.ChildByFieldName("function")
	if fnNode == nil {
		return
	}
	full := common.TextOf(a.content(), fnNode)
	receiver, callee, hasReceiver := splitRustCallee(full)
	loc := common.Locate(a.fs.FileID, n)
	text := common.TextOf(a.content(), n)

	if a.isSuppressed(loc) {
		return
	}

	switch full {
	case "tokio::spawn":
		a.emitAsync(types.AsyncRuntime{Kind: types.AsyncRuntimeTokio}, types.AsyncOperationTaskSpawn, text, loc)
		return
	case "async_std::task::spawn":
		a.emitAsync(types.AsyncRuntime{Kind: types.AsyncRuntimeAsyncStd}, types.AsyncOperationTaskSpawn, text, loc)
		return
	case "tokio::time::sleep", "async_std::task::sleep":
		a.emitAsync(a.runtime, types.AsyncOperationSleep, text, loc)
		return
	case "tokio::time::timeout":
		a.emitAsync(a.runtime, types.AsyncOperationTimeout, text, loc)
		return
	case "futures::join", "tokio::join":
		a.emitAsync(a.runtime, types.AsyncOperationTaskGather, text, loc)
		return
	}

	if lib, method, ok := httpCallInfo(receiver, callee, hasReceiver, full, text); ok {
		hasTimeout := strings.Contains(text, ".timeout(")
		timeoutSecs, hasValue := common.ExtractTimeoutSeconds(text)
		call := types.HttpCall{
			Library:           lib,
			Method:            method,
			CallText:          text,
			Location:          loc,
			EnclosingFunction: a.enclosingFunction(),
			InAsyncContext:    a.ctx.Current().Async,
			HasAwait:          a.ctx.TakeAwait(),
			InLoop:            a.ctx.InLoop(),
			HasTimeout:        hasTimeout || hasValue,
		}
		if hasValue {
			call.TimeoutValueSecs = timeoutSecs
		}
		a.fs.HttpCalls = append(a.fs.HttpCalls, call)
		a.suppressed = append(a.suppressed, loc)
		return
	}

	if lib, opType, ok := dbOperationFor(callee, full); ok {
		a.fs.DbOperations = append(a.fs.DbOperations, types.DbOperation{
			Library:           lib,
			OperationType:     opType,
			OperationText:     text,
			Location:          loc,
			EnclosingFunction: a.enclosingFunction(),
			InLoop:            a.ctx.InLoop(),
		})
	}

	if callee == "lock" && hasReceiver {
		a.emitAsync(a.runtime, types.AsyncOperationLockAcquire, text, loc)
	}
}

func (a *analyzer) emitAsync(runtime types.AsyncRuntime, opType types.AsyncOperationType, text string, loc types.Location) {
	a.fs.AsyncOperations = append(a.fs.AsyncOperations, types.AsyncOperation{
		Runtime:           runtime,
		OperationType:     opType,
		OperationText:     text,
		Location:          loc,
		EnclosingFunction: a.enclosingFunction(),
		InLoop:            a.ctx.InLoop(),
	})
}

// httpLibraryFor recognizes reqwest/ureq/hyper/surf/awc/isahc call
// sites (spec.md §4.3).
func httpLibraryFor(receiver, callee string, hasReceiver bool, full string) (types.HttpClientLibrary, bool) {
	if !hasReceiver {
		return types.HttpClientLibrary{}, false
	}
	// A receiver containing "(" means this split landed on a method call
	// chained after a path-qualified call (e.g. "ureq::post(url).call"
	// split at the last "."), not a bare path expression; the path-prefix
	// checks below only apply to the latter.
	if !strings.Contains(receiver, "(") {
		switch {
		case strings.HasPrefix(full, "reqwest::blocking::"):
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryReqwest}, true
		case strings.HasPrefix(full, "reqwest::") && isHttpVerb(callee):
			// Bare free-function form (reqwest::get/reqwest::post), not a
			// constructor like reqwest::Client::new() (spec.md §4.3).
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryReqwest}, true
		case strings.HasPrefix(full, "ureq::"):
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryUreq}, true
		case strings.HasPrefix(full, "hyper::") || strings.Contains(receiver, "hyper"):
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryHyper}, true
		case strings.HasPrefix(full, "surf::"):
			return types.HttpClientLibrary{Kind: types.HttpClientLibrarySurf}, true
		case strings.HasPrefix(full, "isahc::"):
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryIsahc}, true
		}
	}
	if isHttpVerb(callee) {
		switch {
		case strings.Contains(receiver, "awc") || strings.Contains(receiver, "Client") && strings.Contains(full, "awc"):
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryAwc}, true
		case strings.Contains(receiver, "reqwest") || strings.Contains(receiver, "client"):
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryReqwest}, true
		}
	}
	return types.HttpClientLibrary{}, false
}

func isHttpVerb(callee string) bool {
	switch callee {
	case "get", "post", "put", "patch", "delete", "head":
		return true
	}
	return false
}

// httpCallInfo wraps httpLibraryFor with the builder-chain case: reqwest's
// client.get(url).timeout(..).send().await pattern puts the verb on an
// inner call and the await on the outer .send() call, so a plain verb
// match on "send" can't report a method. Here the outer call's own text
// spans the whole chain (tree-sitter call_expression nodes nest), so a
// "send" call searches that text for the verb that started the chain.
func httpCallInfo(receiver, callee string, hasReceiver bool, full, text string) (types.HttpClientLibrary, types.HttpMethod, bool) {
	if lib, ok := httpLibraryFor(receiver, callee, hasReceiver, full); ok {
		return lib, types.ParseHttpMethod(callee), true
	}
	if callee != "send" || !hasReceiver {
		return types.HttpClientLibrary{}, types.HttpMethod{}, false
	}
	lib, ok := chainLibrary(receiver, full)
	if !ok {
		return types.HttpClientLibrary{}, types.HttpMethod{}, false
	}
	method, ok := chainVerb(text)
	if !ok {
		return types.HttpClientLibrary{}, types.HttpMethod{}, false
	}
	return lib, method, true
}

func chainLibrary(receiver, full string) (types.HttpClientLibrary, bool) {
	switch {
	case strings.HasPrefix(full, "reqwest::"), strings.Contains(receiver, "reqwest"):
		return types.HttpClientLibrary{Kind: types.HttpClientLibraryReqwest}, true
	case strings.Contains(receiver, "awc"):
		return types.HttpClientLibrary{Kind: types.HttpClientLibraryAwc}, true
	case strings.Contains(receiver, "client"):
		return types.HttpClientLibrary{Kind: types.HttpClientLibraryReqwest}, true
	}
	return types.HttpClientLibrary{}, false
}

// chainVerb scans a builder chain's full call text for the HTTP verb
// method that opened it, in source order.
func chainVerb(text string) (types.HttpMethod, bool) {
	verbs := []struct {
		marker string
		kind   types.HttpMethodKind
	}{
		{".get(", types.HttpMethodGet},
		{".post(", types.HttpMethodPost},
		{".put(", types.HttpMethodPut},
		{".patch(", types.HttpMethodPatch},
		{".delete(", types.HttpMethodDelete},
	}
	best := -1
	var method types.HttpMethod
	for _, v := range verbs {
		if idx := strings.Index(text, v.marker); idx >= 0 && (best == -1 || idx < best) {
			best = idx
			method = types.HttpMethod{Kind: v.kind}
		}
	}
	if best == -1 {
		return types.HttpMethod{}, false
	}
	return method, true
}

// dbOperationFor recognizes sqlx's free sqlx::query* functions and
// diesel's query-builder methods by surface form. Only call expressions
// reach it: macro forms such as sqlx::query! are not recognized.
func dbOperationFor(callee, full string) (types.DbLibrary, types.DbOperationType, bool) {
	switch {
	case strings.HasPrefix(full, "sqlx::query"):
		return types.DbLibrary{Kind: types.DbLibrarySqlx}, types.DbOperationRawSql, true
	}
	switch callee {
	case "fetch_one", "fetch_all", "fetch_optional":
		return types.DbLibrary{Kind: types.DbLibrarySqlx}, types.DbOperationSelect, true
	case "execute":
		return types.DbLibrary{Kind: types.DbLibrarySqlx}, types.DbOperationRawSql, true
	case "load":
		return types.DbLibrary{Kind: types.DbLibraryDiesel}, types.DbOperationSelect, true
	case "filter":
		return types.DbLibrary{Kind: types.DbLibraryDiesel}, types.DbOperationSelect, true
	case "insert_into":
		return types.DbLibrary{Kind: types.DbLibraryDiesel}, types.DbOperationInsert, true
	}
	return types.DbLibrary{}, types.DbOperationUnknown, false
}
