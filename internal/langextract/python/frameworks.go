package python

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/semext/internal/langextract/common"
	"github.com/standardbeagle/semext/internal/parse"
	"github.com/standardbeagle/semext/internal/types"
)

// AnalyzeFrameworks is the second pass for Python: HTTP (requests/
// httpx/aiohttp), DB (SQLAlchemy/Django ORM), and async (asyncio) call
// sites, detected by surface form exactly as the structural pass
// detects function/class/import surface forms.
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
	case "function_definition":
		name := ""
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			name = common.TextOf(a.content(), nameNode)
		}
		a.ctx.Push(common.Frame{FunctionName: name, Async: isAsyncDef(a.content(), n)})
		defer a.ctx.Pop()
	case "for_statement", "while_statement":
		a.ctx.EnterLoop()
		defer a.ctx.ExitLoop()
	case "await":
		a.ctx.SetAwait()
		defer a.ctx.TakeAwait()
		a.classifyAwait(n)
	case "call":
		a.classifyCall(n)
	}
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		a.walk(n.Child(i))
	}
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

	if lib, ok := httpLibraryFor(receiver, callee, hasReceiver, full); ok {
		timeoutSecs, hasValue := common.ExtractTimeoutSeconds(text)
		call := types.HttpCall{
			Library:           lib,
			Method:            types.ParseHttpMethod(callee),
			CallText:          text,
			Location:          loc,
			EnclosingFunction: a.enclosingFunction(),
			InAsyncContext:    a.ctx.Current().Async,
			HasAwait:          a.ctx.TakeAwait(),
			InLoop:            a.ctx.InLoop(),
			HasTimeout:        strings.Contains(text, "timeout") || hasValue,
		}
		if hasValue {
			call.TimeoutValueSecs = timeoutSecs
		}
		a.fs.HttpCalls = append(a.fs.HttpCalls, call)
		return
	}

	if lib, opType, ok := dbOperationFor(receiver, callee, hasReceiver); ok {
		a.fs.DbOperations = append(a.fs.DbOperations, types.DbOperation{
			Library:           lib,
			OperationType:     opType,
			OperationText:     text,
			Location:          loc,
			EnclosingFunction: a.enclosingFunction(),
			InLoop:            a.ctx.InLoop(),
			HasEagerLoading:   callee == "select_related" || callee == "prefetch_related",
			EagerLoading:      djangoEagerStrategy(callee),
		})
		return
	}

	switch full {
	case "asyncio.create_task", "asyncio.ensure_future":
		a.emitAsync(types.AsyncOperationTaskSpawn, text, loc)
	case "asyncio.gather":
		a.emitAsync(types.AsyncOperationTaskGather, text, loc)
	case "asyncio.sleep":
		a.emitAsync(types.AsyncOperationSleep, text, loc)
	case "asyncio.wait_for":
		a.emitAsync(types.AsyncOperationTimeout, text, loc)
	}

	switch callee {
	case "acquire":
		if hasReceiver {
			a.emitAsync(types.AsyncOperationLockAcquire, text, loc)
		}
	case "release":
		if hasReceiver {
			a.emitAsync(types.AsyncOperationLockRelease, text, loc)
		}
	}
}

func (a *analyzer) classifyAwait(n *tree_sitter.Node) {
	loc := common.Locate(a.fs.FileID, n)
	a.fs.AsyncOperations = append(a.fs.AsyncOperations, types.AsyncOperation{
		Runtime:           types.AsyncRuntime{Kind: types.AsyncRuntimeAsyncio},
		OperationType:     types.AsyncOperationTaskAwait,
		OperationText:     common.TextOf(a.content(), n),
		Location:          loc,
		EnclosingFunction: a.enclosingFunction(),
		InLoop:            a.ctx.InLoop(),
	})
}

func (a *analyzer) emitAsync(opType types.AsyncOperationType, text string, loc types.Location) {
	a.fs.AsyncOperations = append(a.fs.AsyncOperations, types.AsyncOperation{
		Runtime:           types.AsyncRuntime{Kind: types.AsyncRuntimeAsyncio},
		OperationType:     opType,
		OperationText:     text,
		Location:          loc,
		EnclosingFunction: a.enclosingFunction(),
		InLoop:            a.ctx.InLoop(),
	})
}

// httpLibraryFor recognizes requests/httpx/aiohttp call sites by receiver
// surface form (spec.md §4.3).
func httpLibraryFor(receiver, callee string, hasReceiver bool, full string) (types.HttpClientLibrary, bool) {
	if !hasReceiver {
		return types.HttpClientLibrary{}, false
	}
	switch {
	case receiver == "requests":
		switch callee {
		case "get", "post", "put", "patch", "delete", "head", "request":
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryRequests}, true
		}
	case strings.Contains(receiver, "httpx"):
		switch callee {
		case "get", "post", "put", "patch", "delete", "head", "request":
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryHttpx}, true
		}
	case strings.Contains(receiver, "session") && strings.Contains(full, "aiohttp"):
		return types.HttpClientLibrary{Kind: types.HttpClientLibraryAiohttp}, true
	}
	switch callee {
	case "get", "post", "put", "patch", "delete", "head", "request":
		if strings.Contains(receiver, "client") || strings.Contains(receiver, "session") {
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryAiohttp}, true
		}
	}
	return types.HttpClientLibrary{}, false
}

// dbOperationFor recognizes SQLAlchemy query-builder and Django ORM
// QuerySet call sites by surface form.
func dbOperationFor(receiver, callee string, hasReceiver bool) (types.DbLibrary, types.DbOperationType, bool) {
	if !hasReceiver {
		return types.DbLibrary{}, types.DbOperationUnknown, false
	}
	switch callee {
	case "query", "execute":
		return types.DbLibrary{Kind: types.DbLibrarySqlAlchemy}, types.DbOperationSelect, true
	case "add":
		return types.DbLibrary{Kind: types.DbLibrarySqlAlchemy}, types.DbOperationInsert, true
	case "commit":
		return types.DbLibrary{Kind: types.DbLibrarySqlAlchemy}, types.DbOperationTransactionCommit, true
	case "rollback":
		return types.DbLibrary{Kind: types.DbLibrarySqlAlchemy}, types.DbOperationTransactionRollback, true
	case "begin":
		return types.DbLibrary{Kind: types.DbLibrarySqlAlchemy}, types.DbOperationTransactionBegin, true
	case "filter", "filter_by", "all", "first", "one", "get":
		return types.DbLibrary{Kind: types.DbLibraryDjangoOrm}, types.DbOperationSelect, true
	case "create":
		return types.DbLibrary{Kind: types.DbLibraryDjangoOrm}, types.DbOperationInsert, true
	case "save", "update":
		return types.DbLibrary{Kind: types.DbLibraryDjangoOrm}, types.DbOperationUpdate, true
	case "delete":
		return types.DbLibrary{Kind: types.DbLibraryDjangoOrm}, types.DbOperationDelete, true
	case "select_related", "prefetch_related":
		return types.DbLibrary{Kind: types.DbLibraryDjangoOrm}, types.DbOperationRelationshipAccess, true
	}
	return types.DbLibrary{}, types.DbOperationUnknown, false
}

func djangoEagerStrategy(callee string) types.EagerLoadStrategy {
	switch callee {
	case "select_related":
		return types.EagerLoadStrategy{Kind: types.EagerLoadJoin}
	case "prefetch_related":
		return types.EagerLoadStrategy{Kind: types.EagerLoadSubquery}
	default:
		return types.EagerLoadStrategy{Kind: types.EagerLoadNone}
	}
}
