package golang

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/semext/internal/langextract/common"
	"github.com/standardbeagle/semext/internal/parse"
	"github.com/standardbeagle/semext/internal/types"
)

// AnalyzeFrameworks is the second pass (spec.md §4.1): it re-walks the
// tree populating HTTP, DB, and async artifacts by call-site surface
// form, the same way unified_extractor_side_effects.go classifies Go
// side effects in the teacher repo.
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
	pf         *parse.ParsedFile
	fs         *FileSemantics
	ctx        *common.Context
	suppressed []types.Location
}

func (a *analyzer) content() []byte { return a.pf.Content }

func (a *analyzer) isSuppressed(loc types.Location) bool {
	for _, s := range a.suppressed {
		if s.StartByte == loc.StartByte && s.EndByte == loc.EndByte {
			return true
		}
	}
	return false
}

func (a *analyzer) enclosingFunction() string {
	return a.ctx.Current().FunctionName
}

func (a *analyzer) walk(n *tree_sitter.Node) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "function_declaration", "method_declaration", "func_literal":
		name := ""
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			name = common.TextOf(a.content(), nameNode)
		}
		a.ctx.Push(common.Frame{FunctionName: name})
		defer a.ctx.Pop()
	case "for_statement", "for_range_statement":
		a.ctx.EnterLoop()
		defer a.ctx.ExitLoop()
	case "call_expression":
		a.classifyCall(n)
	case "go_statement":
		a.classifyGoStatement(n)
	case "send_statement":
		a.classifyChannelSend(n)
	case "unary_expression":
		a.classifyChannelReceive(n)
	case "select_statement":
		a.classifySelect(n)
	case "defer_statement":
		a.classifyDefer(n)
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

	if a.isSuppressed(loc) {
		return
	}

	if lib, ok := httpLibraryFor(receiver, callee, hasReceiver); ok {
		a.fs.HttpCalls = append(a.fs.HttpCalls, types.HttpCall{
			Library:           lib,
			Method:            types.ParseHttpMethod(callee),
			CallText:          text,
			Location:          loc,
			EnclosingFunction: a.enclosingFunction(),
			InLoop:            a.ctx.InLoop(),
			HasTimeout:        strings.Contains(text, "Timeout"),
		})
		return
	}

	if lib, opType, ok := dbOperationFor(receiver, callee, hasReceiver); ok {
		a.fs.DbOperations = append(a.fs.DbOperations, types.DbOperation{
			Library:           lib,
			OperationType:     opType,
			InTransaction:     strings.HasPrefix(receiver, "tx") || strings.Contains(receiver, "Tx"),
			OperationText:     text,
			Location:          loc,
			EnclosingFunction: a.enclosingFunction(),
			InLoop:            a.ctx.InLoop(),
			HasEagerLoading:   callee == "Preload",
			EagerLoading:      preloadStrategy(callee),
		})
		return
	}

	if opType, ok := mutexOperationFor(callee); ok {
		a.fs.AsyncOperations = append(a.fs.AsyncOperations, types.AsyncOperation{
			Runtime:           types.AsyncRuntime{Kind: types.AsyncRuntimeGoroutine},
			OperationType:     opType,
			OperationText:     text,
			Location:          loc,
			EnclosingFunction: a.enclosingFunction(),
		})
	}
}

// httpLibraryFor recognizes Go HTTP client call sites by receiver/callee
// surface form (spec.md §4.3): net/http's package-level http.Get/Post/
// Head/PostForm/NewRequest, Do on a receiver whose name contains
// "client"/"Client", resty's client.R().Get(...), fasthttp, and fiber
// route registration (app.Get/Post/...).
func httpLibraryFor(receiver, callee string, hasReceiver bool) (types.HttpClientLibrary, bool) {
	if !hasReceiver {
		return types.HttpClientLibrary{}, false
	}
	switch receiver {
	case "http":
		switch callee {
		case "Get", "Post", "Head", "PostForm", "NewRequest":
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryNetHttp}, true
		}
	}
	switch callee {
	case "Do":
		if strings.Contains(receiver, "client") || strings.Contains(receiver, "Client") {
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryNetHttp}, true
		}
	case "Get", "Post", "Put", "Patch", "Delete":
		switch {
		case strings.Contains(receiver, "resty") || strings.HasSuffix(receiver, "R()"):
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryResty}, true
		case strings.Contains(receiver, "fasthttp"):
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryFasthttp}, true
		case strings.Contains(receiver, "app") || strings.Contains(receiver, "router") || strings.Contains(receiver, "group"):
			return types.HttpClientLibrary{Kind: types.HttpClientLibraryFiber}, true
		}
	}
	return types.HttpClientLibrary{}, false
}

// dbOperationFor recognizes database/sql and GORM call sites.
func dbOperationFor(receiver, callee string, hasReceiver bool) (types.DbLibrary, types.DbOperationType, bool) {
	if !hasReceiver {
		return types.DbLibrary{}, types.DbOperationUnknown, false
	}
	switch receiver {
	case "sql":
		if callee == "Open" {
			return types.DbLibrary{Kind: types.DbLibraryDatabaseSql}, types.DbOperationConnect, true
		}
	case "gorm":
		if callee == "Open" {
			return types.DbLibrary{Kind: types.DbLibraryGorm}, types.DbOperationConnect, true
		}
	}
	switch callee {
	case "Query", "QueryRow", "QueryContext", "QueryRowContext":
		return types.DbLibrary{Kind: types.DbLibraryDatabaseSql}, types.DbOperationSelect, true
	case "Exec", "ExecContext":
		return types.DbLibrary{Kind: types.DbLibraryDatabaseSql}, types.DbOperationRawSql, true
	case "Begin", "BeginTx":
		return types.DbLibrary{Kind: types.DbLibraryDatabaseSql}, types.DbOperationTransactionBegin, true
	case "Commit":
		return types.DbLibrary{Kind: types.DbLibraryDatabaseSql}, types.DbOperationTransactionCommit, true
	case "Rollback":
		return types.DbLibrary{Kind: types.DbLibraryDatabaseSql}, types.DbOperationTransactionRollback, true
	case "Find", "First", "Last", "Take", "Scan":
		return types.DbLibrary{Kind: types.DbLibraryGorm}, types.DbOperationSelect, true
	case "Create":
		return types.DbLibrary{Kind: types.DbLibraryGorm}, types.DbOperationInsert, true
	case "Save", "Update", "Updates":
		return types.DbLibrary{Kind: types.DbLibraryGorm}, types.DbOperationUpdate, true
	case "Delete":
		return types.DbLibrary{Kind: types.DbLibraryGorm}, types.DbOperationDelete, true
	case "Preload", "Joins":
		return types.DbLibrary{Kind: types.DbLibraryGorm}, types.DbOperationRelationshipAccess, true
	case "Association":
		return types.DbLibrary{Kind: types.DbLibraryGorm}, types.DbOperationRelationshipAccess, true
	}
	return types.DbLibrary{}, types.DbOperationUnknown, false
}

func preloadStrategy(callee string) types.EagerLoadStrategy {
	if callee == "Preload" {
		return types.EagerLoadStrategy{Kind: types.EagerLoadJoin}
	}
	return types.EagerLoadStrategy{Kind: types.EagerLoadNone}
}

func mutexOperationFor(callee string) (types.AsyncOperationType, bool) {
	switch callee {
	case "Lock", "RLock":
		return types.AsyncOperationLockAcquire, true
	case "Unlock", "RUnlock":
		return types.AsyncOperationLockRelease, true
	}
	return types.AsyncOperationUnknown, false
}

// classifyGoStatement handles `go f(...)` (spec.md §4.5): has_recover
// reflects a `defer recover()` inside the goroutine's own body when it
// spawns a literal closure; has_cancellation is set when the spawned text
// references a context.Context or a done channel.
func (a *analyzer) classifyGoStatement(n *tree_sitter.Node) {
	loc := common.Locate(a.fs.FileID, n)
	text := common.TextOf(a.content(), n)

	hasRecover := strings.Contains(text, "recover()")
	hasCancellation := strings.Contains(text, "context.Context") ||
		strings.Contains(text, "ctx.Done()") ||
		strings.Contains(text, ".Done()")

	op := types.AsyncOperation{
		Runtime:           types.AsyncRuntime{Kind: types.AsyncRuntimeGoroutine},
		OperationType:     types.AsyncOperationTaskSpawn,
		OperationText:     text,
		Location:          loc,
		EnclosingFunction: a.enclosingFunction(),
	}
	if hasRecover {
		op.HasErrorHandling = true
		op.ErrorHandling = "defer recover()"
	}
	if hasCancellation {
		op.HasCancellation = true
		op.Cancellation = "context.Context param or done channel"
	}
	a.fs.AsyncOperations = append(a.fs.AsyncOperations, op)
}

func (a *analyzer) classifyChannelSend(n *tree_sitter.Node) {
	loc := common.Locate(a.fs.FileID, n)
	a.fs.AsyncOperations = append(a.fs.AsyncOperations, types.AsyncOperation{
		Runtime:           types.AsyncRuntime{Kind: types.AsyncRuntimeGoroutine},
		OperationType:     types.AsyncOperationChannelSend,
		OperationText:     common.TextOf(a.content(), n),
		Location:          loc,
		EnclosingFunction: a.enclosingFunction(),
		InLoop:            a.ctx.InLoop(),
	})
}

// classifyChannelReceive recognizes `<-ch` as a unary_expression whose
// first child's text is the receive operator, mirroring the check in
// unified_extractor_side_effects.go.
func (a *analyzer) classifyChannelReceive(n *tree_sitter.Node) {
	if n.ChildCount() == 0 {
		return
	}
	first := n.Child(0)
	if first == nil || common.TextOf(a.content(), first) != "<-" {
		return
	}
	loc := common.Locate(a.fs.FileID, n)
	a.fs.AsyncOperations = append(a.fs.AsyncOperations, types.AsyncOperation{
		Runtime:           types.AsyncRuntime{Kind: types.AsyncRuntimeGoroutine},
		OperationType:     types.AsyncOperationChannelReceive,
		OperationText:     common.TextOf(a.content(), n),
		Location:          loc,
		EnclosingFunction: a.enclosingFunction(),
		InLoop:            a.ctx.InLoop(),
	})
}

func (a *analyzer) classifySelect(n *tree_sitter.Node) {
	loc := common.Locate(a.fs.FileID, n)
	a.fs.AsyncOperations = append(a.fs.AsyncOperations, types.AsyncOperation{
		Runtime:           types.AsyncRuntime{Kind: types.AsyncRuntimeGoroutine},
		OperationType:     types.AsyncOperationSelectRace,
		OperationText:     common.TextOf(a.content(), n),
		Location:          loc,
		EnclosingFunction: a.enclosingFunction(),
	})
}

// classifyDefer recognizes any deferred call (mutex unlock included) as a
// cleanup operation of type Unknown carrying HasCleanup, rather than
// inventing a defer-specific OperationType (spec.md §4.5's Go note). A
// deferred mutex call is also recorded here, once, as its LockAcquire/
// LockRelease operation with HasCleanup set. The deferred call itself is
// then suppressed from classifyCall's ordinary mutex/HTTP/DB
// classification so a `defer mu.Unlock()` isn't counted twice.
func (a *analyzer) classifyDefer(n *tree_sitter.Node) {
	text := common.TextOf(a.content(), n)
	loc := common.Locate(a.fs.FileID, n)
	a.fs.AsyncOperations = append(a.fs.AsyncOperations, types.AsyncOperation{
		Runtime:           types.AsyncRuntime{Kind: types.AsyncRuntimeGoroutine},
		OperationType:     types.AsyncOperationUnknown,
		OperationText:     text,
		Location:          loc,
		EnclosingFunction: a.enclosingFunction(),
		HasCleanup:        true,
	})
	if call := deferredCall(n); call != nil {
		callLoc := common.Locate(a.fs.FileID, call)
		if fnNode := call.ChildByFieldName("function"); fnNode != nil {
			_, callee, _ := common.SplitCallee(common.TextOf(a.content(), fnNode))
			if opType, ok := mutexOperationFor(callee); ok {
				a.fs.AsyncOperations = append(a.fs.AsyncOperations, types.AsyncOperation{
					Runtime:           types.AsyncRuntime{Kind: types.AsyncRuntimeGoroutine},
					OperationType:     opType,
					OperationText:     common.TextOf(a.content(), call),
					Location:          callLoc,
					EnclosingFunction: a.enclosingFunction(),
					HasCleanup:        true,
				})
			}
		}
		a.suppressed = append(a.suppressed, callLoc)
	}
}

// deferredCall finds the call_expression a defer_statement defers,
// searching depth-first without crossing into a nested function literal
// (a deferred closure's own body is classified normally).
func deferredCall(n *tree_sitter.Node) *tree_sitter.Node {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "call_expression" {
			return child
		}
		if child.Kind() == "func_literal" {
			continue
		}
		if found := deferredCall(child); found != nil {
			return found
		}
	}
	return nil
}
