package golang

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/semext/internal/debug"
	"github.com/standardbeagle/semext/internal/langextract/common"
	"github.com/standardbeagle/semext/internal/parse"
	"github.com/standardbeagle/semext/internal/types"
)

// classifyImportPath mirrors spec.md §4.2's Go import-source table:
// a path containing a dot is External unless it starts with "." or "/"
// (Local).
func classifyImportPath(path string) types.ImportSource {
	switch {
	case strings.HasPrefix(path, ".") || strings.HasPrefix(path, "/"):
		return types.ImportSourceLocal
	case strings.Contains(path, "."):
		return types.ImportSourceExternal
	default:
		return types.ImportSourceStandardLib
	}
}

// FromParsed walks a parsed Go file and produces its structural
// semantics: imports, functions/methods, and their call sites.
func FromParsed(pf *parse.ParsedFile) *FileSemantics {
	fs := &FileSemantics{FileID: pf.FileID, Path: pf.Path, State: types.StateStructured}
	root := pf.Root()
	if root == nil {
		return fs
	}

	w := &walker{pf: pf, fs: fs, ctx: common.NewContext()}
	w.walk(root)
	return fs
}

type walker struct {
	pf  *parse.ParsedFile
	fs  *FileSemantics
	ctx *common.Context
}

func (w *walker) content() []byte { return w.pf.Content }

func (w *walker) walk(n *tree_sitter.Node) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "import_spec":
		w.handleImportSpec(n)
		return // leaf for our purposes
	case "function_declaration":
		w.handleFunction(n, "", false)
		return
	case "method_declaration":
		w.handleMethod(n)
		return
	case "func_literal":
		w.handleFunction(n, "", true)
		return
	case "call_expression":
		w.handleCall(n)
	case "for_statement", "for_range_statement":
		w.ctx.EnterLoop()
		defer w.ctx.ExitLoop()
	}

	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		w.walk(n.Child(i))
	}
}

func (w *walker) handleImportSpec(n *tree_sitter.Node) {
	pathNode := n.ChildByFieldName("path")
	if pathNode == nil {
		debug.LogExtract("go: import_spec missing path field, skipping")
		return
	}
	raw := common.TextOf(w.content(), pathNode)
	path := strings.Trim(raw, `"`)

	imp := types.Import{
		ModulePath: path,
		Style:      types.ImportStyleModule,
		Source:     classifyImportPath(path),
		Location:   common.Locate(w.fs.FileID, n),
	}

	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		alias := common.TextOf(w.content(), nameNode)
		switch alias {
		case "_":
			imp.Style = types.ImportStyleSideEffect
		case ".":
			imp.Style = types.ImportStyleStar
		default:
			imp.ModuleAlias = alias
		}
	}

	w.fs.Imports = append(w.fs.Imports, imp)
}

func (w *walker) handleFunction(n *tree_sitter.Node, receiverName string, isLiteral bool) {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = common.TextOf(w.content(), nameNode)
	}

	kind := types.FunctionKindFunction
	if isLiteral {
		kind = types.FunctionKindLambda
	}

	vis := types.VisibilityPackage
	if name != "" && isExported(name) {
		vis = types.VisibilityPublic
	}

	fn := types.FunctionDef{
		Name:             name,
		Kind:             kind,
		Visibility:       vis,
		Params:           w.params(n),
		ReturnType:       w.resultType(n),
		EnclosingClass:   receiverName,
		Location:         common.Locate(w.fs.FileID, n),
		HasDocumentation: w.hasDocComment(n),
	}

	w.ctx.Push(common.Frame{FunctionName: name, EnclosingClass: receiverName})
	if body := n.ChildByFieldName("body"); body != nil {
		fn.HasErrorHandling = containsErrCheck(w.content(), body)
		w.walkCollectingCalls(body, &fn)
	}
	w.ctx.Pop()

	w.fs.Functions = append(w.fs.Functions, fn)
}

func (w *walker) handleMethod(n *tree_sitter.Node) {
	receiver := ""
	if recvNode := n.ChildByFieldName("receiver"); recvNode != nil {
		receiver = w.receiverTypeName(recvNode)
	}

	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = common.TextOf(w.content(), nameNode)
	}

	vis := types.VisibilityPackage
	if name != "" && isExported(name) {
		vis = types.VisibilityPublic
	}

	fn := types.FunctionDef{
		Name:             name,
		Kind:             types.FunctionKindMethod,
		Visibility:       vis,
		Params:           w.params(n),
		ReturnType:       w.resultType(n),
		EnclosingClass:   receiver,
		Location:         common.Locate(w.fs.FileID, n),
		HasDocumentation: w.hasDocComment(n),
	}

	w.ctx.Push(common.Frame{FunctionName: name, EnclosingClass: receiver})
	if body := n.ChildByFieldName("body"); body != nil {
		fn.HasErrorHandling = containsErrCheck(w.content(), body)
		w.walkCollectingCalls(body, &fn)
	}
	w.ctx.Pop()

	w.fs.Functions = append(w.fs.Functions, fn)
}

// receiverTypeName extracts e.g. "Server" from "(s *Server)".
func (w *walker) receiverTypeName(recv *tree_sitter.Node) string {
	count := recv.ChildCount()
	for i := uint(0); i < count; i++ {
		child := recv.Child(i)
		if child == nil || child.Kind() != "parameter_declaration" {
			continue
		}
		typeNode := child.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		text := common.TextOf(w.content(), typeNode)
		return strings.TrimPrefix(text, "*")
	}
	return ""
}

func (w *walker) params(n *tree_sitter.Node) []types.FunctionParam {
	paramsNode := n.ChildByFieldName("parameters")
	if paramsNode == nil {
		return nil
	}
	var out []types.FunctionParam
	count := paramsNode.ChildCount()
	for i := uint(0); i < count; i++ {
		child := paramsNode.Child(i)
		if child == nil || child.Kind() != "parameter_declaration" {
			continue
		}
		typeText := ""
		if typeNode := child.ChildByFieldName("type"); typeNode != nil {
			typeText = common.TextOf(w.content(), typeNode)
		}
		variadic := strings.HasPrefix(typeText, "...")
		nameCount := child.ChildCount()
		found := false
		for j := uint(0); j < nameCount; j++ {
			nc := child.Child(j)
			if nc != nil && nc.Kind() == "identifier" {
				out = append(out, types.FunctionParam{
					Name:     common.TextOf(w.content(), nc),
					Type:     typeText,
					Variadic: variadic,
				})
				found = true
			}
		}
		if !found {
			out = append(out, types.FunctionParam{Type: typeText, Variadic: variadic})
		}
	}
	return out
}

func (w *walker) resultType(n *tree_sitter.Node) string {
	resultNode := n.ChildByFieldName("result")
	if resultNode == nil {
		return ""
	}
	return common.TextOf(w.content(), resultNode)
}

// walkCollectingCalls walks a function body, attributing every
// call_expression found to fn via the traversal context (spec.md §4.1:
// attribution at emission time).
func (w *walker) walkCollectingCalls(n *tree_sitter.Node, fn *types.FunctionDef) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "call_expression":
		if call, ok := w.buildCall(n); ok {
			fn.Calls = append(fn.Calls, call)
		}
	case "for_statement", "for_range_statement":
		w.ctx.EnterLoop()
		defer w.ctx.ExitLoop()
	case "function_declaration", "method_declaration", "func_literal":
		// Nested function: recorded as its own FunctionDef here; don't
		// attribute its inner calls to the enclosing fn.
		if n.Kind() == "func_literal" {
			w.handleFunction(n, "", true)
		}
		return
	}
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		w.walkCollectingCalls(n.Child(i), fn)
	}
}

func (w *walker) buildCall(n *tree_sitter.Node) (types.FunctionCall, bool) {
	fnNode := n.ChildByFieldName("function")
	if fnNode == nil {
		return types.FunctionCall{}, false
	}
	full := common.TextOf(w.content(), fnNode)
	receiver, callee, hasReceiver := common.SplitCallee(full)
	start := fnNode.StartPosition()
	return types.FunctionCall{
		Callee:      callee,
		Full:        full,
		Receiver:    receiver,
		HasReceiver: hasReceiver,
		Line:        int(start.Row) + 1,
		Column:      int(start.Column) + 1,
	}, true
}

func (w *walker) handleCall(n *tree_sitter.Node) {
	// Top-level call_expression handling outside any function body is a
	// no-op for Functions/Calls; package-level initializer calls have no
	// enclosing function to attach to.
}

func isExported(name string) bool {
	if name == "" {
		return false
	}
	return name[0] >= 'A' && name[0] <= 'Z'
}

func (w *walker) hasDocComment(n *tree_sitter.Node) bool {
	prev := n.PrevSibling()
	return prev != nil && prev.Kind() == "comment"
}

func containsErrCheck(content []byte, body *tree_sitter.Node) bool {
	return strings.Contains(string(content[body.StartByte():body.EndByte()]), "if err != nil")
}
