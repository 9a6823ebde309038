package rust

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/semext/internal/langextract/common"
	"github.com/standardbeagle/semext/internal/parse"
	"github.com/standardbeagle/semext/internal/types"
)

// FromParsed walks a parsed Rust file and produces its structural
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
	case "use_declaration":
		w.handleUseDeclaration(n)
		return
	case "function_item":
		w.handleFunction(n, "")
		return
	case "impl_item":
		w.handleImpl(n)
		return
	case "trait_item":
		w.handleTrait(n)
		return
	case "for_expression", "while_expression", "loop_expression":
		w.ctx.EnterLoop()
		defer w.ctx.ExitLoop()
	}
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		w.walk(n.Child(i))
	}
}

func (w *walker) handleImpl(n *tree_sitter.Node) {
	typeName := ""
	if typeNode := n.ChildByFieldName("type"); typeNode != nil {
		typeName = common.TextOf(w.content(), typeNode)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		count := body.ChildCount()
		for i := uint(0); i < count; i++ {
			child := body.Child(i)
			if child != nil && child.Kind() == "function_item" {
				w.handleFunction(child, typeName)
			}
		}
	}
}

func (w *walker) handleTrait(n *tree_sitter.Node) {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = common.TextOf(w.content(), nameNode)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		count := body.ChildCount()
		for i := uint(0); i < count; i++ {
			child := body.Child(i)
			if child != nil && child.Kind() == "function_item" {
				w.handleFunction(child, name)
			}
		}
	}
}

func (w *walker) handleFunction(n *tree_sitter.Node, receiver string) {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = common.TextOf(w.content(), nameNode)
	}

	async := hasAsyncModifier(w.content(), n)
	vis := types.VisibilityPackage
	if hasPubModifier(w.content(), n) {
		vis = types.VisibilityPublic
	}
	kind := types.FunctionKindFunction
	if receiver != "" {
		kind = types.FunctionKindMethod
	}

	fn := types.FunctionDef{
		Name:             name,
		Kind:             kind,
		Visibility:       vis,
		Async:            async,
		Params:           w.params(n),
		ReturnType:       w.returnType(n),
		EnclosingClass:   receiver,
		Location:         common.Locate(w.fs.FileID, n),
		HasDocumentation: w.hasDocComment(n),
	}

	w.ctx.Push(common.Frame{FunctionName: name, Async: async, EnclosingClass: receiver})
	if body := n.ChildByFieldName("body"); body != nil {
		fn.HasErrorHandling = containsResultHandling(w.content(), body)
		w.walkCollectingCalls(body, &fn)
	}
	w.ctx.Pop()

	w.fs.Functions = append(w.fs.Functions, fn)
}

func hasAsyncModifier(content []byte, n *tree_sitter.Node) bool {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "fn" {
			break
		}
		if common.TextOf(content, child) == "async" {
			return true
		}
	}
	return false
}

func hasPubModifier(content []byte, n *tree_sitter.Node) bool {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child != nil && child.Kind() == "visibility_modifier" {
			return true
		}
	}
	return false
}

func (w *walker) hasDocComment(n *tree_sitter.Node) bool {
	prev := n.PrevSibling()
	for prev != nil && (prev.Kind() == "attribute_item" || prev.Kind() == "outer_attribute_item") {
		prev = prev.PrevSibling()
	}
	if prev == nil {
		return false
	}
	return prev.Kind() == "line_comment" || prev.Kind() == "block_comment"
}

func containsResultHandling(content []byte, body *tree_sitter.Node) bool {
	text := string(content[body.StartByte():body.EndByte()])
	return strings.Contains(text, "match ") || strings.Contains(text, "?") || strings.Contains(text, ".unwrap_or")
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
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "parameter":
			p := types.FunctionParam{}
			if patNode := child.ChildByFieldName("pattern"); patNode != nil {
				p.Name = common.TextOf(w.content(), patNode)
			}
			if typeNode := child.ChildByFieldName("type"); typeNode != nil {
				p.Type = common.TextOf(w.content(), typeNode)
			}
			out = append(out, p)
		case "self_parameter":
			out = append(out, types.FunctionParam{Name: common.TextOf(w.content(), child)})
		case "variadic_parameter":
			out = append(out, types.FunctionParam{Variadic: true})
		}
	}
	return out
}

func (w *walker) returnType(n *tree_sitter.Node) string {
	rt := n.ChildByFieldName("return_type")
	if rt == nil {
		return ""
	}
	return common.TextOf(w.content(), rt)
}

func (w *walker) walkCollectingCalls(n *tree_sitter.Node, fn *types.FunctionDef) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "call_expression":
		if call, ok := w.buildCall(n); ok {
			fn.Calls = append(fn.Calls, call)
		}
	case "for_expression", "while_expression", "loop_expression":
		w.ctx.EnterLoop()
		defer w.ctx.ExitLoop()
	case "function_item", "closure_expression":
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
	receiver, callee, hasReceiver := splitRustCallee(full)
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

// splitRustCallee handles both method-call field_expression text
// ("client.get") via the shared dot-splitting law and path-qualified
// free functions ("reqwest::get") which use "::" instead of ".".
func splitRustCallee(full string) (receiver, callee string, hasReceiver bool) {
	dotIdx := strings.LastIndex(full, ".")
	colonIdx := strings.LastIndex(full, "::")
	switch {
	case colonIdx < 0:
		return common.SplitCallee(full)
	case colonIdx > dotIdx:
		return full[:colonIdx], full[colonIdx+2:], true
	default:
		return common.SplitCallee(full)
	}
}

// handleUseDeclaration parses a Rust `use` tree into one or more
// Imports, classifying std::/core::/alloc:: as standard library,
// crate::/super::/self:: as local, and everything else as external.
func (w *walker) handleUseDeclaration(n *tree_sitter.Node) {
	arg := n.ChildByFieldName("argument")
	if arg == nil {
		return
	}
	w.emitUseTree(arg, "", n)
}

func (w *walker) emitUseTree(n *tree_sitter.Node, prefix string, declNode *tree_sitter.Node) {
	switch n.Kind() {
	case "identifier", "self", "crate", "super":
		w.emitImport(joinPath(prefix, common.TextOf(w.content(), n)), "", declNode)
	case "scoped_identifier":
		path := ""
		if p := n.ChildByFieldName("path"); p != nil {
			path = common.TextOf(w.content(), p)
		}
		name := ""
		if nn := n.ChildByFieldName("name"); nn != nil {
			name = common.TextOf(w.content(), nn)
		}
		full := joinPath(prefix, path)
		w.emitImport(joinPath(full, name), "", declNode)
	case "use_as_clause":
		pathNode := n.ChildByFieldName("path")
		aliasNode := n.ChildByFieldName("alias")
		path := ""
		if pathNode != nil {
			path = common.TextOf(w.content(), pathNode)
		}
		alias := ""
		if aliasNode != nil {
			alias = common.TextOf(w.content(), aliasNode)
		}
		w.emitImport(joinPath(prefix, path), alias, declNode)
	case "use_wildcard":
		w.emitImportStyled(joinPath(prefix, "*"), "", declNode, types.ImportStyleStar)
	case "scoped_use_list":
		path := ""
		if p := n.ChildByFieldName("path"); p != nil {
			path = common.TextOf(w.content(), p)
		}
		list := n.ChildByFieldName("list")
		full := joinPath(prefix, path)
		if list != nil {
			count := list.ChildCount()
			for i := uint(0); i < count; i++ {
				child := list.Child(i)
				if child == nil || child.Kind() == "," {
					continue
				}
				w.emitUseTree(child, full, declNode)
			}
		}
	case "use_list":
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}
			w.emitUseTree(child, prefix, declNode)
		}
	}
}

func joinPath(prefix, tail string) string {
	if prefix == "" {
		return tail
	}
	if tail == "" {
		return prefix
	}
	return prefix + "::" + tail
}

// emitImport records one use path as a Named import whose single item is
// the path's last segment, carrying the `as` alias if there is one.
func (w *walker) emitImport(modulePath, alias string, declNode *tree_sitter.Node) {
	name := modulePath
	if idx := strings.LastIndex(name, "::"); idx >= 0 {
		name = name[idx+2:]
	}
	w.fs.Imports = append(w.fs.Imports, types.Import{
		ModulePath: modulePath,
		Style:      types.ImportStyleNamed,
		Source:     classifyRustPath(modulePath),
		Items:      []types.ImportItem{{Name: name, Alias: alias}},
		Location:   common.Locate(w.fs.FileID, declNode),
	})
}

func (w *walker) emitImportStyled(modulePath, alias string, declNode *tree_sitter.Node, style types.ImportStyle) {
	w.fs.Imports = append(w.fs.Imports, types.Import{
		ModulePath:  modulePath,
		Style:       style,
		Source:      classifyRustPath(modulePath),
		ModuleAlias: alias,
		Location:    common.Locate(w.fs.FileID, declNode),
	})
}

func classifyRustPath(path string) types.ImportSource {
	switch {
	case strings.HasPrefix(path, "std::") || strings.HasPrefix(path, "core::") || strings.HasPrefix(path, "alloc::"):
		return types.ImportSourceStandardLib
	case strings.HasPrefix(path, "crate::") || strings.HasPrefix(path, "super::") || strings.HasPrefix(path, "self::") || path == "crate" || path == "self" || path == "super":
		return types.ImportSourceLocal
	default:
		return types.ImportSourceExternal
	}
}
