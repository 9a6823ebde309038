package python

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/semext/internal/langextract/common"
	"github.com/standardbeagle/semext/internal/parse"
	"github.com/standardbeagle/semext/internal/types"
)

// FromParsed walks a parsed Python file and produces its structural
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
	case "import_statement":
		w.handleImportStatement(n)
		return
	case "import_from_statement":
		w.handleImportFromStatement(n)
		return
	case "decorated_definition":
		w.handleDecoratedDefinition(n)
		return
	case "function_definition":
		w.handleFunction(n, nil)
		return
	case "class_definition":
		w.handleClass(n)
		return
	case "for_statement", "while_statement":
		w.ctx.EnterLoop()
		defer w.ctx.ExitLoop()
	}
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		w.walk(n.Child(i))
	}
}

func (w *walker) handleClass(n *tree_sitter.Node) {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = common.TextOf(w.content(), nameNode)
	}
	w.ctx.Push(common.Frame{EnclosingClass: name})
	defer w.ctx.Pop()

	if body := n.ChildByFieldName("body"); body != nil {
		count := body.ChildCount()
		for i := uint(0); i < count; i++ {
			child := body.Child(i)
			switch {
			case child == nil:
				continue
			case child.Kind() == "function_definition":
				w.handleFunction(child, nil)
			case child.Kind() == "decorated_definition":
				w.handleDecoratedDefinition(child)
			default:
				w.walk(child)
			}
		}
	}
}

func (w *walker) handleDecoratedDefinition(n *tree_sitter.Node) {
	var decorators []types.Decorator
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child != nil && child.Kind() == "decorator" {
			decorators = append(decorators, parseDecorator(w.content(), child))
		}
	}

	def := n.ChildByFieldName("definition")
	if def == nil {
		return
	}
	switch def.Kind() {
	case "function_definition":
		w.handleFunction(def, decorators)
	case "class_definition":
		w.handleClass(def)
	}
}

func parseDecorator(content []byte, n *tree_sitter.Node) types.Decorator {
	raw := common.TextOf(content, n)
	name := strings.TrimPrefix(raw, "@")
	if idx := strings.IndexAny(name, "("); idx >= 0 {
		name = name[:idx]
	}
	return types.Decorator{Name: strings.TrimSpace(name), Raw: raw}
}

func (w *walker) handleFunction(n *tree_sitter.Node, decorators []types.Decorator) {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = common.TextOf(w.content(), nameNode)
	}

	async := isAsyncDef(w.content(), n)
	enclosingClass := w.ctx.Current().EnclosingClass

	kind := types.FunctionKindFunction
	if enclosingClass != "" {
		kind = types.FunctionKindMethod
	}
	for _, d := range decorators {
		if d.Name == "property" || strings.HasSuffix(d.Name, ".setter") || strings.HasSuffix(d.Name, ".getter") {
			continue
		}
	}
	if hasYield(w.content(), n.ChildByFieldName("body")) {
		kind = types.FunctionKindGenerator
	}

	fn := types.FunctionDef{
		Name:             name,
		Kind:             kind,
		Visibility:       pythonVisibility(name),
		Async:            async,
		Params:           w.params(n),
		ReturnType:       w.returnType(n),
		Decorators:       decorators,
		EnclosingClass:   enclosingClass,
		Location:         common.Locate(w.fs.FileID, n),
		HasDocumentation: hasDocstring(w.content(), n.ChildByFieldName("body")),
	}

	w.ctx.Push(common.Frame{FunctionName: name, Async: async, EnclosingClass: enclosingClass})
	if body := n.ChildByFieldName("body"); body != nil {
		fn.HasErrorHandling = containsTryExcept(w.content(), body)
		w.walkCollectingCalls(body, &fn)
	}
	w.ctx.Pop()

	w.fs.Functions = append(w.fs.Functions, fn)
}

// pythonVisibility maps Python's convention-based access levels (spec.md
// §4.2/§8 scenario 2): a single (or double) leading underscore is
// Private, everything else Public. Python's taxonomy has no Protected
// level.
func pythonVisibility(name string) types.Visibility {
	if strings.HasPrefix(name, "_") {
		return types.VisibilityPrivate
	}
	return types.VisibilityPublic
}

func isAsyncDef(content []byte, n *tree_sitter.Node) bool {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			break
		}
		if child.Kind() == "def" {
			break
		}
		if common.TextOf(content, child) == "async" {
			return true
		}
	}
	return false
}

func hasYield(content []byte, body *tree_sitter.Node) bool {
	if body == nil {
		return false
	}
	return strings.Contains(string(content[body.StartByte():body.EndByte()]), "yield")
}

func hasDocstring(content []byte, body *tree_sitter.Node) bool {
	if body == nil || body.ChildCount() == 0 {
		return false
	}
	first := body.Child(0)
	if first == nil || first.Kind() != "expression_statement" {
		return false
	}
	if first.ChildCount() == 0 {
		return false
	}
	return first.Child(0).Kind() == "string"
}

func containsTryExcept(content []byte, body *tree_sitter.Node) bool {
	return strings.Contains(string(content[body.StartByte():body.EndByte()]), "except")
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
		case "identifier":
			out = append(out, types.FunctionParam{Name: common.TextOf(w.content(), child)})
		case "typed_parameter":
			out = append(out, w.oneParam(child, false))
		case "default_parameter", "typed_default_parameter":
			out = append(out, w.defaultParam(child))
		case "list_splat_pattern":
			out = append(out, w.variadicParam(child))
		case "dictionary_splat_pattern":
			out = append(out, w.variadicParam(child))
		}
	}
	return out
}

func (w *walker) oneParam(n *tree_sitter.Node, variadic bool) types.FunctionParam {
	name := ""
	typ := ""
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "identifier" && name == "" {
			name = common.TextOf(w.content(), child)
		}
		if child.Kind() == "type" {
			typ = common.TextOf(w.content(), child)
		}
	}
	return types.FunctionParam{Name: name, Type: typ, Variadic: variadic}
}

func (w *walker) defaultParam(n *tree_sitter.Node) types.FunctionParam {
	p := types.FunctionParam{}
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		if nameNode.Kind() == "typed_parameter" {
			p = w.oneParam(nameNode, false)
		} else {
			p.Name = common.TextOf(w.content(), nameNode)
		}
	}
	if valueNode := n.ChildByFieldName("value"); valueNode != nil {
		p.Default = common.TextOf(w.content(), valueNode)
	}
	return p
}

func (w *walker) variadicParam(n *tree_sitter.Node) types.FunctionParam {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child != nil && child.Kind() == "identifier" {
			return types.FunctionParam{Name: common.TextOf(w.content(), child), Variadic: true}
		}
	}
	return types.FunctionParam{Variadic: true}
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
	case "call":
		if call, ok := w.buildCall(n); ok {
			fn.Calls = append(fn.Calls, call)
		}
	case "for_statement", "while_statement":
		w.ctx.EnterLoop()
		defer w.ctx.ExitLoop()
	case "function_definition", "lambda":
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

// handleImportStatement covers `import a.b.c` and `import a as x,
// b.c as y`: each comma-separated clause is its own dotted_name or
// aliased_import child.
func (w *walker) handleImportStatement(n *tree_sitter.Node) {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			w.emitImportModule(n, common.TextOf(w.content(), child), "", types.ImportStyleModule)
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			modulePath := ""
			if nameNode != nil {
				modulePath = common.TextOf(w.content(), nameNode)
			}
			alias := ""
			if aliasNode != nil {
				alias = common.TextOf(w.content(), aliasNode)
			}
			w.emitImportModule(n, modulePath, alias, types.ImportStyleModule)
		}
	}
}

// handleImportFromStatement covers `from a.b import c, d as e` and
// `from a.b import *`, and relative imports (`from . import x`,
// `from ..pkg import y`).
func (w *walker) handleImportFromStatement(n *tree_sitter.Node) {
	moduleNode := n.ChildByFieldName("module_name")
	modulePath := ""
	isRelative := false
	if moduleNode != nil {
		modulePath = common.TextOf(w.content(), moduleNode)
		isRelative = moduleNode.Kind() == "relative_import"
	}

	var items []types.ImportItem
	style := types.ImportStyleNamed
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "wildcard_import":
			style = types.ImportStyleStar
		case "dotted_name":
			if child == moduleNode {
				continue
			}
			items = append(items, types.ImportItem{Name: common.TextOf(w.content(), child)})
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			item := types.ImportItem{}
			if nameNode != nil {
				item.Name = common.TextOf(w.content(), nameNode)
			}
			if aliasNode != nil {
				item.Alias = common.TextOf(w.content(), aliasNode)
			}
			items = append(items, item)
		}
	}

	source := types.ImportSourceExternal
	switch {
	case isRelative:
		source = types.ImportSourceLocal
	default:
		top := modulePath
		if idx := strings.Index(top, "."); idx >= 0 {
			top = top[:idx]
		}
		if isStdlib(top) {
			source = types.ImportSourceStandardLib
		}
	}

	w.fs.Imports = append(w.fs.Imports, types.Import{
		ModulePath: modulePath,
		Style:      style,
		Source:     source,
		Items:      items,
		Location:   common.Locate(w.fs.FileID, n),
	})
}

func (w *walker) emitImportModule(n *tree_sitter.Node, modulePath, alias string, style types.ImportStyle) {
	top := modulePath
	if idx := strings.Index(top, "."); idx >= 0 {
		top = top[:idx]
	}
	source := types.ImportSourceExternal
	if isStdlib(top) {
		source = types.ImportSourceStandardLib
	}
	w.fs.Imports = append(w.fs.Imports, types.Import{
		ModulePath:  modulePath,
		Style:       style,
		Source:      source,
		ModuleAlias: alias,
		Location:    common.Locate(w.fs.FileID, n),
	})
}
