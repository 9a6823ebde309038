package ecma

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/semext/internal/langextract/common"
	"github.com/standardbeagle/semext/internal/parse"
	"github.com/standardbeagle/semext/internal/types"
)

// FromParsed walks a parsed TypeScript or JavaScript file and produces
// its structural semantics: imports, functions/methods, and their call
// sites. Works unmodified for JavaScript since TypeScript's grammar is
// its superset.
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
		w.handleImport(n)
		return
	case "function_declaration", "generator_function_declaration":
		w.handleFunction(n, "")
		return
	case "class_declaration":
		w.handleClass(n)
		return
	case "variable_declarator":
		w.handleVariableDeclarator(n)
		return
	case "for_statement", "for_in_statement", "while_statement":
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
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	count := body.ChildCount()
	for i := uint(0); i < count; i++ {
		child := body.Child(i)
		if child != nil && child.Kind() == "method_definition" {
			w.handleMethod(child, name)
		}
	}
}

func (w *walker) handleMethod(n *tree_sitter.Node, className string) {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = common.TextOf(w.content(), nameNode)
	}
	async := hasLeadingKeyword(w.content(), n, "async")
	vis := classMemberVisibility(w.content(), n)

	fn := types.FunctionDef{
		Name:             name,
		Kind:             types.FunctionKindMethod,
		Visibility:       vis,
		Async:            async,
		Params:           w.params(n),
		ReturnType:       w.returnType(n),
		EnclosingClass:   className,
		Location:         common.Locate(w.fs.FileID, n),
		HasDocumentation: w.hasJSDoc(n),
	}

	w.ctx.Push(common.Frame{FunctionName: name, Async: async, EnclosingClass: className})
	if body := n.ChildByFieldName("body"); body != nil {
		fn.HasErrorHandling = containsCatch(w.content(), body)
		w.walkCollectingCalls(body, &fn)
	}
	w.ctx.Pop()

	w.fs.Functions = append(w.fs.Functions, fn)
}

// classMemberVisibility maps TypeScript's explicit private/protected
// modifiers; JavaScript (and TS members without a modifier) default to
// Public (spec.md §4.2's Visibility defaulting table).
func classMemberVisibility(content []byte, n *tree_sitter.Node) types.Visibility {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch common.TextOf(content, child) {
		case "private":
			return types.VisibilityPrivate
		case "protected":
			return types.VisibilityProtected
		}
		if child.Kind() == "property_identifier" || child.Kind() == "computed_property_name" {
			break
		}
	}
	return types.VisibilityPublic
}

func (w *walker) handleVariableDeclarator(n *tree_sitter.Node) {
	valueNode := n.ChildByFieldName("value")
	if valueNode == nil {
		return
	}
	switch valueNode.Kind() {
	case "arrow_function", "function_expression", "generator_function":
		name := ""
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			name = common.TextOf(w.content(), nameNode)
		}
		w.handleFunctionLike(valueNode, name, "")
	}
}

func (w *walker) handleFunction(n *tree_sitter.Node, className string) {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = common.TextOf(w.content(), nameNode)
	}
	w.handleFunctionLike(n, name, className)
}

func (w *walker) handleFunctionLike(n *tree_sitter.Node, name, className string) {
	async := hasLeadingKeyword(w.content(), n, "async")
	kind := types.FunctionKindFunction
	if n.Kind() == "arrow_function" {
		kind = types.FunctionKindLambda
	}
	if n.Kind() == "generator_function_declaration" || n.Kind() == "generator_function" {
		kind = types.FunctionKindGenerator
	}

	fn := types.FunctionDef{
		Name:             name,
		Kind:             kind,
		Visibility:       types.VisibilityPublic,
		Async:            async,
		Params:           w.params(n),
		ReturnType:       w.returnType(n),
		EnclosingClass:   className,
		Location:         common.Locate(w.fs.FileID, n),
		HasDocumentation: w.hasJSDoc(n),
	}

	w.ctx.Push(common.Frame{FunctionName: name, Async: async, EnclosingClass: className})
	if body := n.ChildByFieldName("body"); body != nil {
		fn.HasErrorHandling = containsCatch(w.content(), body)
		w.walkCollectingCalls(body, &fn)
	}
	w.ctx.Pop()

	w.fs.Functions = append(w.fs.Functions, fn)
}

func hasLeadingKeyword(content []byte, n *tree_sitter.Node, keyword string) bool {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		text := common.TextOf(content, child)
		if text == keyword {
			return true
		}
		if child.Kind() == "formal_parameters" || child.Kind() == "identifier" || child.Kind() == "statement_block" {
			break
		}
	}
	return false
}

func (w *walker) hasJSDoc(n *tree_sitter.Node) bool {
	prev := n.Parent()
	if prev != nil && prev.Kind() == "export_statement" {
		prev = prev.PrevSibling()
	} else {
		prev = n.PrevSibling()
	}
	return prev != nil && prev.Kind() == "comment" && strings.HasPrefix(common.TextOf(w.content(), prev), "/**")
}

func containsCatch(content []byte, body *tree_sitter.Node) bool {
	return strings.Contains(string(content[body.StartByte():body.EndByte()]), "catch")
}

func (w *walker) params(n *tree_sitter.Node) []types.FunctionParam {
	paramsNode := n.ChildByFieldName("parameters")
	if paramsNode == nil {
		// Single untyped arrow parameter: `x => x + 1`.
		if n.Kind() == "arrow_function" {
			count := n.ChildCount()
			for i := uint(0); i < count; i++ {
				child := n.Child(i)
				if child != nil && child.Kind() == "identifier" {
					return []types.FunctionParam{{Name: common.TextOf(w.content(), child)}}
				}
			}
		}
		return nil
	}
	var out []types.FunctionParam
	count := paramsNode.ChildCount()
	for i := uint(0); i < count; i++ {
		child := paramsNode.Child(i)
		out = append(out, w.oneParam(child)...)
	}
	return out
}

func (w *walker) oneParam(n *tree_sitter.Node) []types.FunctionParam {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "identifier", "required_parameter", "optional_parameter":
		return []types.FunctionParam{w.namedParam(n)}
	case "rest_pattern":
		if n.ChildCount() > 0 {
			return []types.FunctionParam{{Name: common.TextOf(w.content(), n.Child(n.ChildCount()-1)), Variadic: true}}
		}
	case "assignment_pattern":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		p := types.FunctionParam{}
		if left != nil {
			p.Name = common.TextOf(w.content(), left)
		}
		if right != nil {
			p.Default = common.TextOf(w.content(), right)
		}
		return []types.FunctionParam{p}
	}
	return nil
}

func (w *walker) namedParam(n *tree_sitter.Node) types.FunctionParam {
	p := types.FunctionParam{Name: common.TextOf(w.content(), n)}
	if patNode := n.ChildByFieldName("pattern"); patNode != nil {
		p.Name = common.TextOf(w.content(), patNode)
	}
	if typeNode := n.ChildByFieldName("type"); typeNode != nil {
		p.Type = common.TextOf(w.content(), typeNode)
	}
	return p
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
	case "for_statement", "for_in_statement", "while_statement":
		w.ctx.EnterLoop()
		defer w.ctx.ExitLoop()
	case "function_declaration", "function_expression", "arrow_function", "generator_function_declaration", "generator_function", "method_definition":
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

// handleImport parses both plain and TypeScript type-only import forms
// (spec.md §4.2): default, namespace (`* as ns`), named (with optional
// per-specifier `type` modifier), and side-effect-only imports.
func (w *walker) handleImport(n *tree_sitter.Node) {
	sourceNode := n.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	source := strings.Trim(common.TextOf(w.content(), sourceNode), `"'`)
	loc := common.Locate(w.fs.FileID, n)

	typeOnly := false
	var clause *tree_sitter.Node
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "import_clause" {
			clause = child
		}
		if common.TextOf(w.content(), child) == "type" && child.Kind() != "import_clause" {
			typeOnly = true
		}
	}

	if clause == nil {
		w.fs.Imports = append(w.fs.Imports, types.Import{
			ModulePath: source,
			Style:      types.ImportStyleSideEffect,
			Source:     classifyJSSource(source),
			Location:   loc,
		})
		return
	}

	imp := types.Import{ModulePath: source, Source: classifyJSSource(source), TypeOnly: typeOnly, Location: loc}
	cCount := clause.ChildCount()
	handled := false
	for i := uint(0); i < cCount; i++ {
		child := clause.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			imp.Style = types.ImportStyleDefault
			imp.ModuleAlias = common.TextOf(w.content(), child)
			handled = true
		case "namespace_import":
			imp.Style = types.ImportStyleStar
			if nameCount := child.ChildCount(); nameCount > 0 {
				imp.ModuleAlias = common.TextOf(w.content(), child.Child(nameCount-1))
			}
			handled = true
		case "named_imports":
			imp.Style = types.ImportStyleNamed
			imp.Items = w.namedImportItems(child)
			handled = true
		}
	}
	if !handled {
		imp.Style = types.ImportStyleNamed
	}
	w.fs.Imports = append(w.fs.Imports, imp)
}

func (w *walker) namedImportItems(n *tree_sitter.Node) []types.ImportItem {
	var items []types.ImportItem
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil || child.Kind() != "import_specifier" {
			continue
		}
		item := types.ImportItem{}
		if nameNode := child.ChildByFieldName("name"); nameNode != nil {
			item.Name = common.TextOf(w.content(), nameNode)
		}
		if aliasNode := child.ChildByFieldName("alias"); aliasNode != nil {
			item.Alias = common.TextOf(w.content(), aliasNode)
		}
		items = append(items, item)
	}
	return items
}

// classifyJSSource maps a relative specifier to Local and everything
// else (bare package specifiers) to External; neither TypeScript nor
// JavaScript has a standard-library module namespace (spec.md §4.2).
func classifyJSSource(source string) types.ImportSource {
	if strings.HasPrefix(source, ".") || strings.HasPrefix(source, "/") {
		return types.ImportSourceLocal
	}
	return types.ImportSourceExternal
}
