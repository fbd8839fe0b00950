package engine

import (
	"errors"
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ErrRule marks an unexpected failure inside a rule. It aborts the file's
// analysis and is surfaced as a tool error, never as a finding.
var ErrRule = errors.New("rule internal error")

// Rule is a predicate over one syntax node plus its lexical context,
// producing zero or more diagnostics. Rules must be pure with respect to
// the context: they never mutate it.
type Rule interface {
	ID() string
	// Kinds lists the tree-sitter node kinds the rule wants to see.
	Kinds() []string
	Check(node *sitter.Node, ctx *Context) ([]Diagnostic, error)
}

// Engine walks a syntax tree in deterministic pre-order, maintains the
// Context and dispatches registered rules by node kind. Diagnostics are
// produced in ascending (line, column) order without sorting.
type Engine struct {
	rules    []Rule
	handlers map[string][]Rule
}

func New(rules ...Rule) *Engine {
	e := &Engine{
		rules:    rules,
		handlers: make(map[string][]Rule),
	}
	for _, r := range rules {
		for _, kind := range r.Kinds() {
			e.handlers[kind] = append(e.handlers[kind], r)
		}
	}
	return e
}

// Run analyzes one parsed file.
func (e *Engine) Run(path string, source []byte, root *sitter.Node) ([]Diagnostic, error) {
	ctx := NewContext(path, source)
	var diags []Diagnostic
	if err := e.visit(root, ctx, &diags); err != nil {
		return nil, err
	}
	return diags, nil
}

func (e *Engine) visit(node *sitter.Node, ctx *Context, diags *[]Diagnostic) error {
	entered, funcPushed := e.enter(node, ctx)

	for _, r := range e.handlers[node.Kind()] {
		found, err := r.Check(node, ctx)
		if err != nil {
			return fmt.Errorf("%w: %s at %s:%d: %v", ErrRule, r.ID(), ctx.File, nodeLine(node), err)
		}
		*diags = append(*diags, found...)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if err := e.visit(node.Child(i), ctx, diags); err != nil {
			return err
		}
	}

	if funcPushed {
		ctx.popFunc()
	}
	if entered {
		ctx.ExitScope()
	}
	return nil
}

// enter applies the context updates for stepping into node: scope pushes,
// import bindings, overload bookkeeping and shadowing.
func (e *Engine) enter(node *sitter.Node, ctx *Context) (entered, funcPushed bool) {
	switch node.Kind() {
	case "module":
		ctx.EnterScope(ScopeModule)
		return true, false

	case "class_definition":
		ctx.Shadow(ctx.Text(node.ChildByFieldName("name")))
		ctx.EnterScope(ScopeClass)
		return true, false

	case "function_definition":
		name := ctx.Text(node.ChildByFieldName("name"))
		info := FuncInfo{
			Name:            name,
			IsOverload:      IsDecoratedWith(node, ctx, "overload"),
			InOverloadChain: ctx.priorOverloads(name),
		}
		if info.IsOverload {
			ctx.markOverload(name)
		} else {
			ctx.Shadow(name)
		}
		ctx.pushFunc(info)
		ctx.EnterScope(ScopeFunction)
		return true, true

	case "lambda":
		ctx.EnterScope(ScopeLambda)
		return true, false

	case "import_statement":
		for _, b := range importBindings(node, ctx) {
			ctx.RecordImport(b)
		}

	case "import_from_statement":
		for _, b := range fromImportBindings(node, ctx) {
			ctx.RecordImport(b)
		}

	case "assignment", "augmented_assignment", "named_expression":
		if left := node.ChildByFieldName("left"); left != nil && left.Kind() == "identifier" {
			ctx.Shadow(ctx.Text(left))
		} else if name := node.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
			ctx.Shadow(ctx.Text(name))
		}
	}
	return false, false
}

func importBindings(node *sitter.Node, ctx *Context) []ImportBinding {
	var out []ImportBinding
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name", "identifier":
			module := ctx.Text(child)
			// "import a.b" binds the root name "a"
			local := module
			if dot := strings.IndexByte(local, '.'); dot >= 0 {
				local = local[:dot]
				module = local
			}
			out = append(out, ImportBinding{Local: local, Module: module})
		case "aliased_import":
			module := ctx.Text(child.ChildByFieldName("name"))
			alias := ctx.Text(child.ChildByFieldName("alias"))
			out = append(out, ImportBinding{Local: alias, Module: module})
		}
	}
	return out
}

func fromImportBindings(node *sitter.Node, ctx *Context) []ImportBinding {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil || moduleNode.Kind() == "relative_import" {
		// relative imports never collide with absolute qualified access
		return nil
	}
	module := ctx.Text(moduleNode)

	var out []ImportBinding
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.StartByte() <= moduleNode.StartByte() {
			continue
		}
		switch child.Kind() {
		case "dotted_name", "identifier":
			attr := ctx.Text(child)
			out = append(out, ImportBinding{Local: attr, Module: module, Attr: attr, IsDirect: true})
		case "aliased_import":
			attr := ctx.Text(child.ChildByFieldName("name"))
			alias := ctx.Text(child.ChildByFieldName("alias"))
			out = append(out, ImportBinding{Local: alias, Module: module, Attr: attr, IsDirect: true})
		}
	}
	return out
}

// IsDecoratedWith reports whether a definition node carries the given
// decorator, matching the trailing name of dotted decorators.
func IsDecoratedWith(node *sitter.Node, ctx *Context, name string) bool {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return false
	}
	for i := uint(0); i < parent.ChildCount(); i++ {
		child := parent.Child(i)
		if child.Kind() != "decorator" {
			continue
		}
		text := strings.TrimPrefix(ctx.Text(child), "@")
		if idx := strings.IndexByte(text, '('); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
		if text == name || strings.HasSuffix(text, "."+name) {
			return true
		}
	}
	return false
}

func nodeLine(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}
