// Package rules implements the lint rule families run by the engine.
package rules

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"hooklint/internal/engine"
)

func isDunder(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

func isPrivate(name string) bool {
	return strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "__")
}

// insideClassBody reports whether a definition sits directly in a class
// body, i.e. is a method.
func insideClassBody(node *sitter.Node) bool {
	parent := node.Parent()
	if parent != nil && parent.Kind() == "decorated_definition" {
		parent = parent.Parent()
	}
	if parent == nil || parent.Kind() != "block" {
		return false
	}
	grand := parent.Parent()
	return grand != nil && grand.Kind() == "class_definition"
}

// decoratorNames returns the decorator expressions of a definition,
// stripped of "@" and call arguments.
func decoratorNames(node *sitter.Node, ctx *engine.Context) []string {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return nil
	}
	var out []string
	for i := uint(0); i < parent.ChildCount(); i++ {
		child := parent.Child(i)
		if child.Kind() != "decorator" {
			continue
		}
		text := strings.TrimPrefix(ctx.Text(child), "@")
		if idx := strings.IndexByte(text, '('); idx >= 0 {
			text = text[:idx]
		}
		out = append(out, strings.TrimSpace(text))
	}
	return out
}

func hasDecorator(node *sitter.Node, ctx *engine.Context, name string) bool {
	for _, d := range decoratorNames(node, ctx) {
		if d == name || strings.HasSuffix(d, "."+name) {
			return true
		}
	}
	return false
}

// Param is one entry of a parameter list.
type Param struct {
	Name    string
	Node    *sitter.Node
	Default *sitter.Node // nil when the parameter has no default
	HasType bool
}

// ParamList groups parameters by calling convention.
type ParamList struct {
	PosOnly   []Param
	PosOrKw   []Param
	KwOnly    []Param
	HasVararg bool
	HasKwarg  bool
}

// splitParams classifies the children of a "parameters" node. Parameters
// before "/" are positional-only, parameters after "*" or *args are
// keyword-only.
func splitParams(params *sitter.Node, ctx *engine.Context) ParamList {
	var list ParamList
	if params == nil {
		return list
	}

	kwOnly := false
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		switch splatKind(child) {
		case "list_splat_pattern":
			list.HasVararg = true
			kwOnly = true
			continue
		case "dictionary_splat_pattern":
			list.HasKwarg = true
			continue
		}
		switch child.Kind() {
		case "positional_separator":
			list.PosOnly = append(list.PosOnly, list.PosOrKw...)
			list.PosOrKw = nil
			continue
		case "keyword_separator":
			kwOnly = true
			continue
		}

		p, ok := asParam(child, ctx)
		if !ok {
			continue
		}
		if kwOnly {
			list.KwOnly = append(list.KwOnly, p)
		} else {
			list.PosOrKw = append(list.PosOrKw, p)
		}
	}
	return list
}

// splatKind returns the splat pattern kind of a parameter node, looking
// through typed_parameter so that `*args: int` and `**kwargs: int` count
// the same as their bare forms. Returns "" for non-splat parameters.
func splatKind(node *sitter.Node) string {
	kind := node.Kind()
	if kind == "typed_parameter" {
		inner := node.Child(0)
		if inner == nil {
			return ""
		}
		kind = inner.Kind()
	}
	switch kind {
	case "list_splat_pattern", "dictionary_splat_pattern":
		return kind
	}
	return ""
}

func asParam(node *sitter.Node, ctx *engine.Context) (Param, bool) {
	switch node.Kind() {
	case "identifier":
		return Param{Name: ctx.Text(node), Node: node}, true
	case "typed_parameter":
		inner := node.Child(0)
		if inner == nil || inner.Kind() != "identifier" {
			return Param{}, false
		}
		return Param{Name: ctx.Text(inner), Node: node, HasType: true}, true
	case "default_parameter":
		name := node.ChildByFieldName("name")
		if name == nil || name.Kind() != "identifier" {
			return Param{}, false
		}
		return Param{
			Name:    ctx.Text(name),
			Node:    node,
			Default: node.ChildByFieldName("value"),
		}, true
	case "typed_default_parameter":
		name := node.ChildByFieldName("name")
		if name == nil {
			return Param{}, false
		}
		return Param{
			Name:    ctx.Text(name),
			Node:    node,
			Default: node.ChildByFieldName("value"),
			HasType: true,
		}, true
	}
	return Param{}, false
}

// dropSelf removes the leading self/cls parameter of a method from the
// positional-or-keyword group, mirroring how signature checks count
// arguments. Static methods and signatures with positional-only
// parameters keep their list unchanged.
func dropSelf(list ParamList, node *sitter.Node, ctx *engine.Context) ParamList {
	if !insideClassBody(node) || hasDecorator(node, ctx, "staticmethod") {
		return list
	}
	if len(list.PosOnly) > 0 {
		list.PosOnly = list.PosOnly[1:]
		return list
	}
	if len(list.PosOrKw) > 0 {
		list.PosOrKw = list.PosOrKw[1:]
	}
	return list
}

// pureAttribute reports whether node is an attribute chain made only of
// names, e.g. a.b.c, and returns its base identifier node. Chains with
// calls or subscripts in the middle do not qualify.
func pureAttribute(node *sitter.Node) (*sitter.Node, bool) {
	obj := node.ChildByFieldName("object")
	for obj != nil && obj.Kind() == "attribute" {
		obj = obj.ChildByFieldName("object")
	}
	if obj == nil || obj.Kind() != "identifier" {
		return nil, false
	}
	return obj, true
}

// isUnionNode reports a top-level union annotation: X | Y or Union[...].
func isUnionNode(node *sitter.Node, ctx *engine.Context) bool {
	switch node.Kind() {
	case "binary_operator":
		op := node.ChildByFieldName("operator")
		return op != nil && ctx.Text(op) == "|"
	case "subscript", "generic_type":
		return subscriptOf(node, ctx, "Union")
	case "type":
		// return annotations are wrapped in a type node
		if node.NamedChildCount() == 1 {
			return isUnionNode(node.NamedChild(0), ctx)
		}
	}
	return false
}

func containsUnion(node *sitter.Node, ctx *engine.Context) bool {
	if isUnionNode(node, ctx) {
		return true
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if containsUnion(node.Child(i), ctx) {
			return true
		}
	}
	return false
}
