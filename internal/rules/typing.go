package rules

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"hooklint/internal/config"
	"hooklint/internal/engine"
)

// BuildTyping assembles the enabled typing-style rules.
func BuildTyping(cfg config.Typing) []engine.Rule {
	var out []engine.Rule
	if cfg.CheckPEP604Union {
		out = append(out, PEP604Union{})
	}
	if cfg.CheckNoOptional {
		out = append(out, NoOptional{})
	}
	if cfg.CheckOptional {
		out = append(out, Optional{})
	}
	if cfg.CheckNoFutureAnnotations {
		out = append(out, NoFutureAnnotations{})
	}
	if cfg.CheckOverloadDefaultEllipsis {
		out = append(out, OverloadDefaultEllipsis{})
	}
	if cfg.CheckNoHintsOverloadImpl {
		out = append(out, NoHintsOverloadImplementation{})
	}
	if cfg.CheckNoReturnUnion {
		out = append(out, NoReturnUnion{
			Recursive:             cfg.CheckNoReturnUnionRecursive,
			IncludeImplementation: cfg.IncludeOverloadImplementations,
		})
	}
	if cfg.CheckNoUnionIsinstance {
		out = append(out, NoUnionIsinstance{})
	}
	if cfg.CheckNoTupleIsinstance {
		out = append(out, NoTupleIsinstance{})
	}
	return out
}

// PEP604Union flags Union[X, Y] subscripts in favour of X | Y.
type PEP604Union struct{}

func (PEP604Union) ID() string { return "typing/pep604-union" }

// Annotation positions parse Union[...] as generic_type, expression
// positions as subscript.
func (PEP604Union) Kinds() []string { return []string{"subscript", "generic_type"} }

func (r PEP604Union) Check(node *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	if !subscriptOf(node, ctx, "Union") {
		return nil, nil
	}
	return []engine.Diagnostic{
		ctx.Diag(node, r.ID(), engine.SeverityError, "use X | Y instead of Union[X, Y]"),
	}, nil
}

// NoOptional flags Optional[X] subscripts in favour of X | None.
type NoOptional struct{}

func (NoOptional) ID() string      { return "typing/no-optional" }
func (NoOptional) Kinds() []string { return []string{"subscript", "generic_type"} }

func (r NoOptional) Check(node *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	if !subscriptOf(node, ctx, "Optional") {
		return nil, nil
	}
	return []engine.Diagnostic{
		ctx.Diag(node, r.ID(), engine.SeverityError, "use X | None instead of Optional[X]"),
	}, nil
}

// Optional is the inverse style rule: it flags X | None in favour of
// Optional[X]. Enabling both directions contradicts itself, so the
// defaults enable neither.
type Optional struct{}

func (Optional) ID() string      { return "typing/optional" }
func (Optional) Kinds() []string { return []string{"binary_operator"} }

func (r Optional) Check(node *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	op := node.ChildByFieldName("operator")
	if op == nil || ctx.Text(op) != "|" {
		return nil, nil
	}
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	if left != nil && left.Kind() == "none" {
		return []engine.Diagnostic{
			ctx.Diag(node, r.ID(), engine.SeverityError, "use Optional[X] instead of None | X"),
		}, nil
	}
	if right != nil && right.Kind() == "none" {
		return []engine.Diagnostic{
			ctx.Diag(node, r.ID(), engine.SeverityError, "use Optional[X] instead of X | None"),
		}, nil
	}
	return nil, nil
}

// NoFutureAnnotations forbids `from __future__ import annotations` (PEP 563).
type NoFutureAnnotations struct{}

func (NoFutureAnnotations) ID() string { return "typing/no-future-annotations" }

// __future__ imports have their own node kind; the named children are
// the imported items.
func (NoFutureAnnotations) Kinds() []string { return []string{"future_import_statement"} }

func (r NoFutureAnnotations) Check(node *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		name := node.NamedChild(i)
		if name.Kind() == "aliased_import" {
			name = name.ChildByFieldName("name")
		}
		if name != nil && ctx.Text(name) == "annotations" {
			return []engine.Diagnostic{
				ctx.Diag(node, r.ID(), engine.SeverityError,
					"do not import annotations from __future__"),
			}, nil
		}
	}
	return nil, nil
}

// OverloadDefaultEllipsis requires that defaults inside @overload
// definitions are spelled as `...`.
type OverloadDefaultEllipsis struct{}

func (OverloadDefaultEllipsis) ID() string      { return "typing/overload-default-ellipsis" }
func (OverloadDefaultEllipsis) Kinds() []string { return []string{"function_definition"} }

func (r OverloadDefaultEllipsis) Check(node *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	fn := ctx.Function()
	if fn == nil || !fn.IsOverload {
		return nil, nil
	}
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return nil, nil
	}
	list := splitParams(params, ctx)

	var diags []engine.Diagnostic
	for _, p := range append(append(append([]Param{}, list.PosOnly...), list.PosOrKw...), list.KwOnly...) {
		if p.Default == nil || p.Default.Kind() == "ellipsis" {
			continue
		}
		diags = append(diags, ctx.Diag(node, r.ID(), engine.SeverityError,
			fmt.Sprintf("default value for %q inside @overload should be '...'", p.Name)))
	}
	return diags, nil
}

// NoHintsOverloadImplementation checks that the implementation of an
// overloaded function carries no type hints. The overloads hold the
// signatures; repeating them on the implementation invites drift.
type NoHintsOverloadImplementation struct{}

func (NoHintsOverloadImplementation) ID() string {
	return "typing/no-hints-overload-implementation"
}

func (NoHintsOverloadImplementation) Kinds() []string { return []string{"function_definition"} }

func (r NoHintsOverloadImplementation) Check(node *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	fn := ctx.Function()
	if fn == nil || fn.IsOverload || !fn.InOverloadChain {
		return nil, nil
	}
	hinted := node.ChildByFieldName("return_type") != nil
	if !hinted {
		params := node.ChildByFieldName("parameters")
		if params != nil {
			list := splitParams(params, ctx)
			for _, p := range append(append(append([]Param{}, list.PosOnly...), list.PosOrKw...), list.KwOnly...) {
				if p.HasType {
					hinted = true
					break
				}
			}
		}
	}
	if !hinted {
		return nil, nil
	}
	return []engine.Diagnostic{
		ctx.Diag(node, r.ID(), engine.SeverityError,
			fmt.Sprintf("overloaded function implementation %q should not have type hints", fn.Name)),
	}, nil
}

// NoReturnUnion flags functions whose declared return type is a union.
// Overload implementations are skipped by default so that only the
// overload signatures are held to the rule.
type NoReturnUnion struct {
	Recursive             bool
	IncludeImplementation bool
}

func (NoReturnUnion) ID() string      { return "typing/no-return-union" }
func (NoReturnUnion) Kinds() []string { return []string{"function_definition"} }

func (r NoReturnUnion) Check(node *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	fn := ctx.Function()
	if fn != nil && fn.InOverloadChain && !fn.IsOverload && !r.IncludeImplementation {
		return nil, nil
	}
	ret := node.ChildByFieldName("return_type")
	if ret == nil {
		return nil, nil
	}
	if !isUnionNode(ret, ctx) && !(r.Recursive && containsUnion(ret, ctx)) {
		return nil, nil
	}
	return []engine.Diagnostic{
		ctx.Diag(node, r.ID(), engine.SeverityError, "avoid returning union types"),
	}, nil
}

// NoUnionIsinstance wants tuples, not unions, as the class argument of
// isinstance and issubclass.
type NoUnionIsinstance struct{}

func (NoUnionIsinstance) ID() string      { return "typing/no-union-isinstance" }
func (NoUnionIsinstance) Kinds() []string { return []string{"call"} }

func (r NoUnionIsinstance) Check(node *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	name, arg := classInfoArg(node, ctx)
	if arg == nil {
		return nil, nil
	}
	if !isUnionNode(arg, ctx) {
		return nil, nil
	}
	return []engine.Diagnostic{
		ctx.Diag(node, r.ID(), engine.SeverityError,
			fmt.Sprintf("use tuple instead of union in %s", name)),
	}, nil
}

// NoTupleIsinstance is the inverse preference: unions, not tuples.
type NoTupleIsinstance struct{}

func (NoTupleIsinstance) ID() string      { return "typing/no-tuple-isinstance" }
func (NoTupleIsinstance) Kinds() []string { return []string{"call"} }

func (r NoTupleIsinstance) Check(node *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	name, arg := classInfoArg(node, ctx)
	if arg == nil {
		return nil, nil
	}
	isTuple := arg.Kind() == "tuple" || subscriptOf(arg, ctx, "tuple")
	if !isTuple {
		return nil, nil
	}
	return []engine.Diagnostic{
		ctx.Diag(node, r.ID(), engine.SeverityError,
			fmt.Sprintf("use union instead of tuple in %s", name)),
	}, nil
}

// classInfoArg returns the builtin name and second argument of an
// isinstance or issubclass call with exactly two arguments.
func classInfoArg(call *sitter.Node, ctx *engine.Context) (string, *sitter.Node) {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "identifier" {
		return "", nil
	}
	name := ctx.Text(fn)
	if name != "isinstance" && name != "issubclass" {
		return "", nil
	}
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() != 2 {
		return "", nil
	}
	return name, args.NamedChild(1)
}

// subscriptOf reports whether node is `name[...]`, in either its
// expression form (subscript) or its annotation form (generic_type).
func subscriptOf(node *sitter.Node, ctx *engine.Context, name string) bool {
	var value *sitter.Node
	switch node.Kind() {
	case "subscript":
		value = node.ChildByFieldName("value")
	case "generic_type":
		value = node.NamedChild(0)
	default:
		return false
	}
	return value != nil && value.Kind() == "identifier" && ctx.Text(value) == name
}
