package rules

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"hooklint/internal/engine"
)

const RuntimeProtocolID = "runtime-data-protocol"

// RuntimeDataProtocol flags data protocols marked @runtime_checkable.
// isinstance checks against such protocols only verify the presence of
// attributes, not their types, which gives a false sense of safety.
type RuntimeDataProtocol struct{}

func (RuntimeDataProtocol) ID() string { return RuntimeProtocolID }

func (RuntimeDataProtocol) Kinds() []string { return []string{"class_definition"} }

func (r RuntimeDataProtocol) Check(node *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	if !hasDecorator(node, ctx, "runtime_checkable") {
		return nil, nil
	}
	if !hasBaseClass(node, ctx, "Protocol") {
		return nil, nil
	}
	if !hasAnnotatedAttribute(node) {
		return nil, nil
	}
	return []engine.Diagnostic{
		ctx.Diag(node, RuntimeProtocolID, engine.SeverityError,
			"do not use @runtime_checkable with data protocols"),
	}, nil
}

func hasBaseClass(class *sitter.Node, ctx *engine.Context, name string) bool {
	bases := class.ChildByFieldName("superclasses")
	if bases == nil {
		return false
	}
	for i := uint(0); i < bases.NamedChildCount(); i++ {
		base := bases.NamedChild(i)
		if base.Kind() == "identifier" && ctx.Text(base) == name {
			return true
		}
	}
	return false
}

// hasAnnotatedAttribute reports whether the class body contains an
// annotated assignment at statement level, the mark of a data protocol.
func hasAnnotatedAttribute(class *sitter.Node) bool {
	body := class.ChildByFieldName("body")
	if body == nil {
		return false
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		stmt := body.NamedChild(i)
		if stmt.Kind() != "expression_statement" || stmt.NamedChildCount() == 0 {
			continue
		}
		expr := stmt.NamedChild(0)
		if expr.Kind() == "assignment" && expr.ChildByFieldName("type") != nil {
			return true
		}
	}
	return false
}
