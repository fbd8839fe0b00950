package rules

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"hooklint/internal/config"
	"hooklint/internal/engine"
)

const DirectImportsID = "direct-imports"

// DirectImports flags qualified accesses like collections.defaultdict when
// defaultdict was also imported directly and resolves identically, so the
// unqualified name should be used.
type DirectImports struct {
	cfg config.DirectImports
}

func NewDirectImports(cfg config.DirectImports) *DirectImports {
	return &DirectImports{cfg: cfg}
}

func (r *DirectImports) ID() string { return DirectImportsID }

func (r *DirectImports) Kinds() []string { return []string{"attribute"} }

func (r *DirectImports) Check(node *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	// only the outermost attribute of a chain is considered
	if parent := node.Parent(); parent != nil {
		switch parent.Kind() {
		case "attribute":
			return nil, nil
		case "case_pattern", "dotted_name":
			return nil, nil
		}
	}

	base, ok := pureAttribute(node)
	if !ok {
		return nil, nil
	}

	attrNode := node.ChildByFieldName("attribute")
	if attrNode == nil {
		return nil, nil
	}
	attr := ctx.Text(attrNode)

	binding, ok := ctx.Lookup(attr)
	if !ok || !binding.IsDirect {
		return nil, nil
	}

	full := ctx.Text(node)
	baseName := ctx.Text(base)
	tail := strings.TrimPrefix(full, baseName+".")

	matched := binding.Origin()
	isMatch := matched == full
	if baseBinding, bound := ctx.Lookup(baseName); bound && !baseBinding.IsDirect {
		// resolve aliases: pd.DataFrame with "import pandas as pd"
		isMatch = isMatch || matched == baseBinding.Module+"."+tail
	}
	if !isMatch {
		return nil, nil
	}

	if r.cfg.SkipAssignTargets && isAssignTarget(node) {
		return nil, nil
	}

	d := ctx.Diag(node, DirectImportsID, engine.SeverityWarning,
		fmt.Sprintf("use directly imported %q instead of %q", attr, full))
	return []engine.Diagnostic{d}, nil
}

// isAssignTarget reports whether node is (part of) the left side of an
// assignment. Rebinding M.X is not a read the rule should flag.
func isAssignTarget(node *sitter.Node) bool {
	child := node
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		switch parent.Kind() {
		case "assignment", "augmented_assignment", "for_statement":
			left := parent.ChildByFieldName("left")
			return left != nil && left.Id() == child.Id()
		case "pattern_list", "tuple_pattern":
			child = parent
			continue
		case "expression_statement", "module", "block":
			return false
		}
		child = parent
	}
	return false
}
