package rules

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"hooklint/internal/config"
	"hooklint/internal/engine"
)

const DunderAllID = "dunder-all"

// DunderAll checks the structure of a module's __all__ declaration:
// presence, literal-list shape, placement and duplicate entries.
type DunderAll struct {
	cfg config.DunderAll
}

func NewDunderAll(cfg config.DunderAll) *DunderAll {
	return &DunderAll{cfg: cfg}
}

func (r *DunderAll) ID() string { return DunderAllID }

func (r *DunderAll) Kinds() []string { return []string{"module"} }

// allNode is one module-level __all__ assignment.
type allNode struct {
	stmt      *sitter.Node
	assign    *sitter.Node
	value     *sitter.Node
	annotated bool
	augmented bool
}

func (r *DunderAll) Check(module *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	body := statements(module)

	var nodes []allNode
	for _, stmt := range body {
		if an, ok := asAllNode(stmt, ctx); ok {
			nodes = append(nodes, an)
		}
	}

	var diags []engine.Diagnostic

	if len(nodes) == 0 {
		if !r.cfg.AllowMissing && !r.isTrivialModule(module, ctx, nil) {
			diags = append(diags, engine.Diagnostic{
				File: ctx.File, Line: 1, Column: 1,
				Rule: DunderAllID, Severity: engine.SeverityError,
				Message: "no __all__ found",
			})
		}
		return diags, nil
	}

	first := nodes[0]

	if r.cfg.WarnNonLiteral && !isLiteralStringList(first.value) {
		diags = append(diags, ctx.Diag(first.stmt, DunderAllID, engine.SeverityError,
			"__all__ is not a literal list"))
	}
	if r.cfg.WarnAnnotated && first.annotated {
		diags = append(diags, ctx.Diag(first.stmt, DunderAllID, engine.SeverityError,
			"__all__ is annotated"))
	}
	if r.cfg.WarnMultipleDefinitions && len(nodes) > 1 {
		diags = append(diags, ctx.Diag(first.stmt, DunderAllID, engine.SeverityError,
			"multiple __all__ found"))
		for _, n := range nodes[1:] {
			diags = append(diags, ctx.Diag(n.stmt, DunderAllID, engine.SeverityError,
				"additional __all__"))
		}
	}
	if r.cfg.WarnSuperfluous && r.isTrivialModule(module, ctx, first.stmt) {
		diags = append(diags, ctx.Diag(first.stmt, DunderAllID, engine.SeverityError,
			"__all__ is superfluous"))
	}
	if r.cfg.WarnLocation && !isAtTop(first.stmt, body) {
		diags = append(diags, ctx.Diag(first.stmt, DunderAllID, engine.SeverityError,
			"__all__ is not at the top of the module"))
	}
	if r.cfg.WarnDuplicateKeys {
		if keys := duplicateKeys(first.value, ctx); len(keys) > 0 {
			diags = append(diags, ctx.Diag(first.stmt, DunderAllID, engine.SeverityError,
				fmt.Sprintf("__all__ has duplicate keys: %s", strings.Join(keys, ", "))))
		}
	}

	return diags, nil
}

// statements returns the named statement nodes of the module body.
func statements(module *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := uint(0); i < module.NamedChildCount(); i++ {
		child := module.NamedChild(i)
		if child.Kind() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func asAllNode(stmt *sitter.Node, ctx *engine.Context) (allNode, bool) {
	if stmt.Kind() != "expression_statement" || stmt.NamedChildCount() == 0 {
		return allNode{}, false
	}
	assign := stmt.NamedChild(0)
	kind := assign.Kind()
	if kind != "assignment" && kind != "augmented_assignment" {
		return allNode{}, false
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" || ctx.Text(left) != "__all__" {
		return allNode{}, false
	}
	return allNode{
		stmt:      stmt,
		assign:    assign,
		value:     assign.ChildByFieldName("right"),
		annotated: assign.ChildByFieldName("type") != nil,
		augmented: kind == "augmented_assignment",
	}, true
}

// isTrivialStmt reports statements producing no module bindings: plain
// expressions (docstrings included) and pass.
func isTrivialStmt(stmt *sitter.Node) bool {
	switch stmt.Kind() {
	case "pass_statement":
		return true
	case "expression_statement":
		if stmt.NamedChildCount() == 0 {
			return true
		}
		k := stmt.NamedChild(0).Kind()
		return k != "assignment" && k != "augmented_assignment"
	}
	return false
}

// isTrivialModule reports whether the module body, ignoring a __main__
// guard and skipAll, contains only trivial statements. In that case an
// explicit __all__ carries no information.
func (r *DunderAll) isTrivialModule(module *sitter.Node, ctx *engine.Context, skipAll *sitter.Node) bool {
	for _, stmt := range statements(module) {
		if skipAll != nil && stmt.Id() == skipAll.Id() {
			continue
		}
		if isMainGuard(stmt, ctx) {
			continue
		}
		if !isTrivialStmt(stmt) {
			return false
		}
	}
	return true
}

// isMainGuard matches `if __name__ == "__main__":`.
func isMainGuard(stmt *sitter.Node, ctx *engine.Context) bool {
	if stmt.Kind() != "if_statement" {
		return false
	}
	cond := stmt.ChildByFieldName("condition")
	if cond == nil || cond.Kind() != "comparison_operator" {
		return false
	}
	text := ctx.Text(cond)
	return strings.HasPrefix(strings.TrimSpace(text), "__name__") && strings.Contains(text, "__main__")
}

// isAtTop verifies that only a docstring and __future__ imports precede
// the __all__ statement.
func isAtTop(allStmt *sitter.Node, body []*sitter.Node) bool {
	for i, stmt := range body {
		if stmt.Id() == allStmt.Id() {
			return true
		}
		if i == 0 && isDocstring(stmt) {
			continue
		}
		if isFutureImport(stmt) {
			continue
		}
		return false
	}
	return false
}

func isDocstring(stmt *sitter.Node) bool {
	return stmt.Kind() == "expression_statement" &&
		stmt.NamedChildCount() == 1 &&
		stmt.NamedChild(0).Kind() == "string"
}

func isFutureImport(stmt *sitter.Node) bool {
	return stmt.Kind() == "future_import_statement"
}

func isLiteralStringList(value *sitter.Node) bool {
	if value == nil || value.Kind() != "list" {
		return false
	}
	for i := uint(0); i < value.NamedChildCount(); i++ {
		if value.NamedChild(i).Kind() != "string" {
			return false
		}
	}
	return true
}

func duplicateKeys(value *sitter.Node, ctx *engine.Context) []string {
	if !isLiteralStringList(value) {
		return nil
	}
	seen := make(map[string]int)
	for i := uint(0); i < value.NamedChildCount(); i++ {
		seen[ctx.Text(value.NamedChild(i))]++
	}
	var dups []string
	for key, count := range seen {
		if count > 1 {
			dups = append(dups, strings.Trim(key, `"'`))
		}
	}
	sort.Strings(dups)
	return dups
}
