package rules

import (
	"fmt"
	"slices"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"hooklint/internal/config"
	"hooklint/internal/engine"
)

const SignaturesID = "signatures"

// dunderConstructors are dunder methods exempt from the positional-only
// requirement: their call sites never pass these arguments positionally
// through the dunder protocol.
var dunderConstructors = map[string]bool{
	"__init__":      true,
	"__new__":       true,
	"__call__":      true,
	"__post_init__": true,
}

// Signatures enforces signature shape: no varargs mixed with
// positional-or-keyword parameters, bounded positional counts, and
// positional-only parameters in dunder methods.
type Signatures struct {
	cfg config.Signatures
}

func NewSignatures(cfg config.Signatures) *Signatures {
	return &Signatures{cfg: cfg}
}

func (r *Signatures) ID() string { return SignaturesID }

func (r *Signatures) Kinds() []string { return []string{"function_definition"} }

func (r *Signatures) Check(node *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	fn := ctx.Function()
	if fn == nil {
		return nil, nil
	}
	if r.ignorable(node, fn, ctx) {
		return nil, nil
	}

	kind := "function"
	if insideClassBody(node) {
		kind = "method"
	}
	fnRepr := fmt.Sprintf("%s %q", kind, fn.Name)

	params := dropSelf(splitParams(node.ChildByFieldName("parameters"), ctx), node, ctx)
	var diags []engine.Diagnostic

	if len(params.PosOrKw) > 0 && params.HasVararg {
		diags = append(diags, ctx.Diag(node, SignaturesID, engine.SeverityError,
			fmt.Sprintf("mixed varargs and positional_or_keyword arguments in %s", fnRepr)))
	}
	if len(params.PosOrKw) > 0 && len(params.PosOnly) > 0 && !r.cfg.AllowMixedArgs {
		diags = append(diags, ctx.Diag(node, SignaturesID, engine.SeverityError,
			fmt.Sprintf("mixed positional_only and positional_or_keyword arguments in %s", fnRepr)))
	}
	if len(params.PosOrKw) > r.cfg.MaxArgs {
		diags = append(diags, ctx.Diag(node, SignaturesID, engine.SeverityError,
			fmt.Sprintf("too many positional_or_keyword arguments in %s (max %d)", fnRepr, r.cfg.MaxArgs)))
	}
	if len(params.PosOnly)+len(params.PosOrKw) > r.cfg.MaxPositionalArgs {
		diags = append(diags, ctx.Diag(node, SignaturesID, engine.SeverityError,
			fmt.Sprintf("too many positional arguments in %s (max %d)", fnRepr, r.cfg.MaxPositionalArgs)))
	}
	if r.cfg.CheckDunderPosOnly && !r.cfg.IgnoreDunder &&
		isDunder(fn.Name) && !dunderConstructors[fn.Name] &&
		(len(params.PosOrKw) > 1 || (len(params.PosOrKw) > 0 && len(params.PosOnly) > 0)) {
		diags = append(diags, ctx.Diag(node, SignaturesID, engine.SeverityError,
			fmt.Sprintf("dunder method %q should use positional-only arguments", fn.Name)))
	}

	return diags, nil
}

func (r *Signatures) ignorable(node *sitter.Node, fn *engine.FuncInfo, ctx *engine.Context) bool {
	if r.cfg.IgnoreOverloads && fn.InOverloadChain {
		return true
	}
	if r.cfg.IgnoreDunder && isDunder(fn.Name) {
		return true
	}
	if r.cfg.IgnorePrivate && isPrivate(fn.Name) {
		return true
	}
	if slices.Contains(r.cfg.IgnoreNames, fn.Name) {
		return true
	}
	for _, deco := range r.cfg.IgnoreDecorators {
		if hasDecorator(node, ctx, deco) {
			return true
		}
	}
	return false
}
