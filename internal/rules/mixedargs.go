package rules

import (
	"slices"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"hooklint/internal/config"
	"hooklint/internal/engine"
)

const MixedArgsID = "no-mixed-args"

// MixedArgs disallows positional-or-keyword parameters in function
// definitions beyond a configurable allowance. Such parameters should be
// made positional-only or keyword-only.
type MixedArgs struct {
	cfg config.MixedArgs
}

func NewMixedArgs(cfg config.MixedArgs) *MixedArgs {
	return &MixedArgs{cfg: cfg}
}

func (r *MixedArgs) ID() string { return MixedArgsID }

func (r *MixedArgs) Kinds() []string { return []string{"function_definition"} }

func (r *MixedArgs) Check(node *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	fn := ctx.Function()
	if fn == nil {
		return nil, nil
	}
	if r.ignorable(node, fn, ctx) {
		return nil, nil
	}

	params := dropSelf(splitParams(node.ChildByFieldName("parameters"), ctx), node, ctx)
	if r.cfg.IgnoreWoPosOnly && len(params.PosOnly) == 0 {
		return nil, nil
	}

	allowed := 0
	switch {
	case r.cfg.AllowTwo:
		allowed = 2
	case r.cfg.AllowOne:
		allowed = 1
	}
	if len(params.PosOrKw) <= allowed {
		return nil, nil
	}

	d := ctx.Diag(params.PosOrKw[0].Node, MixedArgsID, engine.SeverityError,
		"mixed positional and keyword arguments in function")
	return []engine.Diagnostic{d}, nil
}

func (r *MixedArgs) ignorable(node *sitter.Node, fn *engine.FuncInfo, ctx *engine.Context) bool {
	// only the first definition of an overload chain carries the canonical
	// signature shape
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
