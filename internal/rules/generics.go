package rules

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"hooklint/internal/config"
	"hooklint/internal/engine"
)

const StandardGenericsID = "standard-generics"

// replacements maps deprecated typing aliases to their PEP 585
// replacements in builtins, collections, collections.abc, contextlib
// and re.
var replacements = map[string]string{
	// builtins
	"typing.Dict":      "dict",
	"typing.FrozenSet": "frozenset",
	"typing.List":      "list",
	"typing.Set":       "set",
	"typing.Text":      "str",
	"typing.Tuple":     "tuple",
	"typing.Type":      "type",
	// collections
	"typing.Deque":       "collections.deque",
	"typing.DefaultDict": "collections.defaultdict",
	"typing.OrderedDict": "collections.OrderedDict",
	"typing.ChainMap":    "collections.ChainMap",
	"typing.Counter":     "collections.Counter",
	// async
	"typing.Awaitable":      "collections.abc.Awaitable",
	"typing.Coroutine":      "collections.abc.Coroutine",
	"typing.AsyncIterable":  "collections.abc.AsyncIterable",
	"typing.AsyncIterator":  "collections.abc.AsyncIterator",
	"typing.AsyncGenerator": "collections.abc.AsyncGenerator",
	// abcs
	"typing.AbstractSet":     "collections.abc.Set",
	"typing.ByteString":      "collections.abc.ByteString",
	"typing.Callable":        "collections.abc.Callable",
	"typing.Collection":      "collections.abc.Collection",
	"typing.Container":       "collections.abc.Container",
	"typing.Generator":       "collections.abc.Generator",
	"typing.Hashable":        "collections.abc.Hashable",
	"typing.Iterable":        "collections.abc.Iterable",
	"typing.Iterator":        "collections.abc.Iterator",
	"typing.Mapping":         "collections.abc.Mapping",
	"typing.MutableMapping":  "collections.abc.MutableMapping",
	"typing.MutableSequence": "collections.abc.MutableSequence",
	"typing.MutableSet":      "collections.abc.MutableSet",
	"typing.Reversible":      "collections.abc.Reversible",
	"typing.Sequence":        "collections.abc.Sequence",
	"typing.Sized":           "collections.abc.Sized",
	// views
	"typing.MappingView": "collections.abc.MappingView",
	"typing.KeysView":    "collections.abc.KeysView",
	"typing.ItemsView":   "collections.abc.ItemsView",
	"typing.ValuesView":  "collections.abc.ValuesView",
	// context
	"typing.ContextManager":      "contextlib.AbstractContextManager",
	"typing.AsyncContextManager": "contextlib.AbstractAsyncContextManager",
	// regex
	"typing.Pattern":    "re.Pattern",
	"typing.re.Pattern": "re.Pattern",
	"typing.Match":      "re.Match",
	"typing.re.Match":   "re.Match",
}

func init() {
	// typing_extensions mirrors the typing aliases.
	for key, value := range replacements {
		replacements["typing_extensions"+key[len("typing"):]] = value
	}
}

// StandardGenerics flags references to deprecated typing aliases,
// whether spelled as attribute accesses or pulled in by imports.
type StandardGenerics struct {
	table map[string]string
}

func NewStandardGenerics(cfg config.StandardGenerics) *StandardGenerics {
	table := make(map[string]string, len(replacements)+2)
	for key, value := range replacements {
		table[key] = value
	}
	if cfg.UseNever {
		table["typing.NoReturn"] = "typing.Never"
		table["typing_extensions.NoReturn"] = "typing_extensions.Never"
	}
	return &StandardGenerics{table: table}
}

func (r *StandardGenerics) ID() string { return StandardGenericsID }

func (r *StandardGenerics) Kinds() []string {
	return []string{"attribute", "import_statement", "import_from_statement"}
}

func (r *StandardGenerics) Check(node *sitter.Node, ctx *engine.Context) ([]engine.Diagnostic, error) {
	switch node.Kind() {
	case "attribute":
		return r.checkAttribute(node, ctx), nil
	case "import_statement":
		return r.checkImport(node, ctx), nil
	case "import_from_statement":
		return r.checkFromImport(node, ctx), nil
	}
	return nil, nil
}

func (r *StandardGenerics) checkAttribute(node *sitter.Node, ctx *engine.Context) []engine.Diagnostic {
	object := node.ChildByFieldName("object")
	attr := node.ChildByFieldName("attribute")
	if object == nil || attr == nil || object.Kind() != "identifier" {
		return nil
	}
	return r.flag(node, ctx, ctx.Text(object)+"."+ctx.Text(attr))
}

func (r *StandardGenerics) checkImport(node *sitter.Node, ctx *engine.Context) []engine.Diagnostic {
	var diags []engine.Diagnostic
	for i := uint(0); i < node.NamedChildCount(); i++ {
		item := node.NamedChild(i)
		name := item
		if item.Kind() == "aliased_import" {
			name = item.ChildByFieldName("name")
		}
		if name == nil {
			continue
		}
		diags = append(diags, r.flag(item, ctx, ctx.Text(name))...)
	}
	return diags
}

func (r *StandardGenerics) checkFromImport(node *sitter.Node, ctx *engine.Context) []engine.Diagnostic {
	module := node.ChildByFieldName("module_name")
	if module == nil || module.Kind() == "relative_import" {
		return nil
	}
	prefix := ctx.Text(module)

	var diags []engine.Diagnostic
	for i := uint(0); i < node.NamedChildCount(); i++ {
		item := node.NamedChild(i)
		if item.StartByte() <= module.StartByte() {
			continue
		}
		name := item
		if item.Kind() == "aliased_import" {
			name = item.ChildByFieldName("name")
		}
		if name == nil || name.Kind() == "wildcard_import" {
			continue
		}
		diags = append(diags, r.flag(item, ctx, prefix+"."+ctx.Text(name))...)
	}
	return diags
}

func (r *StandardGenerics) flag(node *sitter.Node, ctx *engine.Context, name string) []engine.Diagnostic {
	replacement, ok := r.table[name]
	if !ok {
		return nil
	}
	return []engine.Diagnostic{
		ctx.Diag(node, StandardGenericsID, engine.SeverityError,
			fmt.Sprintf("use %q instead of %q", replacement, name)),
	}
}
