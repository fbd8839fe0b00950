package parser

type Location struct {
	File   string
	Line   int
	Column int
}

// File is a structural summary of one parsed module, used by the
// cross-file and dependency checks. The AST rules work on the raw tree
// instead.
type File struct {
	Path      string
	Module    string // dotted module name derived from the path
	Imports   []Import
	TopLevel  []Definition
	DunderAll []string // declared __all__ entries, nil when absent
	HasAll    bool
	AttrReads []AttrRead
}

type Import struct {
	Module     string // imported module, empty for bare relative imports
	Alias      string
	Items      []ImportItem // for "from X import Y, Z"
	IsRelative bool
	Location   Location
}

type ImportItem struct {
	Name  string
	Alias string
}

type Definition struct {
	Name     string
	Kind     DefinitionKind
	Exported bool
	Location Location
}

type DefinitionKind int

const (
	KindFunction DefinitionKind = iota
	KindClass
	KindVariable
)

// AttrRead is a qualified read "base.attr" where base is a plain name.
type AttrRead struct {
	Base     string
	Attr     string
	Location Location
}
