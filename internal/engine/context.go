package engine

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeClass
	ScopeFunction
	ScopeLambda
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeClass:
		return "class"
	case ScopeFunction:
		return "function"
	case ScopeLambda:
		return "lambda"
	default:
		return "module"
	}
}

// ImportBinding maps a locally visible name to its origin.
//
// "import collections"                  -> {Local: collections, Module: collections}
// "import pandas as pd"                 -> {Local: pd, Module: pandas}
// "from collections import defaultdict" -> {Local: defaultdict, Module: collections,
// Attr: defaultdict, IsDirect: true}
type ImportBinding struct {
	Local    string
	Module   string
	Attr     string
	IsDirect bool
}

// Origin is the fully qualified name the binding resolves to.
func (b ImportBinding) Origin() string {
	if b.IsDirect {
		return b.Module + "." + b.Attr
	}
	return b.Module
}

type scope struct {
	kind      ScopeKind
	bindings  map[string]ImportBinding
	shadowed  map[string]bool
	overloads map[string]bool // function names with @overload defs seen in this scope
}

func newScope(kind ScopeKind) *scope {
	return &scope{
		kind:      kind,
		bindings:  make(map[string]ImportBinding),
		shadowed:  make(map[string]bool),
		overloads: make(map[string]bool),
	}
}

// FuncInfo describes the innermost function definition being visited.
type FuncInfo struct {
	Name string
	// IsOverload reports whether this definition carries the @overload
	// decorator.
	IsOverload bool
	// InOverloadChain reports whether earlier same-named @overload
	// definitions exist in the containing scope, i.e. this definition is a
	// subsequent variant or the implementation.
	InOverloadChain bool
}

// Context tracks the lexical state rules need beyond the current node:
// scope stack, import bindings and overload chains. It is local to one
// traversal and discarded at its end.
type Context struct {
	File   string
	Source []byte

	scopes []*scope
	funcs  []FuncInfo
}

func NewContext(file string, source []byte) *Context {
	return &Context{File: file, Source: source}
}

func (c *Context) EnterScope(kind ScopeKind) {
	c.scopes = append(c.scopes, newScope(kind))
}

func (c *Context) ExitScope() {
	if len(c.scopes) == 0 {
		panic("engine: scope stack underflow")
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *Context) Depth() int {
	return len(c.scopes) - 1
}

func (c *Context) ScopeKind() ScopeKind {
	return c.scopes[len(c.scopes)-1].kind
}

func (c *Context) current() *scope {
	return c.scopes[len(c.scopes)-1]
}

// RecordImport registers a binding in the current scope.
func (c *Context) RecordImport(b ImportBinding) {
	s := c.current()
	s.bindings[b.Local] = b
	delete(s.shadowed, b.Local)
}

// Shadow marks a name as rebound in the current scope, hiding any import
// binding of the same name from outer scopes.
func (c *Context) Shadow(name string) {
	s := c.current()
	if _, ok := s.bindings[name]; ok {
		delete(s.bindings, name)
	}
	s.shadowed[name] = true
}

// Lookup resolves a name against the scope stack, innermost first.
// Standard lexical shadowing only.
func (c *Context) Lookup(name string) (ImportBinding, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		s := c.scopes[i]
		if b, ok := s.bindings[name]; ok {
			return b, true
		}
		if s.shadowed[name] {
			return ImportBinding{}, false
		}
	}
	return ImportBinding{}, false
}

// Bindings returns all bindings visible from the current scope.
func (c *Context) Bindings() map[string]ImportBinding {
	out := make(map[string]ImportBinding)
	shadowed := make(map[string]bool)
	for i := len(c.scopes) - 1; i >= 0; i-- {
		s := c.scopes[i]
		for name, b := range s.bindings {
			if _, seen := out[name]; !seen && !shadowed[name] {
				out[name] = b
			}
		}
		for name := range s.shadowed {
			shadowed[name] = true
		}
	}
	return out
}

func (c *Context) markOverload(name string) {
	c.current().overloads[name] = true
}

func (c *Context) priorOverloads(name string) bool {
	return c.current().overloads[name]
}

// Function returns info for the innermost function definition being
// visited, or nil at module/class level.
func (c *Context) Function() *FuncInfo {
	if len(c.funcs) == 0 {
		return nil
	}
	return &c.funcs[len(c.funcs)-1]
}

func (c *Context) pushFunc(info FuncInfo) {
	c.funcs = append(c.funcs, info)
}

func (c *Context) popFunc() {
	c.funcs = c.funcs[:len(c.funcs)-1]
}

// Text returns the source text of a node.
func (c *Context) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.Source[node.StartByte():node.EndByte()])
}

// Location returns the 1-based position of a node.
func (c *Context) Location(node *sitter.Node) (line, column int) {
	return int(node.StartPosition().Row) + 1, int(node.StartPosition().Column) + 1
}

// Diag builds a diagnostic anchored at node.
func (c *Context) Diag(node *sitter.Node, rule string, sev Severity, message string) Diagnostic {
	line, col := c.Location(node)
	return Diagnostic{
		File:     c.File,
		Line:     line,
		Column:   col,
		Rule:     rule,
		Severity: sev,
		Message:  message,
	}
}
