package parser

import (
	"errors"
	"fmt"
	"path/filepath"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ErrParseFailure marks files the grammar could not produce a usable tree
// for. It is a tool-level error, never reported as a lint finding.
var ErrParseFailure = errors.New("parse failure")

// Result owns the parse tree for one file. Close must be called once the
// tree is no longer needed.
type Result struct {
	Path   string
	Source []byte
	tree   *sitter.Tree
}

func (r *Result) Root() *sitter.Node {
	return r.tree.RootNode()
}

func (r *Result) Close() {
	if r.tree != nil {
		r.tree.Close()
		r.tree = nil
	}
}

type Parser struct {
	loader *GrammarLoader
}

func NewParser(loader *GrammarLoader) *Parser {
	return &Parser{loader: loader}
}

// ParseFile parses one Python source file into a syntax tree. Trees with
// syntax errors are rejected: a rule running over a broken tree would
// produce unreliable findings.
func (p *Parser) ParseFile(path string, content []byte) (*Result, error) {
	lang := p.detectLanguage(path)
	if lang == "" {
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrParseFailure, filepath.Ext(path))
	}

	grammar := p.loader.Language(lang)
	if grammar == nil {
		return nil, fmt.Errorf("%w: grammar not loaded: %s", ErrParseFailure, lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s", ErrParseFailure, path)
	}

	root := tree.RootNode()
	if root.HasError() {
		loc := firstErrorNode(root)
		tree.Close()
		if loc != nil {
			return nil, fmt.Errorf("%w: %s:%d:%d: invalid syntax",
				ErrParseFailure, path, loc.StartPosition().Row+1, loc.StartPosition().Column+1)
		}
		return nil, fmt.Errorf("%w: %s: invalid syntax", ErrParseFailure, path)
	}

	return &Result{Path: path, Source: content, tree: tree}, nil
}

func (p *Parser) detectLanguage(path string) string {
	if filepath.Ext(path) == ".py" {
		return "python"
	}
	return ""
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
