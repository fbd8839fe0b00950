package parser

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Summarize builds the File summary consumed by the cross-file and
// dependency checks.
func Summarize(res *Result, root string) *File {
	file := &File{
		Path:   res.Path,
		Module: moduleName(res.Path, root),
	}

	e := &extraction{source: res.Source, file: res.Path}
	e.walk(res.Root(), file, true)

	return file
}

// moduleName converts a file path into a dotted module name relative to
// root. "pkg/sub/__init__.py" becomes "pkg.sub".
func moduleName(path, root string) string {
	rel := path
	if root != "" {
		if r, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	rel = strings.TrimSuffix(rel, ".py")
	rel = strings.TrimSuffix(rel, string(filepath.Separator)+"__init__")
	parts := strings.Split(filepath.ToSlash(rel), "/")
	return strings.Join(parts, ".")
}

type extraction struct {
	source []byte
	file   string
}

func (e *extraction) walk(node *sitter.Node, file *File, topLevel bool) {
	switch node.Kind() {
	case "import_statement":
		e.extractImport(node, file)
	case "import_from_statement":
		e.extractFromImport(node, file)
	case "function_definition":
		if topLevel {
			e.addDefinition(node, file, KindFunction)
		}
	case "class_definition":
		if topLevel {
			e.addDefinition(node, file, KindClass)
		}
	case "assignment":
		if topLevel {
			e.extractAssignment(node, file)
		}
	case "attribute":
		e.extractAttrRead(node, file)
	}

	childTop := topLevel
	switch node.Kind() {
	case "function_definition", "class_definition", "lambda":
		childTop = false
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), file, childTop)
	}
}

func (e *extraction) extractImport(node *sitter.Node, file *File) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name", "identifier":
			file.Imports = append(file.Imports, Import{
				Module:   e.text(child),
				Location: e.location(child),
			})
		case "aliased_import":
			name := child.ChildByFieldName("name")
			alias := child.ChildByFieldName("alias")
			file.Imports = append(file.Imports, Import{
				Module:   e.text(name),
				Alias:    e.text(alias),
				Location: e.location(child),
			})
		}
	}
}

func (e *extraction) extractFromImport(node *sitter.Node, file *File) {
	imp := Import{Location: e.location(node)}

	module := node.ChildByFieldName("module_name")
	if module != nil {
		if module.Kind() == "relative_import" {
			imp.IsRelative = true
			imp.Module = strings.TrimLeft(e.text(module), ".")
		} else {
			imp.Module = e.text(module)
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if module != nil && child.Id() == module.Id() {
			continue
		}
		switch child.Kind() {
		case "dotted_name", "identifier":
			imp.Items = append(imp.Items, ImportItem{Name: e.text(child)})
		case "aliased_import":
			imp.Items = append(imp.Items, ImportItem{
				Name:  e.text(child.ChildByFieldName("name")),
				Alias: e.text(child.ChildByFieldName("alias")),
			})
		case "wildcard_import":
			imp.Items = append(imp.Items, ImportItem{Name: "*"})
		}
	}

	file.Imports = append(file.Imports, imp)
}

func (e *extraction) addDefinition(node *sitter.Node, file *File, kind DefinitionKind) {
	name := e.text(node.ChildByFieldName("name"))
	if name == "" {
		return
	}
	file.TopLevel = append(file.TopLevel, Definition{
		Name:     name,
		Kind:     kind,
		Exported: !strings.HasPrefix(name, "_"),
		Location: e.location(node),
	})
}

func (e *extraction) extractAssignment(node *sitter.Node, file *File) {
	left := node.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return
	}
	name := e.text(left)

	if name == "__all__" {
		file.HasAll = true
		if right := node.ChildByFieldName("right"); right != nil {
			file.DunderAll = append(file.DunderAll, e.stringElements(right)...)
		}
		return
	}

	file.TopLevel = append(file.TopLevel, Definition{
		Name:     name,
		Kind:     KindVariable,
		Exported: !strings.HasPrefix(name, "_"),
		Location: e.location(left),
	})
}

func (e *extraction) extractAttrRead(node *sitter.Node, file *File) {
	obj := node.ChildByFieldName("object")
	attr := node.ChildByFieldName("attribute")
	if obj == nil || attr == nil || obj.Kind() != "identifier" {
		return
	}
	file.AttrReads = append(file.AttrReads, AttrRead{
		Base:     e.text(obj),
		Attr:     e.text(attr),
		Location: e.location(node),
	})
}

func (e *extraction) stringElements(node *sitter.Node) []string {
	if node.Kind() != "list" && node.Kind() != "tuple" {
		return nil
	}
	var out []string
	for i := uint(0); i < node.NamedChildCount(); i++ {
		el := node.NamedChild(i)
		if el.Kind() != "string" {
			continue
		}
		out = append(out, stringValue(e.text(el)))
	}
	return out
}

// stringValue strips quotes and prefixes from a string literal.
func stringValue(lit string) string {
	s := strings.TrimLeft(lit, "rRbBuUfF")
	for _, q := range []string{`"""`, "'''", `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

func (e *extraction) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(e.source[node.StartByte():node.EndByte()])
}

func (e *extraction) location(node *sitter.Node) Location {
	return Location{
		File:   e.file,
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}
