// Package crossfile implements the clean-interface analysis: it checks
// that names reached from other modules are part of the declaring
// module's __all__, and that a declared __all__ actually narrows the
// interface.
package crossfile

import (
	"fmt"
	"sort"
	"strings"

	"hooklint/internal/config"
	"hooklint/internal/engine"
	"hooklint/internal/parser"
)

const RuleID = "clean-interface"

// moduleInfo is the read-only export table of one analyzed module,
// built in the first pass.
type moduleInfo struct {
	file     *parser.File
	declared map[string]bool // __all__ entries, nil when absent
	defined  map[string]bool // all top-level bindings
	inferred map[string]bool // exported top-level bindings
}

// use is one cross-module reference, either a qualified read through a
// module binding or a from-import of a specific name.
type use struct {
	module string
	name   string
	loc    parser.Location
}

type Analyzer struct {
	cfg config.CleanInterface
}

func New(cfg config.CleanInterface) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Check runs both passes over the summaries of all analyzed files. The
// tables are never mutated after the first pass, so the result depends
// only on the set of files, not on their order.
func (a *Analyzer) Check(files []*parser.File) []engine.Diagnostic {
	modules := make(map[string]*moduleInfo, len(files))
	for _, f := range files {
		modules[f.Module] = summarize(f)
	}

	var diags []engine.Diagnostic
	for _, f := range files {
		for _, u := range collectUses(f, modules) {
			target, ok := modules[u.module]
			if !ok || target.declared == nil {
				continue
			}
			if strings.HasPrefix(u.name, "_") {
				continue
			}
			if target.declared[u.name] || !target.defined[u.name] {
				continue
			}
			diags = append(diags, engine.Diagnostic{
				File: u.loc.File, Line: u.loc.Line, Column: u.loc.Column,
				Rule: RuleID, Severity: engine.SeverityError,
				Message: fmt.Sprintf("%q is used here but missing from __all__ of %q", u.name, u.module),
			})
		}
	}

	if a.cfg.WarnSuperfluous {
		for _, f := range files {
			info := modules[f.Module]
			if info.declared == nil {
				continue
			}
			if setsEqual(info.declared, info.inferred) {
				diags = append(diags, engine.Diagnostic{
					File: f.Path, Line: 1, Column: 1,
					Rule: RuleID, Severity: engine.SeverityWarning,
					Message: "__all__ repeats the default exports and narrows nothing",
				})
			}
		}
	}

	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Message < b.Message
	})
	return diags
}

func summarize(f *parser.File) *moduleInfo {
	info := &moduleInfo{
		file:     f,
		defined:  make(map[string]bool, len(f.TopLevel)),
		inferred: make(map[string]bool),
	}
	for _, def := range f.TopLevel {
		info.defined[def.Name] = true
		if def.Exported {
			info.inferred[def.Name] = true
		}
	}
	if f.HasAll {
		info.declared = make(map[string]bool, len(f.DunderAll))
		for _, name := range f.DunderAll {
			info.declared[name] = true
		}
	}
	return info
}

// collectUses resolves the file's qualified reads and from-imports to
// (module, name) pairs, keeping only targets inside the analyzed set.
func collectUses(f *parser.File, modules map[string]*moduleInfo) []use {
	// local binding -> module it names
	bound := make(map[string]string)
	var uses []use

	for _, imp := range f.Imports {
		if imp.IsRelative {
			continue
		}
		if len(imp.Items) == 0 {
			local := imp.Alias
			if local == "" {
				// "import a.b" binds "a"; only a full-path read
				// resolves, so bind the alias-free case by root.
				local = strings.SplitN(imp.Module, ".", 2)[0]
				if local != imp.Module {
					continue
				}
			}
			bound[local] = imp.Module
			continue
		}
		for _, item := range imp.Items {
			if item.Name == "*" {
				continue
			}
			uses = append(uses, use{module: imp.Module, name: item.Name, loc: imp.Location})
		}
	}

	for _, read := range f.AttrReads {
		module, ok := bound[read.Base]
		if !ok {
			continue
		}
		if _, known := modules[module]; !known {
			continue
		}
		uses = append(uses, use{module: module, name: read.Attr, loc: read.Location})
	}
	return uses
}

func setsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
