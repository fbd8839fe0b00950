package rules

import (
	"testing"

	"hooklint/internal/config"
)

func standardGenerics() *StandardGenerics {
	return NewStandardGenerics(config.StandardGenerics{Enabled: true})
}

func TestStandardGenericsAttribute(t *testing.T) {
	source := `import typing

def f(x: typing.List[int]) -> typing.Dict[str, int]:
    return {}
`
	diags := analyze(t, source, standardGenerics())
	assertFinding(t, diags, `use "list" instead of "typing.List"`)
	assertFinding(t, diags, `use "dict" instead of "typing.Dict"`)
}

func TestStandardGenericsFromImport(t *testing.T) {
	source := `from typing import List, Mapping
`
	diags := analyze(t, source, standardGenerics())
	assertFinding(t, diags, `use "list" instead of "typing.List"`)
	assertFinding(t, diags, `use "collections.abc.Mapping" instead of "typing.Mapping"`)
}

func TestStandardGenericsAliasedFromImport(t *testing.T) {
	source := `from typing import Callable as Fn
`
	diags := analyze(t, source, standardGenerics())
	assertFinding(t, diags, `use "collections.abc.Callable" instead of "typing.Callable"`)
}

func TestStandardGenericsTypingExtensions(t *testing.T) {
	source := `from typing_extensions import Deque
`
	diags := analyze(t, source, standardGenerics())
	assertFinding(t, diags, `use "collections.deque" instead of "typing_extensions.Deque"`)
}

func TestStandardGenericsModernNamesPass(t *testing.T) {
	source := `from collections.abc import Mapping, Sequence
from typing import Protocol, overload

def f(x: dict[str, int]) -> list[str]:
    return []
`
	assertNoFindings(t, analyze(t, source, standardGenerics()))
}

func TestStandardGenericsRelativeImportSkipped(t *testing.T) {
	source := `from .typing import List
`
	assertNoFindings(t, analyze(t, source, standardGenerics()))
}

func TestStandardGenericsUseNever(t *testing.T) {
	source := `import typing

def fail() -> typing.NoReturn:
    raise RuntimeError
`
	assertNoFindings(t, analyze(t, source, standardGenerics()))

	strict := NewStandardGenerics(config.StandardGenerics{Enabled: true, UseNever: true})
	diags := analyze(t, source, strict)
	assertFinding(t, diags, `use "typing.Never" instead of "typing.NoReturn"`)
}

func TestStandardGenericsNonTypingAttributePass(t *testing.T) {
	source := `import mypkg

x = mypkg.List
`
	assertNoFindings(t, analyze(t, source, standardGenerics()))
}
