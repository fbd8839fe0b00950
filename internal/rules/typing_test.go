package rules

import (
	"testing"

	"hooklint/internal/config"
)

func TestBuildTypingDefaults(t *testing.T) {
	cfg := config.Default().Rules.Typing
	rules := BuildTyping(cfg)

	ids := make(map[string]bool)
	for _, r := range rules {
		ids[r.ID()] = true
	}
	for _, want := range []string{
		"typing/pep604-union",
		"typing/no-optional",
		"typing/no-future-annotations",
		"typing/overload-default-ellipsis",
	} {
		if !ids[want] {
			t.Errorf("Expected default rule %s to be built", want)
		}
	}
	if ids["typing/optional"] {
		t.Error("The inverse optional rule must not be enabled by default")
	}
}

func TestPEP604Union(t *testing.T) {
	source := `from typing import Union

def f(x: Union[int, str]) -> None:
    pass
`
	diags := analyze(t, source, PEP604Union{})
	assertFinding(t, diags, "use X | Y instead of Union[X, Y]")
}

func TestPEP604UnionExpressionPosition(t *testing.T) {
	source := `from typing import Union

IntOrStr = Union[int, str]
`
	diags := analyze(t, source, PEP604Union{})
	assertFinding(t, diags, "use X | Y instead of Union[X, Y]")
}

func TestNoOptional(t *testing.T) {
	source := `from typing import Optional

x: Optional[int] = None
`
	diags := analyze(t, source, NoOptional{})
	assertFinding(t, diags, "use X | None instead of Optional[X]")

	param := `from typing import Optional

def f(x: Optional[int]) -> None:
    pass
`
	assertFinding(t, analyze(t, param, NoOptional{}), "use X | None instead of Optional[X]")
}

func TestOptionalInverse(t *testing.T) {
	source := `x: int | None = None
y: None | int = None
z: int | str = 0
`
	diags := analyze(t, source, Optional{})
	if len(diags) != 2 {
		t.Fatalf("Expected 2 findings, got %v", diags)
	}
	assertFinding(t, diags, "use Optional[X] instead of X | None")
	assertFinding(t, diags, "use Optional[X] instead of None | X")
}

func TestNoFutureAnnotations(t *testing.T) {
	source := `from __future__ import annotations
`
	diags := analyze(t, source, NoFutureAnnotations{})
	assertFinding(t, diags, "do not import annotations from __future__")

	aliased := `from __future__ import annotations as _annotations
`
	assertFinding(t, analyze(t, aliased, NoFutureAnnotations{}),
		"do not import annotations from __future__")

	other := `from __future__ import generator_stop
`
	assertNoFindings(t, analyze(t, other, NoFutureAnnotations{}))
}

func TestOverloadDefaultEllipsis(t *testing.T) {
	source := `from typing import overload

@overload
def f(x: int, flag: bool = False) -> int: ...
@overload
def f(x: str, flag: bool = ...) -> str: ...
def f(x, flag=False):
    return x
`
	diags := analyze(t, source, OverloadDefaultEllipsis{})
	if len(diags) != 1 {
		t.Fatalf("Expected 1 finding, got %v", diags)
	}
	assertFinding(t, diags, `default value for "flag" inside @overload should be '...'`)
}

func TestNoHintsOverloadImplementation(t *testing.T) {
	source := `from typing import overload

@overload
def f(x: int) -> int: ...
@overload
def f(x: str) -> str: ...
def f(x: object) -> object:
    return x
`
	diags := analyze(t, source, NoHintsOverloadImplementation{})
	if len(diags) != 1 {
		t.Fatalf("Expected 1 finding, got %v", diags)
	}
	assertFinding(t, diags, `overloaded function implementation "f" should not have type hints`)
}

func TestNoHintsOverloadImplementationCleanPass(t *testing.T) {
	source := `from typing import overload

@overload
def f(x: int) -> int: ...
def f(x):
    return x
`
	assertNoFindings(t, analyze(t, source, NoHintsOverloadImplementation{}))
}

func TestNoReturnUnion(t *testing.T) {
	source := `def f() -> int | str:
    return 0

def g() -> int:
    return 0
`
	diags := analyze(t, source, NoReturnUnion{})
	if len(diags) != 1 {
		t.Fatalf("Expected 1 finding, got %v", diags)
	}
	assertFinding(t, diags, "avoid returning union types")
}

func TestNoReturnUnionSpelledUnion(t *testing.T) {
	source := `from typing import Union

def f() -> Union[int, str]:
    return 0
`
	diags := analyze(t, source, NoReturnUnion{})
	if len(diags) != 1 {
		t.Fatalf("Expected 1 finding, got %v", diags)
	}
	assertFinding(t, diags, "avoid returning union types")
}

func TestNoReturnUnionRecursive(t *testing.T) {
	source := `def f() -> list[int | str]:
    return []
`
	assertNoFindings(t, analyze(t, source, NoReturnUnion{}))

	diags := analyze(t, source, NoReturnUnion{Recursive: true})
	assertFinding(t, diags, "avoid returning union types")
}

func TestNoReturnUnionSkipsOverloadImplementation(t *testing.T) {
	source := `from typing import overload

@overload
def f(x: int) -> int: ...
@overload
def f(x: str) -> str: ...
def f(x) -> int | str:
    return x
`
	assertNoFindings(t, analyze(t, source, NoReturnUnion{}))

	diags := analyze(t, source, NoReturnUnion{IncludeImplementation: true})
	assertFinding(t, diags, "avoid returning union types")
}

func TestNoUnionIsinstance(t *testing.T) {
	source := `def f(x):
    return isinstance(x, int | str)
`
	diags := analyze(t, source, NoUnionIsinstance{})
	assertFinding(t, diags, "use tuple instead of union in isinstance")

	tuple := `def f(x):
    return isinstance(x, (int, str))
`
	assertNoFindings(t, analyze(t, tuple, NoUnionIsinstance{}))
}

func TestNoTupleIsinstance(t *testing.T) {
	source := `def f(x):
    return issubclass(x, (int, str))
`
	diags := analyze(t, source, NoTupleIsinstance{})
	assertFinding(t, diags, "use union instead of tuple in issubclass")

	union := `def f(x):
    return issubclass(x, int | str)
`
	assertNoFindings(t, analyze(t, union, NoTupleIsinstance{}))
}
