package rules

import (
	"testing"

	"hooklint/internal/config"
)

func signaturesCfg() config.Signatures {
	return config.Signatures{
		Enabled:            true,
		AllowMixedArgs:     true,
		MaxArgs:            2,
		MaxPositionalArgs:  3,
		CheckDunderPosOnly: true,
	}
}

func TestSignaturesVarargsMixed(t *testing.T) {
	source := `def f(a, *rest):
    return rest
`
	diags := analyze(t, source, NewSignatures(signaturesCfg()))
	assertFinding(t, diags, `mixed varargs and positional_or_keyword arguments in function "f"`)
}

func TestSignaturesVarargsAlonePass(t *testing.T) {
	source := `def f(*rest, **kw):
    return rest
`
	assertNoFindings(t, analyze(t, source, NewSignatures(signaturesCfg())))
}

func TestSignaturesTypedVarargsMixed(t *testing.T) {
	source := `def f(a, *rest: int):
    return rest
`
	diags := analyze(t, source, NewSignatures(signaturesCfg()))
	assertFinding(t, diags, `mixed varargs and positional_or_keyword arguments in function "f"`)
}

func TestSignaturesTypedVarargsAlonePass(t *testing.T) {
	source := `def f(*rest: int, **kw: int):
    return rest
`
	assertNoFindings(t, analyze(t, source, NewSignatures(signaturesCfg())))
}

func TestSignaturesMixedPosOnly(t *testing.T) {
	source := `def f(a, /, b):
    return a + b
`
	cfg := signaturesCfg()
	cfg.AllowMixedArgs = false
	diags := analyze(t, source, NewSignatures(cfg))
	assertFinding(t, diags, "mixed positional_only and positional_or_keyword arguments")

	assertNoFindings(t, analyze(t, source, NewSignatures(signaturesCfg())))
}

func TestSignaturesTooManyArgs(t *testing.T) {
	source := `def f(a, b, c):
    return a
`
	diags := analyze(t, source, NewSignatures(signaturesCfg()))
	assertFinding(t, diags, `too many positional_or_keyword arguments in function "f" (max 2)`)
}

func TestSignaturesTooManyPositional(t *testing.T) {
	source := `def f(a, b, c, d, /):
    return a
`
	diags := analyze(t, source, NewSignatures(signaturesCfg()))
	assertFinding(t, diags, `too many positional arguments in function "f" (max 3)`)
}

func TestSignaturesMethodRepr(t *testing.T) {
	source := `class C:
    def m(self, a, b, c):
        return a
`
	diags := analyze(t, source, NewSignatures(signaturesCfg()))
	assertFinding(t, diags, `too many positional_or_keyword arguments in method "m" (max 2)`)
}

func TestSignaturesDunderPositionalOnly(t *testing.T) {
	source := `class C:
    def __getitem__(self, key, default):
        return default
`
	diags := analyze(t, source, NewSignatures(signaturesCfg()))
	assertFinding(t, diags, `dunder method "__getitem__" should use positional-only arguments`)
}

func TestSignaturesDunderConstructorExempt(t *testing.T) {
	source := `class C:
    def __init__(self, a, b):
        self.a = a
        self.b = b
`
	diags := analyze(t, source, NewSignatures(signaturesCfg()))
	for _, d := range diags {
		if d.Message == `dunder method "__init__" should use positional-only arguments` {
			t.Errorf("__init__ should be exempt from the positional-only check, got %v", d)
		}
	}
}

func TestSignaturesKeywordOnlyPass(t *testing.T) {
	source := `def f(a, /, *, b, c, d, e):
    return a
`
	assertNoFindings(t, analyze(t, source, NewSignatures(signaturesCfg())))
}

func TestSignaturesIgnorePrivate(t *testing.T) {
	source := `def _f(a, b, c):
    return a
`
	cfg := signaturesCfg()
	cfg.IgnorePrivate = true
	assertNoFindings(t, analyze(t, source, NewSignatures(cfg)))
}
