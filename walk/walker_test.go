package walk_test

import (
	"strings"
	"testing"

	"phpdoctype.dev/phpdoctype/diag"
	"phpdoctype.dev/phpdoctype/hierarchy"
	"phpdoctype.dev/phpdoctype/internal/config"
	"phpdoctype.dev/phpdoctype/token"
	"phpdoctype.dev/phpdoctype/walk"
)

func run(t *testing.T, src string, cfg config.Config) *diag.Collector {
	t.Helper()
	artifacts := walk.CollectArtifacts(token.NewScanner(strings.NewReader(src)))
	oracle := hierarchy.NewOracle(artifacts)
	col := &diag.Collector{File: "test.php"}
	w := walk.NewWalker(cfg, oracle, col, artifacts)
	if err := w.Walk(token.NewScanner(strings.NewReader(src))); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	return col
}

func hasCode(col *diag.Collector, code string) bool {
	for _, f := range col.Findings {
		if f.Code == code {
			return true
		}
	}
	return false
}

func TestParamAndReturnMismatch(t *testing.T) {
	const src = `<?php
/**
 * @param string $x
 * @return int
 */
function f(int $x): string {
	return "";
}
`
	col := run(t, src, config.Strict())
	if !hasCode(col, diag.CodeFunParamMismatch) {
		t.Errorf("findings = %+v, want %s", col.Findings, diag.CodeFunParamMismatch)
	}
	if !hasCode(col, diag.CodeFunRetMismatch) {
		t.Errorf("findings = %+v, want %s", col.Findings, diag.CodeFunRetMismatch)
	}
}

func TestMatchingTypesProduceNoMismatch(t *testing.T) {
	const src = `<?php
/**
 * @param int $x
 * @return string
 */
function f(int $x): string {
	return "";
}
`
	col := run(t, src, config.Strict())
	if hasCode(col, diag.CodeFunParamMismatch) || hasCode(col, diag.CodeFunRetMismatch) {
		t.Errorf("unexpected mismatch findings: %+v", col.Findings)
	}
}

func TestMissingDocOnPublicFunction(t *testing.T) {
	const src = `<?php
class C {
	public function f(int $x): void {}
}
`
	col := run(t, src, config.Strict())
	if !hasCode(col, diag.CodeFunMissingDoc) {
		t.Errorf("findings = %+v, want %s", col.Findings, diag.CodeFunMissingDoc)
	}
}

// A @param annotation narrower than its native type hint (a concrete
// class where the signature only demands the interface) is not a
// mismatch: every value the doc comment describes is still valid per
// the native declaration.
func TestNarrowingDocParamSatisfiesNativeInterface(t *testing.T) {
	const src = `<?php
class MyIterator implements Iterator {}

/**
 * @param \MyIterator $it
 */
function f(\Iterator $it) {}
`
	col := run(t, src, config.Strict())
	if hasCode(col, diag.CodeFunParamMismatch) {
		t.Errorf("unexpected mismatch: %+v", col.Findings)
	}
}

func TestPassSplatMismatch(t *testing.T) {
	const src = `<?php
/**
 * @param int $x
 */
function f(int &$x) {}
`
	col := run(t, src, config.Strict())
	if !hasCode(col, diag.CodePassSplatMismatch) {
		t.Errorf("findings = %+v, want %s", col.Findings, diag.CodePassSplatMismatch)
	}
}

func TestStyleFixSuggestion(t *testing.T) {
	const src = `<?php
/**
 * @param integer $x
 */
function f(int $x) {}
`
	col := run(t, src, config.Strict())
	if !hasCode(col, diag.CodeTypeStyle) {
		t.Errorf("findings = %+v, want %s", col.Findings, diag.CodeTypeStyle)
	}
}

func TestPropertyVarMismatch(t *testing.T) {
	const src = `<?php
class C {
	/** @var string */
	public int $x;
}
`
	col := run(t, src, config.Strict())
	if !hasCode(col, diag.CodeVarMismatch) {
		t.Errorf("findings = %+v, want %s", col.Findings, diag.CodeVarMismatch)
	}
}

func TestPropertyVarStyleUsesVarSpecificCode(t *testing.T) {
	const src = `<?php
class C {
	/** @var integer */
	public int $x;
}
`
	col := run(t, src, config.Strict())
	if !hasCode(col, diag.CodeVarTypeStyle) {
		t.Errorf("findings = %+v, want %s", col.Findings, diag.CodeVarTypeStyle)
	}
	if hasCode(col, diag.CodeTypeStyle) {
		t.Errorf("findings = %+v, want the @param/@return style code absent for a @var fix", col.Findings)
	}
}

// A subclass declared under an explicit namespace must still resolve
// against its parent through the shared hierarchy built across both
// declarations: pass 1's artifact keys have to agree with pass 2's
// namespace-qualified lookups.
func TestNamespacedHierarchyResolvesAcrossPasses(t *testing.T) {
	const src = `<?php
namespace App;

class Animal {}
class Dog extends Animal {}

/** @return Dog */
function f(): Animal {}
`
	col := run(t, src, config.Strict())
	if hasCode(col, diag.CodeFunRetMismatch) {
		t.Errorf("unexpected mismatch for a namespaced subclass return: %+v", col.Findings)
	}
}

// A `@return static` annotation is expected to satisfy a native `self`
// return type: static's supertype set includes self, per §4.3, but
// only once atomLookupName actually queries Hierarchy with the
// "static(...)" form static's own Atom.String renders, instead of the
// bare class name the KindClass branch used to also send it through.
func TestDocStaticSatisfiesNativeSelf(t *testing.T) {
	const src = `<?php
class Builder {
	/** @return static */
	public function withX(): self {
		return $this;
	}
}
`
	col := run(t, src, config.Strict())
	if hasCode(col, diag.CodeFunRetMismatch) {
		t.Errorf("unexpected mismatch for @return static vs native self: %+v", col.Findings)
	}
}
