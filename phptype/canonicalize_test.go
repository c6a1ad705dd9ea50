package phptype_test

import (
	"testing"

	"phpdoctype.dev/phpdoctype/hierarchy"
	"phpdoctype.dev/phpdoctype/phptype"
)

func canon(t *testing.T, text string) phptype.Type {
	t.Helper()
	res := parse(t, text, phptype.WantType, false)
	if !res.TypeOK {
		t.Fatalf("parse(%q) failed", text)
	}
	return res.Type
}

func TestUnionCommutative(t *testing.T) {
	a := canon(t, "int|string|bool")
	b := canon(t, "bool|string|int")
	if a.String() != b.String() {
		t.Errorf("%q != %q", a.String(), b.String())
	}
}

func TestUnionIdempotent(t *testing.T) {
	a := canon(t, "int|int|string")
	if a.String() != "array-key|int|string" {
		t.Errorf("got %q, want %q", a.String(), "array-key|int|string")
	}
}

func TestMixedAbsorbsEverything(t *testing.T) {
	a := canon(t, "int|mixed|string")
	if a.String() != "mixed" {
		t.Errorf("got %q, want %q", a.String(), "mixed")
	}
}

func TestNeverElidedUnlessSole(t *testing.T) {
	a := canon(t, "int|never")
	if a.String() != "int" {
		t.Errorf("got %q, want %q", a.String(), "int")
	}
	b := canon(t, "never")
	if b.String() != "never" {
		t.Errorf("got %q, want %q", b.String(), "never")
	}
}

func TestUnionNarrowingElision(t *testing.T) {
	// A concrete class is dropped from a union that already contains one
	// of its supertypes: object subsumes any class atom.
	a := canon(t, `\RuntimeException|object`)
	if a.String() != "object" {
		t.Errorf("got %q, want %q", a.String(), "object")
	}
}

func TestIntersectionSupertypeElision(t *testing.T) {
	// \RuntimeException already implies \Exception, so the wider member
	// is redundant inside an intersection.
	a := canon(t, `\RuntimeException&\Exception`)
	if a.String() != `\RuntimeException` {
		t.Errorf("got %q, want %q", a.String(), `\RuntimeException`)
	}
}

func TestIntersectionNeverCollapsesWhole(t *testing.T) {
	a := canon(t, `\Countable&\Iterator&\ArrayAccess`)
	if a.String() != `\ArrayAccess&\Countable&\Iterator` {
		t.Errorf("got %q", a.String())
	}
}

func TestDerivedMembershipArrayKey(t *testing.T) {
	a := canon(t, "int|string")
	if a.String() != "array-key|int|string" {
		t.Errorf("got %q, want array-key added after elision", a.String())
	}
}

func TestDerivedMembershipScalar(t *testing.T) {
	a := canon(t, "bool|float|int|string")
	// int|string derives array-key, then bool|float|array-key derives
	// scalar; both additions apply post-elision without re-eliding.
	if a.String() != "array-key|bool|float|int|scalar|string" {
		t.Errorf("got %q", a.String())
	}
}

func TestIdempotentReparse(t *testing.T) {
	a := canon(t, "bool|float|int|string")
	b := canon(t, a.String())
	if a.String() != b.String() {
		t.Errorf("reparsing %q produced %q", a.String(), b.String())
	}
}

func TestApplyFixesRoundTrip(t *testing.T) {
	res := parse(t, "integer|boolean", phptype.WantType, false)
	if !res.TypeOK {
		t.Fatal("TypeOK = false")
	}
	if res.Fixed != "int|bool" {
		t.Errorf("Fixed = %q, want %q", res.Fixed, "int|bool")
	}
	reparsed := parse(t, res.Fixed, phptype.WantType, false)
	if !reparsed.TypeOK || reparsed.Fixed != res.Fixed {
		t.Errorf("Fixed rendering %q is not itself already fixed-point", res.Fixed)
	}
}

func TestComparatorReflexive(t *testing.T) {
	scope := phptype.NewRootScope()
	h := hierarchy.NewOracle(nil)
	a := canon(t, "int|string")
	if !phptype.Compare(a, a, scope, h) {
		t.Error("Compare(a, a) = false, want true")
	}
}

func TestComparatorMixedAbsorption(t *testing.T) {
	scope := phptype.NewRootScope()
	h := hierarchy.NewOracle(nil)
	mixed := canon(t, "mixed")
	narrow := canon(t, "int")
	if !phptype.Compare(mixed, narrow, scope, h) {
		t.Error("Compare(mixed, int) = false, want true")
	}
	if phptype.Compare(narrow, mixed, scope, h) {
		t.Error("Compare(int, mixed) = true, want false")
	}
}

func TestComparatorNeverIsBottom(t *testing.T) {
	scope := phptype.NewRootScope()
	h := hierarchy.NewOracle(nil)
	never := canon(t, "never")
	narrow := canon(t, "int")
	if !phptype.Compare(narrow, never, scope, h) {
		t.Error("Compare(int, never) = false, want true")
	}
}
