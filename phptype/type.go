package phptype

import (
	"sort"
	"strings"
)

// Kind identifies an atom of a canonical type: either one of the fixed
// lowercase keywords the grammar knows about, a namespace-qualified
// class name, or the synthetic late-static-binding form.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindArray
	KindIterable
	KindObject
	KindCallable
	KindResource
	KindMixed
	KindNever
	KindNull
	KindVoid
	KindSelf
	KindParent
	KindArrayKey
	KindScalar
	KindCallableString
	// KindClass is a namespace-qualified class/interface/enum name,
	// stored in Atom.Name with its leading separator, e.g. `\App\Foo`.
	KindClass
	// KindStatic is the synthetic static(FQ) form: late static binding
	// resolved against a known enclosing class FQ, stored in Atom.Name.
	KindStatic
)

var keywordText = map[Kind]string{
	KindInt:            "int",
	KindFloat:          "float",
	KindBool:           "bool",
	KindString:         "string",
	KindArray:          "array",
	KindIterable:       "iterable",
	KindObject:         "object",
	KindCallable:       "callable",
	KindResource:       "resource",
	KindMixed:          "mixed",
	KindNever:          "never",
	KindNull:           "null",
	KindVoid:           "void",
	KindSelf:           "self",
	KindParent:         "parent",
	KindArrayKey:       "array-key",
	KindScalar:         "scalar",
	KindCallableString: "callable-string",
}

// keywordAliases maps every spelling the parser accepts (case folded
// to lower) to its canonical Kind, including the PHP-FIG standard's
// long forms and the source's `never-return`-family aliases.
var keywordAliases = map[string]Kind{
	"int":             KindInt,
	"integer":         KindInt,
	"float":           KindFloat,
	"double":          KindFloat,
	"bool":            KindBool,
	"boolean":         KindBool,
	"true":            KindBool,
	"false":           KindBool,
	"string":          KindString,
	"array":           KindArray,
	"iterable":        KindIterable,
	"object":          KindObject,
	"callable":        KindCallable,
	"resource":        KindResource,
	"mixed":           KindMixed,
	"never":           KindNever,
	"never-return":    KindNever,
	"never-returns":   KindNever,
	"no-return":       KindNever,
	"void":            KindVoid,
	"null":            KindNull,
	"nan":             KindNull,
	"self":            KindSelf,
	"parent":          KindParent,
	"array-key":       KindArrayKey,
	"scalar":          KindScalar,
	"callable-string": KindCallableString,
}

// Atom is a single component of an Intersection.
type Atom struct {
	Kind Kind
	// Name holds the fully-qualified class name (KindClass) or the
	// resolved FQ class name for late static binding (KindStatic).
	Name string
}

func (a Atom) String() string {
	if a.Kind == KindClass {
		return a.Name
	}
	if a.Kind == KindStatic {
		return "static(" + a.Name + ")"
	}
	return keywordText[a.Kind]
}

func (a Atom) equal(b Atom) bool { return a.Kind == b.Kind && a.Name == b.Name }

// Intersection is a non-empty, deduplicated, sorted set of Atoms
// joined by "&".
type Intersection struct {
	Atoms []Atom
}

func (in Intersection) String() string {
	parts := make([]string, len(in.Atoms))
	for i, a := range in.Atoms {
		parts[i] = a.String()
	}
	return strings.Join(parts, "&")
}

func newIntersection(atoms ...Atom) Intersection {
	return sortDedupAtoms(atoms)
}

func sortDedupAtoms(atoms []Atom) Intersection {
	sort.Slice(atoms, func(i, j int) bool { return atoms[i].String() < atoms[j].String() })
	out := atoms[:0:0]
	for i, a := range atoms {
		if i > 0 && a.equal(atoms[i-1]) {
			continue
		}
		out = append(out, a)
	}
	return Intersection{Atoms: out}
}

// Type is a canonical PHP type: a union of intersections in
// disjunctive normal form, sorted and deduplicated at every level, per
// the invariants of §3.
type Type struct {
	Unions []Intersection
}

// String renders the canonical form: intersections sorted
// lexicographically and joined by "|".
func (t Type) String() string {
	parts := make([]string, len(t.Unions))
	for i, in := range t.Unions {
		parts[i] = in.String()
	}
	return strings.Join(parts, "|")
}

// IsZero reports whether t carries no components (a parse failure, not
// a valid canonical type).
func (t Type) IsZero() bool { return len(t.Unions) == 0 }

// Single returns a Type consisting of exactly one atom.
func Single(k Kind) Type { return Type{Unions: []Intersection{newIntersection(Atom{Kind: k})}} }

// Class returns a Type consisting of exactly one qualified class atom.
func Class(fq string) Type {
	return Type{Unions: []Intersection{newIntersection(Atom{Kind: KindClass, Name: fq})}}
}

// StaticOf returns the synthetic static(FQ) atom Type.
func StaticOf(fq string) Type {
	return Type{Unions: []Intersection{newIntersection(Atom{Kind: KindStatic, Name: fq})}}
}

func sortUnions(u []Intersection) []Intersection {
	sort.Slice(u, func(i, j int) bool { return u[i].String() < u[j].String() })
	out := u[:0:0]
	for i, in := range u {
		if i > 0 && in.String() == u[i-1].String() {
			continue
		}
		out = append(out, in)
	}
	return out
}
