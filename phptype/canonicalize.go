package phptype

import "fmt"

// normalizeIntersection applies the §3 intersection invariants to a
// freshly parsed, non-empty list of atoms joined by "&": never
// collapses the whole intersection, dominated members (whose
// supertypes already cover another member) are dropped, and mixed is
// dropped once something else survives.
func normalizeIntersection(atoms []Atom, scope Scope, h Hierarchy) (Intersection, error) {
	for _, a := range atoms {
		if a.Kind == KindNever {
			return newIntersection(Atom{Kind: KindNever}), nil
		}
	}
	if len(atoms) > 1 {
		for _, a := range atoms {
			if a.Kind == KindMixed {
				continue
			}
			if !intersectable(a, scope, h) {
				return Intersection{}, fmt.Errorf("%s cannot be used in an intersection type", a.String())
			}
		}
	}

	keep := make([]bool, len(atoms))
	for i := range atoms {
		keep[i] = true
	}
	for i, a := range atoms {
		sup := supersetOf(a, scope, h)
		for j, b := range atoms {
			if i == j || !keep[j] {
				continue
			}
			if sup[b.String()] {
				keep[j] = false
			}
		}
	}
	var kept []Atom
	for i, a := range atoms {
		if keep[i] {
			kept = append(kept, a)
		}
	}
	if len(kept) > 1 {
		var noMixed []Atom
		for _, a := range kept {
			if a.Kind != KindMixed {
				noMixed = append(noMixed, a)
			}
		}
		if len(noMixed) > 0 {
			kept = noMixed
		}
	}
	return newIntersection(kept...), nil
}

// intersectable reports whether a is one of the atom shapes the
// grammar allows inside an intersection: object, iterable, callable,
// or anything with object in its supertype chain (user classes,
// self/parent/static).
func intersectable(a Atom, _ Scope, _ Hierarchy) bool {
	switch a.Kind {
	case KindObject, KindIterable, KindCallable, KindClass, KindStatic, KindSelf, KindParent:
		return true
	default:
		return false
	}
}

func isDerivedMembershipAtom(in Intersection) bool {
	if len(in.Atoms) != 1 {
		return false
	}
	switch in.Atoms[0].Kind {
	case KindArrayKey, KindScalar, KindIterable:
		return true
	}
	return false
}

func supersetOf(a Atom, scope Scope, h Hierarchy) map[string]bool {
	set := map[string]bool{}
	for _, s := range h.SuperTypes(scope, atomLookupName(a)) {
		set[s] = true
	}
	return set
}

// normalizeUnion applies the §3 union invariants: derived-membership
// additions (array-key, scalar, iterable), dominance elision between
// the original members (which subsumes dropping never once another
// member survives), mixed absorption, and final sort/dedupe.
func normalizeUnion(inters []Intersection, scope Scope, h Hierarchy) Type {
	for _, in := range inters {
		if len(in.Atoms) == 1 && in.Atoms[0].Kind == KindMixed {
			return Single(KindMixed)
		}
	}

	keep := make([]bool, len(inters))
	for i := range inters {
		keep[i] = true
	}
	for i, a := range inters {
		for j, b := range inters {
			if i == j || !keep[j] {
				continue
			}
			if a.String() == b.String() {
				continue
			}
			// array-key/scalar/iterable are derived-membership markers:
			// once present (whether the caller wrote them directly or a
			// prior canonicalization added them) they never act as the
			// dominating side of an elision, or reparsing an already
			// canonical union would strip the very primitives that
			// justified adding the marker in the first place.
			if isDerivedMembershipAtom(b) {
				continue
			}
			wide := Type{Unions: []Intersection{b}}
			narrow := Type{Unions: []Intersection{a}}
			if Compare(wide, narrow, scope, h) {
				keep[i] = false
				break
			}
		}
	}
	var kept []Intersection
	for i, in := range inters {
		if keep[i] {
			kept = append(kept, in)
		}
	}
	if len(kept) == 0 {
		kept = []Intersection{newIntersection(Atom{Kind: KindNever})}
	}

	hasKind := func(k Kind) bool {
		for _, in := range kept {
			if len(in.Atoms) == 1 && in.Atoms[0].Kind == k {
				return true
			}
		}
		return false
	}
	hasClass := func(fq string) bool {
		for _, in := range kept {
			if len(in.Atoms) == 1 && in.Atoms[0].Kind == KindClass && in.Atoms[0].Name == fq {
				return true
			}
		}
		return false
	}
	if hasKind(KindInt) && hasKind(KindString) && !hasKind(KindArrayKey) {
		kept = append(kept, newIntersection(Atom{Kind: KindArrayKey}))
	}
	if hasKind(KindBool) && hasKind(KindFloat) && hasKind(KindArrayKey) && !hasKind(KindScalar) {
		kept = append(kept, newIntersection(Atom{Kind: KindScalar}))
	}
	if hasClass(`\Traversable`) && hasKind(KindArray) && !hasKind(KindIterable) {
		kept = append(kept, newIntersection(Atom{Kind: KindIterable}))
	}

	return Type{Unions: sortUnions(kept)}
}
