package phptype

// Hierarchy answers "what is directly or transitively above this
// type" for the built-in keyword rules, a predefined class/interface
// library, a caller-supplied extension hierarchy, and self/parent/
// static resolved against scope. It excludes the queried name itself
// from the result and is otherwise unordered and may contain
// duplicates; callers dedupe as needed.
//
// Implementations must be pure functions of their own read-only state
// plus the given Scope: safe to share across concurrent file
// invocations, per §5.
type Hierarchy interface {
	SuperTypes(scope Scope, name string) []string
}

// Compare decides whether every value of narrow is a value of wide,
// per §4.4. wide and narrow are canonical Types; a zero Type stands
// for the "undefined" (failed-parse) case.
func Compare(wide, narrow Type, scope Scope, h Hierarchy) bool {
	if narrow.IsZero() {
		return false
	}
	if wide.IsZero() || isMixed(wide) || isNever(narrow) {
		return true
	}

	for _, n := range narrow.Unions {
		expanded := expandIntersection(n, scope, h)
		if !anyWideSatisfies(wide, expanded) {
			return false
		}
	}
	return true
}

func isMixed(t Type) bool {
	return len(t.Unions) == 1 && len(t.Unions[0].Atoms) == 1 && t.Unions[0].Atoms[0].Kind == KindMixed
}

func isNever(t Type) bool {
	return len(t.Unions) == 1 && len(t.Unions[0].Atoms) == 1 && t.Unions[0].Atoms[0].Kind == KindNever
}

// expandIntersection returns the atom set of one narrow intersection
// together with every atom's known supertypes, as a lookup set of
// canonical atom strings.
func expandIntersection(in Intersection, scope Scope, h Hierarchy) map[string]bool {
	set := make(map[string]bool, len(in.Atoms)*2)
	for _, a := range in.Atoms {
		set[a.String()] = true
		for _, sup := range h.SuperTypes(scope, atomLookupName(a)) {
			set[sup] = true
		}
	}
	return set
}

// atomLookupName returns the name Hierarchy.SuperTypes should be
// queried with for a given atom: the bare class name for KindClass, or
// its canonical form otherwise (the keyword spelling, or "static(X)"
// for KindStatic, which Hierarchy gives its own §4.3 treatment).
func atomLookupName(a Atom) string {
	if a.Kind == KindClass {
		return a.Name
	}
	return a.String()
}

// anyWideSatisfies reports whether at least one intersection of wide
// has every one of its components present in expanded.
func anyWideSatisfies(wide Type, expanded map[string]bool) bool {
	for _, w := range wide.Unions {
		ok := true
		for _, a := range w.Atoms {
			if !expanded[a.String()] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
